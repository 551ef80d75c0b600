package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/wot-oss/resx/internal/commands"
)

const columnWidthName = "RESX_COLUMNWIDTH"
const columnWidthDefault = 40

// List prints the entries of the container at loc as a table
func List(ctx context.Context, loc string, flags ContainerFlags, filter commands.Filter, metadata bool) error {
	r, err := openContainer(ctx, loc, flags)
	if err != nil {
		return err
	}
	defer r.Close()

	entries, err := commands.List(ctx, r, filter, metadata)
	if err != nil {
		Stderrf("Could not list %s: %v", loc, err)
		return err
	}
	printEntries(entries, metadata)
	return nil
}

func printEntries(entries []commands.EntryInfo, metadata bool) {
	colWidth := columnWidth()
	table := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	header := "NAME\tTYPE\tKIND\tLINE\tCOMMENT"
	if metadata {
		header += "\tMETADATA"
	}
	_, _ = fmt.Fprintln(table, header)
	for _, e := range entries {
		name := elideString(e.Name, colWidth)
		typ := elideString(shortTypeName(e.Type), colWidth)
		comment := elideString(strings.ReplaceAll(e.Comment, "\n", " "), colWidth)
		line := fmt.Sprintf("%s\t%s\t%s\t%d\t%s", name, typ, e.Kind, e.Position.Line, comment)
		if metadata {
			line += "\t" + strconv.FormatBool(e.Metadata)
		}
		_, _ = fmt.Fprintln(table, line)
	}
	_ = table.Flush()
}

// shortTypeName drops assembly version, culture and key token from an assembly-qualified type name
func shortTypeName(typeName string) string {
	parts := strings.SplitN(typeName, ",", 3)
	if len(parts) < 2 {
		return typeName
	}
	return strings.TrimSpace(parts[0]) + ", " + strings.TrimSpace(parts[1])
}

func elideString(value string, colWidth int) string {
	if len(value) < colWidth {
		return value
	}

	var elidedValue string
	for i, rn := range value {
		elidedValue += string(rn)
		if i >= (colWidth - 4) {
			return elidedValue + "..."
		}
	}
	return value + "..."
}

func columnWidth() int {
	cw, err := strconv.Atoi(os.Getenv(columnWidthName))
	if err != nil {
		cw = columnWidthDefault
	}
	return cw
}
