package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/wot-oss/resx/internal/commands"
)

// Search prints the entries of the container at loc matching query, best match first
func Search(ctx context.Context, loc string, flags ContainerFlags, query string) error {
	r, err := openContainer(ctx, loc, flags)
	if err != nil {
		return err
	}
	defer r.Close()

	hits, err := commands.Search(ctx, r, query)
	if err != nil {
		Stderrf("Could not search %s: %v", loc, err)
		return err
	}
	if len(hits) == 0 {
		fmt.Println("no entries found")
		return nil
	}
	colWidth := columnWidth()
	table := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(table, "NAME\tSCORE\tMETADATA\n")
	for _, h := range hits {
		_, _ = fmt.Fprintf(table, "%s\t%.3f\t%t\n", elideString(h.Name, colWidth), h.Score, h.Metadata)
	}
	_ = table.Flush()
	return nil
}
