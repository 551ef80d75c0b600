package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/wot-oss/resx/internal/commands"
	"github.com/wot-oss/resx/internal/utils"
)

// Get prints the rendered value of an entry, or writes it to outFile if given. Values without a text form
// are only written to files.
func Get(ctx context.Context, loc string, flags ContainerFlags, name string, metadata bool, outFile string) error {
	r, err := openContainer(ctx, loc, flags)
	if err != nil {
		return err
	}
	defer r.Close()

	v, err := commands.Get(ctx, r, name, metadata)
	if err != nil {
		Stderrf("Could not get value of %s: %v", name, err)
		return err
	}
	rendered, err := commands.Render(v.Value, v.Type)
	if err != nil {
		Stderrf("Could not render value of %s: %v", name, err)
		return err
	}

	if outFile != "" {
		if err := utils.AtomicWriteFile(outFile, rendered.Data, 0664); err != nil {
			Stderrf("Could not write %s: %v", outFile, err)
			return err
		}
		return nil
	}
	if !rendered.IsText() && rendered.MediaType != commands.MediaTypeJSON {
		err := errors.New("binary value")
		Stderrf("Value of %s is %s. Use --output to write it to a file", name, rendered.MediaType)
		return err
	}
	_, err = os.Stdout.Write(rendered.Data)
	if err == nil && rendered.IsText() {
		fmt.Println()
	}
	return err
}

// Type prints the assembly-qualified type name of an entry's value
func Type(ctx context.Context, loc string, flags ContainerFlags, name string, metadata bool) error {
	r, err := openContainer(ctx, loc, flags)
	if err != nil {
		return err
	}
	defer r.Close()

	n, err := commands.Find(r, name, metadata)
	if err != nil {
		Stderrf("Could not find %s: %v", name, err)
		return err
	}
	fmt.Println(n.ValueTypeName(nil))
	return nil
}
