package cli

import (
	"context"
	"fmt"

	"github.com/wot-oss/resx/internal/commands"
)

// Extract writes the matching entry values of the container at loc to files in outDir and prints a summary
func Extract(ctx context.Context, loc string, flags ContainerFlags, outDir string, filter commands.Filter) error {
	r, err := openContainer(ctx, loc, flags)
	if err != nil {
		return err
	}
	defer r.Close()

	res, err := commands.Extract(ctx, r, outDir, filter)
	if err != nil {
		Stderrf("Could not extract %s: %v", loc, err)
		return err
	}
	for _, f := range res.Files {
		fmt.Printf("%s\t-> %s\n", f.Name, f.File)
	}
	for _, e := range res.Errors {
		Stderrf("skipped %v", e)
	}
	fmt.Printf("extracted %d of %d entries to %s\n", len(res.Files), len(res.Files)+len(res.Errors), outDir)
	if len(res.Errors) > 0 {
		return fmt.Errorf("%d entries could not be extracted", len(res.Errors))
	}
	return nil
}
