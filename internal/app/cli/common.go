// Package cli contains implementations of CLI commands. The command code is supposed contain only logic specific to
// the CLI and delegate complex/reusable stuff to code in /internal/commands.
// Commands in cli package should print results in human-readable format to stdout.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/wot-oss/resx/internal/commands"
	"github.com/wot-oss/resx/internal/resx"
)

const DefaultListSeparator = ","

// Stderrf prints a message to os.Stderr, followed by newline
func Stderrf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format, args...)
	_, _ = fmt.Fprintln(os.Stderr)
}

// ContainerFlags are the flags shared by all commands reading a container. Empty values fall back to the
// configuration.
type ContainerFlags struct {
	BasePath   string
	Candidates []string
}

func (cf ContainerFlags) options() commands.OpenOptions {
	opts := commands.OptionsFromConfig()
	if cf.BasePath != "" {
		opts.BasePath = cf.BasePath
	}
	if len(cf.Candidates) > 0 {
		opts.Candidates = cf.Candidates
	}
	return opts
}

func openContainer(ctx context.Context, loc string, flags ContainerFlags) (*resx.Reader, error) {
	r, err := commands.Open(ctx, loc, flags.options())
	if err != nil {
		Stderrf("Could not open %s: %v", loc, err)
		return nil, err
	}
	return r, nil
}
