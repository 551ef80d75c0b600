package completion

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wot-oss/resx/internal/commands"
)

// CompleteEntryNames completes the entry name argument of commands taking <CONTAINER> <NAME>
func CompleteEntryNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		return nil, cobra.ShellCompDirectiveDefault
	case 1:
	default:
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	metadata, _ := cmd.Flags().GetBool("metadata")
	opts := commands.OptionsFromConfig()
	if bp, _ := cmd.Flags().GetString("basepath"); bp != "" {
		opts.BasePath = bp
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	r, err := commands.Open(ctx, args[0], opts)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer r.Close()

	infos, err := commands.List(ctx, r, commands.Filter{}, metadata)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var names []string
	for _, i := range infos {
		if i.Metadata == metadata && strings.HasPrefix(i.Name, toComplete) {
			names = append(names, i.Name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
