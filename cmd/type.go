package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/wot-oss/resx/cmd/completion"
	"github.com/wot-oss/resx/internal/app/cli"
)

var typeCmd = &cobra.Command{
	Use:               "type <CONTAINER> <NAME>",
	Short:             "Print the type name of an entry's value",
	Long:              `Print the assembly-qualified type name of an entry's value without materializing it.`,
	Args:              cobra.ExactArgs(2),
	Run:               executeType,
	ValidArgsFunction: completion.CompleteEntryNames,
}

func init() {
	RootCmd.AddCommand(typeCmd)
	addContainerFlags(typeCmd)
	typeCmd.Flags().BoolP("metadata", "m", false, "use a metadata entry")
}

func executeType(cmd *cobra.Command, args []string) {
	metadata, _ := cmd.Flags().GetBool("metadata")
	err := cli.Type(cmd.Context(), args[0], containerFlags(cmd), args[1], metadata)
	if err != nil {
		os.Exit(1)
	}
}
