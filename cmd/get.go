package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/wot-oss/resx/cmd/completion"
	"github.com/wot-oss/resx/internal/app/cli"
)

var getCmd = &cobra.Command{
	Use:   "get <CONTAINER> <NAME>",
	Short: "Print the value of an entry",
	Long: `Print the value of an entry. Strings and scalars are printed as text, other objects as JSON.
Binary values, streams and images are only written to a file given with --output.`,
	Args:              cobra.ExactArgs(2),
	Run:               executeGet,
	ValidArgsFunction: completion.CompleteEntryNames,
}

func init() {
	RootCmd.AddCommand(getCmd)
	addContainerFlags(getCmd)
	getCmd.Flags().BoolP("metadata", "m", false, "get a metadata entry")
	getCmd.Flags().StringP("output", "o", "", "write the value to this file")
}

func executeGet(cmd *cobra.Command, args []string) {
	metadata, _ := cmd.Flags().GetBool("metadata")
	outFile := cmd.Flag("output").Value.String()
	err := cli.Get(cmd.Context(), args[0], containerFlags(cmd), args[1], metadata, outFile)
	if err != nil {
		os.Exit(1)
	}
}
