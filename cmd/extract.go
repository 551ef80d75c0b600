package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/wot-oss/resx/internal/app/cli"
	"github.com/wot-oss/resx/internal/commands"
)

var extractCmd = &cobra.Command{
	Use:   "extract <CONTAINER> <OUTPUT DIR>",
	Short: "Extract the values of a container to files",
	Long: `Extract the value of every data entry to its own file in OUTPUT DIR and write a
` + commands.ManifestFilename + ` mapping entry names to files.
Entries whose values cannot be materialized are skipped and reported.`,
	Args: cobra.ExactArgs(2),
	Run:  executeExtract,
}

func init() {
	RootCmd.AddCommand(extractCmd)
	addContainerFlags(extractCmd)
	addFilterFlags(extractCmd)
}

func executeExtract(cmd *cobra.Command, args []string) {
	err := cli.Extract(cmd.Context(), args[0], containerFlags(cmd), args[1], filterFlags(cmd))
	if err != nil {
		os.Exit(1)
	}
}
