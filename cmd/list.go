package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/wot-oss/resx/internal/app/cli"
)

var listCmd = &cobra.Command{
	Use:   "list <CONTAINER>",
	Short: "List the entries of a container",
	Long: `List the data entries of a container with their type, kind, line and comment.
CONTAINER is a local path, an http(s) URL or an s3://bucket/key URL.
Entries can be narrowed down with --include and --exclude patterns.`,
	Args: cobra.ExactArgs(1),
	Run:  executeList,
}

func init() {
	RootCmd.AddCommand(listCmd)
	addContainerFlags(listCmd)
	addFilterFlags(listCmd)
	listCmd.Flags().BoolP("metadata", "m", false, "list metadata entries too")
}

func executeList(cmd *cobra.Command, args []string) {
	metadata, _ := cmd.Flags().GetBool("metadata")
	err := cli.List(cmd.Context(), args[0], containerFlags(cmd), filterFlags(cmd), metadata)
	if err != nil {
		os.Exit(1)
	}
}
