package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/wot-oss/resx/internal/app/cli"
)

var searchCmd = &cobra.Command{
	Use:   "search <CONTAINER> <QUERY>",
	Short: "Search the entries of a container",
	Long: `Search names, comments, type names and text values of all entries.
QUERY uses the bleve query string syntax, e.g. "comment:start" or "+name:Error*".
See https://blevesearch.com/docs/Query-String-Query/`,
	Args: cobra.ExactArgs(2),
	Run:  executeSearch,
}

func init() {
	RootCmd.AddCommand(searchCmd)
	addContainerFlags(searchCmd)
}

func executeSearch(cmd *cobra.Command, args []string) {
	err := cli.Search(cmd.Context(), args[0], containerFlags(cmd), args[1])
	if err != nil {
		os.Exit(1)
	}
}
