package cmd

import (
	"github.com/spf13/cobra"
	"github.com/wot-oss/resx/internal/app/cli"
	"github.com/wot-oss/resx/internal/commands"
	"github.com/wot-oss/resx/internal/utils"
)

// addContainerFlags adds the flags of commands reading a container
func addContainerFlags(c *cobra.Command) {
	c.Flags().StringP("basepath", "b", "", "directory relative file references are resolved against (default is the container's directory)")
	c.Flags().StringSlice("candidates", nil, "assembly display names searched for types given without assembly, e.g. \"System.Drawing, Version=4.0.0.0\". Repeat the flag for more than one")
}

func addFilterFlags(c *cobra.Command) {
	c.Flags().String("include", "", "comma-separated gitignore-style patterns of entry names to include")
	c.Flags().String("exclude", "", "comma-separated gitignore-style patterns of entry names to exclude")
}

func containerFlags(c *cobra.Command) cli.ContainerFlags {
	cands, _ := c.Flags().GetStringSlice("candidates")
	return cli.ContainerFlags{
		BasePath:   c.Flag("basepath").Value.String(),
		Candidates: cands,
	}
}

func filterFlags(c *cobra.Command) commands.Filter {
	return commands.Filter{
		Include: utils.ParseAsList(c.Flag("include").Value.String(), cli.DefaultListSeparator, true),
		Exclude: utils.ParseAsList(c.Flag("exclude").Value.String(), cli.DefaultListSeparator, true),
	}
}
