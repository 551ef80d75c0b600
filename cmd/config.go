package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/wot-oss/resx/internal/app/cli"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the configuration",
	Long: `Show the configuration in effect, or change it with the set and unset subcommands.
Changes are written to config.json in the config directory.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, k := range cli.SettableKeys {
			fmt.Printf("%s: %v\n", k, viper.Get(k))
		}
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <KEY> <VALUE>",
	Short: "Set a configuration value",
	Long: `Set a configuration value. Valid keys are ` + strings.Join(cli.SettableKeys, ", ") + `.
Candidate assemblies are given as a ';'-separated list, e.g. "System.Drawing, Version=4.0.0.0; System.Windows.Forms"`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: cli.SettableKeys,
	Run: func(cmd *cobra.Command, args []string) {
		if err := cli.ConfigSet(args[0], args[1]); err != nil {
			os.Exit(1)
		}
	},
}

var configUnsetCmd = &cobra.Command{
	Use:       "unset <KEY>",
	Short:     "Remove a configuration value",
	Args:      cobra.ExactArgs(1),
	ValidArgs: cli.SettableKeys,
	Run: func(cmd *cobra.Command, args []string) {
		if err := cli.ConfigUnset(args[0]); err != nil {
			os.Exit(1)
		}
	},
}

func init() {
	RootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd, configUnsetCmd)
}
