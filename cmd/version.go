package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/wot-oss/resx/internal/config"
	"github.com/wot-oss/resx/internal/utils"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show resx version information",
	Long:  `Show resx version information`,
	Args:  cobra.MaximumNArgs(0),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("resx version %s\n", utils.GetResxVersion())
		cf := viper.ConfigFileUsed()
		if cf == "" {
			cf = fmt.Sprintf("No config.json file found in '%s'. Using default settings", config.ConfigDir)
		}
		fmt.Printf("Configuration file used: %s\n", cf)
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
