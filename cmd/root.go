package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/wot-oss/resx/internal"
	"github.com/wot-oss/resx/internal/app/cli"
	"github.com/wot-oss/resx/internal/config"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "resx",
	Short: "A CLI for reading .resx resource containers",
	Long: `resx reads .resx resource containers from local files, http(s) URLs and S3 buckets.
It lists their entries, materializes typed values including referenced files, extracts them
to a directory and serves them over an HTTP API.`,
	PersistentPreRun: preRunAll,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	err := RootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringP("loglevel", "l", "", "enable logging by setting a log level, one of [error, warn, info, debug, off]")
	RootCmd.PersistentFlags().String("config", "", "directory to read config.json from (default is ~/.resx)")
}

func preRunAll(cmd *cobra.Command, args []string) {
	dir := cmd.Flag("config").Value.String()
	if dir == "" {
		dir = viper.GetString(config.KeyConfigDir)
	}
	if dir != "" && dir != config.ConfigDir {
		if err := config.UseConfigDir(dir); err != nil {
			cli.Stderrf("%v", err)
			os.Exit(1)
		}
	}

	if ll := cmd.Flag("loglevel").Value.String(); ll != "" {
		viper.Set(config.KeyLogLevel, ll)
	}
	// the server logs by default
	viper.SetDefault(config.KeyLog, cmd.Name() == "serve")
	internal.InitLogging()
}
