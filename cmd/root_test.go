package cmd

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/wot-oss/resx/internal"
	"github.com/wot-oss/resx/internal/config"
)

func setupConfigDir(t *testing.T) {
	orgDir := config.ConfigDir
	config.ConfigDir = t.TempDir()
	t.Cleanup(func() {
		config.ConfigDir = orgDir
		viper.Reset()
	})
}

func TestLoggingOnSubCommands(t *testing.T) {
	setupConfigDir(t)
	config.InitViper()
	RootCmd.ResetCommands()

	var isDisabled bool

	// given: some sub-commands of the root command
	//        where the "serve" command is to be expected having logging enabled by default
	runFunc := func(cmd *cobra.Command, args []string) {
		hdl := slog.Default().Handler()
		_, isDisabled = hdl.(*internal.DiscardLogHandler)
	}

	var listCmd = &cobra.Command{Use: "list", Run: runFunc}
	var serveCmd = &cobra.Command{Use: "serve", Run: runFunc}
	var getCmd = &cobra.Command{Use: "get", Run: runFunc}

	RootCmd.AddCommand(listCmd, serveCmd, getCmd)

	// when: executing the list command
	RootCmd.SetArgs([]string{"list"})
	_ = RootCmd.Execute()
	// then: logging is default DISABLED
	assert.True(t, isDisabled)

	// when: executing the serve command
	RootCmd.SetArgs([]string{"serve"})
	_ = RootCmd.Execute()
	// then: logging is default ENABLED
	assert.False(t, isDisabled)

	// when: executing the get command
	RootCmd.SetArgs([]string{"get"})
	_ = RootCmd.Execute()
	// then: logging is default DISABLED
	assert.True(t, isDisabled)
}

func TestLogLevelFlagEnablesLogging(t *testing.T) {
	setupConfigDir(t)
	config.InitViper()
	RootCmd.ResetCommands()
	defer func() { _ = RootCmd.PersistentFlags().Set("loglevel", "") }()

	var isDisabled bool
	var debugEnabled bool
	runFunc := func(cmd *cobra.Command, args []string) {
		hdl := slog.Default().Handler()
		_, isDisabled = hdl.(*internal.DiscardLogHandler)
		debugEnabled = hdl.Enabled(cmd.Context(), slog.LevelDebug)
	}
	RootCmd.AddCommand(&cobra.Command{Use: "list", Run: runFunc})

	// when: executing the list command with a log level
	RootCmd.SetArgs([]string{"list", "--loglevel", "debug"})
	_ = RootCmd.Execute()

	// then: logging is ENABLED at the given level
	assert.False(t, isDisabled)
	assert.True(t, debugEnabled)
}

func TestConfigDirFromEnvironment(t *testing.T) {
	setupConfigDir(t)
	temp := t.TempDir()
	t.Setenv(strings.ToUpper(config.EnvPrefix+"_"+config.KeyConfigDir), temp)
	config.InitViper()
	RootCmd.ResetCommands()

	// given: a sub-command of the root command
	RootCmd.AddCommand(&cobra.Command{Use: "list", Run: func(cmd *cobra.Command, args []string) {}})

	// when: executing the command with RESX_CONFIG set
	RootCmd.SetArgs([]string{"list"})
	_ = RootCmd.Execute()

	// then: the config dir is taken from the environment
	assert.Equal(t, temp, config.ConfigDir)
}

func TestConfigDirFromFlag(t *testing.T) {
	setupConfigDir(t)
	temp := t.TempDir()
	config.InitViper()
	RootCmd.ResetCommands()
	defer func() { _ = RootCmd.PersistentFlags().Set("config", "") }()

	// given: a sub-command of the root command
	RootCmd.AddCommand(&cobra.Command{Use: "list", Run: func(cmd *cobra.Command, args []string) {}})

	// when: executing the command with --config
	RootCmd.SetArgs([]string{"list", "--config", temp})
	_ = RootCmd.Execute()

	// then: the config dir is taken from the flag
	assert.Equal(t, temp, config.ConfigDir)
}
