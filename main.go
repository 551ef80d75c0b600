package main

import (
	"github.com/wot-oss/resx/cmd"
	"github.com/wot-oss/resx/internal"
	"github.com/wot-oss/resx/internal/config"
)

func init() {
	config.InitConfig()
	config.InitViper()
	internal.InitLogging()
}

func main() {
	cmd.Execute()
}
