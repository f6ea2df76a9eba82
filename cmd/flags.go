package cmd

import (
	"github.com/urfave/cli"

	"github.com/adthand/adthand/common"
)

var (
	configPath string
	relative   bool
)

var globalFlags = []cli.Flag{
	cli.StringFlag{
		Name:        "config, c",
		Usage:       "path of the YAML config file",
		EnvVar:      common.ConfigPathEnv,
		Destination: &configPath,
	},
}

var nextFlags = []cli.Flag{
	cli.BoolFlag{
		Name:        "relative, r",
		Usage:       "show the time left instead of the clock time",
		Destination: &relative,
	},
}
