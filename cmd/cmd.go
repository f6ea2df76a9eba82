package cmd

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli"
)

type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

func Execute(args []string, bArgs BuildArgs) error {
	app := cli.App{
		Name:                  "adthand",
		HelpName:              "adthand",
		Usage:                 "Prayer time notifications for the desktop.",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:             "adthand <command> [arguments...]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          usageErrorCallback,
		Flags:                 globalFlags,
		Commands: []cli.Command{
			{
				Name:               "daemon",
				Aliases:            []string{"d"},
				Usage:              "runs the prayer time daemon",
				Description:        DaemonDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       usageErrorCallback,
				Action:             runDaemon,
			},
			{
				Name:               "init",
				Usage:              "writes the default config file",
				Description:        InitDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       usageErrorCallback,
				Action:             initConfig,
			},
			{
				Name:               "ping",
				Usage:              "checks that the daemon is answering",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       usageErrorCallback,
				Action:             ping,
			},
			{
				Name:               "kill",
				Usage:              "stops the daemon",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       usageErrorCallback,
				Action:             kill,
			},
			{
				Name:                   "next",
				Aliases:                []string{"n"},
				Usage:                  "shows the next prayer",
				Description:            NextDescription,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				OnUsageError:           usageErrorCallback,
				Action:                 next,
				Flags:                  nextFlags,
				UseShortOptionHandling: true,
			},
			{
				Name:               "all",
				Aliases:            []string{"a"},
				Usage:              "lists today's prayers",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       usageErrorCallback,
				Action:             all,
			},
			{
				Name:               "waybar",
				Usage:              "prints the next prayer as waybar JSON",
				Description:        WaybarDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       usageErrorCallback,
				Action:             waybar,
			},
			{
				Name:    "help",
				Aliases: []string{"h"},
				Usage:   "prints the help message",
				Action:  help,
			},
			{
				Name:               "version",
				Aliases:            []string{"v"},
				Usage:              "prints installed version of adthand",
				UsageText:          " ",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             getVersion,
			},
		},
		Action:      help,
		HideHelp:    true,
		HideVersion: true,
	}
	VersionCmdStr = fmt.Sprintf("%s %s (%s_%s)\nBuild: %s=%s\n",
		app.Name,
		app.Version,
		runtime.GOOS,
		runtime.GOARCH,
		bArgs.Date, bArgs.Commit,
	)
	return app.Run(args)
}
