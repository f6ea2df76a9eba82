package cmd

const DESCRIPTION = `
adthand keeps track of the daily prayer times for your city and
shows a desktop notification when each one arrives. Run the daemon
once per session; the other commands ask it about the schedule.
`

const (
	DaemonDescription = `The daemon command fetches today's prayer times, notifies
you when each one is due and answers the other commands
over /tmp/adthand. Only one daemon can run at a time.

Example:
        adthand daemon

`
	InitDescription = `The init command writes the default config file if it does
not exist yet and prints its location.

Example:
        adthand init
        adthand --config ./adthand.yaml init

`
	NextDescription = `The next command prints the upcoming prayer and its time,
or how long until it starts with --relative.

Example:
        adthand next
        adthand next -r

`
	WaybarDescription = `The waybar command prints a JSON object with text, alt and
tooltip fields for a waybar custom module.

Example:
        "custom/adthand": {
            "exec": "adthand waybar",
            "return-type": "json",
            "interval": 30
        }

`
)

const HELP_TEMPL = `Usage: {{if .UsageText}}{{.UsageText}}{{else}}{{.HelpName}} {{if .VisibleFlags}}[global options]{{end}}{{if .Commands}} command [command options]{{end}} {{if .ArgsUsage}}{{.ArgsUsage}}{{else}}[arguments...]{{end}}{{end}}
{{.Description}}{{if .VisibleCommands}}
Commands:{{range .VisibleCategories}}{{if .Name}}

{{.Name}}:{{range .VisibleCommands}}
  {{join .Names ", "}}{{"\t"}}{{.Usage}}{{end}}{{else}}{{range .VisibleCommands}}
{{"\t"}}{{index .Names 0}}{{"\t:\t"}}{{.Usage}}{{end}}{{end}}{{end}}{{end}}{{if .VisibleFlags}}

Global Flags:{{range .VisibleFlags}}
  {{.}}{{end}}{{end}}

Use "{{.HelpName}} help <command>" for more information about any command.

`

const CMD_HELP_TEMPL = `{{if .Description}}{{.Description}}{{else}}{{.HelpName}} - {{.Usage}}

{{end}}Usage:
        {{.HelpName}} {{if .UsageText}}{{.UsageText}}{{else}}[arguments...]{{end}}{{if .VisibleFlags}}

Supported Flags:{{range .VisibleFlags}}
  {{.}}{{end}}{{end}}

`
