package cmd

import (
	"fmt"

	"github.com/urfave/cli"
)

func ping(ctx *cli.Context) error {
	client := newClient()
	if err := client.Ping(); err != nil {
		printRuntimeErr(ctx, "ping", "ping", err)
		return nil
	}
	fmt.Printf("Daemon is running on %s.\n", client.Path())
	return nil
}
