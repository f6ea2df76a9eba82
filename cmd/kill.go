package cmd

import (
	"fmt"

	"github.com/urfave/cli"
)

func kill(ctx *cli.Context) error {
	if err := newClient().Kill(); err != nil {
		printRuntimeErr(ctx, "kill", "kill", err)
		return nil
	}
	fmt.Println("Daemon is shutting down.")
	return nil
}
