package cmd

import (
	"fmt"

	"github.com/urfave/cli"
)

func all(ctx *cli.Context) error {
	entries, err := newClient().All()
	if err != nil {
		printRuntimeErr(ctx, "all", "all", err)
		return nil
	}
	debugLogger().Info("Received %d entries", len(entries))
	for _, e := range entries {
		fmt.Printf("%s: %s\n", e.Name, e.Time)
	}
	return nil
}
