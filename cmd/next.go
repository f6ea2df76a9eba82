package cmd

import (
	"fmt"

	"github.com/urfave/cli"
)

func next(ctx *cli.Context) error {
	a, err := newClient().Next()
	if err != nil {
		printRuntimeErr(ctx, "next", "next", err)
		return nil
	}
	debugLogger().Info("Received %s answer: %+v", a.Kind, *a)
	switch {
	case !a.Determined():
		fmt.Printf("Next prayer is %s.\n", a.Relative)
	case relative:
		fmt.Printf("%s %s\n", a.Name, a.Relative)
	default:
		fmt.Printf("%s at %s\n", a.Name, a.Time)
	}
	return nil
}
