package cmd

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/adthand/adthand/pkg/adthandcli"
)

func waybar(ctx *cli.Context) error {
	a, err := newClient().Waybar()
	if err != nil {
		printRuntimeErr(ctx, "waybar", "waybar", err)
		return nil
	}
	debugLogger().Info("Received %s answer: %+v", a.Kind, *a)
	b, err := adthandcli.NewWaybarOutput(a).JSON()
	if err != nil {
		printRuntimeErr(ctx, "waybar", "encode", err)
		return nil
	}
	fmt.Println(string(b))
	return nil
}
