package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/urfave/cli"

	"github.com/adthand/adthand/internal/config"
)

func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.DefaultPath()
}

func initConfig(ctx *cli.Context) error {
	path, err := resolveConfigPath()
	if err != nil {
		printRuntimeErr(ctx, "init", "config_path", err)
		return nil
	}
	_, err = os.Stat(path)
	switch {
	case err == nil:
		fmt.Printf("Config already exists at %s\n", path)
		return nil
	case !errors.Is(err, fs.ErrNotExist):
		printRuntimeErr(ctx, "init", "stat", err)
		return nil
	}
	if err := config.Save(path, config.DefaultConfig()); err != nil {
		printRuntimeErr(ctx, "init", "save_config", err)
		return nil
	}
	fmt.Printf("Wrote default config to %s\n", path)
	return nil
}
