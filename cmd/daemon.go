package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli"

	"github.com/adthand/adthand/common"
	"github.com/adthand/adthand/internal/config"
	"github.com/adthand/adthand/internal/daemon"
	"github.com/adthand/adthand/pkg/logger"
)

var runDaemonFunc = func(ctx context.Context, r *daemon.Runner) error {
	return r.Start(ctx)
}

// newDaemonLogger logs to stdout and, as JSON lines, to the log file.
var newDaemonLogger = func(c config.LogConfig) (logger.Logger, error) {
	console, err := logger.NewZapLogger(logger.ZapConfig{Level: c.Level, Outputs: []string{"stdout"}})
	if err != nil {
		return nil, err
	}
	file := c.File
	if file == "" {
		file = defaultLogFile()
	}
	if file == "" {
		return console, nil
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o700); err != nil {
		console.Warning("Logging to stdout only: %v", err)
		return console, nil
	}
	fl, err := logger.NewZapLogger(logger.ZapConfig{Level: c.Level, Outputs: []string{file}, Encoding: "json"})
	if err != nil {
		console.Warning("Logging to stdout only: %v", err)
		return console, nil
	}
	return logger.NewMultiLogger(console, fl), nil
}

func defaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, common.AppName, common.AppName+".log")
}

func runDaemon(ctx *cli.Context) error {
	path, err := resolveConfigPath()
	if err != nil {
		return fmt.Errorf("config path: %w", err)
	}
	settings, loadErr := config.Load(path)
	if loadErr != nil && !errors.Is(loadErr, config.ErrNotSaved) {
		return fmt.Errorf("load config %s: %w", path, loadErr)
	}
	l, err := newDaemonLogger(settings.Log)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer l.Close()
	if loadErr != nil {
		l.Warning("Running with the default config: %v", loadErr)
	}
	l.Info("Using config %s: %s, %s", path, settings.City, settings.Country)

	sctx, cancel := setupShutdownHandler()
	defer cancel()

	r := daemon.New(&daemon.Config{Settings: settings}, &daemon.Dependencies{Logger: l})
	if err := runDaemonFunc(sctx, r); err != nil {
		l.Error("Daemon stopped: %v", err)
		return err
	}
	return nil
}
