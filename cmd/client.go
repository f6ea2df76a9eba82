package cmd

import (
	"log"
	"os"

	"github.com/adthand/adthand/common"
	"github.com/adthand/adthand/pkg/adthandcli"
	"github.com/adthand/adthand/pkg/logger"
)

var socketPath = common.SocketPath

var newClient = func() *adthandcli.Client {
	return adthandcli.NewClient(socketPath)
}

// debugLogger traces the daemon's answers on stderr when ADTHAND_DEBUG=1.
func debugLogger() logger.Logger {
	if os.Getenv(common.DebugEnv) != "1" {
		return logger.NewNopLogger()
	}
	return logger.NewStandardLogger(log.New(os.Stderr, "adthand: ", 0))
}
