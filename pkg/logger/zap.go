package logger

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sys/unix"
)

// ZapLogger backs Logger with a zap sugared logger. The daemon uses it
// to write to stdout and its log file at once.
type ZapLogger struct {
	sugar *zap.SugaredLogger
	once  sync.Once
}

// ZapConfig configures NewZapLogger.
type ZapConfig struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string
	// Outputs are zap sink URLs or file paths ("stdout", "/var/log/x.log").
	// Empty means stdout.
	Outputs []string
	// Encoding is "console" or "json". Empty means console.
	Encoding string
}

// NewZapLogger builds a zap logger with ISO-8601 timestamps.
func NewZapLogger(c ZapConfig) (*ZapLogger, error) {
	lvl := zapcore.InfoLevel
	if c.Level != "" {
		if err := lvl.UnmarshalText([]byte(c.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", c.Level, err)
		}
	}
	outputs := c.Outputs
	if len(outputs) == 0 {
		outputs = []string{"stdout"}
	}
	encoding := c.Encoding
	if encoding == "" {
		encoding = "console"
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = encoding
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = outputs
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	cfg.Sampling = nil
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return NewZapLoggerFrom(l), nil
}

// NewZapLoggerFrom wraps an existing zap logger.
func NewZapLoggerFrom(l *zap.Logger) *ZapLogger {
	return &ZapLogger{sugar: l.Sugar()}
}

func (z *ZapLogger) Info(format string, args ...interface{}) {
	z.sugar.Infof(format, args...)
}

func (z *ZapLogger) Warning(format string, args ...interface{}) {
	z.sugar.Warnf(format, args...)
}

func (z *ZapLogger) Error(format string, args ...interface{}) {
	z.sugar.Errorf(format, args...)
}

// Close flushes buffered entries once. Sync errors caused by terminals
// and pipes (which cannot be fsynced) are ignored.
func (z *ZapLogger) Close() (err error) {
	z.once.Do(func() {
		err = z.sugar.Sync()
		if errors.Is(err, unix.EINVAL) || errors.Is(err, unix.ENOTTY) {
			err = nil
		}
	})
	return err
}

var _ Logger = (*ZapLogger)(nil)
