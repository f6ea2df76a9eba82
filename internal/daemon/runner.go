// Package daemon provides the core daemon runner for adthand.
// It manages the lifecycle of the prayer-time service: binding the
// control socket, building the day's schedule, running the timer and
// notification workers, and graceful shutdown.
package daemon

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/adthand/adthand/common"
	"github.com/adthand/adthand/internal/aladhan"
	"github.com/adthand/adthand/internal/api"
	"github.com/adthand/adthand/internal/config"
	"github.com/adthand/adthand/internal/notify"
	"github.com/adthand/adthand/internal/prayer"
	"github.com/adthand/adthand/internal/scheduler"
	"github.com/adthand/adthand/internal/server"
	"github.com/adthand/adthand/pkg/logger"
)

// Sentinel errors for the daemon runner.
var (
	// ErrAlreadyRunning is returned when Start() is called more than once.
	ErrAlreadyRunning = errors.New("daemon is already running")

	// ErrNotRunning is returned when Shutdown() is called on a daemon that
	// is not in the Running state.
	ErrNotRunning = errors.New("daemon is not running")

	// ErrShutdownTimeout is returned when shutdown exceeds the configured timeout.
	ErrShutdownTimeout = errors.New("shutdown timed out")
)

// Config holds the configuration for the daemon runner.
type Config struct {
	// Settings is the loaded configuration file. Nil uses the defaults.
	Settings *config.Config

	// SocketPath is the control channel. Defaults to common.SocketPath.
	SocketPath string

	// ShutdownTimeout is the maximum time to wait for the workers to stop.
	// A zero value means no timeout.
	ShutdownTimeout time.Duration
}

// Dependencies holds the external collaborators of the runner.
// This enables dependency injection for testing.
type Dependencies struct {
	// Fetcher supplies the daily timings. If nil, an Aladhan client built
	// from Settings is used.
	Fetcher prayer.Fetcher

	// Sink shows notifications. If nil, the session D-Bus notifier is used.
	Sink notify.Sink

	// Fs holds the socket file. If nil, the OS filesystem is used.
	Fs afero.Fs

	Logger logger.Logger

	// Now defaults to time.Now.
	Now func() time.Time

	// ShutdownFunc is called during shutdown to clean up resources.
	// If nil, no cleanup function is called.
	ShutdownFunc func() error
}

// Runner manages the daemon lifecycle.
type Runner struct {
	config   *Config
	deps     *Dependencies
	mu       sync.Mutex
	state    State
	started  bool
	shutdown chan struct{}
}

// New creates a new daemon runner with the given configuration and dependencies.
// If config is nil, default values are used.
// If deps is nil, default dependencies are used.
func New(config *Config, deps *Dependencies) *Runner {
	cfg := applyConfigDefaults(config)
	return &Runner{
		config:   cfg,
		deps:     applyDependencyDefaults(cfg, deps),
		shutdown: make(chan struct{}, 1),
	}
}

// applyConfigDefaults returns a Config with default values applied for nil fields.
func applyConfigDefaults(c *Config) *Config {
	if c == nil {
		c = &Config{}
	}
	if c.Settings == nil {
		c.Settings = config.DefaultConfig()
	}
	c.Settings.Normalize()
	if c.SocketPath == "" {
		c.SocketPath = common.SocketPath
	}
	return c
}

// applyDependencyDefaults returns Dependencies with default values applied.
func applyDependencyDefaults(c *Config, deps *Dependencies) *Dependencies {
	if deps == nil {
		deps = &Dependencies{}
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNopLogger()
	}
	if deps.Fetcher == nil {
		deps.Fetcher = aladhan.NewClient(c.Settings.APIURL,
			aladhan.WithMethod(c.Settings.Method),
			aladhan.WithLogger(deps.Logger),
		)
	}
	if deps.Sink == nil {
		deps.Sink = notify.NewDBusNotifier(common.AppName)
	}
	if deps.Fs == nil {
		deps.Fs = afero.NewOsFs()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return deps
}

// Config returns the runner's configuration.
func (r *Runner) Config() *Config {
	return r.config
}

// State returns the current lifecycle state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Runner) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
	r.deps.Logger.Info("Daemon %s", s)
}

// IsRunning returns true if the daemon is currently in the Running state.
func (r *Runner) IsRunning() bool {
	return r.State() == Running
}

// Start runs the daemon and blocks until it has terminated. It returns
// nil after a shutdown caused by ctx, a Kill request or Shutdown, and a
// non-nil error when the socket cannot be bound.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return ErrAlreadyRunning
	}
	r.started = true
	r.mu.Unlock()
	r.setState(Starting)

	l := r.deps.Logger
	settings := r.config.Settings
	srv := server.NewServer(l, r.deps.Fs, r.config.SocketPath)
	if err := srv.Listen(); err != nil {
		r.setState(Terminated)
		return err
	}

	engine, err := prayer.NewEngine(ctx, r.deps.Fetcher, prayer.Options{
		City:    settings.City,
		Country: settings.Country,
		Events:  settings.Events,
		Retry:   retryPolicy(settings.Retry),
		Logger:  l,
		Now:     r.deps.Now,
	})
	if err != nil {
		r.setState(ShuttingDown)
		_ = srv.Shutdown()
		r.finish()
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	state := prayer.NewState(engine)
	api.NewApi(l, state, r.shutdown, r.deps.Now).RegisterHandlers(srv)

	queue := notify.NewQueue(r.deps.Sink, l, settings.Notification.QueueSize)
	sched := scheduler.New(state, func(ev prayer.Event) {
		l.Info("It is %s time", ev.Name)
		queue.Enqueue(notify.ForEvent(ev.Name, settings.Notification.Summary, settings.Notification.Timeout))
	}, scheduler.Options{
		Logger:     l,
		RetryDelay: settings.Retry.Delay,
		Now:        r.deps.Now,
	})

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error { return srv.Serve(gctx) })
	g.Go(func() error { return sched.Run(gctx) })
	g.Go(func() error { return queue.Run(gctx) })
	r.setState(Running)

	select {
	case <-ctx.Done():
		l.Info("Interrupted, shutting down")
	case <-r.shutdown:
		l.Info("Shutdown requested, shutting down")
	case <-gctx.Done():
	}
	r.setState(ShuttingDown)
	cancel()

	err = r.wait(g)
	_ = srv.Shutdown()
	err = multierr.Append(err, r.executeShutdownFunc())
	r.finish()
	return err
}

// Shutdown asks a running daemon to stop; Start returns once it has.
// Returns ErrNotRunning if the daemon is not running.
func (r *Runner) Shutdown() error {
	if !r.IsRunning() {
		return ErrNotRunning
	}
	select {
	case r.shutdown <- struct{}{}:
	default:
	}
	return nil
}

// wait waits for the workers, bounded by the configured timeout.
func (r *Runner) wait(g *errgroup.Group) error {
	if r.config.ShutdownTimeout <= 0 {
		return g.Wait()
	}
	return executeWithTimeout(g.Wait, r.config.ShutdownTimeout)
}

// executeShutdownFunc runs the shutdown function with timeout if configured.
func (r *Runner) executeShutdownFunc() error {
	if r.deps.ShutdownFunc == nil {
		return nil
	}
	if r.config.ShutdownTimeout > 0 {
		return executeWithTimeout(r.deps.ShutdownFunc, r.config.ShutdownTimeout)
	}
	// Shutdown must proceed regardless of cleanup errors.
	_ = r.deps.ShutdownFunc()
	return nil
}

// executeWithTimeout runs a function with a timeout.
// Returns ErrShutdownTimeout if the function exceeds the timeout.
func executeWithTimeout(fn func() error, timeout time.Duration) error {
	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case err := <-done:
		return err
	case <-timer.C:
		return ErrShutdownTimeout
	}
}

func (r *Runner) finish() {
	if c, ok := r.deps.Sink.(io.Closer); ok {
		if err := c.Close(); err != nil {
			r.deps.Logger.Warning("Error closing notifier: %v", err)
		}
	}
	r.setState(Terminated)
}

func retryPolicy(c config.RetryConfig) prayer.RetryPolicy {
	if c.Backoff == config.BackoffExponential {
		return prayer.ExponentialBackoff{
			Base:        c.Delay,
			Max:         c.MaxDelay,
			Factor:      2,
			Jitter:      0.1,
			MaxAttempts: c.MaxAttempts,
		}
	}
	return prayer.FixedDelay{Delay: c.Delay, MaxAttempts: c.MaxAttempts}
}
