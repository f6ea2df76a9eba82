package daemon

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/adthand/adthand/internal/config"
	"github.com/adthand/adthand/internal/notify"
	"github.com/adthand/adthand/internal/prayer"
	"github.com/adthand/adthand/internal/server"
	"github.com/adthand/adthand/pkg/adthandcli"
	"github.com/adthand/adthand/pkg/logger"
)

var testTimings = map[string]string{
	"Fajr":    "05:30",
	"Sunrise": "07:01",
	"Dhuhr":   "13:15",
	"Asr":     "16:40",
	"Maghrib": "19:10",
	"Isha":    "20:30",
}

func shortSocketPath(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("/tmp", "adt")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	return filepath.Join(dir, "s")
}

// runningClock starts at base and advances with real time.
func runningClock(base time.Time) func() time.Time {
	start := time.Now()
	return func() time.Time { return base.Add(time.Since(start)) }
}

type recordingSink struct {
	mu   sync.Mutex
	got  []notify.Notification
	sent chan struct{}
}

func newRecordingSink() *recordingSink {
	return &recordingSink{sent: make(chan struct{}, 8)}
}

func (s *recordingSink) Notify(_ context.Context, n notify.Notification) error {
	s.mu.Lock()
	s.got = append(s.got, n)
	s.mu.Unlock()
	s.sent <- struct{}{}
	return nil
}

func (s *recordingSink) notifications() []notify.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notify.Notification(nil), s.got...)
}

type testDaemon struct {
	runner *Runner
	path   string
	sink   *recordingSink
	done   chan error
	cancel context.CancelFunc
}

func startDaemon(t *testing.T, fetcher prayer.Fetcher, now func() time.Time) *testDaemon {
	t.Helper()
	path := shortSocketPath(t)
	sink := newRecordingSink()
	settings := config.DefaultConfig()
	settings.Retry.Delay = 10 * time.Millisecond
	r := New(&Config{Settings: settings, SocketPath: path}, &Dependencies{
		Fetcher: fetcher,
		Sink:    sink,
		Logger:  logger.NewMockLogger(),
		Now:     now,
	})
	ctx, cancel := context.WithCancel(context.Background())
	d := &testDaemon{runner: r, path: path, sink: sink, done: make(chan error, 1), cancel: cancel}
	go func() { d.done <- r.Start(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-d.done:
		case <-time.After(5 * time.Second):
		}
	})
	return d
}

func staticFetcher(timings map[string]string) prayer.Fetcher {
	return prayer.FetcherFunc(func(context.Context, prayer.Query) (map[string]string, error) {
		return timings, nil
	})
}

func waitForState(t *testing.T, r *Runner, want State) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for r.State() != want {
		if time.Now().After(deadline) {
			t.Fatalf("state = %s, want %s", r.State(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func waitDone(t *testing.T, d *testDaemon) error {
	t.Helper()
	select {
	case err := <-d.done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return")
		return nil
	}
}

func noon() time.Time {
	return time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
}

func TestNewRunnerDefaults(t *testing.T) {
	r := New(nil, nil)
	if r.Config().SocketPath != "/tmp/adthand" {
		t.Errorf("SocketPath = %q, want /tmp/adthand", r.Config().SocketPath)
	}
	if r.Config().Settings.City != "Toronto" {
		t.Errorf("City = %q, want Toronto", r.Config().Settings.City)
	}
	if r.State() != Idle {
		t.Errorf("State = %s, want idle", r.State())
	}
	if r.IsRunning() {
		t.Error("new runner must not be running")
	}
}

func TestRunnerPingThenKill(t *testing.T) {
	d := startDaemon(t, staticFetcher(testTimings), runningClock(noon()))
	waitForState(t, d.runner, Running)

	c := adthandcli.NewClient(d.path)
	if err := c.Ping(); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if err := c.Kill(); err != nil {
		t.Fatalf("Kill: %v", err)
	}
	if err := waitDone(t, d); err != nil {
		t.Fatalf("Start returned %v, want nil", err)
	}
	if d.runner.State() != Terminated {
		t.Fatalf("state = %s, want terminated", d.runner.State())
	}
	if _, err := os.Stat(d.path); !os.IsNotExist(err) {
		t.Fatalf("socket file still present: %v", err)
	}
}

func TestRunnerAnswersQueries(t *testing.T) {
	d := startDaemon(t, staticFetcher(testTimings), runningClock(noon()))
	waitForState(t, d.runner, Running)
	c := adthandcli.NewClient(d.path)

	deadline := time.Now().Add(5 * time.Second)
	for {
		next, err := c.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if next.Determined() {
			if next.Name != "Dhuhr" || next.Time != "01:15 pm" {
				t.Fatalf("unexpected next %+v", next)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("next event never determined")
		}
		time.Sleep(5 * time.Millisecond)
	}

	entries, err := c.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(entries) != 6 || entries[0].Name != "Fajr" || entries[5].Name != "Isha" {
		t.Fatalf("unexpected day %+v", entries)
	}
	w, err := c.Waybar()
	if err != nil {
		t.Fatalf("Waybar: %v", err)
	}
	if w.Name != "Dhuhr" || len(w.Entries) != 6 {
		t.Fatalf("unexpected waybar answer %+v", w)
	}
}

func TestRunnerNotifiesWhenDue(t *testing.T) {
	base := time.Date(2024, time.March, 10, 13, 14, 59, 900_000_000, time.UTC)
	d := startDaemon(t, staticFetcher(testTimings), runningClock(base))

	select {
	case <-d.sink.sent:
	case <-time.After(5 * time.Second):
		t.Fatal("no notification sent")
	}
	got := d.sink.notifications()
	if got[0].Body != "It is Dhuhr time" || got[0].Summary != "Adthan" || got[0].Timeout != 6*time.Second {
		t.Fatalf("unexpected notification %+v", got[0])
	}
}

func TestRunnerStopsOnContextCancel(t *testing.T) {
	d := startDaemon(t, staticFetcher(testTimings), runningClock(noon()))
	waitForState(t, d.runner, Running)
	d.cancel()
	if err := waitDone(t, d); err != nil {
		t.Fatalf("Start returned %v, want nil", err)
	}
	if _, err := os.Stat(d.path); !os.IsNotExist(err) {
		t.Fatalf("socket file still present: %v", err)
	}
}

func TestRunnerShutdown(t *testing.T) {
	d := startDaemon(t, staticFetcher(testTimings), runningClock(noon()))
	waitForState(t, d.runner, Running)
	if err := d.runner.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if err := waitDone(t, d); err != nil {
		t.Fatalf("Start returned %v, want nil", err)
	}
	if err := d.runner.Shutdown(); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning after termination, got %v", err)
	}
}

func TestRunnerStartTwice(t *testing.T) {
	d := startDaemon(t, staticFetcher(testTimings), runningClock(noon()))
	waitForState(t, d.runner, Running)
	if err := d.runner.Start(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
}

func TestRunnerBindFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "s")
	r := New(&Config{SocketPath: path}, &Dependencies{
		Fetcher: staticFetcher(testTimings),
		Sink:    newRecordingSink(),
	})
	if err := r.Start(context.Background()); err == nil {
		t.Fatal("expected bind error")
	}
	if r.State() != Terminated {
		t.Fatalf("state = %s, want terminated", r.State())
	}
}

func TestRunnerRefusesLiveDaemon(t *testing.T) {
	d := startDaemon(t, staticFetcher(testTimings), runningClock(noon()))
	waitForState(t, d.runner, Running)

	second := New(&Config{SocketPath: d.path}, &Dependencies{
		Fetcher: staticFetcher(testTimings),
		Sink:    newRecordingSink(),
	})
	if err := second.Start(context.Background()); !errors.Is(err, server.ErrDaemonRunning) {
		t.Fatalf("expected ErrDaemonRunning, got %v", err)
	}
	if err := adthandcli.NewClient(d.path).Ping(); err != nil {
		t.Fatalf("first daemon stopped answering: %v", err)
	}
}

func TestRunnerInterruptedDuringStartup(t *testing.T) {
	var calls int
	var mu sync.Mutex
	failing := prayer.FetcherFunc(func(context.Context, prayer.Query) (map[string]string, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return nil, errors.New("network unreachable")
	})
	d := startDaemon(t, failing, runningClock(noon()))
	waitForState(t, d.runner, Starting)
	time.Sleep(50 * time.Millisecond)
	d.cancel()
	if err := waitDone(t, d); err != nil {
		t.Fatalf("Start returned %v, want nil", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if calls < 2 {
		t.Fatalf("expected the fetch to be retried, got %d calls", calls)
	}
	if _, err := os.Stat(d.path); !os.IsNotExist(err) {
		t.Fatalf("socket file still present: %v", err)
	}
}

func TestRunnerShutdownFuncRuns(t *testing.T) {
	path := shortSocketPath(t)
	called := make(chan struct{}, 1)
	r := New(&Config{SocketPath: path, ShutdownTimeout: time.Second}, &Dependencies{
		Fetcher: staticFetcher(testTimings),
		Sink:    newRecordingSink(),
		Fs:      afero.NewOsFs(),
		Now:     runningClock(noon()),
		ShutdownFunc: func() error {
			called <- struct{}{}
			return nil
		},
	})
	done := make(chan error, 1)
	go func() { done <- r.Start(context.Background()) }()
	waitForState(t, r, Running)
	if err := adthandcli.NewClient(path).Kill(); err != nil {
		t.Fatalf("Kill: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return")
	}
	select {
	case <-called:
	default:
		t.Fatal("shutdown function not called")
	}
}

func TestExecuteWithTimeout(t *testing.T) {
	err := executeWithTimeout(func() error {
		time.Sleep(200 * time.Millisecond)
		return nil
	}, 10*time.Millisecond)
	if !errors.Is(err, ErrShutdownTimeout) {
		t.Fatalf("expected ErrShutdownTimeout, got %v", err)
	}
	want := errors.New("cleanup failed")
	if err := executeWithTimeout(func() error { return want }, time.Second); err != want {
		t.Fatalf("expected %v, got %v", want, err)
	}
}

func TestRetryPolicy(t *testing.T) {
	fixed := retryPolicy(config.RetryConfig{Backoff: config.BackoffFixed, Delay: time.Second})
	if d, ok := fixed.Next(5); !ok || d != time.Second {
		t.Fatalf("fixed policy: %v %v", d, ok)
	}
	exp := retryPolicy(config.RetryConfig{Backoff: config.BackoffExponential, Delay: time.Second, MaxDelay: 4 * time.Second, MaxAttempts: 3})
	if d, ok := exp.Next(10); ok {
		t.Fatalf("exponential policy must stop after MaxAttempts, got %v", d)
	}
	if d, ok := exp.Next(2); !ok || d > 4*time.Second {
		t.Fatalf("exponential policy: %v %v", d, ok)
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{
		Idle:         "idle",
		Starting:     "starting",
		Running:      "running",
		ShuttingDown: "shutting down",
		Terminated:   "terminated",
		State(42):    "unknown",
	} {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", s, s.String(), want)
		}
	}
}
