// Package jobmgr runs named background jobs with cancellation and keeps at
// most one job per name alive.
//
//	jm := jobmgr.NewManager(func(msg string) { slog.Debug("job", "status", msg) })
//	err := jm.StartAsync(ctx, "command-sync", func(ctx context.Context) error {
//	    return syncer.SyncAll(ctx, s, appID, guilds)
//	})
package jobmgr

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	ErrAlreadyRunning = errors.New("job is already running")
	ErrNotRunning     = errors.New("job is not running")
)

// StatusReporter receives lifecycle messages such as
//
//	running:command-sync
//	error:command-sync:context canceled
//	done:command-sync
type StatusReporter func(string)

type job struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Manager is safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	jobs     map[string]*job
	reporter StatusReporter
}

// NewManager creates a Manager. The reporter may be nil.
func NewManager(reporter StatusReporter) *Manager {
	return &Manager{
		jobs:     make(map[string]*job),
		reporter: reporter,
	}
}

// StartSync runs the job in the calling goroutine. It still takes the name so a
// concurrent async job with the same name is refused.
func (m *Manager) StartSync(ctx context.Context, name string, runner func(ctx context.Context) error) error {
	ctx, j, err := m.add(ctx, name)
	if err != nil {
		return err
	}
	return m.run(ctx, name, j, runner)
}

// StartAsync runs the job in its own goroutine and returns immediately. The job
// is removed once it finishes.
func (m *Manager) StartAsync(ctx context.Context, name string, runner func(ctx context.Context) error) error {
	ctx, j, err := m.add(ctx, name)
	if err != nil {
		return err
	}
	go m.run(ctx, name, j, runner)
	return nil
}

func (m *Manager) add(parent context.Context, name string) (context.Context, *job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.jobs[name]; exists {
		return nil, nil, fmt.Errorf("%w: %s", ErrAlreadyRunning, name)
	}
	ctx, cancel := context.WithCancel(parent)
	j := &job{cancel: cancel, done: make(chan struct{})}
	m.jobs[name] = j
	return ctx, j, nil
}

func (m *Manager) run(ctx context.Context, name string, j *job, runner func(ctx context.Context) error) error {
	defer func() {
		j.cancel()
		m.mu.Lock()
		if m.jobs[name] == j {
			delete(m.jobs, name)
		}
		m.mu.Unlock()
		close(j.done)
	}()

	m.report("running:" + name)
	err := runner(ctx)
	if err != nil {
		m.report("error:" + name + ":" + err.Error())
	} else {
		m.report("done:" + name)
	}
	return err
}

// Stop cancels a running job and waits for it to return.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	j, ok := m.jobs[name]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotRunning, name)
	}
	j.cancel()
	<-j.done
	return nil
}

// Wait blocks until the named job finishes. It returns at once if it is not running.
func (m *Manager) Wait(name string) {
	m.mu.Lock()
	j, ok := m.jobs[name]
	m.mu.Unlock()
	if ok {
		<-j.done
	}
}

// List returns the active job names, sorted.
func (m *Manager) List() []string {
	m.mu.Lock()
	out := make([]string, 0, len(m.jobs))
	for k := range m.jobs {
		out = append(out, k)
	}
	m.mu.Unlock()
	sort.Strings(out)
	return out
}

// Status returns "Running jobs: a, b" or "No jobs are running."
func (m *Manager) Status() string {
	active := m.List()
	if len(active) == 0 {
		return "No jobs are running."
	}
	return fmt.Sprintf("Running jobs: %s", strings.Join(active, ", "))
}

func (m *Manager) report(s string) {
	if m.reporter != nil {
		m.reporter(s)
	}
}
