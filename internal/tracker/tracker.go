// Package tracker runs the periodic re-tracking of every registered user
// on a single background goroutine.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/neexbeast/tourguide/internal/gps"
	"github.com/neexbeast/tourguide/internal/user"
)

// DefaultInterval is the pause between two tracking passes.
const DefaultInterval = 5 * time.Minute

// DefaultStopTimeout bounds how long Stop waits for the loop to exit.
const DefaultStopTimeout = 5 * time.Second

// ErrStopped is returned by Start once the tracker has been stopped;
// stopped is terminal and a new Tracker must be constructed.
var ErrStopped = errors.New("tracker is stopped")

// UserSource enumerates the tracked population. Satisfied by the user
// registry.
type UserSource interface {
	All() []*user.User
}

// UserTracker performs the per-user tracking operation, location fetch
// plus reward computation. Satisfied by the guide service.
type UserTracker interface {
	TrackUser(ctx context.Context, u *user.User) (gps.VisitedLocation, error)
}

type state int

const (
	stateIdle state = iota
	stateRunning
	stateStopped
)

// Tracker is a three-state machine: idle on construction, running after
// Start, stopped after Stop. Stopped is terminal.
type Tracker struct {
	users       UserSource
	userTracker UserTracker
	interval    time.Duration
	stopTimeout time.Duration
	log         *slog.Logger

	mu      sync.Mutex
	st      state
	started bool

	stop   chan struct{}
	done   chan struct{}
	passes atomic.Int64
}

// New constructs an idle Tracker. Non-positive interval or stopTimeout
// fall back to the defaults.
func New(users UserSource, userTracker UserTracker, interval, stopTimeout time.Duration, log *slog.Logger) *Tracker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if stopTimeout <= 0 {
		stopTimeout = DefaultStopTimeout
	}
	return &Tracker{
		users:       users,
		userTracker: userTracker,
		interval:    interval,
		stopTimeout: stopTimeout,
		log:         log,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// Start launches the background loop. Idempotent while running; returns
// ErrStopped once the tracker has been stopped.
func (t *Tracker) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch t.st {
	case stateRunning:
		return nil
	case stateStopped:
		return ErrStopped
	}
	t.st = stateRunning
	t.started = true
	go t.loop()
	return nil
}

// Stop signals the loop and waits for it to exit, bounded by the stop
// timeout. It reports whether the loop exited within the bound; a false
// return means the loop was abandoned mid-pass. Safe to call repeatedly
// and from multiple goroutines.
func (t *Tracker) Stop() bool {
	t.mu.Lock()
	if t.st != stateStopped {
		t.st = stateStopped
		close(t.stop)
	}
	started := t.started
	t.mu.Unlock()

	if !started {
		// The loop never ran; nothing to wait for.
		return true
	}

	select {
	case <-t.done:
		return true
	case <-time.After(t.stopTimeout):
		t.log.Warn("tracker did not stop within timeout", "timeout", t.stopTimeout)
		return false
	}
}

// Passes returns the number of completed tracking passes.
func (t *Tracker) Passes() int64 {
	return t.passes.Load()
}

func (t *Tracker) loop() {
	defer close(t.done)

	ctx := context.Background()
	for {
		select {
		case <-t.stop:
			t.log.Debug("tracker stopping")
			return
		default:
		}

		users := t.users.All()
		t.log.Debug("tracker pass starting", "users", len(users))

		start := time.Now()
		for _, u := range users {
			if err := t.trackOne(ctx, u); err != nil {
				t.log.Warn("tracking failed", "user", u.Name, "err", err)
			}
		}
		t.passes.Add(1)
		t.log.Debug("tracker pass complete", "elapsed", time.Since(start))

		select {
		case <-t.stop:
			t.log.Debug("tracker stopping")
			return
		case <-time.After(t.interval):
		}
	}
}

// trackOne isolates a single user's tracking so neither an error nor a
// panic can abort the rest of the pass.
func (t *Tracker) trackOne(ctx context.Context, u *user.User) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tracking panicked: %v", r)
		}
	}()
	_, err = t.userTracker.TrackUser(ctx, u)
	return err
}
