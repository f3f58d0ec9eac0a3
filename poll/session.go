package poll

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arenaoj/backend/subm"
)

const (
	DefaultInterval    = 2 * time.Second
	DefaultMaxDuration = 60 * time.Second
)

// Fetcher is the external status collaborator: a network or storage call
// that returns the current submission snapshot. It may fail transiently.
type Fetcher interface {
	Fetch(ctx context.Context, id uuid.UUID) (*subm.Submission, error)
}

// Callbacks receive poll results. OnUpdate gets every snapshot and every
// advisory error (transport failures, timeout); OnComplete fires exactly
// once, with the terminal snapshot, and only if one was observed. Either
// may be nil. Callbacks run on the session's goroutine, one at a time.
type Callbacks struct {
	OnUpdate   func(snapshot *subm.Submission, err error)
	OnComplete func(final *subm.Submission)
}

// Config controls one session. Zero Interval and MaxDuration fall back to
// the defaults. Enabled defaults to true; set it to a false pointer to
// request that no session be started (the caller stops any session it
// already holds).
type Config struct {
	Interval    time.Duration
	MaxDuration time.Duration
	Enabled     *bool
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.MaxDuration <= 0 {
		c.MaxDuration = DefaultMaxDuration
	}
	return c
}

func (c Config) enabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// Session is one running poll loop for one submission id. It is created by
// Coordinator.StartPolling and owned by its caller; Stop cancels it.
type Session struct {
	id    uuid.UUID
	coord *Coordinator
	fetch Fetcher
	cb    Callbacks
	cfg   Config

	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
}

// StartPolling converges an observer to the submission's terminal status.
//
// It returns nil, starting nothing, when the id is already known to be
// completed (the caller holds or can fetch the final snapshot out of band)
// or when another session already owns the id. Both are benign races, not
// errors.
//
// Otherwise the session fetches immediately, then at cfg.Interval, until a
// terminal status is observed (recorded in the coordinator, OnComplete
// fires once), cfg.MaxDuration elapses (ErrTimeout through OnUpdate, status
// stays unknown), or Stop is called. The poll slot is released on every
// exit path.
func (c *Coordinator) StartPolling(ctx context.Context, fetch Fetcher, id uuid.UUID, cb Callbacks, cfg Config) *Session {
	cfg = cfg.withDefaults()
	if !cfg.enabled() {
		return nil
	}
	if c.IsCompleted(id) {
		return nil
	}
	if !c.TryAcquire(id) {
		c.logger.Debug("poll session already in flight", "subm", id)
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	s := &Session{
		id:     id,
		coord:  c,
		fetch:  fetch,
		cb:     cb,
		cfg:    cfg,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go s.run(ctx)
	return s
}

// Stop cancels the session. No tick starts after Stop returns; the result
// of a fetch already in flight is discarded. The submission is not marked
// completed, so a later session may resume polling the same id.
func (s *Session) Stop() {
	s.stopOnce.Do(s.cancel)
}

// Done closes when the session has fully stopped and released its slot.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) run(ctx context.Context) {
	defer close(s.done)
	defer s.cancel()
	defer s.coord.Release(s.id)

	start := time.Now()
	if stop := s.tick(ctx, start); stop {
		return
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if stop := s.tick(ctx, start); stop {
				return
			}
		}
	}
}

// tick runs one iteration of the poll loop and reports whether the session
// should stop. Ticks are strictly sequential: the next one never starts
// before this one's fetch and callbacks finish.
func (s *Session) tick(ctx context.Context, start time.Time) (stop bool) {
	if ctx.Err() != nil {
		return true
	}
	// a racing session may have observed the terminal status first
	if s.coord.IsCompleted(s.id) {
		return true
	}
	if time.Since(start) > s.cfg.MaxDuration {
		s.coord.logger.Warn("poll session timed out", "subm", s.id,
			"max_duration", s.cfg.MaxDuration)
		s.emitUpdate(ctx, nil, ErrTimeout)
		return true
	}

	snapshot, err := s.fetch.Fetch(ctx, s.id)
	if ctx.Err() != nil {
		// stopped while the fetch was in flight; discard the late result
		return true
	}
	if err != nil {
		// transient transport failure, retried on the next tick
		s.emitUpdate(ctx, nil, fmt.Errorf("fetch submission status: %w", err))
		return false
	}

	s.emitUpdate(ctx, snapshot, nil)
	if snapshot.Status.IsTerminal() {
		s.coord.MarkCompleted(s.id)
		if s.cb.OnComplete != nil {
			s.cb.OnComplete(snapshot)
		}
		return true
	}
	return false
}

func (s *Session) emitUpdate(ctx context.Context, snapshot *subm.Submission, err error) {
	if ctx.Err() != nil || s.cb.OnUpdate == nil {
		return
	}
	s.cb.OnUpdate(snapshot, err)
}
