// Package scheduler drives playback of a recorded geomessage stream: a
// state machine that turns the configured rate into a timer cadence,
// advances a cursor through the stream, rewrites time-override fields, and
// hands each due message to the delivery sink.
package scheduler

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tfontaine/geosim/internal/clock"
	"github.com/tfontaine/geosim/internal/logging"
	"github.com/tfontaine/geosim/internal/rate"
	"github.com/tfontaine/geosim/internal/sink"
	"github.com/tfontaine/geosim/pkg/geomessage"
)

// Source is a sequential reader over a recorded message stream.
type Source interface {
	// Next yields the next record; false once the stream is exhausted.
	Next() (geomessage.Message, bool)
	// FieldNames returns the field names of the first record. A source
	// with no records returns an empty list.
	FieldNames() []string
}

// EndPolicy selects what the scheduler does when a tick obtains no records.
type EndPolicy int

const (
	// EndStop disarms the timer and moves to Stopped. The default.
	EndStop EndPolicy = iota
	// EndIdle keeps ticking and delivering nothing.
	EndIdle
	// EndLoop rewinds the source and restarts playback from index 0.
	// Requires a source with a Rewind method; falls back to EndStop
	// otherwise.
	EndLoop
)

func (p EndPolicy) String() string {
	switch p {
	case EndStop:
		return "stop"
	case EndIdle:
		return "idle"
	case EndLoop:
		return "loop"
	default:
		return "unknown"
	}
}

// ParseEndPolicy parses "stop", "idle", or "loop".
func ParseEndPolicy(s string) (EndPolicy, error) {
	switch s {
	case "stop":
		return EndStop, nil
	case "idle":
		return EndIdle, nil
	case "loop":
		return EndLoop, nil
	default:
		return EndStop, fmt.Errorf("unknown end-of-stream policy %q, must be one of: stop, idle, loop", s)
	}
}

// Stats is a point-in-time view of playback progress.
type Stats struct {
	State          State `json:"state_code"`
	Cursor         int   `json:"cursor"`
	Sent           int   `json:"sent"`
	DeliveryErrors int   `json:"delivery_errors"`
	EndReached     bool  `json:"end_reached"`
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock substitutes the clock driving the tick timer.
func WithClock(c clock.Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithLogger sets the logger for lifecycle and delivery events.
func WithLogger(l *logging.Logger) Option {
	return func(s *Scheduler) { s.log = l }
}

// WithEndPolicy sets the end-of-stream policy.
func WithEndPolicy(p EndPolicy) Option {
	return func(s *Scheduler) { s.onEnd = p }
}

// Scheduler owns the playback loop. Lifecycle methods are safe to call
// from any goroutine; ticks run on a dedicated goroutine, one per Running
// period, and never overlap.
type Scheduler struct {
	model *rate.Model
	sink  sink.Sink
	clock clock.Clock
	log   *logging.Logger
	onEnd EndPolicy

	mu             sync.Mutex
	state          State
	cursor         int
	sent           int
	deliveryErrors int
	endReached     bool
	source         Source
	observers      []Observer
	cancel         chan struct{}
	done           chan struct{}
}

// New creates a Scheduler in the Uninitialized state.
func New(model *rate.Model, snk sink.Sink, opts ...Option) *Scheduler {
	s := &Scheduler{
		model: model,
		sink:  snk,
		clock: clock.NewRealClock(),
		log:   logging.NewNop(),
		onEnd: EndStop,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddObserver registers an observer for progress notifications. Register
// observers before Start; registration is not synchronized with a running
// tick loop.
func (s *Scheduler) AddObserver(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Initialize attaches an opened source and resets the cursor to zero. The
// source must have at least one record (non-empty field names). Legal from
// Uninitialized and Stopped; re-initializing is the only way to rewind
// playback to the start.
func (s *Scheduler) Initialize(src Source) error {
	if src == nil {
		return errors.New("scheduler: nil message source")
	}
	if len(src.FieldNames()) == 0 {
		return errors.New("scheduler: message source has no records")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next, ok := transition(s.state, evInitialize)
	if !ok {
		return fmt.Errorf("scheduler: cannot initialize while %s", s.state)
	}
	s.source = src
	s.cursor = 0
	s.endReached = false
	s.state = next
	s.log.Infow("simulation initialized", "fields", src.FieldNames())
	return nil
}

// Start arms the timer at the current rate and begins ticking. The cursor
// resumes from wherever a prior run left it; only Initialize resets it.
// No-op unless Stopped.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, ok := transition(s.state, evStart)
	if !ok {
		return
	}
	s.state = next
	s.armLocked()
	s.log.Infow("simulation started", "cursor", s.cursor, "interval", s.model.Interval())
}

// Pause disarms the timer, preserving the cursor. Returns once no further
// tick can fire; an in-flight tick is allowed to finish first. No-op
// unless Running.
func (s *Scheduler) Pause() {
	s.mu.Lock()
	next, ok := transition(s.state, evPause)
	if !ok {
		s.mu.Unlock()
		return
	}
	s.state = next
	cancel, done := s.disarmLocked()
	s.mu.Unlock()

	s.waitLoopExit(cancel, done)
	s.log.Infow("simulation paused", "cursor", s.Cursor())
}

// Resume re-arms the timer at the current rate. Missed ticks are not made
// up. No-op unless Paused.
func (s *Scheduler) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, ok := transition(s.state, evResume)
	if !ok {
		return
	}
	s.state = next
	s.armLocked()
	s.log.Infow("simulation resumed", "cursor", s.cursor)
}

// Stop disarms the timer. The cursor is intentionally not reset: a later
// Start resumes from where playback left off, and only Initialize rewinds
// to the beginning. No-op unless Running or Paused.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	next, ok := transition(s.state, evStop)
	if !ok {
		s.mu.Unlock()
		return
	}
	s.state = next
	cancel, done := s.disarmLocked()
	s.mu.Unlock()

	s.waitLoopExit(cancel, done)
	s.log.Infow("simulation stopped", "cursor", s.Cursor())
}

// State returns the current playback state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Cursor returns the index of the next record to deliver.
func (s *Scheduler) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Stats returns a consistent snapshot of playback progress.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		State:          s.state,
		Cursor:         s.cursor,
		Sent:           s.sent,
		DeliveryErrors: s.deliveryErrors,
		EndReached:     s.endReached,
	}
}

// armLocked spawns a fresh tick loop. Caller holds s.mu.
func (s *Scheduler) armLocked() {
	cancel := make(chan struct{})
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	go s.run(cancel, done)
}

// disarmLocked detaches the current tick loop, returning its channels so
// the caller can wait for it outside the lock. Caller holds s.mu.
func (s *Scheduler) disarmLocked() (cancel, done chan struct{}) {
	cancel, done = s.cancel, s.done
	s.cancel = nil
	s.done = nil
	return cancel, done
}

// waitLoopExit signals the loop and blocks until it has fully exited, so
// that no tick fires after a lifecycle method returns.
func (s *Scheduler) waitLoopExit(cancel, done chan struct{}) {
	if cancel == nil {
		return
	}
	close(cancel)
	<-done
}

// run is the tick loop: wait one interval, tick, repeat. The interval is
// re-read from the rate model every iteration, so live reconfiguration
// takes effect on the next tick without re-arming by hand.
func (s *Scheduler) run(cancel, done chan struct{}) {
	defer close(done)
	for {
		snap := s.model.Snapshot()
		select {
		case <-cancel:
			return
		case <-s.clock.After(snap.Interval):
		}
		if !s.tick(snap) {
			return
		}
	}
}

// tick delivers up to snap.Throughput records. Returns false when the loop
// should exit. Every per-tick failure is caught and reported here; nothing
// propagates across the timer boundary.
func (s *Scheduler) tick(snap rate.Snapshot) (again bool) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorw("tick recovered from panic", "panic", r)
			again = true
		}
	}()

	s.mu.Lock()
	if s.state != Running {
		s.mu.Unlock()
		return false
	}
	src := s.source
	obs := append([]Observer(nil), s.observers...)
	s.mu.Unlock()

	delivered := 0
	for i := 0; i < snap.Throughput; i++ {
		msg, ok := src.Next()
		if !ok {
			break
		}
		out := geomessage.Rewrite(msg, snap.OverrideFields, s.clock.Now())
		err := s.sink.Send(out)

		s.mu.Lock()
		s.cursor++
		s.sent++
		if err != nil {
			s.deliveryErrors++
		}
		index := s.cursor
		s.mu.Unlock()

		if err != nil {
			s.log.Errorw("delivery failed", "index", index, "error", err)
			for _, o := range obs {
				o.DeliveryFailed(err)
			}
		} else {
			s.log.Debugw("message sent", "index", index)
		}
		for _, o := range obs {
			o.MessageReady(out)
			o.Advanced(index)
		}
		delivered++
	}

	if delivered > 0 {
		return true
	}
	return s.handleEndOfStream(src, obs)
}

// handleEndOfStream applies the configured end policy after a tick that
// obtained no records.
func (s *Scheduler) handleEndOfStream(src Source, obs []Observer) bool {
	s.mu.Lock()
	first := !s.endReached
	s.endReached = true
	cursor := s.cursor
	s.mu.Unlock()

	if first {
		s.log.Infow("end of message stream", "cursor", cursor, "policy", s.onEnd.String())
		for _, o := range obs {
			o.StreamEnded()
		}
	}

	switch s.onEnd {
	case EndIdle:
		return true
	case EndLoop:
		if rw, ok := src.(interface{ Rewind() error }); ok {
			if err := rw.Rewind(); err != nil {
				s.log.Errorw("rewind failed, stopping", "error", err)
				break
			}
			s.mu.Lock()
			s.cursor = 0
			s.endReached = false
			s.mu.Unlock()
			s.log.Infow("looping playback from the start")
			return true
		}
		s.log.Warnw("source is not rewindable, stopping")
	}

	// EndStop, or a loop that could not rewind: stop in place. A pause
	// that raced this tick wins; its disarm already detached the loop.
	s.mu.Lock()
	if s.state == Running {
		s.state = Stopped
		s.cancel = nil
		s.done = nil
	}
	s.mu.Unlock()
	return false
}
