package sink

import (
	"sync"

	"github.com/tfontaine/geosim/pkg/geomessage"
)

// CaptureSink retains every sent message in memory. It backs dry runs
// (--sink none) and tests. Thread-safe for concurrent use.
type CaptureSink struct {
	mu       sync.Mutex
	messages []geomessage.Message
	failWith error
}

// NewCaptureSink creates an empty capture sink.
func NewCaptureSink() *CaptureSink {
	return &CaptureSink{}
}

// Send records msg. Returns the configured failure, if any, after
// recording the attempt.
func (s *CaptureSink) Send(msg geomessage.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return s.failWith
}

// Messages returns a copy of everything sent so far.
func (s *CaptureSink) Messages() []geomessage.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]geomessage.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of sent messages.
func (s *CaptureSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// FailWith makes every subsequent Send return err. Pass nil to clear.
func (s *CaptureSink) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
}

// Close is a no-op.
func (s *CaptureSink) Close() error {
	return nil
}
