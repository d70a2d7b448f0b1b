// Package rate converts a broadcast frequency specification into a concrete
// tick cadence and holds all mutable playback configuration behind one lock.
//
// The scheduler reads the configuration exactly once per tick through
// Snapshot, so a control goroutine can retune frequency, throughput, or the
// time-override field set mid-playback without a stop/start cycle: the new
// values take effect on the next tick.
package rate

import (
	"fmt"
	"sync"
	"time"
)

// Recognized time units for frequency specifications.
const (
	UnitSeconds = "seconds"
	UnitMinutes = "minutes"
	UnitHours   = "hours"
	UnitDays    = "days"
	UnitWeeks   = "weeks"
)

var unitSeconds = map[string]float64{
	UnitSeconds: 1,
	UnitMinutes: 60,
	UnitHours:   3600,
	UnitDays:    86400,
	UnitWeeks:   604800,
}

// secondsPerUnit returns the length of one unit in seconds. An unrecognized
// unit is treated as seconds.
func secondsPerUnit(unit string) float64 {
	if s, ok := unitSeconds[unit]; ok {
		return s
	}
	return unitSeconds[UnitSeconds]
}

// Snapshot is an immutable copy of the playback configuration, taken
// atomically at the start of each tick.
type Snapshot struct {
	Interval       time.Duration
	Throughput     int
	OverrideFields []string
}

// Model holds the playback rate configuration. The zero value is not
// usable; construct with NewModel.
//
// Throughput values above 1 are mechanically supported but deliver
// multi-record batches per tick, which downstream consumers of the feed
// commonly cannot accept. Leave it at the default of 1 unless the consumer
// is known to handle batches.
type Model struct {
	mu         sync.Mutex
	interval   time.Duration
	count      float64
	timeCount  float64
	unit       string
	throughput int
	overrides  []string
}

// NewModel returns a Model at the default rate: one broadcast per second,
// one message per broadcast, no time-override fields.
func NewModel() *Model {
	return &Model{
		interval:   time.Second,
		count:      1,
		timeCount:  1,
		unit:       UnitSeconds,
		throughput: 1,
	}
}

// SetFrequency sets the number of broadcasts per second. Equivalent to
// SetFrequencyPer(count, 1, "seconds").
func (m *Model) SetFrequency(count float64) error {
	return m.SetFrequencyPer(count, 1, UnitSeconds)
}

// SetFrequencyPer sets the broadcast rate to count broadcasts every
// timeCount units. For example, SetFrequencyPer(50, 6, "minutes") sends 50
// broadcasts every 6 minutes, one every 7.2 seconds. An unrecognized unit
// is treated as seconds. Non-positive count or timeCount is rejected and
// the previous rate is retained.
func (m *Model) SetFrequencyPer(count, timeCount float64, unit string) error {
	if count <= 0 {
		return fmt.Errorf("frequency must be positive, got %v", count)
	}
	if timeCount <= 0 {
		return fmt.Errorf("time count must be positive, got %v", timeCount)
	}
	if _, ok := unitSeconds[unit]; !ok {
		unit = UnitSeconds
	}

	intervalMillis := timeCount * secondsPerUnit(unit) * 1000 / count

	m.mu.Lock()
	defer m.mu.Unlock()
	m.interval = time.Duration(intervalMillis * float64(time.Millisecond))
	m.count = count
	m.timeCount = timeCount
	m.unit = unit
	return nil
}

// Frequency returns the configured rate as broadcasts per second.
func (m *Model) Frequency() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count / (m.timeCount * secondsPerUnit(m.unit))
}

// Interval returns the tick interval derived from the configured rate.
func (m *Model) Interval() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.interval
}

// SetThroughput sets the number of messages delivered per tick. Values
// below 1 are rejected and the previous value is retained.
func (m *Model) SetThroughput(n int) error {
	if n < 1 {
		return fmt.Errorf("throughput must be at least 1, got %d", n)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.throughput = n
	return nil
}

// Throughput returns the number of messages delivered per tick.
func (m *Model) Throughput() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.throughput
}

// SetTimeOverrideFields sets the fields whose values are replaced with the
// current time in outgoing messages. Safe to call while playback is
// running; the change applies from the next tick.
func (m *Model) SetTimeOverrideFields(fields []string) {
	copied := make([]string, len(fields))
	copy(copied, fields)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.overrides = copied
}

// TimeOverrideFields returns a copy of the time-override field set.
func (m *Model) TimeOverrideFields() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.overrides))
	copy(out, m.overrides)
	return out
}

// Snapshot returns a consistent copy of the full playback configuration.
func (m *Model) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	fields := make([]string, len(m.overrides))
	copy(fields, m.overrides)
	return Snapshot{
		Interval:       m.interval,
		Throughput:     m.throughput,
		OverrideFields: fields,
	}
}
