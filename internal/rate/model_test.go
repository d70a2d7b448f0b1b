package rate

import (
	"reflect"
	"testing"
	"time"
)

func TestModel_Defaults(t *testing.T) {
	m := NewModel()

	if got := m.Interval(); got != time.Second {
		t.Errorf("Interval() = %v, want 1s", got)
	}
	if got := m.Throughput(); got != 1 {
		t.Errorf("Throughput() = %d, want 1", got)
	}
	if got := m.Frequency(); got != 1 {
		t.Errorf("Frequency() = %v, want 1", got)
	}
}

func TestModel_SetFrequencyPer_Intervals(t *testing.T) {
	tests := []struct {
		name      string
		count     float64
		timeCount float64
		unit      string
		want      time.Duration
	}{
		{"one per second", 1, 1, UnitSeconds, time.Second},
		{"ten per second", 10, 1, UnitSeconds, 100 * time.Millisecond},
		{"fifty per six minutes", 50, 6, UnitMinutes, 7200 * time.Millisecond},
		{"two per hour", 2, 1, UnitHours, 30 * time.Minute},
		{"one per day", 1, 1, UnitDays, 24 * time.Hour},
		{"one per week", 1, 1, UnitWeeks, 7 * 24 * time.Hour},
		{"fractional count", 0.5, 1, UnitSeconds, 2 * time.Second},
		{"unknown unit treated as seconds", 4, 1, "fortnights", 250 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModel()
			if err := m.SetFrequencyPer(tt.count, tt.timeCount, tt.unit); err != nil {
				t.Fatalf("SetFrequencyPer() error = %v", err)
			}
			if got := m.Interval(); got != tt.want {
				t.Errorf("Interval() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestModel_SetFrequency_IsPerSecond(t *testing.T) {
	m := NewModel()
	if err := m.SetFrequency(5); err != nil {
		t.Fatal(err)
	}
	if got := m.Interval(); got != 200*time.Millisecond {
		t.Errorf("Interval() = %v, want 200ms", got)
	}
	if got := m.Frequency(); got != 5 {
		t.Errorf("Frequency() = %v, want 5", got)
	}
}

func TestModel_SetFrequency_Idempotent(t *testing.T) {
	m := NewModel()
	if err := m.SetFrequencyPer(50, 6, UnitMinutes); err != nil {
		t.Fatal(err)
	}
	first := m.Interval()
	if err := m.SetFrequencyPer(50, 6, UnitMinutes); err != nil {
		t.Fatal(err)
	}
	if got := m.Interval(); got != first {
		t.Errorf("Interval() changed on repeated set: %v, want %v", got, first)
	}
}

func TestModel_RejectedFrequencyRetainsPrevious(t *testing.T) {
	m := NewModel()
	if err := m.SetFrequency(4); err != nil {
		t.Fatal(err)
	}

	if err := m.SetFrequency(0); err == nil {
		t.Error("SetFrequency(0) should be rejected")
	}
	if err := m.SetFrequency(-3); err == nil {
		t.Error("SetFrequency(-3) should be rejected")
	}
	if err := m.SetFrequencyPer(1, 0, UnitSeconds); err == nil {
		t.Error("SetFrequencyPer with zero time count should be rejected")
	}

	if got := m.Interval(); got != 250*time.Millisecond {
		t.Errorf("Interval() = %v, want 250ms retained after rejections", got)
	}
}

func TestModel_RejectedThroughputRetainsPrevious(t *testing.T) {
	m := NewModel()
	if err := m.SetThroughput(3); err != nil {
		t.Fatal(err)
	}
	if err := m.SetThroughput(0); err == nil {
		t.Error("SetThroughput(0) should be rejected")
	}
	if got := m.Throughput(); got != 3 {
		t.Errorf("Throughput() = %d, want 3 retained after rejection", got)
	}
}

func TestModel_TimeOverrideFieldsCopied(t *testing.T) {
	m := NewModel()
	in := []string{"datetimevalid", "reported"}
	m.SetTimeOverrideFields(in)
	in[0] = "mutated"

	got := m.TimeOverrideFields()
	want := []string{"datetimevalid", "reported"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TimeOverrideFields() = %v, want %v (caller slice must not alias)", got, want)
	}

	got[1] = "mutated"
	if again := m.TimeOverrideFields(); !reflect.DeepEqual(again, want) {
		t.Errorf("TimeOverrideFields() = %v, want %v (returned slice must not alias)", again, want)
	}
}

func TestModel_SnapshotIsConsistentCopy(t *testing.T) {
	m := NewModel()
	if err := m.SetFrequencyPer(2, 1, UnitSeconds); err != nil {
		t.Fatal(err)
	}
	if err := m.SetThroughput(2); err != nil {
		t.Fatal(err)
	}
	m.SetTimeOverrideFields([]string{"ts"})

	snap := m.Snapshot()
	if snap.Interval != 500*time.Millisecond {
		t.Errorf("snap.Interval = %v, want 500ms", snap.Interval)
	}
	if snap.Throughput != 2 {
		t.Errorf("snap.Throughput = %d, want 2", snap.Throughput)
	}
	if !reflect.DeepEqual(snap.OverrideFields, []string{"ts"}) {
		t.Errorf("snap.OverrideFields = %v, want [ts]", snap.OverrideFields)
	}

	// Later reconfiguration must not bleed into an already-taken snapshot.
	m.SetTimeOverrideFields(nil)
	if !reflect.DeepEqual(snap.OverrideFields, []string{"ts"}) {
		t.Errorf("snapshot mutated by later SetTimeOverrideFields: %v", snap.OverrideFields)
	}
}
