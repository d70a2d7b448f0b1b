package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
}

func TestDefault_Values(t *testing.T) {
	cfg := Default()
	if cfg.Playback.Frequency != 1 || cfg.Playback.Throughput != 1 {
		t.Errorf("playback defaults = %+v, want frequency 1, throughput 1", cfg.Playback)
	}
	if cfg.Sink.Type != SinkUDP || cfg.Sink.Port != 45678 {
		t.Errorf("sink defaults = %+v, want udp on 45678", cfg.Sink)
	}
	if cfg.Playback.OnEnd != "stop" {
		t.Errorf("on_end default = %q, want stop", cfg.Playback.OnEnd)
	}
}

func TestLoad_MergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geosim.yaml")
	content := `playback:
  frequency: 50
  time_count: 6
  unit: minutes
  time_override_fields: [datetimevalid, reported]
sink:
  type: none
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Playback.Frequency != 50 || cfg.Playback.TimeCount != 6 || cfg.Playback.Unit != "minutes" {
		t.Errorf("playback = %+v, want 50 per 6 minutes", cfg.Playback)
	}
	want := []string{"datetimevalid", "reported"}
	if !reflect.DeepEqual(cfg.Playback.TimeOverrideFields, want) {
		t.Errorf("time_override_fields = %v, want %v", cfg.Playback.TimeOverrideFields, want)
	}
	if cfg.Sink.Type != SinkNone {
		t.Errorf("sink.type = %q, want none", cfg.Sink.Type)
	}
	// Untouched fields keep their defaults.
	if cfg.Sink.Port != 45678 {
		t.Errorf("sink.port = %d, want default 45678", cfg.Sink.Port)
	}
	if cfg.Playback.Throughput != 1 {
		t.Errorf("throughput = %d, want default 1", cfg.Playback.Throughput)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoad_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"zero frequency", "playback:\n  frequency: 0\n", "frequency"},
		{"negative time count", "playback:\n  time_count: -2\n", "time_count"},
		{"zero throughput", "playback:\n  throughput: 0\n", "throughput"},
		{"bad end policy", "playback:\n  on_end: wrap\n", "on_end"},
		{"bad sink", "sink:\n  type: carrier-pigeon\n", "sink type"},
		{"bad port", "sink:\n  port: 99999\n", "port"},
		{"kafka without topic", "sink:\n  type: kafka\nkafka:\n  topic: \"\"\n", "topic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "geosim.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("Load() succeeded, want validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestApplyEnv_Overrides(t *testing.T) {
	t.Setenv("GEOSIM_PORT", "5600")
	t.Setenv("GEOSIM_KAFKA_BROKERS", "a:9092,b:9092")
	t.Setenv("GEOSIM_LOG_LEVEL", "debug")

	cfg := FromEnv()
	if cfg.Sink.Port != 5600 {
		t.Errorf("sink.port = %d, want 5600 from env", cfg.Sink.Port)
	}
	if !reflect.DeepEqual(cfg.Kafka.Brokers, []string{"a:9092", "b:9092"}) {
		t.Errorf("kafka.brokers = %v, want env override", cfg.Kafka.Brokers)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging.level = %q, want debug", cfg.Logging.Level)
	}
}

func TestWriteExample_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "example.yaml")
	if err := WriteExample(path); err != nil {
		t.Fatalf("WriteExample() error = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(example) error = %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("example config invalid: %v", err)
	}
	if !reflect.DeepEqual(cfg.Playback.TimeOverrideFields, []string{"datetimevalid"}) {
		t.Errorf("example time_override_fields = %v", cfg.Playback.TimeOverrideFields)
	}
}
