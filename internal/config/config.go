// Package config holds the geosim configuration surface: a YAML file
// merged over defaults, with GEOSIM_* environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tfontaine/geosim/internal/rate"
	"github.com/tfontaine/geosim/internal/scheduler"
	"github.com/tfontaine/geosim/internal/sink"
)

// Sink type names accepted by the configuration.
const (
	SinkUDP   = "udp"
	SinkKafka = "kafka"
	SinkNone  = "none"
)

// Config is the top-level configuration for a geosim run.
type Config struct {
	Playback  PlaybackConfig  `yaml:"playback"`
	Sink      SinkConfig      `yaml:"sink"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// PlaybackConfig holds the rate and rewrite settings consumed by the
// scheduler.
type PlaybackConfig struct {
	// Frequency broadcasts every TimeCount Units.
	Frequency float64 `yaml:"frequency"`
	TimeCount float64 `yaml:"time_count"`
	Unit      string  `yaml:"unit"`
	// Throughput above 1 sends multi-record batches per tick, which
	// downstream feed consumers commonly cannot accept.
	Throughput         int      `yaml:"throughput"`
	TimeOverrideFields []string `yaml:"time_override_fields"`
	OnEnd              string   `yaml:"on_end"`
}

// SinkConfig selects and addresses the delivery sink.
type SinkConfig struct {
	Type string `yaml:"type"`
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// KafkaConfig holds settings for the kafka sink.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// DashboardConfig holds the status server settings.
type DashboardConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	Verbose bool   `yaml:"verbose"`
}

// Default returns a Config with the simulator's defaults: one broadcast
// per second, one message per broadcast, UDP broadcast on the well-known
// port.
func Default() Config {
	return Config{
		Playback: PlaybackConfig{
			Frequency:  1,
			TimeCount:  1,
			Unit:       rate.UnitSeconds,
			Throughput: 1,
			OnEnd:      "stop",
		},
		Sink: SinkConfig{
			Type: SinkUDP,
			Host: sink.DefaultBroadcastHost,
			Port: sink.DefaultPort,
		},
		Kafka: KafkaConfig{
			Brokers: []string{"localhost:9092"},
			Topic:   "geomessages",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.Playback.Frequency <= 0 {
		return fmt.Errorf("playback.frequency must be positive, got %v", c.Playback.Frequency)
	}
	if c.Playback.TimeCount <= 0 {
		return fmt.Errorf("playback.time_count must be positive, got %v", c.Playback.TimeCount)
	}
	if c.Playback.Throughput < 1 {
		return fmt.Errorf("playback.throughput must be at least 1, got %d", c.Playback.Throughput)
	}
	if _, err := scheduler.ParseEndPolicy(c.Playback.OnEnd); err != nil {
		return fmt.Errorf("playback.on_end: %w", err)
	}
	switch c.Sink.Type {
	case SinkUDP, SinkKafka, SinkNone:
	default:
		return fmt.Errorf("unknown sink type %q, must be one of: udp, kafka, none", c.Sink.Type)
	}
	if c.Sink.Port < 1 || c.Sink.Port > 65535 {
		return fmt.Errorf("sink.port must be in 1..65535, got %d", c.Sink.Port)
	}
	if c.Sink.Type == SinkKafka {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers must not be empty for the kafka sink")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("kafka.topic must not be empty for the kafka sink")
		}
	}
	return nil
}

// Load reads a YAML config file, merges it over defaults, applies
// environment overrides, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// FromEnv returns the defaults with environment overrides applied, for
// runs without a config file.
func FromEnv() Config {
	cfg := Default()
	cfg.applyEnv()
	return cfg
}

// applyEnv overlays GEOSIM_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("GEOSIM_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Sink.Port = port
		}
	}
	if v := os.Getenv("GEOSIM_BROADCAST_HOST"); v != "" {
		c.Sink.Host = v
	}
	if v := os.Getenv("GEOSIM_KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("GEOSIM_KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("GEOSIM_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// WriteExample writes an example config file to the given path.
func WriteExample(path string) error {
	example := `playback:
  frequency: 1
  time_count: 1
  unit: seconds
  throughput: 1
  time_override_fields:
    - datetimevalid
  on_end: stop

sink:
  type: udp
  host: 255.255.255.255
  port: 45678

kafka:
  brokers:
    - localhost:9092
  topic: geomessages

dashboard:
  addr: ":8090"

logging:
  level: info
`
	return os.WriteFile(path, []byte(example), 0o644)
}
