package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/tfontaine/geosim/internal/clock"
	"github.com/tfontaine/geosim/internal/config"
	"github.com/tfontaine/geosim/internal/logging"
	"github.com/tfontaine/geosim/internal/metrics"
	"github.com/tfontaine/geosim/internal/rate"
	"github.com/tfontaine/geosim/internal/scheduler"
	"github.com/tfontaine/geosim/internal/server"
	"github.com/tfontaine/geosim/internal/sink"
	"github.com/tfontaine/geosim/pkg/geomessage"
)

func newPlayCmd() *cobra.Command {
	var (
		file           string
		configPath     string
		frequency      float64
		timeCount      float64
		unit           string
		throughput     int
		sinkType       string
		host           string
		port           int
		brokers        []string
		topic          string
		overrideFields []string
		onEnd          string
		duration       time.Duration
		dashboardAddr  string
		verbose        bool
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play back a recorded geomessage file",
		Long: `Replays geomessages from an XML file at a configurable rate.

Each tick reads the next record, rewrites any configured time fields to
the current wall clock, and sends it to the selected sink. Playback runs
until the stream ends (per --on-end), --duration elapses, or the process
is interrupted.`,
		Example: `  geosim play --file mission.xml --frequency 2
  geosim play --file mission.xml --frequency 50 --time-count 6 --unit minutes
  geosim play --file mission.xml --sink kafka --brokers localhost:9092 --topic geomessages
  geosim play --file mission.xml --on-end loop --dashboard :8090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromEnv()
			if configPath != "" {
				var err error
				cfg, err = config.Load(configPath)
				if err != nil {
					return err
				}
			}

			// Explicit flags win over config file and environment.
			flags := cmd.Flags()
			if flags.Changed("frequency") {
				cfg.Playback.Frequency = frequency
			}
			if flags.Changed("time-count") {
				cfg.Playback.TimeCount = timeCount
			}
			if flags.Changed("unit") {
				cfg.Playback.Unit = unit
			}
			if flags.Changed("throughput") {
				cfg.Playback.Throughput = throughput
			}
			if flags.Changed("time-override-fields") {
				cfg.Playback.TimeOverrideFields = overrideFields
			}
			if flags.Changed("on-end") {
				cfg.Playback.OnEnd = onEnd
			}
			if flags.Changed("sink") {
				cfg.Sink.Type = sinkType
			}
			if flags.Changed("host") {
				cfg.Sink.Host = host
			}
			if flags.Changed("port") {
				cfg.Sink.Port = port
			}
			if flags.Changed("brokers") {
				cfg.Kafka.Brokers = brokers
			}
			if flags.Changed("topic") {
				cfg.Kafka.Topic = topic
			}
			if flags.Changed("dashboard") {
				cfg.Dashboard.Addr = dashboardAddr
			}
			if flags.Changed("verbose") {
				cfg.Logging.Verbose = verbose
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			log, err := logging.New(cfg.Logging.Level, cfg.Logging.Verbose)
			if err != nil {
				return err
			}
			defer log.Sync()

			return runPlay(cmd, cfg, file, duration, log)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "geomessage XML file to play back (required)")
	cmd.Flags().StringVar(&configPath, "config", "", "config YAML file")
	cmd.Flags().Float64Var(&frequency, "frequency", 1, "messages to broadcast per time window")
	cmd.Flags().Float64Var(&timeCount, "time-count", 1, "length of the time window")
	cmd.Flags().StringVar(&unit, "unit", rate.UnitSeconds, "time window unit (seconds, minutes, hours, days, weeks)")
	cmd.Flags().IntVar(&throughput, "throughput", 1, "messages per broadcast tick")
	cmd.Flags().StringVar(&sinkType, "sink", config.SinkUDP, "delivery sink (udp, kafka, none)")
	cmd.Flags().StringVar(&host, "host", sink.DefaultBroadcastHost, "UDP broadcast host")
	cmd.Flags().IntVar(&port, "port", sink.DefaultPort, "UDP broadcast port")
	cmd.Flags().StringSliceVar(&brokers, "brokers", []string{"localhost:9092"}, "kafka broker addresses")
	cmd.Flags().StringVar(&topic, "topic", "geomessages", "kafka topic")
	cmd.Flags().StringSliceVar(&overrideFields, "time-override-fields", nil, "field names rewritten to the current time")
	cmd.Flags().StringVar(&onEnd, "on-end", "stop", "end of stream behavior (stop, idle, loop)")
	cmd.Flags().DurationVar(&duration, "duration", 0, "stop after this long (0 = until end of stream or interrupt)")
	cmd.Flags().StringVar(&dashboardAddr, "dashboard", "", "serve the status dashboard on this address (e.g. :8090)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose console logging")
	cmd.MarkFlagRequired("file")

	return cmd
}

func runPlay(cmd *cobra.Command, cfg config.Config, file string, duration time.Duration, log *logging.Logger) error {
	src, err := geomessage.Open(file)
	if err != nil {
		return err
	}
	defer src.Close()

	snk, err := buildSink(cfg)
	if err != nil {
		return err
	}
	defer snk.Close()

	endPolicy, err := scheduler.ParseEndPolicy(cfg.Playback.OnEnd)
	if err != nil {
		return err
	}

	model := rate.NewModel()
	if err := model.SetFrequencyPer(cfg.Playback.Frequency, cfg.Playback.TimeCount, cfg.Playback.Unit); err != nil {
		return err
	}
	if err := model.SetThroughput(cfg.Playback.Throughput); err != nil {
		return err
	}
	model.SetTimeOverrideFields(cfg.Playback.TimeOverrideFields)

	sched := scheduler.New(model, snk,
		scheduler.WithLogger(log),
		scheduler.WithEndPolicy(endPolicy),
	)

	endCh := make(chan struct{}, 1)
	sched.AddObserver(scheduler.ObserverFuncs{
		OnStreamEnded: func() {
			select {
			case endCh <- struct{}{}:
			default:
			}
		},
	})

	if cfg.Dashboard.Addr != "" {
		reg := prometheus.NewRegistry()
		sched.AddObserver(metrics.New(reg))

		hub := server.NewHub(log)
		sched.AddObserver(server.NewObserver(hub, clock.NewRealClock()))

		srv := server.New(cfg.Dashboard.Addr, sched, model, hub, reg, log)
		go func() {
			if err := srv.Start(); err != nil && err != http.ErrServerClosed {
				log.Errorw("dashboard server stopped", "error", err)
			}
		}()
		defer func() {
			shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutCancel()
			srv.Shutdown(shutCtx)
		}()
		log.Infow("dashboard started", "addr", cfg.Dashboard.Addr)
	}

	if err := sched.Initialize(src); err != nil {
		return err
	}

	log.Infow("starting playback",
		"file", file,
		"fields", strings.Join(src.FieldNames(), ","),
		"interval", model.Interval(),
		"throughput", cfg.Playback.Throughput,
		"sink", cfg.Sink.Type,
		"on_end", endPolicy,
	)
	sched.Start()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var timeout <-chan time.Time
	if duration > 0 {
		timer := time.NewTimer(duration)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case <-ctx.Done():
		log.Infow("interrupted")
	case <-timeout:
		log.Infow("duration elapsed", "duration", duration)
	case <-endCh:
		if endPolicy != scheduler.EndStop {
			// Idle and loop keep playing after the first end of stream.
			select {
			case <-ctx.Done():
				log.Infow("interrupted")
			case <-timeout:
				log.Infow("duration elapsed", "duration", duration)
			}
		}
	}

	sched.Stop()

	stats := sched.Stats()
	fmt.Printf("Playback finished\n")
	fmt.Printf("  Sent:            %d\n", stats.Sent)
	fmt.Printf("  Delivery errors: %d\n", stats.DeliveryErrors)
	fmt.Printf("  Cursor:          %d\n", stats.Cursor)
	return nil
}

// buildSink constructs the delivery sink named by the config. The none
// sink records messages without delivering them, which is useful for dry
// runs and tests.
func buildSink(cfg config.Config) (sink.Sink, error) {
	switch cfg.Sink.Type {
	case config.SinkUDP:
		return sink.NewUDPSink(cfg.Sink.Host, cfg.Sink.Port)
	case config.SinkKafka:
		return sink.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.Topic), nil
	case config.SinkNone:
		return sink.NewCaptureSink(), nil
	default:
		return nil, fmt.Errorf("unknown sink type %q", cfg.Sink.Type)
	}
}
