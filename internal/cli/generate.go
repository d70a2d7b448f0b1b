package cli

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tfontaine/geosim/internal/config"
	"github.com/tfontaine/geosim/pkg/geomessage"
)

func newGenerateCmd() *cobra.Command {
	var (
		output string
		count  int
		units  int
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate sample message files and config",
		Long: `Generates sample data for testing and experimentation.

Use "generate messages" to create a sample geomessage XML file.
Use "generate config" to create an example config YAML file.`,
	}

	messagesCmd := &cobra.Command{
		Use:   "messages",
		Short: "Generate a sample geomessage XML file",
		Long: `Creates a feed of position reports for a handful of units moving on
random headings, in the same shape as a recorded geomessage file.`,
		Example: `  geosim generate messages --output mission.xml --count 100 --units 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = "messages.xml"
			}

			msgs := generateMessages(count, units, time.Now())
			if err := geomessage.WriteFile(output, msgs); err != nil {
				return err
			}

			fmt.Printf("Generated %d geomessages to %s\n", len(msgs), output)
			fmt.Printf("  Units: %d\n", units)
			return nil
		},
	}

	messagesCmd.Flags().StringVar(&output, "output", "messages.xml", "output file path")
	messagesCmd.Flags().IntVar(&count, "count", 100, "number of messages to generate")
	messagesCmd.Flags().IntVar(&units, "units", 3, "number of distinct units reporting")

	configCmd := &cobra.Command{
		Use:     "config",
		Short:   "Generate an example config YAML file",
		Example: `  geosim generate config --output geosim.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = "geosim.yaml"
			}
			if err := config.WriteExample(output); err != nil {
				return err
			}
			fmt.Printf("Generated example config at %s\n", output)
			return nil
		},
	}

	configCmd.Flags().StringVar(&output, "output", "geosim.yaml", "output file path")

	cmd.AddCommand(messagesCmd, configCmd)
	return cmd
}

// sicCodes is a small pool of symbol identification codes for generated
// position reports.
var sicCodes = []string{
	"SFGPUCI----K",
	"SFGPUCR----K",
	"SFGPUCA----K",
	"SFAPMFF----K",
	"SFGPEVAT---K",
}

type trackState struct {
	name string
	id   string
	sic  string
	lon  float64
	lat  float64
	dLon float64
	dLat float64
}

// generateMessages produces count position reports, round-robin across the
// given number of units, each drifting from a random start point.
func generateMessages(count, units int, start time.Time) []geomessage.Message {
	if units < 1 {
		units = 1
	}
	rng := rand.New(rand.NewSource(start.UnixNano()))

	tracks := make([]trackState, units)
	for i := range tracks {
		tracks[i] = trackState{
			name: fmt.Sprintf("Unit %d", i+1),
			id:   uuid.NewString(),
			sic:  sicCodes[rng.Intn(len(sicCodes))],
			lon:  -117.2 + rng.Float64(),
			lat:  34.0 + rng.Float64(),
			dLon: (rng.Float64() - 0.5) / 100,
			dLat: (rng.Float64() - 0.5) / 100,
		}
	}

	msgs := make([]geomessage.Message, 0, count)
	for i := 0; i < count; i++ {
		tr := &tracks[i%units]
		tr.lon += tr.dLon
		tr.lat += tr.dLat
		ts := start.Add(time.Duration(i/units) * time.Second)

		msgs = append(msgs, geomessage.New([]geomessage.Field{
			{Name: geomessage.FieldName, Value: tr.name},
			{Name: geomessage.FieldID, Value: tr.id},
			{Name: geomessage.FieldAction, Value: "UPDATE"},
			{Name: geomessage.FieldType, Value: "position_report"},
			{Name: geomessage.FieldSIC, Value: tr.sic},
			{Name: "datetimevalid", Value: ts.Format(geomessage.TimeFormat)},
			{Name: "position", Value: fmt.Sprintf("%.6f %.6f", tr.lon, tr.lat)},
		}))
	}
	return msgs
}
