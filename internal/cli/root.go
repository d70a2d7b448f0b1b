package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root geosim command.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "geosim",
		Short: "Replay recorded geomessage feeds",
		Long: `geosim replays a recorded geomessage file onto a network channel at a
configurable rate, simulating a live feed for event-processing systems
under test.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newPlayCmd(),
		newFieldsCmd(),
		newGenerateCmd(),
	)

	return root
}
