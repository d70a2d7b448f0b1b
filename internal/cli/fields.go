package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tfontaine/geosim/pkg/geomessage"
)

func newFieldsCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "fields",
		Short: "List the field names of a geomessage file",
		Long: `Reads the first message of a recorded geomessage file and prints its
field names, one per line. Useful for picking time-override fields.`,
		Example: `  geosim fields --file mission.xml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file is required")
			}

			r, err := geomessage.Open(file)
			if err != nil {
				return err
			}
			defer r.Close()

			for _, name := range r.FieldNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "path to the geomessage XML file (required)")
	return cmd
}
