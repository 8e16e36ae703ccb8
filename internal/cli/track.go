package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var trackCmd = &cobra.Command{
	Use:   "track <shipment-number>...",
	Short: "Print the tracking history of one or more packages",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd.Context())
		if err != nil {
			return err
		}
		packages, err := client.TrackPackages(cmd.Context(), args)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, pkg := range packages {
			fmt.Fprintln(out, pkg.ShipmentNumber)
			for _, event := range pkg.Events {
				fmt.Fprintf(out, "  %s  %-8s %s\n",
					event.Time.Format("2006-01-02 15:04"), event.Code, event.Name)
			}
		}
		return nil
	},
}
