package cli

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	version = "dev"

	configFlag  string
	envFlag     string
	noColorFlag bool
	noCacheFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "ppl",
	Short: "Command line client for the PPL myAPI2 shipping interface",
	Long: `ppl talks to the PPL (Professional Parcel Logistic) myAPI2 REST
interface. It can create shipment batches, print labels, track packages
and cancel shipments.

Credentials come from flags, the PPL_CLIENT_ID and PPL_CLIENT_SECRET
environment variables, or a YAML config file. Access tokens are cached
in the system keyring between invocations.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColorFlag {
			color.NoColor = true
		}
	},
	SilenceUsage: true,
}

// Execute runs the root command. The version string is stamped by the
// build and printed by the version subcommand.
func Execute(v string) {
	version = v
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "path to YAML config file (default $HOME/.config/ppl/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFlag, "env", "", "API environment, prod or test (default test, env PPL_ENV)")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noCacheFlag, "no-cache", false, "do not cache access tokens in the keyring")

	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(shipmentCmd)
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(cancelCmd)
	rootCmd.AddCommand(versionCmd)
}
