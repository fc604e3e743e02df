package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"pkt.systems/merelcheck"
	"pkt.systems/pslog"
)

const defaultBaseURL = "http://localhost:8000"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "merelcheck",
		Short:         "Smoke test the MerelFormation HTTP API",
		Args:          cobra.NoArgs,
		Version:       merelcheck.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logSettingsFromFlags(cmd.Flags()).build(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			cmd.SetContext(pslog.ContextWithLogger(cmd.Context(), logger))
			return nil
		},
		RunE: runE,
	}

	addLoggingFlags(root.PersistentFlags())
	root.Flags().String("base-url", defaultBaseURL, "Base URL of the API")
	root.Flags().String("token", "", "JWT token sent as a bearer Authorization header")
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// Cobra parse / usage errors
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
