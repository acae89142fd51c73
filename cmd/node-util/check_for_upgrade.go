package main

import (
	"github.com/spf13/cobra"
)

// newCheckForUpgradeCmd gates upgrades on the newest catalog version being at least
// partially staged. It stays silent unless that version is missing entirely.
func newCheckForUpgradeCmd(opts *rootOptions, spec commandSpec) *cobra.Command {
	return &cobra.Command{
		Use:   spec.name + " <config>",
		Short: spec.short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer rt.close()

			cfg, err := rt.loadNetworkConfig(args[0])
			if err != nil {
				return err
			}
			orch, err := rt.orchestrator()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			report := orch.CheckForUpgrade(cmd.Context(), cfg)
			for _, outcome := range report.Outcomes {
				if outcome.Flagged {
					printCheckOutcome(out, outcome)
				}
			}
			if report.Err == nil && report.Failed() {
				return &SilentExitError{Code: 1}
			}
			return finishReport(out, report)
		},
	}
}
