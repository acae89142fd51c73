package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conn-castle/node-util/internal/configgen"
	"github.com/conn-castle/node-util/internal/identity"
	"github.com/conn-castle/node-util/internal/messages"
)

func newStageProtocolsCmd(opts *rootOptions, spec commandSpec) *cobra.Command {
	var ip string

	cmd := &cobra.Command{
		Use:   spec.name + " <config>",
		Short: spec.short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if ip != "" {
				if err := configgen.ValidateAddress(ip); err != nil {
					return fmt.Errorf(messages.StageProtocolsInvalidIPFmt, err)
				}
			}
			rt, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer rt.close()

			cfg, err := rt.loadNetworkConfig(args[0])
			if err != nil {
				return err
			}
			if err := identity.Require(identitySystem, rt.settings.NodeUser); err != nil {
				return err
			}
			orch, err := rt.orchestrator()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			report := orch.Stage(cmd.Context(), cfg, ip)
			for _, outcome := range report.Outcomes {
				printStageOutcome(out, outcome)
			}
			return finishReport(out, report)
		},
	}
	cmd.Flags().StringVar(&ip, "ip", "", messages.StageProtocolsFlagIP)
	return cmd
}
