package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/node-util/internal/configgen"
	"github.com/conn-castle/node-util/internal/identity"
	"github.com/conn-castle/node-util/internal/layout"
	"github.com/conn-castle/node-util/internal/messages"
)

func newPromoteConfigCmd(opts *rootOptions, spec commandSpec) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   spec.name + " <version>",
		Short: spec.short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := layout.ValidateVersion(args[0]); err != nil {
				return err
			}
			rt, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer rt.close()

			if err := identity.Require(identitySystem, rt.settings.NodeUser); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			sys := configgen.RealSystem{}
			versionDir := rt.layout.ConfigDir(args[0])
			diff, err := configgen.PendingDiff(sys, versionDir, configgen.DefaultDiffMaxLines)
			if err != nil {
				return err
			}
			if !yes {
				if !diff.Empty() {
					_, _ = fmt.Fprint(out, diff.Unified)
				}
				ok, err := confirmFunc(fmt.Sprintf(messages.PromoteConfigPromptFmt, diff.CurrentPath, diff.PendingPath))
				if err != nil {
					return err
				}
				if !ok {
					_, _ = fmt.Fprintln(out, messages.PromoteConfigDeclined)
					return nil
				}
			}

			path, err := configgen.Promote(sys, versionDir)
			if err != nil {
				return err
			}
			rt.logger.Info(messages.LogConfigPromoted, "version", args[0], "path", path)
			_, _ = fmt.Fprintln(out, color.GreenString(messages.PromoteConfigDoneFmt, path))
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, messages.PromoteConfigFlagYes)
	return cmd
}
