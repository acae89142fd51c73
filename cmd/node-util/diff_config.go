package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conn-castle/node-util/internal/configgen"
	"github.com/conn-castle/node-util/internal/layout"
	"github.com/conn-castle/node-util/internal/messages"
)

func newDiffConfigCmd(opts *rootOptions, spec commandSpec) *cobra.Command {
	var maxLines int

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

			out := cmd.OutOrStdout()
			diff, err := configgen.PendingDiff(configgen.RealSystem{}, rt.layout.ConfigDir(args[0]), maxLines)
			if err != nil {
				return err
			}
			if diff.Empty() {
				_, _ = fmt.Fprintf(out, messages.DiffConfigIdenticalFmt, diff.PendingPath, diff.CurrentPath)
				return nil
			}
			_, _ = fmt.Fprint(out, diff.Unified)
			if diff.Truncated {
				_, _ = fmt.Fprintf(out, messages.DiffConfigTruncatedFmt, maxLinesOrDefault(maxLines))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&maxLines, "diff-lines", configgen.DefaultDiffMaxLines, messages.DiffConfigFlagLines)
	return cmd
}

func maxLinesOrDefault(n int) int {
	if n <= 0 {
		return configgen.DefaultDiffMaxLines
	}
	return n
}
