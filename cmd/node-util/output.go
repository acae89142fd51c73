package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/conn-castle/node-util/internal/configgen"
	"github.com/conn-castle/node-util/internal/messages"
	"github.com/conn-castle/node-util/internal/protocol"
	"github.com/conn-castle/node-util/internal/stage"
)

// printStageOutcome writes the line for one version after a staging pass.
func printStageOutcome(out io.Writer, o stage.Outcome) {
	switch {
	case o.Err != nil:
		_, _ = fmt.Fprintln(out, color.RedString(messages.OutcomeFailedFmt, o.Version, o.Status, o.Err))
	case o.Status == protocol.Staged:
		_, _ = fmt.Fprintln(out, color.GreenString(messages.OutcomeStatusFmt, o.Version, o.Status))
	case !o.Status.Recoverable():
		_, _ = fmt.Fprintln(out, color.RedString(messages.OutcomeUnrecoverableFmt, o.Version, o.Status))
	case o.Status == protocol.WrongNetwork:
		_, _ = fmt.Fprintln(out, color.RedString(messages.OutcomeWrongNetworkFmt, o.Version, o.Status))
	case o.Action == stage.ActionPulled:
		_, _ = fmt.Fprintln(out, color.GreenString(messages.OutcomePulledFmt, o.Version, o.Status, o.ConfigPath))
	case o.Action == stage.ActionMaterialized:
		_, _ = fmt.Fprintln(out, color.GreenString(messages.OutcomeMaterializedFmt, o.Version, o.Status, o.ConfigPath))
	default:
		_, _ = fmt.Fprintf(out, messages.OutcomeStatusFmt+"\n", o.Version, o.Status)
	}
	if o.Err == nil && o.ConfigPath != "" && configgen.IsPending(o.ConfigPath) {
		_, _ = fmt.Fprintln(out, color.YellowString(messages.OutcomePendingConfigFmt, o.ConfigPath, o.Version))
	}
}

// printCheckOutcome writes the line for one version after a read-only check.
func printCheckOutcome(out io.Writer, o stage.Outcome) {
	switch {
	case o.Err != nil:
		_, _ = fmt.Fprintln(out, color.RedString(messages.OutcomeCheckFailedFmt, o.Version, o.Err))
	case o.Status == protocol.Staged:
		_, _ = fmt.Fprintln(out, color.GreenString(messages.OutcomeStatusFmt, o.Version, o.Status))
	case o.Status.Actionable():
		_, _ = fmt.Fprintln(out, color.YellowString(messages.OutcomeStatusFmt, o.Version, o.Status))
	default:
		_, _ = fmt.Fprintln(out, color.RedString(messages.OutcomeStatusFmt, o.Version, o.Status))
	}
}

// finishReport prints the run summary and converts a failed report into an exit code.
func finishReport(out io.Writer, report stage.Report) error {
	if report.Err != nil {
		return fmt.Errorf(messages.CatalogFetchFailedFmt, report.Err)
	}
	if report.Failed() {
		_, _ = fmt.Fprintln(out, color.RedString(messages.SummaryFailedFmt, len(report.FlaggedVersions())))
		return &SilentExitError{Code: 1}
	}
	return nil
}
