package messages

// CLI messages for user-facing commands and output.
const (
	// RootUse is the CLI command name.
	RootUse = "node-util"
	// RootShort is the short description for the root command.
	RootShort        = "Stage and check casper-node protocol versions"
	RootVersionFlag  = "Print version and exit"
	RootFlagSettings = "Path to the node-util settings file (default /etc/casper/node_util.toml)"
	RootFlagLogLevel = "Log level: debug, info, warn, or error"
	RootFlagLogFile  = "Write JSON logs to this file, rotated automatically"

	// VersionCommitFmt formats the commit hash for version display.
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"

	// StageProtocolsUse is the stage command name.
	StageProtocolsUse          = "stage_protocols"
	StageProtocolsShort        = "Stage available protocols if needed (use 'sudo -u casper')"
	StageProtocolsFlagIP       = "IP to use for config.toml instead of the detected external IP"
	StageProtocolsInvalidIPFmt = "invalid --ip: %w"

	CheckProtocolsUse    = "check_protocols"
	CheckProtocolsShort  = "Check that every protocol is fully installed"
	CheckForUpgradeUse   = "check_for_upgrade"
	CheckForUpgradeShort = "Check that the newest protocol is staged"

	DiffConfigUse          = "diff_config"
	DiffConfigShort        = "Show the difference between config.toml and a generated config.toml.new"
	DiffConfigFlagLines    = "Maximum number of diff lines to show"
	DiffConfigIdenticalFmt = "%s matches %s; nothing to promote\n"
	DiffConfigTruncatedFmt = "... (truncated to %d lines; rerun with --diff-lines <n> to see more)\n"

	PromoteConfigUse       = "promote_config"
	PromoteConfigShort     = "Replace config.toml with a generated config.toml.new (use 'sudo -u casper')"
	PromoteConfigFlagYes   = "Promote without asking for confirmation"
	PromoteConfigPromptFmt = "Replace %s with %s?"
	PromoteConfigDeclined  = "Leaving config.toml unchanged."
	PromoteConfigDoneFmt   = "Promoted generated config to %s"

	PromptAffirmative      = "Yes"
	PromptNegative         = "No"
	PromptRequiresTerminal = "confirmation requires an interactive terminal; re-run with --yes"

	// OutcomeStatusFmt formats a version's status line.
	OutcomeStatusFmt        = "%s: %s"
	OutcomeUnrecoverableFmt = "%s: %s - Not automatically recoverable."
	OutcomeWrongNetworkFmt  = "%s: %s - Requires operator decision."
	OutcomePulledFmt        = "%s: %s - pulled protocol and created %s"
	OutcomeMaterializedFmt  = "%s: %s - created %s"
	OutcomeFailedFmt        = "%s: %s - failed: %v"
	OutcomeCheckFailedFmt   = "%s: check failed: %v"
	OutcomePendingConfigFmt = "  Previous config.toml kept. Review %s and run 'node-util promote_config %s' to use it."
	SummaryFailedFmt        = "%d protocol version(s) not staged automatically"
	CatalogFetchFailedFmt   = "fetch protocol versions: %w"

	// StatusUnstaged describes protocol.Unstaged.
	StatusUnstaged     = "Protocol Unstaged"
	StatusNoConfig     = "No config.toml for Protocol"
	StatusBinOnly      = "Only bin is staged for Protocol, no config"
	StatusConfigOnly   = "Only config is staged for Protocol, no bin"
	StatusWrongNetwork = "chainspec.toml is for wrong network"
	StatusStaged       = "Protocol Staged"
	StatusUnknown      = "Status unknown"
)
