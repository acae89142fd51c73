package protocol

import "github.com/conn-castle/node-util/internal/messages"

// Status is the observable on-disk condition of one protocol version.
type Status int

// Status values. Exactly one applies to any filesystem state.
const (
	Unstaged Status = iota + 1
	BinOnly
	ConfigOnly
	NoConfig
	WrongNetwork
	Staged
)

// String returns the operator-facing description of s.
func (s Status) String() string {
	switch s {
	case Unstaged:
		return messages.StatusUnstaged
	case BinOnly:
		return messages.StatusBinOnly
	case ConfigOnly:
		return messages.StatusConfigOnly
	case NoConfig:
		return messages.StatusNoConfig
	case WrongNetwork:
		return messages.StatusWrongNetwork
	case Staged:
		return messages.StatusStaged
	}
	return messages.StatusUnknown
}

// Name returns the enumeration name of s, as used in log records.
func (s Status) Name() string {
	switch s {
	case Unstaged:
		return "UNSTAGED"
	case BinOnly:
		return "BIN_ONLY"
	case ConfigOnly:
		return "CONFIG_ONLY"
	case NoConfig:
		return "NO_CONFIG"
	case WrongNetwork:
		return "WRONG_NETWORK"
	case Staged:
		return "STAGED"
	}
	return "UNKNOWN"
}

// Recoverable reports whether automation can move s toward Staged.
// BinOnly and ConfigOnly need manual intervention.
func (s Status) Recoverable() bool {
	return s != BinOnly && s != ConfigOnly
}

// Actionable reports whether the staging loop takes a corrective action for s.
func (s Status) Actionable() bool {
	return s == Unstaged || s == NoConfig
}
