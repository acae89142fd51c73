package stage

import "github.com/conn-castle/node-util/internal/protocol"

// Action is what the staging loop did for one version.
type Action int

// Action values.
const (
	ActionNone Action = iota
	ActionPulled
	ActionMaterialized
)

// String names the action for log records.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionPulled:
		return "pulled"
	case ActionMaterialized:
		return "materialized"
	}
	return "unknown"
}

// Outcome records one version's observed status and what happened to it.
type Outcome struct {
	Version string
	Status  protocol.Status
	Action  Action
	// ConfigPath is the config written by materialization, when one was.
	ConfigPath string
	// Flagged marks a version counted against the aggregate result.
	Flagged bool
	Err     error
}

// Report aggregates a run. Err is set when the run could not start, such as a
// catalog fetch failure; Outcomes is then empty.
type Report struct {
	Outcomes []Outcome
	Err      error
}

// Failed reports whether the run should exit non-zero.
func (r Report) Failed() bool {
	if r.Err != nil {
		return true
	}
	for _, o := range r.Outcomes {
		if o.Flagged {
			return true
		}
	}
	return false
}

// FlaggedVersions lists versions counted against the aggregate result, in catalog order.
func (r Report) FlaggedVersions() []string {
	var out []string
	for _, o := range r.Outcomes {
		if o.Flagged {
			out = append(out, o.Version)
		}
	}
	return out
}
