package dispatch

import (
	"github.com/google/uuid"

	"pressroom/internal/profile"
)

// Reason classifies how a routing decision was reached.
type Reason string

const (
	// ReasonExplicit means the caller named the agent directly.
	ReasonExplicit Reason = "explicit"
	// ReasonBestMatch means the matcher picked the winner.
	ReasonBestMatch Reason = "best_match"
	// ReasonBelowThreshold means no profile cleared the confidence floor.
	ReasonBelowThreshold Reason = "below_threshold"
	// ReasonMatcherTimeout means the scoring backend did not answer in time.
	ReasonMatcherTimeout Reason = "matcher_timeout"
	// ReasonEmptyRegistry means there were no profiles to match against.
	ReasonEmptyRegistry Reason = "empty_registry"
)

// Decision is the outcome of one dispatch: either a selected profile with
// a confidence score, or a no-match outcome (Profile nil) with the reason.
// No-match is a legitimate result the caller must handle, not an error.
type Decision struct {
	ID        string
	Profile   *profile.Profile
	Score     float64
	Rationale string
	Reason    Reason
}

func (d *Decision) Matched() bool {
	return d.Profile != nil
}

// AgentName returns the selected profile name, or "" on no-match.
func (d *Decision) AgentName() string {
	if d.Profile == nil {
		return ""
	}
	return d.Profile.Name
}

func newDecisionID() string {
	return uuid.NewString()
}
