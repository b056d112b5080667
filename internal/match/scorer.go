package match

import (
	"context"

	"pressroom/internal/profile"
)

// Scorer rates how well a free-text request fits one profile. Scores are
// in [0, 1], higher is better. The rationale string accompanies the score
// for logging and for the caller to surface in routing decisions.
//
// Implementations must be deterministic: for a fixed profile and fixed
// configuration, the same request always yields the same score.
type Scorer interface {
	Score(ctx context.Context, request string, p *profile.Profile) (float64, string, error)
}
