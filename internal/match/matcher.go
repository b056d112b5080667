package match

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"pressroom/internal/profile"
	"pressroom/internal/registry"
	"pressroom/internal/trace"
)

// ErrTimeout reports that the scoring backend did not answer within the
// per-request budget. The dispatcher maps it to a no-match outcome.
var ErrTimeout = errors.New("matcher: scoring timed out")

// Candidate is one profile with its score for a given request.
type Candidate struct {
	Profile   *profile.Profile
	Score     float64
	Rationale string
}

const (
	defaultTimeout      = 10 * time.Second
	defaultMentionBoost = 0.5
)

type Option func(*Matcher)

// WithTimeout bounds one full ranking pass. Zero disables the deadline.
func WithTimeout(d time.Duration) Option {
	return func(m *Matcher) { m.timeout = d }
}

// WithMentionBoost sets the score lift applied when the request names a
// profile directly. The boost closes the gap to 1.0 by the given fraction.
func WithMentionBoost(b float64) Option {
	return func(m *Matcher) { m.mentionBoost = b }
}

// Matcher scores a request against every profile in a registry snapshot
// and returns candidates ranked best-first. Ranking is deterministic for a
// fixed snapshot and scorer configuration: equal scores keep registry
// insertion order.
type Matcher struct {
	scorer       Scorer
	timeout      time.Duration
	mentionBoost float64
}

func NewMatcher(scorer Scorer, opts ...Option) *Matcher {
	m := &Matcher{
		scorer:       scorer,
		timeout:      defaultTimeout,
		mentionBoost: defaultMentionBoost,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Rank scores the request against all profiles. A scorer that exceeds the
// matcher timeout yields ErrTimeout; cancellation of the caller's context
// is passed through untouched.
func (m *Matcher) Rank(ctx context.Context, request string, reg *registry.Registry) ([]Candidate, error) {
	ctx, span := trace.Tracer().Start(ctx, "matcher.rank")
	defer span.End()
	span.SetAttributes(attribute.Int("pressroom.profiles", reg.Len()))

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	profiles := reg.List()
	candidates := make([]Candidate, 0, len(profiles))
	normalized := strings.ToLower(request)

	for _, p := range profiles {
		score, rationale, err := m.scorer.Score(ctx, request, p)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				span.SetStatus(codes.Error, "scoring timed out")
				return nil, ErrTimeout
			}
			span.RecordError(err)
			return nil, err
		}

		if m.mentionBoost > 0 && mentionsProfile(normalized, p.Name) {
			score += (1 - score) * m.mentionBoost
			rationale += "; request names the agent directly"
		}

		candidates = append(candidates, Candidate{Profile: p, Score: score, Rationale: rationale})
	}

	// Stable sort keeps insertion order among equal scores.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > 0 {
		span.SetAttributes(
			attribute.String("pressroom.top_agent", candidates[0].Profile.Name),
			attribute.Float64("pressroom.top_score", candidates[0].Score),
		)
	}
	return candidates, nil
}

// mentionsProfile reports whether the request names the profile, either in
// its hyphenated form or with hyphens spelled as spaces.
func mentionsProfile(normalizedRequest, name string) bool {
	name = strings.ToLower(name)
	if strings.Contains(normalizedRequest, name) {
		return true
	}
	spaced := strings.ReplaceAll(name, "-", " ")
	return spaced != name && strings.Contains(normalizedRequest, spaced)
}
