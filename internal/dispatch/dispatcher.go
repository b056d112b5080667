package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"go.opentelemetry.io/otel/attribute"

	"pressroom/internal/match"
	"pressroom/internal/registry"
	"pressroom/internal/trace"
)

const (
	defaultThreshold = 0.25
	defaultEpsilon   = 0.05
)

// Config is the selection policy: the confidence floor below which the
// dispatcher reports no-match, and the score distance within which
// candidates count as tied. A negative Threshold or Epsilon selects the
// package default; a zero Threshold accepts any best match.
type Config struct {
	Threshold float64
	Epsilon   float64
}

// Request is one dispatch call. ExplicitName, when set, bypasses matching
// entirely and selects that profile outright.
type Request struct {
	Text         string
	ExplicitName string
}

// Dispatcher applies selection policy over matcher rankings. It holds no
// mutable state: every call is a pure function of the request, the current
// registry snapshot, and the config, so concurrent use needs no locking.
type Dispatcher struct {
	store   *registry.Store
	matcher *match.Matcher
	cfg     Config
}

func New(store *registry.Store, matcher *match.Matcher, cfg Config) *Dispatcher {
	if cfg.Threshold < 0 {
		cfg.Threshold = defaultThreshold
	}
	if cfg.Epsilon < 0 {
		cfg.Epsilon = defaultEpsilon
	}
	return &Dispatcher{store: store, matcher: matcher, cfg: cfg}
}

// Dispatch routes one request to its single best agent.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (*Decision, error) {
	decisions, err := d.dispatch(ctx, req, false)
	if err != nil {
		return nil, err
	}
	return decisions[0], nil
}

// DispatchMulti routes one request to every agent that clears the
// threshold, ordered by score with deterministic tie-breaking. A request
// nothing matches yields a single no-match decision.
func (d *Dispatcher) DispatchMulti(ctx context.Context, req Request) ([]*Decision, error) {
	return d.dispatch(ctx, req, true)
}

func (d *Dispatcher) dispatch(ctx context.Context, req Request, multi bool) ([]*Decision, error) {
	ctx, span := trace.Tracer().Start(ctx, "dispatch")
	defer span.End()
	span.SetAttributes(attribute.Bool("pressroom.multi", multi))

	snap := d.store.Snapshot()

	if req.ExplicitName != "" {
		p, ok := snap.Get(req.ExplicitName)
		if !ok {
			return nil, &UnknownAgentError{Name: req.ExplicitName}
		}
		dec := &Decision{
			ID:        newDecisionID(),
			Profile:   p,
			Score:     1.0,
			Rationale: "explicit",
			Reason:    ReasonExplicit,
		}
		span.SetAttributes(attribute.String("pressroom.agent", p.Name))
		return []*Decision{dec}, nil
	}

	if snap.Len() == 0 {
		return []*Decision{d.noMatch(ReasonEmptyRegistry, "registry holds no profiles")}, nil
	}

	candidates, err := d.matcher.Rank(ctx, req.Text, snap)
	if err != nil {
		if errors.Is(err, match.ErrTimeout) {
			return []*Decision{d.noMatch(ReasonMatcherTimeout, "scoring backend timed out")}, nil
		}
		return nil, fmt.Errorf("ranking request: %w", err)
	}

	var eligible []match.Candidate
	for _, c := range candidates {
		if c.Score >= d.cfg.Threshold {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) == 0 {
		rationale := fmt.Sprintf("best candidate %s scored %.2f, below threshold %.2f",
			candidates[0].Profile.Name, candidates[0].Score, d.cfg.Threshold)
		return []*Decision{d.noMatch(ReasonBelowThreshold, rationale)}, nil
	}

	ordered := d.order(eligible, snap)

	if !multi {
		winner := ordered[0]
		dec := &Decision{
			ID:        newDecisionID(),
			Profile:   winner.Profile,
			Score:     winner.Score,
			Rationale: winner.Rationale,
			Reason:    ReasonBestMatch,
		}
		span.SetAttributes(
			attribute.String("pressroom.agent", winner.Profile.Name),
			attribute.Float64("pressroom.score", winner.Score),
		)
		slog.Debug("dispatched", "agent", winner.Profile.Name, "score", winner.Score)
		return []*Decision{dec}, nil
	}

	out := make([]*Decision, 0, len(ordered))
	for _, c := range ordered {
		out = append(out, &Decision{
			ID:        newDecisionID(),
			Profile:   c.Profile,
			Score:     c.Score,
			Rationale: c.Rationale,
			Reason:    ReasonBestMatch,
		})
	}
	span.SetAttributes(attribute.Int("pressroom.selected", len(out)))
	return out, nil
}

// order resolves near-ties deterministically. Candidates within epsilon of
// the top score form one tie group ordered by registry insertion position,
// then by name; the rest keep score-descending order. Callers pass only
// candidates that already cleared the threshold, so tie-breaking can never
// promote a low-confidence candidate over an eligible one.
func (d *Dispatcher) order(candidates []match.Candidate, snap *registry.Registry) []match.Candidate {
	ordered := make([]match.Candidate, len(candidates))
	copy(ordered, candidates)
	top := ordered[0].Score
	n := 1
	for n < len(ordered) && top-ordered[n].Score <= d.cfg.Epsilon {
		n++
	}
	tied := ordered[:n]
	sort.SliceStable(tied, func(i, j int) bool {
		ai, bi := snap.Index(tied[i].Profile.Name), snap.Index(tied[j].Profile.Name)
		if ai != bi {
			return ai < bi
		}
		return tied[i].Profile.Name < tied[j].Profile.Name
	})
	return ordered
}

func (d *Dispatcher) noMatch(reason Reason, rationale string) *Decision {
	slog.Debug("no match", "reason", reason, "rationale", rationale)
	return &Decision{
		ID:        newDecisionID(),
		Rationale: rationale,
		Reason:    reason,
	}
}
