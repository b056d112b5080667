package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pressroom/internal/match"
	"pressroom/internal/profile"
	"pressroom/internal/registry"
)

// fixedScorer returns a canned score per profile name.
type fixedScorer struct {
	scores map[string]float64
}

func (f *fixedScorer) Score(ctx context.Context, request string, p *profile.Profile) (float64, string, error) {
	return f.scores[p.Name], "fixed score", nil
}

type blockingScorer struct{}

func (blockingScorer) Score(ctx context.Context, request string, p *profile.Profile) (float64, string, error) {
	<-ctx.Done()
	return 0, "", ctx.Err()
}

func storeWith(t *testing.T, names ...string) *registry.Store {
	t.Helper()
	profiles := make([]*profile.Profile, len(names))
	for i, n := range names {
		profiles[i] = &profile.Profile{Name: n, TriggerDescription: "handles " + n, Persona: "persona for " + n}
	}
	s := registry.NewStore()
	require.NoError(t, s.Reload(context.Background(), profile.StaticSource(profiles)))
	return s
}

func newDispatcher(store *registry.Store, scorer match.Scorer) *Dispatcher {
	m := match.NewMatcher(scorer, match.WithMentionBoost(0))
	return New(store, m, Config{Threshold: 0.25, Epsilon: 0.05})
}

func TestDispatch_ExplicitNameWinsOutright(t *testing.T) {
	store := storeWith(t, "media", "python")
	// Matcher would pick python; explicit selection must ignore it.
	d := newDispatcher(store, &fixedScorer{scores: map[string]float64{"media": 0.0, "python": 0.9}})

	for _, request := range []string{"write clean code", "", "sing me a song"} {
		dec, err := d.Dispatch(context.Background(), Request{Text: request, ExplicitName: "media"})
		require.NoError(t, err)
		require.True(t, dec.Matched())
		assert.Equal(t, "media", dec.AgentName())
		assert.Equal(t, 1.0, dec.Score)
		assert.Equal(t, "explicit", dec.Rationale)
		assert.Equal(t, ReasonExplicit, dec.Reason)
	}
}

func TestDispatch_UnknownExplicitName(t *testing.T) {
	store := storeWith(t, "media")
	d := newDispatcher(store, &fixedScorer{scores: map[string]float64{"media": 0.9}})

	_, err := d.Dispatch(context.Background(), Request{Text: "anything", ExplicitName: "nonexistent"})
	require.Error(t, err)

	var unknown *UnknownAgentError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "nonexistent", unknown.Name)
}

func TestDispatch_PicksHighestScore(t *testing.T) {
	store := storeWith(t, "media", "python", "curator")
	d := newDispatcher(store, &fixedScorer{scores: map[string]float64{
		"media": 0.3, "python": 0.8, "curator": 0.5,
	}})

	dec, err := d.Dispatch(context.Background(), Request{Text: "write a function"})
	require.NoError(t, err)
	assert.Equal(t, "python", dec.AgentName())
	assert.Equal(t, 0.8, dec.Score)
	assert.Equal(t, ReasonBestMatch, dec.Reason)
}

func TestDispatch_BelowThresholdIsNoMatch(t *testing.T) {
	store := storeWith(t, "media", "python")
	d := newDispatcher(store, &fixedScorer{scores: map[string]float64{"media": 0.1, "python": 0.2}})

	dec, err := d.Dispatch(context.Background(), Request{Text: "sing me a song"})
	require.NoError(t, err)
	assert.False(t, dec.Matched())
	assert.Equal(t, ReasonBelowThreshold, dec.Reason)
	assert.Contains(t, dec.Rationale, "python") // best candidate is named
	assert.Contains(t, dec.Rationale, "below threshold")
}

func TestDispatch_EmptyRegistryIsNoMatch(t *testing.T) {
	d := newDispatcher(registry.NewStore(), &fixedScorer{})

	dec, err := d.Dispatch(context.Background(), Request{Text: "anything"})
	require.NoError(t, err)
	assert.False(t, dec.Matched())
	assert.Equal(t, ReasonEmptyRegistry, dec.Reason)
}

func TestDispatch_TimeoutIsNoMatch(t *testing.T) {
	store := storeWith(t, "media")
	m := match.NewMatcher(blockingScorer{}, match.WithTimeout(20*time.Millisecond))
	d := New(store, m, Config{})

	dec, err := d.Dispatch(context.Background(), Request{Text: "anything"})
	require.NoError(t, err)
	assert.False(t, dec.Matched())
	assert.Equal(t, ReasonMatcherTimeout, dec.Reason)
}

func TestDispatch_TieBreakByInsertionOrder(t *testing.T) {
	// "zebra" registered first; within epsilon of "alpha" and must win even
	// though alpha sorts first lexicographically and scores marginally higher.
	store := storeWith(t, "zebra", "alpha")
	d := newDispatcher(store, &fixedScorer{scores: map[string]float64{"zebra": 0.70, "alpha": 0.72}})

	dec, err := d.Dispatch(context.Background(), Request{Text: "anything"})
	require.NoError(t, err)
	assert.Equal(t, "zebra", dec.AgentName())
}

func TestDispatch_TieBreakOnlyAmongEligible(t *testing.T) {
	// "low" registered first and within epsilon of "high", but below the
	// threshold. Tie-breaking must not promote it over the eligible winner.
	store := storeWith(t, "low", "high")
	d := newDispatcher(store, &fixedScorer{scores: map[string]float64{"low": 0.23, "high": 0.27}})

	dec, err := d.Dispatch(context.Background(), Request{Text: "anything"})
	require.NoError(t, err)
	require.True(t, dec.Matched())
	assert.Equal(t, "high", dec.AgentName())
	assert.Equal(t, 0.27, dec.Score)
}

func TestDispatchMulti_TieAcrossThresholdKeepsEligible(t *testing.T) {
	store := storeWith(t, "low", "high")
	d := newDispatcher(store, &fixedScorer{scores: map[string]float64{"low": 0.23, "high": 0.27}})

	decisions, err := d.DispatchMulti(context.Background(), Request{Text: "anything"})
	require.NoError(t, err)
	require.Len(t, decisions, 1)
	assert.Equal(t, "high", decisions[0].AgentName())
	assert.Equal(t, ReasonBestMatch, decisions[0].Reason)
}

func TestDispatch_ZeroThresholdAcceptsAnyBest(t *testing.T) {
	store := storeWith(t, "media")
	m := match.NewMatcher(&fixedScorer{scores: map[string]float64{"media": 0.01}}, match.WithMentionBoost(0))
	d := New(store, m, Config{Threshold: 0, Epsilon: 0.05})

	dec, err := d.Dispatch(context.Background(), Request{Text: "anything"})
	require.NoError(t, err)
	require.True(t, dec.Matched())
	assert.Equal(t, "media", dec.AgentName())
}

func TestDispatch_NegativeThresholdUsesDefault(t *testing.T) {
	store := storeWith(t, "media")
	m := match.NewMatcher(&fixedScorer{scores: map[string]float64{"media": 0.2}}, match.WithMentionBoost(0))
	d := New(store, m, Config{Threshold: -1, Epsilon: 0.05})

	dec, err := d.Dispatch(context.Background(), Request{Text: "anything"})
	require.NoError(t, err)
	assert.False(t, dec.Matched())
	assert.Equal(t, ReasonBelowThreshold, dec.Reason)
}

func TestDispatch_OutsideEpsilonScoreWins(t *testing.T) {
	store := storeWith(t, "zebra", "alpha")
	d := newDispatcher(store, &fixedScorer{scores: map[string]float64{"zebra": 0.50, "alpha": 0.80}})

	dec, err := d.Dispatch(context.Background(), Request{Text: "anything"})
	require.NoError(t, err)
	assert.Equal(t, "alpha", dec.AgentName())
}

func TestDispatchMulti_ReturnsAllAboveThreshold(t *testing.T) {
	store := storeWith(t, "media", "python", "curator")
	d := newDispatcher(store, &fixedScorer{scores: map[string]float64{
		"media": 0.40, "python": 0.38, "curator": 0.1,
	}})

	decisions, err := d.DispatchMulti(context.Background(), Request{Text: "optimize this video and write clean code for it"})
	require.NoError(t, err)
	require.Len(t, decisions, 2)
	// Scores are within epsilon: insertion order decides.
	assert.Equal(t, "media", decisions[0].AgentName())
	assert.Equal(t, "python", decisions[1].AgentName())
}

func TestDispatchMulti_NoMatchYieldsSingleDecision(t *testing.T) {
	store := storeWith(t, "media")
	d := newDispatcher(store, &fixedScorer{scores: map[string]float64{"media": 0.05}})

	decisions, err := d.DispatchMulti(context.Background(), Request{Text: "sing me a song"})
	require.NoError(t, err)
	require.Len(t, decisions, 1)
	assert.False(t, decisions[0].Matched())
	assert.Equal(t, ReasonBelowThreshold, decisions[0].Reason)
}

func TestDispatch_Deterministic(t *testing.T) {
	store := storeWith(t, "media", "python", "curator")
	d := newDispatcher(store, &fixedScorer{scores: map[string]float64{
		"media": 0.6, "python": 0.6, "curator": 0.3,
	}})

	first, err := d.Dispatch(context.Background(), Request{Text: "same request"})
	require.NoError(t, err)
	for range 20 {
		again, err := d.Dispatch(context.Background(), Request{Text: "same request"})
		require.NoError(t, err)
		assert.Equal(t, first.AgentName(), again.AgentName())
		assert.Equal(t, first.Score, again.Score)
		assert.Equal(t, first.Rationale, again.Rationale)
		assert.Equal(t, first.Reason, again.Reason)
	}
}

func TestDispatch_KeywordScenario(t *testing.T) {
	media := &profile.Profile{
		Name: "media-processing-specialist",
		TriggerDescription: "Use this agent when the task involves video, audio, or image media: " +
			"converting between formats, transcoding with FFmpeg, optimizing media for the web.",
	}
	python := &profile.Profile{
		Name: "python-standards-expert",
		TriggerDescription: "Use this agent when writing or reviewing Python code: functions, " +
			"modules, tests, and adherence to coding standards.",
	}
	store := registry.NewStore()
	require.NoError(t, store.Reload(context.Background(), profile.StaticSource{media, python}))

	m := match.NewMatcher(match.NewKeywordScorer())
	d := New(store, m, Config{Threshold: 0.25, Epsilon: 0.05})

	dec, err := d.Dispatch(context.Background(), Request{Text: "convert my 4K video.mp4 to a web-friendly format"})
	require.NoError(t, err)
	require.True(t, dec.Matched())
	assert.Equal(t, "media-processing-specialist", dec.AgentName())
	assert.Greater(t, dec.Score, 0.25)
	assert.Contains(t, dec.Rationale, `"convert"`)

	dec, err = d.Dispatch(context.Background(), Request{Text: "write a function to fetch user info from the database"})
	require.NoError(t, err)
	assert.Equal(t, "python-standards-expert", dec.AgentName())

	dec, err = d.Dispatch(context.Background(), Request{Text: "sing me a song"})
	require.NoError(t, err)
	assert.False(t, dec.Matched())
	assert.Equal(t, ReasonBelowThreshold, dec.Reason)
}
