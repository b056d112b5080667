package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pressroom/internal/profile"
)

func prof(name string) *profile.Profile {
	return &profile.Profile{Name: name, TriggerDescription: "handles " + name + " work"}
}

func TestBuild_PreservesOrder(t *testing.T) {
	r, err := Build([]*profile.Profile{prof("c"), prof("a"), prof("b")})
	require.NoError(t, err)

	list := r.List()
	require.Len(t, list, 3)
	assert.Equal(t, "c", list[0].Name)
	assert.Equal(t, "a", list[1].Name)
	assert.Equal(t, "b", list[2].Name)

	assert.Equal(t, 0, r.Index("c"))
	assert.Equal(t, 2, r.Index("b"))
	assert.Equal(t, -1, r.Index("missing"))
}

func TestBuild_Get(t *testing.T) {
	r, err := Build([]*profile.Profile{prof("alpha")})
	require.NoError(t, err)

	p, ok := r.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, "alpha", p.Name)

	_, ok = r.Get("beta")
	assert.False(t, ok)
}

func TestBuild_DuplicateName(t *testing.T) {
	_, err := Build([]*profile.Profile{prof("a"), prof("a")})
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "a", verr.Name)
	assert.Contains(t, verr.Reason, "duplicate")
}

func TestBuild_EmptyTrigger(t *testing.T) {
	_, err := Build([]*profile.Profile{{Name: "a"}})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Reason, "trigger description")
}

func TestBuild_EmptyName(t *testing.T) {
	_, err := Build([]*profile.Profile{{TriggerDescription: "x"}})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
}

func TestSummaries(t *testing.T) {
	r, err := Build([]*profile.Profile{prof("a"), prof("b")})
	require.NoError(t, err)

	sums := r.Summaries()
	require.Len(t, sums, 2)
	assert.Equal(t, "a", sums[0].Name)
	assert.Equal(t, "handles a work", sums[0].TriggerDescription)
}
