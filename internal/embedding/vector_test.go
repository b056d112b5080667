package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-6)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-6)

	// Degenerate inputs score zero rather than NaN.
	assert.Zero(t, CosineSimilarity([]float32{0, 0}, []float32{1, 1}))
	assert.Zero(t, CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}))
	assert.Zero(t, CosineSimilarity(nil, nil))
}

func TestVectorCodecRoundTrip(t *testing.T) {
	v := []float32{0.5, -1.25, 3.75, 0}
	assert.Equal(t, v, DecodeVector(EncodeVector(v)))
	assert.Empty(t, EncodeVector(nil))
	assert.Empty(t, DecodeVector([]byte{1, 2}))
}
