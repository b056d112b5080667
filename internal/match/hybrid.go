package match

import (
	"context"
	"fmt"

	"pressroom/internal/profile"
)

// HybridScorer merges a keyword scorer and a vector scorer with fixed
// weights, the same shape as combining BM25 rank with cosine similarity in
// hybrid retrieval. Weights are normalized at construction so the combined
// score stays in [0, 1].
type HybridScorer struct {
	keyword       Scorer
	vector        Scorer
	keywordWeight float64
	vectorWeight  float64
}

func NewHybridScorer(keyword, vector Scorer, keywordWeight, vectorWeight float64) *HybridScorer {
	total := keywordWeight + vectorWeight
	if total <= 0 {
		keywordWeight, vectorWeight, total = 1, 1, 2
	}
	return &HybridScorer{
		keyword:       keyword,
		vector:        vector,
		keywordWeight: keywordWeight / total,
		vectorWeight:  vectorWeight / total,
	}
}

func (s *HybridScorer) Score(ctx context.Context, request string, p *profile.Profile) (float64, string, error) {
	kw, kwRationale, err := s.keyword.Score(ctx, request, p)
	if err != nil {
		return 0, "", err
	}
	vec, vecRationale, err := s.vector.Score(ctx, request, p)
	if err != nil {
		return 0, "", err
	}

	score := s.keywordWeight*kw + s.vectorWeight*vec
	rationale := fmt.Sprintf("keyword %.2f (%s); vector %.2f (%s)", kw, kwRationale, vec, vecRationale)
	return score, rationale, nil
}
