package match

import (
	"context"
	"fmt"

	"pressroom/internal/embedding"
	"pressroom/internal/profile"
)

// EmbeddingScorer rates requests by cosine similarity between the request
// embedding and the profile's trigger description and example requests,
// taking the best of those. Profile texts are stable between reloads, so a
// caching Provider keeps repeat scoring off the network.
type EmbeddingScorer struct {
	provider embedding.Provider
}

func NewEmbeddingScorer(provider embedding.Provider) *EmbeddingScorer {
	return &EmbeddingScorer{provider: provider}
}

func (s *EmbeddingScorer) Score(ctx context.Context, request string, p *profile.Profile) (float64, string, error) {
	texts := make([]string, 0, len(p.Examples)+2)
	texts = append(texts, request, p.TriggerDescription)
	for _, ex := range p.Examples {
		texts = append(texts, ex.Request)
	}

	vecs, err := s.provider.Embed(ctx, texts)
	if err != nil {
		return 0, "", fmt.Errorf("embedding request: %w", err)
	}
	if len(vecs) != len(texts) {
		return 0, "", fmt.Errorf("embedding request: got %d vectors for %d texts", len(vecs), len(texts))
	}

	reqVec := vecs[0]
	best := clamp(embedding.CosineSimilarity(reqVec, vecs[1]))
	rationale := fmt.Sprintf("cosine %.2f against trigger description", best)

	for i, ex := range p.Examples {
		score := clamp(embedding.CosineSimilarity(reqVec, vecs[i+2]))
		if score > best {
			best = score
			rationale = fmt.Sprintf("cosine %.2f against example %q", score, truncate(ex.Request, 60))
		}
	}

	return best, rationale, nil
}

// clamp maps cosine output into the scorer contract's [0, 1] range.
// Negative similarity carries no routing signal beyond "no fit".
func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
