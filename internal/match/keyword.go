package match

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"pressroom/internal/profile"
)

// stopwords are dropped during tokenization. Includes the boilerplate every
// trigger description opens with ("Use this agent when...") so it carries
// no matching weight.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "but": true, "by": true, "can": true, "could": true,
	"do": true, "for": true, "from": true, "has": true, "have": true,
	"how": true, "i": true, "if": true, "in": true, "is": true, "it": true,
	"its": true, "me": true, "my": true, "of": true, "on": true, "or": true,
	"our": true, "please": true, "should": true, "so": true, "some": true,
	"that": true, "the": true, "their": true, "them": true, "then": true,
	"there": true, "they": true, "to": true, "was": true, "we": true,
	"what": true, "will": true, "with": true, "would": true, "you": true,
	"your": true,
	"agent": true, "task": true, "this": true, "use": true, "user": true,
	"when": true,
}

// KeywordScorer rates requests by lexical overlap with the trigger
// description and example requests. It is pure and deterministic: no I/O,
// no state mutated between calls.
type KeywordScorer struct{}

func NewKeywordScorer() *KeywordScorer {
	return &KeywordScorer{}
}

func (s *KeywordScorer) Score(ctx context.Context, request string, p *profile.Profile) (float64, string, error) {
	req := tokenize(request)
	if len(req) == 0 {
		return 0, "request has no scorable terms", nil
	}

	best, matched := coverage(req, tokenize(p.TriggerDescription))
	rationale := fmt.Sprintf("trigger overlap on %s", quoteTokens(matched))
	if len(matched) == 0 {
		rationale = "no trigger overlap"
	}

	for _, ex := range p.Examples {
		score, m := coverage(req, tokenize(ex.Request))
		if score > best {
			best = score
			rationale = fmt.Sprintf("close to example %q (overlap on %s)", truncate(ex.Request, 60), quoteTokens(m))
		}
	}

	return best, rationale, nil
}

// coverage returns the fraction of request tokens found in the candidate
// token set, plus the matched request tokens sorted for reproducible
// rationale text.
func coverage(req, candidate []string) (float64, []string) {
	if len(candidate) == 0 {
		return 0, nil
	}
	var matched []string
	for _, rt := range req {
		for _, ct := range candidate {
			if tokensMatch(rt, ct) {
				matched = append(matched, rt)
				break
			}
		}
	}
	sort.Strings(matched)
	return float64(len(matched)) / float64(len(req)), matched
}

// tokensMatch treats two tokens as equivalent when equal, or when one is a
// prefix of the other and the shorter is at least four runes. The prefix
// rule covers inflection ("convert" vs "converting", "format" vs
// "formats") without a stemmer.
func tokensMatch(a, b string) bool {
	if a == b {
		return true
	}
	short, long := a, b
	if len(short) > len(long) {
		short, long = long, short
	}
	return len(short) >= 4 && strings.HasPrefix(long, short)
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var out []string
	seen := make(map[string]bool)
	for _, f := range fields {
		if len(f) < 2 || stopwords[f] || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

func quoteTokens(tokens []string) string {
	if len(tokens) == 0 {
		return "(none)"
	}
	quoted := make([]string, len(tokens))
	for i, t := range tokens {
		quoted[i] = fmt.Sprintf("%q", t)
	}
	return strings.Join(quoted, ", ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
