package stats

import (
	"sort"

	"github.com/kapu/vibecheck-analytics-go/internal/domain"
)

// Rating: one entity's normalized profile. Toxicity and fun are scaled per
// 1000 messages so small and large talkers compare fairly; reactions and
// mean length stay absolute.
type Rating struct {
	Entity        string  `json:"entity"`
	Messages      int     `json:"messages"`
	ToxicityPer1K float64 `json:"toxicity_per_1k"`
	FunPer1K      float64 `json:"fun_per_1k"`
	Reactions     int     `json:"reactions"`
	MeanTextLen   float64 `json:"mean_text_len"`
}

// Ratings profiles every entity over non-forwarded messages, ordered by
// message count descending so the table reads busiest-first.
func Ratings(records []domain.MessageRecord) []Rating {
	type bucket struct {
		messages  int
		toxic     int
		laughs    int
		reactions int
		textLen   int
		seen      int
	}
	buckets := make(map[string]*bucket)
	var names []string

	for _, rec := range records {
		if rec.IsForwarded {
			continue
		}
		b, ok := buckets[rec.Username]
		if !ok {
			b = &bucket{seen: len(names)}
			buckets[rec.Username] = b
			names = append(names, rec.Username)
		}
		b.messages++
		b.toxic += rec.ToxicRootCount
		if rec.HasLaugh {
			b.laughs++
		}
		b.reactions += rec.ReactionCount
		b.textLen += rec.TextLen
	}

	ratings := make([]Rating, 0, len(names))
	for _, name := range names {
		b := buckets[name]
		ratings = append(ratings, Rating{
			Entity:        name,
			Messages:      b.messages,
			ToxicityPer1K: float64(b.toxic) / float64(b.messages) * 1000,
			FunPer1K:      float64(b.laughs) / float64(b.messages) * 1000,
			Reactions:     b.reactions,
			MeanTextLen:   float64(b.textLen) / float64(b.messages),
		})
	}

	sort.SliceStable(ratings, func(i, j int) bool {
		return ratings[i].Messages > ratings[j].Messages
	})
	return ratings
}
