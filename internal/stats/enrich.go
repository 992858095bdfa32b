// Package stats computes per-entity metrics over an archived message
// snapshot: per-record enrichment, generic leaderboard aggregation,
// archive summaries, per-1000 ratings and activity breakdowns.
package stats

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cloudflare/ahocorasick"
	"github.com/forPelevin/gomoji"

	"github.com/kapu/vibecheck-analytics-go/internal/domain"
	"github.com/kapu/vibecheck-analytics-go/internal/rulepack"
)

// laughEmoji are the laughter faces counted as a laugh marker alongside
// the textual patterns.
var laughEmoji = map[string]struct{}{
	"\U0001F602": {}, // face with tears of joy
	"\U0001F923": {}, // rolling on the floor laughing
	"\U0001F606": {}, // grinning squinting face
	"\U0001F639": {}, // cat with tears of joy
}

// Enricher recomputes the derived per-record metrics. Toxic roots are
// matched as case-insensitive substrings anywhere in the text; each root
// counts at most once per message.
type Enricher struct {
	toxic *ahocorasick.Matcher
	pack  *rulepack.Pack
}

// NewEnricher compiles the matcher from the rulepack's toxic roots.
func NewEnricher(pack *rulepack.Pack) *Enricher {
	return &Enricher{
		toxic: ahocorasick.NewStringMatcher(pack.ToxicRoots()),
		pack:  pack,
	}
}

// Enrich returns a copy of the record with every derived field recomputed.
// Stored values are ignored; the collector may have written them with an
// older heuristic.
func (e *Enricher) Enrich(rec domain.MessageRecord) domain.MessageRecord {
	text := rec.Text

	rec.TextLen = utf8.RuneCountInString(text)
	rec.WordCount = len(strings.Fields(text))
	rec.HasQuestion = strings.Contains(text, "?")
	rec.HasCaps = hasCapsRun(text)
	rec.HasLaugh = e.IsLaugh(text)
	rec.ToxicRootCount = e.ToxicRootCount(text)

	rec.VoiceDuration = 0
	rec.VideoDuration = 0
	switch rec.MediaKind {
	case domain.MediaVoice:
		rec.VoiceDuration = rec.Duration
	case domain.MediaVideoNote:
		rec.VideoDuration = rec.Duration
	}
	return rec
}

// EnrichAll maps Enrich over a snapshot, preserving order.
func (e *Enricher) EnrichAll(records []domain.MessageRecord) []domain.MessageRecord {
	out := make([]domain.MessageRecord, len(records))
	for i, rec := range records {
		out[i] = e.Enrich(rec)
	}
	return out
}

// ToxicRootCount counts the distinct profane roots present in text.
// The matcher reports each pattern once regardless of repetitions.
func (e *Enricher) ToxicRootCount(text string) int {
	if text == "" {
		return 0
	}
	return len(e.toxic.Match([]byte(strings.ToLower(text))))
}

// IsLaugh reports whether text carries a laughter marker, textual or emoji.
func (e *Enricher) IsLaugh(text string) bool {
	if text == "" {
		return false
	}
	if e.pack.MatchesLaugh(text) {
		return true
	}
	for _, emoji := range gomoji.FindAll(text) {
		if _, ok := laughEmoji[emoji.Character]; ok {
			return true
		}
	}
	return false
}

// hasCapsRun reports a run of three or more consecutive uppercase letters.
func hasCapsRun(text string) bool {
	run := 0
	for _, r := range text {
		if unicode.IsUpper(r) {
			run++
			if run >= 3 {
				return true
			}
			continue
		}
		run = 0
	}
	return false
}
