// Package lexicon produces per-entity top-K lemma frequencies from
// non-forwarded message text.
package lexicon

import (
	"sort"
	"sync"
	"unicode/utf8"

	"github.com/sourcegraph/conc/pool"

	"github.com/kapu/vibecheck-analytics-go/internal/config"
	"github.com/kapu/vibecheck-analytics-go/internal/domain"
	"github.com/kapu/vibecheck-analytics-go/internal/morph"
	"github.com/kapu/vibecheck-analytics-go/internal/rulepack"
	"github.com/kapu/vibecheck-analytics-go/internal/textnorm"
)

// Entry: one (lemma, count) row of an entity's lexical profile.
type Entry struct {
	Lemma string `json:"lemma"`
	Count int    `json:"count"`
}

// Extractor derives lexical profiles. Stopwords are checked twice, once on
// the raw token and once on its base form, so inflected forms of common
// verbs still land on the stop-list.
type Extractor struct {
	analyzer morph.Analyzer
	pack     *rulepack.Pack
	topK     int
	workers  int
}

// NewExtractor wires the analyzer and the rulepack under the configured
// profile size.
func NewExtractor(analyzer morph.Analyzer, pack *rulepack.Pack, cfg config.LexiconConfig) *Extractor {
	topK := cfg.TopK
	if topK <= 0 {
		topK = 10
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	return &Extractor{analyzer: analyzer, pack: pack, topK: topK, workers: workers}
}

// TopLemmas profiles one entity over the snapshot. Forwarded messages are
// skipped; an entity with only forwarded or empty content yields an empty
// profile, which callers treat as insufficient data.
func (e *Extractor) TopLemmas(entity string, records []domain.MessageRecord) []Entry {
	counts := make(map[string]int)
	var order []string

	for _, rec := range records {
		if rec.Username != entity || rec.IsForwarded || rec.Text == "" {
			continue
		}
		for _, token := range textnorm.Normalize(rec.Text) {
			if utf8.RuneCountInString(token) <= 2 {
				continue
			}
			if e.pack.IsStopword(token) {
				continue
			}
			lemma := e.analyzer.NormalForm(token)
			if lemma == "" || e.pack.IsStopword(lemma) {
				continue
			}
			if _, seen := counts[lemma]; !seen {
				order = append(order, lemma)
			}
			counts[lemma]++
		}
	}

	entries := make([]Entry, 0, len(order))
	for _, lemma := range order {
		entries = append(entries, Entry{Lemma: lemma, Count: counts[lemma]})
	}
	// Stable sort keeps first-encountered order among equal counts.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	if len(entries) > e.topK {
		entries = entries[:e.topK]
	}
	return entries
}

// TopLemmasAll profiles every entity present in the snapshot. Entities are
// processed in parallel; each profile is independent of the others.
func (e *Extractor) TopLemmasAll(records []domain.MessageRecord) map[string][]Entry {
	seen := make(map[string]struct{})
	var entities []string
	for _, rec := range records {
		if _, ok := seen[rec.Username]; !ok {
			seen[rec.Username] = struct{}{}
			entities = append(entities, rec.Username)
		}
	}

	profiles := make(map[string][]Entry, len(entities))
	var mu sync.Mutex

	p := pool.New().WithMaxGoroutines(e.workers)
	for _, entity := range entities {
		p.Go(func() {
			profile := e.TopLemmas(entity, records)
			mu.Lock()
			profiles[entity] = profile
			mu.Unlock()
		})
	}
	p.Wait()
	return profiles
}
