package quiz

import (
	"fmt"

	"github.com/kapu/vibecheck-analytics-go/internal/config"
	"github.com/kapu/vibecheck-analytics-go/internal/domain"
	"github.com/kapu/vibecheck-analytics-go/internal/randx"
	"github.com/kapu/vibecheck-analytics-go/internal/stats"
)

// Quote questions only accept word counts strictly inside this range.
const (
	quoteMinWords = 5
	quoteMaxWords = 15
)

// Generator builds question sets from an enriched snapshot. Fewer than two
// distinct entities means there is nothing to guess; the generator returns
// an empty set and callers surface "insufficient data".
type Generator struct {
	engine       *stats.Engine
	rng          *randx.LockedRand
	poolSize     int
	maxQuestions int
}

// NewGenerator wires the aggregation engine and the sampling source.
func NewGenerator(engine *stats.Engine, rng *randx.LockedRand, cfg config.QuizConfig) *Generator {
	poolSize := cfg.QuotePoolSize
	if poolSize <= 0 {
		poolSize = 10
	}
	maxQuestions := cfg.MaxQuestions
	if maxQuestions <= 0 {
		maxQuestions = 15
	}
	return &Generator{engine: engine, rng: rng, poolSize: poolSize, maxQuestions: maxQuestions}
}

// Generate produces the shuffled question set. Fact questions rank over the
// full snapshot for reactions and voice time but only over original
// messages for the message count, matching how the leaderboards read.
func (g *Generator) Generate(records []domain.MessageRecord) []Question {
	authors := distinctAuthors(records)
	if len(authors) < 2 {
		return nil
	}

	questions := g.factQuestions(records, authors)
	questions = append(questions, g.quoteQuestions(records, authors)...)

	g.rng.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
	if len(questions) > g.maxQuestions {
		questions = questions[:g.maxQuestions]
	}
	return questions
}

func (g *Generator) factQuestions(records []domain.MessageRecord, authors []string) []Question {
	facts := []struct {
		prompt           string
		metric           string
		includeForwarded bool
	}{
		{prompt: "Кто написал больше всех сообщений?", metric: "messages"},
		{prompt: "Кто собрал больше всех лайков?", metric: "reactions", includeForwarded: true},
		{prompt: "Кто наговорил больше всего времени в ГС?", metric: "voice_duration", includeForwarded: true},
	}

	questions := make([]Question, 0, len(facts))
	for _, fact := range facts {
		def, ok := g.engine.Metric(fact.metric)
		if !ok {
			continue
		}
		entries := g.engine.Aggregate(records, def, stats.QueryParams{IncludeForwarded: fact.includeForwarded})
		if len(entries) == 0 || entries[0].Value == 0 {
			continue
		}
		questions = append(questions, Question{
			Kind:    KindFact,
			Prompt:  fact.prompt,
			Options: append([]string(nil), authors...),
			Answer:  entries[0].Entity,
		})
	}
	return questions
}

func (g *Generator) quoteQuestions(records []domain.MessageRecord, authors []string) []Question {
	var pool []domain.MessageRecord
	for _, rec := range records {
		if rec.IsForwarded || rec.MediaKind != domain.MediaText {
			continue
		}
		if rec.WordCount <= quoteMinWords || rec.WordCount >= quoteMaxWords {
			continue
		}
		pool = append(pool, rec)
	}
	if len(pool) == 0 {
		return nil
	}

	sampleSize := g.poolSize
	if sampleSize > len(pool) {
		sampleSize = len(pool)
	}
	perm := g.rng.Perm(len(pool))

	questions := make([]Question, 0, sampleSize)
	for _, idx := range perm[:sampleSize] {
		rec := pool[idx]
		questions = append(questions, Question{
			Kind:    KindQuote,
			Prompt:  fmt.Sprintf("Чья цитата: «%s»?", rec.Text),
			Options: append([]string(nil), authors...),
			Answer:  rec.Username,
		})
	}
	return questions
}

func distinctAuthors(records []domain.MessageRecord) []string {
	seen := make(map[string]struct{})
	var authors []string
	for _, rec := range records {
		if _, ok := seen[rec.Username]; !ok {
			seen[rec.Username] = struct{}{}
			authors = append(authors, rec.Username)
		}
	}
	return authors
}
