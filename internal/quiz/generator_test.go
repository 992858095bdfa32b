package quiz

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/kapu/vibecheck-analytics-go/internal/config"
	"github.com/kapu/vibecheck-analytics-go/internal/domain"
	"github.com/kapu/vibecheck-analytics-go/internal/randx"
	"github.com/kapu/vibecheck-analytics-go/internal/stats"
)

func newTestGenerator(seed uint64) *Generator {
	engine := stats.NewEngine(config.StatsConfig{ForwardedReactions: true})
	rng := randx.New(rand.New(rand.NewPCG(seed, 0)))
	return NewGenerator(engine, rng, config.QuizConfig{QuotePoolSize: 10, MaxQuestions: 15})
}

func record(username, text string, words int) domain.MessageRecord {
	return domain.MessageRecord{
		Username:  username,
		Text:      text,
		MediaKind: domain.MediaText,
		WordCount: words,
	}
}

func TestGenerateRequiresTwoEntities(t *testing.T) {
	g := newTestGenerator(1)
	records := []domain.MessageRecord{record("Alice", "одна тут сижу", 3)}
	if questions := g.Generate(records); len(questions) != 0 {
		t.Fatalf("expected empty set for one entity, got %d", len(questions))
	}
}

func TestGenerateFactsOnlyWithoutQuotes(t *testing.T) {
	g := newTestGenerator(2)

	voice := domain.MessageRecord{Username: "Bob", MediaKind: domain.MediaVoice, VoiceDuration: 30}
	liked := record("Alice", "да", 1)
	liked.ReactionCount = 5

	// No message qualifies as a quote: word counts sit outside (5, 15).
	records := []domain.MessageRecord{record("Alice", "привет", 1), liked, voice}
	questions := g.Generate(records)

	if len(questions) != 3 {
		t.Fatalf("expected exactly the 3 fact questions, got %d", len(questions))
	}
	prompts := make(map[string]int)
	for _, q := range questions {
		if q.Kind != KindFact {
			t.Fatalf("expected only fact questions, got %s", q.Kind)
		}
		prompts[q.Prompt]++
	}
	for prompt, count := range prompts {
		if count != 1 {
			t.Fatalf("duplicated fact question %q", prompt)
		}
	}
}

func TestGenerateSkipsFactsWithoutData(t *testing.T) {
	g := newTestGenerator(3)

	// No voice messages and no reactions: only the message-count fact holds.
	records := []domain.MessageRecord{record("Alice", "привет", 1), record("Bob", "пока", 1)}
	questions := g.Generate(records)

	if len(questions) != 1 {
		t.Fatalf("expected 1 fact question, got %d", len(questions))
	}
	if !strings.Contains(questions[0].Prompt, "сообщений") {
		t.Fatalf("unexpected fact survived: %q", questions[0].Prompt)
	}
}

func TestGenerateQuoteFiltering(t *testing.T) {
	g := newTestGenerator(4)

	quote := record("Alice", "это очень длинная и настоящая цитата", 6)
	tooShort := record("Bob", "пять слов ровно тут да", 5)
	tooLong := record("Bob", strings.Repeat("слово ", 15), 15)
	forwarded := record("Bob", "переслали шесть слов вот эти вот", 6)
	forwarded.IsForwarded = true
	sticker := domain.MessageRecord{Username: "Bob", Text: "шесть слов в стикере вот тут", WordCount: 6, MediaKind: domain.MediaSticker}

	records := []domain.MessageRecord{quote, tooShort, tooLong, forwarded, sticker}
	questions := g.Generate(records)

	var quotes []Question
	for _, q := range questions {
		if q.Kind == KindQuote {
			quotes = append(quotes, q)
		}
	}
	if len(quotes) != 1 {
		t.Fatalf("expected exactly 1 quote question, got %d", len(quotes))
	}
	if quotes[0].Answer != "Alice" {
		t.Fatalf("expected Alice as quote author, got %s", quotes[0].Answer)
	}
	if !strings.Contains(quotes[0].Prompt, quote.Text) {
		t.Fatalf("quote text missing from prompt: %q", quotes[0].Prompt)
	}
}

func TestGenerateNeverExceedsMax(t *testing.T) {
	g := newTestGenerator(5)

	var records []domain.MessageRecord
	for i := 0; i < 40; i++ {
		author := "Alice"
		if i%2 == 0 {
			author = "Bob"
		}
		records = append(records, record(author, "шесть честных слов в этой цитате", 6))
	}
	questions := g.Generate(records)
	if len(questions) > 15 {
		t.Fatalf("expected at most 15 questions, got %d", len(questions))
	}
}

func TestGenerateDeterministicForSeed(t *testing.T) {
	records := []domain.MessageRecord{
		record("Alice", "шесть честных слов в этой цитате", 6),
		record("Bob", "другая цитата из шести слов тут", 6),
	}

	first := newTestGenerator(7).Generate(records)
	second := newTestGenerator(7).Generate(records)
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Prompt != second[i].Prompt || first[i].Answer != second[i].Answer {
			t.Fatalf("question %d differs between runs", i)
		}
	}
}

func TestPresentShufflesWithoutLoss(t *testing.T) {
	rng := randx.New(rand.New(rand.NewPCG(9, 0)))
	q := Question{Kind: KindFact, Prompt: "?", Options: []string{"Alice", "Bob", "Carol"}, Answer: "Bob"}

	view := q.Present(rng)
	if len(view.Options) != 3 {
		t.Fatalf("expected 3 options, got %d", len(view.Options))
	}
	seen := make(map[string]bool)
	for _, opt := range view.Options {
		seen[opt] = true
	}
	if !seen["Alice"] || !seen["Bob"] || !seen["Carol"] {
		t.Fatalf("options lost during shuffle: %v", view.Options)
	}
	// The original stays untouched.
	if q.Options[0] != "Alice" || q.Options[1] != "Bob" || q.Options[2] != "Carol" {
		t.Fatalf("source options mutated: %v", q.Options)
	}
}
