package stats

import (
	"testing"
	"time"

	"github.com/kapu/vibecheck-analytics-go/internal/config"
	"github.com/kapu/vibecheck-analytics-go/internal/domain"
	"github.com/kapu/vibecheck-analytics-go/internal/rulepack"
)

func newTestEnricher() *Enricher {
	return NewEnricher(rulepack.Load("", nil))
}

func msg(username, text string) domain.MessageRecord {
	return domain.MessageRecord{
		Username:  username,
		Text:      text,
		MediaKind: domain.MediaText,
		Date:      time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestToxicRootCount(t *testing.T) {
	enricher := newTestEnricher()

	if got := enricher.ToxicRootCount("хуйня"); got != 1 {
		t.Fatalf("expected 1 distinct root, got %d", got)
	}
	if got := enricher.ToxicRootCount("привет"); got != 0 {
		t.Fatalf("expected 0 roots, got %d", got)
	}
	if got := enricher.ToxicRootCount("ХУЙНЯ какая-то"); got != 1 {
		t.Fatalf("expected case-insensitive match, got %d", got)
	}
	// Repeating one root must not inflate the count.
	if got := enricher.ToxicRootCount("хуй хуй хуй"); got != 1 {
		t.Fatalf("expected repeated root to count once, got %d", got)
	}
	if got := enricher.ToxicRootCount(""); got != 0 {
		t.Fatalf("expected 0 for empty text, got %d", got)
	}
}

func TestIsLaugh(t *testing.T) {
	enricher := newTestEnricher()

	for _, text := range []string{"ахахаха ну ты даешь", "лол", "смешно \U0001F602"} {
		if !enricher.IsLaugh(text) {
			t.Fatalf("expected laugh marker in %q", text)
		}
	}
	for _, text := range []string{"привет", "характер", ""} {
		if enricher.IsLaugh(text) {
			t.Fatalf("unexpected laugh marker in %q", text)
		}
	}
}

func TestEnrichDurationAttribution(t *testing.T) {
	enricher := newTestEnricher()

	voice := domain.MessageRecord{MediaKind: domain.MediaVoice, Duration: 30}
	if got := enricher.Enrich(voice); got.VoiceDuration != 30 || got.VideoDuration != 0 {
		t.Fatalf("voice attribution wrong: voice=%d video=%d", got.VoiceDuration, got.VideoDuration)
	}

	note := domain.MessageRecord{MediaKind: domain.MediaVideoNote, Duration: 45}
	if got := enricher.Enrich(note); got.VideoDuration != 45 || got.VoiceDuration != 0 {
		t.Fatalf("video note attribution wrong: voice=%d video=%d", got.VoiceDuration, got.VideoDuration)
	}

	text := domain.MessageRecord{MediaKind: domain.MediaText, Duration: 99}
	if got := enricher.Enrich(text); got.VoiceDuration != 0 || got.VideoDuration != 0 {
		t.Fatalf("text message must not carry durations")
	}
}

func TestEnrichDerivedFields(t *testing.T) {
	enricher := newTestEnricher()

	rec := enricher.Enrich(msg("Alice", "ЧТО происходит? ахаха"))
	if !rec.HasQuestion {
		t.Fatalf("expected question flag")
	}
	if !rec.HasCaps {
		t.Fatalf("expected caps flag")
	}
	if !rec.HasLaugh {
		t.Fatalf("expected laugh flag")
	}
	if rec.WordCount != 3 {
		t.Fatalf("expected 3 words, got %d", rec.WordCount)
	}
	if rec.TextLen != 21 {
		t.Fatalf("expected rune length 21, got %d", rec.TextLen)
	}
}

func TestAggregateSortedDescending(t *testing.T) {
	engine := NewEngine(config.StatsConfig{ForwardedReactions: true})
	records := []domain.MessageRecord{
		msg("Alice", "a"), msg("Alice", "b"), msg("Alice", "c"),
		msg("Bob", "a"), msg("Bob", "b"),
		msg("Carol", "a"),
	}

	def, ok := engine.Metric("messages")
	if !ok {
		t.Fatalf("missing messages metric")
	}
	entries := engine.Aggregate(records, def, QueryParams{})
	if len(entries) != 3 {
		t.Fatalf("expected 3 entities, got %d", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Value > entries[i-1].Value {
			t.Fatalf("not sorted descending at %d", i)
		}
	}
	if entries[0].Entity != "Alice" || entries[0].Value != 3 {
		t.Fatalf("unexpected top entry: %+v", entries[0])
	}
}

func TestLeaderboardForwardedExclusion(t *testing.T) {
	engine := NewEngine(config.StatsConfig{ForwardedReactions: true})

	forwarded := msg("Forwarder", "toxic хуйня")
	forwarded.IsForwarded = true
	forwarded.ToxicRootCount = 1
	own := msg("Alice", "хуйня")
	own.ToxicRootCount = 1

	records := []domain.MessageRecord{forwarded, forwarded, forwarded, own}

	def, _ := engine.Metric("toxicity")
	board := engine.Leaderboard(records, def, QueryParams{})
	if board.Winner != "Alice" {
		t.Fatalf("forwarded messages must not win toxicity, winner=%s", board.Winner)
	}
	if len(board.Entries) != 1 {
		t.Fatalf("expected forwarder filtered out, got %d entries", len(board.Entries))
	}
}

func TestLeaderboardForwardedReactionException(t *testing.T) {
	engine := NewEngine(config.StatsConfig{ForwardedReactions: true})

	forwarded := msg("Forwarder", "repost")
	forwarded.IsForwarded = true
	forwarded.ReactionCount = 10
	own := msg("Alice", "original")
	own.ReactionCount = 3

	def, _ := engine.Metric("reactions")
	board := engine.Leaderboard([]domain.MessageRecord{forwarded, own}, def, QueryParams{})
	if board.Winner != "Forwarder" {
		t.Fatalf("reactions must include forwarded content, winner=%s", board.Winner)
	}

	// With the policy off, the forwarder drops out.
	strict := NewEngine(config.StatsConfig{ForwardedReactions: false})
	def, _ = strict.Metric("reactions")
	board = strict.Leaderboard([]domain.MessageRecord{forwarded, own}, def, QueryParams{})
	if board.Winner != "Alice" {
		t.Fatalf("expected Alice with policy off, winner=%s", board.Winner)
	}
}

func TestLeaderboardEmptySet(t *testing.T) {
	engine := NewEngine(config.StatsConfig{})
	def, _ := engine.Metric("messages")
	board := engine.Leaderboard(nil, def, QueryParams{})
	if board.Winner != "" || len(board.Entries) != 0 {
		t.Fatalf("expected empty leaderboard, got %+v", board)
	}
}

func TestAggregateExcludedEntities(t *testing.T) {
	engine := NewEngine(config.StatsConfig{})
	records := []domain.MessageRecord{msg("Bot", "a"), msg("Bot", "b"), msg("Alice", "c")}

	def, _ := engine.Metric("messages")
	entries := engine.Aggregate(records, def, QueryParams{ExcludedEntities: []string{"Bot"}})
	if len(entries) != 1 || entries[0].Entity != "Alice" {
		t.Fatalf("expected only Alice, got %+v", entries)
	}
}

func TestAggregateMean(t *testing.T) {
	engine := NewEngine(config.StatsConfig{})
	a := msg("Alice", "x")
	a.TextLen = 10
	b := msg("Alice", "y")
	b.TextLen = 20

	def, _ := engine.Metric("text_length")
	entries := engine.Aggregate([]domain.MessageRecord{a, b}, def, QueryParams{})
	if len(entries) != 1 || entries[0].Value != 15 {
		t.Fatalf("expected mean 15, got %+v", entries)
	}
}

func TestSummarize(t *testing.T) {
	photo := msg("Alice", "")
	photo.MediaKind = domain.MediaPhoto
	voice := msg("Bob", "")
	voice.MediaKind = domain.MediaVoice
	voice.VoiceDuration = 65

	records := []domain.MessageRecord{msg("Alice", "a"), msg("Alice", "b"), photo, voice}
	summary := Summarize(records)

	if summary.TotalMessages != 4 {
		t.Fatalf("expected 4 messages, got %d", summary.TotalMessages)
	}
	if summary.Photos != 1 {
		t.Fatalf("expected 1 photo, got %d", summary.Photos)
	}
	if summary.MostActive != "Alice" {
		t.Fatalf("expected Alice most active, got %s", summary.MostActive)
	}
	if summary.DistinctDays != 1 {
		t.Fatalf("expected 1 distinct day, got %d", summary.DistinctDays)
	}
	if summary.VoiceDuration != "1м 5с" {
		t.Fatalf("unexpected voice duration: %s", summary.VoiceDuration)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[int]string{
		0:    "0 сек",
		5:    "5 сек",
		65:   "1м 5с",
		3720: "1ч 2м",
	}
	for seconds, want := range cases {
		if got := FormatDuration(seconds); got != want {
			t.Fatalf("FormatDuration(%d) = %q, want %q", seconds, got, want)
		}
	}
}

func TestRatingsPer1K(t *testing.T) {
	toxic := msg("Alice", "плохое слово")
	toxic.ToxicRootCount = 2
	laugh := msg("Alice", "ахаха")
	laugh.HasLaugh = true
	forwarded := msg("Alice", "repost")
	forwarded.IsForwarded = true
	forwarded.ToxicRootCount = 5

	ratings := Ratings([]domain.MessageRecord{toxic, laugh, forwarded, msg("Bob", "x")})
	if len(ratings) != 2 {
		t.Fatalf("expected 2 ratings, got %d", len(ratings))
	}
	alice := ratings[0]
	if alice.Entity != "Alice" {
		t.Fatalf("expected Alice first, got %s", alice.Entity)
	}
	if alice.ToxicityPer1K != 1000 {
		t.Fatalf("expected toxicity 1000 per 1k, got %f", alice.ToxicityPer1K)
	}
	if alice.FunPer1K != 500 {
		t.Fatalf("expected fun 500 per 1k, got %f", alice.FunPer1K)
	}
}

func TestBuildActivity(t *testing.T) {
	monday := domain.MessageRecord{
		Username: "Alice",
		Date:     time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC), // a Monday
	}
	sunday := domain.MessageRecord{
		Username: "Bob",
		Date:     time.Date(2024, 3, 10, 23, 0, 0, 0, time.UTC), // a Sunday
	}

	activity := BuildActivity([]domain.MessageRecord{sunday, monday, monday})
	if len(activity.Timeline) != 2 {
		t.Fatalf("expected 2 timeline points, got %d", len(activity.Timeline))
	}
	if activity.Timeline[0].Day != "2024-03-04" || activity.Timeline[0].Count != 2 {
		t.Fatalf("unexpected first timeline point: %+v", activity.Timeline[0])
	}
	if len(activity.Heatmap) != 2 {
		t.Fatalf("expected 2 heatmap cells, got %d", len(activity.Heatmap))
	}
	if activity.Heatmap[0].Weekday != 0 || activity.Heatmap[0].DayName != "Monday" {
		t.Fatalf("expected Monday first, got %+v", activity.Heatmap[0])
	}
	if activity.Heatmap[1].Weekday != 6 || activity.Heatmap[1].Hour != 23 {
		t.Fatalf("unexpected Sunday cell: %+v", activity.Heatmap[1])
	}
}
