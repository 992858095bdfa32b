package analytics

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kapu/vibecheck-analytics-go/internal/config"
	"github.com/kapu/vibecheck-analytics-go/internal/domain"
	"github.com/kapu/vibecheck-analytics-go/internal/lexicon"
	"github.com/kapu/vibecheck-analytics-go/internal/mentions"
	"github.com/kapu/vibecheck-analytics-go/internal/metrics"
	"github.com/kapu/vibecheck-analytics-go/internal/morph"
	"github.com/kapu/vibecheck-analytics-go/internal/quiz"
	"github.com/kapu/vibecheck-analytics-go/internal/randx"
	"github.com/kapu/vibecheck-analytics-go/internal/rulepack"
	"github.com/kapu/vibecheck-analytics-go/internal/stats"
)

type fakeSource struct {
	messages []domain.MessageRecord
	mentions []domain.MentionRecord
	calls    atomic.Int64
	err      error
}

func (f *fakeSource) MessagesInRange(_ context.Context, _ domain.DateRange) ([]domain.MessageRecord, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.messages, nil
}

func (f *fakeSource) MentionsInRange(_ context.Context, _ domain.DateRange) ([]domain.MentionRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.mentions, nil
}

func (f *fakeSource) DateBounds(_ context.Context) (time.Time, time.Time, bool, error) {
	if f.err != nil {
		return time.Time{}, time.Time{}, false, f.err
	}
	if len(f.messages) == 0 {
		return time.Time{}, time.Time{}, false, nil
	}
	return f.messages[0].Date, f.messages[len(f.messages)-1].Date, true, nil
}

func testParticipants(t *testing.T) *config.Participants {
	t.Helper()
	path := filepath.Join(t.TempDir(), "participants.yml")
	doc := "aliases:\n  \"@a\": Alice\nblocklist:\n  - ServiceBot\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	participants, err := config.LoadParticipants(path)
	if err != nil {
		t.Fatal(err)
	}
	return participants
}

func newTestService(t *testing.T, source RecordSource) *Service {
	t.Helper()
	pack := rulepack.Load("", nil)
	participants := testParticipants(t)
	engine := stats.NewEngine(config.StatsConfig{ForwardedReactions: true})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rng := randx.New(rand.New(rand.NewPCG(1, 0)))

	return NewService(
		source,
		stats.NewEnricher(pack),
		engine,
		lexicon.NewExtractor(morph.NewRussian(), pack, config.LexiconConfig{TopK: 10, Workers: 2}),
		mentions.NewBuilder(participants, config.MentionsConfig{TopN: 10}),
		quiz.NewGenerator(engine, rng, config.QuizConfig{QuotePoolSize: 10, MaxQuestions: 15}),
		participants,
		metrics.NewStore(),
		config.CacheConfig{MaxSize: 16, TTLSeconds: 60},
		logger,
	)
}

func archiveMessage(username, text string, date time.Time) domain.MessageRecord {
	return domain.MessageRecord{
		Username:  username,
		Text:      text,
		MediaKind: domain.MediaText,
		Date:      date,
	}
}

func TestSnapshotFiltersBlocklist(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	source := &fakeSource{
		messages: []domain.MessageRecord{
			archiveMessage("Alice", "привет", base),
			archiveMessage("ServiceBot", "automated notice", base),
		},
		mentions: []domain.MentionRecord{
			{SourceUsername: "ServiceBot", TargetName: "@a", Date: base},
			{SourceUsername: "Alice", TargetName: "@a", Date: base},
		},
	}
	service := newTestService(t, source)

	snapshot, err := service.Snapshot(context.Background(), domain.DateRange{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snapshot.Messages) != 1 || snapshot.Messages[0].Username != "Alice" {
		t.Fatalf("blocklisted entity leaked: %+v", snapshot.Messages)
	}
	if len(snapshot.Mentions) != 1 || snapshot.Mentions[0].SourceUsername != "Alice" {
		t.Fatalf("blocklisted mention source leaked: %+v", snapshot.Mentions)
	}
}

func TestSnapshotEnrichesRecords(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	voice := domain.MessageRecord{Username: "Alice", MediaKind: domain.MediaVoice, Duration: 42, Date: base}
	source := &fakeSource{messages: []domain.MessageRecord{voice, archiveMessage("Bob", "хуйня ахаха", base)}}
	service := newTestService(t, source)

	snapshot, err := service.Snapshot(context.Background(), domain.DateRange{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.Messages[0].VoiceDuration != 42 {
		t.Fatalf("voice duration not attributed: %+v", snapshot.Messages[0])
	}
	if snapshot.Messages[1].ToxicRootCount != 1 || !snapshot.Messages[1].HasLaugh {
		t.Fatalf("enrichment missing: %+v", snapshot.Messages[1])
	}
}

func TestSnapshotCachedUntilRefresh(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	source := &fakeSource{messages: []domain.MessageRecord{archiveMessage("Alice", "привет", base)}}
	service := newTestService(t, source)

	ctx := context.Background()
	window := domain.DateRange{}
	if _, err := service.Snapshot(ctx, window); err != nil {
		t.Fatal(err)
	}
	if _, err := service.Snapshot(ctx, window); err != nil {
		t.Fatal(err)
	}
	if got := source.calls.Load(); got != 1 {
		t.Fatalf("expected 1 source fetch, got %d", got)
	}

	service.Refresh()
	if _, err := service.Snapshot(ctx, window); err != nil {
		t.Fatal(err)
	}
	if got := source.calls.Load(); got != 2 {
		t.Fatalf("expected refetch after refresh, got %d fetches", got)
	}
}

func TestSnapshotSourceFailure(t *testing.T) {
	wantErr := errors.New("store down")
	service := newTestService(t, &fakeSource{err: wantErr})

	if _, err := service.Snapshot(context.Background(), domain.DateRange{}); !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped source error, got %v", err)
	}
}

func TestLeaderboardUnknownMetric(t *testing.T) {
	service := newTestService(t, &fakeSource{})
	if _, err := service.Leaderboard(context.Background(), domain.DateRange{}, "nope", ""); err == nil {
		t.Fatalf("expected error for unknown metric")
	}
}

func TestSearchNewestFirstAndCapped(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	var records []domain.MessageRecord
	for i := 0; i < 12; i++ {
		records = append(records, archiveMessage("Alice", "про котиков снова", base.Add(time.Duration(i)*time.Hour)))
	}
	records = append(records, archiveMessage("Bob", "ничего общего", base))
	service := newTestService(t, &fakeSource{messages: records})

	result, err := service.Search(context.Background(), domain.DateRange{}, "КОТИКОВ", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 12 {
		t.Fatalf("expected 12 total hits, got %d", result.Total)
	}
	if len(result.Results) != 10 {
		t.Fatalf("expected capped 10 results, got %d", len(result.Results))
	}
	if !result.Results[0].Date.After(result.Results[9].Date) {
		t.Fatalf("expected newest first ordering")
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	service := newTestService(t, &fakeSource{})
	result, err := service.Search(context.Background(), domain.DateRange{}, "  ", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 0 || len(result.Results) != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

func TestGenerateQuizThroughService(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	source := &fakeSource{messages: []domain.MessageRecord{
		archiveMessage("Alice", "шесть честных слов в этой цитате", base),
		archiveMessage("Bob", "другая цитата из шести слов тут", base),
	}}
	service := newTestService(t, source)

	questions, err := service.GenerateQuiz(context.Background(), domain.DateRange{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(questions) == 0 {
		t.Fatalf("expected questions for two entities")
	}
}
