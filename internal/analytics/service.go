// Package analytics is the query façade over the archive: it fetches and
// enriches record snapshots, memoizes them per date window and serves the
// derived views (summary, leaderboards, lexicon, mention graph, quiz).
package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/kapu/vibecheck-analytics-go/internal/cache"
	"github.com/kapu/vibecheck-analytics-go/internal/config"
	"github.com/kapu/vibecheck-analytics-go/internal/domain"
	"github.com/kapu/vibecheck-analytics-go/internal/lexicon"
	"github.com/kapu/vibecheck-analytics-go/internal/mentions"
	"github.com/kapu/vibecheck-analytics-go/internal/metrics"
	"github.com/kapu/vibecheck-analytics-go/internal/quiz"
	"github.com/kapu/vibecheck-analytics-go/internal/stats"
)

// RecordSource is the read-only archive the service queries.
type RecordSource interface {
	MessagesInRange(ctx context.Context, window domain.DateRange) ([]domain.MessageRecord, error)
	MentionsInRange(ctx context.Context, window domain.DateRange) ([]domain.MentionRecord, error)
	DateBounds(ctx context.Context) (time.Time, time.Time, bool, error)
}

// Snapshot: one window's filtered, enriched record set. Immutable once
// built; every derived view reads from it.
type Snapshot struct {
	Messages []domain.MessageRecord
	Mentions []domain.MentionRecord
}

// SearchResult: capped text search hits plus the uncapped total.
type SearchResult struct {
	Total   int                    `json:"total"`
	Results []domain.MessageRecord `json:"results"`
}

// Service runs the derived-analytics queries. Snapshots are memoized per
// date window behind singleflight so concurrent identical queries fetch
// and enrich once.
type Service struct {
	source       RecordSource
	enricher     *stats.Enricher
	engine       *stats.Engine
	extractor    *lexicon.Extractor
	graph        *mentions.Builder
	generator    *quiz.Generator
	participants *config.Participants
	metrics      *metrics.Store
	logger       *slog.Logger

	snapshots *cache.TTLCache[string, *Snapshot]
	group     singleflight.Group
}

// NewService wires the query façade.
func NewService(
	source RecordSource,
	enricher *stats.Enricher,
	engine *stats.Engine,
	extractor *lexicon.Extractor,
	graph *mentions.Builder,
	generator *quiz.Generator,
	participants *config.Participants,
	metricsStore *metrics.Store,
	cacheCfg config.CacheConfig,
	logger *slog.Logger,
) *Service {
	maxSize := cacheCfg.MaxSize
	if maxSize <= 0 {
		maxSize = 64
	}
	ttl := time.Duration(cacheCfg.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{
		source:       source,
		enricher:     enricher,
		engine:       engine,
		extractor:    extractor,
		graph:        graph,
		generator:    generator,
		participants: participants,
		metrics:      metricsStore,
		logger:       logger,
		snapshots:    cache.NewTTLCache[string, *Snapshot](maxSize, ttl),
	}
}

// Snapshot returns the enriched record set for a window, from cache when
// the same window was queried recently.
func (s *Service) Snapshot(ctx context.Context, window domain.DateRange) (*Snapshot, error) {
	start := time.Now()
	key := window.Key()

	if snapshot, ok := s.snapshots.Get(key); ok {
		s.metrics.RecordQuery(time.Since(start), true)
		return snapshot, nil
	}

	value, err, _ := s.group.Do(key, func() (any, error) {
		if snapshot, ok := s.snapshots.Get(key); ok {
			return snapshot, nil
		}
		snapshot, err := s.fetch(ctx, window)
		if err != nil {
			return nil, err
		}
		s.snapshots.Set(key, snapshot)
		return snapshot, nil
	})
	if err != nil {
		s.metrics.RecordError(time.Since(start))
		return nil, err
	}

	s.metrics.RecordQuery(time.Since(start), false)
	return value.(*Snapshot), nil
}

func (s *Service) fetch(ctx context.Context, window domain.DateRange) (*Snapshot, error) {
	messages, err := s.source.MessagesInRange(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	rawMentions, err := s.source.MentionsInRange(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("load mentions: %w", err)
	}

	kept := make([]domain.MessageRecord, 0, len(messages))
	for _, rec := range messages {
		if s.participants.IsBlocked(rec.Username) || s.participants.IsIgnoredID(rec.UserID) {
			continue
		}
		kept = append(kept, s.enricher.Enrich(rec))
	}

	keptMentions := make([]domain.MentionRecord, 0, len(rawMentions))
	for _, rec := range rawMentions {
		if s.participants.IsBlocked(rec.SourceUsername) {
			continue
		}
		keptMentions = append(keptMentions, rec)
	}

	s.logger.Debug("snapshot_loaded",
		"window", window.Key(),
		"messages", len(kept),
		"mentions", len(keptMentions),
		"filtered_messages", len(messages)-len(kept),
	)
	return &Snapshot{Messages: kept, Mentions: keptMentions}, nil
}

// Refresh drops every memoized snapshot. Invalidation is wholesale.
func (s *Service) Refresh() {
	s.snapshots.Clear()
	s.logger.Info("analytics_cache_cleared")
}

// DateBounds exposes the archive's first and last message timestamps.
func (s *Service) DateBounds(ctx context.Context) (time.Time, time.Time, bool, error) {
	return s.source.DateBounds(ctx)
}

// Summary computes the archive-wide headline numbers for a window.
func (s *Service) Summary(ctx context.Context, window domain.DateRange) (stats.Summary, error) {
	snapshot, err := s.Snapshot(ctx, window)
	if err != nil {
		return stats.Summary{}, err
	}
	return stats.Summarize(snapshot.Messages), nil
}

// Leaderboards ranks every built-in metric for a window.
func (s *Service) Leaderboards(ctx context.Context, window domain.DateRange) ([]stats.Leaderboard, error) {
	snapshot, err := s.Snapshot(ctx, window)
	if err != nil {
		return nil, err
	}
	return s.engine.Leaderboards(snapshot.Messages, stats.QueryParams{}), nil
}

// Leaderboard ranks one metric, optionally overriding the fold function.
func (s *Service) Leaderboard(ctx context.Context, window domain.DateRange, metric string, agg stats.AggFunc) (stats.Leaderboard, error) {
	def, ok := s.engine.Metric(metric)
	if !ok {
		return stats.Leaderboard{}, fmt.Errorf("%w: %s", stats.ErrUnknownMetric, metric)
	}
	snapshot, err := s.Snapshot(ctx, window)
	if err != nil {
		return stats.Leaderboard{}, err
	}
	return s.engine.Leaderboard(snapshot.Messages, def, stats.QueryParams{Agg: agg}), nil
}

// Ratings computes the normalized per-entity profiles.
func (s *Service) Ratings(ctx context.Context, window domain.DateRange) ([]stats.Rating, error) {
	snapshot, err := s.Snapshot(ctx, window)
	if err != nil {
		return nil, err
	}
	return stats.Ratings(snapshot.Messages), nil
}

// Activity computes the timeline and the weekday/hour heatmap.
func (s *Service) Activity(ctx context.Context, window domain.DateRange) (stats.Activity, error) {
	snapshot, err := s.Snapshot(ctx, window)
	if err != nil {
		return stats.Activity{}, err
	}
	return stats.BuildActivity(snapshot.Messages), nil
}

// Lexicon computes every entity's top lemma profile.
func (s *Service) Lexicon(ctx context.Context, window domain.DateRange) (map[string][]lexicon.Entry, error) {
	snapshot, err := s.Snapshot(ctx, window)
	if err != nil {
		return nil, err
	}
	return s.extractor.TopLemmasAll(snapshot.Messages), nil
}

// MentionGraph builds the resolved mention graph for a window.
func (s *Service) MentionGraph(ctx context.Context, window domain.DateRange) (mentions.Graph, error) {
	snapshot, err := s.Snapshot(ctx, window)
	if err != nil {
		return mentions.Graph{}, err
	}
	return s.graph.BuildGraph(snapshot.Mentions), nil
}

// GenerateQuiz samples a fresh question set from the window's snapshot.
// An empty result means the window lacks the data for a quiz.
func (s *Service) GenerateQuiz(ctx context.Context, window domain.DateRange) ([]quiz.Question, error) {
	snapshot, err := s.Snapshot(ctx, window)
	if err != nil {
		return nil, err
	}
	return s.generator.Generate(snapshot.Messages), nil
}

// Search finds messages containing the query, newest first, capped at
// limit. The total counts every hit regardless of the cap.
func (s *Service) Search(ctx context.Context, window domain.DateRange, query string, limit int) (SearchResult, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return SearchResult{}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	snapshot, err := s.Snapshot(ctx, window)
	if err != nil {
		return SearchResult{}, err
	}

	var hits []domain.MessageRecord
	for _, rec := range snapshot.Messages {
		if rec.Text == "" {
			continue
		}
		if strings.Contains(strings.ToLower(rec.Text), query) {
			hits = append(hits, rec)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Date.After(hits[j].Date)
	})

	result := SearchResult{Total: len(hits), Results: hits}
	if len(hits) > limit {
		result.Results = hits[:limit]
	}
	return result, nil
}
