package stats

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kapu/vibecheck-analytics-go/internal/config"
	"github.com/kapu/vibecheck-analytics-go/internal/domain"
)

// ErrUnknownMetric marks a query against a metric the engine does not carry.
var ErrUnknownMetric = errors.New("unknown metric")

// AggFunc selects how per-record values fold into one per-entity value.
type AggFunc string

// AggSum is the aggregation function constant list.
const (
	AggSum   AggFunc = "sum"
	AggCount AggFunc = "count"
	AggMean  AggFunc = "mean"
)

// ParseAggFunc maps a raw string onto a known aggregation function.
func ParseAggFunc(raw string) (AggFunc, error) {
	switch AggFunc(strings.ToLower(strings.TrimSpace(raw))) {
	case AggSum:
		return AggSum, nil
	case AggCount:
		return AggCount, nil
	case AggMean:
		return AggMean, nil
	default:
		return "", fmt.Errorf("unknown agg function: %s", raw)
	}
}

// QueryParams: immutable parameters of one aggregation call.
type QueryParams struct {
	Window           domain.DateRange
	Metric           string
	Agg              AggFunc
	ExcludedEntities []string
	IncludeForwarded bool
}

// Entry: one ranked row of an aggregation result.
type Entry struct {
	Entity string  `json:"entity"`
	Value  float64 `json:"value"`
}

// Leaderboard: ranked table plus the winner, when one exists.
type Leaderboard struct {
	Metric      string  `json:"metric"`
	Title       string  `json:"title"`
	Winner      string  `json:"winner,omitempty"`
	WinnerValue float64 `json:"winner_value,omitempty"`
	IsDuration  bool    `json:"is_duration"`
	Suffix      string  `json:"suffix,omitempty"`
	Entries     []Entry `json:"entries"`
}

// MetricDef: a named per-record column with its default fold.
type MetricDef struct {
	Name             string
	Title            string
	Column           func(domain.MessageRecord) float64
	DefaultAgg       AggFunc
	IncludeForwarded bool
	IsDuration       bool
	Suffix           string
}

// Engine resolves metric names and runs aggregation queries. Forwarded
// messages are excluded from every metric except reaction totals, where the
// forwarder still earns the reactions; that exception is policy and can be
// switched off in config.
type Engine struct {
	metrics map[string]MetricDef
	order   []string
}

// NewEngine builds the engine with the built-in metric table.
func NewEngine(cfg config.StatsConfig) *Engine {
	defs := []MetricDef{
		{
			Name:       "messages",
			Title:      "Messages",
			Column:     func(domain.MessageRecord) float64 { return 1 },
			DefaultAgg: AggCount,
		},
		{
			Name:             "reactions",
			Title:            "Reactions",
			Column:           func(r domain.MessageRecord) float64 { return float64(r.ReactionCount) },
			DefaultAgg:       AggSum,
			IncludeForwarded: cfg.ForwardedReactions,
			Suffix:           "likes",
		},
		{
			Name:       "voice_duration",
			Title:      "Voice time",
			Column:     func(r domain.MessageRecord) float64 { return float64(r.VoiceDuration) },
			DefaultAgg: AggSum,
			IsDuration: true,
		},
		{
			Name:       "video_duration",
			Title:      "Video note time",
			Column:     func(r domain.MessageRecord) float64 { return float64(r.VideoDuration) },
			DefaultAgg: AggSum,
			IsDuration: true,
		},
		{
			Name:       "toxicity",
			Title:      "Toxic roots",
			Column:     func(r domain.MessageRecord) float64 { return float64(r.ToxicRootCount) },
			DefaultAgg: AggSum,
			Suffix:     "roots",
		},
		{
			Name:       "text_length",
			Title:      "Average text length",
			Column:     func(r domain.MessageRecord) float64 { return float64(r.TextLen) },
			DefaultAgg: AggMean,
			Suffix:     "chars",
		},
		{
			Name:       "laughs",
			Title:      "Laughing messages",
			Column:     func(r domain.MessageRecord) float64 { return boolToFloat(r.HasLaugh) },
			DefaultAgg: AggSum,
			Suffix:     "keks",
		},
	}

	engine := &Engine{metrics: make(map[string]MetricDef, len(defs))}
	for _, def := range defs {
		engine.metrics[def.Name] = def
		engine.order = append(engine.order, def.Name)
	}
	return engine
}

// Metric resolves a metric by name.
func (e *Engine) Metric(name string) (MetricDef, bool) {
	def, ok := e.metrics[strings.ToLower(strings.TrimSpace(name))]
	return def, ok
}

// MetricNames lists the built-in metrics in presentation order.
func (e *Engine) MetricNames() []string {
	return append([]string(nil), e.order...)
}

// Aggregate folds the snapshot into one value per entity, ranked strictly
// descending by value. Ties keep first-encountered order. An empty filtered
// set yields an empty slice, never an error.
func (e *Engine) Aggregate(records []domain.MessageRecord, def MetricDef, params QueryParams) []Entry {
	excluded := make(map[string]struct{}, len(params.ExcludedEntities))
	for _, name := range params.ExcludedEntities {
		excluded[name] = struct{}{}
	}

	agg := params.Agg
	if agg == "" {
		agg = def.DefaultAgg
	}
	includeForwarded := params.IncludeForwarded || def.IncludeForwarded

	type bucket struct {
		sum   float64
		count int
		seen  int
	}
	buckets := make(map[string]*bucket)
	var names []string

	for _, rec := range records {
		if !params.Window.IsZero() && !params.Window.Contains(rec.Date) {
			continue
		}
		if _, ok := excluded[rec.Username]; ok {
			continue
		}
		if rec.IsForwarded && !includeForwarded {
			continue
		}

		b, ok := buckets[rec.Username]
		if !ok {
			b = &bucket{seen: len(names)}
			buckets[rec.Username] = b
			names = append(names, rec.Username)
		}
		b.sum += def.Column(rec)
		b.count++
	}

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		b := buckets[name]
		var value float64
		switch agg {
		case AggCount:
			value = float64(b.count)
		case AggMean:
			value = b.sum / float64(b.count)
		default:
			value = b.sum
		}
		entries = append(entries, Entry{Entity: name, Value: value})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value > entries[j].Value
	})
	return entries
}

// Leaderboard ranks one metric over the snapshot. The winner is the top
// entry; an empty filtered set yields a leaderboard without a winner.
func (e *Engine) Leaderboard(records []domain.MessageRecord, def MetricDef, params QueryParams) Leaderboard {
	entries := e.Aggregate(records, def, params)
	board := Leaderboard{
		Metric:     def.Name,
		Title:      def.Title,
		IsDuration: def.IsDuration,
		Suffix:     def.Suffix,
		Entries:    entries,
	}
	if len(entries) > 0 {
		board.Winner = entries[0].Entity
		board.WinnerValue = entries[0].Value
	}
	return board
}

// Leaderboards ranks every built-in metric in presentation order.
func (e *Engine) Leaderboards(records []domain.MessageRecord, params QueryParams) []Leaderboard {
	boards := make([]Leaderboard, 0, len(e.order))
	for _, name := range e.order {
		boards = append(boards, e.Leaderboard(records, e.metrics[name], params))
	}
	return boards
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
