// Package mentions builds the canonicalized social-mention graph from raw
// mention records and the participant alias map.
package mentions

import (
	"sort"

	"github.com/kapu/vibecheck-analytics-go/internal/config"
	"github.com/kapu/vibecheck-analytics-go/internal/domain"
)

// Edge: directed (source, target) pair with its mention count.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Count  int    `json:"count"`
}

// RankEntry: one row of the incoming or outgoing ranking.
type RankEntry struct {
	Entity string `json:"entity"`
	Count  int    `json:"count"`
}

// Graph: the weighted edge set plus ranked summaries and the matrix axis
// orders derived from per-axis totals.
type Graph struct {
	Edges      []Edge      `json:"edges"`
	Incoming   []RankEntry `json:"incoming"`
	Outgoing   []RankEntry `json:"outgoing"`
	SourceAxis []string    `json:"source_axis"`
	TargetAxis []string    `json:"target_axis"`
}

// Builder resolves mention targets and aggregates edges. Targets that
// resolve to no configured participant are dropped, so only known
// participants ever appear in the graph.
type Builder struct {
	participants *config.Participants
	topN         int
	descending   bool
}

// NewBuilder wires the participant config and the ranking size.
func NewBuilder(participants *config.Participants, cfg config.MentionsConfig) *Builder {
	topN := cfg.TopN
	if topN <= 0 {
		topN = 10
	}
	return &Builder{participants: participants, topN: topN, descending: cfg.MatrixDescending}
}

// BuildGraph aggregates the mention records into a resolved graph. An empty
// or fully-unresolved record set yields an empty graph, never an error.
func (b *Builder) BuildGraph(records []domain.MentionRecord) Graph {
	type edgeKey struct {
		source string
		target string
	}
	edges := make(map[edgeKey]int)
	incoming := make(map[string]int)
	outgoing := make(map[string]int)
	var edgeOrder []edgeKey

	for _, rec := range records {
		target, ok := b.participants.ResolveAlias(rec.TargetName)
		if !ok {
			continue
		}
		key := edgeKey{source: rec.SourceUsername, target: target}
		if _, seen := edges[key]; !seen {
			edgeOrder = append(edgeOrder, key)
		}
		edges[key]++
		incoming[target]++
		outgoing[rec.SourceUsername]++
	}

	graph := Graph{Edges: make([]Edge, 0, len(edgeOrder))}
	for _, key := range edgeOrder {
		graph.Edges = append(graph.Edges, Edge{
			Source: key.source,
			Target: key.target,
			Count:  edges[key],
		})
	}
	sort.SliceStable(graph.Edges, func(i, j int) bool {
		return graph.Edges[i].Count > graph.Edges[j].Count
	})

	graph.Incoming = rank(incoming, b.topN)
	graph.Outgoing = rank(outgoing, b.topN)
	graph.SourceAxis = axisOrder(outgoing, b.descending)
	graph.TargetAxis = axisOrder(incoming, b.descending)
	return graph
}

// rank returns the top-N totals, descending, names breaking ties.
func rank(totals map[string]int, topN int) []RankEntry {
	entries := make([]RankEntry, 0, len(totals))
	for name, count := range totals {
		entries = append(entries, RankEntry{Entity: name, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Entity < entries[j].Entity
	})
	if len(entries) > topN {
		entries = entries[:topN]
	}
	return entries
}

// axisOrder sorts axis labels by total activity, ascending by default so
// the most active rows and columns land last.
func axisOrder(totals map[string]int, descending bool) []string {
	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if totals[names[i]] != totals[names[j]] {
			if descending {
				return totals[names[i]] > totals[names[j]]
			}
			return totals[names[i]] < totals[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}
