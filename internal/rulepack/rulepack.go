// Package rulepack loads the lexical rulepack: the multilingual stop-list,
// the profane root substrings and the laughter heuristics shared by the
// lexical extractor and the metric aggregation engine.
package rulepack

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed lexical.yml
var embeddedPack []byte

type rawPack struct {
	Version       int      `yaml:"version"`
	Stopwords     []string `yaml:"stopwords"`
	ToxicRoots    []string `yaml:"toxic_roots"`
	LaughPatterns []string `yaml:"laugh_patterns"`
}

// Pack: compiled lexical rulepack.
type Pack struct {
	stopwords     map[string]struct{}
	toxicRoots    []string
	laughPatterns []*regexp.Regexp
}

// Load compiles the embedded rulepack, overridden by the first parseable
// YAML file in dir when one is present. A broken override degrades to the
// embedded default rather than failing startup.
func Load(dir string, logger *slog.Logger) *Pack {
	raw, err := parse(embeddedPack)
	if err != nil {
		// The embedded pack is validated by tests; this path is unreachable
		// short of a broken build.
		raw = rawPack{}
		if logger != nil {
			logger.Error("rulepack_embedded_invalid", "err", err)
		}
	}

	if override, ok := loadOverride(dir, logger); ok {
		raw = merge(raw, override)
	}

	return compile(raw, logger)
}

func parse(data []byte) (rawPack, error) {
	var raw rawPack
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return rawPack{}, fmt.Errorf("parse lexical rulepack: %w", err)
	}
	return raw, nil
}

func loadOverride(dir string, logger *slog.Logger) (rawPack, bool) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return rawPack{}, false
	}

	var paths []string
	for _, pattern := range []string{"*.yml", "*.yaml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			continue
		}
		paths = append(paths, matches...)
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if logger != nil {
				logger.Warn("rulepack_read_failed", "path", path, "err", err)
			}
			continue
		}
		raw, err := parse(data)
		if err != nil {
			if logger != nil {
				logger.Warn("rulepack_parse_failed", "path", path, "err", err)
			}
			continue
		}
		if logger != nil {
			logger.Info("rulepack_override_loaded", "path", path)
		}
		return raw, true
	}
	return rawPack{}, false
}

// merge replaces embedded sections with non-empty override sections.
func merge(base rawPack, override rawPack) rawPack {
	if len(override.Stopwords) > 0 {
		base.Stopwords = override.Stopwords
	}
	if len(override.ToxicRoots) > 0 {
		base.ToxicRoots = override.ToxicRoots
	}
	if len(override.LaughPatterns) > 0 {
		base.LaughPatterns = override.LaughPatterns
	}
	return base
}

func compile(raw rawPack, logger *slog.Logger) *Pack {
	pack := &Pack{
		stopwords: make(map[string]struct{}, len(raw.Stopwords)),
	}
	for _, word := range raw.Stopwords {
		word = strings.ToLower(strings.TrimSpace(word))
		if word != "" {
			pack.stopwords[word] = struct{}{}
		}
	}
	for _, root := range raw.ToxicRoots {
		root = strings.ToLower(strings.TrimSpace(root))
		if root != "" {
			pack.toxicRoots = append(pack.toxicRoots, root)
		}
	}
	for _, pattern := range raw.LaughPatterns {
		compiled, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			if logger != nil {
				logger.Warn("rulepack_laugh_pattern_invalid", "pattern", pattern, "err", err)
			}
			continue
		}
		pack.laughPatterns = append(pack.laughPatterns, compiled)
	}
	return pack
}

// IsStopword reports whether a normalized token sits on the stop-list.
func (p *Pack) IsStopword(token string) bool {
	if p == nil {
		return false
	}
	_, ok := p.stopwords[token]
	return ok
}

// ToxicRoots returns the profane root substrings in rulepack order.
func (p *Pack) ToxicRoots() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.toxicRoots...)
}

// MatchesLaugh reports whether text contains a laughter marker.
func (p *Pack) MatchesLaugh(text string) bool {
	if p == nil {
		return false
	}
	for _, pattern := range p.laughPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}
