// Package morph declares the morphological analyzer dependency of the
// lexical extractor. The analyzer is an injected black box: given a token
// it returns the dictionary base form.
package morph

import (
	"time"

	"github.com/kapu/vibecheck-analytics-go/internal/cache"
)

// Analyzer resolves a normalized token to its dictionary base form.
// Implementations must be synchronous and side-effect free.
type Analyzer interface {
	NormalForm(token string) string
}

// AnalyzerFunc adapts a plain function to the Analyzer interface.
type AnalyzerFunc func(token string) string

// NormalForm implements Analyzer.
func (f AnalyzerFunc) NormalForm(token string) string { return f(token) }

// Cached wraps an analyzer with a TTL-LRU memo. Base forms are pure
// functions of the token, so the cache never needs selective invalidation.
type Cached struct {
	inner Analyzer
	memo  *cache.TTLCache[string, string]
}

// NewCached creates a memoizing analyzer wrapper.
func NewCached(inner Analyzer, maxSize int, ttl time.Duration) *Cached {
	return &Cached{
		inner: inner,
		memo:  cache.NewTTLCache[string, string](maxSize, ttl),
	}
}

// NormalForm implements Analyzer.
func (c *Cached) NormalForm(token string) string {
	if form, ok := c.memo.Get(token); ok {
		return form
	}
	form := c.inner.NormalForm(token)
	c.memo.Set(token, form)
	return form
}
