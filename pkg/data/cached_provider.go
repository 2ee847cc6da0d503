package data

import (
	"sync"

	"github.com/minhtran-quant/forecastval/pkg/types"
)

// CachedProvider memoizes LoadBars per source so repeated runs over the
// same file parse it once. Errors are not cached.
type CachedProvider struct {
	inner PriceHistoryProvider

	mu    sync.RWMutex
	cache map[string][]types.Bar
}

// NewCachedProvider wraps another provider with an in-memory cache.
func NewCachedProvider(inner PriceHistoryProvider) *CachedProvider {
	return &CachedProvider{inner: inner, cache: make(map[string][]types.Bar)}
}

// GetName returns the name of the underlying provider.
func (p *CachedProvider) GetName() string { return p.inner.GetName() + " (cached)" }

// LoadBars returns the cached series for source, loading it on first use.
// Callers must treat the returned slice as read-only.
func (p *CachedProvider) LoadBars(source string) ([]types.Bar, error) {
	p.mu.RLock()
	bars, ok := p.cache[source]
	p.mu.RUnlock()
	if ok {
		return bars, nil
	}

	bars, err := p.inner.LoadBars(source)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.cache[source] = bars
	p.mu.Unlock()
	return bars, nil
}
