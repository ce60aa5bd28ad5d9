// Package explcache caches explanation provider output in a key-value
// store. Explanations are derived data with a TTL; the catalog itself
// never touches the store.
package explcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/scentlab/fragrec/internal/db"
	"github.com/scentlab/fragrec/internal/domain"
)

const cacheKeyPrefix = "fragrec:expl_cache:"

// store is the consumer interface for the explanation cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedExplainer decorates an Explainer with a TTL-bounded cache keyed
// by the full query context and candidate list.
type CachedExplainer struct {
	inner      domain.Explainer
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.Explainer,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedExplainer {
	return &CachedExplainer{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// IsAvailable delegates to the inner provider.
func (c *CachedExplainer) IsAvailable() bool { return c.inner.IsAvailable() }

// Explain returns cached explanations or calls the inner provider.
// Cache errors are logged and treated as misses, never surfaced.
func (c *CachedExplainer) Explain(
	ctx context.Context, ec domain.ExplainContext, candidates []domain.Candidate,
) ([]string, error) {
	key, keyErr := c.cacheKey(ec, candidates)
	if keyErr == nil {
		if texts, ok := c.getFromCache(ctx, key, len(candidates)); ok {
			c.incCache("hit")
			return texts, nil
		}
		c.incCache("miss")
	}

	texts, err := c.inner.Explain(ctx, ec, candidates)
	if err != nil {
		return nil, fmt.Errorf("explain candidates: %w", err)
	}

	if keyErr == nil {
		c.putToCache(ctx, key, texts)
	}
	return texts, nil
}

func (c *CachedExplainer) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey hashes the context and candidate summaries. Any change to
// liked items, use-cases, notes, budget, or the candidate slice yields
// a different key.
func (c *CachedExplainer) cacheKey(ec domain.ExplainContext, candidates []domain.Candidate) (string, error) {
	payload, err := json.Marshal(struct {
		Context    domain.ExplainContext
		Candidates []domain.Candidate
	}{ec, candidates})
	if err != nil {
		return "", fmt.Errorf("marshal cache key: %w", err)
	}
	h := sha256.Sum256(payload)
	return cacheKeyPrefix + hex.EncodeToString(h[:]), nil
}

func (c *CachedExplainer) getFromCache(ctx context.Context, key string, want int) ([]string, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached explanations", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var texts []string
	if err := json.Unmarshal(data, &texts); err != nil {
		c.logger.Warn("Failed to parse cached explanations", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if len(texts) != want {
		// Stale entry from an older explain budget.
		return nil, false
	}
	return texts, true
}

func (c *CachedExplainer) putToCache(ctx context.Context, key string, texts []string) {
	data, err := json.Marshal(texts)
	if err != nil {
		c.logger.Warn("Failed to marshal explanations", zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache explanations", zap.String("key", key), zap.Error(err))
	}
}
