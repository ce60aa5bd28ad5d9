// Package recommend implements the recommendation pipeline: similarity
// scoring over the full catalog, filter narrowing, use-case and quality
// scoring, ranking, and optional LLM-backed explanations.
package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/scentlab/fragrec/internal/domain"
	"github.com/scentlab/fragrec/internal/logger"
	"github.com/scentlab/fragrec/internal/metrics"
)

// Messages returned with empty result sets. Distinct so callers can
// tell an empty catalog from over-narrow filters.
const (
	MsgEmptyCatalog = "Catalog is empty."
	MsgNoCandidates = "No perfumes match the requested filters."
)

// Response is the outcome of one recommendation query.
type Response struct {
	Results []domain.Recommendation
	Message string
	LLMUsed bool
}

// Service orchestrates one recommendation request over the shared
// read-only snapshot. All per-request state is local; no locks needed.
type Service struct {
	snapshots    SnapshotProvider
	explainer    domain.Explainer
	defaultK     int
	maxK         int
	explainLimit int
}

// New creates a recommendation service with an explanation provider.
// Pass domain.NoopExplainer when no provider is configured.
func New(snapshots SnapshotProvider, explainer domain.Explainer) *Service {
	return &Service{
		snapshots:    snapshots,
		explainer:    explainer,
		defaultK:     8,
		maxK:         10,
		explainLimit: 5,
	}
}

// WithLimits overrides result-count and explain-budget bounds.
func (s *Service) WithLimits(defaultK, maxK, explainLimit int) *Service {
	if defaultK > 0 {
		s.defaultK = defaultK
	}
	if maxK > 0 {
		s.maxK = maxK
	}
	if explainLimit > 0 {
		s.explainLimit = explainLimit
	}
	return s
}

// scored keeps the original catalog row alongside the recommendation so
// similarity can be joined by original row position, never by position
// in the filtered set.
type scored struct {
	row int
	rec domain.Recommendation
}

// Recommend runs the full pipeline. Bad input never fails the request:
// out-of-range k is clamped, empty catalogs and empty candidate sets
// return descriptive messages, and explanation failures degrade to the
// baseline results.
func (s *Service) Recommend(ctx context.Context, q domain.Query) Response {
	k := q.K
	if k <= 0 {
		k = s.defaultK
	}
	if k > s.maxK {
		k = s.maxK
	}
	explainBudget := minInt(s.explainLimit, k)

	snap := s.snapshots.Snapshot()
	if snap.Empty() {
		metrics.RecommendRequestsTotal.WithLabelValues("empty_catalog").Inc()
		return Response{Results: []domain.Recommendation{}, Message: MsgEmptyCatalog}
	}

	// One similarity pass over the whole catalog, before filtering, so
	// the score array stays aligned with original row order.
	queryText := buildQueryText(q)
	sims := snap.Index.Query(queryText)

	candidates := make([]scored, 0, len(snap.Items))
	for row := range snap.Items {
		item := &snap.Items[row]
		if !passesFilters(item, q) {
			continue
		}

		uc := UseCaseScore(item.AccordSet(), q.UseCases)
		sim := clamp01(sims[row])
		candidates = append(candidates, scored{
			row: row,
			rec: domain.Recommendation{
				Item:       *item,
				ContentSim: sim,
				UseCase:    uc,
				Score:      CompositeScore(sim, uc, item.Longevity, item.RatingValue, item.RatingCount),
			},
		})
	}

	if len(candidates) == 0 {
		metrics.RecommendRequestsTotal.WithLabelValues("no_candidates").Inc()
		return Response{Results: []domain.Recommendation{}, Message: MsgNoCandidates}
	}
	metrics.RecommendRequestsTotal.WithLabelValues("ok").Inc()

	// Stable sort: ties keep original catalog order for determinism.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].rec.Score > candidates[j].rec.Score
	})
	if len(candidates) > k {
		candidates = candidates[:k]
	}

	results := make([]domain.Recommendation, len(candidates))
	for i, c := range candidates {
		c.rec.Why = baselineWhy(c.rec)
		results[i] = c.rec
	}

	resp := Response{Results: results}
	if q.Explain {
		resp.LLMUsed = s.attachExplanations(ctx, q, results[:minInt(explainBudget, len(results))])
	}
	return resp
}

// buildQueryText joins liked names and preferred notes into the
// similarity query, substituting the generic fallback for empty input.
func buildQueryText(q domain.Query) string {
	parts := make([]string, 0, len(q.Liked)+len(q.PreferredNotes))
	for _, p := range append(append([]string{}, q.Liked...), q.PreferredNotes...) {
		if t := strings.TrimSpace(p); t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return domain.FallbackQueryText
	}
	return strings.Join(parts, " ")
}

// passesFilters applies the narrowing predicates from the query.
func passesFilters(item *domain.Item, q domain.Query) bool {
	if q.PriceMin != nil && item.PriceMin < *q.PriceMin {
		return false
	}
	if q.PriceMax != nil && item.PriceMax > *q.PriceMax {
		return false
	}
	if q.RatingMin != nil && item.RatingValue < *q.RatingMin {
		return false
	}
	if q.RatingCountMin != nil && item.RatingCount < *q.RatingCountMin {
		return false
	}
	if q.LongevityMin != nil && item.Longevity < *q.LongevityMin {
		return false
	}
	if q.SillageMin != nil && item.Sillage < *q.SillageMin {
		return false
	}
	if !item.Gender.Matches(q.Gender) {
		return false
	}
	for _, liked := range q.Liked {
		if strings.EqualFold(strings.TrimSpace(liked), item.Name) {
			return false
		}
	}
	return true
}

// baselineWhy builds the threshold-rule justification string.
func baselineWhy(rec domain.Recommendation) string {
	var bits []string
	if rec.ContentSim > 0.3 {
		bits = append(bits, "matches scent profile")
	}
	if rec.UseCase > 0.6 {
		bits = append(bits, "fits use-cases")
	}
	if rec.Item.Longevity >= 4 {
		bits = append(bits, "long-lasting")
	}
	if rec.Item.RatingValue >= 4.2 && rec.Item.RatingCount >= 200 {
		bits = append(bits, "strong community ratings")
	}
	if len(bits) == 0 {
		return "balanced match"
	}
	return strings.Join(bits, "; ")
}

// attachExplanations asks the provider for per-item text and merges it
// into the head slice by position. Any provider failure, including a
// response of the wrong length, is swallowed: the baseline results are
// never at risk. Reports whether explanations were merged.
func (s *Service) attachExplanations(ctx context.Context, q domain.Query, head []domain.Recommendation) bool {
	if !s.explainer.IsAvailable() || len(head) == 0 {
		return false
	}

	ec := domain.ExplainContext{
		Liked:          q.Liked,
		UseCases:       q.UseCases,
		PreferredNotes: q.PreferredNotes,
		Budget:         budgetString(q),
	}
	candidates := make([]domain.Candidate, len(head))
	for i, r := range head {
		candidates[i] = domain.Candidate{
			Brand:      r.Item.Brand,
			Name:       r.Item.Name,
			Accords:    r.Item.Accords,
			PriceRange: [2]float64{r.Item.PriceMin, r.Item.PriceMax},
		}
	}

	texts, err := s.explainer.Explain(ctx, ec, candidates)
	if err != nil {
		metrics.ExplainRequestsTotal.WithLabelValues("error").Inc()
		logger.FromContext(ctx).Warn("explanation provider failed", zap.Error(err))
		return false
	}
	if len(texts) != len(head) {
		metrics.ExplainRequestsTotal.WithLabelValues("error").Inc()
		logger.FromContext(ctx).Warn("explanation provider returned wrong length",
			zap.Int("want", len(head)), zap.Int("got", len(texts)))
		return false
	}

	metrics.ExplainRequestsTotal.WithLabelValues("success").Inc()
	for i := range head {
		head[i].AIWhy = texts[i]
	}
	return true
}

// budgetString formats the price bounds for the explanation context.
func budgetString(q domain.Query) string {
	switch {
	case q.PriceMin != nil && q.PriceMax != nil:
		return fmt.Sprintf("%.0f–%.0f PLN", *q.PriceMin, *q.PriceMax)
	case q.PriceMax != nil:
		return fmt.Sprintf("up to %.0f PLN", *q.PriceMax)
	case q.PriceMin != nil:
		return fmt.Sprintf("from %.0f PLN", *q.PriceMin)
	default:
		return "unspecified"
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
