package recommend

// Ranking weights. Fixed design constants: every consumer of composite
// scores must see the same formula for output to be comparable.
const (
	weightContentSim  = 0.40
	weightUseCase     = 0.15
	weightLongevity   = 0.15
	weightRating      = 0.20
	weightRatingCount = 0.10

	// ratingCountCeiling is the review volume treated as full confidence.
	ratingCountCeiling = 2000
)

// CompositeScore blends content similarity, use-case fit, and
// normalized quality signals into one scalar. Pure function, no failure
// mode: each sub-term is clamped into [0,1] independently.
func CompositeScore(contentSim, useCase float64, longevity int, ratingValue float64, ratingCount int) float64 {
	return weightContentSim*clamp01(contentSim) +
		weightUseCase*clamp01(useCase) +
		weightLongevity*clamp01(float64(longevity)/5) +
		weightRating*clamp01(ratingValue/5) +
		weightRatingCount*clamp01(float64(ratingCount)/ratingCountCeiling)
}
