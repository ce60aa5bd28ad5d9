package recommend

// useCaseRule biases results toward or away from accord families for a
// given wear context.
type useCaseRule struct {
	boost    map[string]struct{}
	penalize map[string]struct{}
}

// Static rule table, loaded at process start and never mutated.
var useCaseRules = map[string]useCaseRule{
	"office": {
		boost:    accordSet("citrus", "green", "woody", "fresh"),
		penalize: accordSet("oud", "amber", "very_sweet"),
	},
	"date": {
		boost:    accordSet("amber", "vanilla", "spicy", "sweet"),
		penalize: accordSet("aquatic", "green"),
	},
	"summer": {
		boost:    accordSet("citrus", "aquatic", "green", "fresh"),
		penalize: accordSet("heavy", "oud"),
	},
	"winter": {
		boost:    accordSet("amber", "vanilla", "spicy", "oud"),
		penalize: accordSet("aquatic", "citrus"),
	},
}

// UseCaseScore rates how well an item's accords fit the requested wear
// contexts, in [0,1]. No use-cases means no information: neutral 0.5.
// Unknown tags are not an error, they simply contribute no bias. The
// clamp is applied to the average, not per use-case, so one heavily
// boosted context cannot saturate before averaging.
func UseCaseScore(accords map[string]struct{}, useCases []string) float64 {
	if len(useCases) == 0 {
		return 0.5
	}

	sum := 0.0
	for _, uc := range useCases {
		r := useCaseRules[uc] // zero value: empty boost/penalize sets
		sum += 0.5 + 0.1*float64(overlap(accords, r.boost)) - 0.05*float64(overlap(accords, r.penalize))
	}
	return clamp01(sum / float64(len(useCases)))
}

func accordSet(tags ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	return set
}

func overlap(a, b map[string]struct{}) int {
	n := 0
	for t := range a {
		if _, ok := b[t]; ok {
			n++
		}
	}
	return n
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
