package domain

// Query is a recommendation request after transport-level decoding.
// Nil numeric bounds mean "no filter".
type Query struct {
	Liked          []string
	UseCases       []string
	PreferredNotes []string

	PriceMin       *float64
	PriceMax       *float64
	RatingMin      *float64
	RatingCountMin *int
	LongevityMin   *int
	SillageMin     *int
	Gender         string // case-insensitive match; ""/"any"/"all"/"none" disable the filter

	K       int
	Explain bool
}

// FallbackQueryText substitutes for an empty query so the similarity
// index never sees a degenerate zero vector.
const FallbackQueryText = "fresh versatile office citrus"

// Recommendation is one scored result. Derived per request, never stored.
type Recommendation struct {
	Item       Item
	ContentSim float64
	UseCase    float64
	Score      float64
	Why        string
	AIWhy      string // set only when an explanation provider responded
}
