package domain

import "strings"

// Gender classifies the target audience of a perfume.
type Gender string

const (
	// GenderMale marks a perfume marketed for men.
	GenderMale Gender = "Male"
	// GenderFemale marks a perfume marketed for women.
	GenderFemale Gender = "Female"
	// GenderUnisex marks a perfume marketed for everyone.
	GenderUnisex Gender = "Unisex"
)

// ParseGender maps free-form catalog text to a Gender, defaulting to Unisex.
func ParseGender(s string) Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m", "men":
		return GenderMale
	case "female", "f", "women":
		return GenderFemale
	default:
		return GenderUnisex
	}
}

// Matches reports whether the gender satisfies a query filter value.
// Empty string and the sentinels "any", "all", "none" mean no filter.
func (g Gender) Matches(filter string) bool {
	switch strings.ToLower(strings.TrimSpace(filter)) {
	case "", "any", "all", "none":
		return true
	default:
		return strings.EqualFold(string(g), strings.TrimSpace(filter))
	}
}

// Item is one catalog row. Fields are coerced once at ingestion; the
// struct is never mutated after the snapshot is built.
type Item struct {
	Brand       string
	Name        string
	Gender      Gender
	PriceMin    float64
	PriceMax    float64
	Accords     []string // lowercase tags, split from "woody|citrus|fresh"
	TopNotes    string
	MiddleNotes string
	BaseNotes   string
	Description string
	Longevity   int // 1..5, default 3
	Sillage     int // 1..5, default 3
	RatingValue float64
	RatingCount int
	URL         string
}

// AccordSet returns the item's accords as a membership set.
func (it *Item) AccordSet() map[string]struct{} {
	set := make(map[string]struct{}, len(it.Accords))
	for _, a := range it.Accords {
		set[a] = struct{}{}
	}
	return set
}

// SearchText concatenates the descriptive fields an item is indexed by.
// Pipe delimiters become spaces so multi-word tags tokenize individually.
func (it *Item) SearchText() string {
	parts := []string{it.Description, strings.Join(it.Accords, " "), it.TopNotes, it.MiddleNotes, it.BaseNotes}
	joined := strings.Join(parts, " ")
	joined = strings.ReplaceAll(joined, "|", " ")
	return strings.ToLower(joined)
}
