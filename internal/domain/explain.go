package domain

import "context"

// ExplainContext carries the user's query context to the explanation provider.
type ExplainContext struct {
	Liked          []string
	UseCases       []string
	PreferredNotes []string
	Budget         string // display string, e.g. "300–600 PLN" or "unspecified"
}

// Candidate is the slim view of a ranked result handed to the provider.
// Never raw catalog rows, never more than the explain budget.
type Candidate struct {
	Brand      string
	Name       string
	Accords    []string
	PriceRange [2]float64
}

// Explainer produces short natural-language justifications for ranked
// candidates. Implementations must return one string per candidate, in
// candidate order; empty strings are allowed.
type Explainer interface {
	// IsAvailable reports whether the provider is configured and usable.
	IsAvailable() bool
	// Explain returns per-candidate text aligned with the input slice.
	Explain(ctx context.Context, ec ExplainContext, candidates []Candidate) ([]string, error)
}

// NoopExplainer is the stand-in selected at startup when no credentials
// are configured.
type NoopExplainer struct{}

// IsAvailable always reports false.
func (NoopExplainer) IsAvailable() bool { return false }

// Explain always reports the provider unavailable.
func (NoopExplainer) Explain(context.Context, ExplainContext, []Candidate) ([]string, error) {
	return nil, ErrExplainerUnavailable
}
