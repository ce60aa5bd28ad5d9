// Package health aggregates component health into one report.
package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckDisabled indicates a component that is not configured.
	CheckDisabled CheckResult = "disabled"
)

// Report aggregates health check results.
type Report struct {
	Status      Status
	CatalogSize int
	Checks      map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	snapshots SnapshotProvider
	cache     CachePinger
	explainer ExplainerChecker
}

// New creates a Service. cache and explainer can be nil.
func New(snapshots SnapshotProvider, cache CachePinger, explainer ExplainerChecker) *Service {
	return &Service{snapshots: snapshots, cache: cache, explainer: explainer}
}

// Check runs health checks against all components. An empty catalog
// degrades the report but the service stays up: queries still answer
// with an explanatory message.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	snap := s.snapshots.Snapshot()
	size := 0
	if !snap.Empty() {
		size = len(snap.Items)
		checks["catalog"] = CheckOK
	} else {
		checks["catalog"] = CheckError
	}

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			checks["cache"] = CheckError
		} else {
			checks["cache"] = CheckOK
		}
	}

	if s.explainer != nil {
		if s.explainer.IsAvailable() {
			checks["explainer"] = CheckOK
		} else {
			checks["explainer"] = CheckDisabled
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, CatalogSize: size, Checks: checks}
}
