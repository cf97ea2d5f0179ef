package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	catalogs   CatalogProvider
	store      StorePinger
	completion CompletionChecker
}

// New creates a Service. store and completion can be nil.
func New(catalogs CatalogProvider, store StorePinger, completion CompletionChecker) *Service {
	return &Service{catalogs: catalogs, store: store, completion: completion}
}

// Check runs health checks against all components. An empty or missing
// catalog marks the service unhealthy outright: without records there is
// nothing to match against.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	catalogOK := false
	if cat, ok := s.catalogs.Catalog(); ok && cat.Len() > 0 {
		catalogOK = true
		checks["catalog"] = CheckOK
	} else {
		checks["catalog"] = CheckError
	}

	if s.store != nil {
		if err := s.store.Ping(ctx); err != nil {
			checks["store"] = CheckError
		} else {
			checks["store"] = CheckOK
		}
	}

	if s.completion != nil {
		if err := s.completion.HealthCheck(ctx); err != nil {
			checks["completion"] = CheckError
		} else {
			checks["completion"] = CheckOK
		}
	}

	if !catalogOK {
		return Report{Status: Unhealthy, Checks: checks}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
