// Package health aggregates component checks for the /health endpoint.
package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an optional component is failing; core workflows still run.
	Degraded Status = "degraded"
	// Unhealthy indicates the session store is unreachable.
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

// Component names reported in Report.Checks.
const (
	ComponentSessions   = "sessions"
	ComponentSummarizer = "summarizer"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	store      StorePinger
	summarizer SummarizerChecker
}

// New creates a Service. store is nil for in-process sessions, summarizer is nil when disabled.
func New(store StorePinger, summarizer SummarizerChecker) *Service {
	return &Service{store: store, summarizer: summarizer}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := map[string]CheckResult{ComponentSessions: CheckOK}
	status := Healthy

	if s.store != nil {
		if err := s.store.Ping(ctx); err != nil {
			checks[ComponentSessions] = CheckError
			status = Unhealthy
		}
	}

	if s.summarizer != nil {
		if err := s.summarizer.HealthCheck(ctx); err != nil {
			checks[ComponentSummarizer] = CheckError
			if status == Healthy {
				status = Degraded
			}
		} else {
			checks[ComponentSummarizer] = CheckOK
		}
	}

	return Report{Status: status, Checks: checks}
}
