package health

import "context"

// StorePinger checks session store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// SummarizerChecker checks narrative provider availability.
type SummarizerChecker interface {
	HealthCheck(ctx context.Context) error
}
