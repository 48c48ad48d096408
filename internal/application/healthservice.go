package application

import (
	"context"
	"time"
)

// Pinger is satisfied by the database handle.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthStatus is the result of a health check.
type HealthStatus struct {
	OK      bool
	Checked time.Time
	Err     error
}

// HealthService reports whether the backing store is reachable.
type HealthService struct {
	db      Pinger
	timeout time.Duration
}

// NewHealthService creates a HealthService that pings db with a 2s timeout.
func NewHealthService(db Pinger) *HealthService {
	return &HealthService{db: db, timeout: 2 * time.Second}
}

// Check pings the store. A nil db is treated as healthy.
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{OK: true, Checked: time.Now().UTC()}
	if s.db == nil {
		return status
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		status.OK = false
		status.Err = err
	}

	return status
}
