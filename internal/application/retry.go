package application

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds how long SuggestionService keeps retrying a write that
// failed with driven.ErrStoreBusy. Both MaxRetries and Timeout apply; whichever
// is reached first ends the attempt with ErrStoreUnavailable.
type RetryPolicy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	MaxRetries      uint64
	Timeout         time.Duration
}

// DefaultRetryPolicy starts at 100ms and doubles up to 2s between attempts,
// giving up after 8 retries or 10s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		Multiplier:      2,
		MaxRetries:      8,
		Timeout:         10 * time.Second,
	}
}

// newBackOff builds the backoff schedule for one operation. The context
// deadline, not MaxElapsedTime, enforces the overall timeout.
func (p RetryPolicy) newBackOff(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = p.InitialInterval
	eb.MaxInterval = p.MaxInterval
	eb.Multiplier = p.Multiplier
	eb.RandomizationFactor = 0
	eb.MaxElapsedTime = 0
	eb.Reset()

	return backoff.WithContext(backoff.WithMaxRetries(eb, p.MaxRetries), ctx)
}
