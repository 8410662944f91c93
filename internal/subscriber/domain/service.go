package domain

import (
	"context"
	"errors"
)

// Service is the read-only directory surface the CDR and UDR paths consume.
type Service interface {
	FindAll(ctx context.Context) ([]Subscriber, error)
	// EnsureExists returns ErrNoSuchSubscriber (wrapped with the offending
	// msisdn) when the directory has no entry for the identifier.
	EnsureExists(ctx context.Context, msisdn string) error
}

var ErrNoSuchSubscriber = errors.New("no_such_subscriber")
