package domain

import "context"

type Service interface {
	ForSubscriberForAllTime(ctx context.Context, msisdn string) (Udr, error)
	ForSubscriberForMonth(ctx context.Context, msisdn string, year, month int) (Udr, error)
	// ForAllSubscribersForMonth builds one Udr per directory entry, in
	// directory iteration order, reusing the single-subscriber path (its
	// per-subscriber existence check included).
	ForAllSubscribersForMonth(ctx context.Context, year, month int) ([]Udr, error)
}
