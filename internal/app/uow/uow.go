package uow

import (
	"context"

	domainavailability "pethost/internal/domain/availability"
	domainbooking "pethost/internal/domain/booking"
	domainhosts "pethost/internal/domain/hosts"
	domainreviews "pethost/internal/domain/reviews"
)

// UnitOfWork coordinates repositories inside a transaction boundary.
type UnitOfWork interface {
	Hosts() domainhosts.Repository
	Bookings() domainbooking.Repository
	Reviews() domainreviews.Repository
	Availability() domainavailability.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

type TxOptions struct {
	ReadOnly bool
}
