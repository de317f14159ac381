package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"

	"pethost/internal/app/uow"
	domainavailability "pethost/internal/domain/availability"
	domainbooking "pethost/internal/domain/booking"
	domainhosts "pethost/internal/domain/hosts"
	domainreviews "pethost/internal/domain/reviews"
)

// Factory wires Mongo transactions into the generic UnitOfWork interface.
type Factory struct {
	DB *mongo.Database

	HostsRepo        domainhosts.Repository
	BookingsRepo     domainbooking.Repository
	ReviewsRepo      domainreviews.Repository
	AvailabilityRepo domainavailability.Repository
}

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// NewFactory builds a factory with the default repositories for db.
func NewFactory(db *mongo.Database) Factory {
	return Factory{
		DB:               db,
		HostsRepo:        NewHostRepository(db),
		BookingsRepo:     NewBookingRepository(db),
		ReviewsRepo:      NewReviewRepository(db),
		AvailabilityRepo: NewBlockRepository(db),
	}
}

// Begin starts a MongoDB session/transaction.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
	if opts.ReadOnly {
		txnOpts = txnOpts.SetReadConcern(readconcern.Snapshot())
	}
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{
		session:      session,
		hosts:        f.HostsRepo,
		bookings:     f.BookingsRepo,
		reviews:      f.ReviewsRepo,
		availability: f.AvailabilityRepo,
	}, nil
}

type Unit struct {
	session mongo.Session
	done    bool

	hosts        domainhosts.Repository
	bookings     domainbooking.Repository
	reviews      domainreviews.Repository
	availability domainavailability.Repository
}

func (u *Unit) Hosts() domainhosts.Repository { return u.hosts }

func (u *Unit) Bookings() domainbooking.Repository { return u.bookings }

func (u *Unit) Reviews() domainreviews.Repository { return u.reviews }

func (u *Unit) Availability() domainavailability.Repository { return u.availability }

// Commit maps write conflicts from concurrent transactions to Conflict errors.
func (u *Unit) Commit(ctx context.Context) error {
	if u.done {
		return nil
	}
	u.done = true
	defer u.session.EndSession(ctx)
	if err := u.session.CommitTransaction(ctx); err != nil {
		var cmdErr mongo.CommandError
		if errors.As(err, &cmdErr) && cmdErr.HasErrorLabel("TransientTransactionError") {
			return errors.Join(domainbooking.ErrConcurrentUpdate, err)
		}
		return err
	}
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	if u.done {
		return nil
	}
	u.done = true
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext ensures Mongo session is available in context for downstream repos.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}

var (
	_ uow.UoWFactory      = Factory{}
	_ uow.ContextInjector = (*Unit)(nil)
)
