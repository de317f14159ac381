package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pethost/internal/app/commands"
	"pethost/internal/app/dto"
	availabilityapp "pethost/internal/app/handlers/availability"
	bookingapp "pethost/internal/app/handlers/booking"
	hostsapp "pethost/internal/app/handlers/hosts"
	reviewsapp "pethost/internal/app/handlers/reviews"
	"pethost/internal/app/handlers/support"
	"pethost/internal/app/middleware"
	"pethost/internal/app/outbox"
	"pethost/internal/app/policies"
	"pethost/internal/app/queries"
	"pethost/internal/app/uow"
	"pethost/internal/infra/config"
	ginserver "pethost/internal/infra/http/gin"
	"pethost/internal/infra/obs"
	"pethost/internal/infra/pricing"
	"pethost/internal/infra/storage/s3"
	"pethost/internal/infra/validation"
)

type application struct {
	handlers ginserver.Handlers
	health   obs.HealthHandlers
	workers  map[string]func(ctx context.Context) error
	closers  []func(ctx context.Context) error
}

func (a *application) close(ctx context.Context, logger *slog.Logger) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			logger.Warn("shutdown step failed", "error", err)
		}
	}
}

// backend is the storage-specific half of the wiring.
type backend struct {
	factory     uow.UoWFactory
	outbox      outbox.Outbox
	idempotency middleware.IdempotencyStore
	locker      policies.Locker
	users       policies.UserDirectory
	pets        policies.PetRegistry
	checks      map[string]obs.Check
	workers     map[string]func(ctx context.Context) error
	closers     []func(ctx context.Context) error
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (*application, error) {
	var (
		be  *backend
		err error
	)
	switch cfg.StorageMode {
	case config.StorageMongo:
		be, err = newMongoBackend(ctx, cfg, logger)
	default:
		be, err = newMemoryBackend(cfg, logger)
	}
	if err != nil {
		return nil, err
	}

	var uploader policies.PhotoUploader
	if cfg.UploadsEnabled() {
		client, err := s3.NewClient(s3.Options{
			Endpoint:       cfg.S3Endpoint,
			PublicEndpoint: cfg.S3PublicEndpoint,
			AccessKey:      cfg.S3AccessKey,
			SecretKey:      cfg.S3SecretKey,
			Bucket:         cfg.S3Bucket,
			UseSSL:         cfg.S3UseSSL,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("s3: %w", err)
		}
		uploader = client
		be.checks["s3"] = client.Ping
	} else {
		logger.Info("photo uploads disabled", "reason", "S3_ENDPOINT not set")
	}

	deps := busDeps{
		backend:  be,
		pricing:  pricing.NewPortAdapter(pricing.LoadAddOnCatalog(cfg.PricingAddOns, logger)),
		uploader: uploader,
		currency: cfg.Currency,
		logger:   logger,
	}
	commandBus := newCommandBus(deps)
	queryBus := newQueryBus(deps)

	return &application{
		handlers: ginserver.Handlers{
			Hosts:        ginserver.HostHandler{Commands: commandBus, Queries: queryBus, Logger: logger},
			Availability: ginserver.AvailabilityHandler{Commands: commandBus, Queries: queryBus, Logger: logger},
			Bookings:     ginserver.BookingHandler{Commands: commandBus, Queries: queryBus, Logger: logger},
			Reviews:      ginserver.ReviewHandler{Commands: commandBus, Queries: queryBus, Logger: logger},
			AuthMiddleware: ginserver.AuthMiddleware{
				Secret: []byte(cfg.JWTSecret),
				Issuer: cfg.JWTIssuer,
				Logger: logger,
			}.Handle,
		},
		health:  obs.HealthHandlers{Checks: be.checks, Timeout: 2 * time.Second},
		workers: be.workers,
		closers: be.closers,
	}, nil
}

type busDeps struct {
	*backend
	pricing  policies.PricingPort
	uploader policies.PhotoUploader
	currency string
	clock    support.Clock
	logger   *slog.Logger
}

func newCommandBus(d busDeps) commands.Bus {
	bus := commands.NewInMemoryBus()
	events := support.Events{Outbox: d.outbox, Encoder: outbox.JSONEventEncoder{}}

	commands.Register[hostsapp.CreateHostCommand, *dto.Host](bus, &hostsapp.CreateHostHandler{
		Users: d.users, Currency: d.currency, Events: events, Clock: d.clock, Logger: d.logger,
	})
	commands.Register[hostsapp.UpdateHostCommand, *dto.Host](bus, &hostsapp.UpdateHostHandler{
		Currency: d.currency, Events: events, Clock: d.clock, Logger: d.logger,
	})
	commands.Register[hostsapp.DeleteHostCommand, *hostsapp.DeleteHostResult](bus, &hostsapp.DeleteHostHandler{
		Events: events, Clock: d.clock, Logger: d.logger,
	})
	commands.Register[hostsapp.AddHostPhotoCommand, *dto.Host](bus, &hostsapp.AddHostPhotoHandler{
		Uploader: d.uploader, Clock: d.clock, Logger: d.logger,
	})
	commands.Register[hostsapp.RemoveHostPhotoCommand, *dto.Host](bus, &hostsapp.RemoveHostPhotoHandler{Clock: d.clock, Logger: d.logger})
	commands.Register[hostsapp.SetPrimaryPhotoCommand, *dto.Host](bus, &hostsapp.SetPrimaryPhotoHandler{Clock: d.clock, Logger: d.logger})

	commands.Register[availabilityapp.CreateBlockCommand, *dto.AvailabilityBlock](bus, &availabilityapp.CreateBlockHandler{
		Events: events, Clock: d.clock, Logger: d.logger,
	})
	commands.Register[availabilityapp.DeleteBlockCommand, *dto.AvailabilityBlock](bus, &availabilityapp.DeleteBlockHandler{
		Events: events, Clock: d.clock, Logger: d.logger,
	})

	commands.Register[bookingapp.CreateBookingCommand, *dto.Booking](bus, &bookingapp.CreateBookingHandler{
		Users: d.users, Pets: d.pets, Pricing: d.pricing, Events: events, Clock: d.clock, Logger: d.logger,
	})
	commands.Register[bookingapp.UpdateBookingCommand, *dto.Booking](bus, &bookingapp.UpdateBookingHandler{
		Pricing: d.pricing, Events: events, Clock: d.clock, Logger: d.logger,
	})
	commands.Register[bookingapp.RespondBookingCommand, *dto.Booking](bus, &bookingapp.RespondBookingHandler{
		Events: events, Clock: d.clock, Logger: d.logger,
	})
	lifecycle := &bookingapp.LifecycleHandler{Events: events, Clock: d.clock, Logger: d.logger}
	commands.Register[bookingapp.ConfirmBookingCommand, *dto.Booking](bus, bookingapp.ConfirmBookingHandler{LifecycleHandler: lifecycle})
	commands.Register[bookingapp.StartBookingCommand, *dto.Booking](bus, bookingapp.StartBookingHandler{LifecycleHandler: lifecycle})
	commands.Register[bookingapp.CompleteBookingCommand, *dto.Booking](bus, bookingapp.CompleteBookingHandler{LifecycleHandler: lifecycle})
	commands.Register[bookingapp.CancelBookingCommand, *dto.Booking](bus, bookingapp.CancelBookingHandler{LifecycleHandler: lifecycle})

	commands.Register[reviewsapp.SubmitReviewCommand, *dto.Review](bus, &reviewsapp.SubmitReviewHandler{
		Events: events, Clock: d.clock, Logger: d.logger,
	})
	commands.Register[reviewsapp.UpdateReviewCommand, *dto.Review](bus, &reviewsapp.UpdateReviewHandler{
		Events: events, Clock: d.clock, Logger: d.logger,
	})
	commands.Register[reviewsapp.RespondReviewCommand, *dto.Review](bus, &reviewsapp.RespondReviewHandler{Clock: d.clock, Logger: d.logger})
	commands.Register[reviewsapp.ModerateReviewCommand, *dto.Review](bus, &reviewsapp.ModerateReviewHandler{
		Events: events, Clock: d.clock, Logger: d.logger,
	})

	return middleware.ChainCommands(
		bus,
		middleware.Validation(validation.New()),
		middleware.Authorization(middleware.RequireActor),
		middleware.Idempotency(d.idempotency, nil),
		middleware.Locking(d.locker, support.LockKeys(d.factory)),
		middleware.Transaction(d.factory, nil, d.logger),
		middleware.OutboxFlush(d.outbox),
	)
}

func newQueryBus(d busDeps) queries.Bus {
	bus := queries.NewInMemoryBus()
	queries.Register[hostsapp.GetHostQuery, dto.Host](bus, &hostsapp.GetHostHandler{UoWFactory: d.factory, Logger: d.logger})
	queries.Register[hostsapp.SearchHostsQuery, dto.HostCollection](bus, &hostsapp.SearchHostsHandler{UoWFactory: d.factory, Logger: d.logger})
	queries.Register[availabilityapp.GetAvailabilityQuery, dto.HostAvailability](bus, &availabilityapp.GetAvailabilityHandler{UoWFactory: d.factory, Logger: d.logger})
	queries.Register[bookingapp.GetBookingQuery, dto.Booking](bus, &bookingapp.GetBookingHandler{UoWFactory: d.factory, Clock: d.clock, Logger: d.logger})
	queries.Register[bookingapp.ListBookingsQuery, dto.BookingCollection](bus, &bookingapp.ListBookingsHandler{UoWFactory: d.factory, Clock: d.clock, Logger: d.logger})
	queries.Register[reviewsapp.ListHostReviewsQuery, dto.ReviewCollection](bus, &reviewsapp.ListHostReviewsHandler{UoWFactory: d.factory, Logger: d.logger})
	return middleware.ChainQueries(bus, middleware.QueryValidation(validation.New()))
}
