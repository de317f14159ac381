package policies

import (
	"context"

	domainpricing "pethost/internal/domain/pricing"
	"pethost/internal/domain/shared/errs"
)

var (
	ErrUserNotFound = errs.New(errs.NotFound, "directory: user not found")
	ErrPetNotFound  = errs.New(errs.NotFound, "directory: pet not found")
	ErrPetNotOwned  = errs.New(errs.Forbidden, "directory: pet does not belong to caller")
)

type User struct {
	ID       string
	Verified bool
	Active   bool
}

// UserDirectory resolves users owned by the identity service. Read-only.
type UserDirectory interface {
	User(ctx context.Context, id string) (User, error)
}

type Pet struct {
	ID              string
	OwnerID         string
	Name            string
	Size            domainpricing.PetSize
	Active          bool
	BehavioralNotes string
}

// PetRegistry resolves pet records. Read-only.
type PetRegistry interface {
	Pet(ctx context.Context, id string) (Pet, error)
}
