package policies

import (
	"context"

	"pethost/internal/domain/shared/errs"
)

var ErrLockTimeout = errs.New(errs.Conflict, "locks: resource is busy, try again")

// Release frees locks taken by Locker.Acquire.
type Release func(ctx context.Context) error

// Locker serializes writers on named resources across processes.
// Implementations acquire keys in sorted order and release all of them on failure.
type Locker interface {
	Acquire(ctx context.Context, keys ...string) (Release, error)
}

func HostLockKey(hostID string) string { return "host:" + hostID }

func PetLockKey(petID string) string { return "pet:" + petID }

func UserLockKey(userID string) string { return "user:" + userID }
