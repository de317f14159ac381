package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pethost/internal/app/commands"
	"pethost/internal/app/outbox"
	"pethost/internal/app/policies"
	"pethost/internal/app/uow"
	domainavailability "pethost/internal/domain/availability"
	domainbooking "pethost/internal/domain/booking"
	domainhosts "pethost/internal/domain/hosts"
	domainreviews "pethost/internal/domain/reviews"
)

// --- Mock UnitOfWork ---

type mockUnit struct {
	committed   bool
	rolledBack  bool
	commitErr   error
	rollbackErr error
	rollbackCtx context.Context
}

func (u *mockUnit) Hosts() domainhosts.Repository               { return nil }
func (u *mockUnit) Bookings() domainbooking.Repository          { return nil }
func (u *mockUnit) Reviews() domainreviews.Repository           { return nil }
func (u *mockUnit) Availability() domainavailability.Repository { return nil }

func (u *mockUnit) Commit(context.Context) error {
	if u.commitErr != nil {
		return u.commitErr
	}
	u.committed = true
	return nil
}

func (u *mockUnit) Rollback(ctx context.Context) error {
	u.rolledBack = true
	u.rollbackCtx = ctx
	return u.rollbackErr
}

type mockFactory struct{ unit *mockUnit }

func (f *mockFactory) Begin(context.Context, uow.TxOptions) (uow.UnitOfWork, error) {
	return f.unit, nil
}

// --- Mock Locker ---

type mockLocker struct {
	acquired []string
	released int
	err      error
}

func (l *mockLocker) Acquire(_ context.Context, keys ...string) (policies.Release, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.acquired = append(l.acquired, keys...)
	return func(context.Context) error {
		l.released++
		return nil
	}, nil
}

// --- Mock Outbox ---

type mockOutbox struct {
	flushed int
	err     error
}

func (o *mockOutbox) Add(context.Context, outbox.EventRecord) error { return nil }

func (o *mockOutbox) Flush(context.Context) error {
	o.flushed++
	return o.err
}

func TestTransaction_CommitsOnSuccess(t *testing.T) {
	unit := &mockUnit{}
	var seen uow.UnitOfWork
	base := commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
		seen, _ = uow.FromContext(ctx)
		return "ok", nil
	})

	res, err := ChainCommands(base, Transaction(&mockFactory{unit: unit}, nil, nil)).Dispatch(context.Background(), reserveCommand{})
	require.NoError(t, err)
	assert.Equal(t, "ok", res)
	assert.Same(t, unit, seen)
	assert.True(t, unit.committed)
	assert.False(t, unit.rolledBack)
}

func TestTransaction_RollsBackOnError(t *testing.T) {
	unit := &mockUnit{}
	failure := errors.New("boom")
	base := commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
		return nil, failure
	})

	_, err := ChainCommands(base, Transaction(&mockFactory{unit: unit}, nil, nil)).Dispatch(context.Background(), reserveCommand{})
	assert.ErrorIs(t, err, failure)
	assert.False(t, unit.committed)
	assert.True(t, unit.rolledBack)
}

func TestTransaction_RollsBackWhenCommitFails(t *testing.T) {
	conflict := domainbooking.ErrConcurrentUpdate
	unit := &mockUnit{commitErr: conflict}
	base := commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
		return "ok", nil
	})

	_, err := ChainCommands(base, Transaction(&mockFactory{unit: unit}, nil, nil)).Dispatch(context.Background(), reserveCommand{})
	assert.ErrorIs(t, err, conflict)
	assert.True(t, unit.rolledBack)
}

func TestTransaction_LogsFailedRollback(t *testing.T) {
	failure := errors.New("boom")
	unit := &mockUnit{rollbackErr: errors.New("session expired")}
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	base := commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
		return nil, failure
	})

	_, err := ChainCommands(base, Transaction(&mockFactory{unit: unit}, nil, logger)).Dispatch(context.Background(), reserveCommand{})
	assert.ErrorIs(t, err, failure)
	assert.True(t, unit.rolledBack)
	assert.Contains(t, buf.String(), "rollback failed")
	assert.Contains(t, buf.String(), "session expired")
}

func TestTransaction_RollbackSurvivesCancelledContext(t *testing.T) {
	unit := &mockUnit{}
	ctx, cancel := context.WithCancel(context.Background())
	base := commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
		cancel()
		return nil, ctx.Err()
	})

	_, err := ChainCommands(base, Transaction(&mockFactory{unit: unit}, nil, nil)).Dispatch(ctx, reserveCommand{})
	assert.ErrorIs(t, err, context.Canceled)
	require.True(t, unit.rolledBack)
	assert.NoError(t, unit.rollbackCtx.Err())
}

func TestLocking_HoldsKeysAroundDispatch(t *testing.T) {
	locker := &mockLocker{}
	resolve := func(ctx context.Context, cmd commands.Command) ([]string, error) {
		return []string{policies.HostLockKey("h-1"), policies.PetLockKey("pet-1")}, nil
	}
	releasedDuring := -1
	base := commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
		releasedDuring = locker.released
		return nil, nil
	})

	_, err := ChainCommands(base, Locking(locker, resolve)).Dispatch(context.Background(), reserveCommand{})
	require.NoError(t, err)
	assert.Equal(t, []string{"host:h-1", "pet:pet-1"}, locker.acquired)
	assert.Equal(t, 0, releasedDuring)
	assert.Equal(t, 1, locker.released)
}

func TestLocking_BusyLockSkipsHandler(t *testing.T) {
	locker := &mockLocker{err: policies.ErrLockTimeout}
	resolve := func(ctx context.Context, cmd commands.Command) ([]string, error) {
		return []string{"host:h-1"}, nil
	}
	calls := 0

	_, err := ChainCommands(countingBus(&calls, nil), Locking(locker, resolve)).Dispatch(context.Background(), reserveCommand{})
	assert.ErrorIs(t, err, policies.ErrLockTimeout)
	assert.Zero(t, calls)
}

func TestOutboxFlush_OnlyAfterSuccess(t *testing.T) {
	box := &mockOutbox{}
	calls := 0

	_, err := ChainCommands(countingBus(&calls, nil), OutboxFlush(box)).Dispatch(context.Background(), reserveCommand{})
	require.NoError(t, err)
	assert.Equal(t, 1, box.flushed)

	_, err = ChainCommands(countingBus(&calls, errors.New("boom")), OutboxFlush(box)).Dispatch(context.Background(), reserveCommand{})
	assert.Error(t, err)
	assert.Equal(t, 1, box.flushed)
}

func TestOutboxFlush_FailureNamesCommand(t *testing.T) {
	unavailable := errors.New("broker unavailable")
	box := &mockOutbox{err: unavailable}
	calls := 0

	_, err := ChainCommands(countingBus(&calls, nil), OutboxFlush(box)).Dispatch(context.Background(), reserveCommand{})
	require.Error(t, err)
	assert.ErrorIs(t, err, unavailable)
	assert.Contains(t, err.Error(), reserveCommand{}.Key())
}

func TestOutboxFlush_FailureRollsBackUnit(t *testing.T) {
	unit := &mockUnit{}
	box := &mockOutbox{err: errors.New("broker unavailable")}
	calls := 0
	bus := ChainCommands(countingBus(&calls, nil), Transaction(&mockFactory{unit: unit}, nil, nil), OutboxFlush(box))

	_, err := bus.Dispatch(context.Background(), reserveCommand{})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.False(t, unit.committed)
	assert.True(t, unit.rolledBack)
}
