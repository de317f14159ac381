package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pethost/internal/app/middleware"
	appoutbox "pethost/internal/app/outbox"
	"pethost/internal/app/policies"
	"pethost/internal/app/uow"
	domainbooking "pethost/internal/domain/booking"
	domainhosts "pethost/internal/domain/hosts"
	"pethost/internal/domain/shared/daterange"
)

var testNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func seedBooking(t *testing.T, f Factory) {
	t.Helper()
	ctx := context.Background()
	unit, err := f.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	b := &domainbooking.Booking{
		ID:        "b-1",
		HostID:    "h-1",
		PetID:     "pet-1",
		Status:    domainbooking.StatusPendingApproval,
		Range:     daterange.DateRange{CheckIn: testNow, CheckOut: testNow.AddDate(0, 0, 3)},
		CreatedAt: testNow,
	}
	require.NoError(t, unit.Bookings().Save(ctx, b))
	require.NoError(t, unit.Commit(ctx))
}

func TestUnit_CommitPublishesWrites(t *testing.T) {
	ctx := context.Background()
	f := Factory{Store: NewStore()}
	seedBooking(t, f)

	reader, err := f.Begin(ctx, uow.TxOptions{ReadOnly: true})
	require.NoError(t, err)
	b, err := reader.Bookings().ByID(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), b.Version)

	assert.ErrorIs(t, reader.Bookings().Save(ctx, b), ErrReadOnlyUnit)
}

func TestUnit_RollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	f := Factory{Store: NewStore()}

	unit, err := f.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	host := &domainhosts.Host{ID: "h-1", UserID: "u-1", Active: true}
	require.NoError(t, unit.Hosts().Save(ctx, host))

	_, err = unit.Hosts().ByID(ctx, "h-1")
	require.NoError(t, err, "a unit reads its own writes")

	require.NoError(t, unit.Rollback(ctx))
	assert.ErrorIs(t, unit.Commit(ctx), ErrUnitClosed)

	fresh, err := f.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	_, err = fresh.Hosts().ByID(ctx, "h-1")
	assert.ErrorIs(t, err, domainhosts.ErrHostNotFound)
}

func TestUnit_VersionConflictOnCommit(t *testing.T) {
	ctx := context.Background()
	f := Factory{Store: NewStore()}
	seedBooking(t, f)

	first, err := f.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	second, err := f.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)

	a, err := first.Bookings().ByID(ctx, "b-1")
	require.NoError(t, err)
	b, err := second.Bookings().ByID(ctx, "b-1")
	require.NoError(t, err)

	require.NoError(t, a.Approve(testNow))
	require.NoError(t, first.Bookings().Save(ctx, a))
	require.NoError(t, b.Cancel("owner-1", testNow))
	require.NoError(t, second.Bookings().Save(ctx, b))

	require.NoError(t, first.Commit(ctx))
	err = second.Commit(ctx)
	assert.ErrorIs(t, err, domainbooking.ErrConcurrentUpdate)

	check, err := f.Begin(ctx, uow.TxOptions{ReadOnly: true})
	require.NoError(t, err)
	stored, err := check.Bookings().ByID(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusApproved, stored.Status)
}

func TestUnit_StaleSaveRejected(t *testing.T) {
	ctx := context.Background()
	f := Factory{Store: NewStore()}
	seedBooking(t, f)

	unit, err := f.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	stale, err := unit.Bookings().ByID(ctx, "b-1")
	require.NoError(t, err)
	stale.Version = 0

	assert.ErrorIs(t, unit.Bookings().Save(ctx, stale), domainbooking.ErrConcurrentUpdate)
}

func TestUnit_OneHostPerUserOnCommit(t *testing.T) {
	ctx := context.Background()
	f := Factory{Store: NewStore()}

	first, err := f.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	second, err := f.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	for _, unit := range []uow.UnitOfWork{first, second} {
		_, err := unit.Hosts().ByUser(ctx, "u-1")
		require.ErrorIs(t, err, domainhosts.ErrHostNotFound)
	}
	require.NoError(t, first.Hosts().Save(ctx, &domainhosts.Host{ID: "h-1", UserID: "u-1", Active: true}))
	require.NoError(t, second.Hosts().Save(ctx, &domainhosts.Host{ID: "h-2", UserID: "u-1", Active: true}))

	require.NoError(t, first.Commit(ctx))
	err = second.Commit(ctx)
	assert.ErrorIs(t, err, domainhosts.ErrDuplicateHost)

	reader, err := f.Begin(ctx, uow.TxOptions{ReadOnly: true})
	require.NoError(t, err)
	_, err = reader.Hosts().ByID(ctx, "h-2")
	assert.ErrorIs(t, err, domainhosts.ErrHostNotFound)
	owned, err := reader.Hosts().ByUser(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, domainhosts.HostID("h-1"), owned.ID)
}

func TestUnit_ReplacingHostInOneUnit(t *testing.T) {
	ctx := context.Background()
	f := Factory{Store: NewStore()}

	seed, err := f.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	require.NoError(t, seed.Hosts().Save(ctx, &domainhosts.Host{ID: "h-1", UserID: "u-1", Active: true}))
	require.NoError(t, seed.Commit(ctx))

	unit, err := f.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	require.NoError(t, unit.Hosts().Delete(ctx, "h-1"))
	require.NoError(t, unit.Hosts().Save(ctx, &domainhosts.Host{ID: "h-2", UserID: "u-1", Active: true}))
	assert.NoError(t, unit.Commit(ctx))
}

func TestUnit_ListMergesStagedWrites(t *testing.T) {
	ctx := context.Background()
	f := Factory{Store: NewStore()}
	seedBooking(t, f)

	unit, err := f.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	second := &domainbooking.Booking{ID: "b-2", HostID: "h-1", PetID: "pet-2", Status: domainbooking.StatusConfirmed, CreatedAt: testNow.Add(time.Hour)}
	require.NoError(t, unit.Bookings().Save(ctx, second))

	all, err := unit.Bookings().List(ctx, domainbooking.Filter{HostID: "h-1"})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, domainbooking.BookingID("b-1"), all[0].ID)

	confirmed, err := unit.Bookings().List(ctx, domainbooking.Filter{Statuses: domainbooking.CapacityStatuses})
	require.NoError(t, err)
	require.Len(t, confirmed, 1)
	assert.Equal(t, domainbooking.BookingID("b-2"), confirmed[0].ID)
}

func TestOutbox_RecordsReachStoreOnCommit(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	f := Factory{Store: store}
	box := NewOutbox(nil)

	unit, err := f.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	execCtx := uow.Bind(ctx, unit)
	require.NoError(t, box.Add(execCtx, appoutbox.EventRecord{ID: "e-1", Name: "booking.requested"}))
	assert.Empty(t, store.Events())

	require.NoError(t, unit.Commit(execCtx))
	require.Len(t, store.Events(), 1)
	assert.Equal(t, "booking.requested", store.Events()[0].Name)

	assert.ErrorIs(t, box.Add(context.Background(), appoutbox.EventRecord{}), uow.ErrUnitOfWorkMissing)
}

func TestLocker_SerializesAndTimesOut(t *testing.T) {
	l := NewLocker(50 * time.Millisecond)
	ctx := context.Background()

	release, err := l.Acquire(ctx, "pet:1", "host:1", "host:1")
	require.NoError(t, err)

	_, err = l.Acquire(ctx, "host:1")
	assert.ErrorIs(t, err, policies.ErrLockTimeout)

	l.Wait = 2 * time.Second
	var wg sync.WaitGroup
	wg.Add(1)
	var waitErr error
	go func() {
		defer wg.Done()
		next, err := l.Acquire(ctx, "pet:1")
		waitErr = err
		if err == nil {
			_ = next(ctx)
		}
	}()
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, release(ctx))
	require.NoError(t, release(ctx), "release is idempotent")
	wg.Wait()
	assert.NoError(t, waitErr)
}

func TestIdempotencyStore_ExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	s := NewIdempotencyStore(time.Hour)
	current := testNow
	s.now = func() time.Time { return current }

	require.NoError(t, s.Save(ctx, middleware.IdempotencyRecord{Key: "k", Command: "bookings.create", OccurredAt: testNow}))
	_, found, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)

	current = testNow.Add(2 * time.Hour)
	_, found, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}
