package memory

import (
	"context"
	"errors"

	appoutbox "pethost/internal/app/outbox"
	"pethost/internal/app/uow"
	domainavailability "pethost/internal/domain/availability"
	domainbooking "pethost/internal/domain/booking"
	domainhosts "pethost/internal/domain/hosts"
	domainreviews "pethost/internal/domain/reviews"
)

var (
	ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")
	ErrUnitClosed           = errors.New("memory: unit of work already finished")
	ErrReadOnlyUnit         = errors.New("memory: write in read-only unit of work")
)

// Factory opens units over a shared Store.
type Factory struct {
	Store *Store
}

func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.Store == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{
		store:    f.Store,
		readOnly: opts.ReadOnly,
		hosts:    newStaged[domainhosts.HostID, *domainhosts.Host](),
		bookings: newStaged[domainbooking.BookingID, *domainbooking.Booking](),
		reviews:  newStaged[domainreviews.ReviewID, *domainreviews.Review](),
		blocks:   newStaged[domainavailability.BlockID, *domainavailability.Block](),
	}, nil
}

// Unit buffers writes and applies them to the Store on Commit. Hosts and
// bookings are checked against the version they were read at.
type Unit struct {
	store    *Store
	readOnly bool
	done     bool

	hosts    *staged[domainhosts.HostID, *domainhosts.Host]
	bookings *staged[domainbooking.BookingID, *domainbooking.Booking]
	reviews  *staged[domainreviews.ReviewID, *domainreviews.Review]
	blocks   *staged[domainavailability.BlockID, *domainavailability.Block]
	events   []appoutbox.EventRecord
}

func (u *Unit) Hosts() domainhosts.Repository               { return hostRepository{u} }
func (u *Unit) Bookings() domainbooking.Repository          { return bookingRepository{u} }
func (u *Unit) Reviews() domainreviews.Repository           { return reviewRepository{u} }
func (u *Unit) Availability() domainavailability.Repository { return blockRepository{u} }

func (u *Unit) Commit(ctx context.Context) error {
	if u.done {
		return ErrUnitClosed
	}
	u.done = true
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, base := range u.hosts.base {
		if current, ok := s.hosts[id]; ok && current.Version != base {
			return domainhosts.ErrConcurrentUpdate
		}
	}
	if err := u.checkHostOwners(); err != nil {
		return err
	}
	for id, base := range u.bookings.base {
		if current, ok := s.bookings[id]; ok && current.Version != base {
			return domainbooking.ErrConcurrentUpdate
		}
	}
	u.hosts.apply(s.hosts)
	u.bookings.apply(s.bookings)
	u.reviews.apply(s.reviews)
	u.blocks.apply(s.blocks)
	s.events = append(s.events, u.events...)
	return nil
}

// checkHostOwners keeps one host profile per user, like the unique user_id
// index in Mongo. Caller holds the store lock.
func (u *Unit) checkHostOwners() error {
	for id, staged := range u.hosts.writes {
		for otherID, current := range u.store.hosts {
			if otherID == id || current.UserID != staged.UserID {
				continue
			}
			if _, removed := u.hosts.deletes[otherID]; removed {
				continue
			}
			return domainhosts.ErrDuplicateHost
		}
	}
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	u.done = true
	return nil
}

func (u *Unit) writable() error {
	switch {
	case u.done:
		return ErrUnitClosed
	case u.readOnly:
		return ErrReadOnlyUnit
	}
	return nil
}

// staged holds the writes of one unit for a single table.
type staged[K comparable, V any] struct {
	writes  map[K]V
	deletes map[K]struct{}
	base    map[K]int64
}

func newStaged[K comparable, V any]() *staged[K, V] {
	return &staged[K, V]{
		writes:  make(map[K]V),
		deletes: make(map[K]struct{}),
		base:    make(map[K]int64),
	}
}

func (t *staged[K, V]) put(id K, v V) {
	delete(t.deletes, id)
	t.writes[id] = v
}

func (t *staged[K, V]) remove(id K) {
	delete(t.writes, id)
	t.deletes[id] = struct{}{}
}

// lookup reports the staged value, or deleted when the unit removed id.
func (t *staged[K, V]) lookup(id K) (v V, found, deleted bool) {
	if _, gone := t.deletes[id]; gone {
		return v, false, true
	}
	v, found = t.writes[id]
	return v, found, false
}

func (t *staged[K, V]) apply(dst map[K]V) {
	for id := range t.deletes {
		delete(dst, id)
	}
	for id, v := range t.writes {
		dst[id] = v
	}
}

var (
	_ uow.UoWFactory   = Factory{}
	_ uow.UnitOfWork   = (*Unit)(nil)
	_ appoutbox.Outbox = (*Outbox)(nil)
)
