package memory

import (
	"context"
	"sort"

	domainavailability "pethost/internal/domain/availability"
	domainbooking "pethost/internal/domain/booking"
	domainhosts "pethost/internal/domain/hosts"
	domainreviews "pethost/internal/domain/reviews"
)

// Repositories read through the unit's staged writes to the Store and hand
// out clones, so callers never share aggregate memory.

type hostRepository struct{ u *Unit }

func (r hostRepository) ByID(ctx context.Context, id domainhosts.HostID) (*domainhosts.Host, error) {
	h, ok := r.get(id)
	if !ok {
		return nil, domainhosts.ErrHostNotFound
	}
	return h.Clone(), nil
}

func (r hostRepository) ByUser(ctx context.Context, userID string) (*domainhosts.Host, error) {
	for _, h := range r.all() {
		if h.UserID == userID {
			return h.Clone(), nil
		}
	}
	return nil, domainhosts.ErrHostNotFound
}

func (r hostRepository) Save(ctx context.Context, host *domainhosts.Host) error {
	if err := r.u.writable(); err != nil {
		return err
	}
	current, exists := r.get(host.ID)
	if exists && current.Version != host.Version {
		return domainhosts.ErrConcurrentUpdate
	}
	if _, tracked := r.u.hosts.base[host.ID]; !tracked {
		r.u.hosts.base[host.ID] = r.committedVersion(host.ID)
	}
	host.Version++
	r.u.hosts.put(host.ID, host.Clone())
	return nil
}

func (r hostRepository) Delete(ctx context.Context, id domainhosts.HostID) error {
	if err := r.u.writable(); err != nil {
		return err
	}
	if _, ok := r.get(id); !ok {
		return domainhosts.ErrHostNotFound
	}
	r.u.hosts.remove(id)
	return nil
}

// Search returns every matching host in sort order; paging is the caller's.
func (r hostRepository) Search(ctx context.Context, params domainhosts.SearchParams) ([]*domainhosts.Host, error) {
	out := make([]*domainhosts.Host, 0)
	for _, h := range r.all() {
		if params.Matches(h) {
			out = append(out, h.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if params.Less(out[i], out[j]) {
			return true
		}
		if params.Less(out[j], out[i]) {
			return false
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r hostRepository) get(id domainhosts.HostID) (*domainhosts.Host, bool) {
	if h, found, deleted := r.u.hosts.lookup(id); found || deleted {
		return h, found
	}
	r.u.store.mu.RLock()
	defer r.u.store.mu.RUnlock()
	h, ok := r.u.store.hosts[id]
	return h, ok
}

func (r hostRepository) committedVersion(id domainhosts.HostID) int64 {
	r.u.store.mu.RLock()
	defer r.u.store.mu.RUnlock()
	if h, ok := r.u.store.hosts[id]; ok {
		return h.Version
	}
	return 0
}

func (r hostRepository) all() []*domainhosts.Host {
	r.u.store.mu.RLock()
	merged := make(map[domainhosts.HostID]*domainhosts.Host, len(r.u.store.hosts))
	for id, h := range r.u.store.hosts {
		merged[id] = h
	}
	r.u.store.mu.RUnlock()
	r.u.hosts.apply(merged)
	out := make([]*domainhosts.Host, 0, len(merged))
	for _, h := range merged {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type bookingRepository struct{ u *Unit }

func (r bookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	if b, found, deleted := r.u.bookings.lookup(id); found || deleted {
		if !found {
			return nil, domainbooking.ErrBookingNotFound
		}
		return b.Clone(), nil
	}
	r.u.store.mu.RLock()
	defer r.u.store.mu.RUnlock()
	b, ok := r.u.store.bookings[id]
	if !ok {
		return nil, domainbooking.ErrBookingNotFound
	}
	return b.Clone(), nil
}

func (r bookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	if err := r.u.writable(); err != nil {
		return err
	}
	current, err := r.ByID(ctx, b.ID)
	if err == nil && current.Version != b.Version {
		return domainbooking.ErrConcurrentUpdate
	}
	if _, tracked := r.u.bookings.base[b.ID]; !tracked {
		r.u.store.mu.RLock()
		var base int64
		if committed, ok := r.u.store.bookings[b.ID]; ok {
			base = committed.Version
		}
		r.u.store.mu.RUnlock()
		r.u.bookings.base[b.ID] = base
	}
	b.Version++
	r.u.bookings.put(b.ID, b.Clone())
	return nil
}

// List returns the matching bookings ordered by creation time.
func (r bookingRepository) List(ctx context.Context, filter domainbooking.Filter) ([]*domainbooking.Booking, error) {
	r.u.store.mu.RLock()
	merged := make(map[domainbooking.BookingID]*domainbooking.Booking, len(r.u.store.bookings))
	for id, b := range r.u.store.bookings {
		merged[id] = b
	}
	r.u.store.mu.RUnlock()
	r.u.bookings.apply(merged)

	out := make([]*domainbooking.Booking, 0)
	for _, b := range merged {
		if filter.Matches(b) {
			out = append(out, b.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

type reviewRepository struct{ u *Unit }

func (r reviewRepository) ByID(ctx context.Context, id domainreviews.ReviewID) (*domainreviews.Review, error) {
	for _, review := range r.all() {
		if review.ID == id {
			return review.Clone(), nil
		}
	}
	return nil, domainreviews.ErrNotFound
}

func (r reviewRepository) ByBooking(ctx context.Context, bookingID domainbooking.BookingID) (*domainreviews.Review, error) {
	for _, review := range r.all() {
		if review.BookingID == bookingID {
			return review.Clone(), nil
		}
	}
	return nil, domainreviews.ErrNotFound
}

func (r reviewRepository) ListByHost(ctx context.Context, hostID domainhosts.HostID) ([]*domainreviews.Review, error) {
	out := make([]*domainreviews.Review, 0)
	for _, review := range r.all() {
		if review.HostID == hostID {
			out = append(out, review.Clone())
		}
	}
	return out, nil
}

func (r reviewRepository) Save(ctx context.Context, review *domainreviews.Review) error {
	if err := r.u.writable(); err != nil {
		return err
	}
	for _, existing := range r.all() {
		if existing.BookingID == review.BookingID && existing.ID != review.ID {
			return domainreviews.ErrDuplicate
		}
	}
	r.u.reviews.put(review.ID, review.Clone())
	return nil
}

func (r reviewRepository) all() []*domainreviews.Review {
	r.u.store.mu.RLock()
	merged := make(map[domainreviews.ReviewID]*domainreviews.Review, len(r.u.store.reviews))
	for id, review := range r.u.store.reviews {
		merged[id] = review
	}
	r.u.store.mu.RUnlock()
	r.u.reviews.apply(merged)
	out := make([]*domainreviews.Review, 0, len(merged))
	for _, review := range merged {
		out = append(out, review)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

type blockRepository struct{ u *Unit }

func (r blockRepository) ByID(ctx context.Context, id domainavailability.BlockID) (*domainavailability.Block, error) {
	for _, b := range r.all() {
		if b.ID == id {
			return b.Clone(), nil
		}
	}
	return nil, domainavailability.ErrBlockNotFound
}

// ListByHost returns the host's blocks ordered by start date.
func (r blockRepository) ListByHost(ctx context.Context, hostID domainhosts.HostID) ([]*domainavailability.Block, error) {
	out := make([]*domainavailability.Block, 0)
	for _, b := range r.all() {
		if b.HostID == hostID {
			out = append(out, b.Clone())
		}
	}
	return out, nil
}

func (r blockRepository) Save(ctx context.Context, block *domainavailability.Block) error {
	if err := r.u.writable(); err != nil {
		return err
	}
	r.u.blocks.put(block.ID, block.Clone())
	return nil
}

func (r blockRepository) Delete(ctx context.Context, id domainavailability.BlockID) error {
	if err := r.u.writable(); err != nil {
		return err
	}
	if _, err := r.ByID(ctx, id); err != nil {
		return err
	}
	r.u.blocks.remove(id)
	return nil
}

func (r blockRepository) all() []*domainavailability.Block {
	r.u.store.mu.RLock()
	merged := make(map[domainavailability.BlockID]*domainavailability.Block, len(r.u.store.blocks))
	for id, b := range r.u.store.blocks {
		merged[id] = b
	}
	r.u.store.mu.RUnlock()
	r.u.blocks.apply(merged)
	out := make([]*domainavailability.Block, 0, len(merged))
	for _, b := range merged {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Range.CheckIn.Equal(out[j].Range.CheckIn) {
			return out[i].ID < out[j].ID
		}
		return out[i].Range.CheckIn.Before(out[j].Range.CheckIn)
	})
	return out
}

var (
	_ domainhosts.Repository        = hostRepository{}
	_ domainbooking.Repository      = bookingRepository{}
	_ domainreviews.Repository      = reviewRepository{}
	_ domainavailability.Repository = blockRepository{}
)
