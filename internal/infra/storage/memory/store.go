package memory

import (
	"sync"

	appoutbox "pethost/internal/app/outbox"
	domainavailability "pethost/internal/domain/availability"
	domainbooking "pethost/internal/domain/booking"
	domainhosts "pethost/internal/domain/hosts"
	domainreviews "pethost/internal/domain/reviews"
)

// Store is the committed state shared by every unit of work.
type Store struct {
	mu       sync.RWMutex
	hosts    map[domainhosts.HostID]*domainhosts.Host
	bookings map[domainbooking.BookingID]*domainbooking.Booking
	reviews  map[domainreviews.ReviewID]*domainreviews.Review
	blocks   map[domainavailability.BlockID]*domainavailability.Block
	events   []appoutbox.EventRecord
}

func NewStore() *Store {
	return &Store{
		hosts:    make(map[domainhosts.HostID]*domainhosts.Host),
		bookings: make(map[domainbooking.BookingID]*domainbooking.Booking),
		reviews:  make(map[domainreviews.ReviewID]*domainreviews.Review),
		blocks:   make(map[domainavailability.BlockID]*domainavailability.Block),
	}
}

// Events returns a copy of every committed outbox record.
func (s *Store) Events() []appoutbox.EventRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]appoutbox.EventRecord(nil), s.events...)
}
