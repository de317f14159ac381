package booking

import (
	"time"

	"pethost/internal/domain/hosts"
	"pethost/internal/domain/shared/daterange"
	"pethost/internal/domain/shared/money"
)

type BookingRequested struct {
	BookingID BookingID
	HostID    hosts.HostID
	PetID     string
	OwnerID   string
	Range     daterange.DateRange
	Total     money.Money
	At        time.Time
}

func (e BookingRequested) EventName() string     { return "booking.requested" }
func (e BookingRequested) AggregateID() string   { return string(e.BookingID) }
func (e BookingRequested) OccurredAt() time.Time { return e.At }

type BookingApproved struct {
	BookingID BookingID
	HostID    hosts.HostID
	At        time.Time
}

func (e BookingApproved) EventName() string     { return "booking.approved" }
func (e BookingApproved) AggregateID() string   { return string(e.BookingID) }
func (e BookingApproved) OccurredAt() time.Time { return e.At }

type BookingRejected struct {
	BookingID BookingID
	HostID    hosts.HostID
	Reason    string
	At        time.Time
}

func (e BookingRejected) EventName() string     { return "booking.rejected" }
func (e BookingRejected) AggregateID() string   { return string(e.BookingID) }
func (e BookingRejected) OccurredAt() time.Time { return e.At }

type BookingConfirmed struct {
	BookingID     BookingID
	HostID        hosts.HostID
	Total         money.Money
	PaymentStatus PaymentStatus
	At            time.Time
}

func (e BookingConfirmed) EventName() string     { return "booking.confirmed" }
func (e BookingConfirmed) AggregateID() string   { return string(e.BookingID) }
func (e BookingConfirmed) OccurredAt() time.Time { return e.At }

type BookingStarted struct {
	BookingID BookingID
	HostID    hosts.HostID
	At        time.Time
}

func (e BookingStarted) EventName() string     { return "booking.started" }
func (e BookingStarted) AggregateID() string   { return string(e.BookingID) }
func (e BookingStarted) OccurredAt() time.Time { return e.At }

type BookingCompleted struct {
	BookingID BookingID
	HostID    hosts.HostID
	At        time.Time
}

func (e BookingCompleted) EventName() string     { return "booking.completed" }
func (e BookingCompleted) AggregateID() string   { return string(e.BookingID) }
func (e BookingCompleted) OccurredAt() time.Time { return e.At }

type BookingCancelled struct {
	BookingID   BookingID
	HostID      hosts.HostID
	CancelledBy string
	At          time.Time
}

func (e BookingCancelled) EventName() string     { return "booking.cancelled" }
func (e BookingCancelled) AggregateID() string   { return string(e.BookingID) }
func (e BookingCancelled) OccurredAt() time.Time { return e.At }

type BookingRescheduled struct {
	BookingID BookingID
	HostID    hosts.HostID
	Range     daterange.DateRange
	Total     money.Money
	At        time.Time
}

func (e BookingRescheduled) EventName() string     { return "booking.rescheduled" }
func (e BookingRescheduled) AggregateID() string   { return string(e.BookingID) }
func (e BookingRescheduled) OccurredAt() time.Time { return e.At }
