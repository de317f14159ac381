package booking

import (
	"context"
	"strings"
	"time"

	"pethost/internal/domain/hosts"
	"pethost/internal/domain/pricing"
	"pethost/internal/domain/shared/daterange"
	"pethost/internal/domain/shared/errs"
	"pethost/internal/domain/shared/events"
)

var (
	ErrInvalidState     = errs.New(errs.InvalidState, "booking: invalid state transition")
	ErrRejectionReason  = errs.New(errs.InvalidState, "booking: rejection reason is required")
	ErrNotEditable      = errs.New(errs.InvalidState, "booking: only pending or approved bookings can be edited")
	ErrBookingNotFound  = errs.New(errs.NotFound, "booking: not found")
	ErrCheckInInPast    = errs.New(errs.Validation, "booking: check-in date is in the past")
	ErrUnknownStatus    = errs.New(errs.Validation, "booking: unknown status")
	ErrOwnerRequired    = errs.New(errs.Validation, "booking: owner id is required")
	ErrPetRequired      = errs.New(errs.Validation, "booking: pet id is required")
	ErrConcurrentUpdate = errs.New(errs.Conflict, "booking: concurrent update detected")
)

type BookingID string

type Booking struct {
	ID               BookingID
	HostID           hosts.HostID
	PetID            string
	OwnerID          string
	Range            daterange.DateRange
	PetSize          pricing.PetSize
	AddOns           []string
	Price            pricing.Breakdown
	Status           Status
	PaymentStatus    PaymentStatus
	ApprovedAt       *time.Time
	RejectedAt       *time.Time
	RejectionReason  string
	CareInstructions string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Version          int64
	events.EventRecorder
}

// Filter narrows booking listings. Zero fields are ignored.
type Filter struct {
	HostID   hosts.HostID
	OwnerID  string
	PetID    string
	Statuses []Status
	Overlaps *daterange.DateRange
	Exclude  BookingID
}

func (f Filter) Matches(b *Booking) bool {
	if f.HostID != "" && b.HostID != f.HostID {
		return false
	}
	if f.OwnerID != "" && b.OwnerID != f.OwnerID {
		return false
	}
	if f.PetID != "" && b.PetID != f.PetID {
		return false
	}
	if len(f.Statuses) > 0 && !b.Status.In(f.Statuses) {
		return false
	}
	if f.Overlaps != nil && !b.Range.Overlaps(*f.Overlaps) {
		return false
	}
	if f.Exclude != "" && b.ID == f.Exclude {
		return false
	}
	return true
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Save(ctx context.Context, booking *Booking) error
	List(ctx context.Context, filter Filter) ([]*Booking, error)
}

type CreateParams struct {
	ID               BookingID
	HostID           hosts.HostID
	PetID            string
	OwnerID          string
	Range            daterange.DateRange
	PetSize          pricing.PetSize
	AddOns           []string
	Price            pricing.Breakdown
	CareInstructions string
	CreatedAt        time.Time
}

// ValidateDateRange rejects check-in dates before today.
func ValidateDateRange(dr daterange.DateRange, now time.Time) error {
	if err := dr.Validate(); err != nil {
		return err
	}
	if daterange.StartOfDay(dr.CheckIn).Before(daterange.StartOfDay(now)) {
		return ErrCheckInInPast
	}
	return nil
}

func NewBooking(params CreateParams) (*Booking, error) {
	if strings.TrimSpace(params.OwnerID) == "" {
		return nil, ErrOwnerRequired
	}
	if strings.TrimSpace(params.PetID) == "" {
		return nil, ErrPetRequired
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:               params.ID,
		HostID:           params.HostID,
		PetID:            params.PetID,
		OwnerID:          params.OwnerID,
		Range:            params.Range,
		PetSize:          params.PetSize,
		AddOns:           append([]string(nil), params.AddOns...),
		Price:            params.Price.Copy(),
		Status:           StatusPendingApproval,
		PaymentStatus:    PaymentPending,
		CareInstructions: strings.TrimSpace(params.CareInstructions),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	b.Record(BookingRequested{BookingID: b.ID, HostID: b.HostID, PetID: b.PetID, OwnerID: b.OwnerID, Range: b.Range, Total: b.Price.Total, At: now})
	return b, nil
}

func (b *Booking) transition(target Status, now time.Time) error {
	if !b.Status.CanTransitionTo(target) {
		return ErrInvalidState
	}
	b.Status = target
	b.UpdatedAt = now.UTC()
	return nil
}

func (b *Booking) Approve(now time.Time) error {
	if err := b.transition(StatusApproved, now); err != nil {
		return err
	}
	at := b.UpdatedAt
	b.ApprovedAt = &at
	b.RejectedAt = nil
	b.RejectionReason = ""
	b.Record(BookingApproved{BookingID: b.ID, HostID: b.HostID, At: at})
	return nil
}

func (b *Booking) Reject(reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrRejectionReason
	}
	if err := b.transition(StatusRejected, now); err != nil {
		return err
	}
	at := b.UpdatedAt
	b.RejectedAt = &at
	b.RejectionReason = reason
	b.ApprovedAt = nil
	b.Record(BookingRejected{BookingID: b.ID, HostID: b.HostID, Reason: reason, At: at})
	return nil
}

// Confirm is the owner's acceptance of an approved stay; payment is tracked as a flag only.
func (b *Booking) Confirm(now time.Time) error {
	if err := b.transition(StatusConfirmed, now); err != nil {
		return err
	}
	b.PaymentStatus = PaymentPaid
	b.Record(BookingConfirmed{BookingID: b.ID, HostID: b.HostID, Total: b.Price.Total, PaymentStatus: b.PaymentStatus, At: b.UpdatedAt})
	return nil
}

func (b *Booking) Start(now time.Time) error {
	if err := b.transition(StatusInProgress, now); err != nil {
		return err
	}
	b.Record(BookingStarted{BookingID: b.ID, HostID: b.HostID, At: b.UpdatedAt})
	return nil
}

func (b *Booking) Complete(now time.Time) error {
	if err := b.transition(StatusCompleted, now); err != nil {
		return err
	}
	b.Record(BookingCompleted{BookingID: b.ID, HostID: b.HostID, At: b.UpdatedAt})
	return nil
}

func (b *Booking) Cancel(by string, now time.Time) error {
	if err := b.transition(StatusCancelled, now); err != nil {
		return err
	}
	b.Record(BookingCancelled{BookingID: b.ID, HostID: b.HostID, CancelledBy: by, At: b.UpdatedAt})
	return nil
}

func (b *Booking) Editable() bool {
	return b.Status == StatusPendingApproval || b.Status == StatusApproved
}

// Reschedule moves the stay and stores the recomputed price.
func (b *Booking) Reschedule(dr daterange.DateRange, price pricing.Breakdown, now time.Time) error {
	if !b.Editable() {
		return ErrNotEditable
	}
	if err := dr.Validate(); err != nil {
		return err
	}
	b.Range = dr
	b.Price = price.Copy()
	b.UpdatedAt = now.UTC()
	b.Record(BookingRescheduled{BookingID: b.ID, HostID: b.HostID, Range: dr, Total: b.Price.Total, At: b.UpdatedAt})
	return nil
}

func (b *Booking) UpdateCareInstructions(text string, now time.Time) error {
	if !b.Editable() {
		return ErrNotEditable
	}
	b.CareInstructions = strings.TrimSpace(text)
	b.UpdatedAt = now.UTC()
	return nil
}

// RespondedAt is the host's approval or rejection time, if any.
func (b *Booking) RespondedAt() (time.Time, bool) {
	if b.ApprovedAt != nil {
		return *b.ApprovedAt, true
	}
	if b.RejectedAt != nil {
		return *b.RejectedAt, true
	}
	return time.Time{}, false
}

func (b *Booking) DurationDays() int {
	return b.Range.Days()
}

// IsOverdue reports a stay past its check-out that never reached a terminal status.
func (b *Booking) IsOverdue(now time.Time) bool {
	return !b.Status.IsTerminal() && now.After(b.Range.CheckOut)
}

func (b *Booking) IsUpcoming(now time.Time) bool {
	return !b.Status.IsTerminal() && b.Range.CheckIn.After(now)
}

// CanBeReviewed needs a completed stay with no review attached.
func (b *Booking) CanBeReviewed(hasReview bool) bool {
	return b.Status == StatusCompleted && !hasReview
}

// Clone returns a deep copy without pending events.
func (b *Booking) Clone() *Booking {
	clone := *b
	clone.AddOns = append([]string(nil), b.AddOns...)
	clone.Price = b.Price.Copy()
	if b.ApprovedAt != nil {
		at := *b.ApprovedAt
		clone.ApprovedAt = &at
	}
	if b.RejectedAt != nil {
		at := *b.RejectedAt
		clone.RejectedAt = &at
	}
	clone.EventRecorder = events.EventRecorder{}
	return &clone
}
