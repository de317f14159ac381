package booking

import "fmt"

type Status string

const (
	StatusPendingApproval Status = "PENDING_APPROVAL"
	StatusApproved        Status = "APPROVED"
	StatusRejected        Status = "REJECTED"
	StatusConfirmed       Status = "CONFIRMED"
	StatusInProgress      Status = "IN_PROGRESS"
	StatusCompleted       Status = "COMPLETED"
	StatusCancelled       Status = "CANCELLED"
)

var allowedTransitions = map[Status][]Status{
	StatusPendingApproval: {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved:        {StatusConfirmed, StatusCancelled},
	StatusConfirmed:       {StatusInProgress, StatusCancelled},
	StatusInProgress:      {StatusCompleted, StatusCancelled},
	StatusCompleted:       {},
	StatusRejected:        {},
	StatusCancelled:       {},
}

// Statuses lists every known status in lifecycle order.
var Statuses = []Status{
	StatusPendingApproval,
	StatusApproved,
	StatusRejected,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
}

var (
	// CapacityStatuses occupy a slot on the host calendar.
	CapacityStatuses = []Status{StatusApproved, StatusConfirmed, StatusInProgress}
	// PetConflictStatuses hold the pet for their dates.
	PetConflictStatuses = []Status{StatusPendingApproval, StatusApproved, StatusConfirmed, StatusInProgress}
	// ConfirmedOrLater is the completion-rate denominator.
	ConfirmedOrLater = []Status{StatusConfirmed, StatusInProgress, StatusCompleted}
)

func (s Status) IsValid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range allowedTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	next, ok := allowedTransitions[s]
	return !ok || len(next) == 0
}

// NextStatuses returns the statuses reachable in one step.
func (s Status) NextStatuses() []Status {
	return append([]Status(nil), allowedTransitions[s]...)
}

func (s Status) In(set []Status) bool {
	for _, candidate := range set {
		if s == candidate {
			return true
		}
	}
	return false
}

func ParseStatus(raw string) (Status, error) {
	status := Status(raw)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
	return status, nil
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
)
