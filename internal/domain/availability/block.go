package availability

import (
	"context"
	"strings"
	"time"

	"pethost/internal/domain/hosts"
	"pethost/internal/domain/shared/daterange"
	"pethost/internal/domain/shared/errs"
	"pethost/internal/domain/shared/events"
	"pethost/internal/domain/shared/money"
)

var (
	ErrBlockNotFound    = errs.New(errs.NotFound, "availability: block not found")
	ErrInvalidOverride  = errs.New(errs.Validation, "availability: max pets override must be non-negative")
	ErrNegativeRate     = errs.New(errs.Validation, "availability: custom rate must be non-negative")
	ErrHostBlocked      = errs.New(errs.Conflict, "availability: host is blocked for the requested dates")
	ErrHostAtCapacity   = errs.New(errs.Conflict, "availability: host is at capacity for the requested dates")
	ErrPetDoubleBooking = errs.New(errs.Conflict, "availability: pet already has a reservation for these dates")
)

type BlockID string

// Block is a host calendar entry: a blocked period or a capacity/rate override.
type Block struct {
	ID               BlockID
	HostID           hosts.HostID
	Range            daterange.DateRange
	Blocked          bool
	MaxPetsAvailable *int
	CustomRate       *money.Money
	Note             string
	CreatedAt        time.Time
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id BlockID) (*Block, error)
	ListByHost(ctx context.Context, hostID hosts.HostID) ([]*Block, error)
	Save(ctx context.Context, block *Block) error
	Delete(ctx context.Context, id BlockID) error
}

type NewBlockParams struct {
	ID               BlockID
	HostID           hosts.HostID
	Range            daterange.DateRange
	Blocked          bool
	MaxPetsAvailable *int
	CustomRate       *money.Money
	Note             string
	Now              time.Time
}

func NewBlock(params NewBlockParams) (*Block, error) {
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	if params.MaxPetsAvailable != nil && *params.MaxPetsAvailable < 0 {
		return nil, ErrInvalidOverride
	}
	if params.CustomRate != nil && params.CustomRate.Amount < 0 {
		return nil, ErrNegativeRate
	}
	block := &Block{
		ID:               params.ID,
		HostID:           params.HostID,
		Range:            params.Range,
		Blocked:          params.Blocked,
		MaxPetsAvailable: params.MaxPetsAvailable,
		CustomRate:       params.CustomRate,
		Note:             strings.TrimSpace(params.Note),
		CreatedAt:        params.Now.UTC(),
	}
	block.Record(BlockCreated{BlockID: block.ID, HostID: block.HostID, Range: block.Range, Blocked: block.Blocked, At: block.CreatedAt})
	return block, nil
}

// MarkRemoved records the removal; the repository deletes the entry.
func (b *Block) MarkRemoved(now time.Time) {
	b.Record(BlockRemoved{BlockID: b.ID, HostID: b.HostID, Range: b.Range, At: now.UTC()})
}

func (b *Block) Clone() *Block {
	clone := *b
	if b.MaxPetsAvailable != nil {
		v := *b.MaxPetsAvailable
		clone.MaxPetsAvailable = &v
	}
	if b.CustomRate != nil {
		v := *b.CustomRate
		clone.CustomRate = &v
	}
	clone.EventRecorder = events.EventRecorder{}
	return &clone
}
