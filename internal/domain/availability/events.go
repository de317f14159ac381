package availability

import (
	"time"

	"pethost/internal/domain/hosts"
	"pethost/internal/domain/shared/daterange"
)

type BlockCreated struct {
	BlockID BlockID
	HostID  hosts.HostID
	Range   daterange.DateRange
	Blocked bool
	At      time.Time
}

func (e BlockCreated) EventName() string     { return "availability.block_created" }
func (e BlockCreated) AggregateID() string   { return string(e.HostID) }
func (e BlockCreated) OccurredAt() time.Time { return e.At }

type BlockRemoved struct {
	BlockID BlockID
	HostID  hosts.HostID
	Range   daterange.DateRange
	At      time.Time
}

func (e BlockRemoved) EventName() string     { return "availability.block_removed" }
func (e BlockRemoved) AggregateID() string   { return string(e.HostID) }
func (e BlockRemoved) OccurredAt() time.Time { return e.At }
