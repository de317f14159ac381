package hosts

import "time"

type HostCreated struct {
	HostID HostID
	UserID string
	At     time.Time
}

func (e HostCreated) EventName() string     { return "host.created" }
func (e HostCreated) AggregateID() string   { return string(e.HostID) }
func (e HostCreated) OccurredAt() time.Time { return e.At }

type HostUpdated struct {
	HostID HostID
	At     time.Time
}

func (e HostUpdated) EventName() string     { return "host.updated" }
func (e HostUpdated) AggregateID() string   { return string(e.HostID) }
func (e HostUpdated) OccurredAt() time.Time { return e.At }

type HostDeactivated struct {
	HostID HostID
	At     time.Time
}

func (e HostDeactivated) EventName() string     { return "host.deactivated" }
func (e HostDeactivated) AggregateID() string   { return string(e.HostID) }
func (e HostDeactivated) OccurredAt() time.Time { return e.At }

type SuperHostGranted struct {
	HostID HostID
	At     time.Time
}

func (e SuperHostGranted) EventName() string     { return "host.superhost_granted" }
func (e SuperHostGranted) AggregateID() string   { return string(e.HostID) }
func (e SuperHostGranted) OccurredAt() time.Time { return e.At }
