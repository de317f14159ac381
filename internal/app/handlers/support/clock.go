package support

import (
	"time"

	"github.com/google/uuid"
)

// Clock returns the current time; handlers override it in tests.
type Clock func() time.Time

func (c Clock) Now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}

func NewID() string {
	return uuid.NewString()
}
