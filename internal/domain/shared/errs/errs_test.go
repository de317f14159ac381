package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSample = New(Conflict, "sample: taken")

func TestError_MatchesKindAndSentinel(t *testing.T) {
	wrapped := fmt.Errorf("save: %w", errSample)
	assert.ErrorIs(t, wrapped, errSample)
	assert.ErrorIs(t, wrapped, Conflict)
	assert.NotErrorIs(t, wrapped, NotFound)
	assert.Equal(t, "sample: taken", errSample.Error())
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := errors.New("socket closed")
	err := Wrap(InvalidState, cause, "commit")
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, InvalidState)
	assert.Equal(t, "commit: socket closed", err.Error())
}

func TestKindName_RoundTrip(t *testing.T) {
	for _, kind := range []error{NotFound, Forbidden, InvalidState, Conflict, Validation} {
		name := KindName(kind)
		assert.NotEmpty(t, name)
		assert.Equal(t, kind, KindByName(name))
	}
	assert.Equal(t, "forbidden", KindName(Newf(Forbidden, "host %s", "h-1")))
	assert.Empty(t, KindName(errors.New("plain")))
	assert.Nil(t, KindByName("teapot"))
	assert.Nil(t, KindOf(nil))
}
