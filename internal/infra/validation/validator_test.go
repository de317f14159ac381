package validation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pethost/internal/domain/shared/errs"
)

type sampleCommand struct {
	ActorID string `validate:"required"`
	Note    string `validate:"max=5"`
	Rating  int    `validate:"gte=1,lte=5"`
}

func TestValidator_Accepts(t *testing.T) {
	err := New().Validate(context.Background(), sampleCommand{ActorID: "u-1", Note: "ok", Rating: 4})
	assert.NoError(t, err)
}

func TestValidator_ReportsFieldsAsValidation(t *testing.T) {
	err := New().Validate(context.Background(), sampleCommand{Note: "too long", Rating: 9})
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.Validation)
	assert.Contains(t, err.Error(), "sampleCommand.ActorID: required")
	assert.Contains(t, err.Error(), "sampleCommand.Note: max=5")
	assert.Contains(t, err.Error(), "sampleCommand.Rating: lte=5")
}

func TestValidator_IgnoresNonStructMessages(t *testing.T) {
	assert.NoError(t, New().Validate(context.Background(), "plain"))
}
