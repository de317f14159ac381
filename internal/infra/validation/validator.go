package validation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"pethost/internal/app/middleware"
	"pethost/internal/domain/shared/errs"
)

// Validator checks struct tags on commands and queries and reports failures
// as errs.Validation.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	return &Validator{v: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *Validator) Validate(ctx context.Context, message any) error {
	err := v.v.StructCtx(ctx, message)
	if err == nil {
		return nil
	}
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		// non-struct messages carry no tags
		return nil
	}
	var fields validator.ValidationErrors
	if errors.As(err, &fields) {
		return errs.New(errs.Validation, describe(fields))
	}
	return errs.Wrap(errs.Validation, err, "validation failed")
}

func describe(fields validator.ValidationErrors) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", f.Namespace(), f.Tag(), f.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", f.Namespace(), f.Tag()))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

var _ middleware.Validator = (*Validator)(nil)
