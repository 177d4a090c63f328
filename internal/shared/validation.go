package shared

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// FirstValidationMessage reduces a validator error to the first failing
// field's message, wrapped in ErrValidation. Clients receive one concrete
// problem at a time rather than an aggregate.
func FirstValidationMessage(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		first := fieldErrs[0]
		return fmt.Errorf("%w: field %s failed on the %s rule", ErrValidation, first.Field(), first.Tag())
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}
