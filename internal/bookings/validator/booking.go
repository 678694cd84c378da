package validator

import (
	"errors"
	"fmt"

	"fleetbook/pkg/logger"
	"fleetbook/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// BookingValidator applies the mutation contract shared by create and
// update: required fields are checked first, in struct-field order, and the
// date-order rule only after every required field is present. A single
// error describes the first failing rule.
type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	return &BookingValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *BookingValidator) Validate(input *model.BookingInput) error {
	if err := v.validate.Struct(input); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
			return v.translate(validationErrs[0])
		}
		return err
	}

	if input.StartDate >= input.EndDate {
		return ValidationError{
			Field:   "EndDate",
			Message: "end date must be after start date",
		}
	}

	return nil
}

func (v *BookingValidator) translate(err validator.FieldError) ValidationError {
	message := err.Error()

	switch err.Tag() {
	case "required":
		message = fmt.Sprintf("%s is required", err.Field())
	case "gte":
		message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
	}

	return ValidationError{
		Field:   err.Field(),
		Message: message,
	}
}
