package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"travelwindow/pkg/logger"
	"travelwindow/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New()

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if booking.OurCost < 0 || booking.SalePrice < 0 {
		return ValidationErrors{
			ValidationError{
				Field:   "SalePrice",
				Message: "ourCost and salePrice cannot be negative",
			},
		}
	}

	for i, svc := range booking.AdditionalServices {
		if svc.ServiceCost < 0 {
			return ValidationErrors{
				ValidationError{
					Field:   fmt.Sprintf("AdditionalServices[%d]", i),
					Message: "serviceCost cannot be negative",
				},
			}
		}
	}

	if booking.SectorType == model.SectorRoundTrip {
		if booking.ReturnDate != nil && !booking.TravelDate.IsZero() && booking.ReturnDate.Before(booking.TravelDate) {
			return ValidationErrors{
				ValidationError{
					Field:   "ReturnDate",
					Message: "returnDate cannot be before travelDate",
				},
			}
		}
	}

	if booking.SectorType == model.SectorMultiple && len(booking.MultipleSectors) == 0 {
		return ValidationErrors{
			ValidationError{
				Field:   "MultipleSectors",
				Message: "at least one sector leg is required for multiple-sector bookings",
			},
		}
	}

	return nil
}

func (v *BookingValidator) ValidateUpdate(update *model.BookingUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if update.OurCost != nil && *update.OurCost < 0 {
		return ValidationErrors{
			ValidationError{
				Field:   "OurCost",
				Message: "ourCost cannot be negative",
			},
		}
	}
	if update.SalePrice != nil && *update.SalePrice < 0 {
		return ValidationErrors{
			ValidationError{
				Field:   "SalePrice",
				Message: "salePrice cannot be negative",
			},
		}
	}

	return nil
}

// ValidateRequest checks the amendment and cancellation request bodies.
// The mandatory-remark rule rides on the struct tags, so an empty
// remark surfaces here as a required-field failure.
func (v *BookingValidator) ValidateRequest(req any) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "gte":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
