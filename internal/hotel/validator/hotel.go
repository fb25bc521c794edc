package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"hotelier/pkg/logger"
	"hotelier/pkg/model"

	"github.com/go-playground/validator/v10"
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

// Details renders the errors for an API error body, keyed by field.
func (v ValidationErrors) Details() map[string]any {
	details := make(map[string]any, len(v))
	for _, err := range v {
		details[err.Field] = err.Message
	}
	return details
}

type HotelValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewHotelValidator(log *logger.Logger) *HotelValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("room_type", validateRoomType); err != nil {
		log.Fatal("Failed to register 'room_type' validator",
			"error", err,
		)
	}
	if err := v.RegisterValidation("iso_date", validateISODate); err != nil {
		log.Fatal("Failed to register 'iso_date' validator",
			"error", err,
		)
	}

	log.Debug("Hotel validator initialized successfully")

	return &HotelValidator{
		validate: v,
		logger:   log,
	}
}

func validateRoomType(fl validator.FieldLevel) bool {
	_, err := model.ParseRoomType(fl.Field().String())
	return err == nil
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := model.ParseDate(fl.Field().String())
	return err == nil
}

func (v *HotelValidator) ValidateRoom(req *model.RoomRequest) error {
	return v.validateStruct(req)
}

func (v *HotelValidator) ValidateBooking(req *model.BookingRequest) error {
	if err := v.validateStruct(req); err != nil {
		return err
	}

	// Both dates parse here, the struct tags checked them.
	checkIn, _ := model.ParseDate(req.CheckIn)
	checkOut, _ := model.ParseDate(req.CheckOut)
	if checkIn.After(checkOut) {
		return ValidationErrors{
			ValidationError{
				Field:   "check_out",
				Message: "check_out must not be before check_in",
			},
		}
	}
	return nil
}

func (v *HotelValidator) ValidateAvailability(req *model.AvailabilityRequest) error {
	return v.validateStruct(req)
}

func (v *HotelValidator) validateStruct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *HotelValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		case "gte":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "room_type":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), roomTypeList())
		case "iso_date":
			message = fmt.Sprintf("%s must be a date in YYYY-MM-DD format", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}

func roomTypeList() string {
	types := model.RoomTypes()
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, t.String())
	}
	return strings.Join(names, ", ")
}
