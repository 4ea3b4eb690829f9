// Package validation wires go-playground/validator into Echo's
// request validation hook and registers the custom tags used by the
// request payloads.
package validation

import (
    "github.com/go-playground/validator/v10"

    "github.com/grizzco/salmon-run-scheduler/internal/timeslot"
)

// RequestValidator adapts a validator.Validate instance to Echo's
// Validator interface. Assign it to echo.Echo.Validator at startup.
type RequestValidator struct {
    validate *validator.Validate
}

// New builds a RequestValidator with the "wallclock" tag registered.
// The tag accepts any timestamp ParseWallClock understands, i.e.
// RFC3339 or a zone-less datetime-local value interpreted as UTC.
func New() *RequestValidator {
    v := validator.New()
    _ = v.RegisterValidation("wallclock", func(fl validator.FieldLevel) bool {
        _, err := timeslot.ParseWallClock(fl.Field().String())
        return err == nil
    })
    return &RequestValidator{validate: v}
}

// Validate implements echo.Validator.
func (rv *RequestValidator) Validate(i interface{}) error {
    return rv.validate.Struct(i)
}
