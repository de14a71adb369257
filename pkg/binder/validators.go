package binder

import (
	"github.com/castinghq/casting/pkg/dates"
	"github.com/go-playground/validator/v10"
)

const calendarDate = "calendardate"

// calendarDateValidator accepts anything dates.Parse understands. Empty
// strings pass so that optional fields can be combined with `omitempty`;
// pair it with `required` when the value must be present.
func calendarDateValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, err := dates.Parse(value)
	return err == nil
}
