package validation

import (
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/imrishuroy/go-repair-sla/internal/dates"
)

// New returns a validator with the "timestamp" tag registered.
// The tag accepts exactly what dates.Parse accepts.
func New() *validatorv10.Validate {
	v := validatorv10.New()
	_ = v.RegisterValidation("timestamp", timestampValidation)
	return v
}

func timestampValidation(fl validatorv10.FieldLevel) bool {
	return dates.Valid(fl.Field().String())
}
