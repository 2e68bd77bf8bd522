package store

import (
	"time"

	"github.com/go-playground/validator/v10"

	pkgerrors "memoclient/pkg/errors"
)

// validate checks mutation inputs before any network round-trip
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// created timestamps may be backdated but never future-dated
	_ = v.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
		return fl.Field().Int() <= time.Now().Unix()
	})

	return v
}

// passwordChange is the local shape of a password update; the confirmation
// never leaves the client.
type passwordChange struct {
	Password string `validate:"required,min=3"`
	Confirm  string `validate:"required,eqfield=Password"`
}

type createdTsChange struct {
	CreatedTs int64 `validate:"gt=0,notfuture"`
}

func validateStruct(s interface{}, message string) error {
	if err := validate.Struct(s); err != nil {
		return pkgerrors.NewValidationError(message).WithCause(err)
	}
	return nil
}
