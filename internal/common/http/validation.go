package http

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	commonerrors "github.com/dlcaspar/apt-journal/backend/internal/common/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report json field names so details.param matches the wire contract.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// notblank: non-empty after trimming, the rule for username, password
	// and titles.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return v
}

// ValidateBody checks a decoded request struct and returns ErrMalformedRequest
// carrying one detail per failed field rule. Runs before any storage access.
func ValidateBody(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return commonerrors.ErrMalformedRequest.WithCause(err)
	}

	details := make([]commonerrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, commonerrors.FieldError{
			Location: "body",
			Msg:      "Invalid value",
			Param:    fe.Field(),
		})
	}
	return commonerrors.ErrMalformedRequest.WithDetails(details)
}

// MalformedParam builds the validation error for a bad path or query
// parameter.
func MalformedParam(location, param string) error {
	return commonerrors.ErrMalformedRequest.WithDetails([]commonerrors.FieldError{
		{Location: location, Msg: "Invalid value", Param: param},
	})
}
