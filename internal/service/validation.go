package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/easytobuy/storefront/pkg/errors"
)

// newValidator reads the same binding tags gin uses and reports fields by
// their JSON names
func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// validationError turns the first validator failure into ErrValidation
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return &apperrors.ErrValidation{Field: fe.Field(), Message: "is required"}
		case "email":
			return &apperrors.ErrValidation{Field: fe.Field(), Message: "must be a valid email address"}
		case "min":
			return &apperrors.ErrValidation{Field: fe.Field(), Message: "must be at least " + fe.Param()}
		default:
			return &apperrors.ErrValidation{Field: fe.Field(), Message: "failed " + fe.Tag() + " check"}
		}
	}
	return &apperrors.ErrValidation{Message: err.Error()}
}
