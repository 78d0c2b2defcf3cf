package validators

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	nonstandard "github.com/go-playground/validator/v10/non-standard/validators"

	apperrors "task-service.com/task-service/internal/errors"
)

// RequestValidator plugs go-playground/validator into echo's Validator hook.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", nonstandard.NotBlank)
	return &RequestValidator{validate: v}
}

// fieldErrors maps a failing field to the error reported for it.
var fieldErrors = map[string]*apperrors.Exception{
	"Title":     apperrors.ErrTitleRequired,
	"Completed": apperrors.ErrCompletedRequired,
	"Query":     apperrors.ErrRawQueryRequired,
}

func (rv *RequestValidator) Validate(i interface{}) error {
	err := rv.validate.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.Validation(err.Error())
	}

	fe := verrs[0]
	if known, ok := fieldErrors[fe.StructField()]; ok {
		return known
	}
	return apperrors.Validation(strings.ToLower(fe.Field()) + " failed " + fe.Tag() + " validation")
}
