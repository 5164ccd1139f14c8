package booking

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type CreateBookingParams struct {
	ResidentId  int64  `json:"resident_id" validate:"required,gt=0"`
	PlumberId   int64  `json:"plumber_id" validate:"required,gt=0"`
	Issue       string `json:"issue" validate:"required,max=2000"`
	ServiceDate string `json:"service_date" validate:"required,datetime=2006-01-02"`
	ServiceTime string `json:"service_time" validate:"required,datetime=15:04"`
}

func (p *CreateBookingParams) normalize() {
	p.Issue = strings.TrimSpace(p.Issue)
	p.ServiceDate = strings.TrimSpace(p.ServiceDate)
	p.ServiceTime = strings.TrimSpace(p.ServiceTime)
}

type ReviewParams struct {
	BookingId int64  `json:"booking_id" validate:"required,gt=0"`
	Rating    int    `json:"rating" validate:"min=1,max=5"`
	Comment   string `json:"comment" validate:"max=2000"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// validateStruct runs the struct's validate tags and reports the first failing
// field as a *ValidationError.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Msg: err.Error()}
	}

	fe := verrs[0]
	return &ValidationError{Field: fe.Field(), Msg: validationMessage(fe)}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "datetime":
		return "must match layout " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}
