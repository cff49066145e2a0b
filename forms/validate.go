// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package forms

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/danielhkuo/proposal-desk/identity"
	"github.com/danielhkuo/proposal-desk/schedule"
)

// Error names reported per field or for the whole form.
const (
	ErrRequired           = "required"
	ErrMinLength          = "minlength"
	ErrMaxLength          = "maxlength"
	ErrPattern            = "pattern"
	ErrDate               = "date"
	ErrPastDate           = "pastDate"
	ErrInvalidOption      = "invalidOption"
	ErrEndDateBeforeStart = "endDateBeforeStart"
)

// tagNames maps validator tags onto the error names above.
var tagNames = map[string]string{
	"required": ErrRequired,
	"min":      ErrMinLength,
	"max":      ErrMaxLength,
	"nonblank": ErrPattern,
	"clock":    ErrPattern,
	"userid":   ErrPattern,
	"isodate":  ErrDate,
	"future":   ErrPastDate,
	"oneof":    ErrInvalidOption,
}

type nowKey struct{}

func withNow(ctx context.Context, now time.Time) context.Context {
	return context.WithValue(ctx, nowKey{}, now)
}

func nowFrom(ctx context.Context) time.Time {
	if now, ok := ctx.Value(nowKey{}).(time.Time); ok {
		return now
	}
	return time.Now()
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	must(v.RegisterValidation("nonblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}))
	must(v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, _, err := schedule.ParseClock(fl.Field().String())
		return err == nil
	}))
	must(v.RegisterValidation("userid", func(fl validator.FieldLevel) bool {
		_, err := identity.ParseUserID(fl.Field().String())
		return err == nil
	}))
	must(v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := schedule.ParseDate(fl.Field().String())
		return err == nil
	}))
	// future never fails on an unparseable date; isodate reports that
	must(v.RegisterValidationCtx("future", func(ctx context.Context, fl validator.FieldLevel) bool {
		d, err := schedule.ParseDate(fl.Field().String())
		if err != nil {
			return true
		}
		return schedule.IsFutureDate(d, nowFrom(ctx))
	}))

	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// check runs the struct tags of in and collects the failures by field.
func check(ctx context.Context, in any) *Errors {
	errs := &Errors{}
	err := validate.StructCtx(ctx, in)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.AddForm(err.Error())
		return errs
	}
	for _, fe := range verrs {
		name, ok := tagNames[fe.Tag()]
		if !ok {
			name = fe.Tag()
		}
		errs.Add(fe.Field(), name)
	}
	return errs
}
