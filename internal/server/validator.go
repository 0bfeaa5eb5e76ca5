package server

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/GRBadas/Planilha-Django/internal/model"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators installs the custom rules on gin's binding engine.
func RegisterValidators() {
	registerOnce.Do(register)
}

func register() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if a, ok := field.Interface().(model.Amount); ok {
			return a.Float64()
		}
		return nil
	}, model.Amount{})

	_ = v.RegisterValidation("card_kind", validateCardKind)
	_ = v.RegisterValidation("direction", validateDirection)
	_ = v.RegisterValidation("ymd", validateDate)
}

func validateCardKind(fl validator.FieldLevel) bool {
	return model.CardKind(fl.Field().String()).Valid()
}

func validateDirection(fl validator.FieldLevel) bool {
	return model.Direction(fl.Field().String()).Valid()
}

func validateDate(fl validator.FieldLevel) bool {
	_, err := model.ParseDate(fl.Field().String())
	return err == nil
}

// bindingError turns a ShouldBind failure into a readable 400.
func bindingError(err error) *AppError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return Wrap(WithDetail(ErrInvalidInput, "malformed request body"), err)
	}

	fe := verrs[0]
	var msg string
	switch fe.Tag() {
	case "required":
		msg = "this field is required"
	case "gt":
		msg = "must be greater than zero"
	case "min":
		msg = "must be at least " + fe.Param()
	case "max":
		msg = "must be at most " + fe.Param() + " characters"
	case "card_kind":
		msg = "must be credito or debito"
	case "direction":
		msg = "must be entrada or saida"
	case "ymd":
		msg = "must be a date in YYYY-MM-DD format"
	default:
		msg = "is invalid"
	}
	return Wrap(WithDetail(ErrInvalidInput, fmt.Sprintf("%s: %s", fe.Field(), msg)), err)
}
