package services

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/financeapi/apiserver/types"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// NewValidator builds the validator shared by the services. Field names in
// violations are taken from the json tags so they match the wire format.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		return field.Interface().(types.Amount).Float64()
	}, types.Amount{})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		return field.Interface().(types.Date).Time
	}, types.Date{})

	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("register notblank validation: %v", err))
	}
	v.RegisterStructValidation(transactionInputValidation, types.TransactionInput{})
	return v
}

// transactionInputValidation keeps positive values within what the value
// column stores exactly, so a created transaction reads back unchanged.
func transactionInputValidation(sl validator.StructLevel) {
	input := sl.Current().Interface().(types.TransactionInput)
	if input.Value == nil || !input.Value.IsPositive() {
		return
	}

	switch {
	case !input.Value.Equal(input.Value.Truncate(types.AmountScale)):
		sl.ReportError(input.Value, "value", "Value", "scale", strconv.Itoa(int(types.AmountScale)))
	case input.Value.GreaterThan(types.MaxAmount):
		sl.ReportError(input.Value, "value", "Value", "max", types.MaxAmount.String())
	}
}

// validateInput checks input in a single pass and reports every violation.
func validateInput(v *validator.Validate, input any) error {
	err := v.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	violations := make([]Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, Violation{
			Field:   fe.Field(),
			Message: violationMessage(fe),
		})
	}
	return &ValidationError{Violations: violations}
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "gt":
		return "must be greater than " + fe.Param()
	case "scale":
		return "must have at most " + fe.Param() + " decimal places"
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of [" + strings.ReplaceAll(fe.Param(), " ", ", ") + "]"
	default:
		return "is invalid"
	}
}
