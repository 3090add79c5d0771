package validation

import (
	"fmt"
	"regexp"
	"strings"

	errors "github.com/frahmantamala/ecommerce-backend/internal"
	"github.com/shopspring/decimal"
)

type ValidatorFunc func(interface{}) *errors.AppError

type FieldValidator struct {
	FieldName  string
	Value      interface{}
	Validators []ValidatorFunc
}

type ValidationBuilder struct {
	fields []FieldValidator
	errors []errors.ValidationError
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{
		fields: make([]FieldValidator, 0),
		errors: make([]errors.ValidationError, 0),
	}
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := FieldValidator{
		FieldName:  name,
		Value:      value,
		Validators: make([]ValidatorFunc, 0),
	}
	v.fields = append(v.fields, fv)
	return &v.fields[len(v.fields)-1]
}

func (fv *FieldValidator) fail(message string, code errors.ErrorCode) *errors.AppError {
	return errors.NewValidationFieldError(fv.FieldName, message, code)
}

func (fv *FieldValidator) Required() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		msg := "This field is required."
		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) == "" {
				return fv.fail(msg, errors.ErrCodeValidationFailed)
			}
		case *string:
			if v == nil || strings.TrimSpace(*v) == "" {
				return fv.fail(msg, errors.ErrCodeValidationFailed)
			}
		case int64:
			if v == 0 {
				return fv.fail(msg, errors.ErrCodeValidationFailed)
			}
		case *int64:
			if v == nil {
				return fv.fail(msg, errors.ErrCodeValidationFailed)
			}
		case *decimal.Decimal:
			if v == nil {
				return fv.fail(msg, errors.ErrCodeValidationFailed)
			}
		case nil:
			return fv.fail(msg, errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MinLength(min int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok {
			if len(v) < min {
				message := fmt.Sprintf("Ensure this field has at least %d characters.", min)
				return fv.fail(message, errors.ErrCodeValidationFailed)
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MaxLength(max int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok {
			if len(v) > max {
				message := fmt.Sprintf("Ensure this field has no more than %d characters.", max)
				return fv.fail(message, errors.ErrCodeValidationFailed)
			}
		}
		return nil
	})
	return fv
}

// LengthBetween checks min <= len <= max and reports message on failure.
func (fv *FieldValidator) LengthBetween(min, max int, message string, code errors.ErrorCode) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok {
			if len(v) < min || len(v) > max {
				return fv.fail(message, code)
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Pattern(re *regexp.Regexp, message string, code errors.ErrorCode) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok {
			if !re.MatchString(v) {
				return fv.fail(message, code)
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) OneOf(choices []string, code errors.ErrorCode) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		v, ok := value.(string)
		if !ok {
			return nil
		}
		for _, c := range choices {
			if v == c {
				return nil
			}
		}
		return fv.fail(fmt.Sprintf("\"%s\" is not a valid choice.", v), code)
	})
	return fv
}

// PositiveDecimal accepts decimal.Decimal or *decimal.Decimal; nil pointers
// are left to Required.
func (fv *FieldValidator) PositiveDecimal(code errors.ErrorCode) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		var d decimal.Decimal
		switch v := value.(type) {
		case decimal.Decimal:
			d = v
		case *decimal.Decimal:
			if v == nil {
				return nil
			}
			d = *v
		default:
			return nil
		}
		if !d.IsPositive() {
			return fv.fail("Ensure this value is greater than 0.", code)
		}
		return nil
	})
	return fv
}

// MaxDecimalPlaces rejects decimals written with more than places fractional digits.
func (fv *FieldValidator) MaxDecimalPlaces(places int32, code errors.ErrorCode) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		var d decimal.Decimal
		switch v := value.(type) {
		case decimal.Decimal:
			d = v
		case *decimal.Decimal:
			if v == nil {
				return nil
			}
			d = *v
		default:
			return nil
		}
		if d.Exponent() < -places {
			return fv.fail(fmt.Sprintf("Ensure that there are no more than %d decimal places.", places), code)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Custom(validator func(interface{}) *errors.AppError) *FieldValidator {
	fv.Validators = append(fv.Validators, validator)
	return fv
}

// Validate runs each field's validators in order and stops at the first
// failure of that field.
func (v *ValidationBuilder) Validate() *errors.AppError {
	var validationErrors []errors.ValidationError

	for _, field := range v.fields {
		for _, validator := range field.Validators {
			err := validator(field.Value)
			if err == nil {
				continue
			}
			if details, ok := err.Details.(errors.ValidationErrors); ok {
				validationErrors = append(validationErrors, details.Errors...)
			} else {
				validationErrors = append(validationErrors, errors.ValidationError{
					Field:   field.FieldName,
					Message: err.Message,
					Code:    string(err.Code),
				})
			}
			break
		}
	}

	if len(validationErrors) > 0 {
		return errors.NewValidationError("Validation failed", errors.ErrCodeValidationFailed).
			WithDetails(errors.ValidationErrors{Errors: validationErrors})
	}

	return nil
}
