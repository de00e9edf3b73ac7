// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/alphaweb/internal/authz"
	"github.com/tomtom215/alphaweb/internal/models"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once

	currencyPattern = regexp.MustCompile(`^[A-Za-z]{3}$`)
	phonePattern    = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

// ValidationError is one failed field.
type ValidationError struct {
	field   string
	tag     string
	param   string
	value   interface{}
	message string
}

// Field returns the JSON name of the field that failed.
func (e *ValidationError) Field() string { return e.field }

// Tag returns the failed validation tag.
func (e *ValidationError) Tag() string { return e.tag }

// Param returns the tag parameter, e.g. "8" for min=8.
func (e *ValidationError) Param() string { return e.param }

func (e *ValidationError) Value() interface{} { return e.value }

func (e *ValidationError) Error() string { return e.message }

// RequestValidationError collects every failed field of one request.
type RequestValidationError struct {
	errors []ValidationError
}

func (ve *RequestValidationError) Errors() []ValidationError { return ve.errors }

func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(ve.errors))
	for i := range ve.errors {
		messages[i] = ve.errors[i].message
	}
	return strings.Join(messages, "; ")
}

// FieldErrors maps field names to messages for the error envelope details.
func (ve *RequestValidationError) FieldErrors() map[string]string {
	out := make(map[string]string, len(ve.errors))
	for _, e := range ve.errors {
		if _, ok := out[e.field]; !ok {
			out[e.field] = e.message
		}
	}
	return out
}

// GetValidator returns the shared validator. Field names in errors are the
// JSON names of the struct fields.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonFieldName)
		mustRegister("permission", validPermission)
		mustRegister("currency", validCurrency)
		mustRegister("phone", validPhone)
		for tag, valid := range enumTags {
			mustRegister(tag, enumValidator(valid))
		}
	})
	return validate
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %s: %v", tag, err))
	}
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

// enumTags binds tags to the domain enumerations they enforce.
var enumTags = map[string]func(string) bool{
	"application_status":   models.ValidApplicationStatus,
	"charge_type":          models.ValidChargeType,
	"ticket_priority":      models.ValidTicketPriority,
	"audience":             models.ValidAudience,
	"package_type":         models.ValidPackageType,
	"package_category":     models.ValidPackageCategory,
	"collection_days":      models.ValidCollectionDays,
	"investment_tx_type":   models.ValidInvestmentTxType,
	"investment_tx_status": models.ValidInvestmentTxStatus,
}

func enumValidator(valid func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return valid(fl.Field().String())
	}
}

func validPermission(fl validator.FieldLevel) bool {
	return authz.ValidPermission(fl.Field().String())
}

func validCurrency(fl validator.FieldLevel) bool {
	return currencyPattern.MatchString(fl.Field().String())
}

// validPhone accepts 7 to 15 digits with an optional leading plus. Spaces,
// dashes and parentheses are ignored.
func validPhone(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(phoneSeparators.Replace(fl.Field().String()))
}

// ValidateStruct validates s and returns nil or a *RequestValidationError.
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &RequestValidationError{errors: []ValidationError{{
			field:   "unknown",
			tag:     "unknown",
			message: err.Error(),
		}}}
	}

	out := make([]ValidationError, len(fieldErrs))
	for i, fe := range fieldErrs {
		out[i] = ValidationError{
			field:   fe.Field(),
			tag:     fe.Tag(),
			param:   fe.Param(),
			value:   fe.Value(),
			message: translateError(fe),
		}
	}
	return &RequestValidationError{errors: out}
}

var errorMessageTemplates = map[string]string{
	"required":   "%s is required",
	"email":      "%s must be a valid email address",
	"permission": "%s contains an unknown permission",
	"currency":   "%s must be a 3 letter ISO 4217 code",
	"phone":      "%s must be a valid phone number",
	"datetime":   "%s must be a valid date",
}

var errorMessageWithParam = map[string]string{
	"oneof":           "%s must be one of: %s",
	"gte":             "%s must be greater than or equal to %s",
	"lte":             "%s must be less than or equal to %s",
	"gt":              "%s must be greater than %s",
	"lt":              "%s must be less than %s",
	"gtefield":        "%s must not be before %s",
	"required_with":   "%s is required when %s is set",
	"excluded_unless": "%s is not allowed here",
}

func translateError(fe validator.FieldError) string {
	field, tag, param := fe.Field(), fe.Tag(), fe.Param()

	if _, ok := enumTags[tag]; ok {
		return fmt.Sprintf("%s has an unsupported value %q", field, fmt.Sprint(fe.Value()))
	}
	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := errorMessageWithParam[tag]; ok {
		if strings.Count(template, "%s") == 1 {
			return fmt.Sprintf(template, field)
		}
		return fmt.Sprintf(template, field, param)
	}
	return translateMinMax(fe, field, tag, param)
}

func translateMinMax(fe validator.FieldError, field, tag, param string) string {
	unit := ""
	switch fe.Kind() {
	case reflect.String:
		unit = " characters"
	case reflect.Slice, reflect.Map:
		unit = " items"
	}
	switch tag {
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", field, param, unit)
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", field, param, unit)
	case "len":
		return fmt.Sprintf("%s must be exactly %s%s", field, param, unit)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
