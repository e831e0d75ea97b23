package httpx

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"bookreview/internal/platform/crypto"
)

var validate *validator.Validate

var (
	isbn10Re = regexp.MustCompile(`^\d{9}[\dX]$`)
	isbn13Re = regexp.MustCompile(`^\d{13}$`)
)

func init() {
	validate = validator.New()

	// Report fields by their JSON names so clients can map errors onto form inputs.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	validate.RegisterValidation("isbn", validateISBN)
	validate.RegisterValidation("notblank", validateNotBlank)
	validate.RegisterValidation("notzero", validateNotZero)
	validate.RegisterValidation("password_strength", validatePasswordStrength)
}

// validateISBN accepts ISBN-10 or ISBN-13 with optional hyphens or spaces
// and a correct check digit.
func validateISBN(fl validator.FieldLevel) bool {
	isbn := fl.Field().String()
	isbn = strings.ReplaceAll(isbn, "-", "")
	isbn = strings.ReplaceAll(isbn, " ", "")

	switch len(isbn) {
	case 10:
		return isbn10Re.MatchString(isbn) && isbn10Checksum(isbn)
	case 13:
		return isbn13Re.MatchString(isbn) && isbn13Checksum(isbn)
	}
	return false
}

func isbn10Checksum(isbn string) bool {
	sum := 0
	for i := 0; i < 10; i++ {
		d := int(isbn[i] - '0')
		if isbn[i] == 'X' {
			d = 10
		}
		sum += d * (10 - i)
	}
	return sum%11 == 0
}

func isbn13Checksum(isbn string) bool {
	sum := 0
	for i := 0; i < 13; i++ {
		d := int(isbn[i] - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return sum%10 == 0
}

// validateNotZero rejects a zero time.Time, including one behind a pointer.
func validateNotZero(fl validator.FieldLevel) bool {
	field := fl.Field()
	if !field.CanInterface() {
		return true
	}
	if z, ok := field.Interface().(interface{ IsZero() bool }); ok {
		return !z.IsZero()
	}
	return true
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validatePasswordStrength(fl validator.FieldLevel) bool {
	return crypto.ValidatePasswordStrength(fl.Field().String()) == nil
}

// ValidateStruct runs the validate tags on s and returns one detail per failing field.
func ValidateStruct(s interface{}) []ErrorDetail {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []ErrorDetail{{Field: "", Message: err.Error()}}
	}

	details := make([]ErrorDetail, 0, len(validationErrors))
	for _, fe := range validationErrors {
		details = append(details, ErrorDetail{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return details
}

func messageFor(fe validator.FieldError) string {
	field := fe.Field()
	param := fe.Param()
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required", "notblank", "notzero":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "isbn":
		return fmt.Sprintf("%s must be a valid ISBN (10 or 13 digits)", field)
	case "password_strength":
		return fmt.Sprintf("%s must be at least %d characters with uppercase, lowercase, number, and special character", field, crypto.MinPasswordLength)
	case "eqfield":
		return fmt.Sprintf("%s must match %s", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
