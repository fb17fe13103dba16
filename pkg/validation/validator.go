package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	// Latin, Cyrillic and Arabic letters plus space, dot and hyphen.
	personNameRe = regexp.MustCompile(`^[\p{Latin}\p{Cyrillic}\p{Arabic}\s.\-]+$`)
	// Same alphabet as names, plus digits and comma.
	addressRe = regexp.MustCompile(`^[\p{Latin}\p{Cyrillic}\p{Arabic}0-9\s.,\-]+$`)
	// Uzbekistan mobile numbers: +998 followed by nine digits, 13 characters total.
	phoneRe = regexp.MustCompile(`^\+998[0-9]{9}$`)
)

var initOnce sync.Once

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers the field-format tags used by the users API.
func Init() {
	initOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("personname", matches(personNameRe))
		_ = v.RegisterValidation("addressline", matches(addressRe))
		_ = v.RegisterValidation("uzphone", matches(phoneRe))
	})
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// Struct validates obj with the shared engine.
func Struct(obj any) error {
	Init()
	return binding.Validator.ValidateStruct(obj)
}

// ValidationsError represents a structured validation error
type ValidationsError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

// ToDetails converts validation/binding errors into one entry per failing field,
// in struct field order.
func ToDetails(err error) []ValidationsError {
	if err == nil {
		return nil
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) {
		return []ValidationsError{{Field: ute.Field, Tag: "type", Message: "must be a " + ute.Type.String()}}
	}
	if errors.As(err, &se) {
		return []ValidationsError{{Field: "payload", Tag: "json", Message: "invalid json"}}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]ValidationsError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, ValidationsError{
				Field:   fe.Field(),
				Tag:     fe.Tag(),
				Value:   valueString(fe.Value()),
				Message: formatFieldError(fe),
			})
		}
		return out
	}

	return []ValidationsError{{Field: "payload", Tag: "payload", Message: "invalid payload"}}
}

func valueString(v any) string {
	if v == nil {
		return ""
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return ""
		}
		rv = rv.Elem()
	}
	return fmt.Sprint(rv.Interface())
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()

	switch tag {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "personname":
		return "may contain only letters, spaces, dots and hyphens"
	case "addressline":
		return "may contain only letters, digits, spaces, dots, commas and hyphens"
	case "uzphone":
		return "must be in the format +998XXXXXXXXX"
	case "len":
		return "must be exactly " + param + " characters long"
	case "min":
		if isNumberKind(fe.Kind()) {
			return "must be at least " + param
		}
		return "must be at least " + param + " characters long"
	case "max":
		if isNumberKind(fe.Kind()) {
			return "must be at most " + param
		}
		return "must be at most " + param + " characters long"
	case "gt":
		return "must be greater than " + param
	case "numeric":
		return "must be numeric"
	default:
		if param != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", tag, param)
		}
		return fmt.Sprintf("validation failed for '%s'", tag)
	}
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
