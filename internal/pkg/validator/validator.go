package validator

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	playground "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/ttacon/libphonenumber"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		// first message per field wins
		if _, ok := result[err.Field]; !ok {
			result[err.Field] = err.Message
		}
	}
	return result
}

// Add appends a field error.
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, ValidationError{Field: field, Message: message})
}

// Err returns nil when there are no errors, so callers can `return errs.Err()`.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

var (
	engine     *playground.Validate
	engineOnce sync.Once
)

func structValidator() *playground.Validate {
	engineOnce.Do(func() {
		engine = playground.New(playground.WithRequiredStructEnabled())
		engine.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = engine.RegisterValidation("mobile", func(fl playground.FieldLevel) bool {
			return IsValidMobile(fl.Field().String())
		})
		_ = engine.RegisterValidation("vehicle", func(fl playground.FieldLevel) bool {
			return IsValidVehicleNumber(fl.Field().String())
		})
		_ = engine.RegisterValidation("date", func(fl playground.FieldLevel) bool {
			_, ok := IsValidDate(fl.Field().String())
			return ok
		})
	})
	return engine
}

// Struct runs tag based validation and converts failures to ValidationErrors
// keyed by the json field name.
func Struct(s interface{}) ValidationErrors {
	err := structValidator().Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrors{{Field: "request", Message: err.Error()}}
	}
	var errs ValidationErrors
	for _, fe := range fieldErrs {
		errs.Add(fe.Field(), messageFor(fe))
	}
	return errs
}

func messageFor(fe playground.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "invalid email format"
	case "uuid", "uuid4", "uuid7":
		return "must be a valid UUID"
	case "mobile":
		return "must be a valid 10 digit mobile number"
	case "vehicle":
		return "must be a valid vehicle registration number"
	case "date":
		return "must be in YYYY-MM-DD format"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	default:
		return "is invalid"
	}
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email validation
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

var uuidRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[1-8][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

func IsValidUUID(uuid string) bool {
	return uuidRegex.MatchString(strings.ToLower(uuid))
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// ParseDate parses a YYYY-MM-DD value, reporting failure against field.
func ParseDate(field, value string) (time.Time, error) {
	date, ok := IsValidDate(value)
	if !ok {
		var errs ValidationErrors
		errs.Add(field, field+" must be in YYYY-MM-DD format")
		return time.Time{}, errs
	}
	return date, nil
}

const mobileRegion = "IN"

var mobileCharsRegex = regexp.MustCompile(`^\+?[0-9 ()\-]+$`)

// IsValidMobile accepts Indian mobile numbers in national or +91 form.
func IsValidMobile(phone string) bool {
	_, ok := NormalizeMobile(phone)
	return ok
}

// NormalizeMobile returns the 10 digit national number of an Indian mobile.
func NormalizeMobile(phone string) (string, bool) {
	phone = strings.TrimSpace(phone)
	// libphonenumber maps letters to keypad digits
	if !mobileCharsRegex.MatchString(phone) {
		return "", false
	}
	p, err := libphonenumber.Parse(phone, mobileRegion)
	if err != nil || !libphonenumber.IsValidNumberForRegion(p, mobileRegion) {
		return "", false
	}
	national := libphonenumber.GetNationalSignificantNumber(p)
	if len(national) != 10 || national[0] < '6' {
		return "", false
	}
	return national, true
}

// e.g. MH12AB1234, KA 01 F 9999, DL3CAB1234
var vehicleRegex = regexp.MustCompile(`^[A-Z]{2}[0-9]{1,2}[A-Z]{0,3}[0-9]{4}$`)

// NormalizeVehicleNumber uppercases and strips spaces and dashes.
func NormalizeVehicleNumber(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "")
	return strings.ReplaceAll(s, "-", "")
}

func IsValidVehicleNumber(s string) bool {
	return vehicleRegex.MatchString(NormalizeVehicleNumber(s))
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

// IsPositiveAmount reports whether the amount is strictly greater than zero.
func IsPositiveAmount(d decimal.Decimal) bool {
	return d.GreaterThan(decimal.Zero)
}

// IsValidPeriod checks a month/year pair as used by salary reports.
func IsValidPeriod(month, year int) bool {
	return month >= 1 && month <= 12 && year >= 2000 && year <= 2100
}

// IsValidDateTime checks if a string is a valid ISO8601 timestamp.
func IsValidDateTime(dateTimeStr string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, dateTimeStr)
	if err == nil {
		return t, true
	}

	t, err = time.Parse(time.RFC3339Nano, dateTimeStr)
	if err == nil {
		return t, true
	}

	return time.Time{}, false
}

// MaxImageSize is the upload limit for punch photos and receipts.
const MaxImageSize = 10 << 20

var allowedImageExts = []string{".jpg", ".jpeg", ".png"}

// ValidateImage checks an uploaded photo. A nil header is an error only when
// the photo is required.
func ValidateImage(errs *ValidationErrors, field string, header *multipart.FileHeader, required bool) {
	if header == nil {
		if required {
			errs.Add(field, field+" is required")
		}
		return
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch {
	case !IsInSlice(ext, allowedImageExts):
		errs.Add(field, "invalid file type: only jpg, jpeg, png allowed")
	case header.Size > MaxImageSize:
		errs.Add(field, "file size must not exceed 10MB")
	}
}

// ValidateDateRange checks optional start_date/end_date query values.
func ValidateDateRange(errs *ValidationErrors, start, end *string) {
	var startOK, endOK bool
	if start != nil {
		if _, startOK = IsValidDate(*start); !startOK {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
	}
	if end != nil {
		if _, endOK = IsValidDate(*end); !endOK {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}
	// ISO dates compare lexically
	if startOK && endOK && *end < *start {
		errs.Add("end_date", "end_date must not be before start_date")
	}
}
