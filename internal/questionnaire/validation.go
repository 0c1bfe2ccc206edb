package questionnaire

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneFormatting = regexp.MustCompile(`[\s\-().+]`)
	phoneDigits     = regexp.MustCompile(`^\d{10,15}$`)
	nameCharacters  = regexp.MustCompile(`^[a-zA-Z\s\-']+$`)
)

// ValidationError reports an answer the field does not accept.
type ValidationError struct {
	FieldRef string
	Message  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %s: %s", e.FieldRef, e.Message)
}

// ValidateAnswer checks value against the field's type and declared
// validations. Statement fields accept anything.
func ValidateAnswer(f *Field, value any) error {
	if f.Type == FieldStatement {
		return nil
	}
	if isEmptyAnswer(value) {
		if f.Validations.IsRequired() {
			return &ValidationError{FieldRef: f.Ref, Message: "This field is required"}
		}
		return nil
	}
	if msg := typeError(f, value); msg != "" {
		return &ValidationError{FieldRef: f.Ref, Message: msg}
	}
	if msg := constraintError(f.Validations, value); msg != "" {
		return &ValidationError{FieldRef: f.Ref, Message: msg}
	}
	return nil
}

// ValidateEmail returns "" for a plausible address.
func ValidateEmail(email string) string {
	if strings.TrimSpace(email) == "" {
		return "Email is required"
	}
	if !emailPattern.MatchString(email) {
		return "Please enter a valid email address"
	}
	return ""
}

// ValidatePhone accepts 10 to 15 digits once spaces, dashes, dots,
// parentheses and plus signs are removed.
func ValidatePhone(phone string) string {
	if strings.TrimSpace(phone) == "" {
		return "Phone number is required"
	}
	if !phoneDigits.MatchString(phoneFormatting.ReplaceAllString(phone, "")) {
		return "Please enter a valid phone number (10-15 digits)"
	}
	return ""
}

// ValidateName checks a first, last or full name.
func ValidateName(name string, minLength int, fullName bool) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "Name is required"
	}
	if utf8.RuneCountInString(trimmed) < minLength {
		return fmt.Sprintf("Name must be at least %d characters", minLength)
	}
	if fullName && !strings.Contains(trimmed, " ") {
		return "Please enter your full name (first and last name)"
	}
	if !nameCharacters.MatchString(trimmed) {
		return "Name can only contain letters, spaces, hyphens, and apostrophes"
	}
	return ""
}

func typeError(f *Field, value any) string {
	s := strings.TrimSpace(Stringify(value))
	switch f.Type {
	case FieldEmail:
		return ValidateEmail(s)
	case FieldPhoneNumber:
		return ValidatePhone(s)
	case FieldShortText:
		return shortTextError(f, s)
	}
	return ""
}

// shortTextError applies phone and name checks to short text fields whose
// ref or title say they hold one.
func shortTextError(f *Field, s string) string {
	ref := strings.ToLower(f.Ref)
	title := strings.ToLower(f.Title)

	if strings.Contains(ref, "phone") || strings.Contains(title, "phone") {
		return ValidatePhone(s)
	}

	firstName := strings.Contains(ref, "firstname") || strings.Contains(ref, "first-name") ||
		strings.Contains(title, "first name") || strings.Contains(title, "firstname") ||
		(strings.Contains(title, "what's your") && strings.Contains(title, "first"))
	lastName := strings.Contains(ref, "lastname") || strings.Contains(ref, "last-name") ||
		strings.Contains(title, "last name") || strings.Contains(title, "lastname") ||
		(strings.Contains(title, "what is your") && strings.Contains(title, "last"))
	fullName := strings.Contains(ref, "fullname") || strings.Contains(ref, "full-name") ||
		strings.Contains(title, "full name") || strings.Contains(title, "fullname") ||
		(strings.Contains(title, "what's your") && strings.Contains(title, "full"))

	if firstName || lastName || fullName {
		minLength := 2
		if fullName {
			minLength = 3
		}
		return ValidateName(s, minLength, fullName)
	}
	return ""
}

func constraintError(v Validations, value any) string {
	s := Stringify(value)
	n := utf8.RuneCountInString(s)
	if v.MinLength != nil && n < *v.MinLength {
		return fmt.Sprintf("Must be at least %d characters", *v.MinLength)
	}
	if v.MaxLength != nil && n > *v.MaxLength {
		return fmt.Sprintf("Must be at most %d characters", *v.MaxLength)
	}
	if v.Pattern != nil {
		// An invalid pattern in the export is ignored.
		if re, err := regexp.Compile(*v.Pattern); err == nil && !re.MatchString(s) {
			return "Please match the requested format"
		}
	}
	if v.Min == nil && v.Max == nil {
		return ""
	}
	num, ok := numericAnswer(value)
	if !ok {
		return "Please enter a number"
	}
	if v.Min != nil && num < *v.Min {
		return fmt.Sprintf("Must be at least %s", Stringify(*v.Min))
	}
	if v.Max != nil && num > *v.Max {
		return fmt.Sprintf("Must be at most %s", Stringify(*v.Max))
	}
	return ""
}

func numericAnswer(value any) (float64, bool) {
	if f, ok := optFloat(value); ok {
		return *f, true
	}
	if s, ok := value.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return f, err == nil
	}
	return 0, false
}
