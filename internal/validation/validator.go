package validation

import (
	stderrors "errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/devrev/crmstore/internal/errors"
	"github.com/devrev/crmstore/internal/model"
)

const (
	// Size limits
	MaxTextSize  = 1024 // 1 KB
	MaxNotesSize = 64 * 1024
	MaxTags      = 64

	// Phone numbers keep between 5 and 15 digits after normalization
	MinPhoneDigits = 5
	MaxPhoneDigits = 15
)

// Validator validates fixture records before they reach the stores
type Validator struct {
	maxTextSize  int
	maxNotesSize int
	maxTags      int
}

// NewValidator creates a new validator with default limits
func NewValidator() *Validator {
	return &Validator{
		maxTextSize:  MaxTextSize,
		maxNotesSize: MaxNotesSize,
		maxTags:      MaxTags,
	}
}

// NewValidatorWithLimits creates a validator with custom limits
func NewValidatorWithLimits(maxTextSize, maxNotesSize, maxTags int) *Validator {
	return &Validator{
		maxTextSize:  maxTextSize,
		maxNotesSize: maxNotesSize,
		maxTags:      maxTags,
	}
}

// ValidateID parses an optional ID. An empty value yields the zero ID.
func (v *Validator) ValidateID(field, value string) (model.ID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return model.ID{}, nil
	}
	id, err := model.ParseID(value)
	if err != nil {
		return model.ID{}, wrapField(err, field)
	}
	return id, nil
}

// ValidateName validates a required single-line name such as a title or subject
func (v *Validator) ValidateName(field, name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.InvalidArgument(fmt.Sprintf("%s cannot be empty", field), nil).
			WithDetail("field", field)
	}
	return v.ValidateText(field, name)
}

// ValidateText validates an optional single-line value
func (v *Validator) ValidateText(field, text string) error {
	if len(text) > v.maxTextSize {
		return errors.InvalidArgument(fmt.Sprintf("%s exceeds maximum size of %d bytes", field, v.maxTextSize), nil).
			WithDetail("field", field)
	}
	if !utf8.ValidString(text) {
		return errors.InvalidArgument(fmt.Sprintf("%s is not valid UTF-8", field), nil).
			WithDetail("field", field)
	}

	// Check for control characters, null bytes included
	for _, r := range text {
		if unicode.IsControl(r) {
			return errors.InvalidArgument(fmt.Sprintf("%s cannot contain control characters", field), nil).
				WithDetail("field", field)
		}
	}
	return nil
}

// ValidateNotes validates free-form multi-line text
func (v *Validator) ValidateNotes(field, notes string) error {
	if len(notes) > v.maxNotesSize {
		return errors.InvalidArgument(fmt.Sprintf("%s exceeds maximum size of %d bytes", field, v.maxNotesSize), nil).
			WithDetail("field", field)
	}
	for _, r := range notes {
		if unicode.IsControl(r) && r != '\t' && r != '\n' && r != '\r' {
			return errors.InvalidArgument(fmt.Sprintf("%s cannot contain control characters", field), nil).
				WithDetail("field", field)
		}
	}
	return nil
}

// ValidateEmail validates an optional email address
func (v *Validator) ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}
	if err := v.ValidateText("email", email); err != nil {
		return err
	}

	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" || strings.Contains(domain, "@") {
		return errors.InvalidArgument(fmt.Sprintf("invalid email '%s'", email), nil).
			WithDetail("field", "email")
	}
	if strings.ContainsAny(email, " \t") || !strings.Contains(domain, ".") ||
		strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return errors.InvalidArgument(fmt.Sprintf("invalid email '%s'", email), nil).
			WithDetail("field", "email")
	}
	return nil
}

// ValidatePhone validates an optional phone number
func (v *Validator) ValidatePhone(phone string) error {
	if strings.TrimSpace(phone) == "" {
		return nil
	}
	for _, r := range phone {
		if (r < '0' || r > '9') && !strings.ContainsRune("+-() .", r) {
			return errors.InvalidArgument(fmt.Sprintf("phone '%s' contains invalid character %q", phone, r), nil).
				WithDetail("field", "phone")
		}
	}

	digits := strings.TrimPrefix(model.NormalizePhone(phone), "+")
	if len(digits) < MinPhoneDigits || len(digits) > MaxPhoneDigits {
		return errors.InvalidArgument(
			fmt.Sprintf("phone '%s' must have between %d and %d digits", phone, MinPhoneDigits, MaxPhoneDigits), nil).
			WithDetail("field", "phone")
	}
	return nil
}

// ValidateMoney parses an optional non-negative amount
func (v *Validator) ValidateMoney(field, value string) (model.Money, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return model.Money{}, nil
	}
	m, err := model.ParseMoney(value)
	if err != nil {
		return model.Money{}, wrapField(err, field)
	}
	if m.Cents() < 0 {
		return model.Money{}, errors.InvalidMoney(value, "amount cannot be negative").WithDetail("field", field)
	}
	return m, nil
}

// ValidateDate parses an optional date
func (v *Validator) ValidateDate(field, value string) (model.Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return model.Date{}, nil
	}
	d, err := model.ParseDate(value)
	if err != nil {
		return model.Date{}, wrapField(err, field)
	}
	return d, nil
}

// ValidateDateOrder checks that end does not precede start when both are set
func (v *Validator) ValidateDateOrder(startField string, start model.Date, endField string, end model.Date) error {
	if start.IsZero() || end.IsZero() || !end.Before(start) {
		return nil
	}
	return errors.InvalidArgument(fmt.Sprintf("%s %s is before %s %s", endField, end, startField, start), nil).
		WithDetail("field", endField)
}

// ValidateTags validates a tag list
func (v *Validator) ValidateTags(tags []string) error {
	if len(tags) > v.maxTags {
		return errors.InvalidArgument(fmt.Sprintf("too many tags: %d > %d", len(tags), v.maxTags), nil).
			WithDetail("field", "tags")
	}
	for i, tag := range tags {
		if model.NormalizeTag(tag) == "" {
			return errors.InvalidArgument(fmt.Sprintf("tag %d is empty", i), nil).
				WithDetail("field", "tags")
		}
		if err := v.ValidateText("tags", tag); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePriority validates an optional priority
func (v *Validator) ValidatePriority(p model.Priority) error {
	if p == "" || p.Valid() {
		return nil
	}
	return errors.InvalidArgument(fmt.Sprintf("unknown priority '%s'", p), nil).
		WithDetail("field", "priority")
}

// ValidateStatus validates an enum value paired with its free-text fallback.
// The fallback is required when the value is "other" and forbidden otherwise.
func (v *Validator) ValidateStatus(field, value string, valid bool, other string) error {
	if value == "" {
		if strings.TrimSpace(other) != "" {
			return errors.InvalidArgument(fmt.Sprintf("%s text requires %s 'other'", field, field), nil).
				WithDetail("field", field)
		}
		return nil
	}
	if !valid {
		return errors.InvalidArgument(fmt.Sprintf("unknown %s '%s'", field, value), nil).
			WithDetail("field", field)
	}
	isOther := value == "other"
	hasText := strings.TrimSpace(other) != ""
	switch {
	case isOther && !hasText:
		return errors.InvalidArgument(fmt.Sprintf("%s 'other' requires free text", field), nil).
			WithDetail("field", field)
	case !isOther && hasText:
		return errors.InvalidArgument(fmt.Sprintf("%s text requires %s 'other'", field, field), nil).
			WithDetail("field", field)
	}
	return v.ValidateText(field, other)
}

// SanitizeText trims whitespace and removes control characters
func SanitizeText(text string) string {
	sanitized := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, text)
	return strings.TrimSpace(sanitized)
}

func wrapField(err error, field string) error {
	var se *errors.StoreError
	if stderrors.As(err, &se) {
		return se.WithDetail("field", field)
	}
	return errors.InvalidArgument(field, err)
}
