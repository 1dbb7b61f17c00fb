package model

import (
	"time"

	"github.com/devrev/crmstore/internal/errors"
)

// DateLayout is the textual form used by config and seed files
const DateLayout = "2006-01-02"

// Date is a calendar date. The zero value is the absent date.
type Date struct {
	t time.Time
}

// NewDate creates a date at UTC midnight
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to its UTC calendar date
func DateOf(t time.Time) Date {
	u := t.UTC()
	return NewDate(u.Year(), u.Month(), u.Day())
}

// ParseDate parses YYYY-MM-DD
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, errors.InvalidDate(s, err)
	}
	return Date{t: t}, nil
}

// MustParseDate is ParseDate for literals known to be valid
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// IsZero reports whether the date is absent
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// Time returns the date as UTC midnight
func (d Date) Time() time.Time {
	return d.t
}

// AddDays returns the date shifted by n days
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// Before reports whether d is strictly earlier than other
func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// CompareDate orders dates chronologically
func CompareDate(a, b Date) int {
	return a.t.Compare(b.t)
}
