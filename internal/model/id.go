package model

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/devrev/crmstore/internal/errors"
)

// ID is an arbitrary-precision unsigned integer kept as its canonical decimal string.
// The zero value is the absent ID.
type ID struct {
	digits string
}

// NewID creates an ID from a machine integer
func NewID(v uint64) ID {
	return ID{digits: strconv.FormatUint(v, 10)}
}

// ParseID parses a decimal string, stripping leading zeros
func ParseID(s string) (ID, error) {
	if s == "" {
		return ID{}, errors.InvalidID(s, "ID cannot be empty")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return ID{}, errors.InvalidID(s, "ID must contain decimal digits only")
		}
	}
	trimmed := strings.TrimLeft(s, "0")
	if trimmed == "" {
		trimmed = "0"
	}
	return ID{digits: trimmed}, nil
}

// MustParseID is ParseID for literals known to be valid
func MustParseID(s string) ID {
	id, err := ParseID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// IDFromBig converts a non-negative big integer
func IDFromBig(v *big.Int) (ID, error) {
	if v == nil || v.Sign() < 0 {
		return ID{}, errors.InvalidID(v.String(), "ID cannot be negative")
	}
	return ID{digits: v.String()}, nil
}

// Big returns the ID as a big integer, nil for the absent ID
func (id ID) Big() *big.Int {
	if id.IsZero() {
		return nil
	}
	v, _ := new(big.Int).SetString(id.digits, 10)
	return v
}

// IsZero reports whether the ID is absent
func (id ID) IsZero() bool {
	return id.digits == ""
}

// Canonical reports whether the digits carry no leading zero.
// Compare is only a numeric order for canonical IDs.
func (id ID) Canonical() bool {
	if id.digits == "" {
		return false
	}
	return id.digits == "0" || id.digits[0] != '0'
}

func (id ID) String() string {
	return id.digits
}

// MarshalText implements encoding.TextMarshaler
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.digits), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := ParseID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Compare orders IDs by digit count, then lexicographically
func Compare(a, b ID) int {
	switch {
	case len(a.digits) < len(b.digits):
		return -1
	case len(a.digits) > len(b.digits):
		return 1
	}
	return strings.Compare(a.digits, b.digits)
}

// IDGenerator hands out increasing IDs
type IDGenerator struct {
	next *big.Int
}

// NewIDGenerator starts a generator at the given ID
func NewIDGenerator(start ID) *IDGenerator {
	next := start.Big()
	if next == nil {
		next = big.NewInt(1)
	}
	return &IDGenerator{next: next}
}

// Next returns the next ID
func (g *IDGenerator) Next() ID {
	id := ID{digits: g.next.String()}
	g.next.Add(g.next, big.NewInt(1))
	return id
}

// Observe moves the generator past an externally assigned ID
func (g *IDGenerator) Observe(id ID) {
	v := id.Big()
	if v == nil {
		return
	}
	if v.Cmp(g.next) >= 0 {
		g.next.Add(v, big.NewInt(1))
	}
}
