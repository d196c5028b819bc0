// Package period maps dashboard selections to monthly ranking table keys.
package period

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidArgument marks caller contract violations (bad month, malformed key, unknown literal)
var ErrInvalidArgument = errors.New("invalid argument")

// Key identifies one month's ranking table. Its canonical form is YYYYMM.
// ⭐ SSOT: 기간 키 포맷은 여기서만 정의
type Key struct {
	year  int
	month int
}

// CanonicalKey builds the key for (year, month). The year is not range-checked.
func CanonicalKey(year, month int) (Key, error) {
	if err := checkMonth(month); err != nil {
		return Key{}, err
	}
	return Key{year: year, month: month}, nil
}

// MustKey is CanonicalKey for literals known to be valid
func MustKey(year, month int) Key {
	k, err := CanonicalKey(year, month)
	if err != nil {
		panic(err)
	}
	return k
}

// ParseKey parses a canonical YYYYMM string
func ParseKey(s string) (Key, error) {
	if len(s) != 6 {
		return Key{}, fmt.Errorf("%w: period key %q is not YYYYMM", ErrInvalidArgument, s)
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil || year < 0 {
		return Key{}, fmt.Errorf("%w: period key %q has a bad year", ErrInvalidArgument, s)
	}
	month, err := strconv.Atoi(s[4:])
	if err != nil {
		return Key{}, fmt.Errorf("%w: period key %q has a bad month", ErrInvalidArgument, s)
	}
	return CanonicalKey(year, month)
}

// Previous returns the calendar month before (year, month).
// January rolls back to December of the previous year.
func Previous(year, month int) (int, int, error) {
	if err := checkMonth(month); err != nil {
		return 0, 0, err
	}
	if month == 1 {
		return year - 1, 12, nil
	}
	return year, month - 1, nil
}

// Year returns the calendar year
func (k Key) Year() int { return k.year }

// Month returns the month (1-12)
func (k Key) Month() int { return k.month }

// IsZero reports whether k was never set
func (k Key) IsZero() bool { return k.month == 0 }

// String returns the canonical YYYYMM form
func (k Key) String() string {
	return fmt.Sprintf("%04d%02d", k.year, k.month)
}

// Previous returns the key of the preceding month
func (k Key) Previous() Key {
	year, month, err := Previous(k.year, k.month)
	if err != nil {
		return Key{}
	}
	return Key{year: year, month: month}
}

// Next returns the key of the following month
func (k Key) Next() Key {
	if k.month == 12 {
		return Key{year: k.year + 1, month: 1}
	}
	return Key{year: k.year, month: k.month + 1}
}

// Before reports whether k is earlier than other
func (k Key) Before(other Key) bool {
	if k.year != other.year {
		return k.year < other.year
	}
	return k.month < other.month
}

// MarshalText encodes the key as YYYYMM (JSON strings and map keys)
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a YYYYMM key
func (k *Key) UnmarshalText(text []byte) error {
	parsed, err := ParseKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func checkMonth(month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: month %d out of range 1-12", ErrInvalidArgument, month)
	}
	return nil
}
