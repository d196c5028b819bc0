package period

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SectorAll is the identity sector filter
const SectorAll = "All"

var months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var sectors = []string{
	SectorAll,
	"Basic Materials",
	"Consumer Discretionary",
	"Consumer Staples",
	"Energy",
	"Financials",
	"Health Care",
	"Industrials",
	"Real Estate",
	"Technology",
	"Telecommunications",
	"Utilities",
}

var topNOptions = []string{"top 100", "top 200", "top 300", "top 400", "top 500"}

// Months returns the English month names in calendar order
func Months() []string {
	return append([]string(nil), months...)
}

// MonthFromName maps an English month name (any case) to 1-12
func MonthFromName(name string) (int, error) {
	for i, m := range months {
		if strings.EqualFold(m, strings.TrimSpace(name)) {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown month %q", ErrInvalidArgument, name)
}

// RecentYears returns the current year and the three before it, newest first
func RecentYears(today time.Time) []int {
	y := today.Year()
	return []int{y, y - 1, y - 2, y - 3}
}

// Sectors returns the selectable sector filters, "All" first
func Sectors() []string {
	return append([]string(nil), sectors...)
}

// IsSector reports whether s is one of the selectable sector filters
func IsSector(s string) bool {
	for _, sector := range sectors {
		if sector == s {
			return true
		}
	}
	return false
}

// TopNOptions returns the selectable top-N literals
func TopNOptions() []string {
	return append([]string(nil), topNOptions...)
}

// ParseTopN extracts N from one of the "top NNN" literals
func ParseTopN(literal string) (int, error) {
	for _, opt := range topNOptions {
		if opt == literal {
			return strconv.Atoi(literal[len(literal)-3:])
		}
	}
	return 0, fmt.Errorf("%w: top-N selector %q", ErrInvalidArgument, literal)
}
