package ranking

import (
	"fmt"
	"strconv"

	"github.com/wonny/rankboard/internal/contracts"
	"github.com/wonny/rankboard/internal/period"
)

// Selection is one dashboard form submission, passed explicitly to every resolver call
type Selection struct {
	Year   int    `json:"year" yaml:"year"`
	Month  int    `json:"month" yaml:"month"`
	Sector string `json:"sector" yaml:"sector"`
	TopN   int    `json:"top_n" yaml:"top_n"` // 0 = untruncated table
}

// ParseSelection converts the form literals (month name, year, sector, "top NNN").
// An empty sector means "All"; an empty top-N leaves the table untruncated.
func ParseSelection(month, year, sector, topN string) (Selection, error) {
	m, err := period.MonthFromName(month)
	if err != nil {
		return Selection{}, err
	}

	y, err := strconv.Atoi(year)
	if err != nil {
		return Selection{}, fmt.Errorf("%w: year %q", contracts.ErrInvalidArgument, year)
	}

	if sector == "" {
		sector = period.SectorAll
	}

	n := 0
	if topN != "" {
		if n, err = period.ParseTopN(topN); err != nil {
			return Selection{}, err
		}
	}

	sel := Selection{Year: y, Month: m, Sector: sector, TopN: n}
	if err := sel.Validate(); err != nil {
		return Selection{}, err
	}
	return sel, nil
}

// Validate checks month range, sector literal and top-N sign
func (s Selection) Validate() error {
	if _, err := period.CanonicalKey(s.Year, s.Month); err != nil {
		return err
	}
	if s.Sector != "" && !period.IsSector(s.Sector) {
		return fmt.Errorf("%w: unknown sector %q", contracts.ErrInvalidArgument, s.Sector)
	}
	if s.TopN < 0 {
		return fmt.Errorf("%w: negative top-N %d", contracts.ErrInvalidArgument, s.TopN)
	}
	return nil
}

// Key returns the selection's period key
func (s Selection) Key() (period.Key, error) {
	return period.CanonicalKey(s.Year, s.Month)
}
