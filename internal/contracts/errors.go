package contracts

import (
	"errors"
	"fmt"

	"github.com/wonny/rankboard/internal/period"
)

// Error taxonomy shared by sources, the resolver and the API layer
// ⭐ SSOT: 랭킹 데이터 에러 분류는 여기서만
var (
	// ErrDataUnavailable: the period has no backing table (404, missing sheet, missing archive entry)
	ErrDataUnavailable = errors.New("ranking data unavailable")

	// ErrInvalidArgument: out-of-range month, malformed top-N literal, unknown sector
	ErrInvalidArgument = period.ErrInvalidArgument

	// ErrTransportTimeout: fetch exceeded its deadline. Callers see it as ErrDataUnavailable.
	ErrTransportTimeout = fmt.Errorf("transport timeout: %w", ErrDataUnavailable)
)

// Unavailable wraps cause as ErrDataUnavailable for key
func Unavailable(key period.Key, cause error) error {
	if cause == nil {
		return fmt.Errorf("period %s: %w", key, ErrDataUnavailable)
	}
	return fmt.Errorf("period %s: %w: %v", key, ErrDataUnavailable, cause)
}

// TimedOut wraps cause as ErrTransportTimeout for key
func TimedOut(key period.Key, cause error) error {
	return fmt.Errorf("period %s: %w: %v", key, ErrTransportTimeout, cause)
}
