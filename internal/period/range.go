package period

import "fmt"

// Range is the inclusive span of months for which ranking tables were produced
type Range struct {
	Start Key
	End   Key
}

// NewRange parses two YYYYMM bounds
func NewRange(start, end string) (Range, error) {
	s, err := ParseKey(start)
	if err != nil {
		return Range{}, fmt.Errorf("range start: %w", err)
	}
	e, err := ParseKey(end)
	if err != nil {
		return Range{}, fmt.Errorf("range end: %w", err)
	}
	if e.Before(s) {
		return Range{}, fmt.Errorf("%w: range end %s precedes start %s", ErrInvalidArgument, e, s)
	}
	return Range{Start: s, End: e}, nil
}

// Contains reports whether k lies within the range
func (r Range) Contains(k Key) bool {
	return !k.Before(r.Start) && !r.End.Before(k)
}

// Keys enumerates every month in the range, oldest first
func (r Range) Keys() []Key {
	var keys []Key
	for k := r.Start; !r.End.Before(k); k = k.Next() {
		keys = append(keys, k)
	}
	return keys
}

// Latest returns the newest key in the range
func (r Range) Latest() Key {
	return r.End
}
