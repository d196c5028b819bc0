package period

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalKey(t *testing.T) {
	tests := []struct {
		year, month int
		want        string
	}{
		{2024, 4, "202404"},
		{2020, 11, "202011"},
		{2023, 1, "202301"},
		{2023, 12, "202312"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			k, err := CanonicalKey(tt.year, tt.month)
			require.NoError(t, err)
			assert.Equal(t, tt.want, k.String())
			assert.Equal(t, tt.year, k.Year())
			assert.Equal(t, tt.month, k.Month())
		})
	}
}

func TestCanonicalKey_InvalidMonth(t *testing.T) {
	for _, month := range []int{0, 13, -1} {
		_, err := CanonicalKey(2024, month)
		assert.ErrorIs(t, err, ErrInvalidArgument, "month %d", month)
	}
}

func TestPrevious(t *testing.T) {
	tests := []struct {
		name                string
		year, month         int
		wantYear, wantMonth int
	}{
		{"mid year", 2024, 4, 2024, 3},
		{"december", 2023, 12, 2023, 11},
		{"february", 2022, 2, 2022, 1},
		{"january rolls back a year", 2024, 1, 2023, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			y, m, err := Previous(tt.year, tt.month)
			require.NoError(t, err)
			assert.Equal(t, tt.wantYear, y)
			assert.Equal(t, tt.wantMonth, m)
		})
	}

	_, _, err := Previous(2024, 13)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestPrevious_KeyOrdering(t *testing.T) {
	// The previous key always sorts strictly before the original, including
	// across the January boundary.
	for year := 2019; year <= 2026; year++ {
		for month := 1; month <= 12; month++ {
			k := MustKey(year, month)
			prev := k.Previous()
			assert.Less(t, prev.String(), k.String())
			assert.True(t, prev.Before(k))
			assert.Equal(t, k, prev.Next())
		}
	}
}

func TestParseKey(t *testing.T) {
	k, err := ParseKey("202309")
	require.NoError(t, err)
	assert.Equal(t, MustKey(2023, 9), k)

	for _, bad := range []string{"", "2023", "2023-09", "202313", "202300", "abcd01", "20230901"} {
		_, err := ParseKey(bad)
		assert.ErrorIs(t, err, ErrInvalidArgument, bad)
	}
}

func TestKey_JSON(t *testing.T) {
	payload := map[string]interface{}{"period": MustKey(2021, 7)}
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"period":"202107"}`, string(data))

	var decoded struct {
		Period Key `json:"period"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, MustKey(2021, 7), decoded.Period)

	assert.Error(t, json.Unmarshal([]byte(`{"period":"2021-07"}`), &decoded))
}

func TestRange(t *testing.T) {
	r, err := NewRange("202004", "202309")
	require.NoError(t, err)

	keys := r.Keys()
	assert.Len(t, keys, 42)
	assert.Equal(t, "202004", keys[0].String())
	assert.Equal(t, "202309", keys[len(keys)-1].String())
	assert.Equal(t, "202101", keys[9].String())

	assert.True(t, r.Contains(MustKey(2020, 4)))
	assert.True(t, r.Contains(MustKey(2023, 9)))
	assert.False(t, r.Contains(MustKey(2020, 3)))
	assert.False(t, r.Contains(MustKey(2023, 10)))
	assert.Equal(t, MustKey(2023, 9), r.Latest())

	_, err = NewRange("202309", "202004")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestOptions(t *testing.T) {
	assert.Len(t, Months(), 12)
	assert.Equal(t, "January", Months()[0])
	assert.Equal(t, "December", Months()[11])

	assert.Equal(t, []int{2026, 2025, 2024, 2023}, RecentYears(time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)))

	sectors := Sectors()
	assert.Len(t, sectors, 12)
	assert.Equal(t, SectorAll, sectors[0])
	assert.Contains(t, sectors, "Telecommunications")
	assert.True(t, IsSector("Health Care"))
	assert.False(t, IsSector("health care"))

	// Returned slices are copies
	sectors[0] = "mutated"
	assert.Equal(t, SectorAll, Sectors()[0])
}

func TestMonthFromName(t *testing.T) {
	m, err := MonthFromName("April")
	require.NoError(t, err)
	assert.Equal(t, 4, m)

	m, err = MonthFromName(" december ")
	require.NoError(t, err)
	assert.Equal(t, 12, m)

	_, err = MonthFromName("Smarch")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestParseTopN(t *testing.T) {
	for i, literal := range TopNOptions() {
		n, err := ParseTopN(literal)
		require.NoError(t, err)
		assert.Equal(t, (i+1)*100, n)
	}

	for _, bad := range []string{"top 50", "Top 100", "100", "top 600", ""} {
		_, err := ParseTopN(bad)
		assert.ErrorIs(t, err, ErrInvalidArgument, bad)
	}
}
