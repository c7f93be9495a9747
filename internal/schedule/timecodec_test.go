package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTime(t *testing.T) {
	ts := time.Date(2024, 5, 1, 9, 30, 0, 0, time.Local)
	assert.Equal(t, "2024-05-01 09:30:00", FormatTime(ts))
}

func TestParseTimeAcceptedForms(t *testing.T) {
	want := time.Date(2024, 5, 1, 9, 30, 0, 0, time.Local)

	cases := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"canonical", "2024-05-01 09:30:00", want},
		{"iso t separator", "2024-05-01T09:30:00", want},
		{"json wrapped", `{"date":"2024-05-01 09:30:00"}`, want},
		{"json wrapped iso", `{"date":"2024-05-01T09:30:00"}`, want},
		{"minute precision", "2024-05-01 09:30", want},
		{"date only", "2024-05-01", time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)},
		{"surrounding whitespace", "  2024-05-01 09:30:00  ", want},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseTime(tc.raw)
			require.True(t, ok)
			assert.True(t, tc.want.Equal(got), "got %v, want %v", got, tc.want)
		})
	}
}

func TestParseTimeRejectedForms(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"not a date", "soon"},
		{"slashed date", "05/01/2024"},
		{"wrapped empty", `{"date":""}`},
		{"wrapped garbage", `{"date":"whenever"}`},
		{"broken json", `{"date":`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := ParseTime(tc.raw)
			assert.False(t, ok)
		})
	}
}

func TestParseTimeRoundTrip(t *testing.T) {
	ts := time.Date(2023, 12, 31, 23, 59, 59, 0, time.Local)
	got, ok := ParseTime(FormatTime(ts))
	require.True(t, ok)
	assert.True(t, ts.Equal(got))
}

func TestParseDate(t *testing.T) {
	midnight := time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)

	got, ok := ParseDate("2024-05-01")
	require.True(t, ok)
	assert.True(t, midnight.Equal(got))

	// A full timestamp is truncated to its day.
	got, ok = ParseDate("2024-05-01 18:45:12")
	require.True(t, ok)
	assert.True(t, midnight.Equal(got))

	_, ok = ParseDate("never")
	assert.False(t, ok)
}

func TestDateOf(t *testing.T) {
	ts := time.Date(2024, 5, 1, 18, 45, 12, 999, time.Local)
	assert.True(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local).Equal(DateOf(ts)))
}

func TestIsLegacyTime(t *testing.T) {
	assert.True(t, IsLegacyTime(`{"date":"2024-05-01 09:30:00"}`))
	assert.True(t, IsLegacyTime("2024-05-01T09:30:00"))
	assert.True(t, IsLegacyTime(`  {"date":"x"}`))
	assert.False(t, IsLegacyTime("2024-05-01 09:30:00"))
	assert.False(t, IsLegacyTime(""))
}
