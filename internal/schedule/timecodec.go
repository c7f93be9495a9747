package schedule

import (
	"encoding/json"
	"strings"
	"time"
)

// TimeLayout is the one encoding ever written for a schedule item's start
// time. Timestamps are member-local wall clock values; no timezone is stored
// and none is applied.
const TimeLayout = "2006-01-02 15:04:05"

// DateLayout is the date portion used for range filtering and projections.
const DateLayout = "2006-01-02"

// parseLayouts are the textual forms accepted on read. Only TimeLayout is
// ever written back; the rest exist for ingestion of historical data.
var parseLayouts = []string{
	TimeLayout,
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	DateLayout,
}

// legacyWrapper is the broken historical encoding where the editor persisted
// a JSON object instead of the plain value.
type legacyWrapper struct {
	Date string `json:"date"`
}

// FormatTime encodes a timestamp in the canonical form.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// ParseTime decodes raw start time text. It accepts the canonical form, the
// ISO T-separated variant and the JSON-wrapped legacy form. The second return
// is false when no timestamp could be recovered; callers skip or keep the
// previous value, this is never an error.
func ParseTime(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	if strings.HasPrefix(s, "{") {
		var w legacyWrapper
		if err := json.Unmarshal([]byte(s), &w); err != nil {
			return time.Time{}, false
		}
		if strings.TrimSpace(w.Date) == "" {
			return time.Time{}, false
		}
		s = strings.TrimSpace(w.Date)
	}

	for _, layout := range parseLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDate decodes a date-only filter value, tolerating a full timestamp by
// truncating it to its date.
func ParseDate(raw string) (time.Time, bool) {
	t, ok := ParseTime(raw)
	if !ok {
		return time.Time{}, false
	}
	return DateOf(t), true
}

// DateOf truncates a timestamp to midnight of its day.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsLegacyTime reports whether raw start time text is in one of the two
// encodings the repair pass rewrites: the JSON-wrapped object or the
// T-separated ISO variant.
func IsLegacyTime(raw string) bool {
	s := strings.TrimSpace(raw)
	return strings.HasPrefix(s, "{") || strings.Contains(s, "T")
}
