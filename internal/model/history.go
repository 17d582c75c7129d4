package model

import (
	"bytes"
	"encoding/json"
	"time"
)

// HistorySession is one past compare-batch run
type HistorySession struct {
	ID          string                 `json:"id"`
	Timestamp   Timestamp              `json:"timestamp"`
	TotalPairs  int                    `json:"total_pairs"`
	Comparisons []Comparison           `json:"comparisons"`
	Settings    map[string]interface{} `json:"settings,omitempty"`
}

// Timestamp accepts the backend's ISO strings with or without a zone.
// Zone-less values are read as UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses s with the first layout that fits
func ParseTimestamp(s string) (Timestamp, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{t}, true
		}
	}
	return Timestamp{}, false
}

// UnmarshalJSON leaves the zero time for null or unrecognized values
// rather than failing the whole response.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, _ := ParseTimestamp(s)
		*t = parsed
		return nil
	}

	var unix float64
	if err := json.Unmarshal(data, &unix); err == nil {
		sec := int64(unix)
		*t = Timestamp{time.Unix(sec, int64((unix-float64(sec))*1e9)).UTC()}
		return nil
	}

	*t = Timestamp{}
	return nil
}

// MarshalJSON writes RFC 3339, or null for the zero time
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}

// String formats for tables and lists
func (t Timestamp) String() string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
