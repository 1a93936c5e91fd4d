package rest

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/encoding/json"
)

// WireLayout is how timestamps are written: UTC with millisecond precision.
const WireLayout = "2006-01-02T15:04:05.000Z"

var readLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02T15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Timestamp encodes as WireLayout and decodes any of the forms the store emits.
// Values without a zone are read as UTC.
type Timestamp time.Time

func ts(t time.Time) Timestamp { return Timestamp(t) }

func tsPtr(t *time.Time) *Timestamp {
	if t == nil {
		return nil
	}
	v := Timestamp(*t)
	return &v
}

func (t Timestamp) Time() time.Time { return time.Time(t) }

func (t *Timestamp) TimePtr() *time.Time {
	if t == nil {
		return nil
	}
	v := time.Time(*t)
	return &v
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(t).UTC().Format(WireLayout) + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	v, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = Timestamp(v)
	return nil
}

// ParseTimestamp accepts RFC 3339 with or without fractional seconds and zone,
// the space-separated Postgres form, and bare dates.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, l := range readLayouts {
		if v, err := time.Parse(l, s); err == nil {
			return v.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("timestamp: unrecognised format %q", s)
}

// Decimal is a numeric(10,2) column. The store may send it as a number or a
// string; it is always written as a two-decimal string.
type Decimal float64

func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.FormatFloat(float64(d), 'f', 2, 64) + `"`), nil
}

func (d *Decimal) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "" || s == "null" {
		*d = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("decimal: %w", err)
	}
	*d = Decimal(f)
	return nil
}
