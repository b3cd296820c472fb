// Package wire holds lenient JSON field types shared by the supplier parsers.
// Supplier feeds disagree on whether ids and quantities are numbers or strings,
// so every type here accepts both and treats anything else as absent.
package wire

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrMalformedJSON is returned by parsers when the body is not JSON at all.
var ErrMalformedJSON = errors.New("malformed json")

// String accepts a JSON string, number or bool.
type String string

func (s *String) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return nil
		}
		*s = String(strings.TrimSpace(value))
		return nil
	}
	switch data[0] {
	case '{', '[':
		*s = ""
	case 't', 'f':
		*s = String(string(data))
	default:
		*s = String(canonicalNumber(string(data)))
	}
	return nil
}

// canonicalNumber renders 12, 12.0 and 1.2e1 the same way.
func canonicalNumber(raw string) string {
	if _, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return raw
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return raw
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Value returns the trimmed string.
func (s String) Value() string {
	return strings.TrimSpace(string(s))
}

// Int accepts a JSON number or numeric string. Missing or unparsable values decode as unset.
type Int struct {
	Value int
	Valid bool
}

func (i *Int) UnmarshalJSON(data []byte) error {
	*i = Int{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil
		}
	}
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		*i = Int{Value: n, Valid: true}
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	// out of int range: int(f) is undefined there
	if f < float64(math.MinInt) || f >= -float64(math.MinInt) {
		return nil
	}
	*i = Int{Value: int(f), Valid: true}
	return nil
}

// Or returns the value or fallback when unset.
func (i Int) Or(fallback int) int {
	if !i.Valid {
		return fallback
	}
	return i.Value
}

// Ptr returns nil when unset.
func (i Int) Ptr() *int {
	if !i.Valid {
		return nil
	}
	value := i.Value
	return &value
}

// Decimal accepts a JSON number or numeric string.
type Decimal struct {
	Value decimal.Decimal
	Valid bool
}

func (d *Decimal) UnmarshalJSON(data []byte) error {
	*d = Decimal{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil
		}
	}
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	*d = Decimal{Value: value, Valid: true}
	return nil
}

// Ptr returns nil when unset.
func (d Decimal) Ptr() *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	value := d.Value
	return &value
}

// Bool accepts true/false, "true"/"false", 1/0.
type Bool bool

func (b *Bool) UnmarshalJSON(data []byte) error {
	switch strings.ToLower(strings.Trim(strings.TrimSpace(string(data)), `"`)) {
	case "true", "1", "yes":
		*b = true
	default:
		*b = false
	}
	return nil
}

// Time accepts RFC 3339 strings and unix seconds. Anything else decodes as zero.
type Time time.Time

func (t *Time) UnmarshalJSON(data []byte) error {
	*t = Time{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil
		}
		raw = strings.TrimSpace(raw)
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
			if parsed, err := time.Parse(layout, raw); err == nil {
				*t = Time(parsed.UTC())
				return nil
			}
		}
		return nil
	}
	if seconds, err := strconv.ParseInt(string(data), 10, 64); err == nil && seconds > 0 {
		*t = Time(time.Unix(seconds, 0).UTC())
	}
	return nil
}

// Or returns the time or fallback when unset.
func (t Time) Or(fallback time.Time) time.Time {
	value := time.Time(t)
	if value.IsZero() {
		return fallback
	}
	return value
}

// Elements returns the entries of a JSON array, or nil when raw is missing or not an array.
func Elements(raw json.RawMessage) []json.RawMessage {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

// IsObject reports whether raw holds a JSON object.
func IsObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}
