// Package utils contains small helpers shared by request payloads.
//
// Multipart forms carry nested objects as JSON text and dates as strings,
// so the types here decode from either form.
package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cast"
)

// JSON decodes T from a JSON value or from a string holding JSON. The
// latter is how the admin panel sends objects inside multipart forms.
type JSON[T any] struct {
	Value T
}

func (j *JSON[T]) UnmarshalText(text []byte) error {
	if len(bytes.TrimSpace(text)) == 0 {
		return nil
	}
	if err := json.Unmarshal(text, &j.Value); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

func (j *JSON[T]) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return j.UnmarshalText([]byte(s))
	}
	return json.Unmarshal(data, &j.Value)
}

func (j JSON[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.Value)
}

// dateLayouts are tried after cast's own list; datetime-local inputs omit
// seconds and zone.
var dateLayouts = []string{
	"2006-01-02T15:04",
}

// Date accepts RFC 3339, a bare date, a datetime-local value or unix seconds.
type Date struct {
	time.Time
}

// ParseDate parses the formats Date accepts.
func ParseDate(s string) (time.Time, error) {
	if t, err := cast.ToTimeE(s); err == nil {
		return t, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func (d *Date) UnmarshalText(text []byte) error {
	s := string(bytes.TrimSpace(text))
	if s == "" {
		return nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case string:
		return d.UnmarshalText([]byte(v))
	case float64:
		d.Time = cast.ToTime(int64(v))
		return nil
	default:
		return fmt.Errorf("invalid date %s", data)
	}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time)
}

// Ptr returns a pointer to the time, or nil for the zero Date.
func (d *Date) Ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}
