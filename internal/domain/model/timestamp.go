package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// localLayout is how the backend writes date-times: ISO-8601 without a zone.
const localLayout = "2006-01-02T15:04:05.999999999"

// Timestamp decodes the backend's date-time values. Zone-less values are
// read as local time. Array form ([y,m,d,h,mi,s,ns]) is accepted too, since
// that is what the backend emits when ISO output is turned off.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON accepts null, an ISO string with or without zone, or the
// array form.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		return t.unmarshalArray(data)
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	if v, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t.Time = v
		return nil
	}
	v, err := time.ParseInLocation(localLayout, s, time.Local)
	if err != nil {
		return fmt.Errorf("timestamp %q: %w", s, err)
	}
	t.Time = v
	return nil
}

func (t *Timestamp) unmarshalArray(data []byte) error {
	var parts []int
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if len(parts) < 3 {
		return fmt.Errorf("timestamp: want at least 3 fields, got %d", len(parts))
	}
	f := make([]int, 7)
	copy(f, parts)
	t.Time = time.Date(f[0], time.Month(f[1]), f[2], f[3], f[4], f[5], f[6], time.Local)
	return nil
}

// MarshalJSON writes the zone-less form the backend reads.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(localLayout))
}
