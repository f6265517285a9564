package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ID is a record identifier. Older records carry numeric ids, so it
// decodes from either a JSON string or a JSON number.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// Timestamp is encoded as RFC 3339. On decode it also accepts epoch
// milliseconds (number or numeric string) and plain dates. A string in any
// other format decodes to the zero time and is written back unchanged.
type Timestamp struct {
	time.Time
	raw string
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Now returns the current time truncated to milliseconds in UTC.
func Now() Timestamp {
	return NewTimestamp(time.Now())
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC().Truncate(time.Millisecond)}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		if t.raw != "" {
			return json.Marshal(t.raw)
		}
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}

	if data[0] != '"' {
		return t.fromNumber(string(data))
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*t = Timestamp{}
		return nil
	}

	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = NewTimestamp(parsed)
			return nil
		}
	}

	if err := t.fromNumber(s); err != nil {
		*t = Timestamp{raw: s}
	}
	return nil
}

func (t *Timestamp) fromNumber(s string) error {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("unsupported timestamp %q", s)
	}

	// values below 1e11 are seconds, anything larger is milliseconds
	ms := int64(f)
	if f < 1e11 {
		ms = int64(f * 1000)
	}
	*t = NewTimestamp(time.UnixMilli(ms))
	return nil
}
