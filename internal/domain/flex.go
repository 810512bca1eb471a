package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// FlexNumber decodes a value that should be numeric but is not guaranteed
// to be: JSON numbers, numeric strings ("129.99"), and anything else
// (null, booleans, objects) all unmarshal without error. Known reports
// whether a usable number came out.
type FlexNumber struct {
	Value float64
	Known bool
}

// Num is a convenience constructor for tests and tooling.
func Num(v float64) FlexNumber {
	return FlexNumber{Value: v, Known: true}
}

func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	*n = FlexNumber{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		n.Value, n.Known = f, true
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			n.Value, n.Known = f, true
		}
		return nil
	}

	// Any other shape means "no price"; malformed data never fails a decode.
	return nil
}

func (n FlexNumber) MarshalJSON() ([]byte, error) {
	if !n.Known {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// FlexTime decodes a timestamp-like value: RFC 3339 strings, epoch seconds
// or milliseconds, and wrapped {"seconds":...,"nanos":...} objects (also
// accepted with the "_seconds"/"_nanoseconds" spelling some document stores
// export). Anything unparsable resolves to the Unix epoch so records stay
// comparable.
type FlexTime struct {
	time.Time
}

// At wraps a time.Time for tests and tooling.
func At(t time.Time) FlexTime {
	return FlexTime{Time: t.UTC()}
}

// epochMillisCutoff separates epoch-second values from epoch-millisecond
// values: anything above it is far past the year 30000 when read as
// seconds, so it must be milliseconds.
const epochMillisCutoff = 1e12

// Epoch is the fallback instant for absent or unparsable timestamps.
func Epoch() time.Time {
	return time.Unix(0, 0).UTC()
}

type wrappedTimestamp struct {
	Seconds  *int64 `json:"seconds"`
	Nanos    int64  `json:"nanos"`
	USeconds *int64 `json:"_seconds"`
	UNanos   int64  `json:"_nanoseconds"`
}

func (t *FlexTime) UnmarshalJSON(data []byte) error {
	t.Time = Epoch()

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		t.Time = fromEpochNumber(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		t.Time = fromString(s)
		return nil
	}

	var w wrappedTimestamp
	if err := json.Unmarshal(data, &w); err == nil {
		switch {
		case w.Seconds != nil:
			t.Time = time.Unix(*w.Seconds, w.Nanos).UTC()
		case w.USeconds != nil:
			t.Time = time.Unix(*w.USeconds, w.UNanos).UTC()
		}
		return nil
	}

	return nil
}

func (t FlexTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.UTC().Format(time.RFC3339Nano))
}

func fromEpochNumber(f float64) time.Time {
	if f > epochMillisCutoff {
		return time.UnixMilli(int64(f)).UTC()
	}
	return time.Unix(int64(f), 0).UTC()
}

func fromString(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.UTC()
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromEpochNumber(f)
	}
	return Epoch()
}
