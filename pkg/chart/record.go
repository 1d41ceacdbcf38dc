package chart

import (
	"bytes"
	"encoding/json"
	"maps"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/barchart/pkg/errors"
)

// Value is a single record cell: either text or a number.
// The zero value is the empty string.
type Value struct {
	text  string
	num   float64
	isNum bool
}

// Text returns a text Value.
func Text(s string) Value { return Value{text: s} }

// Number returns a numeric Value.
func Number(f float64) Value { return Value{num: f, isNum: true} }

// IsNumber reports whether v was constructed as a number.
func (v Value) IsNumber() bool { return v.isNum }

// String formats v for labels. Numbers use the shortest representation
// that round-trips, so 10 prints as "10" and 2.5 as "2.5".
func (v Value) String() string {
	if v.isNum {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return v.text
}

// Float coerces v to a number. Text is trimmed and parsed; the empty string
// coerces to 0. The second result is false when the value is not numeric or
// not finite.
func (v Value) Float() (float64, bool) {
	f := v.num
	if !v.isNum {
		s := strings.TrimSpace(v.text)
		if s == "" {
			return 0, true
		}
		var err error
		if f, err = strconv.ParseFloat(s, 64); err != nil {
			return math.NaN(), false
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f, false
	}
	return f, true
}

// MarshalJSON encodes numbers as JSON numbers and text as JSON strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.isNum {
		return json.Marshal(v.num)
	}
	return json.Marshal(v.text)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "value %s is neither a string nor a number", data)
	}
	*v = Number(f)
	return nil
}

// Record maps column names to cell values. All records handed to the engine
// share the same key set, and the category column is unique across them.
type Record map[string]Value

// Category returns the record's category identity under key.
func (r Record) Category(key string) (string, error) {
	v, ok := r[key]
	if !ok {
		return "", errors.New(errors.ErrCodeMissingKey, "category key %q not present in record", key)
	}
	return v.String(), nil
}

// Measure returns the record's numeric value under key.
func (r Record) Measure(key string) (float64, error) {
	v, ok := r[key]
	if !ok {
		return 0, errors.New(errors.ErrCodeMissingKey, "measure key %q not present in record", key)
	}
	f, ok := v.Float()
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidDomain, "measure %q value %q is not a finite number", key, v.String())
	}
	return f, nil
}

// EqualRecords reports whether a and b hold the same records in the same order.
func EqualRecords(a, b []Record) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !maps.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// cloneRecords copies the slice and every record so later caller mutations
// cannot leak into the engine's last-applied input.
func cloneRecords(rs []Record) []Record {
	out := make([]Record, len(rs))
	for i, r := range rs {
		out[i] = maps.Clone(r)
	}
	return out
}
