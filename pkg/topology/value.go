package topology

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Value is a single attribute value. Numeric values can be bucketed by
// colour thresholds; text values can only be displayed.
type Value struct {
	Number  float64
	Text    string
	Numeric bool
}

// Num returns a numeric value.
func Num(v float64) Value { return Value{Number: v, Numeric: true} }

// Str returns a text value.
func Str(s string) Value { return Value{Text: s} }

// String formats the value for display. Integral numbers print without a
// fractional part.
func (v Value) String() string {
	if !v.Numeric {
		return v.Text
	}
	return strconv.FormatFloat(v.Number, 'f', -1, 64)
}

// MarshalJSON writes numbers as JSON numbers and text as JSON strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.Numeric {
		return []byte(strconv.FormatFloat(v.Number, 'f', -1, 64)), nil
	}
	return json.Marshal(v.Text)
}

// UnmarshalJSON accepts numbers, strings and booleans.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0:
		return fmt.Errorf("empty attribute value")
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Str(s)
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*v = Str(string(data))
	default:
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("attribute value %s: %w", data, err)
		}
		*v = Num(f)
	}
	return nil
}

// Attributes is the attribute bag of a core, router or channel.
type Attributes map[string]Value

// Get returns the value stored under key.
func (a Attributes) Get(key string) (Value, bool) {
	v, ok := a[key]
	return v, ok
}
