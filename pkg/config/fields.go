package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/matzehuels/meshview/pkg/errors"
)

// Fields maps attribute keys to their display configuration and remembers
// the order in which keys were added. The order decides which attribute is
// rendered on the first label line of an element, so it is never derived
// from map iteration.
//
// A nil *Fields behaves as an empty container for reads.
type Fields struct {
	keys   []string
	values map[string]Field
}

// NewFields returns an empty container.
func NewFields() *Fields {
	return &Fields{values: map[string]Field{}}
}

// Set stores f under key. A new key goes to the end; an existing key keeps
// its position.
func (f *Fields) Set(key string, field Field) *Fields {
	if f.values == nil {
		f.values = map[string]Field{}
	}
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = field
	return f
}

// Get returns the field stored under key.
func (f *Fields) Get(key string) (Field, bool) {
	if f == nil {
		return nil, false
	}
	v, ok := f.values[key]
	return v, ok
}

// Delete removes key.
func (f *Fields) Delete(key string) {
	if f == nil {
		return
	}
	if _, ok := f.values[key]; !ok {
		return
	}
	delete(f.values, key)
	f.keys = slices.DeleteFunc(f.keys, func(k string) bool { return k == key })
}

// Keys returns the keys in insertion order.
func (f *Fields) Keys() []string {
	if f == nil {
		return nil
	}
	return slices.Clone(f.keys)
}

// Len returns the number of keys.
func (f *Fields) Len() int {
	if f == nil {
		return 0
	}
	return len(f.keys)
}

// MarshalJSON writes the fields as a JSON object in insertion order.
func (f *Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range f.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(toDTO(f.values[k]))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object keeping the order of its keys.
func (f *Fields) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*f = Fields{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("fields: expected object, got %v", tok)
	}
	out := Fields{values: map[string]Field{}}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("fields: expected key, got %v", tok)
		}
		var dto fieldDTO
		if err := dec.Decode(&dto); err != nil {
			return fmt.Errorf("fields: %s: %w", key, err)
		}
		field, err := dto.field()
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "field %q", key)
		}
		out.Set(key, field)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*f = out
	return nil
}

type thresholdsDTO struct {
	Bounds  []float64 `json:"bounds" toml:"bounds"`
	Colours []string  `json:"colours" toml:"colours"`
}

// fieldDTO is the file representation shared by the JSON and TOML readers.
type fieldDTO struct {
	Type              string         `json:"type" toml:"type"`
	Display           string         `json:"display,omitempty" toml:"display"`
	Colour            string         `json:"colour,omitempty" toml:"colour"`
	ColourSettings    *thresholdsDTO `json:"colourSettings,omitempty" toml:"colourSettings"`
	Orientation       string         `json:"orientation,omitempty" toml:"orientation"`
	Algorithm         string         `json:"algorithm,omitempty" toml:"algorithm"`
	LoadConfiguration string         `json:"loadConfiguration,omitempty" toml:"loadConfiguration"`
	Value             *bool          `json:"value,omitempty" toml:"value"`
}

func (d fieldDTO) thresholds() (Thresholds, error) {
	if d.ColourSettings == nil {
		return Thresholds{}, fmt.Errorf("%s requires colourSettings", d.Type)
	}
	return NewThresholds(d.ColourSettings.Bounds, d.ColourSettings.Colours)
}

func (d fieldDTO) field() (Field, error) {
	switch Kind(d.Type) {
	case KindText:
		if d.Colour != "" && !ValidColour(d.Colour) {
			return nil, fmt.Errorf("invalid colour %q", d.Colour)
		}
		return Text{Display: d.Display, Colour: d.Colour}, nil
	case KindColouredText:
		t, err := d.thresholds()
		if err != nil {
			return nil, err
		}
		return ColouredText{Display: d.Display, Thresholds: t}, nil
	case KindFill:
		t, err := d.thresholds()
		if err != nil {
			return nil, err
		}
		return Fill{Thresholds: t}, nil
	case KindCoordinates:
		return Coordinates{Orientation: ParseOrientation(d.Orientation)}, nil
	case KindRouting:
		t, err := d.thresholds()
		if err != nil {
			return nil, err
		}
		r := Routing{Algorithm: d.Algorithm, Thresholds: t, Display: d.Display}
		switch d.LoadConfiguration {
		case "", "Percentage":
			r.LoadDisplay = Percentage
		case "Fraction":
			r.LoadDisplay = Fraction
		default:
			return nil, fmt.Errorf("unknown loadConfiguration %q", d.LoadConfiguration)
		}
		return r, nil
	case KindBoolean:
		if d.Value == nil {
			return nil, fmt.Errorf("Boolean requires value")
		}
		return Boolean{Value: *d.Value}, nil
	}
	return nil, fmt.Errorf("unknown field type %q", d.Type)
}

func toDTO(f Field) fieldDTO {
	settings := func(t Thresholds) *thresholdsDTO {
		return &thresholdsDTO{Bounds: slices.Clone(t.Bounds[:]), Colours: slices.Clone(t.Colours[:])}
	}
	switch v := f.(type) {
	case Text:
		return fieldDTO{Type: string(KindText), Display: v.Display, Colour: v.Colour}
	case ColouredText:
		return fieldDTO{Type: string(KindColouredText), Display: v.Display, ColourSettings: settings(v.Thresholds)}
	case Fill:
		return fieldDTO{Type: string(KindFill), ColourSettings: settings(v.Thresholds)}
	case Coordinates:
		return fieldDTO{Type: string(KindCoordinates), Orientation: v.Orientation.String()}
	case Routing:
		return fieldDTO{Type: string(KindRouting), Algorithm: v.Algorithm, LoadConfiguration: v.LoadDisplay.String(),
			ColourSettings: settings(v.Thresholds), Display: v.Display}
	case Boolean:
		b := v.Value
		return fieldDTO{Type: string(KindBoolean), Value: &b}
	}
	return fieldDTO{}
}
