package config

import (
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/meshview/pkg/errors"
)

var traffic = Thresholds{
	Bounds:  [4]float64{25, 50, 75, 100},
	Colours: [4]string{"green", "yellow", "orange", "red"},
}

func TestBucket(t *testing.T) {
	tests := []struct {
		value float64
		want  int
	}{
		{-10, 0},
		{0, 0},
		{25, 0},
		{25.5, 1},
		{50, 1},
		{74, 2},
		{75, 2},
		{100, 3},
		{101, 3},
		{1e9, 3},
	}

	for _, tt := range tests {
		if got := traffic.Bucket(tt.value); got != tt.want {
			t.Errorf("Bucket(%v) = %d, want %d", tt.value, got, tt.want)
		}
	}
}

func TestBucketMonotonic(t *testing.T) {
	grids := []Thresholds{
		traffic,
		{Bounds: [4]float64{0, 0, 0, 0}},
		{Bounds: [4]float64{10, 10, 20, 20}},
		{Bounds: [4]float64{-5, 0, 5, 1000}},
	}
	for _, th := range grids {
		prev := -1
		for v := -50.0; v <= 1200; v += 0.5 {
			b := th.Bucket(v)
			if b < 0 || b > Saturated {
				t.Fatalf("Bucket(%v) = %d, out of range", v, b)
			}
			if b < prev {
				t.Fatalf("Bucket not monotonic for %v: %d after %d at %v", th.Bounds, b, prev, v)
			}
			prev = b
		}
	}
}

func TestNewThresholds(t *testing.T) {
	tests := []struct {
		name    string
		bounds  []float64
		colours []string
		wantErr bool
	}{
		{"valid", []float64{1, 2, 3, 4}, []string{"#fff", "#00ff00", "red", "rgb(1, 2, 3)"}, false},
		{"equal bounds", []float64{1, 1, 1, 1}, []string{"a", "b", "c", "d"}, false},
		{"too few bounds", []float64{1, 2, 3}, []string{"a", "b", "c", "d"}, true},
		{"descending", []float64{4, 3, 2, 1}, []string{"a", "b", "c", "d"}, true},
		{"css injection", []float64{1, 2, 3, 4}, []string{"red;}</style>", "b", "c", "d"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewThresholds(tt.bounds, tt.colours)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewThresholds() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFieldsOrder(t *testing.T) {
	f := NewFields()
	f.Set("b", Text{Display: "B"})
	f.Set("a", Text{Display: "A"})
	f.Set("c", Text{Display: "C"})
	f.Set("b", Text{Display: "B2"})

	if diff := cmp.Diff([]string{"b", "a", "c"}, f.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if v, _ := f.Get("b"); v.(Text).Display != "B2" {
		t.Errorf("Get(b) = %+v, want updated value", v)
	}

	f.Delete("a")
	if diff := cmp.Diff([]string{"b", "c"}, f.Keys()); diff != "" {
		t.Errorf("Keys() after Delete mismatch (-want +got):\n%s", diff)
	}

	var nilFields *Fields
	if nilFields.Len() != 0 || nilFields.Keys() != nil {
		t.Error("nil Fields should read as empty")
	}
}

const jsonConfig = `{
  "core": {
    "zeta": {"type": "Text", "display": "Zeta"},
    "alpha": {"type": "ColouredText", "display": "Alpha",
              "colourSettings": {"bounds": [1, 2, 3, 4], "colours": ["a", "b", "c", "d"]}},
    "@coordinates": {"type": "Coordinates", "orientation": "Bottom"}
  },
  "router": {"@borders": {"type": "Boolean", "value": false}},
  "channel": {
    "@load": {"type": "Routing", "algorithm": "RowFirst", "loadConfiguration": "Fraction",
              "colourSettings": {"bounds": [25, 50, 75, 100], "colours": ["green", "yellow", "orange", "red"]}}
  }
}`

func TestDecodeJSON(t *testing.T) {
	c, err := DecodeJSON([]byte(jsonConfig))
	if err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}

	if diff := cmp.Diff([]string{"zeta", "alpha", "@coordinates"}, c.Core.Keys()); diff != "" {
		t.Errorf("core keys mismatch (-want +got):\n%s", diff)
	}
	coords, err := c.Coordinates()
	if err != nil || coords == nil || coords.Orientation != Bottom {
		t.Errorf("Coordinates() = %+v, %v", coords, err)
	}
	r, err := c.Routing()
	if err != nil || r == nil || r.LoadDisplay != Fraction || r.Algorithm != "RowFirst" {
		t.Errorf("Routing() = %+v, %v", r, err)
	}
	visible, err := c.BordersVisible()
	if err != nil || visible {
		t.Errorf("BordersVisible() = %v, %v, want false", visible, err)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestJSONRoundTripKeepsOrder(t *testing.T) {
	c, err := DecodeJSON([]byte(jsonConfig))
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	again, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("DecodeJSON(Marshal()) error = %v", err)
	}
	if diff := cmp.Diff(c.Core.Keys(), again.Core.Keys()); diff != "" {
		t.Errorf("order lost (-want +got):\n%s", diff)
	}
	a, _ := again.Core.Get("alpha")
	if diff := cmp.Diff(ColouredText{Display: "Alpha", Thresholds: Thresholds{
		Bounds: [4]float64{1, 2, 3, 4}, Colours: [4]string{"a", "b", "c", "d"},
	}}, a); diff != "" {
		t.Errorf("alpha mismatch (-want +got):\n%s", diff)
	}
}

const tomlConfig = `
[core.zeta]
type = "Text"
display = "Zeta"

[core.alpha]
type = "Fill"
colourSettings = { bounds = [1, 2, 3, 4], colours = ["a", "b", "c", "d"] }

[core."@coordinates"]
type = "Coordinates"
orientation = "Sideways"

[channel."@load"]
type = "Routing"
algorithm = "ColumnFirst"
colourSettings = { bounds = [25, 50, 75, 100], colours = ["green", "yellow", "orange", "red"] }
`

func TestDecodeTOML(t *testing.T) {
	c, err := DecodeTOML([]byte(tomlConfig))
	if err != nil {
		t.Fatalf("DecodeTOML() error = %v", err)
	}
	if diff := cmp.Diff([]string{"zeta", "alpha", "@coordinates"}, c.Core.Keys()); diff != "" {
		t.Errorf("core keys mismatch (-want +got):\n%s", diff)
	}
	if f, _ := c.Core.Get("alpha"); f.Kind() != KindFill {
		t.Errorf("alpha kind = %s, want Fill", f.Kind())
	}
	coords, _ := c.Coordinates()
	if coords == nil || coords.Orientation != Top {
		t.Errorf("unknown orientation should fall back to Top, got %+v", coords)
	}
	r, _ := c.Routing()
	if r == nil || r.LoadDisplay != Percentage {
		t.Errorf("Routing() = %+v, want Percentage default", r)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		format string
		input  string
	}{
		{"unknown type", FormatJSON, `{"core": {"a": {"type": "Sparkline"}}}`},
		{"missing settings", FormatJSON, `{"core": {"a": {"type": "Fill"}}}`},
		{"boolean without value", FormatJSON, `{"router": {"@borders": {"type": "Boolean"}}}`},
		{"bad load configuration", FormatJSON, `{"channel": {"@load": {"type": "Routing", "loadConfiguration": "Ratio",
			"colourSettings": {"bounds": [1,2,3,4], "colours": ["a","b","c","d"]}}}}`},
		{"malformed toml", FormatTOML, `[core.a`},
		{"bad toml field", FormatTOML, "[core.a]\ntype = \"Fill\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input), tt.format)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Decode() error = %v, want INVALID_CONFIG", err)
			}
		})
	}

	if _, err := Decode(nil, "yaml"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Decode(yaml) error = %v, want INVALID_FORMAT", err)
	}
}

func TestValidateCollectsShapeErrors(t *testing.T) {
	c := New()
	c.Core.Set(CoordinatesKey, Text{Display: "oops"})
	c.Channel.Set(LoadKey, Fill{Thresholds: traffic})
	c.Router.Set(BordersKey, Boolean{Value: true})

	err := c.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want shape errors")
	}

	var shape *errors.ConfigurationShapeError
	if !stderrors.As(err, &shape) {
		t.Fatalf("Validate() error %v does not contain a ConfigurationShapeError", err)
	}

	type unwrapper interface{ WrappedErrors() []error }
	u, ok := err.(unwrapper)
	if !ok {
		t.Fatalf("Validate() error is %T, want a multierror", err)
	}
	if got := len(u.WrappedErrors()); got != 2 {
		t.Errorf("Validate() collected %d errors, want 2", got)
	}
}

func TestBaseClamp(t *testing.T) {
	tests := []struct {
		name string
		in   BaseConfiguration
		want BaseConfiguration
	}{
		{"zero takes defaults", BaseConfiguration{}, DefaultBase()},
		{"within range", BaseConfiguration{AttributeFontSize: 12, TaskFontSize: 20}, BaseConfiguration{AttributeFontSize: 12, TaskFontSize: 20}},
		{"too small", BaseConfiguration{AttributeFontSize: 1, TaskFontSize: 2}, BaseConfiguration{AttributeFontSize: MinAttributeFontSize, TaskFontSize: MinTaskFontSize}},
		{"too large", BaseConfiguration{AttributeFontSize: 100, TaskFontSize: 100}, BaseConfiguration{AttributeFontSize: MaxAttributeFontSize, TaskFontSize: MaxTaskFontSize}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.in.Clamp()); diff != "" {
				t.Errorf("Clamp() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
