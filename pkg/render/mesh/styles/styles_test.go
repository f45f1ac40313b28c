package styles

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/meshview/pkg/render/mesh/border"
	"github.com/matzehuels/meshview/pkg/render/mesh/bounds"
	"github.com/matzehuels/meshview/pkg/render/mesh/geometry"
)

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	Default{}.RenderText(&buf, Text{
		X: 10, Y: 20, Anchor: "start", LineHeight: 20,
		Lines: []Line{{Text: "temp: 40"}, {Text: "a<b", Colour: "red"}},
	})
	want := `<text class="label" text-anchor="start">` +
		`<tspan x="10" y="20">temp: 40</tspan>` +
		`<tspan x="10" y="40" fill="red">a&lt;b</tspan></text>` + "\n"
	if got := buf.String(); got != want {
		t.Errorf("RenderText() =\n%s\nwant\n%s", got, want)
	}

	buf.Reset()
	Default{}.RenderText(&buf, Text{Anchor: "start"})
	if buf.Len() != 0 {
		t.Errorf("RenderText() with no lines wrote %q", buf.String())
	}
}

func TestRenderGroup(t *testing.T) {
	var buf bytes.Buffer
	Default{}.RenderGroup(&buf, geometry.ProcessingGroup{ID: 2})
	out := buf.String()
	for _, want := range []string{`id="core-2"`, `clip-path="url(#clip-core-2)"`, `id="router-2"`, `x="75" y="75"`} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderGroup() missing %s in %s", want, out)
		}
	}
}

func TestRenderGlyph(t *testing.T) {
	var buf bytes.Buffer
	Default{}.RenderGlyph(&buf, border.Glyph{
		ID: "border-1-north", Variant: border.Source, Text: "T9",
		Rect: bounds.Bounds{X: 0, Y: 0, W: 48, H: 32},
	})
	out := buf.String()
	if !strings.Contains(out, `class="glyph source"`) || !strings.Contains(out, ">T9</text>") {
		t.Errorf("RenderGlyph() = %s", out)
	}

	buf.Reset()
	Default{}.RenderGlyph(&buf, border.Glyph{ID: "border-0-west", Rect: bounds.Bounds{W: 48, H: 32}})
	if strings.Contains(buf.String(), "<text") {
		t.Errorf("empty glyph rendered text: %s", buf.String())
	}
}

func TestNum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{-12.5, "-12.5"},
		{1.0 / 3, "0.33"},
		{99.999, "100"},
	}
	for _, tt := range tests {
		if got := Num(tt.in); got != tt.want {
			t.Errorf("Num(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
