// Package fonts measures label text for SVG layout.
//
// Widths are computed from the Go Regular face bundled with
// golang.org/x/image, so the measurements are stable across machines and
// need no font files at runtime. Browsers render the labels with
// [FontFamily], whose metrics are close enough for sizing border glyphs
// and task badges.
package fonts

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontFamily is the CSS font-family used for every label.
const FontFamily = `'Go', 'Helvetica Neue', Arial, sans-serif`

var (
	parsed     *opentype.Font
	parseOnce  sync.Once
	parseErr   error
	facesMu    sync.Mutex
	faceBySize = map[float64]font.Face{}
)

func face(size float64) (font.Face, error) {
	parseOnce.Do(func() {
		parsed, parseErr = opentype.Parse(goregular.TTF)
	})
	if parseErr != nil {
		return nil, parseErr
	}

	facesMu.Lock()
	defer facesMu.Unlock()
	if f, ok := faceBySize[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	faceBySize[size] = f
	return f, nil
}

// MeasureString returns the advance width of text in pixels at the given
// font size. When the face cannot be loaded it falls back to an estimate of
// 0.6em per rune.
func MeasureString(text string, size float64) float64 {
	if text == "" || size <= 0 {
		return 0
	}
	f, err := face(size)
	if err != nil {
		return EstimateWidth(text, size)
	}
	facesMu.Lock()
	adv := font.MeasureString(f, text)
	facesMu.Unlock()
	return float64(adv) / 64
}

// EstimateWidth approximates the width of text without font metrics.
func EstimateWidth(text string, size float64) float64 {
	return float64(len([]rune(text))) * size * 0.6
}
