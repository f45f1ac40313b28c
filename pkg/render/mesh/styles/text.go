package styles

import (
	"bytes"
	"encoding/xml"
	"math"
	"strconv"
)

// LineHeightRatio converts a font size to the distance between baselines.
const LineHeightRatio = 1.25

// LineHeight returns the baseline distance for a font size.
func LineHeight(fontSize float64) float64 { return Round(fontSize * LineHeightRatio) }

func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// Round rounds to two decimals so measured widths print stably.
func Round(v float64) float64 { return math.Round(v*100) / 100 }

// Num formats a coordinate.
func Num(v float64) string { return strconv.FormatFloat(Round(v), 'f', -1, 64) }
