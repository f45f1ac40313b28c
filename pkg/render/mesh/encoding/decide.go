package encoding

import (
	"fmt"
	"math"

	"github.com/matzehuels/meshview/pkg/config"
	"github.com/matzehuels/meshview/pkg/render/mesh/styles"
	"github.com/matzehuels/meshview/pkg/topology"
)

// Load label defaults.
const (
	DefaultLoadDisplay = "Load"
	// ZeroBandwidthText replaces the percentage of a channel without bandwidth.
	ZeroBandwidthText = "N/A"
)

// Decision is what the configuration makes of one element's attributes.
type Decision struct {
	Lines []styles.Line
	Fill  string // colour of the first matched Fill key, empty when none
}

// Decide walks fields in order and matches each key against attrs. Keys
// missing from attrs are skipped and take no line, so the first matched
// text key always lands on the first line. Coordinates, Routing and
// Boolean fields never produce lines here.
func Decide(fields *config.Fields, attrs topology.Attributes) Decision {
	var d Decision
	for _, key := range fields.Keys() {
		v, ok := attrs.Get(key)
		if !ok {
			continue
		}
		f, _ := fields.Get(key)
		switch f := f.(type) {
		case config.Text:
			d.Lines = append(d.Lines, styles.Line{Text: label(f.Display, key, v), Colour: f.Colour})
		case config.ColouredText:
			line := styles.Line{Text: label(f.Display, key, v)}
			if v.Numeric {
				line.Colour = f.Thresholds.Colour(v.Number)
			}
			d.Lines = append(d.Lines, line)
		case config.Fill:
			if v.Numeric && d.Fill == "" {
				d.Fill = f.Thresholds.Colour(v.Number)
			}
		case config.Coordinates, config.Routing, config.Boolean:
		}
	}
	return d
}

func label(display, key string, v topology.Value) string {
	if display == "" {
		display = key
	}
	return display + ": " + v.String()
}

// LoadLine formats the load of a channel and returns its colour bucket.
//
// The percentage is round(100 * load / bandwidth). A channel without
// bandwidth is never divided: it takes the saturated bucket and shows
// "load/0" in Fraction mode or [ZeroBandwidthText] in Percentage mode.
func LoadLine(r *config.Routing, load, bandwidth uint64) (text string, bucket int) {
	prefix := r.Display
	if prefix == "" {
		prefix = DefaultLoadDisplay
	}
	if bandwidth == 0 {
		if r.LoadDisplay == config.Fraction {
			return fmt.Sprintf("%s: %d/0", prefix, load), config.Saturated
		}
		return fmt.Sprintf("%s: %s", prefix, ZeroBandwidthText), config.Saturated
	}
	pct := math.Round(100 * float64(load) / float64(bandwidth))
	bucket = r.Thresholds.Bucket(pct)
	if r.LoadDisplay == config.Fraction {
		return fmt.Sprintf("%s: %d/%d", prefix, load, bandwidth), bucket
	}
	return fmt.Sprintf("%s: %s%%", prefix, styles.Num(pct)), bucket
}
