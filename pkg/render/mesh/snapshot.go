package mesh

import (
	"bytes"
	"encoding/json"
	"slices"

	"github.com/matzehuels/meshview/pkg/config"
	"github.com/matzehuels/meshview/pkg/errors"
	"github.com/matzehuels/meshview/pkg/render/mesh/bounds"
	"github.com/matzehuels/meshview/pkg/topology"
)

// Snapshot is the committed state of a document in a form that can be
// stored and resumed by another process.
type Snapshot struct {
	Topology json.RawMessage          `json:"topology"`
	Base     config.BaseConfiguration `json:"base"`
	Config   *config.Configuration    `json:"configuration"`
	Computed []int                    `json:"computed,omitempty"`
	Bounds   bounds.Bounds            `json:"bounds"`
}

// Snapshot captures the committed state.
func (d *Document) Snapshot() (*Snapshot, error) {
	if d.state != Committed {
		return nil, errPending()
	}
	var buf bytes.Buffer
	if err := topology.WriteJSON(&buf, d.topo); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode topology")
	}
	s := &Snapshot{
		Topology: buf.Bytes(),
		Base:     d.base,
		Config:   d.config,
		Bounds:   d.bounds,
	}
	for id := range d.computed {
		s.Computed = append(s.Computed, id)
	}
	slices.Sort(s.Computed)
	return s, nil
}

// Resume rebuilds a document from a snapshot. The result renders the same
// SVG as the document the snapshot was taken from.
func Resume(s *Snapshot, opts ...Option) (*Document, error) {
	t, err := topology.ReadJSON(bytes.NewReader(s.Topology))
	if err != nil {
		return nil, err
	}
	opts = append([]Option{WithBase(s.Base)}, opts...)
	d, err := Render(t, s.Config, opts...)
	if err != nil {
		return nil, err
	}
	if len(s.Computed) > 0 {
		if _, err := d.Update(UpdateRequest{Toggles: s.Computed}); err != nil {
			return nil, err
		}
	}
	// Bounds only grow over a document's lifetime, so the saved area
	// already covers a fresh render of the same state.
	if s.Bounds.W > 0 && s.Bounds.H > 0 {
		d.bounds = s.Bounds
	}
	return d, nil
}
