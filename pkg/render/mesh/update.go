package mesh

import (
	"fmt"
	"maps"

	"github.com/matzehuels/meshview/pkg/config"
	"github.com/matzehuels/meshview/pkg/errors"
)

// UpdateRequest describes a change to a committed document.
type UpdateRequest struct {
	// Config replaces the committed configuration. Nil keeps it.
	Config *config.Configuration `json:"configuration,omitempty"`
	// Toggles lists tasks whose badge switches between the plain and the
	// computed-cost variant. A task listed twice switches back.
	Toggles []int `json:"toggles,omitempty"`
}

// Update is the result of a successful update: the fragments a client
// swaps into its copy of the document.
type Update struct {
	Style   string `json:"style"`
	Overlay string `json:"information"`
	// ViewBox is set only when the visible area grew.
	ViewBox *string `json:"viewBox,omitempty"`
}

// Update applies req. It saves the visible area and the task variants,
// recomputes the stylesheet and the overlay, and commits only if every step
// succeeds. On error the document is exactly as it was before the call.
//
// The visible area never shrinks: a configuration that needs less room
// than the committed one keeps the committed bounds.
func (d *Document) Update(req UpdateRequest) (*Update, error) {
	if d.state != Committed {
		return nil, errPending()
	}
	d.state = Pending

	saved := d.bounds.Snapshot()
	variants := maps.Clone(d.computed)
	rollback := func() {
		d.bounds.Restore(saved)
		d.computed = variants
		d.state = Committed
	}

	cfg := req.Config
	if cfg == nil {
		cfg = d.config
	}

	d.computed = maps.Clone(variants)
	for _, id := range req.Toggles {
		if err := d.toggle(id); err != nil {
			rollback()
			return nil, err
		}
	}

	res, acc, err := d.pass(cfg)
	if err != nil {
		rollback()
		return nil, err
	}

	grew := d.bounds.Extend(acc.Apply(d.baseBounds()))
	d.commit(cfg, res)

	out := &Update{Style: res.Style, Overlay: res.Overlay}
	if grew {
		vb := d.bounds.String()
		out.ViewBox = &vb
	}
	return out, nil
}

// toggle flips the badge variant of a task. The plain variant is stored as
// an absent key so that two flips restore the original map.
func (d *Document) toggle(task int) error {
	if _, ok := d.topo.TaskCore(task); !ok {
		return &errors.TopologyMismatchError{CoreID: -1, Subject: "task", Detail: fmt.Sprintf("task %d is not allocated to a core", task)}
	}
	if d.computed[task] {
		delete(d.computed, task)
	} else {
		d.computed[task] = true
	}
	return nil
}
