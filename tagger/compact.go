package tagger

import "github.com/neurlang/quaternary"

import "github.com/neurlang/slotfiller/datasets"

// Decisions returns, for every non-zero weight, whether it votes for its label.
func (m *Model) Decisions() (d datasets.Dataset) {
	d.Init()
	for i, w := range m.weights {
		if w != 0 {
			d[uint32(i)] = w > 0
		}
	}
	return
}

// FilterSize returns the size in bytes of a quaternary filter holding the
// model's weight decisions, a measure of how much the model has learned.
func (m *Model) FilterSize() int {
	d := m.Decisions()
	if len(d) == 0 {
		return 0
	}
	q := quaternary.Make(d)
	return len(q)
}
