package trainer

import "math"

import "github.com/neurlang/slotfiller/conlleval"

// State is the progress of a run. Only the Trainer updates it.
type State struct {
	// Epoch is the last completed epoch, -1 before the first
	Epoch int
	// BestEpoch is the last promoted epoch, -1 before the first promotion
	BestEpoch int
	// BestF1 is the validation F1 of BestEpoch, -Inf before the first promotion
	BestF1 float64

	// Valid and Test are the results of BestEpoch
	Valid, Test conlleval.Result

	Promotions int
}

func newState() State {
	return State{
		Epoch:     -1,
		BestEpoch: -1,
		BestF1:    math.Inf(-1),
	}
}

// Stale returns the number of completed epochs since the last promotion
func (s State) Stale() int {
	return s.Epoch - s.BestEpoch
}
