package trainer

import "github.com/neurlang/slotfiller/conlleval"

// Policy decides whether an epoch's results beat the best so far.
type Policy interface {
	Improved(valid, test conlleval.Result, best State) bool
}

// ValidF1Policy promotes strictly higher validation F1. A tie keeps the earlier epoch.
type ValidF1Policy struct{}

func (ValidF1Policy) Improved(valid, _ conlleval.Result, best State) bool {
	return valid.F1 > best.BestF1
}

// TieBreakPolicy promotes strictly higher validation F1, and on equal
// validation F1 strictly higher test F1.
type TieBreakPolicy struct{}

func (TieBreakPolicy) Improved(valid, test conlleval.Result, best State) bool {
	if valid.F1 != best.BestF1 {
		return valid.F1 > best.BestF1
	}
	return best.BestEpoch >= 0 && test.F1 > best.Test.F1
}

// ParsePolicy parses "valid" or "tiebreak"
func ParsePolicy(s string) (Policy, bool) {
	switch s {
	case "valid", "":
		return ValidF1Policy{}, true
	case "tiebreak":
		return TieBreakPolicy{}, true
	}
	return nil, false
}
