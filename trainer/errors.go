package trainer

import "github.com/pkg/errors"

// ErrTrainStep is returned when the model fails to train on or predict a sentence.
var ErrTrainStep = errors.New("train step failed")

// ErrScoring is returned when a split cannot be translated or scored.
var ErrScoring = errors.New("scoring failed")

// ErrCheckpoint is returned when the best checkpoint or reports cannot be persisted.
var ErrCheckpoint = errors.New("checkpoint failed")

// ErrConfig is returned by Config.Validate.
var ErrConfig = errors.New("invalid config")

// kindError tags a cause with one of the sentinels above while keeping the
// cause reachable, so both errors.Is(err, ErrScoring) and
// errors.Is(err, conlleval.ErrLength) hold.
type kindError struct {
	kind error
	err  error
}

func (e *kindError) Error() string {
	return e.kind.Error() + ": " + e.err.Error()
}

func (e *kindError) Unwrap() error {
	return e.err
}

func (e *kindError) Is(target error) bool {
	return target == e.kind
}

func kind(k error, err error, format string, args ...interface{}) error {
	return &kindError{kind: k, err: errors.WithMessagef(err, format, args...)}
}
