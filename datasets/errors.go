package datasets

import "github.com/pkg/errors"

// ErrLoad is returned when a fold is missing or corrupt.
var ErrLoad = errors.New("dataset load error")

// ErrShapeMismatch is returned when parallel sequences are misaligned.
var ErrShapeMismatch = errors.New("shape mismatch")

// ErrUnknown is returned when an index or string is not in a vocabulary.
var ErrUnknown = errors.New("unknown vocabulary entry")
