package generation

import "errors"

// ErrGeneration indicates the generation service call failed.
var ErrGeneration = errors.New("generation service error")
