package sistosched

import "errors"

// configuration errors; returned before any simulation work is done
var (
	ErrInvalidQuantum   = errors.New("invalid quantum")
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
	ErrUnknownMode      = errors.New("unknown mode")
)
