package solver

import "errors"

var (
	// ErrConfig marks a configuration error detected before search begins:
	// a missing or empty level, or an allotment the engine cannot hold.
	ErrConfig = errors.New("solver: configuration error")

	// ErrValidation means the search reported a goal that the independent
	// post-hoc check rejects. It signals a defect in the engine and must
	// never be treated as "unsolvable".
	ErrValidation = errors.New("solver: solution failed validation")

	// ErrHintIndex is returned for a hint index outside 1..len-2.
	ErrHintIndex = errors.New("solver: hint index out of range")
)
