// Package evaluator turns the raw selections of a badminton evaluation into
// the score breakdowns persisted by the store. Every function here is pure.
package evaluator

import "errors"

var (
	// ErrIncomplete is returned when a sequence evaluation misses a degree.
	ErrIncomplete = errors.New("every AFLP must be evaluated")
	// ErrNothingEvaluated is returned when both final axes score zero.
	ErrNothingEvaluated = errors.New("no AFLP evaluated")
)

const (
	SequenceMax = 8
	// FinalMax is the nominal cap of the final evaluation. AFLP1 can reach 7,
	// so it is not enforced.
	FinalMax   = 12
	OverallMax = SequenceMax + FinalMax
)

const requiredText = "this field is required"
