package evaluator

import (
	"badminton-eval-go/core"
	"badminton-eval-go/models"
)

// SequenceInput holds the selections of a sequence evaluation. A zero degree
// means "not selected yet"; an empty distribution means the default 4-4.
type SequenceInput struct {
	Distribution models.Distribution `json:"pointsDistribution" validate:"oneof=4-4 5-3 6-2 3-5 2-6"`
	AFLP4Degree  int                 `json:"aflp4Degree" validate:"degree"`
	AFLP5Degree  int                 `json:"aflp5Degree" validate:"degree"`
}

// AxisScore scales a 1-4 degree onto an axis worth maxPoints: degree 4 earns every point.
func AxisScore(degree, maxPoints int) models.Score {
	coefficient := float64(maxPoints) / 4
	return models.NewScore(float64(degree) * coefficient)
}

// EvaluateSequence computes the sequence breakdown. The total is the sum of the
// already rounded axis scores.
func EvaluateSequence(in SequenceInput) (models.SequenceBreakdown, error) {
	if in.Distribution == "" {
		in.Distribution = models.DefaultDistribution
	}

	var missing []core.FieldError
	if in.AFLP4Degree == 0 {
		missing = append(missing, core.FieldError{Field: "aflp4Degree", Error: requiredText})
	}
	if in.AFLP5Degree == 0 {
		missing = append(missing, core.FieldError{Field: "aflp5Degree", Error: requiredText})
	}
	if len(missing) > 0 {
		return models.SequenceBreakdown{}, core.NewValidationError(ErrIncomplete, missing...)
	}
	if err := core.ValidateStruct(in); err != nil {
		return models.SequenceBreakdown{}, err
	}

	max4, max5, err := in.Distribution.Points()
	if err != nil {
		return models.SequenceBreakdown{}, err
	}
	aflp4 := AxisScore(in.AFLP4Degree, max4)
	aflp5 := AxisScore(in.AFLP5Degree, max5)

	return models.SequenceBreakdown{
		PointsDistribution: in.Distribution,
		AFLP4Degree:        in.AFLP4Degree,
		AFLP5Degree:        in.AFLP5Degree,
		AFLP4Score:         aflp4,
		AFLP5Score:         aflp5,
		TotalScore:         models.NewScore(aflp4.Float64() + aflp5.Float64()),
	}, nil
}
