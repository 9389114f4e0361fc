package evaluator

import (
	"badminton-eval-go/core"
	"badminton-eval-go/models"
)

type scoreRange struct {
	min, max float64
}

// AFLP1Max is the top of the tier 4 range and the ceiling of a manual AFLP1
// score. Keep it in sync with the lte bound on FinalInput.AFLP1Score.
const AFLP1Max = 7

var (
	// AFLP1 score ranges per degree tier. Tier 4 tops out at AFLP1Max, above the
	// 6 points the axis is nominally worth; the final total is not capped.
	aflp1Ranges = map[int]scoreRange{
		1: {min: 0, max: 1},
		2: {min: 1.5, max: 3},
		3: {min: 3.5, max: 5},
		4: {min: 5.5, max: AFLP1Max},
	}

	aflp2Scores = map[int]float64{
		1: 0.5,
		2: 1.5,
		3: 3,
		4: 4.5,
	}
)

// FinalInput holds the selections of a final evaluation. AFLP1Score, when set,
// replaces the score suggested from the match ratio, and AFLP1Degree, when
// non-zero, replaces the tier.
type FinalInput struct {
	TotalMatches int      `json:"totalMatches" validate:"gte=0"`
	WonMatches   int      `json:"wonMatches" validate:"gte=0,ltefield=TotalMatches"`
	AFLP1Degree  int      `json:"aflp1Degree" validate:"optdegree"`
	AFLP2Degree  int      `json:"aflp2Degree" validate:"optdegree"`
	AFLP1Score   *float64 `json:"aflp1Score" validate:"omitempty,gte=0,lte=7"`
}

// MatchTier buckets a win ratio into a degree tier: 0 wins is tier 1, under half
// is tier 2, under 90% is tier 3, anything above is tier 4.
func MatchTier(ratio float64) int {
	switch {
	case ratio == 0:
		return 1
	case ratio < 0.5:
		return 2
	case ratio < 0.9:
		return 3
	default:
		return 4
	}
}

// SuggestAFLP1 derives the AFLP1 tier and score from the matches played. With no
// match played AFLP1 is left unevaluated (tier 0, score 0).
func SuggestAFLP1(wonMatches, totalMatches int) (int, models.Score) {
	if totalMatches <= 0 {
		return 0, 0
	}
	ratio := float64(wonMatches) / float64(totalMatches)
	tier := MatchTier(ratio)
	rng := aflp1Ranges[tier]
	return tier, models.NewScore(rng.min + ratio*(rng.max-rng.min))
}

// AFLP2Score maps a degree to its fixed score; 0 (not selected) scores nothing.
func AFLP2Score(degree int) models.Score {
	return models.NewScore(aflp2Scores[degree])
}

// EvaluateFinal computes the final breakdown. It only refuses inputs where
// neither axis earns a point.
func EvaluateFinal(in FinalInput) (models.FinalBreakdown, error) {
	if err := core.ValidateStruct(in); err != nil {
		return models.FinalBreakdown{}, err
	}

	tier, aflp1 := SuggestAFLP1(in.WonMatches, in.TotalMatches)
	if in.AFLP1Score != nil {
		aflp1 = models.NewScore(*in.AFLP1Score)
	}
	if in.AFLP1Degree > 0 {
		tier = in.AFLP1Degree
	}
	aflp2 := AFLP2Score(in.AFLP2Degree)

	if aflp1 == 0 && aflp2 == 0 {
		return models.FinalBreakdown{}, core.NewValidationError(ErrNothingEvaluated,
			core.FieldError{Field: "aflp1Score", Error: requiredText},
			core.FieldError{Field: "aflp2Degree", Error: requiredText},
		)
	}

	return models.FinalBreakdown{
		TotalMatches: in.TotalMatches,
		WonMatches:   in.WonMatches,
		AFLP1Degree:  tier,
		AFLP2Degree:  in.AFLP2Degree,
		AFLP1Score:   aflp1,
		AFLP2Score:   aflp2,
		TotalScore:   models.NewScore(aflp1.Float64() + aflp2.Float64()),
	}, nil
}
