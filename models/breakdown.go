package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Breakdown is the score payload stored in an Evaluation.
type Breakdown interface {
	Type() EvaluationType
	Total() Score
}

// Distribution splits the 8 sequence points between AFLP4 and AFLP5, written "a-b".
type Distribution string

const (
	Distribution44 Distribution = "4-4"
	Distribution53 Distribution = "5-3"
	Distribution62 Distribution = "6-2"
	Distribution35 Distribution = "3-5"
	Distribution26 Distribution = "2-6"

	DefaultDistribution = Distribution44

	// SequenceMaxPoints is the sum of both axes of every distribution.
	SequenceMaxPoints = 8
)

// Distributions lists the accepted point splits, default first.
var Distributions = []Distribution{Distribution44, Distribution53, Distribution62, Distribution35, Distribution26}

// Points returns the maximum points of AFLP4 and AFLP5.
func (d Distribution) Points() (aflp4, aflp5 int, err error) {
	if !d.Valid() {
		return 0, 0, fmt.Errorf("unknown points distribution %q", string(d))
	}
	parts := strings.SplitN(string(d), "-", 2)
	aflp4, _ = strconv.Atoi(parts[0])
	aflp5, _ = strconv.Atoi(parts[1])
	return aflp4, aflp5, nil
}

func (d Distribution) Valid() bool {
	for _, known := range Distributions {
		if d == known {
			return true
		}
	}
	return false
}

// SequenceBreakdown is the payload of a sequence evaluation.
type SequenceBreakdown struct {
	PointsDistribution Distribution `json:"pointsDistribution"`
	AFLP4Degree        int          `json:"aflp4Degree"`
	AFLP5Degree        int          `json:"aflp5Degree"`
	AFLP4Score         Score        `json:"aflp4Score"`
	AFLP5Score         Score        `json:"aflp5Score"`
	TotalScore         Score        `json:"totalScore"`
}

func (SequenceBreakdown) Type() EvaluationType { return EvalSequence }

func (b SequenceBreakdown) Total() Score { return b.TotalScore }

// FinalBreakdown is the payload of a final evaluation. AFLP1Degree is the tier
// derived from the match ratio unless one was chosen by hand, and 0 when no
// match was played and none was chosen.
type FinalBreakdown struct {
	TotalMatches int   `json:"totalMatches"`
	WonMatches   int   `json:"wonMatches"`
	AFLP1Degree  int   `json:"aflp1Degree"`
	AFLP2Degree  int   `json:"aflp2Degree"`
	AFLP1Score   Score `json:"aflp1Score"`
	AFLP2Score   Score `json:"aflp2Score"`
	TotalScore   Score `json:"totalScore"`
}

func (FinalBreakdown) Type() EvaluationType { return EvalFinal }

func (b FinalBreakdown) Total() Score { return b.TotalScore }
