package handlers

import (
	"fmt"

	"badminton-eval-go/evaluator"
	"badminton-eval-go/models"
)

// SaveSequence computes the sequence breakdown of a student and stores it,
// replacing any previous one.
func (h *Handler) SaveSequence(studentID string, in evaluator.SequenceInput) (models.SequenceBreakdown, error) {
	st, err := h.requireStudent(studentID)
	if err != nil {
		return models.SequenceBreakdown{}, err
	}
	b, err := evaluator.EvaluateSequence(in)
	if err != nil {
		return models.SequenceBreakdown{}, err
	}
	if err := h.Store.UpsertEvaluation(st.ID, b); err != nil {
		return models.SequenceBreakdown{}, err
	}

	fmt.Fprintf(h.Out, "Sequence saved for %s: AFLP4 %s + AFLP5 %s = %s/%d\n",
		st.Name, b.AFLP4Score, b.AFLP5Score, b.TotalScore, evaluator.SequenceMax)
	return b, nil
}

// SaveFinal computes the final breakdown of a student and stores it, replacing
// any previous one.
func (h *Handler) SaveFinal(studentID string, in evaluator.FinalInput) (models.FinalBreakdown, error) {
	st, err := h.requireStudent(studentID)
	if err != nil {
		return models.FinalBreakdown{}, err
	}
	b, err := evaluator.EvaluateFinal(in)
	if err != nil {
		return models.FinalBreakdown{}, err
	}
	if err := h.Store.UpsertEvaluation(st.ID, b); err != nil {
		return models.FinalBreakdown{}, err
	}

	fmt.Fprintf(h.Out, "Final saved for %s: AFLP1 %s + AFLP2 %s = %s/%d\n",
		st.Name, b.AFLP1Score, b.AFLP2Score, b.TotalScore, evaluator.FinalMax)
	return b, nil
}

// ShowEvaluation prints both evaluations of a student and the overall total.
func (h *Handler) ShowEvaluation(studentID string) error {
	st, err := h.requireStudent(studentID)
	if err != nil {
		return err
	}

	fmt.Fprintf(h.Out, "%s (%s)\n", st.Name, h.className(st.ClassID))

	if e, ok := h.Store.GetEvaluation(st.ID, models.EvalSequence); ok {
		if s, ok := e.Data.(models.SequenceBreakdown); ok {
			fmt.Fprintf(h.Out, "  Sequence (%s): AFLP4 degree %d -> %s, AFLP5 degree %d -> %s, total %s/%d\n",
				s.PointsDistribution, s.AFLP4Degree, s.AFLP4Score, s.AFLP5Degree, s.AFLP5Score, s.TotalScore, evaluator.SequenceMax)
		}
	} else {
		fmt.Fprintln(h.Out, "  Sequence: not evaluated")
	}

	if e, ok := h.Store.GetEvaluation(st.ID, models.EvalFinal); ok {
		if f, ok := e.Data.(models.FinalBreakdown); ok {
			fmt.Fprintf(h.Out, "  Final: %d/%d matches won, AFLP1 degree %d -> %s, AFLP2 degree %d -> %s, total %s/%d\n",
				f.WonMatches, f.TotalMatches, f.AFLP1Degree, f.AFLP1Score, f.AFLP2Degree, f.AFLP2Score, f.TotalScore, evaluator.FinalMax)
		}
	} else {
		fmt.Fprintln(h.Out, "  Final: not evaluated")
	}

	fmt.Fprintf(h.Out, "  Total: %s/%d\n", models.FormatScore(h.Store.TotalScore(st.ID)), evaluator.OverallMax)
	return nil
}

// Suggest prints the AFLP1 tier and score a match record would earn, without
// storing anything.
func (h *Handler) Suggest(won, total int) {
	tier, score := evaluator.SuggestAFLP1(won, total)
	if tier == 0 {
		fmt.Fprintln(h.Out, "AFLP1 not evaluated: no match played")
		return
	}
	fmt.Fprintf(h.Out, "AFLP1 degree %d, suggested score %s\n", tier, score)
}
