package handlers

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"badminton-eval-go/core"
	"badminton-eval-go/db"
	"badminton-eval-go/evaluator"
	"badminton-eval-go/models"
)

func setup(t *testing.T) (*Handler, *bytes.Buffer) {
	t.Helper()
	store, err := db.Open(db.NewMemoryBlobStore(), zerolog.Nop())
	require.NoError(t, err)
	var out bytes.Buffer
	return NewHandler(store, &out, zerolog.Nop()), &out
}

func floatPtr(f float64) *float64 { return &f }

func TestHandler_AddClass(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid", input: "6A"},
		{name: "trimmed", input: "  5B  "},
		{name: "empty", input: "", wantErr: true},
		{name: "blank", input: "   ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := setup(t)
			c, err := h.AddClass(tt.input)
			if tt.wantErr {
				assert.True(t, core.IsValidation(err), "AddClass() error = %v", err)
				assert.Empty(t, h.Store.Classes())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, core.CleanString(tt.input), c.Name)
			assert.Len(t, h.Store.Classes(), 1)
		})
	}
}

func TestHandler_AddStudent(t *testing.T) {
	h, out := setup(t)
	c, err := h.AddClass("6A")
	require.NoError(t, err)

	st, err := h.AddStudent(c.ID, " Dupont ")
	require.NoError(t, err)
	assert.Equal(t, "Dupont", st.Name)
	assert.Contains(t, out.String(), `Student "Dupont" added`)

	_, err = h.AddStudent("nope", "Durand")
	assert.True(t, errors.Is(err, ErrClassNotFound), "AddStudent() error = %v", err)

	_, err = h.AddStudent(c.ID, "")
	assert.True(t, core.IsValidation(err))

	assert.Len(t, h.Store.Students(), 1)
}

func TestHandler_DeleteClass(t *testing.T) {
	h, out := setup(t)
	c, _ := h.AddClass("6A")
	st, _ := h.AddStudent(c.ID, "Dupont")
	_, err := h.SaveSequence(st.ID, evaluator.SequenceInput{AFLP4Degree: 2, AFLP5Degree: 2})
	require.NoError(t, err)

	require.NoError(t, h.DeleteClass(c.ID))
	assert.Contains(t, out.String(), `Class "6A" deleted with 1 student(s)`)
	assert.Empty(t, h.Store.Students())
	assert.Empty(t, h.Store.Evaluations())

	assert.True(t, errors.Is(h.DeleteClass(c.ID), ErrClassNotFound))
	assert.True(t, errors.Is(h.DeleteStudent(st.ID), ErrStudentNotFound))
}

func TestHandler_SaveSequence(t *testing.T) {
	h, out := setup(t)
	c, _ := h.AddClass("6A")
	st, _ := h.AddStudent(c.ID, "Dupont")

	b, err := h.SaveSequence(st.ID, evaluator.SequenceInput{Distribution: models.Distribution53, AFLP4Degree: 3, AFLP5Degree: 4})
	require.NoError(t, err)
	assert.Equal(t, "6.8", b.TotalScore.String())
	assert.Contains(t, out.String(), "AFLP4 3.8 + AFLP5 3.0 = 6.8/8")

	// re-saving replaces the record
	_, err = h.SaveSequence(st.ID, evaluator.SequenceInput{Distribution: models.Distribution53, AFLP4Degree: 4, AFLP5Degree: 4})
	require.NoError(t, err)
	assert.Len(t, h.Store.Evaluations(), 1)
	assert.Equal(t, 8.0, h.Store.TotalScore(st.ID))
}

func TestHandler_SaveSequence_rejected(t *testing.T) {
	h, _ := setup(t)
	c, _ := h.AddClass("6A")
	st, _ := h.AddStudent(c.ID, "Dupont")

	tests := []struct {
		name      string
		studentID string
		input     evaluator.SequenceInput
		wantErr   error
	}{
		{name: "unknown student", studentID: "nope", input: evaluator.SequenceInput{AFLP4Degree: 1, AFLP5Degree: 1}, wantErr: ErrStudentNotFound},
		{name: "missing degree", studentID: st.ID, input: evaluator.SequenceInput{AFLP4Degree: 3}, wantErr: evaluator.ErrIncomplete},
		{name: "degree out of range", studentID: st.ID, input: evaluator.SequenceInput{AFLP4Degree: 5, AFLP5Degree: 1}, wantErr: core.ErrInvalidInput},
		{name: "unknown distribution", studentID: st.ID, input: evaluator.SequenceInput{Distribution: "7-1", AFLP4Degree: 1, AFLP5Degree: 1}, wantErr: core.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.SaveSequence(tt.studentID, tt.input)
			assert.True(t, errors.Is(err, tt.wantErr), "SaveSequence() error = %v, wantErr %v", err, tt.wantErr)
			assert.Empty(t, h.Store.Evaluations())
		})
	}
}

func TestHandler_SaveFinal(t *testing.T) {
	h, _ := setup(t)
	c, _ := h.AddClass("6A")
	st, _ := h.AddStudent(c.ID, "Dupont")

	b, err := h.SaveFinal(st.ID, evaluator.FinalInput{TotalMatches: 3, WonMatches: 2, AFLP2Degree: 3})
	require.NoError(t, err)
	assert.Equal(t, "7.5", b.TotalScore.String())

	b, err = h.SaveFinal(st.ID, evaluator.FinalInput{TotalMatches: 3, WonMatches: 2, AFLP2Degree: 4, AFLP1Score: floatPtr(5)})
	require.NoError(t, err)
	assert.Equal(t, "9.5", b.TotalScore.String())
	assert.Equal(t, 3, b.AFLP1Degree)

	_, err = h.SaveFinal(st.ID, evaluator.FinalInput{TotalMatches: 2, WonMatches: 3, AFLP2Degree: 1})
	assert.True(t, core.IsValidation(err))

	_, err = h.SaveFinal(st.ID, evaluator.FinalInput{})
	assert.True(t, errors.Is(err, evaluator.ErrNothingEvaluated))

	got, ok := h.Store.GetEvaluation(st.ID, models.EvalFinal)
	require.True(t, ok)
	assert.Equal(t, models.Score(9.5), got.Data.Total())
}

func TestHandler_totalStaysWithinOverallMax(t *testing.T) {
	h, _ := setup(t)
	c, _ := h.AddClass("6A")
	st, _ := h.AddStudent(c.ID, "Dupont")

	_, err := h.SaveSequence(st.ID, evaluator.SequenceInput{AFLP4Degree: 4, AFLP5Degree: 4})
	require.NoError(t, err)

	_, err = h.SaveFinal(st.ID, evaluator.FinalInput{TotalMatches: 3, WonMatches: 3, AFLP2Degree: 4, AFLP1Score: floatPtr(50)})
	assert.True(t, core.IsValidation(err), "SaveFinal() error = %v", err)
	_, ok := h.Store.GetEvaluation(st.ID, models.EvalFinal)
	assert.False(t, ok)

	_, err = h.SaveFinal(st.ID, evaluator.FinalInput{TotalMatches: 3, WonMatches: 3, AFLP2Degree: 4, AFLP1Score: floatPtr(evaluator.AFLP1Max)})
	require.NoError(t, err)
	assert.LessOrEqual(t, h.Store.TotalScore(st.ID), float64(evaluator.OverallMax))
	assert.InDelta(t, 19.5, h.Store.TotalScore(st.ID), 1e-9)
}

func TestHandler_ShowEvaluation(t *testing.T) {
	h, out := setup(t)
	c, _ := h.AddClass("6A")
	st, _ := h.AddStudent(c.ID, "Dupont")
	_, err := h.SaveSequence(st.ID, evaluator.SequenceInput{Distribution: models.Distribution53, AFLP4Degree: 3, AFLP5Degree: 4})
	require.NoError(t, err)
	out.Reset()

	require.NoError(t, h.ShowEvaluation(st.ID))
	assert.Contains(t, out.String(), "Dupont (6A)")
	assert.Contains(t, out.String(), "total 6.8/8")
	assert.Contains(t, out.String(), "Final: not evaluated")
	assert.Contains(t, out.String(), "Total: 6.8/20")
}

func TestHandler_ResultsAndStats(t *testing.T) {
	h, out := setup(t)
	c, _ := h.AddClass("6A")
	low, _ := h.AddStudent(c.ID, "Dupont")
	high, _ := h.AddStudent(c.ID, "Durand")
	_, err := h.SaveSequence(low.ID, evaluator.SequenceInput{AFLP4Degree: 1, AFLP5Degree: 1})
	require.NoError(t, err)
	_, err = h.SaveSequence(high.ID, evaluator.SequenceInput{AFLP4Degree: 4, AFLP5Degree: 4})
	require.NoError(t, err)
	out.Reset()

	require.NoError(t, h.Results(""))
	lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Contains(t, string(lines[1]), "Durand")
	assert.Contains(t, string(lines[1]), "8.0/20")
	assert.Contains(t, string(lines[2]), "Dupont")

	assert.True(t, errors.Is(h.Results("nope"), ErrClassNotFound))

	out.Reset()
	require.NoError(t, h.Stats())
	assert.Contains(t, out.String(), "Students     2")
	assert.Contains(t, out.String(), "Average      5.0/20") // (2.0 + 8.0) / 2
}

func TestHandler_ExportImportJSON(t *testing.T) {
	h, _ := setup(t)
	c, _ := h.AddClass("6A")
	st, _ := h.AddStudent(c.ID, "Dupont")
	_, err := h.SaveFinal(st.ID, evaluator.FinalInput{TotalMatches: 3, WonMatches: 2, AFLP2Degree: 3})
	require.NoError(t, err)

	var backup bytes.Buffer
	require.NoError(t, h.ExportJSON(&backup))

	other, out := setup(t)
	require.NoError(t, other.ImportJSON(&backup))
	assert.Contains(t, out.String(), "1 class(es), 1 student(s), 1 evaluation(s)")
	want, err := h.Store.ExportSnapshot()
	require.NoError(t, err)
	got, err := other.Store.ExportSnapshot()
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got))

	err = other.ImportJSON(bytes.NewBufferString(`{"classes": []}`))
	assert.True(t, errors.Is(err, db.ErrInvalidSnapshot))
	assert.Len(t, other.Store.Students(), 1)
}

func TestHandler_ExportCSV(t *testing.T) {
	h, _ := setup(t)
	c, _ := h.AddClass("6A")
	st, _ := h.AddStudent(c.ID, "Dupont")
	_, err := h.SaveSequence(st.ID, evaluator.SequenceInput{Distribution: models.Distribution53, AFLP4Degree: 3, AFLP5Degree: 4})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, h.ExportCSV(&buf))
	assert.Contains(t, buf.String(), "6A,Dupont,3,3.8,4,3.0,6.8,,,,,,6.8\n")
}

func TestHandler_ImportRoster(t *testing.T) {
	h, _ := setup(t)
	c, _ := h.AddClass("6A")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, v := range []string{"Nom", "Dupont", "", "Durand"} {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetCellValue(sheet, cell, v))
	}
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	n, err := h.ImportRoster(c.ID, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, h.Store.StudentsByClass(c.ID), 2)

	_, err = h.ImportRoster("nope", bytes.NewReader(buf.Bytes()))
	assert.True(t, errors.Is(err, ErrClassNotFound))
}

func TestHandler_Reset(t *testing.T) {
	h, _ := setup(t)
	_, _ = h.AddClass("6A")

	require.NoError(t, h.Reset())
	assert.Equal(t, models.Stats{}, h.Store.Stats())
}
