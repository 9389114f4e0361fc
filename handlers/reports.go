package handlers

import (
	"bytes"
	"fmt"
	"io"

	"badminton-eval-go/evaluator"
	"badminton-eval-go/models"
	"badminton-eval-go/report"
)

// Results prints the students of classID (all when empty) ranked by total.
func (h *Handler) Results(classID string) error {
	if classID != "" {
		if _, err := h.requireClass(classID); err != nil {
			return err
		}
	}
	rows := h.Store.Results(classID)
	if len(rows) == 0 {
		fmt.Fprintln(h.Out, "No students yet.")
		return nil
	}

	tw := h.table()
	fmt.Fprintf(tw, "#\tCLASS\tNAME\tSEQUENCE (/%d)\tFINAL (/%d)\tTOTAL\n", evaluator.SequenceMax, evaluator.FinalMax)
	for _, r := range rows {
		className := r.ClassName
		if className == "" {
			className = UnknownClassLabel
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s/%d\n",
			r.Rank, className, r.Student.Name, evalTotal(r.Sequence), evalTotal(r.Final),
			models.FormatScore(r.Total), evaluator.OverallMax)
	}
	return tw.Flush()
}

func evalTotal(e *models.Evaluation) string {
	if e == nil || e.Data == nil {
		return "-"
	}
	return e.Data.Total().String()
}

// Stats prints the gradebook counters and the average total.
func (h *Handler) Stats() error {
	st := h.Store.Stats()

	tw := h.table()
	fmt.Fprintf(tw, "Classes\t%d\n", st.Classes)
	fmt.Fprintf(tw, "Students\t%d\n", st.Students)
	fmt.Fprintf(tw, "Evaluations\t%d\n", st.Evaluations)
	fmt.Fprintf(tw, "Average\t%s/%d\n", models.FormatScore(st.Average), evaluator.OverallMax)
	return tw.Flush()
}

// --- Export & Import Handlers ---

// ExportCSV writes the tabular export as CSV.
func (h *Handler) ExportCSV(w io.Writer) error {
	rows := report.Rows(h.Store.Snapshot())
	if err := report.WriteCSV(w, rows); err != nil {
		return err
	}
	h.Log.Info().Int("rows", len(rows)).Msg("CSV export written")
	return nil
}

// ExportXLSX writes the tabular export as an Excel workbook.
func (h *Handler) ExportXLSX(w io.Writer) error {
	rows := report.Rows(h.Store.Snapshot())
	if err := report.WriteXLSX(w, rows); err != nil {
		return err
	}
	h.Log.Info().Int("rows", len(rows)).Msg("XLSX export written")
	return nil
}

// ExportJSON writes a full backup of the gradebook.
func (h *Handler) ExportJSON(w io.Writer) error {
	data, err := h.Store.ExportSnapshot()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	h.Log.Info().Msg("JSON backup written")
	return nil
}

// ImportJSON replaces the whole gradebook with a backup.
func (h *Handler) ImportJSON(r io.Reader) error {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}
	if err := h.Store.ImportSnapshot(buf.Bytes()); err != nil {
		return err
	}
	st := h.Store.Stats()
	fmt.Fprintf(h.Out, "Backup imported: %d class(es), %d student(s), %d evaluation(s)\n", st.Classes, st.Students, st.Evaluations)
	return nil
}

// ImportRoster adds one student per name found in an XLSX roster.
func (h *Handler) ImportRoster(classID string, r io.Reader) (int, error) {
	c, err := h.requireClass(classID)
	if err != nil {
		return 0, err
	}
	names, err := report.ReadRoster(r)
	if err != nil {
		return 0, err
	}
	if len(names) == 0 {
		fmt.Fprintf(h.Out, "No student names found for %q\n", c.Name)
		return 0, nil
	}

	ids, err := h.Store.CreateStudents(c.ID, names)
	if err != nil {
		return 0, err
	}
	fmt.Fprintf(h.Out, "%d student(s) imported into %q\n", len(ids), c.Name)
	return len(ids), nil
}

// Reset wipes the whole gradebook.
func (h *Handler) Reset() error {
	if err := h.Store.ResetAll(); err != nil {
		return err
	}
	fmt.Fprintln(h.Out, "All data deleted.")
	return nil
}
