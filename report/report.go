// Package report turns the gradebook into spreadsheets and reads class rosters
// back from them.
package report

import (
	"fmt"
	"strconv"
	"time"

	"badminton-eval-go/models"
)

const (
	CSVFileName  = "evaluations_badminton.csv"
	XLSXFileName = "evaluations_badminton.xlsx"
)

// Header is the first line of every tabular export.
var Header = []string{
	"Classe", "Nom",
	"AFLP4 Degré", "AFLP4 Note", "AFLP5 Degré", "AFLP5 Note", "Note Séquence (/8)",
	"AFLP1 Degré", "AFLP1 Note", "AFLP2 Degré", "AFLP2 Note", "Note Finale (/12)",
	"Note Totale (/20)",
}

// BackupFileName is the default name of a JSON backup taken at t.
func BackupFileName(t time.Time) string {
	return fmt.Sprintf("backup_badminton_%s.json", t.Format("2006-01-02"))
}

// Row is one student line of the export.
type Row struct {
	ClassName   string // empty when the class no longer exists
	StudentName string
	Sequence    *models.SequenceBreakdown
	Final       *models.FinalBreakdown
	Total       float64
}

// Rows builds one row per student, in the order students were added.
func Rows(snap models.Snapshot) []Row {
	rows := make([]Row, 0, len(snap.Students))
	for _, st := range snap.Students {
		row := Row{StudentName: st.Name, Total: snap.StudentTotal(st.ID)}
		if c, ok := snap.FindClass(st.ClassID); ok {
			row.ClassName = c.Name
		}
		if i, e := snap.FindEvaluation(st.ID, models.EvalSequence); i >= 0 {
			if seq, ok := e.Data.(models.SequenceBreakdown); ok {
				row.Sequence = &seq
			}
		}
		if i, e := snap.FindEvaluation(st.ID, models.EvalFinal); i >= 0 {
			if fin, ok := e.Data.(models.FinalBreakdown); ok {
				row.Final = &fin
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// Cells returns the row in Header order. Degrees are ints, scores are
// models.Score, and absent values are empty strings.
func (r Row) Cells() []interface{} {
	cells := []interface{}{r.ClassName, r.StudentName}
	if s := r.Sequence; s != nil {
		cells = append(cells, degree(s.AFLP4Degree), s.AFLP4Score, degree(s.AFLP5Degree), s.AFLP5Score, s.TotalScore)
	} else {
		cells = append(cells, "", "", "", "", "")
	}
	if f := r.Final; f != nil {
		cells = append(cells, degree(f.AFLP1Degree), f.AFLP1Score, degree(f.AFLP2Degree), f.AFLP2Score, f.TotalScore)
	} else {
		cells = append(cells, "", "", "", "", "")
	}
	return append(cells, models.NewScore(r.Total))
}

// Strings is Cells rendered as text, scores with one decimal.
func (r Row) Strings() []string {
	cells := r.Cells()
	out := make([]string, len(cells))
	for i, c := range cells {
		switch v := c.(type) {
		case string:
			out[i] = v
		case int:
			out[i] = strconv.Itoa(v)
		case models.Score:
			out[i] = v.String()
		default:
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}

// degree leaves unselected levels blank.
func degree(d int) interface{} {
	if d <= 0 {
		return ""
	}
	return d
}
