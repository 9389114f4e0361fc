package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// SnapshotVersion is the version tag written into every persisted snapshot.
const SnapshotVersion = "1.0"

// Clazz represents a class
type Clazz struct {
	ID        string    `json:"id"`        // Unique class ID
	Name      string    `json:"name"`      // Class name
	CreatedAt time.Time `json:"createdAt"` // UTC
}

// Student represents a student
type Student struct {
	ID        string    `json:"id"`        // Unique student ID
	ClassID   string    `json:"classId"`   // ID of the class the student belongs to
	Name      string    `json:"name"`      // Student name
	CreatedAt time.Time `json:"createdAt"` // UTC
}

// EvaluationType names one of the two evaluations a student receives.
type EvaluationType string

const (
	EvalSequence EvaluationType = "sequence"
	EvalFinal    EvaluationType = "final"

	// legacyFinal is the tag older backups used for the final evaluation.
	legacyFinal EvaluationType = "finale"
)

// ParseEvaluationType accepts the persisted tags, including the legacy "finale".
func ParseEvaluationType(s string) (EvaluationType, error) {
	switch EvaluationType(s) {
	case EvalSequence:
		return EvalSequence, nil
	case EvalFinal, legacyFinal:
		return EvalFinal, nil
	}
	return "", fmt.Errorf("unknown evaluation type %q", s)
}

// Evaluation is the single record kept per (student, type).
type Evaluation struct {
	StudentID string
	Type      EvaluationType
	Data      Breakdown
	UpdatedAt time.Time
}

type evaluationJSON struct {
	StudentID string          `json:"studentId"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (e Evaluation) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(evaluationJSON{
		StudentID: e.StudentID,
		Type:      string(e.Type),
		Data:      data,
		UpdatedAt: e.UpdatedAt,
	})
}

func (e *Evaluation) UnmarshalJSON(b []byte) error {
	var raw evaluationJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	typ, err := ParseEvaluationType(raw.Type)
	if err != nil {
		return err
	}

	var data Breakdown
	switch typ {
	case EvalSequence:
		var seq SequenceBreakdown
		if len(raw.Data) > 0 {
			if err := json.Unmarshal(raw.Data, &seq); err != nil {
				return fmt.Errorf("sequence data: %w", err)
			}
		}
		data = seq
	case EvalFinal:
		var fin FinalBreakdown
		if len(raw.Data) > 0 {
			if err := json.Unmarshal(raw.Data, &fin); err != nil {
				return fmt.Errorf("final data: %w", err)
			}
		}
		data = fin
	}

	*e = Evaluation{
		StudentID: raw.StudentID,
		Type:      typ,
		Data:      data,
		UpdatedAt: raw.UpdatedAt,
	}
	return nil
}

// TotalScore is the stored total of the evaluation, 0 when it carries no data.
func (e Evaluation) TotalScore() float64 {
	if e.Data == nil {
		return 0
	}
	return e.Data.Total().Float64()
}

// Snapshot is the whole persisted state: what gets written on every mutation,
// exported as a backup and read back on import.
type Snapshot struct {
	Classes     []Clazz      `json:"classes"`
	Students    []Student    `json:"students"`
	Evaluations []Evaluation `json:"evaluations"`
	Version     string       `json:"version"`
}

// NewSnapshot returns an empty snapshot whose collections encode as [] rather than null.
func NewSnapshot() Snapshot {
	return Snapshot{
		Classes:     []Clazz{},
		Students:    []Student{},
		Evaluations: []Evaluation{},
		Version:     SnapshotVersion,
	}
}

// Clone copies the collections so the result can be mutated independently.
// Breakdowns are values and are shared safely.
func (s Snapshot) Clone() Snapshot {
	c := Snapshot{
		Classes:     make([]Clazz, len(s.Classes)),
		Students:    make([]Student, len(s.Students)),
		Evaluations: make([]Evaluation, len(s.Evaluations)),
		Version:     s.Version,
	}
	copy(c.Classes, s.Classes)
	copy(c.Students, s.Students)
	copy(c.Evaluations, s.Evaluations)
	return c
}

func (s Snapshot) FindClass(id string) (Clazz, bool) {
	for _, c := range s.Classes {
		if c.ID == id {
			return c, true
		}
	}
	return Clazz{}, false
}

func (s Snapshot) FindStudent(id string) (Student, bool) {
	for _, st := range s.Students {
		if st.ID == id {
			return st, true
		}
	}
	return Student{}, false
}

// FindEvaluation returns the index and value of the (studentID, typ) record, or -1.
func (s Snapshot) FindEvaluation(studentID string, typ EvaluationType) (int, Evaluation) {
	for i, e := range s.Evaluations {
		if e.StudentID == studentID && e.Type == typ {
			return i, e
		}
	}
	return -1, Evaluation{}
}

// StudentTotal sums the stored sequence and final totals of a student at full precision.
func (s Snapshot) StudentTotal(studentID string) float64 {
	var total float64
	if i, e := s.FindEvaluation(studentID, EvalSequence); i >= 0 {
		total += e.TotalScore()
	}
	if i, e := s.FindEvaluation(studentID, EvalFinal); i >= 0 {
		total += e.TotalScore()
	}
	return total
}

// ResultRow is one line of the ranked results view.
type ResultRow struct {
	Rank      int
	Student   Student
	ClassName string // empty when the class no longer exists
	Sequence  *Evaluation
	Final     *Evaluation
	Total     float64
}

// Stats summarises the whole gradebook.
type Stats struct {
	Classes     int
	Students    int
	Evaluations int
	// Average is taken over students whose total is above zero.
	Average float64
}
