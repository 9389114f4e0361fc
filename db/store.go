package db

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"badminton-eval-go/models"
)

// ErrInvalidSnapshot is returned when a blob is not a usable gradebook snapshot.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Store owns every class, student and evaluation. Each mutation is applied to a
// copy of the state, written through the BlobStore as one blob, and only then
// made visible, so a failed write or a cascade never leaves partial state behind.
type Store struct {
	mu    sync.RWMutex
	state models.Snapshot
	blobs BlobStore
	log   zerolog.Logger

	newID   func() string
	nowFunc func() time.Time
}

// Open loads the persisted snapshot from blobs, starting empty when there is none.
func Open(blobs BlobStore, log zerolog.Logger) (*Store, error) {
	s := &Store{
		blobs:   blobs,
		log:     log,
		newID:   newTimeID,
		nowFunc: func() time.Time { return time.Now().UTC() },
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// newTimeID returns a time-ordered unique identifier.
func newTimeID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (s *Store) load() error {
	data, err := s.blobs.Load()
	if errors.Is(err, ErrBlobNotFound) {
		s.state = models.NewSnapshot()
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load gradebook: %w", err)
	}
	snap, err := decodeSnapshot(data)
	if err != nil {
		return fmt.Errorf("failed to load gradebook: %w", err)
	}
	s.state = snap
	s.log.Debug().
		Int("classes", len(snap.Classes)).
		Int("students", len(snap.Students)).
		Int("evaluations", len(snap.Evaluations)).
		Msg("Gradebook loaded")
	return nil
}

// decodeSnapshot accepts a blob only if it holds the three collections and no
// (student, type) pair appears twice.
func decodeSnapshot(data []byte) (models.Snapshot, error) {
	var probe struct {
		Classes     json.RawMessage `json:"classes"`
		Students    json.RawMessage `json:"students"`
		Evaluations json.RawMessage `json:"evaluations"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return models.Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	for _, fld := range []struct {
		name string
		raw  json.RawMessage
	}{
		{"classes", probe.Classes},
		{"students", probe.Students},
		{"evaluations", probe.Evaluations},
	} {
		if raw := bytes.TrimSpace(fld.raw); len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
			return models.Snapshot{}, fmt.Errorf("%w: missing %s", ErrInvalidSnapshot, fld.name)
		}
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return models.Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if snap.Version == "" {
		snap.Version = models.SnapshotVersion
	}

	seen := make(map[string]bool, len(snap.Evaluations))
	for _, e := range snap.Evaluations {
		key := e.StudentID + "\x00" + string(e.Type)
		if seen[key] {
			return models.Snapshot{}, fmt.Errorf("%w: duplicate %s evaluation for student %s", ErrInvalidSnapshot, e.Type, e.StudentID)
		}
		seen[key] = true
	}
	return snap, nil
}

// commit persists next and makes it the current state. Callers hold s.mu.
func (s *Store) commit(next models.Snapshot) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode gradebook: %w", err)
	}
	if err := s.blobs.Save(data); err != nil {
		return fmt.Errorf("failed to persist gradebook: %w", err)
	}
	s.state = next
	return nil
}

// --- Class Operations ---

// CreateClass adds a class and returns its ID. The name is stored as given.
func (s *Store) CreateClass(name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	class := models.Clazz{ID: s.newID(), Name: name, CreatedAt: s.nowFunc()}
	next := s.state.Clone()
	next.Classes = append(next.Classes, class)
	if err := s.commit(next); err != nil {
		return "", fmt.Errorf("failed to add class: %w", err)
	}

	s.log.Info().Str("class_id", class.ID).Str("name", name).Msg("Class created")
	return class.ID, nil
}

// DeleteClass removes the class, its students and their evaluations in one commit.
func (s *Store) DeleteClass(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	next.Classes = slices.DeleteFunc(next.Classes, func(c models.Clazz) bool { return c.ID == id })

	removed := make(map[string]bool)
	next.Students = slices.DeleteFunc(next.Students, func(st models.Student) bool {
		if st.ClassID == id {
			removed[st.ID] = true
			return true
		}
		return false
	})
	evalsBefore := len(next.Evaluations)
	next.Evaluations = slices.DeleteFunc(next.Evaluations, func(e models.Evaluation) bool { return removed[e.StudentID] })

	if err := s.commit(next); err != nil {
		return fmt.Errorf("failed to delete class %s: %w", id, err)
	}

	s.log.Info().
		Str("class_id", id).
		Int("students_removed", len(removed)).
		Int("evaluations_removed", evalsBefore-len(next.Evaluations)).
		Msg("Class deleted")
	return nil
}

func (s *Store) Classes() []models.Clazz {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.Classes)
}

func (s *Store) Class(id string) (models.Clazz, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.FindClass(id)
}

// --- Student Operations ---

// CreateStudent adds a student under classID. The class is not looked up here;
// callers pass an existing ID.
func (s *Store) CreateStudent(classID, name string) (string, error) {
	ids, err := s.CreateStudents(classID, []string{name})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// CreateStudents adds several students to the same class with a single write.
func (s *Store) CreateStudents(classID string, names []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	ids := make([]string, 0, len(names))
	for _, name := range names {
		st := models.Student{ID: s.newID(), ClassID: classID, Name: name, CreatedAt: s.nowFunc()}
		next.Students = append(next.Students, st)
		ids = append(ids, st.ID)
	}
	if err := s.commit(next); err != nil {
		return nil, fmt.Errorf("failed to add students to class %s: %w", classID, err)
	}

	s.log.Info().Str("class_id", classID).Strs("student_ids", ids).Msg("Students created")
	return ids, nil
}

// DeleteStudent removes the student and its evaluations.
func (s *Store) DeleteStudent(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	next.Students = slices.DeleteFunc(next.Students, func(st models.Student) bool { return st.ID == id })
	next.Evaluations = slices.DeleteFunc(next.Evaluations, func(e models.Evaluation) bool { return e.StudentID == id })
	if err := s.commit(next); err != nil {
		return fmt.Errorf("failed to delete student %s: %w", id, err)
	}

	s.log.Info().Str("student_id", id).Msg("Student deleted")
	return nil
}

func (s *Store) Students() []models.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.Students)
}

func (s *Store) StudentsByClass(classID string) []models.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()

	students := make([]models.Student, 0)
	for _, st := range s.state.Students {
		if st.ClassID == classID {
			students = append(students, st)
		}
	}
	return students
}

func (s *Store) Student(id string) (models.Student, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.FindStudent(id)
}

// --- Evaluation Operations ---

// UpsertEvaluation stores data as the evaluation of its type for studentID,
// replacing the previous one in place if there is one.
func (s *Store) UpsertEvaluation(studentID string, data models.Breakdown) error {
	if data == nil {
		return errors.New("evaluation data is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	eval := models.Evaluation{
		StudentID: studentID,
		Type:      data.Type(),
		Data:      data,
		UpdatedAt: s.nowFunc(),
	}
	next := s.state.Clone()
	if i, _ := next.FindEvaluation(studentID, eval.Type); i >= 0 {
		next.Evaluations[i] = eval
	} else {
		next.Evaluations = append(next.Evaluations, eval)
	}
	if err := s.commit(next); err != nil {
		return fmt.Errorf("failed to save %s evaluation: %w", eval.Type, err)
	}

	s.log.Info().
		Str("student_id", studentID).
		Str("type", string(eval.Type)).
		Str("total", data.Total().String()).
		Msg("Evaluation saved")
	return nil
}

func (s *Store) GetEvaluation(studentID string, typ models.EvaluationType) (models.Evaluation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, e := s.state.FindEvaluation(studentID, typ)
	return e, i >= 0
}

func (s *Store) Evaluations() []models.Evaluation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.Evaluations)
}

// TotalScore sums the stored sequence and final totals of the student, 0 when
// neither exists. The sum is not rounded.
func (s *Store) TotalScore(studentID string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.StudentTotal(studentID)
}

// --- Aggregates ---

// Results ranks the students of classID (every student when classID is empty)
// by total score, highest first; ties keep insertion order.
func (s *Store) Results(classID string) []models.ResultRow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]models.ResultRow, 0, len(s.state.Students))
	for _, st := range s.state.Students {
		if classID != "" && st.ClassID != classID {
			continue
		}
		row := models.ResultRow{Student: st, Total: s.state.StudentTotal(st.ID)}
		if c, ok := s.state.FindClass(st.ClassID); ok {
			row.ClassName = c.Name
		}
		if i, e := s.state.FindEvaluation(st.ID, models.EvalSequence); i >= 0 {
			row.Sequence = &e
		}
		if i, e := s.state.FindEvaluation(st.ID, models.EvalFinal); i >= 0 {
			row.Final = &e
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Total > rows[j].Total })
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// Stats counts every collection and averages the totals of students who have one.
func (s *Store) Stats() models.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := models.Stats{
		Classes:     len(s.state.Classes),
		Students:    len(s.state.Students),
		Evaluations: len(s.state.Evaluations),
	}
	var sum float64
	var n int
	for _, st := range s.state.Students {
		if total := s.state.StudentTotal(st.ID); total > 0 {
			sum += total
			n++
		}
	}
	if n > 0 {
		stats.Average = sum / float64(n)
	}
	return stats
}

// --- Snapshot Operations ---

// Snapshot returns a copy of the whole state.
func (s *Store) Snapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// ExportSnapshot serializes the whole state as indented JSON.
func (s *Store) ExportSnapshot() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode gradebook: %w", err)
	}
	return data, nil
}

// ImportSnapshot replaces the whole state with data. Nothing changes unless data
// is a complete snapshot and it was persisted.
func (s *Store) ImportSnapshot(data []byte) error {
	snap, err := decodeSnapshot(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.commit(snap); err != nil {
		return fmt.Errorf("failed to import gradebook: %w", err)
	}

	s.log.Info().
		Int("classes", len(snap.Classes)).
		Int("students", len(snap.Students)).
		Int("evaluations", len(snap.Evaluations)).
		Msg("Gradebook imported")
	return nil
}

// ResetAll drops every entity and the persisted blob.
func (s *Store) ResetAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.blobs.Delete(); err != nil {
		return fmt.Errorf("failed to reset gradebook: %w", err)
	}
	s.state = models.NewSnapshot()

	s.log.Warn().Msg("Gradebook reset")
	return nil
}
