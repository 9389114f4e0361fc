// Package handlers validates user input, drives the evaluator and the store,
// and renders results for the command line.
package handlers

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rs/zerolog"

	"badminton-eval-go/core"
	"badminton-eval-go/db"
	"badminton-eval-go/models"
)

var (
	ErrClassNotFound   = errors.New("class not found")
	ErrStudentNotFound = errors.New("student not found")
)

// UnknownClassLabel stands in for the class name of a student whose class is gone.
const UnknownClassLabel = "Classe inconnue"

// Handler holds the dependencies of every command.
type Handler struct {
	Store *db.Store
	Out   io.Writer
	Log   zerolog.Logger
}

// NewHandler creates a new Handler writing its output to out.
func NewHandler(store *db.Store, out io.Writer, log zerolog.Logger) *Handler {
	return &Handler{
		Store: store,
		Out:   out,
		Log:   log,
	}
}

func (h *Handler) table() *tabwriter.Writer {
	return tabwriter.NewWriter(h.Out, 0, 0, 2, ' ', 0)
}

func (h *Handler) requireClass(id string) (models.Clazz, error) {
	c, ok := h.Store.Class(id)
	if !ok {
		return models.Clazz{}, core.NewValidationError(ErrClassNotFound, core.FieldError{Field: "classId", Error: fmt.Sprintf("no class with id %q", id)})
	}
	return c, nil
}

func (h *Handler) requireStudent(id string) (models.Student, error) {
	st, ok := h.Store.Student(id)
	if !ok {
		return models.Student{}, core.NewValidationError(ErrStudentNotFound, core.FieldError{Field: "studentId", Error: fmt.Sprintf("no student with id %q", id)})
	}
	return st, nil
}

// --- Class Handlers ---

type classInput struct {
	Name string `json:"name" validate:"required,max=100"`
}

// AddClass creates a class named name.
func (h *Handler) AddClass(name string) (models.Clazz, error) {
	in := classInput{Name: core.CleanString(name)}
	if err := core.ValidateStruct(in); err != nil {
		return models.Clazz{}, err
	}

	id, err := h.Store.CreateClass(in.Name)
	if err != nil {
		return models.Clazz{}, err
	}
	c, _ := h.Store.Class(id)
	fmt.Fprintf(h.Out, "Class %q created (%s)\n", c.Name, c.ID)
	return c, nil
}

// ListClasses prints every class with its number of students.
func (h *Handler) ListClasses() error {
	classes := h.Store.Classes()
	if len(classes) == 0 {
		fmt.Fprintln(h.Out, "No classes yet.")
		return nil
	}

	tw := h.table()
	fmt.Fprintln(tw, "ID\tNAME\tSTUDENTS")
	for _, c := range classes {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", c.ID, c.Name, len(h.Store.StudentsByClass(c.ID)))
	}
	return tw.Flush()
}

// DeleteClass removes a class with its students and their evaluations.
func (h *Handler) DeleteClass(id string) error {
	c, err := h.requireClass(id)
	if err != nil {
		return err
	}
	n := len(h.Store.StudentsByClass(id))
	if err := h.Store.DeleteClass(id); err != nil {
		return err
	}
	fmt.Fprintf(h.Out, "Class %q deleted with %d student(s)\n", c.Name, n)
	return nil
}

// --- Student Handlers ---

type studentInput struct {
	ClassID string `json:"classId" validate:"required"`
	Name    string `json:"name" validate:"required,max=100"`
}

// AddStudent creates a student in an existing class.
func (h *Handler) AddStudent(classID, name string) (models.Student, error) {
	in := studentInput{ClassID: core.CleanString(classID), Name: core.CleanString(name)}
	if err := core.ValidateStruct(in); err != nil {
		return models.Student{}, err
	}
	if _, err := h.requireClass(in.ClassID); err != nil {
		return models.Student{}, err
	}

	id, err := h.Store.CreateStudent(in.ClassID, in.Name)
	if err != nil {
		return models.Student{}, err
	}
	st, _ := h.Store.Student(id)
	fmt.Fprintf(h.Out, "Student %q added (%s)\n", st.Name, st.ID)
	return st, nil
}

// ListStudents prints the students of a class, or of every class when classID
// is empty, with their current total.
func (h *Handler) ListStudents(classID string) error {
	var students []models.Student
	if classID == "" {
		students = h.Store.Students()
	} else {
		if _, err := h.requireClass(classID); err != nil {
			return err
		}
		students = h.Store.StudentsByClass(classID)
	}
	if len(students) == 0 {
		fmt.Fprintln(h.Out, "No students yet.")
		return nil
	}

	tw := h.table()
	fmt.Fprintln(tw, "ID\tCLASS\tNAME\tTOTAL")
	for _, st := range students {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s/20\n", st.ID, h.className(st.ClassID), st.Name, models.FormatScore(h.Store.TotalScore(st.ID)))
	}
	return tw.Flush()
}

// DeleteStudent removes a student and its evaluations.
func (h *Handler) DeleteStudent(id string) error {
	st, err := h.requireStudent(id)
	if err != nil {
		return err
	}
	if err := h.Store.DeleteStudent(id); err != nil {
		return err
	}
	fmt.Fprintf(h.Out, "Student %q deleted\n", st.Name)
	return nil
}

func (h *Handler) className(classID string) string {
	if c, ok := h.Store.Class(classID); ok {
		return c.Name
	}
	return UnknownClassLabel
}
