package student

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/suvrat007/tutora-sub000/core"
	"github.com/suvrat007/tutora-sub000/core/timetable"
)

// Student is someone enrolled in a batch. EnrolledAt is the date from which
// their presence at a subject's classes counts toward attendance statistics.
type Student struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Phone      string         `json:"phone"`
	BatchID    string         `json:"batch_id"`
	EnrolledAt timetable.Date `json:"enrolled_at"`
	SubjectIDs []string       `json:"subject_ids"`
	LeftAt     null.Time      `json:"left_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at"` // UTC
	UpdatedAt  time.Time      `json:"updated_at"` // UTC
}

// EnrolledIn reports whether the student is enrolled in the given subject.
func (s Student) EnrolledIn(subjectID string) bool {
	for _, id := range s.SubjectIDs {
		if id == subjectID {
			return true
		}
	}
	return false
}

// NewStudent contains information needed to register a new Student.
type NewStudent struct {
	Name       string   `json:"name" validate:"required"`
	Email      string   `json:"email" validate:"omitempty,email"`
	Phone      string   `json:"phone"`
	BatchID    string   `json:"batch_id" validate:"required"`
	EnrolledAt string   `json:"enrolled_at" validate:"required,date"`
	SubjectIDs []string `json:"subject_ids"`
}

func (ns *NewStudent) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Phone = core.CleanString(ns.Phone)
	ns.EnrolledAt = core.CleanString(ns.EnrolledAt)
	return core.Validate.Struct(ns)
}

// UpdateStudent defines what information may be provided to modify a Student.
type UpdateStudent struct {
	Name       string   `json:"name"`
	Email      string   `json:"email" validate:"omitempty,email"`
	Phone      string   `json:"phone"`
	EnrolledAt string   `json:"enrolled_at" validate:"omitempty,date"`
	SubjectIDs []string `json:"subject_ids"`
	Left       *bool    `json:"left"`
}

func (us *UpdateStudent) Validate() error {
	us.Name = core.CleanString(us.Name)
	us.Email = core.CleanString(us.Email, true /* lower */)
	us.Phone = core.CleanString(us.Phone)
	us.EnrolledAt = core.CleanString(us.EnrolledAt)
	return core.Validate.Struct(us)
}
