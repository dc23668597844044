package batch

import (
	"time"

	"github.com/suvrat007/tutora-sub000/core"
	"github.com/suvrat007/tutora-sub000/core/timetable"
)

type (
	// Batch is a cohort of students taught together.
	Batch struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		CreatedAt time.Time `json:"created_at"` // UTC
		UpdatedAt time.Time `json:"updated_at"` // UTC
	}

	// Subject is a course within a batch, carrying its own weekly recurrence rule.
	Subject struct {
		ID          string                   `json:"id"`
		BatchID     string                   `json:"batch_id"`
		Name        string                   `json:"name"`
		TeacherName string                   `json:"teacher_name"`
		Rule        timetable.RecurrenceRule `json:"rule"`
		CreatedAt   time.Time                `json:"created_at"` // UTC
		UpdatedAt   time.Time                `json:"updated_at"` // UTC
	}
)

// NewBatch contains information needed to create a new Batch.
type NewBatch struct {
	Name string `json:"name" validate:"required"`
}

func (nb *NewBatch) Validate() error {
	nb.Name = core.CleanString(nb.Name)
	return core.Validate.Struct(nb)
}

// NewSubject contains information needed to create a new Subject.
type NewSubject struct {
	Name        string   `json:"name" validate:"required"`
	TeacherName string   `json:"teacher_name"`
	Weekdays    []string `json:"weekdays" validate:"required,min=1,dive,weekday"`
	StartTime   string   `json:"start_time" validate:"required,hhmm"`
}

func (ns *NewSubject) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	ns.TeacherName = core.CleanString(ns.TeacherName)
	for i, wd := range ns.Weekdays {
		ns.Weekdays[i] = core.CleanString(wd, true /* lower */)
	}
	ns.StartTime = core.CleanString(ns.StartTime)
	return core.Validate.Struct(ns)
}

// Rule builds the validated recurrence rule from the payload.
// Validate must have been called first.
func (ns NewSubject) Rule() (timetable.RecurrenceRule, error) {
	var rule timetable.RecurrenceRule
	for _, name := range ns.Weekdays {
		wd, err := timetable.ParseWeekday(name)
		if err != nil {
			return timetable.RecurrenceRule{}, err
		}
		if !rule.HasWeekday(wd) {
			rule.Weekdays = append(rule.Weekdays, wd)
		}
	}
	start, err := timetable.ParseTimeOfDay(ns.StartTime)
	if err != nil {
		return timetable.RecurrenceRule{}, err
	}
	rule.StartTime = start
	return rule, rule.Validate()
}

// UpdateSubject defines what information may be provided to modify a Subject.
type UpdateSubject struct {
	Name        string   `json:"name"`
	TeacherName string   `json:"teacher_name"`
	Weekdays    []string `json:"weekdays" validate:"omitempty,min=1,dive,weekday"`
	StartTime   string   `json:"start_time" validate:"omitempty,hhmm"`
}

func (us *UpdateSubject) Validate() error {
	us.Name = core.CleanString(us.Name)
	us.TeacherName = core.CleanString(us.TeacherName)
	for i, wd := range us.Weekdays {
		us.Weekdays[i] = core.CleanString(wd, true /* lower */)
	}
	us.StartTime = core.CleanString(us.StartTime)
	return core.Validate.Struct(us)
}

// LogClassEntry is the admin payload recording what happened on one class date.
type LogClassEntry struct {
	Held       bool     `json:"held"`
	Note       string   `json:"note"`
	Attendance []string `json:"attendance"`
	Finalized  bool     `json:"finalized"`
}

func (le *LogClassEntry) Validate() error {
	le.Note = core.CleanString(le.Note)
	return core.Validate.Struct(le)
}
