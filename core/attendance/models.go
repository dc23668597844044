package attendance

import (
	"github.com/suvrat007/tutora-sub000/core/batch"
	"github.com/suvrat007/tutora-sub000/core/student"
	"github.com/suvrat007/tutora-sub000/core/timetable"
)

type (
	// Summary is one student's attendance over one subject's timeline.
	// Invariants: Attended <= Total; Percentage in [0,100], 0 when Total is 0.
	Summary struct {
		StudentID  string  `json:"student_id"`
		SubjectID  string  `json:"subject_id"`
		Attended   int     `json:"attended"`
		Total      int     `json:"total"`
		Percentage float64 `json:"percentage"`
	}

	// SubjectResult is one subject's slot in a report. A subject that could
	// not be processed (bad rule, unresolved reference) carries its error
	// here with an empty timeline; other subjects are unaffected.
	SubjectResult struct {
		Subject     batch.Subject          `json:"subject"`
		Occurrences []timetable.Occurrence `json:"occurrences"`
		Warnings    []timetable.Warning    `json:"warnings,omitempty"`
		Summaries   []Summary              `json:"summaries,omitempty"`
		Error       string                 `json:"error,omitempty"`
	}

	// BatchReport is the dashboard view for one batch: every subject's
	// reconciled timeline plus per-student summaries.
	BatchReport struct {
		Batch    batch.Batch     `json:"batch"`
		AsOf     timetable.Date  `json:"as_of"`
		Subjects []SubjectResult `json:"subjects"`
	}

	// StudentReport is one student's view: a summary per enrolled subject
	// plus the overall summary across all of them.
	StudentReport struct {
		Student  student.Student `json:"student"`
		AsOf     timetable.Date  `json:"as_of"`
		Subjects []SubjectResult `json:"subjects"`
		Overall  Summary         `json:"overall"`
	}
)
