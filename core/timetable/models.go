package timetable

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Occurrence statuses.
//
// An Occurrence starts out as "expected" (a date produced by the recurrence
// rule) and is classified into exactly one of these terminal statuses during
// reconciliation. The classification is recomputed from scratch on every pass;
// editing a class log simply changes what the next pass produces.
const (
	// StatusConducted: a finalized log confirms the class was held.
	StatusConducted Status = "conducted"
	// StatusCancelled: a finalized log confirms the class did not take place.
	StatusCancelled Status = "cancelled"
	// StatusNoDataRecorded: no log, or only an unfinalized placeholder.
	StatusNoDataRecorded Status = "no_data_recorded"
	// StatusInvalidScheduleDay: the matching log's weekday is not in the
	// subject's recurrence rule. A data-integrity flag, not an error; the
	// occurrence is kept and surfaced distinctly.
	StatusInvalidScheduleDay Status = "invalid_schedule_day"
)

// Warning kinds recorded during reconciliation.
const (
	// WarnDuplicateLog: two or more logs share the same subject and date;
	// only the first in input order made it into the timeline.
	WarnDuplicateLog WarningKind = "duplicate_log"
	// WarnReferenceNotFound: a log references a subject/batch other than the
	// one being reconciled; the log was excluded.
	WarnReferenceNotFound WarningKind = "reference_not_found"
)

type (
	Status      string
	WarningKind string

	// TimeOfDay is a 24h wall-clock time ("HH:MM").
	TimeOfDay struct {
		Hour   int
		Minute int
	}

	// RecurrenceRule is a subject's weekly repeating schedule.
	RecurrenceRule struct {
		Weekdays  []time.Weekday `json:"weekdays"`
		StartTime TimeOfDay      `json:"start_time"`
	}

	// ClassLog is an admin-entered record of what actually happened (or is
	// scheduled) for a subject on a specific date.
	ClassLog struct {
		ID         string   `json:"id"`
		SubjectID  string   `json:"subject_id"`
		BatchID    string   `json:"batch_id"`
		Date       Date     `json:"date"`
		Held       bool     `json:"held"`
		Note       string   `json:"note"`
		Attendance []string `json:"attendance"` // student IDs present
		Finalized  bool     `json:"finalized"`
	}

	// Occurrence is the derived, canonical representation of one expected
	// class instance after reconciling the rule against the logs. It is never
	// persisted; its identity is the pair (SubjectID, Date).
	Occurrence struct {
		SubjectID   string    `json:"subject_id"`
		BatchID     string    `json:"batch_id"`
		Date        Date      `json:"date"`
		StartTime   TimeOfDay `json:"start_time"`
		Status      Status    `json:"status"`
		Attendance  []string  `json:"attendance"`
		SourceLogID string    `json:"source_log_id,omitempty"`
	}

	// Warning is a non-fatal data irregularity found during reconciliation.
	Warning struct {
		Kind      WarningKind `json:"kind"`
		SubjectID string      `json:"subject_id"`
		Date      Date        `json:"date"`
		LogID     string      `json:"log_id,omitempty"`
		Message   string      `json:"message"`
	}

	// Timeline is the result of one reconciliation pass for one subject:
	// exactly one Occurrence per expected date, ascending, plus any warnings.
	Timeline struct {
		Occurrences []Occurrence `json:"occurrences"`
		Warnings    []Warning    `json:"warnings,omitempty"`
	}

	// ConfigurationError indicates a structurally invalid recurrence rule or
	// reconciliation window. The affected subject cannot be processed at all;
	// other subjects are unaffected.
	ConfigurationError struct {
		Reason string
	}
)

func (e *ConfigurationError) Error() string { return e.Reason }

func IsConfigurationError(err error) bool {
	_, ok := errors.Cause(err).(*ConfigurationError)
	return ok
}

// ParseTimeOfDay parses a "HH:MM" 24h time.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return TimeOfDay{}, &ConfigurationError{Reason: fmt.Sprintf("invalid time %q, want HH:MM", s)}
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return TimeOfDay{}, &ConfigurationError{Reason: fmt.Sprintf("invalid time %q, want HH:MM", s)}
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid time %s", s)
	}
	parsed, err := ParseTimeOfDay(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
}

// ParseWeekday parses a lowercase 3-letter weekday name ("mon".."sun").
func ParseWeekday(s string) (time.Weekday, error) {
	if wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return wd, nil
	}
	return 0, &ConfigurationError{Reason: fmt.Sprintf("invalid weekday %q", s)}
}

// Validate checks the structural invariants of a rule: at least one weekday
// and an in-range start time. Returns a ConfigurationError on failure.
func (r RecurrenceRule) Validate() error {
	if len(r.Weekdays) == 0 {
		return &ConfigurationError{Reason: "recurrence rule has no weekdays"}
	}
	for _, wd := range r.Weekdays {
		if wd < time.Sunday || wd > time.Saturday {
			return &ConfigurationError{Reason: fmt.Sprintf("invalid weekday %d", wd)}
		}
	}
	if r.StartTime.Hour < 0 || r.StartTime.Hour > 23 || r.StartTime.Minute < 0 || r.StartTime.Minute > 59 {
		return &ConfigurationError{Reason: fmt.Sprintf("invalid start time %q", r.StartTime)}
	}
	return nil
}

// HasWeekday reports whether wd is in the rule's weekday set.
func (r RecurrenceRule) HasWeekday(wd time.Weekday) bool {
	for _, w := range r.Weekdays {
		if w == wd {
			return true
		}
	}
	return false
}

// weekdaySet returns the rule's weekdays as a lookup array, deduplicated.
func (r RecurrenceRule) weekdaySet() [7]bool {
	var set [7]bool
	for _, wd := range r.Weekdays {
		set[int(wd)] = true
	}
	return set
}

// SortedWeekdays returns the rule's weekdays in Sunday-first order, deduplicated.
func (r RecurrenceRule) SortedWeekdays() []time.Weekday {
	set := r.weekdaySet()
	out := make([]time.Weekday, 0, len(r.Weekdays))
	for i, ok := range set {
		if ok {
			out = append(out, time.Weekday(i))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
