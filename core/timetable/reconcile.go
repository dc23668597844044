package timetable

import (
	"fmt"
	"sort"
)

// Reconcile merges the expected-date sequence of one subject against that
// subject's class logs, producing exactly one classified Occurrence per date,
// in ascending date order.
//
// Classification per expected date:
//   - no matching log               -> NoDataRecorded (synthetic occurrence)
//   - log not finalized             -> NoDataRecorded
//   - log finalized, not held       -> Cancelled
//   - log finalized and held        -> Conducted (attendance copied over)
//
// A log dated inside the window but on a weekday outside the rule yields an
// InvalidScheduleDay occurrence regardless of its held/finalized flags: a
// data-integrity flag the dashboard surfaces distinctly, never silently
// coerced into Conducted or Cancelled, and never dropped.
//
// Data irregularities never fail the pass: duplicate logs for a date collapse
// to the first in input order with a WarnDuplicateLog, and logs referencing a
// different subject/batch are excluded with a WarnReferenceNotFound.
func Reconcile(subjectID, batchID string, rule RecurrenceRule, seq *DateSeq, logs []ClassLog) Timeline {
	var tl Timeline

	// partition logs by calendar date, keeping input order within each date
	byDate := make(map[Date][]ClassLog, len(logs))
	for _, lg := range logs {
		if lg.SubjectID != subjectID || (lg.BatchID != "" && lg.BatchID != batchID) {
			tl.Warnings = append(tl.Warnings, Warning{
				Kind:      WarnReferenceNotFound,
				SubjectID: subjectID,
				Date:      lg.Date,
				LogID:     lg.ID,
				Message:   fmt.Sprintf("class log %s references subject %s batch %s, not subject %s batch %s", lg.ID, lg.SubjectID, lg.BatchID, subjectID, batchID),
			})
			continue
		}
		byDate[lg.Date] = append(byDate[lg.Date], lg)
	}

	// pick picks the canonical log for a date; duplicates are discarded with
	// a warning, never silently and never kept alongside the winner.
	pick := func(date Date) (ClassLog, bool) {
		matches := byDate[date]
		if len(matches) == 0 {
			return ClassLog{}, false
		}
		lg := matches[0] // deterministic tie-break: first in input order wins
		for _, dup := range matches[1:] {
			tl.Warnings = append(tl.Warnings, Warning{
				Kind:      WarnDuplicateLog,
				SubjectID: subjectID,
				Date:      date,
				LogID:     dup.ID,
				Message:   fmt.Sprintf("duplicate class log %s for %s discarded in favor of %s", dup.ID, date, lg.ID),
			})
		}
		delete(byDate, date)
		return lg, true
	}

	seq.Reset()
	for date, ok := seq.Next(); ok; date, ok = seq.Next() {
		occ := Occurrence{
			SubjectID: subjectID,
			BatchID:   batchID,
			Date:      date,
			StartTime: rule.StartTime,
			Status:    StatusNoDataRecorded,
		}
		if lg, ok := pick(date); ok {
			occ.SourceLogID = lg.ID
			switch {
			case !lg.Finalized:
				occ.Status = StatusNoDataRecorded
			case !lg.Held:
				occ.Status = StatusCancelled
			default:
				occ.Status = StatusConducted
				occ.Attendance = append([]string(nil), lg.Attendance...)
			}
		}
		tl.Occurrences = append(tl.Occurrences, occ)
	}

	// logs left over on in-window dates are off-schedule entries
	offDays := make([]Date, 0, len(byDate))
	for date := range byDate {
		if date.Before(seq.start) || date.After(seq.end) {
			continue
		}
		offDays = append(offDays, date)
	}
	sort.Slice(offDays, func(i, j int) bool { return offDays[i].Before(offDays[j]) })
	for _, date := range offDays {
		lg, _ := pick(date)
		tl.Occurrences = insertByDate(tl.Occurrences, Occurrence{
			SubjectID:   subjectID,
			BatchID:     batchID,
			Date:        date,
			StartTime:   rule.StartTime,
			Status:      StatusInvalidScheduleDay,
			SourceLogID: lg.ID,
		})
	}

	return tl
}

// insertByDate inserts occ keeping the slice sorted ascending by date.
func insertByDate(occs []Occurrence, occ Occurrence) []Occurrence {
	i := sort.Search(len(occs), func(i int) bool { return occ.Date.Before(occs[i].Date) })
	occs = append(occs, Occurrence{})
	copy(occs[i+1:], occs[i:])
	occs[i] = occ
	return occs
}
