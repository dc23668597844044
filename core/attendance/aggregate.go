package attendance

import (
	"math"

	"github.com/suvrat007/tutora-sub000/core/timetable"
)

// Aggregate computes one student's attendance over a subject's occurrence
// timeline. Only Conducted occurrences dated on or after the student's
// enrollment date count toward the total: a class that did not happen
// (Cancelled, NoDataRecorded) can be neither attended nor missed, and
// off-schedule entries (InvalidScheduleDay) are integrity flags, not classes.
//
// Pure and order-independent: the same occurrences and enrollment date always
// produce the same summary.
func Aggregate(studentID, subjectID string, enrolledAt timetable.Date, occs []timetable.Occurrence) Summary {
	sum := Summary{StudentID: studentID, SubjectID: subjectID}
	for _, occ := range occs {
		if occ.Status != timetable.StatusConducted || occ.Date.Before(enrolledAt) {
			continue
		}
		sum.Total++
		for _, id := range occ.Attendance {
			if id == studentID {
				sum.Attended++
				break
			}
		}
	}
	sum.Percentage = percentage(sum.Attended, sum.Total)
	return sum
}

// MergeSummaries combines per-subject summaries into one overall summary by
// summing attended and total before recomputing the percentage. Averaging the
// pre-computed percentages instead would bias toward subjects with fewer
// classes.
func MergeSummaries(studentID string, sums []Summary) Summary {
	overall := Summary{StudentID: studentID}
	for _, s := range sums {
		overall.Attended += s.Attended
		overall.Total += s.Total
	}
	overall.Percentage = percentage(overall.Attended, overall.Total)
	return overall
}

// percentage returns attended/total as a percentage rounded to 2 decimals,
// or 0 when total is 0.
func percentage(attended, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(attended)/float64(total)*100*100) / 100
}
