package attendance

import (
	"math/rand"
	"testing"

	"github.com/suvrat007/tutora-sub000/core/timetable"
)

const (
	subjID = "sub-maths"
	stdID  = "std-s1"
)

func conducted(date timetable.Date, present ...string) timetable.Occurrence {
	return timetable.Occurrence{
		SubjectID:  subjID,
		Date:       date,
		Status:     timetable.StatusConducted,
		Attendance: present,
	}
}

func TestAggregate(t *testing.T) {
	jan := func(day int) timetable.Date { return timetable.NewDate(2024, 1, day) }

	tests := []struct {
		name       string
		enrolledAt timetable.Date
		occs       []timetable.Occurrence
		attended   int
		total      int
		percentage float64
	}{
		{
			name:       "no occurrences",
			enrolledAt: jan(1),
			percentage: 0,
		},
		{
			name:       "full attendance",
			enrolledAt: jan(1),
			occs: []timetable.Occurrence{
				conducted(jan(1), stdID),
				conducted(jan(3), stdID),
			},
			attended: 2, total: 2, percentage: 100,
		},
		{
			name:       "absent throughout",
			enrolledAt: jan(1),
			occs: []timetable.Occurrence{
				conducted(jan(1), "std-s2"),
				conducted(jan(3)),
			},
			attended: 0, total: 2, percentage: 0,
		},
		{
			name:       "rounding to two decimals",
			enrolledAt: jan(1),
			occs: []timetable.Occurrence{
				conducted(jan(1), stdID),
				conducted(jan(3)),
				conducted(jan(8)),
			},
			attended: 1, total: 3, percentage: 33.33,
		},
		{
			name:       "two thirds rounds up",
			enrolledAt: jan(1),
			occs: []timetable.Occurrence{
				conducted(jan(1), stdID),
				conducted(jan(3), stdID),
				conducted(jan(8)),
			},
			attended: 2, total: 3, percentage: 66.67,
		},
		{
			name:       "classes before enrollment excluded",
			enrolledAt: jan(8),
			occs: []timetable.Occurrence{
				conducted(jan(1), stdID),
				conducted(jan(3)),
				conducted(jan(8), stdID),
				conducted(jan(10)),
			},
			attended: 1, total: 2, percentage: 50,
		},
		{
			name:       "only conducted classes count",
			enrolledAt: jan(1),
			occs: []timetable.Occurrence{
				conducted(jan(1), stdID),
				{SubjectID: subjID, Date: jan(3), Status: timetable.StatusCancelled},
				{SubjectID: subjID, Date: jan(8), Status: timetable.StatusNoDataRecorded},
				{SubjectID: subjID, Date: jan(9), Status: timetable.StatusInvalidScheduleDay, Attendance: []string{stdID}},
			},
			attended: 1, total: 1, percentage: 100,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum := Aggregate(stdID, subjID, tt.enrolledAt, tt.occs)
			if sum.StudentID != stdID || sum.SubjectID != subjID {
				t.Errorf("Aggregate() ids = (%q, %q), want (%q, %q)", sum.StudentID, sum.SubjectID, stdID, subjID)
			}
			if sum.Attended != tt.attended || sum.Total != tt.total {
				t.Errorf("Aggregate() counts = %d/%d, want %d/%d", sum.Attended, sum.Total, tt.attended, tt.total)
			}
			if sum.Percentage != tt.percentage {
				t.Errorf("Aggregate() percentage = %v, want %v", sum.Percentage, tt.percentage)
			}
			if sum.Attended > sum.Total {
				t.Errorf("Aggregate() attended %d exceeds total %d", sum.Attended, sum.Total)
			}
		})
	}
}

func TestAggregateOrderIndependent(t *testing.T) {
	occs := []timetable.Occurrence{
		conducted(timetable.NewDate(2024, 1, 1), stdID),
		conducted(timetable.NewDate(2024, 1, 3)),
		conducted(timetable.NewDate(2024, 1, 8), stdID),
		conducted(timetable.NewDate(2024, 1, 10), stdID),
		{SubjectID: subjID, Date: timetable.NewDate(2024, 1, 15), Status: timetable.StatusCancelled},
	}
	want := Aggregate(stdID, subjID, timetable.NewDate(2024, 1, 1), occs)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		shuffled := append([]timetable.Occurrence(nil), occs...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		if got := Aggregate(stdID, subjID, timetable.NewDate(2024, 1, 1), shuffled); got != want {
			t.Fatalf("Aggregate() on shuffled input = %+v, want %+v", got, want)
		}
	}
}

func TestMergeSummaries(t *testing.T) {
	tests := []struct {
		name string
		sums []Summary
		want Summary
	}{
		{
			name: "empty",
			want: Summary{StudentID: stdID},
		},
		{
			name: "sums counts instead of averaging percentages",
			// 9/10 and 0/1 average to 45% but merge to 9/11
			sums: []Summary{
				{StudentID: stdID, SubjectID: "sub-a", Attended: 9, Total: 10, Percentage: 90},
				{StudentID: stdID, SubjectID: "sub-b", Attended: 0, Total: 1, Percentage: 0},
			},
			want: Summary{StudentID: stdID, Attended: 9, Total: 11, Percentage: 81.82},
		},
		{
			name: "single subject passes through",
			sums: []Summary{
				{StudentID: stdID, SubjectID: "sub-a", Attended: 3, Total: 4, Percentage: 75},
			},
			want: Summary{StudentID: stdID, Attended: 3, Total: 4, Percentage: 75},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MergeSummaries(stdID, tt.sums); got != tt.want {
				t.Errorf("MergeSummaries() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
