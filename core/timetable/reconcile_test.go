package timetable

import (
	"reflect"
	"testing"
	"time"
)

const (
	subjID  = "sub-maths"
	batchID = "batch-10a"
)

func expand(t *testing.T, rule RecurrenceRule, start, end Date) *DateSeq {
	t.Helper()
	seq, err := Expand(rule, start, end)
	if err != nil {
		t.Fatalf("Expand() failed: %v", err)
	}
	return seq
}

// The two-week scenario: rule Mon+Wed 10:00, window Jan 1 (a Monday) to Jan 14
// 2024. Jan 1 conducted with S1 present, Jan 8 cancelled, Jan 3 and 10 unlogged.
func TestReconcileScenario(t *testing.T) {
	rule := monWedRule(t)
	seq := expand(t, rule, NewDate(2024, time.January, 1), NewDate(2024, time.January, 14))
	logs := []ClassLog{
		{ID: "log-1", SubjectID: subjID, BatchID: batchID, Date: NewDate(2024, time.January, 1), Held: true, Finalized: true, Attendance: []string{"S1"}},
		{ID: "log-2", SubjectID: subjID, BatchID: batchID, Date: NewDate(2024, time.January, 8), Held: false, Finalized: true},
	}

	tl := Reconcile(subjID, batchID, rule, seq, logs)

	if len(tl.Warnings) != 0 {
		t.Errorf("Reconcile() warnings = %v, want none", tl.Warnings)
	}
	want := []Occurrence{
		{SubjectID: subjID, BatchID: batchID, Date: NewDate(2024, time.January, 1), StartTime: rule.StartTime, Status: StatusConducted, Attendance: []string{"S1"}, SourceLogID: "log-1"},
		{SubjectID: subjID, BatchID: batchID, Date: NewDate(2024, time.January, 3), StartTime: rule.StartTime, Status: StatusNoDataRecorded},
		{SubjectID: subjID, BatchID: batchID, Date: NewDate(2024, time.January, 8), StartTime: rule.StartTime, Status: StatusCancelled, SourceLogID: "log-2"},
		{SubjectID: subjID, BatchID: batchID, Date: NewDate(2024, time.January, 10), StartTime: rule.StartTime, Status: StatusNoDataRecorded},
	}
	if !reflect.DeepEqual(tl.Occurrences, want) {
		t.Errorf("Reconcile() = %+v, want %+v", tl.Occurrences, want)
	}
}

func TestReconcileClassification(t *testing.T) {
	rule := monWedRule(t)
	jan1 := NewDate(2024, time.January, 1) // Monday

	tests := []struct {
		name       string
		log        ClassLog
		wantStatus Status
	}{
		{
			name:       "finalized and held",
			log:        ClassLog{ID: "l", SubjectID: subjID, BatchID: batchID, Date: jan1, Held: true, Finalized: true},
			wantStatus: StatusConducted,
		},
		{
			name:       "finalized, not held",
			log:        ClassLog{ID: "l", SubjectID: subjID, BatchID: batchID, Date: jan1, Held: false, Finalized: true},
			wantStatus: StatusCancelled,
		},
		{
			name:       "unfinalized placeholder",
			log:        ClassLog{ID: "l", SubjectID: subjID, BatchID: batchID, Date: jan1, Held: true, Finalized: false},
			wantStatus: StatusNoDataRecorded,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq := expand(t, rule, jan1, jan1)
			tl := Reconcile(subjID, batchID, rule, seq, []ClassLog{tt.log})
			if len(tl.Occurrences) != 1 {
				t.Fatalf("Reconcile() yielded %d occurrences, want 1", len(tl.Occurrences))
			}
			if got := tl.Occurrences[0].Status; got != tt.wantStatus {
				t.Errorf("status = %v, want %v", got, tt.wantStatus)
			}
			if got := tl.Occurrences[0].SourceLogID; got != "l" {
				t.Errorf("source log = %q, want %q", got, "l")
			}
		})
	}
}

// A log on a weekday outside the rule is kept in the timeline as
// InvalidScheduleDay regardless of its held/finalized flags.
func TestReconcileInvalidScheduleDay(t *testing.T) {
	rule := monWedRule(t)
	seq := expand(t, rule, NewDate(2024, time.January, 1), NewDate(2024, time.January, 7))

	for _, flags := range []struct{ held, finalized bool }{
		{true, true}, {false, true}, {true, false}, {false, false},
	} {
		seq.Reset()
		logs := []ClassLog{
			// Jan 2 2024 is a Tuesday
			{ID: "log-offday", SubjectID: subjID, BatchID: batchID, Date: NewDate(2024, time.January, 2), Held: flags.held, Finalized: flags.finalized},
		}
		tl := Reconcile(subjID, batchID, rule, seq, logs)

		// Mon, the off-day Tue, Wed
		if len(tl.Occurrences) != 3 {
			t.Fatalf("Reconcile() yielded %d occurrences, want 3", len(tl.Occurrences))
		}
		offDay := tl.Occurrences[1]
		if offDay.Date != NewDate(2024, time.January, 2) {
			t.Errorf("off-day occurrence at %v, want 2024-01-02 (kept in ascending order)", offDay.Date)
		}
		if offDay.Status != StatusInvalidScheduleDay {
			t.Errorf("held=%v finalized=%v: status = %v, want %v", flags.held, flags.finalized, offDay.Status, StatusInvalidScheduleDay)
		}
		if offDay.SourceLogID != "log-offday" {
			t.Errorf("source log = %q, want %q", offDay.SourceLogID, "log-offday")
		}
	}
}

// Dedup: two logs sharing subject and date collapse to exactly one Occurrence
// (the earlier-ordered input) plus one DuplicateLogWarning.
func TestReconcileDuplicateLogs(t *testing.T) {
	rule := monWedRule(t)
	jan1 := NewDate(2024, time.January, 1)
	seq := expand(t, rule, jan1, jan1)
	logs := []ClassLog{
		{ID: "log-first", SubjectID: subjID, BatchID: batchID, Date: jan1, Held: true, Finalized: true, Attendance: []string{"S1"}},
		{ID: "log-dup", SubjectID: subjID, BatchID: batchID, Date: jan1, Held: false, Finalized: true},
	}

	tl := Reconcile(subjID, batchID, rule, seq, logs)

	if len(tl.Occurrences) != 1 {
		t.Fatalf("Reconcile() yielded %d occurrences, want 1", len(tl.Occurrences))
	}
	occ := tl.Occurrences[0]
	if occ.SourceLogID != "log-first" {
		t.Errorf("source log = %q, want first-ordered %q", occ.SourceLogID, "log-first")
	}
	if occ.Status != StatusConducted {
		t.Errorf("status = %v, want %v", occ.Status, StatusConducted)
	}
	if len(tl.Warnings) != 1 {
		t.Fatalf("Reconcile() warnings = %v, want exactly 1", tl.Warnings)
	}
	w := tl.Warnings[0]
	if w.Kind != WarnDuplicateLog || w.LogID != "log-dup" || w.Date != jan1 {
		t.Errorf("warning = %+v, want duplicate_log for log-dup on %v", w, jan1)
	}
}

func TestReconcileReferenceNotFound(t *testing.T) {
	rule := monWedRule(t)
	jan1 := NewDate(2024, time.January, 1)
	seq := expand(t, rule, jan1, jan1)
	logs := []ClassLog{
		{ID: "log-foreign", SubjectID: "sub-other", BatchID: batchID, Date: jan1, Held: true, Finalized: true},
	}

	tl := Reconcile(subjID, batchID, rule, seq, logs)

	if len(tl.Occurrences) != 1 {
		t.Fatalf("Reconcile() yielded %d occurrences, want 1", len(tl.Occurrences))
	}
	if got := tl.Occurrences[0].Status; got != StatusNoDataRecorded {
		t.Errorf("status = %v, want %v (foreign log excluded)", got, StatusNoDataRecorded)
	}
	if len(tl.Warnings) != 1 || tl.Warnings[0].Kind != WarnReferenceNotFound {
		t.Errorf("warnings = %+v, want one reference_not_found", tl.Warnings)
	}
}

// Idempotence: identical inputs always yield an identical timeline.
func TestReconcileIdempotent(t *testing.T) {
	rule := monWedRule(t)
	seq := expand(t, rule, NewDate(2024, time.January, 1), NewDate(2024, time.January, 14))
	logs := []ClassLog{
		{ID: "log-1", SubjectID: subjID, BatchID: batchID, Date: NewDate(2024, time.January, 1), Held: true, Finalized: true, Attendance: []string{"S1", "S2"}},
		{ID: "log-2", SubjectID: subjID, BatchID: batchID, Date: NewDate(2024, time.January, 8), Held: false, Finalized: true},
		{ID: "log-3", SubjectID: subjID, BatchID: batchID, Date: NewDate(2024, time.January, 8), Held: true, Finalized: true},
	}

	first := Reconcile(subjID, batchID, rule, seq, logs)
	second := Reconcile(subjID, batchID, rule, seq, logs) // same, already-drained seq

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Reconcile() second pass = %+v, want identical %+v", second, first)
	}
}
