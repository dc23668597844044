package attendance_test

import (
	"testing"
	"time"

	"github.com/suvrat007/tutora-sub000/core/attendance"
	"github.com/suvrat007/tutora-sub000/core/batch"
	"github.com/suvrat007/tutora-sub000/core/student"
	"github.com/suvrat007/tutora-sub000/core/timetable"
	dummydb "github.com/suvrat007/tutora-sub000/storage/database/dummy"
)

type fixture struct {
	svc       *attendance.Service
	batchSvc  *batch.Service
	stdSvc    *student.Service
	batchRepo batch.Repository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	batchRepo := dummydb.NewBatchRepository(db)
	return &fixture{
		svc:       attendance.NewService(dummydb.NewAttendanceRepository(db), time.UTC, 0),
		batchSvc:  batch.NewService(batchRepo),
		stdSvc:    student.NewService(dummydb.NewStudentRepository(db)),
		batchRepo: batchRepo,
	}
}

func (f *fixture) addBatch(t *testing.T, name string) batch.Batch {
	t.Helper()
	b, err := f.batchSvc.Create(batch.NewBatch{Name: name})
	if err != nil {
		t.Fatalf("creating batch failed: %v", err)
	}
	return b
}

func (f *fixture) addSubject(t *testing.T, batchID string, weekdays []string, start string) batch.Subject {
	t.Helper()
	sub, err := f.batchSvc.AddSubject(batchID, batch.NewSubject{
		Name:      "Mathematics",
		Weekdays:  weekdays,
		StartTime: start,
	})
	if err != nil {
		t.Fatalf("adding subject failed: %v", err)
	}
	// pin the creation date so the reconciliation window does not depend on
	// the wall clock
	sub.CreatedAt = time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	sub, err = f.batchRepo.UpdateSubject(sub)
	if err != nil {
		t.Fatalf("pinning subject creation date failed: %v", err)
	}
	return sub
}

func (f *fixture) addStudent(t *testing.T, batchID, enrolledAt string, subjectIDs ...string) student.Student {
	t.Helper()
	std, err := f.stdSvc.Register(student.NewStudent{
		Name:       "Asha",
		BatchID:    batchID,
		EnrolledAt: enrolledAt,
		SubjectIDs: subjectIDs,
	})
	if err != nil {
		t.Fatalf("registering student failed: %v", err)
	}
	return std
}

func (f *fixture) logClass(t *testing.T, subjectID string, date timetable.Date, held bool, present ...string) {
	t.Helper()
	_, err := f.batchSvc.LogClass(subjectID, date, batch.LogClassEntry{
		Held:       held,
		Attendance: present,
		Finalized:  true,
	})
	if err != nil {
		t.Fatalf("logging class failed: %v", err)
	}
}

func TestServiceBatchReport(t *testing.T) {
	f := newFixture(t)
	b := f.addBatch(t, "Grade 10 A")
	sub := f.addSubject(t, b.ID, []string{"mon", "wed"}, "09:00")
	std := f.addStudent(t, b.ID, "2026-08-03", sub.ID)

	// Mon Aug 3 held (present), Wed Aug 5 cancelled, Mon Aug 10 held (absent)
	f.logClass(t, sub.ID, timetable.NewDate(2026, 8, 3), true, std.ID)
	f.logClass(t, sub.ID, timetable.NewDate(2026, 8, 5), false)
	f.logClass(t, sub.ID, timetable.NewDate(2026, 8, 10), true)

	report, err := f.svc.BatchReport(b.ID, timetable.NewDate(2026, 8, 12))
	if err != nil {
		t.Fatalf("BatchReport() failed: %v", err)
	}
	if len(report.Subjects) != 1 {
		t.Fatalf("BatchReport() subjects = %d, want 1", len(report.Subjects))
	}

	res := report.Subjects[0]
	if res.Error != "" {
		t.Fatalf("BatchReport() subject error = %q, want none", res.Error)
	}
	if len(res.Summaries) != 1 {
		t.Fatalf("BatchReport() summaries = %d, want 1", len(res.Summaries))
	}

	sum := res.Summaries[0]
	if sum.Attended != 1 || sum.Total != 2 {
		t.Errorf("summary counts = %d/%d, want 1/2", sum.Attended, sum.Total)
	}
	if sum.Percentage != 50 {
		t.Errorf("summary percentage = %v, want 50", sum.Percentage)
	}

	// expected dates in [Aug 1, Aug 12]: Mon 3, Wed 5, Mon 10, Wed 12
	var statuses []timetable.Status
	for _, occ := range res.Occurrences {
		statuses = append(statuses, occ.Status)
	}
	want := []timetable.Status{
		timetable.StatusConducted,
		timetable.StatusCancelled,
		timetable.StatusConducted,
		timetable.StatusNoDataRecorded, // Wed Aug 12, cutoff day, no log
	}
	if len(statuses) != len(want) {
		t.Fatalf("BatchReport() occurrence count = %d, want %d (%v)", len(statuses), len(want), statuses)
	}
	for i := range want {
		if statuses[i] != want[i] {
			t.Errorf("occurrence[%d].Status = %q, want %q", i, statuses[i], want[i])
		}
	}
}

func TestServiceBatchReportIsolatesSubjectFailures(t *testing.T) {
	f := newFixture(t)
	b := f.addBatch(t, "Grade 10 A")
	good := f.addSubject(t, b.ID, []string{"mon"}, "09:00")
	bad := f.addSubject(t, b.ID, []string{"tue"}, "10:00")
	std := f.addStudent(t, b.ID, "2026-08-03", good.ID, bad.ID)

	f.logClass(t, good.ID, timetable.NewDate(2026, 8, 3), true, std.ID)

	// corrupt the second subject's rule directly in storage
	bad.Rule.Weekdays = nil
	if _, err := f.batchRepo.UpdateSubject(bad); err != nil {
		t.Fatalf("corrupting subject failed: %v", err)
	}

	report, err := f.svc.BatchReport(b.ID, timetable.NewDate(2026, 8, 11))
	if err != nil {
		t.Fatalf("BatchReport() failed: %v", err)
	}
	if len(report.Subjects) != 2 {
		t.Fatalf("BatchReport() subjects = %d, want 2", len(report.Subjects))
	}
	for _, res := range report.Subjects {
		switch res.Subject.ID {
		case good.ID:
			if res.Error != "" {
				t.Errorf("healthy subject error = %q, want none", res.Error)
			}
			if len(res.Summaries) != 1 {
				t.Errorf("healthy subject summaries = %d, want 1", len(res.Summaries))
			}
		case bad.ID:
			if res.Error == "" {
				t.Error("corrupted subject carries no error")
			}
			if len(res.Occurrences) != 0 {
				t.Errorf("corrupted subject occurrences = %d, want 0", len(res.Occurrences))
			}
		}
	}
}

func TestServiceStudentReportMergesSubjects(t *testing.T) {
	f := newFixture(t)
	b := f.addBatch(t, "Grade 10 A")
	maths := f.addSubject(t, b.ID, []string{"mon"}, "09:00")
	physics := f.addSubject(t, b.ID, []string{"tue"}, "10:00")
	std := f.addStudent(t, b.ID, "2026-08-03", maths.ID, physics.ID)

	// maths: present Mon Aug 3, absent Mon Aug 10 -> 1/2
	f.logClass(t, maths.ID, timetable.NewDate(2026, 8, 3), true, std.ID)
	f.logClass(t, maths.ID, timetable.NewDate(2026, 8, 10), true)
	// physics: present Tue Aug 4 -> 1/1
	f.logClass(t, physics.ID, timetable.NewDate(2026, 8, 4), true, std.ID)

	report, err := f.svc.StudentReport(std.ID, timetable.NewDate(2026, 8, 10))
	if err != nil {
		t.Fatalf("StudentReport() failed: %v", err)
	}
	if len(report.Subjects) != 2 {
		t.Fatalf("StudentReport() subjects = %d, want 2", len(report.Subjects))
	}

	// overall merges counts: 2 attended out of 3 conducted
	if report.Overall.Attended != 2 || report.Overall.Total != 3 {
		t.Errorf("Overall counts = %d/%d, want 2/3", report.Overall.Attended, report.Overall.Total)
	}
	if report.Overall.Percentage != 66.67 {
		t.Errorf("Overall percentage = %v, want 66.67", report.Overall.Percentage)
	}
}

func TestServiceStudentReportUnresolvedSubject(t *testing.T) {
	f := newFixture(t)
	b := f.addBatch(t, "Grade 10 A")
	maths := f.addSubject(t, b.ID, []string{"mon"}, "09:00")
	std := f.addStudent(t, b.ID, "2026-08-03", maths.ID, "sub-gone")

	f.logClass(t, maths.ID, timetable.NewDate(2026, 8, 3), true, std.ID)

	report, err := f.svc.StudentReport(std.ID, timetable.NewDate(2026, 8, 4))
	if err != nil {
		t.Fatalf("StudentReport() failed: %v", err)
	}
	if len(report.Subjects) != 2 {
		t.Fatalf("StudentReport() subjects = %d, want 2", len(report.Subjects))
	}

	var foundErr bool
	for _, res := range report.Subjects {
		if res.Subject.ID == "sub-gone" {
			foundErr = res.Error != ""
		}
	}
	if !foundErr {
		t.Error("StudentReport() missing error marker for unresolved subject")
	}
	// the resolved subject still aggregates
	if report.Overall.Attended != 1 || report.Overall.Total != 1 {
		t.Errorf("Overall counts = %d/%d, want 1/1", report.Overall.Attended, report.Overall.Total)
	}
}

func TestServiceSubjectTimeline(t *testing.T) {
	f := newFixture(t)
	b := f.addBatch(t, "Grade 10 A")
	sub := f.addSubject(t, b.ID, []string{"mon"}, "09:00")

	// log on a Tuesday, outside the rule
	f.logClass(t, sub.ID, timetable.NewDate(2026, 8, 4), true)

	res, err := f.svc.SubjectTimeline(sub.ID, timetable.NewDate(2026, 8, 10))
	if err != nil {
		t.Fatalf("SubjectTimeline() failed: %v", err)
	}

	var flagged int
	for _, occ := range res.Occurrences {
		if occ.Status == timetable.StatusInvalidScheduleDay {
			flagged++
		}
	}
	if flagged != 1 {
		t.Errorf("SubjectTimeline() flagged occurrences = %d, want 1", flagged)
	}
	if len(res.Summaries) != 0 {
		t.Errorf("SubjectTimeline() summaries = %d, want 0", len(res.Summaries))
	}
}
