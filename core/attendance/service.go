package attendance

import (
	"time"

	"github.com/suvrat007/tutora-sub000/core/batch"
	"github.com/suvrat007/tutora-sub000/core/student"
	"github.com/suvrat007/tutora-sub000/core/timetable"
)

var nowFunc = time.Now // mockable

type (
	// Repository is the read side the orchestrator needs. All data is fetched
	// up front per subject; the expand/reconcile/aggregate pipeline itself is
	// pure and never touches storage.
	Repository interface {
		GetBatchByID(id string) (batch.Batch, error)
		QueryBatchSubjects(batchID string) ([]batch.Subject, error)
		GetSubjectByID(id string) (batch.Subject, error)
		QuerySubjectClassLogs(subjectID string) ([]timetable.ClassLog, error)
		GetStudentByID(id string) (student.Student, error)
		QueryBatchStudents(batchID string) ([]student.Student, error)
	}

	Service struct {
		repo        Repository
		loc         *time.Location
		horizonDays int
	}
)

// NewService returns an orchestrator fixed to the given timezone and
// reconciliation horizon. A nil location defaults to UTC; a non-positive
// horizon defaults to timetable.DefaultHorizonDays.
func NewService(repo Repository, loc *time.Location, horizonDays int) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if horizonDays <= 0 {
		horizonDays = timetable.DefaultHorizonDays
	}
	return &Service{repo: repo, loc: loc, horizonDays: horizonDays}
}

// BatchReport reconciles every subject of a batch and aggregates attendance
// for every enrolled student. A subject that fails to process carries the
// error in its own result slot; the rest of the report is unaffected.
func (svc *Service) BatchReport(batchID string, asOf ...timetable.Date) (BatchReport, error) {
	bat, err := svc.repo.GetBatchByID(batchID)
	if err != nil {
		return BatchReport{}, err
	}
	cutoff := svc.cutoff(asOf)

	report := BatchReport{Batch: bat, AsOf: cutoff}

	subjects, err := svc.repo.QueryBatchSubjects(batchID)
	if err != nil {
		return BatchReport{}, err
	}
	students, err := svc.repo.QueryBatchStudents(batchID)
	if err != nil {
		return BatchReport{}, err
	}

	for _, sub := range subjects {
		report.Subjects = append(report.Subjects, svc.reconcileSubject(sub, students, cutoff))
	}
	return report, nil
}

// StudentReport reconciles each subject the student is enrolled in and merges
// the per-subject summaries into one overall summary (summing counts, never
// averaging percentages).
func (svc *Service) StudentReport(studentID string, asOf ...timetable.Date) (StudentReport, error) {
	std, err := svc.repo.GetStudentByID(studentID)
	if err != nil {
		return StudentReport{}, err
	}
	cutoff := svc.cutoff(asOf)

	report := StudentReport{Student: std, AsOf: cutoff}

	var merged []Summary
	for _, subjectID := range std.SubjectIDs {
		sub, err := svc.repo.GetSubjectByID(subjectID)
		if err != nil {
			// unresolved reference: an explicit error marker in this
			// subject's slot, never a failure of the whole report
			report.Subjects = append(report.Subjects, SubjectResult{
				Subject: batch.Subject{ID: subjectID},
				Error:   err.Error(),
			})
			continue
		}
		res := svc.reconcileSubject(sub, []student.Student{std}, cutoff)
		report.Subjects = append(report.Subjects, res)
		merged = append(merged, res.Summaries...)
	}
	report.Overall = MergeSummaries(std.ID, merged)
	return report, nil
}

// SubjectTimeline reconciles a single subject without aggregation, for the
// class-log editing view.
func (svc *Service) SubjectTimeline(subjectID string, asOf ...timetable.Date) (SubjectResult, error) {
	sub, err := svc.repo.GetSubjectByID(subjectID)
	if err != nil {
		return SubjectResult{}, err
	}
	return svc.reconcileSubject(sub, nil, svc.cutoff(asOf)), nil
}

func (svc *Service) cutoff(asOf []timetable.Date) timetable.Date {
	if len(asOf) > 0 && !asOf[0].IsZero() {
		return asOf[0]
	}
	return timetable.DateOf(nowFunc(), svc.loc)
}

// reconcileSubject runs the expand -> reconcile -> aggregate pipeline for one
// subject. The window starts at the earlier of the subject's creation date
// and its first logged class, and ends at the cutoff.
func (svc *Service) reconcileSubject(sub batch.Subject, students []student.Student, cutoff timetable.Date) SubjectResult {
	res := SubjectResult{Subject: sub}

	logs, err := svc.repo.QuerySubjectClassLogs(sub.ID)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	start := timetable.DateOf(sub.CreatedAt, svc.loc)
	for _, lg := range logs {
		if lg.Date.Before(start) {
			start = lg.Date
		}
	}

	seq, err := timetable.ExpandHorizon(sub.Rule, start, cutoff, svc.horizonDays)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	tl := timetable.Reconcile(sub.ID, sub.BatchID, sub.Rule, seq, logs)
	res.Occurrences = tl.Occurrences
	res.Warnings = tl.Warnings

	for _, std := range students {
		if !std.EnrolledIn(sub.ID) {
			continue
		}
		res.Summaries = append(res.Summaries, Aggregate(std.ID, sub.ID, std.EnrolledAt, tl.Occurrences))
	}
	return res
}
