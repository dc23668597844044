package batch

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/suvrat007/tutora-sub000/core/timetable"
)

var (
	// errors
	ErrNotFound         = errors.New("batch not found")
	ErrSubjectNotFound  = errors.New("subject not found")
	ErrClassLogNotFound = errors.New("class log not found")
)

type (
	Repository interface {
		CreateBatch(b Batch) (Batch, error)
		QueryAllBatches() ([]Batch, error)
		GetBatchByID(id string) (Batch, error)
		UpdateBatch(b Batch) (Batch, error)
		DeleteBatchesByID(ids ...string) error

		CreateSubject(s Subject) (Subject, error)
		GetSubjectByID(id string) (Subject, error)
		QueryBatchSubjects(batchID string) ([]Subject, error)
		UpdateSubject(s Subject) (Subject, error)
		DeleteSubjectsByID(ids ...string) error

		// UpsertClassLog replaces the log identified by (SubjectID, Date) or
		// creates it. Logs are never deleted; admins edit them instead.
		UpsertClassLog(lg timetable.ClassLog) (timetable.ClassLog, error)
		GetClassLog(subjectID string, date timetable.Date) (timetable.ClassLog, error)
		QuerySubjectClassLogs(subjectID string) ([]timetable.ClassLog, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(nb NewBatch) (Batch, error) {
	now := time.Now().UTC()
	return svc.repo.CreateBatch(Batch{
		ID:        uuid.New().String(),
		Name:      nb.Name,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) QueryAll() ([]Batch, error) {
	return svc.repo.QueryAllBatches()
}

func (svc *Service) GetByID(id string) (Batch, error) {
	return svc.repo.GetBatchByID(id)
}

func (svc *Service) Delete(ids ...string) error {
	return svc.repo.DeleteBatchesByID(ids...)
}

func (svc *Service) AddSubject(batchID string, ns NewSubject) (Subject, error) {
	if _, err := svc.repo.GetBatchByID(batchID); err != nil {
		return Subject{}, err
	}
	rule, err := ns.Rule()
	if err != nil {
		return Subject{}, err
	}
	now := time.Now().UTC()
	return svc.repo.CreateSubject(Subject{
		ID:          uuid.New().String(),
		BatchID:     batchID,
		Name:        ns.Name,
		TeacherName: ns.TeacherName,
		Rule:        rule,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (svc *Service) GetSubject(id string) (Subject, error) {
	return svc.repo.GetSubjectByID(id)
}

func (svc *Service) QuerySubjects(batchID string) ([]Subject, error) {
	return svc.repo.QueryBatchSubjects(batchID)
}

func (svc *Service) UpdateSubject(id string, us UpdateSubject) (Subject, error) {
	sub, err := svc.repo.GetSubjectByID(id)
	if err != nil {
		return Subject{}, err
	}
	if us.Name != "" {
		sub.Name = us.Name
	}
	if us.TeacherName != "" {
		sub.TeacherName = us.TeacherName
	}
	if len(us.Weekdays) > 0 || us.StartTime != "" {
		rule := sub.Rule
		if len(us.Weekdays) > 0 {
			rule.Weekdays = nil
			for _, name := range us.Weekdays {
				wd, err := timetable.ParseWeekday(name)
				if err != nil {
					return Subject{}, err
				}
				if !rule.HasWeekday(wd) {
					rule.Weekdays = append(rule.Weekdays, wd)
				}
			}
		}
		if us.StartTime != "" {
			start, err := timetable.ParseTimeOfDay(us.StartTime)
			if err != nil {
				return Subject{}, err
			}
			rule.StartTime = start
		}
		if err := rule.Validate(); err != nil {
			return Subject{}, err
		}
		sub.Rule = rule
	}
	sub.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateSubject(sub)
}

func (svc *Service) DeleteSubjects(ids ...string) error {
	return svc.repo.DeleteSubjectsByID(ids...)
}

// LogClass records (or edits) what happened for a subject on a given date.
func (svc *Service) LogClass(subjectID string, date timetable.Date, entry LogClassEntry) (timetable.ClassLog, error) {
	sub, err := svc.repo.GetSubjectByID(subjectID)
	if err != nil {
		return timetable.ClassLog{}, err
	}

	lg, err := svc.repo.GetClassLog(subjectID, date)
	if err != nil {
		if err != ErrClassLogNotFound {
			return timetable.ClassLog{}, err
		}
		lg = timetable.ClassLog{
			ID:        uuid.New().String(),
			SubjectID: sub.ID,
			BatchID:   sub.BatchID,
			Date:      date,
		}
	}
	lg.Held = entry.Held
	lg.Note = entry.Note
	lg.Attendance = entry.Attendance
	lg.Finalized = entry.Finalized
	return svc.repo.UpsertClassLog(lg)
}

func (svc *Service) QueryClassLogs(subjectID string) ([]timetable.ClassLog, error) {
	return svc.repo.QuerySubjectClassLogs(subjectID)
}
