package student

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/suvrat007/tutora-sub000/core/timetable"
)

var (
	// errors
	ErrNotFound = errors.New("student not found")
)

type (
	Repository interface {
		CreateStudent(s Student) (Student, error)
		QueryAllStudents() ([]Student, error)
		QueryBatchStudents(batchID string) ([]Student, error)
		GetStudentByID(id string) (Student, error)
		UpdateStudent(s Student) (Student, error)
		DeleteStudentsByID(ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Register(ns NewStudent) (Student, error) {
	enrolled, err := timetable.ParseDate(ns.EnrolledAt)
	if err != nil {
		return Student{}, err
	}
	now := time.Now().UTC()
	return svc.repo.CreateStudent(Student{
		ID:         uuid.New().String(),
		Name:       ns.Name,
		Email:      ns.Email,
		Phone:      ns.Phone,
		BatchID:    ns.BatchID,
		EnrolledAt: enrolled,
		SubjectIDs: ns.SubjectIDs,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

func (svc *Service) QueryAll() ([]Student, error) {
	return svc.repo.QueryAllStudents()
}

func (svc *Service) QueryByBatch(batchID string) ([]Student, error) {
	return svc.repo.QueryBatchStudents(batchID)
}

func (svc *Service) GetByID(id string) (Student, error) {
	return svc.repo.GetStudentByID(id)
}

func (svc *Service) Update(id string, us UpdateStudent) (Student, error) {
	std, err := svc.repo.GetStudentByID(id)
	if err != nil {
		return Student{}, err
	}
	if us.Name != "" {
		std.Name = us.Name
	}
	if us.Email != "" {
		std.Email = us.Email
	}
	if us.Phone != "" {
		std.Phone = us.Phone
	}
	if us.EnrolledAt != "" {
		enrolled, err := timetable.ParseDate(us.EnrolledAt)
		if err != nil {
			return Student{}, err
		}
		std.EnrolledAt = enrolled
	}
	if us.SubjectIDs != nil {
		std.SubjectIDs = us.SubjectIDs
	}
	if us.Left != nil {
		if *us.Left {
			std.LeftAt = null.TimeFrom(time.Now().UTC())
		} else {
			std.LeftAt = null.Time{}
		}
	}
	std.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(std)
}

func (svc *Service) Delete(ids ...string) error {
	return svc.repo.DeleteStudentsByID(ids...)
}
