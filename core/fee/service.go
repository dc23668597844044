package fee

import (
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"

	"github.com/suvrat007/tutora-sub000/core"
	"github.com/suvrat007/tutora-sub000/core/student"
	"github.com/suvrat007/tutora-sub000/core/timetable"
)

var (
	// errors
	ErrNotFound    = errors.New("fee not found")
	ErrAlreadyPaid = errors.New("fee already paid")
)

type (
	Repository interface {
		CreateFee(f Fee) (Fee, error)
		GetFeeByID(id string) (Fee, error)
		QueryStudentFees(studentID string) ([]Fee, error)
		QueryUnpaidFees() ([]Fee, error)
		UpdateFee(f Fee) (Fee, error)
		DeleteFeesByID(ids ...string) error
	}

	// StudentDirectory resolves students for reminder emails.
	StudentDirectory interface {
		GetByID(id string) (student.Student, error)
	}

	Service struct {
		repo     Repository
		students StudentDirectory
		mailSvc  core.EmailService
	}
)

func NewService(repo Repository, students StudentDirectory, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, students: students, mailSvc: mailSvc}
}

func (svc *Service) Create(nf NewFee) (Fee, error) {
	if _, err := svc.students.GetByID(nf.StudentID); err != nil {
		return Fee{}, err
	}
	amount, err := decimal.NewFromString(nf.Amount)
	if err != nil {
		return Fee{}, err
	}
	due, err := timetable.ParseDate(nf.DueDate)
	if err != nil {
		return Fee{}, err
	}
	now := time.Now().UTC()
	return svc.repo.CreateFee(Fee{
		ID:        uuid.New().String(),
		StudentID: nf.StudentID,
		Label:     nf.Label,
		Amount:    amount,
		DueDate:   due,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) GetByID(id string) (Fee, error) {
	return svc.repo.GetFeeByID(id)
}

func (svc *Service) QueryByStudent(studentID string) ([]Fee, error) {
	return svc.repo.QueryStudentFees(studentID)
}

// QueryOverdue returns unpaid fees whose due date is before asOf.
func (svc *Service) QueryOverdue(asOf timetable.Date) ([]Fee, error) {
	unpaid, err := svc.repo.QueryUnpaidFees()
	if err != nil {
		return nil, err
	}
	overdue := make([]Fee, 0, len(unpaid))
	for _, f := range unpaid {
		if f.Status(asOf) == StatusOverdue {
			overdue = append(overdue, f)
		}
	}
	return overdue, nil
}

func (svc *Service) MarkPaid(id string) (Fee, error) {
	f, err := svc.repo.GetFeeByID(id)
	if err != nil {
		return Fee{}, err
	}
	if f.PaidOn.Valid {
		return Fee{}, ErrAlreadyPaid
	}
	f.PaidOn = null.TimeFrom(time.Now().UTC())
	f.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateFee(f)
}

func (svc *Service) Delete(ids ...string) error {
	return svc.repo.DeleteFeesByID(ids...)
}

// SendReminders emails every student with an overdue fee as of the given date.
// Students without an email address are skipped. Returns the number of
// reminders handed to the email service.
func (svc *Service) SendReminders(asOf timetable.Date) (int, error) {
	overdue, err := svc.QueryOverdue(asOf)
	if err != nil {
		return 0, err
	}

	msgs := make([]*core.EmailMessage, 0, len(overdue))
	for _, f := range overdue {
		std, err := svc.students.GetByID(f.StudentID)
		if err != nil || std.Email == "" {
			continue
		}
		msgs = append(msgs, &core.EmailMessage{
			To:           []mail.Address{{Name: std.Name, Address: std.Email}},
			Subject:      fmt.Sprintf("Fee reminder: %s", f.Label),
			TemplateName: "fee_reminder",
			TemplateData: map[string]interface{}{
				"StudentName": std.Name,
				"Label":       f.Label,
				"Amount":      f.Amount.StringFixed(2),
				"DueDate":     f.DueDate.String(),
			},
		})
	}
	if len(msgs) > 0 {
		svc.mailSvc.SendMessages(msgs...)
	}
	return len(msgs), nil
}
