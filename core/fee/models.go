package fee

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"

	"github.com/suvrat007/tutora-sub000/core"
	"github.com/suvrat007/tutora-sub000/core/timetable"
)

// Fee statuses, derived from PaidOn and DueDate; never stored.
const (
	StatusPaid    = "paid"
	StatusPending = "pending"
	StatusOverdue = "overdue"
)

// Fee is one payable installment for a student.
type Fee struct {
	ID        string          `json:"id"`
	StudentID string          `json:"student_id"`
	Label     string          `json:"label"` // e.g. "March 2024"
	Amount    decimal.Decimal `json:"amount"`
	DueDate   timetable.Date  `json:"due_date"`
	PaidOn    null.Time       `json:"paid_on,omitempty"`
	CreatedAt time.Time       `json:"created_at"` // UTC
	UpdatedAt time.Time       `json:"updated_at"` // UTC
}

// Status returns the fee's standing as of the given date.
func (f Fee) Status(asOf timetable.Date) string {
	if f.PaidOn.Valid {
		return StatusPaid
	}
	if f.DueDate.Before(asOf) {
		return StatusOverdue
	}
	return StatusPending
}

// NewFee contains information needed to raise a fee installment.
type NewFee struct {
	StudentID string `json:"student_id" validate:"required"`
	Label     string `json:"label" validate:"required"`
	Amount    string `json:"amount" validate:"required"`
	DueDate   string `json:"due_date" validate:"required,date"`
}

func (nf *NewFee) Validate() error {
	nf.StudentID = core.CleanString(nf.StudentID)
	nf.Label = core.CleanString(nf.Label)
	nf.Amount = core.CleanString(nf.Amount)
	nf.DueDate = core.CleanString(nf.DueDate)

	if err := core.Validate.Struct(nf); err != nil {
		return err
	}
	amount, err := decimal.NewFromString(nf.Amount)
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "amount", Error: "invalid amount"})
	}
	if amount.IsNegative() || amount.IsZero() {
		return core.NewValidationError(nil, core.FieldError{Field: "amount", Error: "amount must be positive"})
	}
	return nil
}
