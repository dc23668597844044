package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"

	"github.com/suvrat007/tutora-sub000/core/fee"
	"github.com/suvrat007/tutora-sub000/core/timetable"
)

type feeRepository struct {
	db *sqlx.DB
}

var _ fee.Repository = (*feeRepository)(nil) // interface compliance check

func NewFeeRepository(db *sqlx.DB) fee.Repository {
	return &feeRepository{db: db}
}

type feeRow struct {
	ID        string          `db:"id"`
	StudentID string          `db:"student_id"`
	Label     string          `db:"label"`
	Amount    decimal.Decimal `db:"amount"`
	DueDate   time.Time       `db:"due_date"`
	PaidOn    null.Time       `db:"paid_on"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

func (r feeRow) fee() fee.Fee {
	return fee.Fee{
		ID:        r.ID,
		StudentID: r.StudentID,
		Label:     r.Label,
		Amount:    r.Amount,
		DueDate:   timetable.DateOf(r.DueDate, time.UTC),
		PaidOn:    r.PaidOn,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (repo *feeRepository) CreateFee(f fee.Fee) (fee.Fee, error) {
	_, err := repo.db.Exec(
		`INSERT INTO fees (id, student_id, label, amount, due_date, paid_on, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		f.ID, f.StudentID, f.Label, f.Amount, f.DueDate.String(), f.PaidOn, f.CreatedAt, f.UpdatedAt,
	)
	return f, err
}

func (repo *feeRepository) GetFeeByID(id string) (fee.Fee, error) {
	var r feeRow
	if err := repo.db.Get(&r, "SELECT * FROM fees WHERE id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return fee.Fee{}, fee.ErrNotFound
		}
		return fee.Fee{}, err
	}
	return r.fee(), nil
}

func (repo *feeRepository) queryFees(query string, args ...interface{}) ([]fee.Fee, error) {
	var rows []feeRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, err
	}
	fees := make([]fee.Fee, 0, len(rows))
	for _, r := range rows {
		fees = append(fees, r.fee())
	}
	return fees, nil
}

func (repo *feeRepository) QueryStudentFees(studentID string) ([]fee.Fee, error) {
	return repo.queryFees("SELECT * FROM fees WHERE student_id = $1 ORDER BY due_date", studentID)
}

func (repo *feeRepository) QueryUnpaidFees() ([]fee.Fee, error) {
	return repo.queryFees("SELECT * FROM fees WHERE paid_on IS NULL ORDER BY due_date")
}

func (repo *feeRepository) UpdateFee(f fee.Fee) (fee.Fee, error) {
	res, err := repo.db.Exec(
		`UPDATE fees SET label = $2, amount = $3, due_date = $4, paid_on = $5, updated_at = $6 WHERE id = $1`,
		f.ID, f.Label, f.Amount, f.DueDate.String(), f.PaidOn, f.UpdatedAt,
	)
	if err != nil {
		return fee.Fee{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fee.Fee{}, fee.ErrNotFound
	}
	return f, nil
}

func (repo *feeRepository) DeleteFeesByID(ids ...string) error {
	_, err := repo.db.Exec("DELETE FROM fees WHERE id = ANY($1)", pq.StringArray(ids))
	return err
}
