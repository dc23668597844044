package dummydb

import (
	"sort"

	"github.com/suvrat007/tutora-sub000/core/fee"
)

type feeRepository struct {
	db *feeTable
}

var _ fee.Repository = (*feeRepository)(nil) // interface compliance check

func NewFeeRepository(db *DB) fee.Repository {
	return &feeRepository{db: db.fee}
}

func (repo *feeRepository) query() []fee.Fee {
	fees := make([]fee.Fee, 0, len(repo.db.table))
	for _, f := range repo.db.table {
		fees = append(fees, *f)
	}
	sort.Slice(fees, func(i, j int) bool { return fees[i].DueDate.Before(fees[j].DueDate) })
	return fees
}

func (repo *feeRepository) CreateFee(f fee.Fee) (fee.Fee, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[f.ID] = &f
	return f, nil
}

func (repo *feeRepository) GetFeeByID(id string) (fee.Fee, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if f, ok := repo.db.table[id]; ok {
		return *f, nil
	}
	return fee.Fee{}, fee.ErrNotFound
}

func (repo *feeRepository) QueryStudentFees(studentID string) ([]fee.Fee, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	fees := make([]fee.Fee, 0)
	for _, f := range repo.query() {
		if f.StudentID == studentID {
			fees = append(fees, f)
		}
	}
	return fees, nil
}

func (repo *feeRepository) QueryUnpaidFees() ([]fee.Fee, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	fees := make([]fee.Fee, 0)
	for _, f := range repo.query() {
		if !f.PaidOn.Valid {
			fees = append(fees, f)
		}
	}
	return fees, nil
}

func (repo *feeRepository) UpdateFee(f fee.Fee) (fee.Fee, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[f.ID]; !ok {
		return fee.Fee{}, fee.ErrNotFound
	}
	repo.db.table[f.ID] = &f
	return f, nil
}

func (repo *feeRepository) DeleteFeesByID(ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
