package dummydb

import (
	"sync"

	"github.com/suvrat007/tutora-sub000/core/batch"
	"github.com/suvrat007/tutora-sub000/core/fee"
	"github.com/suvrat007/tutora-sub000/core/student"
	"github.com/suvrat007/tutora-sub000/core/timetable"
	"github.com/suvrat007/tutora-sub000/core/user"
)

type (
	DB struct {
		user     *userTable
		batch    *batchTable
		subject  *subjectTable
		classLog *classLogTable
		student  *studentTable
		fee      *feeTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}
	batchTable struct {
		sync.RWMutex
		table map[string]*batch.Batch
	}
	subjectTable struct {
		sync.RWMutex
		table map[string]*batch.Subject
	}
	classLogTable struct {
		sync.RWMutex
		table map[string]*timetable.ClassLog // keyed by log ID
	}
	studentTable struct {
		sync.RWMutex
		table map[string]*student.Student
	}
	feeTable struct {
		sync.RWMutex
		table map[string]*fee.Fee
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:     &userTable{table: make(map[string]*user.User)},
		batch:    &batchTable{table: make(map[string]*batch.Batch)},
		subject:  &subjectTable{table: make(map[string]*batch.Subject)},
		classLog: &classLogTable{table: make(map[string]*timetable.ClassLog)},
		student:  &studentTable{table: make(map[string]*student.Student)},
		fee:      &feeTable{table: make(map[string]*fee.Fee)},
	}
	return db, nil
}
