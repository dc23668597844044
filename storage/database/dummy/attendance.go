package dummydb

import (
	"github.com/suvrat007/tutora-sub000/core/attendance"
	"github.com/suvrat007/tutora-sub000/core/batch"
	"github.com/suvrat007/tutora-sub000/core/student"
	"github.com/suvrat007/tutora-sub000/core/timetable"
)

// attendanceRepository is the read-side view over the batch and student tables
// that the report orchestrator needs.
type attendanceRepository struct {
	batches  batch.Repository
	students student.Repository
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{
		batches:  NewBatchRepository(db),
		students: NewStudentRepository(db),
	}
}

func (repo *attendanceRepository) GetBatchByID(id string) (batch.Batch, error) {
	return repo.batches.GetBatchByID(id)
}

func (repo *attendanceRepository) QueryBatchSubjects(batchID string) ([]batch.Subject, error) {
	return repo.batches.QueryBatchSubjects(batchID)
}

func (repo *attendanceRepository) GetSubjectByID(id string) (batch.Subject, error) {
	return repo.batches.GetSubjectByID(id)
}

func (repo *attendanceRepository) QuerySubjectClassLogs(subjectID string) ([]timetable.ClassLog, error) {
	return repo.batches.QuerySubjectClassLogs(subjectID)
}

func (repo *attendanceRepository) GetStudentByID(id string) (student.Student, error) {
	return repo.students.GetStudentByID(id)
}

func (repo *attendanceRepository) QueryBatchStudents(batchID string) ([]student.Student, error) {
	return repo.students.QueryBatchStudents(batchID)
}
