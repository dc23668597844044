package dummydb

import (
	"sort"

	"github.com/suvrat007/tutora-sub000/core/batch"
	"github.com/suvrat007/tutora-sub000/core/timetable"
)

type batchRepository struct {
	batches  *batchTable
	subjects *subjectTable
	logs     *classLogTable
}

var _ batch.Repository = (*batchRepository)(nil) // interface compliance check

func NewBatchRepository(db *DB) batch.Repository {
	return &batchRepository{batches: db.batch, subjects: db.subject, logs: db.classLog}
}

func (repo *batchRepository) CreateBatch(b batch.Batch) (batch.Batch, error) {
	repo.batches.Lock()
	defer repo.batches.Unlock()

	repo.batches.table[b.ID] = &b
	return b, nil
}

func (repo *batchRepository) QueryAllBatches() ([]batch.Batch, error) {
	repo.batches.RLock()
	defer repo.batches.RUnlock()

	batches := make([]batch.Batch, 0, len(repo.batches.table))
	for _, b := range repo.batches.table {
		batches = append(batches, *b)
	}
	sort.Slice(batches, func(i, j int) bool { return batches[i].CreatedAt.Before(batches[j].CreatedAt) })
	return batches, nil
}

func (repo *batchRepository) GetBatchByID(id string) (batch.Batch, error) {
	repo.batches.RLock()
	defer repo.batches.RUnlock()

	if b, ok := repo.batches.table[id]; ok {
		return *b, nil
	}
	return batch.Batch{}, batch.ErrNotFound
}

func (repo *batchRepository) UpdateBatch(b batch.Batch) (batch.Batch, error) {
	repo.batches.Lock()
	defer repo.batches.Unlock()

	orig, ok := repo.batches.table[b.ID]
	if !ok {
		return batch.Batch{}, batch.ErrNotFound
	}
	if b.Name != "" {
		orig.Name = b.Name
	}
	if !b.UpdatedAt.IsZero() {
		orig.UpdatedAt = b.UpdatedAt
	}
	return *orig, nil
}

func (repo *batchRepository) DeleteBatchesByID(ids ...string) error {
	repo.batches.Lock()
	defer repo.batches.Unlock()
	for _, id := range ids {
		delete(repo.batches.table, id)
	}
	return nil
}

func (repo *batchRepository) CreateSubject(s batch.Subject) (batch.Subject, error) {
	repo.subjects.Lock()
	defer repo.subjects.Unlock()

	repo.subjects.table[s.ID] = &s
	return s, nil
}

func (repo *batchRepository) GetSubjectByID(id string) (batch.Subject, error) {
	repo.subjects.RLock()
	defer repo.subjects.RUnlock()

	if s, ok := repo.subjects.table[id]; ok {
		return *s, nil
	}
	return batch.Subject{}, batch.ErrSubjectNotFound
}

func (repo *batchRepository) QueryBatchSubjects(batchID string) ([]batch.Subject, error) {
	repo.subjects.RLock()
	defer repo.subjects.RUnlock()

	subjects := make([]batch.Subject, 0)
	for _, s := range repo.subjects.table {
		if s.BatchID == batchID {
			subjects = append(subjects, *s)
		}
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].CreatedAt.Before(subjects[j].CreatedAt) })
	return subjects, nil
}

func (repo *batchRepository) UpdateSubject(s batch.Subject) (batch.Subject, error) {
	repo.subjects.Lock()
	defer repo.subjects.Unlock()

	if _, ok := repo.subjects.table[s.ID]; !ok {
		return batch.Subject{}, batch.ErrSubjectNotFound
	}
	repo.subjects.table[s.ID] = &s
	return s, nil
}

func (repo *batchRepository) DeleteSubjectsByID(ids ...string) error {
	repo.subjects.Lock()
	defer repo.subjects.Unlock()
	for _, id := range ids {
		delete(repo.subjects.table, id)
	}
	return nil
}

func (repo *batchRepository) UpsertClassLog(lg timetable.ClassLog) (timetable.ClassLog, error) {
	repo.logs.Lock()
	defer repo.logs.Unlock()

	// one log per (subject, date)
	for id, existing := range repo.logs.table {
		if existing.SubjectID == lg.SubjectID && existing.Date == lg.Date && id != lg.ID {
			delete(repo.logs.table, id)
		}
	}
	repo.logs.table[lg.ID] = &lg
	return lg, nil
}

func (repo *batchRepository) GetClassLog(subjectID string, date timetable.Date) (timetable.ClassLog, error) {
	repo.logs.RLock()
	defer repo.logs.RUnlock()

	for _, lg := range repo.logs.table {
		if lg.SubjectID == subjectID && lg.Date == date {
			return *lg, nil
		}
	}
	return timetable.ClassLog{}, batch.ErrClassLogNotFound
}

func (repo *batchRepository) QuerySubjectClassLogs(subjectID string) ([]timetable.ClassLog, error) {
	repo.logs.RLock()
	defer repo.logs.RUnlock()

	logs := make([]timetable.ClassLog, 0)
	for _, lg := range repo.logs.table {
		if lg.SubjectID == subjectID {
			logs = append(logs, *lg)
		}
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].Date.Before(logs[j].Date) })
	return logs, nil
}
