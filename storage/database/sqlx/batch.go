package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/suvrat007/tutora-sub000/core/batch"
	"github.com/suvrat007/tutora-sub000/core/timetable"
)

type batchRepository struct {
	db *sqlx.DB
}

var _ batch.Repository = (*batchRepository)(nil) // interface compliance check

func NewBatchRepository(db *sqlx.DB) batch.Repository {
	return &batchRepository{db: db}
}

type batchRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r batchRow) batch() batch.Batch {
	return batch.Batch{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

type subjectRow struct {
	ID          string        `db:"id"`
	BatchID     string        `db:"batch_id"`
	Name        string        `db:"name"`
	TeacherName string        `db:"teacher_name"`
	Weekdays    pq.Int64Array `db:"weekdays"`
	StartTime   string        `db:"start_time"`
	CreatedAt   time.Time     `db:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at"`
}

func (r subjectRow) subject() (batch.Subject, error) {
	start, err := timetable.ParseTimeOfDay(r.StartTime)
	if err != nil {
		return batch.Subject{}, err
	}
	rule := timetable.RecurrenceRule{StartTime: start}
	for _, wd := range r.Weekdays {
		rule.Weekdays = append(rule.Weekdays, time.Weekday(wd))
	}
	return batch.Subject{
		ID:          r.ID,
		BatchID:     r.BatchID,
		Name:        r.Name,
		TeacherName: r.TeacherName,
		Rule:        rule,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}

func ruleWeekdays(rule timetable.RecurrenceRule) pq.Int64Array {
	wds := make(pq.Int64Array, 0, len(rule.Weekdays))
	for _, wd := range rule.Weekdays {
		wds = append(wds, int64(wd))
	}
	return wds
}

type classLogRow struct {
	ID         string         `db:"id"`
	SubjectID  string         `db:"subject_id"`
	BatchID    string         `db:"batch_id"`
	Date       time.Time      `db:"date"`
	Held       bool           `db:"held"`
	Note       string         `db:"note"`
	Attendance pq.StringArray `db:"attendance"`
	Finalized  bool           `db:"finalized"`
}

func (r classLogRow) classLog() timetable.ClassLog {
	return timetable.ClassLog{
		ID:         r.ID,
		SubjectID:  r.SubjectID,
		BatchID:    r.BatchID,
		Date:       timetable.DateOf(r.Date, time.UTC),
		Held:       r.Held,
		Note:       r.Note,
		Attendance: r.Attendance,
		Finalized:  r.Finalized,
	}
}

func (repo *batchRepository) CreateBatch(b batch.Batch) (batch.Batch, error) {
	_, err := repo.db.Exec(
		"INSERT INTO batches (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)",
		b.ID, b.Name, b.CreatedAt, b.UpdatedAt,
	)
	return b, err
}

func (repo *batchRepository) QueryAllBatches() ([]batch.Batch, error) {
	var rows []batchRow
	if err := repo.db.Select(&rows, "SELECT * FROM batches ORDER BY created_at"); err != nil {
		return nil, err
	}
	batches := make([]batch.Batch, 0, len(rows))
	for _, r := range rows {
		batches = append(batches, r.batch())
	}
	return batches, nil
}

func (repo *batchRepository) GetBatchByID(id string) (batch.Batch, error) {
	var r batchRow
	if err := repo.db.Get(&r, "SELECT * FROM batches WHERE id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return batch.Batch{}, batch.ErrNotFound
		}
		return batch.Batch{}, err
	}
	return r.batch(), nil
}

func (repo *batchRepository) UpdateBatch(b batch.Batch) (batch.Batch, error) {
	res, err := repo.db.Exec(
		"UPDATE batches SET name = $2, updated_at = $3 WHERE id = $1",
		b.ID, b.Name, b.UpdatedAt,
	)
	if err != nil {
		return batch.Batch{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return batch.Batch{}, batch.ErrNotFound
	}
	return b, nil
}

func (repo *batchRepository) DeleteBatchesByID(ids ...string) error {
	_, err := repo.db.Exec("DELETE FROM batches WHERE id = ANY($1)", pq.StringArray(ids))
	return err
}

func (repo *batchRepository) CreateSubject(s batch.Subject) (batch.Subject, error) {
	_, err := repo.db.Exec(
		`INSERT INTO subjects (id, batch_id, name, teacher_name, weekdays, start_time, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.BatchID, s.Name, s.TeacherName,
		ruleWeekdays(s.Rule), s.Rule.StartTime.String(), s.CreatedAt, s.UpdatedAt,
	)
	return s, err
}

func (repo *batchRepository) GetSubjectByID(id string) (batch.Subject, error) {
	var r subjectRow
	if err := repo.db.Get(&r, "SELECT * FROM subjects WHERE id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return batch.Subject{}, batch.ErrSubjectNotFound
		}
		return batch.Subject{}, err
	}
	return r.subject()
}

func (repo *batchRepository) QueryBatchSubjects(batchID string) ([]batch.Subject, error) {
	var rows []subjectRow
	if err := repo.db.Select(&rows, "SELECT * FROM subjects WHERE batch_id = $1 ORDER BY created_at", batchID); err != nil {
		return nil, err
	}
	subjects := make([]batch.Subject, 0, len(rows))
	for _, r := range rows {
		s, err := r.subject()
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, nil
}

func (repo *batchRepository) UpdateSubject(s batch.Subject) (batch.Subject, error) {
	res, err := repo.db.Exec(
		`UPDATE subjects SET name = $2, teacher_name = $3, weekdays = $4, start_time = $5, updated_at = $6
		 WHERE id = $1`,
		s.ID, s.Name, s.TeacherName, ruleWeekdays(s.Rule), s.Rule.StartTime.String(), s.UpdatedAt,
	)
	if err != nil {
		return batch.Subject{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return batch.Subject{}, batch.ErrSubjectNotFound
	}
	return s, nil
}

func (repo *batchRepository) DeleteSubjectsByID(ids ...string) error {
	_, err := repo.db.Exec("DELETE FROM subjects WHERE id = ANY($1)", pq.StringArray(ids))
	return err
}

func (repo *batchRepository) UpsertClassLog(lg timetable.ClassLog) (timetable.ClassLog, error) {
	_, err := repo.db.Exec(
		`INSERT INTO class_logs (id, subject_id, batch_id, date, held, note, attendance, finalized)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (subject_id, date) DO UPDATE
		 SET held = EXCLUDED.held, note = EXCLUDED.note,
		     attendance = EXCLUDED.attendance, finalized = EXCLUDED.finalized`,
		lg.ID, lg.SubjectID, lg.BatchID, lg.Date.String(), lg.Held, lg.Note,
		pq.StringArray(lg.Attendance), lg.Finalized,
	)
	return lg, err
}

func (repo *batchRepository) GetClassLog(subjectID string, date timetable.Date) (timetable.ClassLog, error) {
	var r classLogRow
	err := repo.db.Get(&r, "SELECT * FROM class_logs WHERE subject_id = $1 AND date = $2", subjectID, date.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return timetable.ClassLog{}, batch.ErrClassLogNotFound
		}
		return timetable.ClassLog{}, err
	}
	return r.classLog(), nil
}

func (repo *batchRepository) QuerySubjectClassLogs(subjectID string) ([]timetable.ClassLog, error) {
	var rows []classLogRow
	if err := repo.db.Select(&rows, "SELECT * FROM class_logs WHERE subject_id = $1 ORDER BY date", subjectID); err != nil {
		return nil, err
	}
	logs := make([]timetable.ClassLog, 0, len(rows))
	for _, r := range rows {
		logs = append(logs, r.classLog())
	}
	return logs, nil
}
