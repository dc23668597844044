package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/volatiletech/null/v8"

	"github.com/suvrat007/tutora-sub000/core/student"
	"github.com/suvrat007/tutora-sub000/core/timetable"
)

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) student.Repository {
	return &studentRepository{db: db}
}

type studentRow struct {
	ID         string         `db:"id"`
	Name       string         `db:"name"`
	Email      string         `db:"email"`
	Phone      string         `db:"phone"`
	BatchID    string         `db:"batch_id"`
	EnrolledAt time.Time      `db:"enrolled_at"`
	SubjectIDs pq.StringArray `db:"subject_ids"`
	LeftAt     null.Time      `db:"left_at"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

func (r studentRow) student() student.Student {
	return student.Student{
		ID:         r.ID,
		Name:       r.Name,
		Email:      r.Email,
		Phone:      r.Phone,
		BatchID:    r.BatchID,
		EnrolledAt: timetable.DateOf(r.EnrolledAt, time.UTC),
		SubjectIDs: r.SubjectIDs,
		LeftAt:     r.LeftAt,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func (repo *studentRepository) CreateStudent(s student.Student) (student.Student, error) {
	_, err := repo.db.Exec(
		`INSERT INTO students (id, name, email, phone, batch_id, enrolled_at, subject_ids, left_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, s.Name, s.Email, s.Phone, s.BatchID, s.EnrolledAt.String(),
		pq.StringArray(s.SubjectIDs), s.LeftAt, s.CreatedAt, s.UpdatedAt,
	)
	return s, err
}

func (repo *studentRepository) queryStudents(query string, args ...interface{}) ([]student.Student, error) {
	var rows []studentRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, err
	}
	students := make([]student.Student, 0, len(rows))
	for _, r := range rows {
		students = append(students, r.student())
	}
	return students, nil
}

func (repo *studentRepository) QueryAllStudents() ([]student.Student, error) {
	return repo.queryStudents("SELECT * FROM students ORDER BY created_at")
}

func (repo *studentRepository) QueryBatchStudents(batchID string) ([]student.Student, error) {
	return repo.queryStudents("SELECT * FROM students WHERE batch_id = $1 ORDER BY created_at", batchID)
}

func (repo *studentRepository) GetStudentByID(id string) (student.Student, error) {
	var r studentRow
	if err := repo.db.Get(&r, "SELECT * FROM students WHERE id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, err
	}
	return r.student(), nil
}

func (repo *studentRepository) UpdateStudent(s student.Student) (student.Student, error) {
	res, err := repo.db.Exec(
		`UPDATE students SET name = $2, email = $3, phone = $4, enrolled_at = $5, subject_ids = $6,
		 left_at = $7, updated_at = $8 WHERE id = $1`,
		s.ID, s.Name, s.Email, s.Phone, s.EnrolledAt.String(),
		pq.StringArray(s.SubjectIDs), s.LeftAt, s.UpdatedAt,
	)
	if err != nil {
		return student.Student{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return s, nil
}

func (repo *studentRepository) DeleteStudentsByID(ids ...string) error {
	_, err := repo.db.Exec("DELETE FROM students WHERE id = ANY($1)", pq.StringArray(ids))
	return err
}
