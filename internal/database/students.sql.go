package database

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const createStudent = `-- name: CreateStudent :one
INSERT INTO students (
    name, email, phone, handle, current_rating, max_rating, last_synced_at, email_reminders_enabled
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8
)
RETURNING id, name, email, phone, handle, current_rating, max_rating, last_synced_at, email_reminders_enabled, reminder_count, created_at, updated_at
`

type CreateStudentParams struct {
	Name                  string
	Email                 string
	Phone                 string
	Handle                string
	CurrentRating         int32
	MaxRating             int32
	LastSyncedAt          *time.Time
	EmailRemindersEnabled bool
}

func (q *Queries) CreateStudent(ctx context.Context, arg CreateStudentParams) (Student, error) {
	row := q.db.QueryRow(ctx, createStudent,
		arg.Name,
		arg.Email,
		arg.Phone,
		arg.Handle,
		arg.CurrentRating,
		arg.MaxRating,
		arg.LastSyncedAt,
		arg.EmailRemindersEnabled,
	)
	var i Student
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.Phone,
		&i.Handle,
		&i.CurrentRating,
		&i.MaxRating,
		&i.LastSyncedAt,
		&i.EmailRemindersEnabled,
		&i.ReminderCount,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const deleteStudent = `-- name: DeleteStudent :execrows
DELETE FROM students
WHERE id = $1
`

func (q *Queries) DeleteStudent(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.Exec(ctx, deleteStudent, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getStudentByID = `-- name: GetStudentByID :one
SELECT id, name, email, phone, handle, current_rating, max_rating, last_synced_at, email_reminders_enabled, reminder_count, created_at, updated_at FROM students
WHERE id = $1
`

func (q *Queries) GetStudentByID(ctx context.Context, id uuid.UUID) (Student, error) {
	row := q.db.QueryRow(ctx, getStudentByID, id)
	var i Student
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.Phone,
		&i.Handle,
		&i.CurrentRating,
		&i.MaxRating,
		&i.LastSyncedAt,
		&i.EmailRemindersEnabled,
		&i.ReminderCount,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const incrementReminderCount = `-- name: IncrementReminderCount :one
UPDATE students
SET reminder_count = reminder_count + 1
WHERE id = $1
RETURNING id, name, email, phone, handle, current_rating, max_rating, last_synced_at, email_reminders_enabled, reminder_count, created_at, updated_at
`

func (q *Queries) IncrementReminderCount(ctx context.Context, id uuid.UUID) (Student, error) {
	row := q.db.QueryRow(ctx, incrementReminderCount, id)
	var i Student
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.Phone,
		&i.Handle,
		&i.CurrentRating,
		&i.MaxRating,
		&i.LastSyncedAt,
		&i.EmailRemindersEnabled,
		&i.ReminderCount,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listStudents = `-- name: ListStudents :many
SELECT id, name, email, phone, handle, current_rating, max_rating, last_synced_at, email_reminders_enabled, reminder_count, created_at, updated_at FROM students
ORDER BY name, id
`

func (q *Queries) ListStudents(ctx context.Context) ([]Student, error) {
	rows, err := q.db.Query(ctx, listStudents)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Student{}
	for rows.Next() {
		var i Student
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Email,
			&i.Phone,
			&i.Handle,
			&i.CurrentRating,
			&i.MaxRating,
			&i.LastSyncedAt,
			&i.EmailRemindersEnabled,
			&i.ReminderCount,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateStudent = `-- name: UpdateStudent :one
UPDATE students
SET name = $2,
    email = $3,
    phone = $4,
    handle = $5,
    email_reminders_enabled = $6,
    updated_at = NOW()
WHERE id = $1
RETURNING id, name, email, phone, handle, current_rating, max_rating, last_synced_at, email_reminders_enabled, reminder_count, created_at, updated_at
`

type UpdateStudentParams struct {
	ID                    uuid.UUID
	Name                  string
	Email                 string
	Phone                 string
	Handle                string
	EmailRemindersEnabled bool
}

func (q *Queries) UpdateStudent(ctx context.Context, arg UpdateStudentParams) (Student, error) {
	row := q.db.QueryRow(ctx, updateStudent,
		arg.ID,
		arg.Name,
		arg.Email,
		arg.Phone,
		arg.Handle,
		arg.EmailRemindersEnabled,
	)
	var i Student
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.Phone,
		&i.Handle,
		&i.CurrentRating,
		&i.MaxRating,
		&i.LastSyncedAt,
		&i.EmailRemindersEnabled,
		&i.ReminderCount,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateStudentSyncData = `-- name: UpdateStudentSyncData :one
UPDATE students
SET current_rating = $2,
    max_rating = $3,
    last_synced_at = $4,
    updated_at = NOW()
WHERE id = $1
RETURNING id, name, email, phone, handle, current_rating, max_rating, last_synced_at, email_reminders_enabled, reminder_count, created_at, updated_at
`

type UpdateStudentSyncDataParams struct {
	ID            uuid.UUID
	CurrentRating int32
	MaxRating     int32
	LastSyncedAt  *time.Time
}

func (q *Queries) UpdateStudentSyncData(ctx context.Context, arg UpdateStudentSyncDataParams) (Student, error) {
	row := q.db.QueryRow(ctx, updateStudentSyncData,
		arg.ID,
		arg.CurrentRating,
		arg.MaxRating,
		arg.LastSyncedAt,
	)
	var i Student
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.Phone,
		&i.Handle,
		&i.CurrentRating,
		&i.MaxRating,
		&i.LastSyncedAt,
		&i.EmailRemindersEnabled,
		&i.ReminderCount,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
