package database

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const deleteContestsByStudent = `-- name: DeleteContestsByStudent :exec
DELETE FROM contests
WHERE student_id = $1
`

func (q *Queries) DeleteContestsByStudent(ctx context.Context, studentID uuid.UUID) error {
	_, err := q.db.Exec(ctx, deleteContestsByStudent, studentID)
	return err
}

const deleteSubmissionsByStudent = `-- name: DeleteSubmissionsByStudent :exec
DELETE FROM submissions
WHERE student_id = $1
`

func (q *Queries) DeleteSubmissionsByStudent(ctx context.Context, studentID uuid.UUID) error {
	_, err := q.db.Exec(ctx, deleteSubmissionsByStudent, studentID)
	return err
}

const getContestsByStudentSince = `-- name: GetContestsByStudentSince :many
SELECT student_id, contest_id, name, contest_date, old_rating, new_rating, rank, unsolved_count FROM contests
WHERE student_id = $1 AND contest_date >= $2
ORDER BY contest_date ASC
`

type GetContestsByStudentSinceParams struct {
	StudentID   uuid.UUID
	ContestDate time.Time
}

func (q *Queries) GetContestsByStudentSince(ctx context.Context, arg GetContestsByStudentSinceParams) ([]Contest, error) {
	rows, err := q.db.Query(ctx, getContestsByStudentSince, arg.StudentID, arg.ContestDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Contest{}
	for rows.Next() {
		var i Contest
		if err := rows.Scan(
			&i.StudentID,
			&i.ContestID,
			&i.Name,
			&i.ContestDate,
			&i.OldRating,
			&i.NewRating,
			&i.Rank,
			&i.UnsolvedCount,
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

const getLastSubmissionAt = `-- name: GetLastSubmissionAt :one
SELECT MAX(submitted_at)::timestamptz AS last_submitted_at FROM submissions
WHERE student_id = $1
`

func (q *Queries) GetLastSubmissionAt(ctx context.Context, studentID uuid.UUID) (*time.Time, error) {
	row := q.db.QueryRow(ctx, getLastSubmissionAt, studentID)
	var last_submitted_at *time.Time
	err := row.Scan(&last_submitted_at)
	return last_submitted_at, err
}

const getSubmissionsByStudentSince = `-- name: GetSubmissionsByStudentSince :many
SELECT student_id, submission_id, problem_id, problem_name, problem_link, rating, verdict, submitted_at FROM submissions
WHERE student_id = $1 AND submitted_at >= $2
ORDER BY submitted_at ASC
`

type GetSubmissionsByStudentSinceParams struct {
	StudentID   uuid.UUID
	SubmittedAt time.Time
}

func (q *Queries) GetSubmissionsByStudentSince(ctx context.Context, arg GetSubmissionsByStudentSinceParams) ([]Submission, error) {
	rows, err := q.db.Query(ctx, getSubmissionsByStudentSince, arg.StudentID, arg.SubmittedAt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Submission{}
	for rows.Next() {
		var i Submission
		if err := rows.Scan(
			&i.StudentID,
			&i.SubmissionID,
			&i.ProblemID,
			&i.ProblemName,
			&i.ProblemLink,
			&i.Rating,
			&i.Verdict,
			&i.SubmittedAt,
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

type InsertContestsParams struct {
	StudentID     uuid.UUID
	ContestID     int32
	Name          string
	ContestDate   time.Time
	OldRating     int32
	NewRating     int32
	Rank          int32
	UnsolvedCount *int32
}

type InsertSubmissionsParams struct {
	StudentID    uuid.UUID
	SubmissionID int64
	ProblemID    string
	ProblemName  string
	ProblemLink  string
	Rating       int32
	Verdict      string
	SubmittedAt  time.Time
}
