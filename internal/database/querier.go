package database

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Querier interface {
	CreateStudent(ctx context.Context, arg CreateStudentParams) (Student, error)
	DeleteContestsByStudent(ctx context.Context, studentID uuid.UUID) error
	DeleteStudent(ctx context.Context, id uuid.UUID) (int64, error)
	DeleteSubmissionsByStudent(ctx context.Context, studentID uuid.UUID) error
	GetContestsByStudentSince(ctx context.Context, arg GetContestsByStudentSinceParams) ([]Contest, error)
	GetLastSubmissionAt(ctx context.Context, studentID uuid.UUID) (*time.Time, error)
	GetStudentByID(ctx context.Context, id uuid.UUID) (Student, error)
	GetSubmissionsByStudentSince(ctx context.Context, arg GetSubmissionsByStudentSinceParams) ([]Submission, error)
	IncrementReminderCount(ctx context.Context, id uuid.UUID) (Student, error)
	InsertContests(ctx context.Context, arg []InsertContestsParams) (int64, error)
	InsertSubmissions(ctx context.Context, arg []InsertSubmissionsParams) (int64, error)
	ListStudents(ctx context.Context) ([]Student, error)
	UpdateStudent(ctx context.Context, arg UpdateStudentParams) (Student, error)
	UpdateStudentSyncData(ctx context.Context, arg UpdateStudentSyncDataParams) (Student, error)
}

var _ Querier = (*Queries)(nil)
