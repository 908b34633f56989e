package database

import (
	"time"

	"github.com/google/uuid"
)

type Contest struct {
	StudentID     uuid.UUID
	ContestID     int32
	Name          string
	ContestDate   time.Time
	OldRating     int32
	NewRating     int32
	Rank          int32
	UnsolvedCount *int32
}

type Student struct {
	ID                    uuid.UUID
	Name                  string
	Email                 string
	Phone                 string
	Handle                string
	CurrentRating         int32
	MaxRating             int32
	LastSyncedAt          *time.Time
	EmailRemindersEnabled bool
	ReminderCount         int32
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

type Submission struct {
	StudentID    uuid.UUID
	SubmissionID int64
	ProblemID    string
	ProblemName  string
	ProblemLink  string
	Rating       int32
	Verdict      string
	SubmittedAt  time.Time
}
