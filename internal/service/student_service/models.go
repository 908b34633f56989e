package student_service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tcp_snm/pulse/internal/database"
	"github.com/tcp_snm/pulse/internal/pulse_errors"
	"github.com/tcp_snm/pulse/internal/service/codeforces_service"
)

type StudentService struct {
	DB      database.Store
	Fetcher Fetcher
}

// Fetcher is satisfied by *codeforces_service.CodeforcesService.
type Fetcher interface {
	Fetch(ctx context.Context, handle string, force bool) (codeforces_service.FetchResult, error)
}

type Student struct {
	ID                    uuid.UUID  `json:"id"`
	Name                  string     `json:"name"`
	Email                 string     `json:"email"`
	Phone                 string     `json:"phone"`
	Handle                string     `json:"handle"`
	CurrentRating         int32      `json:"current_rating"`
	MaxRating             int32      `json:"max_rating"`
	LastSyncedAt          *time.Time `json:"last_synced_at"`
	EmailRemindersEnabled bool       `json:"email_reminders_enabled"`
	ReminderCount         int32      `json:"reminder_count"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

type StudentRequest struct {
	Name                  string `json:"name" validate:"required,min=2,max=100"`
	Email                 string `json:"email" validate:"required,email"`
	Phone                 string `json:"phone" validate:"required,phone"`
	Handle                string `json:"handle" validate:"required,cf_handle"`
	EmailRemindersEnabled *bool  `json:"email_reminders_enabled"`
}

var errMsgs = map[string]map[string]string{
	pulse_errors.CodeUniqueConstraint: {
		"uq_students_handle": "a student with that codeforces handle already exist",
	},
}

func dbStudentToStudent(s database.Student) Student {
	return Student{
		ID:                    s.ID,
		Name:                  s.Name,
		Email:                 s.Email,
		Phone:                 s.Phone,
		Handle:                s.Handle,
		CurrentRating:         s.CurrentRating,
		MaxRating:             s.MaxRating,
		LastSyncedAt:          s.LastSyncedAt,
		EmailRemindersEnabled: s.EmailRemindersEnabled,
		ReminderCount:         s.ReminderCount,
		CreatedAt:             s.CreatedAt,
		UpdatedAt:             s.UpdatedAt,
	}
}
