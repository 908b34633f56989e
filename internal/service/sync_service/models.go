package sync_service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tcp_snm/pulse/internal/service/scheduler_service"
	"github.com/tcp_snm/pulse/internal/service/student_service"
)

const (
	DefaultInterval       = 24 * time.Hour
	DefaultInactivityDays = 7
	syncTaskPrefix        = "sync_student_"
)

// Reminder is satisfied by *email.EmailService.
type Reminder interface {
	SendInactivityReminder(ctx context.Context, to, name, handle string, days int) error
}

type SyncService struct {
	Students  *student_service.StudentService
	Scheduler *scheduler_service.Scheduler
	// optional, nil disables inactivity reminders
	Reminder       Reminder
	InactivityDays int
	Now            func() time.Time

	logger *logrus.Entry
	stop   chan struct{}
}

type ScheduledSync struct {
	StudentID uuid.UUID `json:"student_id"`
	Handle    string    `json:"handle"`
	TaskID    uuid.UUID `json:"task_id"`
}
