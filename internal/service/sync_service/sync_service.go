package sync_service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tcp_snm/pulse/internal/service/scheduler_service"
	"github.com/tcp_snm/pulse/internal/service/student_service"
)

func (s *SyncService) Start() {
	if s.Students == nil || s.Scheduler == nil {
		panic("sync service requires student service and scheduler")
	}
	if s.InactivityDays <= 0 {
		s.InactivityDays = DefaultInactivityDays
	}
	if s.Now == nil {
		s.Now = time.Now
	}
	s.logger = logrus.WithField("from", "sync_service")
	s.stop = make(chan struct{})
}

// SyncStudent refreshes one student now and sends an inactivity reminder if due.
func (s *SyncService) SyncStudent(ctx context.Context, studentID uuid.UUID) (student_service.Student, error) {
	student, err := s.Students.RefreshStudent(ctx, studentID)
	if err != nil {
		return student_service.Student{}, err
	}

	reminded, err := s.remindIfInactive(ctx, student)
	if err != nil {
		// a failed reminder must not fail the sync
		s.logger.WithField("student_id", studentID).Warnf("inactivity check failed, %v", err)
	} else if reminded {
		student.ReminderCount++
	}

	return student, nil
}

// ScheduleSyncAll queues one sync task per student. Tasks are independent,
// so one failing handle does not affect the others.
func (s *SyncService) ScheduleSyncAll(ctx context.Context) ([]ScheduledSync, error) {
	students, err := s.Students.ListStudents(ctx)
	if err != nil {
		return nil, err
	}

	scheduled := make([]ScheduledSync, 0, len(students))
	for _, student := range students {
		studentID := student.ID
		taskID, err := s.Scheduler.ScheduleTask(scheduler_service.TaskRequest{
			Name: syncTaskPrefix + student.Handle,
			Run: func(ctx context.Context) error {
				_, err := s.SyncStudent(ctx, studentID)
				return err
			},
			OnTaskComplete: s.logSyncResult(student.Handle),
		})
		if err != nil {
			return scheduled, fmt.Errorf(
				"%w, scheduled %v of %v syncs",
				err,
				len(scheduled),
				len(students),
			)
		}
		scheduled = append(scheduled, ScheduledSync{
			StudentID: studentID,
			Handle:    student.Handle,
			TaskID:    taskID,
		})
	}

	s.logger.Infof("scheduled sync of %v students", len(scheduled))
	return scheduled, nil
}

func (s *SyncService) logSyncResult(handle string) func(uuid.UUID, error) {
	return func(taskID uuid.UUID, err error) {
		logger := s.logger.WithFields(logrus.Fields{
			"handle":  handle,
			"task_id": taskID,
		})
		if err != nil {
			logger.Errorf("scheduled sync failed, %v", err)
			return
		}
		logger.Info("scheduled sync completed")
	}
}

// StartPeriodicSync calls ScheduleSyncAll every interval until Stop.
// A non positive interval disables periodic syncing.
func (s *SyncService) StartPeriodicSync(interval time.Duration) {
	if interval <= 0 {
		s.logger.Info("periodic sync disabled")
		return
	}

	s.logger.Infof("syncing all students every %v", interval)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				if _, err := s.ScheduleSyncAll(context.Background()); err != nil {
					s.logger.Errorf("periodic sync failed, %v", err)
				}
			}
		}
	}()
}

func (s *SyncService) Stop() {
	close(s.stop)
}

func (s *SyncService) remindIfInactive(ctx context.Context, student student_service.Student) (bool, error) {
	if s.Reminder == nil || !student.EmailRemindersEnabled {
		return false, nil
	}

	last, err := s.Students.LastSubmissionAt(ctx, student.ID)
	if err != nil {
		return false, err
	}
	threshold := s.Now().AddDate(0, 0, -s.InactivityDays)
	if last != nil && last.After(threshold) {
		return false, nil
	}

	err = s.Reminder.SendInactivityReminder(ctx, student.Email, student.Name, student.Handle, s.InactivityDays)
	if err != nil {
		return false, err
	}
	if err = s.Students.IncrementReminderCount(ctx, student.ID); err != nil {
		return false, err
	}

	s.logger.WithField("handle", student.Handle).Info("sent inactivity reminder")
	return true, nil
}
