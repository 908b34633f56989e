package scheduler_service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tcp_snm/pulse/internal/pulse_errors"
)

func (s *Scheduler) ScheduleTask(req TaskRequest) (uuid.UUID, error) {
	// validate first
	err := validateTaskRequest(req)
	if err != nil {
		return uuid.Nil, err
	}

	if s.ctx.Err() != nil {
		err = fmt.Errorf("%w, scheduler is stopped", pulse_errors.ErrTaskLaunchError)
		logrus.Error(err)
		return uuid.Nil, err
	}

	// generate a random taskID
	taskID := uuid.New()

	task := Task{
		TaskRequest: req,
		TaskID:      taskID,
		State:       StateQueued,
		QueueTime:   time.Now(),
	}

	s.taskMapLock.Lock()
	defer s.taskMapLock.Unlock()

	s.cleanFinishedTasks()

	// never block the caller on a full queue
	select {
	case s.taskQueue <- &task:
	default:
		err = fmt.Errorf(
			"%w, task queue is full with %v tasks",
			pulse_errors.ErrTaskLaunchError,
			len(s.taskQueue),
		)
		logrus.WithField("task_name", req.Name).Error(err)
		return uuid.Nil, err
	}
	s.tasks[taskID] = &task

	task.getLogger("", "").Info("queued task")

	return taskID, nil
}

func validateTaskRequest(req TaskRequest) error {
	if req.Name == "" {
		return fmt.Errorf(
			"%w, task name cannot be empty",
			pulse_errors.ErrInvalidRequest,
		)
	}

	if req.Run == nil {
		return fmt.Errorf(
			"%w, Run function cannot be nil",
			pulse_errors.ErrInvalidRequest,
		)
	}

	return nil
}
