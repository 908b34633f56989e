package scheduler_service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tcp_snm/pulse/internal/pulse_errors"
)

func (t *Task) getState() TaskState {
	t.Lock()
	defer t.Unlock()

	return t.State
}

func (t *Task) status() TaskStatus {
	t.Lock()
	defer t.Unlock()

	status := TaskStatus{
		TaskID:    t.TaskID,
		Name:      t.Name,
		State:     t.State,
		QueueTime: t.QueueTime,
	}
	if t.Err != nil {
		status.Error = t.Err.Error()
	}
	if !t.LaunchTime.IsZero() {
		launch := t.LaunchTime
		status.LaunchTime = &launch
	}
	if !t.FinishTime.IsZero() {
		finish := t.FinishTime
		status.FinishTime = &finish
	}
	return status
}

func (s *Scheduler) getTask(taskID uuid.UUID) (*Task, error) {
	s.taskMapLock.RLock()
	defer s.taskMapLock.RUnlock()

	// get task
	task, ok := s.tasks[taskID]
	if !ok {
		return nil, fmt.Errorf(
			"%w, task with id %v does not exist",
			pulse_errors.ErrNotFound,
			taskID,
		)
	}

	return task, nil
}

// not thread safe, hold taskMapLock
func (s *Scheduler) cleanFinishedTasks() {
	deadline := time.Now().Add(-s.Retention)
	for id, task := range s.tasks {
		task.Lock()
		expired := !task.FinishTime.IsZero() && task.FinishTime.Before(deadline)
		task.Unlock()
		if expired {
			delete(s.tasks, id)
		}
	}
}

func (t *Task) getLogger(prefix string, suffix string) *logrus.Entry {
	return logrus.WithFields(
		logrus.Fields{
			prefix + "id" + suffix:   t.TaskID,
			prefix + "name" + suffix: t.Name,
		},
	)
}
