package scheduler_service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

func (s *Scheduler) GetTaskState(taskID uuid.UUID) (TaskState, error) {
	task, err := s.getTask(taskID)
	if err != nil {
		return StateUnknown, err
	}

	return task.getState(), nil
}

func (s *Scheduler) GetTaskStatus(taskID uuid.UUID) (TaskStatus, error) {
	task, err := s.getTask(taskID)
	if err != nil {
		return TaskStatus{}, err
	}

	return task.status(), nil
}

// KillTask cancels a queued or running task. Finished tasks are left as they are.
func (s *Scheduler) KillTask(taskID uuid.UUID) error {
	task, err := s.getTask(taskID)
	if err != nil {
		return err
	}

	task.Lock()
	defer task.Unlock()

	switch task.State {
	case StateQueued:
		task.State = StateKilled
		task.Err = context.Canceled
		task.FinishTime = time.Now()
	case StateRunning:
		// the worker records the final state once Run returns
		task.cancelFunc()
	}

	return nil
}
