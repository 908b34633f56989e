package scheduler_service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tcp_snm/pulse/internal/pulse_errors"
)

func (s *Scheduler) work() {
	defer s.workerGroup.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		case task := <-s.taskQueue:
			s.execute(task)
		}
	}
}

func (s *Scheduler) execute(task *Task) {
	task.Lock()
	if task.State != StateQueued {
		// killed while waiting in the queue
		task.Unlock()
		return
	}
	ctx, cancel := context.WithTimeout(s.ctx, s.TaskTimeout)
	defer cancel()
	task.cancelFunc = cancel
	task.State = StateRunning
	task.LaunchTime = time.Now()
	task.Unlock()

	executeLogger := task.getLogger("executable_", "")
	executeLogger.Info("executing task")

	err := runSafely(ctx, task.Run)

	task.Lock()
	task.FinishTime = time.Now()
	task.Err = err
	task.State = getTaskStateFromError(err)
	state := task.State
	task.Unlock()

	if err != nil {
		executeLogger.WithField("state", state).Errorf("task ended with error, %v", err)
	} else {
		executeLogger.Infof("task completed in %v", task.FinishTime.Sub(task.LaunchTime))
	}

	if task.OnTaskComplete != nil {
		task.OnTaskComplete(task.TaskID, err)
	}
}

// a panicking task must not take its worker down
func runSafely(ctx context.Context, run func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w, task panicked: %v", pulse_errors.ErrInternal, r)
		}
	}()
	return run(ctx)
}

func getTaskStateFromError(err error) TaskState {
	if err == nil {
		return StateCompleted
	}
	if errors.Is(err, context.Canceled) {
		return StateKilled
	}
	return StateFailed
}
