package scheduler_service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func (s *Scheduler) Start() {
	if s.Workers <= 0 {
		s.Workers = DefaultWorkers
	}
	if s.QueueBuffer <= 0 {
		s.QueueBuffer = DefaultQueueBuffer
	}
	if s.TaskTimeout <= 0 {
		s.TaskTimeout = DefaultTaskTimeout
	}
	if s.Retention <= 0 {
		s.Retention = DefaultRetention
	}

	logrus.Info("initializing scheduler's taskQueue channel with buffer size ", s.QueueBuffer)
	s.taskQueue = make(chan *Task, s.QueueBuffer)

	logrus.Info("initializing scheduler's tasks map")
	s.tasks = make(map[uuid.UUID]*Task)

	s.ctx, s.cancel = context.WithCancel(context.Background())

	logrus.Infof("starting %v scheduler workers", s.Workers)
	for i := 0; i < s.Workers; i++ {
		s.workerGroup.Add(1)
		go s.work()
	}
}

// Stop cancels running tasks and waits for the workers to exit.
// Tasks still in the queue are marked killed.
func (s *Scheduler) Stop() {
	logrus.Info("stopping scheduler")
	s.cancel()
	s.workerGroup.Wait()

	for {
		select {
		case task := <-s.taskQueue:
			task.Lock()
			task.State = StateKilled
			task.Err = context.Canceled
			task.FinishTime = time.Now()
			task.Unlock()
		default:
			logrus.Info("scheduler stopped")
			return
		}
	}
}
