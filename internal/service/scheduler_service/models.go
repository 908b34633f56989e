package scheduler_service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultWorkers     = 4
	DefaultQueueBuffer = 1024
	DefaultTaskTimeout = 5 * time.Minute
	// finished tasks are forgotten after this long
	DefaultRetention = time.Hour
)

type TaskState int

const (
	StateQueued TaskState = iota
	StateRunning
	StateCompleted
	StateFailed
	StateKilled

	// Use the below one with caution
	StateUnknown
)

var stateNames = map[TaskState]string{
	StateQueued:    "queued",
	StateRunning:   "running",
	StateCompleted: "completed",
	StateFailed:    "failed",
	StateKilled:    "killed",
	StateUnknown:   "unknown",
}

func (s TaskState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return stateNames[StateUnknown]
}

func (s TaskState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Scheduler runs tasks on a fixed pool of workers.
type Scheduler struct {
	Workers     int
	QueueBuffer int
	TaskTimeout time.Duration
	Retention   time.Duration

	ctx         context.Context
	cancel      context.CancelFunc
	workerGroup sync.WaitGroup
	taskQueue   chan *Task
	tasks       map[uuid.UUID]*Task
	// tasks map uses the below lock
	taskMapLock sync.RWMutex
}

type TaskRequest struct {
	Name string
	Run  func(ctx context.Context) error
	// optional, called from the worker after Run returns
	OnTaskComplete func(taskID uuid.UUID, err error)
}

type Task struct {
	TaskRequest
	sync.Mutex
	TaskID     uuid.UUID
	QueueTime  time.Time
	LaunchTime time.Time
	FinishTime time.Time
	State      TaskState
	Err        error
	cancelFunc context.CancelFunc
}

// TaskStatus is a snapshot of a task safe to hand out.
type TaskStatus struct {
	TaskID     uuid.UUID  `json:"task_id"`
	Name       string     `json:"name"`
	State      TaskState  `json:"state"`
	Error      string     `json:"error,omitempty"`
	QueueTime  time.Time  `json:"queue_time"`
	LaunchTime *time.Time `json:"launch_time,omitempty"`
	FinishTime *time.Time `json:"finish_time,omitempty"`
}

func (t *Task) String() string {
	return fmt.Sprintf(
		"[TaskID=%s Name=%s QueueTime=%s LaunchTime=%s State=%v]",
		t.TaskID, t.Name, t.QueueTime, t.LaunchTime, t.State,
	)
}
