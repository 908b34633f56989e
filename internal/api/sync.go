package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/tcp_snm/pulse/internal/service/scheduler_service"
)

const keyTaskID = "task_id"

type killTaskResponse struct {
	TaskID uuid.UUID                   `json:"task_id"`
	State  scheduler_service.TaskState `json:"state"`
}

func (a *Api) HandlerSyncStudent(w http.ResponseWriter, r *http.Request) {
	logger, err := adminLogger(r)
	if err != nil {
		handlerError(err, w)
		return
	}

	studentID, err := uuidFromPath(r, keyStudentID)
	if err != nil {
		handlerError(err, w)
		return
	}

	student, err := a.SyncServiceConfig.SyncStudent(r.Context(), studentID)
	if err != nil {
		handlerError(err, w)
		return
	}

	logger.Infof("student %v synced on demand", studentID)
	marshalAndRespond(w, http.StatusOK, student)
}

func (a *Api) HandlerSyncAll(w http.ResponseWriter, r *http.Request) {
	logger, err := adminLogger(r)
	if err != nil {
		handlerError(err, w)
		return
	}

	scheduled, err := a.SyncServiceConfig.ScheduleSyncAll(r.Context())
	if err != nil {
		handlerError(err, w)
		return
	}

	logger.Infof("scheduled sync of %v students", len(scheduled))
	marshalAndRespond(w, http.StatusAccepted, scheduled)
}

func (a *Api) HandlerGetSyncTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := uuidFromPath(r, keyTaskID)
	if err != nil {
		handlerError(err, w)
		return
	}

	status, err := a.SyncServiceConfig.Scheduler.GetTaskStatus(taskID)
	if err != nil {
		handlerError(err, w)
		return
	}

	marshalAndRespond(w, http.StatusOK, status)
}

// HandlerKillSyncTask cancels a queued or running sync. A running task may
// still report running until its worker notices the cancellation.
func (a *Api) HandlerKillSyncTask(w http.ResponseWriter, r *http.Request) {
	logger, err := adminLogger(r)
	if err != nil {
		handlerError(err, w)
		return
	}

	taskID, err := uuidFromPath(r, keyTaskID)
	if err != nil {
		handlerError(err, w)
		return
	}

	if err = a.SyncServiceConfig.Scheduler.KillTask(taskID); err != nil {
		handlerError(err, w)
		return
	}

	state, err := a.SyncServiceConfig.Scheduler.GetTaskState(taskID)
	if err != nil {
		handlerError(err, w)
		return
	}

	logger.Infof("sync task %v killed, state %v", taskID, state)
	marshalAndRespond(w, http.StatusOK, killTaskResponse{TaskID: taskID, State: state})
}
