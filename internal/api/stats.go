package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/tcp_snm/pulse/internal/pulse_errors"
	"github.com/tcp_snm/pulse/internal/service/stats_service"
)

func daysFromQuery(r *http.Request, def int) (int, error) {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return def, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w, days must be an integer", pulse_errors.ErrInvalidInput)
	}
	return days, nil
}

func (a *Api) HandlerGetContestHistory(w http.ResponseWriter, r *http.Request) {
	studentID, err := uuidFromPath(r, keyStudentID)
	if err != nil {
		handlerError(err, w)
		return
	}
	days, err := daysFromQuery(r, stats_service.DefaultContestDays)
	if err != nil {
		handlerError(err, w)
		return
	}

	history, err := a.StatsServiceConfig.GetContestHistory(r.Context(), studentID, days)
	if err != nil {
		handlerError(err, w)
		return
	}

	marshalAndRespond(w, http.StatusOK, history)
}

func (a *Api) HandlerGetProblemStats(w http.ResponseWriter, r *http.Request) {
	studentID, err := uuidFromPath(r, keyStudentID)
	if err != nil {
		handlerError(err, w)
		return
	}
	days, err := daysFromQuery(r, stats_service.DefaultProblemDays)
	if err != nil {
		handlerError(err, w)
		return
	}

	stats, err := a.StatsServiceConfig.GetProblemStats(r.Context(), studentID, days)
	if err != nil {
		handlerError(err, w)
		return
	}

	marshalAndRespond(w, http.StatusOK, stats)
}
