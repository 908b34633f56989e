package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/tcp_snm/pulse/internal/pulse_errors"
	"github.com/tcp_snm/pulse/internal/service"
)

const maxBodyBytes = 1 << 20

func decodeJsonBody(body io.ReadCloser, v any) error {
	defer body.Close()

	decoder := json.NewDecoder(io.LimitReader(body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("invalid request payload, %w", err)
	}
	return nil
}

func respondWithJson(w http.ResponseWriter, statusCode int, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(payload)
}

// marshalAndRespond writes v as json, falling back to a 500 if it cannot be marshalled
func marshalAndRespond(w http.ResponseWriter, statusCode int, v any) {
	responseBytes, err := json.Marshal(v)
	if err != nil {
		log.Errorf("cannot marshal %T, %v", v, err)
		http.Error(w, pulse_errors.ErrInternal.Error(), http.StatusInternalServerError)
		return
	}
	respondWithJson(w, statusCode, responseBytes)
}

// maps service errors to status codes, the order matters as fetch errors wrap more than one sentinel
func handlerError(err error, w http.ResponseWriter) {
	switch {
	case errors.Is(err, pulse_errors.ErrInvalidInput),
		errors.Is(err, pulse_errors.ErrInvalidRequest):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, pulse_errors.ErrInvalidUserCredentials),
		errors.Is(err, pulse_errors.ErrInvalidRequestCredentials):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, pulse_errors.ErrUnAuthorized):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, pulse_errors.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, pulse_errors.ErrEntityAlreadyExist):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, pulse_errors.ErrHandleNotFound):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, pulse_errors.ErrRateLimited):
		http.Error(w, err.Error(), http.StatusTooManyRequests)
	case errors.Is(err, pulse_errors.ErrFetch):
		http.Error(w, err.Error(), http.StatusBadGateway)
	case errors.Is(err, pulse_errors.ErrTaskLaunchError):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		// never leak internal details
		http.Error(w, pulse_errors.ErrInternal.Error(), http.StatusInternalServerError)
	}
}

func uuidFromPath(r *http.Request, key string) (uuid.UUID, error) {
	raw := chi.URLParam(r, key)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w, %s must be a valid uuid", pulse_errors.ErrInvalidInput, key)
	}
	return id, nil
}

// adminLogger tags entries with the admin whose jwt authorized the request.
func adminLogger(r *http.Request) (*log.Entry, error) {
	claims, err := service.GetClaimsFromContext(r.Context())
	if err != nil {
		return nil, err
	}
	return log.WithFields(log.Fields{
		"from":  "api",
		"admin": claims.UserName,
	}), nil
}
