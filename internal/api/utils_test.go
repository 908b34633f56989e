package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tcp_snm/pulse/internal/pulse_errors"
)

func TestHandlerErrorStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w, bad", pulse_errors.ErrInvalidInput), http.StatusBadRequest},
		{pulse_errors.ErrInvalidUserCredentials, http.StatusUnauthorized},
		{pulse_errors.ErrUnAuthorized, http.StatusForbidden},
		{fmt.Errorf("%w, student", pulse_errors.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w, handle", pulse_errors.ErrEntityAlreadyExist), http.StatusConflict},
		{fmt.Errorf("%w, %w", pulse_errors.ErrFetch, pulse_errors.ErrHandleNotFound), http.StatusUnprocessableEntity},
		{fmt.Errorf("%w, %w", pulse_errors.ErrFetch, pulse_errors.ErrRateLimited), http.StatusTooManyRequests},
		{fmt.Errorf("%w, %w", pulse_errors.ErrFetch, pulse_errors.ErrHttpResponse), http.StatusBadGateway},
		{fmt.Errorf("%w, db down", pulse_errors.ErrInternal), http.StatusInternalServerError},
	}

	for _, c := range cases {
		rec := httptest.NewRecorder()
		handlerError(c.err, rec)
		assert.Equal(t, c.status, rec.Code, c.err.Error())
	}
}

func TestInternalErrorsAreNotLeaked(t *testing.T) {
	rec := httptest.NewRecorder()
	handlerError(fmt.Errorf("%w, password=hunter2", pulse_errors.ErrInternal), rec)
	assert.NotContains(t, rec.Body.String(), "hunter2")
}

func TestDaysFromQuery(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	days, err := daysFromQuery(r, 30)
	assert.NoError(t, err)
	assert.Equal(t, 30, days)

	r = httptest.NewRequest(http.MethodGet, "/x?days=7", nil)
	days, err = daysFromQuery(r, 30)
	assert.NoError(t, err)
	assert.Equal(t, 7, days)

	r = httptest.NewRequest(http.MethodGet, "/x?days=seven", nil)
	_, err = daysFromQuery(r, 30)
	assert.ErrorIs(t, err, pulse_errors.ErrInvalidInput)
}
