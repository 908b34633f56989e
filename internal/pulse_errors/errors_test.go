package pulse_errors

import (
	"errors"
	"net"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestHandleDBErrorsNoRows(t *testing.T) {
	err := HandleDBErrors(pgx.ErrNoRows, nil, "cannot fetch student")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHandleDBErrorsUniqueKey(t *testing.T) {
	msgs := map[string]map[string]string{
		CodeUniqueConstraint: {"uq_students_handle": "student with that handle already exist"},
	}
	pgErr := &pgconn.PgError{Code: CodeUniqueConstraint, ConstraintName: "uq_students_handle"}

	err := HandleDBErrors(pgErr, msgs, "cannot create student")
	assert.ErrorIs(t, err, ErrEntityAlreadyExist)
	assert.Contains(t, err.Error(), "student with that handle already exist")
}

func TestHandleDBErrorsUnknownConstraintUsesDetail(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           CodeForeignKeyConstraint,
		ConstraintName: "fk_unknown",
		Detail:         "key is not present",
	}

	err := HandleDBErrors(pgErr, nil, "cannot insert contest")
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Contains(t, err.Error(), "key is not present")
}

func TestHandleDBErrorsOther(t *testing.T) {
	err := HandleDBErrors(errors.New("connection reset"), nil, "cannot list students")
	assert.ErrorIs(t, err, ErrInternal)
}

func TestWrapIPCError(t *testing.T) {
	opErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("refused")}
	assert.ErrorIs(t, WrapIPCError(opErr), ErrHttpResponse)
	assert.ErrorIs(t, WrapIPCError(errors.New("eof")), ErrHttpResponse)
}
