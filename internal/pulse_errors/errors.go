package pulse_errors

import (
	"database/sql"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"
)

const (
	CodeUniqueConstraint     = "23505"
	CodeForeignKeyConstraint = "23503"
)

var (
	ErrInternal                  = errors.New("internal service error. please try again later")
	ErrInvalidRequest            = errors.New("invalid request")
	ErrInvalidInput              = errors.New("invalid input")
	ErrInvalidUserCredentials    = errors.New("invalid user_name or password")
	ErrInvalidRequestCredentials = errors.New("invalid request credentials")
	ErrEmailServiceStopped       = errors.New("email service is stopped currently")
	ErrUnAuthorized              = errors.New("user not allowed to perform this action")
	ErrNotFound                  = errors.New("entity not found")
	ErrTaskLaunchError           = errors.New("failed to launch task")
	ErrHttpResponse              = errors.New("error occurred with http response")
	ErrFetch                     = errors.New("cannot fetch data from codeforces")
	ErrHandleNotFound            = errors.New("codeforces handle not found")
	ErrRateLimited               = errors.New("codeforces call limit exceeded. please try again later")
	ErrComponentStart            = errors.New("cannot start component")
	ErrEntityAlreadyExist        = errors.New("entity with given key already exist")
)

// HandleDBErrors logs err and converts it into one of the sentinel errors.
// errMsgs maps a pg error code to a map of constraint name -> user message.
func HandleDBErrors(
	err error,
	errMsgs map[string]map[string]string,
	contextMessage string,
) error {
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		log.Error(fmt.Sprintf("%s, %v", contextMessage, ErrNotFound))
		return fmt.Errorf("%w, %s", ErrNotFound, contextMessage)
	}

	// check if its a pg error
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		err = fmt.Errorf("%w, %s, %w", ErrInternal, contextMessage, err)
		log.Error(err)
		return err
	}

	if errMsgs == nil {
		log.Warnf("got null errMsgs")
		errMsgs = map[string]map[string]string{}
	}

	switch pgErr.Code {
	case CodeForeignKeyConstraint:
		return HandleForeignKeyError(pgErr, errMsgs[CodeForeignKeyConstraint])
	case CodeUniqueConstraint:
		return HandleUniqueKeyError(pgErr, errMsgs[CodeUniqueConstraint])
	}

	// unknown error
	err = fmt.Errorf("%w, %s, %w", ErrInternal, contextMessage, err)
	log.Error(err)
	return err
}

func HandleForeignKeyError(pgErr *pgconn.PgError, msgForeignKey map[string]string) error {
	msg, ok := msgForeignKey[pgErr.ConstraintName]
	if !ok {
		log.Warnf("unknown foreign key violation, %s", pgErr.ConstraintName)
		msg = pgErr.Detail
	}
	err := fmt.Errorf(
		"%w, %s",
		ErrInvalidRequest,
		msg,
	)
	log.Error(err)
	return err
}

func HandleUniqueKeyError(pgErr *pgconn.PgError, msgUniqueConstraint map[string]string) error {
	msg, ok := msgUniqueConstraint[pgErr.ConstraintName]
	if !ok {
		log.Warnf("unknown unique key violation, %s", pgErr.ConstraintName)
		msg = pgErr.Detail
	}
	err := fmt.Errorf(
		"%w, %s",
		ErrEntityAlreadyExist,
		msg,
	)
	log.Error(err)
	return err
}

// handles errors of outbound network calls
func WrapIPCError(err error) error {
	var opError *net.OpError
	if errors.As(err, &opError) {
		err = fmt.Errorf(
			"%w, \"%s\" error occurred during \"%s\" operation, network: %s, dest: %s",
			ErrHttpResponse,
			opError.Error(),
			opError.Op,
			opError.Net,
			opError.Addr,
		)
		return err
	}

	// unknown error
	err = fmt.Errorf(
		"%w, %w", ErrHttpResponse, err,
	)
	return err
}
