package student_service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/tcp_snm/pulse/internal/database"
	"github.com/tcp_snm/pulse/internal/pulse_errors"
	"github.com/tcp_snm/pulse/internal/service"
	"github.com/tcp_snm/pulse/internal/service/codeforces_service"
)

func normalizeRequest(request *StudentRequest) {
	request.Name = service.NormalizeSpaces(request.Name)
	request.Email = strings.ToLower(strings.TrimSpace(request.Email))
	request.Phone = strings.ReplaceAll(strings.TrimSpace(request.Phone), " ", "")
	request.Handle = strings.TrimSpace(request.Handle)
}

// CreateStudent fetches the handle first so that a student is never stored
// with a handle codeforces does not know.
func (s *StudentService) CreateStudent(
	ctx context.Context,
	request StudentRequest,
) (Student, error) {
	normalizeRequest(&request)
	if err := service.ValidateInput(request); err != nil {
		return Student{}, err
	}

	res, err := s.Fetcher.Fetch(ctx, request.Handle, false)
	if err != nil {
		return Student{}, err
	}

	remindersEnabled := true
	if request.EmailRemindersEnabled != nil {
		remindersEnabled = *request.EmailRemindersEnabled
	}
	syncedAt := res.FetchedAt

	var dbStudent database.Student
	err = s.DB.ExecTx(ctx, func(q database.Querier) error {
		var txErr error
		dbStudent, txErr = q.CreateStudent(ctx, database.CreateStudentParams{
			Name:                  request.Name,
			Email:                 request.Email,
			Phone:                 request.Phone,
			Handle:                res.Profile.Handle,
			CurrentRating:         res.Profile.CurrentRating,
			MaxRating:             res.Profile.MaxRating,
			LastSyncedAt:          &syncedAt,
			EmailRemindersEnabled: remindersEnabled,
		})
		if txErr != nil {
			return pulse_errors.HandleDBErrors(
				txErr,
				errMsgs,
				fmt.Sprintf("cannot create student with handle %v", request.Handle),
			)
		}
		return ReplaceActivity(ctx, q, dbStudent.ID, res)
	})
	if err != nil {
		return Student{}, err
	}

	log.Infof("created student %v with handle %v", dbStudent.ID, dbStudent.Handle)
	return dbStudentToStudent(dbStudent), nil
}

func (s *StudentService) GetStudentByID(
	ctx context.Context,
	studentID uuid.UUID,
) (Student, error) {
	dbStudent, err := s.DB.GetStudentByID(ctx, studentID)
	if err != nil {
		return Student{}, pulse_errors.HandleDBErrors(
			err,
			errMsgs,
			fmt.Sprintf("cannot fetch student with id %v from db", studentID),
		)
	}
	return dbStudentToStudent(dbStudent), nil
}

func (s *StudentService) ListStudents(ctx context.Context) ([]Student, error) {
	dbStudents, err := s.DB.ListStudents(ctx)
	if err != nil {
		return nil, pulse_errors.HandleDBErrors(err, errMsgs, "cannot list students")
	}

	res := make([]Student, 0, len(dbStudents))
	for _, dbStudent := range dbStudents {
		res = append(res, dbStudentToStudent(dbStudent))
	}
	return res, nil
}

// UpdateStudent replaces the contact details of a student. A changed handle is
// fetched first and its activity replaces the cached one.
func (s *StudentService) UpdateStudent(
	ctx context.Context,
	studentID uuid.UUID,
	request StudentRequest,
) (Student, error) {
	normalizeRequest(&request)
	if err := service.ValidateInput(request); err != nil {
		return Student{}, err
	}

	current, err := s.GetStudentByID(ctx, studentID)
	if err != nil {
		return Student{}, err
	}

	remindersEnabled := current.EmailRemindersEnabled
	if request.EmailRemindersEnabled != nil {
		remindersEnabled = *request.EmailRemindersEnabled
	}

	handleChanged := !strings.EqualFold(current.Handle, request.Handle)
	var res codeforces_service.FetchResult
	if handleChanged {
		res, err = s.Fetcher.Fetch(ctx, request.Handle, true)
		if err != nil {
			return Student{}, err
		}
		request.Handle = res.Profile.Handle
	} else {
		// keep the casing codeforces reported
		request.Handle = current.Handle
	}

	var dbStudent database.Student
	err = s.DB.ExecTx(ctx, func(q database.Querier) error {
		var txErr error
		dbStudent, txErr = q.UpdateStudent(ctx, database.UpdateStudentParams{
			ID:                    studentID,
			Name:                  request.Name,
			Email:                 request.Email,
			Phone:                 request.Phone,
			Handle:                request.Handle,
			EmailRemindersEnabled: remindersEnabled,
		})
		if txErr != nil {
			return pulse_errors.HandleDBErrors(
				txErr,
				errMsgs,
				fmt.Sprintf("cannot update student with id %v", studentID),
			)
		}
		if !handleChanged {
			return nil
		}

		if txErr = ReplaceActivity(ctx, q, studentID, res); txErr != nil {
			return txErr
		}
		syncedAt := res.FetchedAt
		dbStudent, txErr = q.UpdateStudentSyncData(ctx, database.UpdateStudentSyncDataParams{
			ID:            studentID,
			CurrentRating: res.Profile.CurrentRating,
			MaxRating:     res.Profile.MaxRating,
			LastSyncedAt:  &syncedAt,
		})
		if txErr != nil {
			return pulse_errors.HandleDBErrors(
				txErr,
				errMsgs,
				fmt.Sprintf("cannot update sync data of student %v", studentID),
			)
		}
		return nil
	})
	if err != nil {
		return Student{}, err
	}

	if handleChanged {
		log.Infof("student %v changed handle from %v to %v", studentID, current.Handle, dbStudent.Handle)
	}
	return dbStudentToStudent(dbStudent), nil
}

func (s *StudentService) DeleteStudent(ctx context.Context, studentID uuid.UUID) error {
	n, err := s.DB.DeleteStudent(ctx, studentID)
	if err != nil {
		return pulse_errors.HandleDBErrors(
			err,
			errMsgs,
			fmt.Sprintf("cannot delete student with id %v", studentID),
		)
	}
	if n == 0 {
		return fmt.Errorf(
			"%w, student with id %v does not exist",
			pulse_errors.ErrNotFound,
			studentID,
		)
	}

	log.Infof("deleted student %v", studentID)
	return nil
}

// RefreshStudent fetches fresh data for a student, replacing its cached
// activity and ratings in one transaction.
func (s *StudentService) RefreshStudent(
	ctx context.Context,
	studentID uuid.UUID,
) (Student, error) {
	current, err := s.GetStudentByID(ctx, studentID)
	if err != nil {
		return Student{}, err
	}

	res, err := s.Fetcher.Fetch(ctx, current.Handle, true)
	if err != nil {
		return Student{}, err
	}

	var dbStudent database.Student
	err = s.DB.ExecTx(ctx, func(q database.Querier) error {
		if txErr := ReplaceActivity(ctx, q, studentID, res); txErr != nil {
			return txErr
		}
		syncedAt := res.FetchedAt
		var txErr error
		dbStudent, txErr = q.UpdateStudentSyncData(ctx, database.UpdateStudentSyncDataParams{
			ID:            studentID,
			CurrentRating: res.Profile.CurrentRating,
			MaxRating:     res.Profile.MaxRating,
			LastSyncedAt:  &syncedAt,
		})
		if txErr != nil {
			return pulse_errors.HandleDBErrors(
				txErr,
				errMsgs,
				fmt.Sprintf("cannot update sync data of student %v", studentID),
			)
		}
		return nil
	})
	if err != nil {
		return Student{}, err
	}

	log.WithFields(log.Fields{
		"student_id":  studentID,
		"handle":      dbStudent.Handle,
		"contests":    len(res.Contests),
		"submissions": len(res.Submissions),
	}).Info("student synced")
	return dbStudentToStudent(dbStudent), nil
}

// LastSubmissionAt returns the time of the latest cached submission, nil if none.
func (s *StudentService) LastSubmissionAt(ctx context.Context, studentID uuid.UUID) (*time.Time, error) {
	last, err := s.DB.GetLastSubmissionAt(ctx, studentID)
	if err != nil {
		return nil, pulse_errors.HandleDBErrors(
			err,
			errMsgs,
			fmt.Sprintf("cannot get last submission of student %v", studentID),
		)
	}
	return last, nil
}

// IncrementReminderCount records a sent inactivity reminder.
func (s *StudentService) IncrementReminderCount(ctx context.Context, studentID uuid.UUID) error {
	if _, err := s.DB.IncrementReminderCount(ctx, studentID); err != nil {
		return pulse_errors.HandleDBErrors(
			err,
			errMsgs,
			fmt.Sprintf("cannot increment reminder count of student %v", studentID),
		)
	}
	return nil
}
