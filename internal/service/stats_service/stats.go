package stats_service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tcp_snm/pulse/internal/database"
	"github.com/tcp_snm/pulse/internal/pulse_errors"
)

func (s *StatsService) Start() {
	if s.DB == nil {
		panic("stats service requires a database store")
	}
	if s.Location == nil {
		s.Location = time.Local
	}
	if s.Now == nil {
		s.Now = time.Now
	}
	s.logger = logrus.WithField("from", "stats_service")
	s.logger.Infof("stats service started in location %v", s.Location)
}

func (s *StatsService) GetProblemStats(
	ctx context.Context,
	studentID uuid.UUID,
	days int,
) (ProblemStats, error) {
	win, err := NewWindow(s.Now(), s.Location, days)
	if err != nil {
		s.logger.Error(err)
		return ProblemStats{}, err
	}

	if err = s.ensureStudent(ctx, studentID); err != nil {
		return ProblemStats{}, err
	}

	submissions, err := s.DB.GetSubmissionsByStudentSince(
		ctx,
		database.GetSubmissionsByStudentSinceParams{
			StudentID:   studentID,
			SubmittedAt: win.Since(),
		},
	)
	if err != nil {
		return ProblemStats{}, pulse_errors.HandleDBErrors(
			err,
			nil,
			fmt.Sprintf("cannot get submissions of student %v", studentID),
		)
	}

	return ComputeProblemStats(submissions, win), nil
}

func (s *StatsService) GetContestHistory(
	ctx context.Context,
	studentID uuid.UUID,
	days int,
) (ContestHistory, error) {
	win, err := NewWindow(s.Now(), s.Location, days)
	if err != nil {
		s.logger.Error(err)
		return ContestHistory{}, err
	}

	if err = s.ensureStudent(ctx, studentID); err != nil {
		return ContestHistory{}, err
	}

	contests, err := s.DB.GetContestsByStudentSince(
		ctx,
		database.GetContestsByStudentSinceParams{
			StudentID:   studentID,
			ContestDate: win.Since(),
		},
	)
	if err != nil {
		return ContestHistory{}, pulse_errors.HandleDBErrors(
			err,
			nil,
			fmt.Sprintf("cannot get contests of student %v", studentID),
		)
	}

	return ComputeContestHistory(contests, win), nil
}

func (s *StatsService) ensureStudent(ctx context.Context, studentID uuid.UUID) error {
	if _, err := s.DB.GetStudentByID(ctx, studentID); err != nil {
		return pulse_errors.HandleDBErrors(
			err,
			nil,
			fmt.Sprintf("cannot get student with id %v", studentID),
		)
	}
	return nil
}
