package stats_service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcp_snm/pulse/internal/database"
	"github.com/tcp_snm/pulse/internal/database/memdb"
	"github.com/tcp_snm/pulse/internal/pulse_errors"
)

func newTestStats(t *testing.T, now time.Time) (*StatsService, *memdb.MemStore) {
	store := memdb.New()
	s := &StatsService{
		DB:       store,
		Location: time.UTC,
		Now:      func() time.Time { return now },
	}
	s.Start()
	return s, store
}

func TestGetProblemStatsUnknownStudent(t *testing.T) {
	s, _ := newTestStats(t, time.Now())
	_, err := s.GetProblemStats(context.Background(), uuid.New(), 30)
	assert.ErrorIs(t, err, pulse_errors.ErrNotFound)
}

func TestGetProblemStatsInvalidDays(t *testing.T) {
	s, _ := newTestStats(t, time.Now())
	_, err := s.GetProblemStats(context.Background(), uuid.New(), 0)
	assert.ErrorIs(t, err, pulse_errors.ErrInvalidInput)
}

func TestGetStatsFromStore(t *testing.T) {
	now := day(2024, 1, 3, 18)
	s, store := newTestStats(t, now)
	ctx := context.Background()

	student, err := store.CreateStudent(ctx, database.CreateStudentParams{
		Name:   "Ada",
		Email:  "ada@example.com",
		Phone:  "+15550001111",
		Handle: "ada",
	})
	require.NoError(t, err)

	_, err = store.InsertSubmissions(ctx, []database.InsertSubmissionsParams{
		{StudentID: student.ID, SubmissionID: 1, ProblemID: "1A", Rating: 1200, Verdict: "OK", SubmittedAt: day(2024, 1, 1, 10)},
		{StudentID: student.ID, SubmissionID: 2, ProblemID: "1B", Rating: 1500, Verdict: "OK", SubmittedAt: day(2024, 1, 1, 12)},
		{StudentID: student.ID, SubmissionID: 3, ProblemID: "2A", Rating: 900, Verdict: "OK", SubmittedAt: day(2024, 1, 3, 9)},
	})
	require.NoError(t, err)
	_, err = store.InsertContests(ctx, []database.InsertContestsParams{
		{StudentID: student.ID, ContestID: 1, Name: "Round", ContestDate: day(2024, 1, 2, 17), OldRating: 1000, NewRating: 1100},
	})
	require.NoError(t, err)

	stats, err := s.GetProblemStats(ctx, student.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalSolved)

	history, err := s.GetContestHistory(ctx, student.ID, 90)
	require.NoError(t, err)
	require.Len(t, history.Contests, 1)
	assert.Equal(t, int32(100), history.Contests[0].RatingChange)
}
