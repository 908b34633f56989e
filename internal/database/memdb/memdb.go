// Package memdb is an in-memory database.Store used by tests.
package memdb

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tcp_snm/pulse/internal/database"
)

const uniqueViolation = "23505"

type MemStore struct {
	sync.Mutex
	students    map[uuid.UUID]database.Student
	contests    map[uuid.UUID][]database.Contest
	submissions map[uuid.UUID][]database.Submission
	// Now stamps created_at/updated_at
	Now func() time.Time
}

var _ database.Store = (*MemStore)(nil)

func New() *MemStore {
	return &MemStore{
		students:    make(map[uuid.UUID]database.Student),
		contests:    make(map[uuid.UUID][]database.Contest),
		submissions: make(map[uuid.UUID][]database.Submission),
		Now:         time.Now,
	}
}

// ExecTx runs fn against the store and restores the previous state if fn fails.
func (m *MemStore) ExecTx(ctx context.Context, fn func(database.Querier) error) error {
	m.Lock()
	students := maps.Clone(m.students)
	contests := maps.Clone(m.contests)
	submissions := maps.Clone(m.submissions)
	m.Unlock()

	if err := fn(m); err != nil {
		m.Lock()
		m.students, m.contests, m.submissions = students, contests, submissions
		m.Unlock()
		return err
	}
	return nil
}

func (m *MemStore) handleTaken(handle string, except uuid.UUID) bool {
	for id, s := range m.students {
		if id != except && strings.EqualFold(s.Handle, handle) {
			return true
		}
	}
	return false
}

func handleViolation() error {
	return &pgconn.PgError{
		Code:           uniqueViolation,
		ConstraintName: "uq_students_handle",
		Detail:         "Key (lower(handle)) already exists.",
	}
}

func (m *MemStore) CreateStudent(ctx context.Context, arg database.CreateStudentParams) (database.Student, error) {
	m.Lock()
	defer m.Unlock()

	if m.handleTaken(arg.Handle, uuid.Nil) {
		return database.Student{}, handleViolation()
	}

	now := m.Now()
	s := database.Student{
		ID:                    uuid.New(),
		Name:                  arg.Name,
		Email:                 arg.Email,
		Phone:                 arg.Phone,
		Handle:                arg.Handle,
		CurrentRating:         arg.CurrentRating,
		MaxRating:             arg.MaxRating,
		LastSyncedAt:          arg.LastSyncedAt,
		EmailRemindersEnabled: arg.EmailRemindersEnabled,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	m.students[s.ID] = s
	return s, nil
}

func (m *MemStore) GetStudentByID(ctx context.Context, id uuid.UUID) (database.Student, error) {
	m.Lock()
	defer m.Unlock()

	s, ok := m.students[id]
	if !ok {
		return database.Student{}, pgx.ErrNoRows
	}
	return s, nil
}

func (m *MemStore) ListStudents(ctx context.Context) ([]database.Student, error) {
	m.Lock()
	defer m.Unlock()

	res := make([]database.Student, 0, len(m.students))
	for _, s := range m.students {
		res = append(res, s)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Name != res[j].Name {
			return res[i].Name < res[j].Name
		}
		return res[i].ID.String() < res[j].ID.String()
	})
	return res, nil
}

func (m *MemStore) UpdateStudent(ctx context.Context, arg database.UpdateStudentParams) (database.Student, error) {
	m.Lock()
	defer m.Unlock()

	s, ok := m.students[arg.ID]
	if !ok {
		return database.Student{}, pgx.ErrNoRows
	}
	if m.handleTaken(arg.Handle, arg.ID) {
		return database.Student{}, handleViolation()
	}

	s.Name = arg.Name
	s.Email = arg.Email
	s.Phone = arg.Phone
	s.Handle = arg.Handle
	s.EmailRemindersEnabled = arg.EmailRemindersEnabled
	s.UpdatedAt = m.Now()
	m.students[s.ID] = s
	return s, nil
}

func (m *MemStore) UpdateStudentSyncData(ctx context.Context, arg database.UpdateStudentSyncDataParams) (database.Student, error) {
	m.Lock()
	defer m.Unlock()

	s, ok := m.students[arg.ID]
	if !ok {
		return database.Student{}, pgx.ErrNoRows
	}
	s.CurrentRating = arg.CurrentRating
	s.MaxRating = arg.MaxRating
	s.LastSyncedAt = arg.LastSyncedAt
	s.UpdatedAt = m.Now()
	m.students[s.ID] = s
	return s, nil
}

func (m *MemStore) IncrementReminderCount(ctx context.Context, id uuid.UUID) (database.Student, error) {
	m.Lock()
	defer m.Unlock()

	s, ok := m.students[id]
	if !ok {
		return database.Student{}, pgx.ErrNoRows
	}
	s.ReminderCount++
	m.students[id] = s
	return s, nil
}

func (m *MemStore) DeleteStudent(ctx context.Context, id uuid.UUID) (int64, error) {
	m.Lock()
	defer m.Unlock()

	if _, ok := m.students[id]; !ok {
		return 0, nil
	}
	delete(m.students, id)
	delete(m.contests, id)
	delete(m.submissions, id)
	return 1, nil
}

func (m *MemStore) DeleteContestsByStudent(ctx context.Context, studentID uuid.UUID) error {
	m.Lock()
	defer m.Unlock()

	delete(m.contests, studentID)
	return nil
}

func (m *MemStore) InsertContests(ctx context.Context, arg []database.InsertContestsParams) (int64, error) {
	m.Lock()
	defer m.Unlock()

	for _, c := range arg {
		m.contests[c.StudentID] = append(m.contests[c.StudentID], database.Contest(c))
	}
	return int64(len(arg)), nil
}

func (m *MemStore) GetContestsByStudentSince(
	ctx context.Context,
	arg database.GetContestsByStudentSinceParams,
) ([]database.Contest, error) {
	m.Lock()
	defer m.Unlock()

	res := []database.Contest{}
	for _, c := range m.contests[arg.StudentID] {
		if !c.ContestDate.Before(arg.ContestDate) {
			res = append(res, c)
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].ContestDate.Before(res[j].ContestDate) })
	return res, nil
}

func (m *MemStore) DeleteSubmissionsByStudent(ctx context.Context, studentID uuid.UUID) error {
	m.Lock()
	defer m.Unlock()

	delete(m.submissions, studentID)
	return nil
}

func (m *MemStore) InsertSubmissions(ctx context.Context, arg []database.InsertSubmissionsParams) (int64, error) {
	m.Lock()
	defer m.Unlock()

	for _, s := range arg {
		m.submissions[s.StudentID] = append(m.submissions[s.StudentID], database.Submission(s))
	}
	return int64(len(arg)), nil
}

func (m *MemStore) GetSubmissionsByStudentSince(
	ctx context.Context,
	arg database.GetSubmissionsByStudentSinceParams,
) ([]database.Submission, error) {
	m.Lock()
	defer m.Unlock()

	res := []database.Submission{}
	for _, s := range m.submissions[arg.StudentID] {
		if !s.SubmittedAt.Before(arg.SubmittedAt) {
			res = append(res, s)
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].SubmittedAt.Before(res[j].SubmittedAt) })
	return res, nil
}

func (m *MemStore) GetLastSubmissionAt(ctx context.Context, studentID uuid.UUID) (*time.Time, error) {
	m.Lock()
	defer m.Unlock()

	var last *time.Time
	for _, s := range m.submissions[studentID] {
		if last == nil || s.SubmittedAt.After(*last) {
			t := s.SubmittedAt
			last = &t
		}
	}
	return last, nil
}
