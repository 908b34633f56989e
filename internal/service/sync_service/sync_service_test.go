package sync_service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcp_snm/pulse/internal/database/memdb"
	"github.com/tcp_snm/pulse/internal/pulse_errors"
	"github.com/tcp_snm/pulse/internal/service/codeforces_service"
	"github.com/tcp_snm/pulse/internal/service/scheduler_service"
	"github.com/tcp_snm/pulse/internal/service/student_service"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type stubFetcher struct {
	sync.Mutex
	lastSubmission map[string]time.Time
	failing        map[string]bool
}

func (f *stubFetcher) Fetch(ctx context.Context, handle string, force bool) (codeforces_service.FetchResult, error) {
	f.Lock()
	defer f.Unlock()

	handle = strings.ToLower(handle)
	if f.failing[handle] {
		return codeforces_service.FetchResult{}, fmt.Errorf("%w, %w", pulse_errors.ErrFetch, pulse_errors.ErrRateLimited)
	}
	return codeforces_service.FetchResult{
		Profile: codeforces_service.Profile{Handle: handle, CurrentRating: 1500, MaxRating: 1600},
		Submissions: []codeforces_service.Submission{{
			SubmissionID: 1,
			ProblemID:    "1A",
			Verdict:      codeforces_service.VerdictAccepted,
			SubmittedAt:  f.lastSubmission[handle],
		}},
		FetchedAt: now,
	}, nil
}

type recordingReminder struct {
	sync.Mutex
	sentTo []string
}

func (r *recordingReminder) SendInactivityReminder(ctx context.Context, to, name, handle string, days int) error {
	r.Lock()
	defer r.Unlock()
	r.sentTo = append(r.sentTo, to)
	return nil
}

type fixture struct {
	sync     *SyncService
	students *student_service.StudentService
	fetcher  *stubFetcher
	reminder *recordingReminder
}

func newFixture(t *testing.T) fixture {
	fetcher := &stubFetcher{
		lastSubmission: map[string]time.Time{
			"active":   now.Add(-24 * time.Hour),
			"inactive": now.AddDate(0, 0, -30),
			"flaky":    now.Add(-time.Hour),
		},
		failing: map[string]bool{},
	}
	students := &student_service.StudentService{DB: memdb.New(), Fetcher: fetcher}

	scheduler := &scheduler_service.Scheduler{Workers: 2, TaskTimeout: time.Second}
	scheduler.Start()
	t.Cleanup(scheduler.Stop)

	reminder := &recordingReminder{}
	s := &SyncService{
		Students:  students,
		Scheduler: scheduler,
		Reminder:  reminder,
		Now:       func() time.Time { return now },
	}
	s.Start()

	return fixture{sync: s, students: students, fetcher: fetcher, reminder: reminder}
}

func (f fixture) addStudent(t *testing.T, handle string, reminders bool) student_service.Student {
	student, err := f.students.CreateStudent(context.Background(), student_service.StudentRequest{
		Name:                  "Student " + handle,
		Email:                 handle + "@example.com",
		Phone:                 "+10000000000",
		Handle:                handle,
		EmailRemindersEnabled: &reminders,
	})
	require.NoError(t, err)
	return student
}

func TestSyncStudentRemindsInactive(t *testing.T) {
	f := newFixture(t)
	inactive := f.addStudent(t, "inactive", true)
	active := f.addStudent(t, "active", true)

	synced, err := f.sync.SyncStudent(context.Background(), inactive.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(1), synced.ReminderCount)

	_, err = f.sync.SyncStudent(context.Background(), active.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"inactive@example.com"}, f.reminder.sentTo)
	stored, err := f.students.GetStudentByID(context.Background(), inactive.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(1), stored.ReminderCount)
}

func TestSyncStudentRespectsDisabledReminders(t *testing.T) {
	f := newFixture(t)
	student := f.addStudent(t, "inactive", false)

	_, err := f.sync.SyncStudent(context.Background(), student.ID)
	require.NoError(t, err)
	assert.Empty(t, f.reminder.sentTo)
}

func TestSyncStudentFetchError(t *testing.T) {
	f := newFixture(t)
	student := f.addStudent(t, "flaky", true)
	f.fetcher.failing["flaky"] = true

	_, err := f.sync.SyncStudent(context.Background(), student.ID)
	assert.ErrorIs(t, err, pulse_errors.ErrRateLimited)
}

func TestScheduleSyncAllIsolatesFailures(t *testing.T) {
	hook := test.NewGlobal()
	f := newFixture(t)
	f.addStudent(t, "active", false)
	f.addStudent(t, "flaky", false)
	f.addStudent(t, "inactive", false)
	f.fetcher.Lock()
	f.fetcher.failing["flaky"] = true
	f.fetcher.Unlock()

	scheduled, err := f.sync.ScheduleSyncAll(context.Background())
	require.NoError(t, err)
	require.Len(t, scheduled, 3)

	for _, sc := range scheduled {
		want := scheduler_service.StateCompleted
		if sc.Handle == "flaky" {
			want = scheduler_service.StateFailed
		}
		assert.Eventually(t, func() bool {
			state, err := f.sync.Scheduler.GetTaskState(sc.TaskID)
			return err == nil && state == want
		}, 3*time.Second, 10*time.Millisecond, "sync of %v", sc.Handle)
	}

	// every task reports its own outcome
	results := func() map[string]logrus.Level {
		levels := map[string]logrus.Level{}
		for _, entry := range hook.AllEntries() {
			if !strings.HasPrefix(entry.Message, "scheduled sync ") {
				continue
			}
			levels[entry.Data["handle"].(string)] = entry.Level
		}
		return levels
	}
	assert.Eventually(t, func() bool { return len(results()) == 3 }, 3*time.Second, 10*time.Millisecond)
	assert.Equal(t, map[string]logrus.Level{
		"active":   logrus.InfoLevel,
		"flaky":    logrus.ErrorLevel,
		"inactive": logrus.InfoLevel,
	}, results())
}

func TestPeriodicSyncDisabled(t *testing.T) {
	f := newFixture(t)
	f.sync.StartPeriodicSync(0)
	f.sync.Stop()
}
