package codeforces_service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcp_snm/pulse/internal/pulse_errors"
)

const (
	userInfoBody = `{"status":"OK","result":[{"handle":"tourist","rating":3500,"maxRating":3800,"rank":"legendary grandmaster"}]}`
	ratingBody   = `{"status":"OK","result":[
		{"contestId":1900,"contestName":"Round 2","rank":3,"ratingUpdateTimeSeconds":1704240000,"oldRating":3400,"newRating":3500},
		{"contestId":1800,"contestName":"Round 1","rank":1,"ratingUpdateTimeSeconds":1704067200,"oldRating":3300,"newRating":3400}
	]}`
	statusBody = `{"status":"OK","result":[
		{"id":3,"contestId":1900,"creationTimeSeconds":1704240100,"problem":{"contestId":1900,"index":"B","name":"Two","rating":1600},"verdict":"WRONG_ANSWER"},
		{"id":2,"contestId":1800,"creationTimeSeconds":1704067300,"problem":{"contestId":1800,"index":"A","name":"One","rating":800},"verdict":"OK"},
		{"id":4,"contestId":100500,"creationTimeSeconds":1704300000,"problem":{"contestId":100500,"index":"C","name":"Gym"}},
		{"id":5,"creationTimeSeconds":1704310000,"problem":{"problemsetName":"acmsguru","index":"101","name":"Domino"},"verdict":"OK"}
	]}`
	standings1800 = `{"status":"OK","result":{"problems":[{"index":"A"},{"index":"B"},{"index":"C"}]}}`
	standings1900 = `{"status":"OK","result":{"problems":[{"index":"A"},{"index":"B"}]}}`
)

type fakeCodeforces struct {
	server   *httptest.Server
	requests atomic.Int32
}

func newFakeCodeforces(t *testing.T, handler http.HandlerFunc) *fakeCodeforces {
	f := &fakeCodeforces{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		handler(w, r)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func happyHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/user.info":
		w.Write([]byte(userInfoBody))
	case "/user.rating":
		w.Write([]byte(ratingBody))
	case "/user.status":
		w.Write([]byte(statusBody))
	case "/contest.standings":
		if r.URL.Query().Get("contestId") == "1800" {
			w.Write([]byte(standings1800))
		} else {
			w.Write([]byte(standings1900))
		}
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestService(baseUrl string) *CodeforcesService {
	cf := &CodeforcesService{BaseUrl: baseUrl}
	cf.Start()
	return cf
}

func TestFetchNormalizes(t *testing.T) {
	fake := newFakeCodeforces(t, happyHandler)
	cf := newTestService(fake.server.URL)

	res, err := cf.Fetch(context.Background(), "tourist", false)
	require.NoError(t, err)

	assert.Equal(t, Profile{
		Handle:        "tourist",
		CurrentRating: 3500,
		MaxRating:     3800,
		Rank:          "legendary grandmaster",
	}, res.Profile)

	// contests come back oldest first
	require.Len(t, res.Contests, 2)
	assert.Equal(t, int32(1800), res.Contests[0].ContestID)
	assert.Equal(t, int32(1900), res.Contests[1].ContestID)
	require.NotNil(t, res.Contests[0].UnsolvedCount)
	assert.Equal(t, int32(2), *res.Contests[0].UnsolvedCount)
	require.NotNil(t, res.Contests[1].UnsolvedCount)
	assert.Equal(t, int32(2), *res.Contests[1].UnsolvedCount)
	assert.Equal(t, time.Unix(1704067200, 0).UTC(), res.Contests[0].Date)

	require.Len(t, res.Submissions, 4)
	byID := map[int64]Submission{}
	for _, s := range res.Submissions {
		byID[s.SubmissionID] = s
	}
	assert.Equal(t, "1800A", byID[2].ProblemID)
	assert.Equal(t, "https://codeforces.com/problemset/problem/1800/A", byID[2].Link)
	assert.Equal(t, VerdictAccepted, byID[2].Verdict)
	assert.Equal(t, "https://codeforces.com/gym/100500/problem/C", byID[4].Link)
	assert.Equal(t, verdictTesting, byID[4].Verdict)
	assert.Equal(t, "acmsguru101", byID[5].ProblemID)

	for i := 1; i < len(res.Submissions); i++ {
		assert.False(t, res.Submissions[i].SubmittedAt.Before(res.Submissions[i-1].SubmittedAt))
	}
}

func TestFetchUnknownHandle(t *testing.T) {
	fake := newFakeCodeforces(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":"FAILED","comment":"handles: User with handle nobody_xyz not found"}`))
	})
	cf := newTestService(fake.server.URL)

	_, err := cf.Fetch(context.Background(), "nobody_xyz", false)
	assert.ErrorIs(t, err, pulse_errors.ErrFetch)
	assert.ErrorIs(t, err, pulse_errors.ErrHandleNotFound)
}

func TestFetchRateLimited(t *testing.T) {
	fake := newFakeCodeforces(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`<html>slow down</html>`))
	})
	cf := newTestService(fake.server.URL)

	_, err := cf.Fetch(context.Background(), "tourist", false)
	assert.ErrorIs(t, err, pulse_errors.ErrRateLimited)
}

func TestFetchCallLimitComment(t *testing.T) {
	fake := newFakeCodeforces(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":"FAILED","comment":"Call limit exceeded"}`))
	})
	cf := newTestService(fake.server.URL)

	_, err := cf.Fetch(context.Background(), "tourist", false)
	assert.ErrorIs(t, err, pulse_errors.ErrRateLimited)
}

func TestFetchEmptyHandle(t *testing.T) {
	cf := newTestService("http://127.0.0.1:1")
	_, err := cf.Fetch(context.Background(), "  ", false)
	assert.ErrorIs(t, err, pulse_errors.ErrInvalidInput)
}

func TestFetchStandingsFailureLeavesUnsolvedUnknown(t *testing.T) {
	fake := newFakeCodeforces(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/contest.standings" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"status":"FAILED","comment":"contestId: Contest is not started"}`))
			return
		}
		happyHandler(w, r)
	})
	cf := newTestService(fake.server.URL)

	res, err := cf.Fetch(context.Background(), "tourist", false)
	require.NoError(t, err)
	require.Len(t, res.Contests, 2)
	for _, c := range res.Contests {
		assert.Nil(t, c.UnsolvedCount)
	}
}

// manyContestsHandler serves a rating history of n contests with ids 1..n, oldest first.
func manyContestsHandler(n int) http.HandlerFunc {
	changes := make([]string, 0, n)
	for id := 1; id <= n; id++ {
		changes = append(changes, fmt.Sprintf(
			`{"contestId":%d,"contestName":"Round %d","rank":1,"ratingUpdateTimeSeconds":%d,"oldRating":1500,"newRating":1500}`,
			id, id, 1700000000+id*86400,
		))
	}
	rating := `{"status":"OK","result":[` + strings.Join(changes, ",") + `]}`

	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user.rating":
			w.Write([]byte(rating))
		case "/user.status":
			w.Write([]byte(`{"status":"OK","result":[]}`))
		default:
			happyHandler(w, r)
		}
	}
}

func TestFetchBoundsStandingsLookups(t *testing.T) {
	fake := newFakeCodeforces(t, manyContestsHandler(30))
	cf := &CodeforcesService{
		BaseUrl:             fake.server.URL,
		MaxStandingsLookups: 5,
	}
	cf.Start()

	res, err := cf.Fetch(context.Background(), "tourist", true)
	require.NoError(t, err)
	assert.Equal(t, int32(3+5), fake.requests.Load())
	require.Len(t, res.Contests, 30)
	for i, c := range res.Contests {
		// the newest contests are looked up first
		if i >= 25 {
			assert.NotNil(t, c.UnsolvedCount, "contest %v", c.ContestID)
		} else {
			assert.Nil(t, c.UnsolvedCount, "contest %v", c.ContestID)
		}
	}

	// cached standings are free, the next five are looked up
	res, err = cf.Fetch(context.Background(), "tourist", true)
	require.NoError(t, err)
	assert.Equal(t, int32(2*(3+5)), fake.requests.Load())
	known := 0
	for _, c := range res.Contests {
		if c.UnsolvedCount != nil {
			known++
		}
	}
	assert.Equal(t, 10, known)
}

func TestFetchFailsWhenContextExpiresDuringStandings(t *testing.T) {
	fake := newFakeCodeforces(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/contest.standings" {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
			return
		}
		happyHandler(w, r)
	})
	cf := newTestService(fake.server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	res, err := cf.Fetch(ctx, "tourist", true)
	assert.ErrorIs(t, err, pulse_errors.ErrFetch)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, res.Contests)
}

func TestFetchUsesResultCache(t *testing.T) {
	fake := newFakeCodeforces(t, happyHandler)
	cf := &CodeforcesService{
		BaseUrl:     fake.server.URL,
		ResultCache: NewLRUCache(8, time.Minute),
	}
	cf.Start()

	_, err := cf.Fetch(context.Background(), "Tourist", false)
	require.NoError(t, err)
	afterFirst := fake.requests.Load()

	_, err = cf.Fetch(context.Background(), "tourist", false)
	require.NoError(t, err)
	assert.Equal(t, afterFirst, fake.requests.Load())

	// force bypasses the result cache but contest problems stay cached
	_, err = cf.Fetch(context.Background(), "tourist", true)
	require.NoError(t, err)
	assert.Equal(t, afterFirst+3, fake.requests.Load())
}

func TestThrottleSpacesRequests(t *testing.T) {
	fake := newFakeCodeforces(t, happyHandler)
	cf := &CodeforcesService{
		BaseUrl:            fake.server.URL,
		MinRequestInterval: 20 * time.Millisecond,
	}
	cf.Start()

	start := time.Now()
	_, err := cf.Fetch(context.Background(), "tourist", true)
	require.NoError(t, err)
	// user.info, user.rating, user.status and two standings calls
	assert.GreaterOrEqual(t, time.Since(start), 4*20*time.Millisecond)
}
