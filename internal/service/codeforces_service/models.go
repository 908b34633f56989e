package codeforces_service

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"
)

const (
	DefaultBaseUrl            = "https://codeforces.com/api"
	DefaultRequestTimeout     = 10 * time.Second
	DefaultMinRequestInterval = 2 * time.Second
	// uncached contest.standings calls allowed per fetch
	DefaultMaxStandingsLookups = 10
	VerdictAccepted            = "OK"
	verdictTesting             = "TESTING"
	statusOK                   = "OK"
	statusFailed               = "FAILED"
	contestProblemsCacheSize   = 2048
	contestProblemsCacheTTL    = 24 * time.Hour
)

// CodeforcesService fetches and normalizes a handle's data from the codeforces api.
type CodeforcesService struct {
	BaseUrl             string
	RequestTimeout      time.Duration
	MinRequestInterval  time.Duration
	MaxStandingsLookups int
	HttpClient          *http.Client
	// optional, nil disables result caching
	ResultCache ResultCache

	baseUrl         *url.URL
	contestProblems *expirable.LRU[int32, []string]
	throttleLock    sync.Mutex
	lastRequest     time.Time
	logger          *logrus.Entry
}

type ResultCache interface {
	Get(ctx context.Context, handle string) (FetchResult, bool)
	Set(ctx context.Context, handle string, result FetchResult)
}

type Profile struct {
	Handle        string `json:"handle"`
	CurrentRating int32  `json:"current_rating"`
	MaxRating     int32  `json:"max_rating"`
	Rank          string `json:"rank"`
}

type Contest struct {
	ContestID     int32     `json:"contest_id"`
	Name          string    `json:"name"`
	Date          time.Time `json:"date"`
	OldRating     int32     `json:"old_rating"`
	NewRating     int32     `json:"new_rating"`
	Rank          int32     `json:"rank"`
	UnsolvedCount *int32    `json:"unsolved_count"`
}

type Submission struct {
	SubmissionID int64     `json:"submission_id"`
	ProblemID    string    `json:"problem_id"`
	Name         string    `json:"name"`
	Link         string    `json:"link"`
	ContestID    int32     `json:"contest_id"`
	Rating       int32     `json:"rating"`
	Verdict      string    `json:"verdict"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

type FetchResult struct {
	Profile     Profile      `json:"profile"`
	Contests    []Contest    `json:"contests"`
	Submissions []Submission `json:"submissions"`
	FetchedAt   time.Time    `json:"fetched_at"`
}

// wire formats of the codeforces api

type cfEnvelope[T any] struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
	Result  T      `json:"result"`
}

type cfUser struct {
	Handle    string `json:"handle"`
	Rating    int32  `json:"rating"`
	MaxRating int32  `json:"maxRating"`
	Rank      string `json:"rank"`
}

type cfRatingChange struct {
	ContestID               int32  `json:"contestId"`
	ContestName             string `json:"contestName"`
	Rank                    int32  `json:"rank"`
	RatingUpdateTimeSeconds int64  `json:"ratingUpdateTimeSeconds"`
	OldRating               int32  `json:"oldRating"`
	NewRating               int32  `json:"newRating"`
}

type cfProblem struct {
	ContestID      int32  `json:"contestId"`
	ProblemsetName string `json:"problemsetName"`
	Index          string `json:"index"`
	Name           string `json:"name"`
	Rating         int32  `json:"rating"`
}

type cfSubmission struct {
	ID                  int64     `json:"id"`
	ContestID           int32     `json:"contestId"`
	CreationTimeSeconds int64     `json:"creationTimeSeconds"`
	Problem             cfProblem `json:"problem"`
	Verdict             string    `json:"verdict"`
}

type cfStandings struct {
	Problems []cfProblem `json:"problems"`
}
