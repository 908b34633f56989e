package stats_service

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tcp_snm/pulse/internal/database"
)

const (
	MinDays            = 1
	MaxDays            = 365
	DefaultContestDays = 90
	DefaultProblemDays = 30
	recentProblemsSize = 10
	heatmapDateLayout  = "2006-01-02"
)

type StatsService struct {
	DB database.Store
	// days are cut in this location, defaults to local
	Location *time.Location
	// clock, defaults to time.Now
	Now func() time.Time

	logger *logrus.Entry
}

// Window is the range of local calendar days [Start, End] both inclusive.
// Window is a run of calendar days. Start and End sit at noon of the first
// and last day so that day arithmetic never lands in a skipped local midnight.
type Window struct {
	Days  int
	Start time.Time
	End   time.Time
}

type SolvedProblem struct {
	ProblemID string    `json:"problem_id"`
	Name      string    `json:"name"`
	Link      string    `json:"link"`
	Rating    int32     `json:"rating"`
	SolvedAt  time.Time `json:"solved_at"`
}

type HeatmapDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type StreakInfo struct {
	CurrentStreak    int `json:"current_streak"`
	LongestStreak    int `json:"longest_streak"`
	TotalActiveDays  int `json:"total_active_days"`
	SubmissionsToday int `json:"submissions_today"`
}

type ProblemStats struct {
	Days                  int             `json:"days"`
	StartDate             string          `json:"start_date"`
	EndDate               string          `json:"end_date"`
	TotalSolved           int             `json:"total_solved"`
	AverageRating         int             `json:"average_rating"`
	AveragePerDay         float64         `json:"average_per_day"`
	MostDifficultProblem  *SolvedProblem  `json:"most_difficult_problem"`
	SolvedPerRatingBucket map[int32]int   `json:"solved_per_rating_bucket"`
	SubmissionHeatmap     []HeatmapDay    `json:"submission_heatmap"`
	StreakInfo            StreakInfo      `json:"streak_info"`
	RecentProblems        []SolvedProblem `json:"recent_problems"`
}

type ContestEntry struct {
	ContestID     int32     `json:"contest_id"`
	Name          string    `json:"name"`
	Date          time.Time `json:"date"`
	Rank          int32     `json:"rank"`
	OldRating     int32     `json:"old_rating"`
	NewRating     int32     `json:"new_rating"`
	RatingChange  int32     `json:"rating_change"`
	UnsolvedCount *int32    `json:"unsolved_count"`
}

type ContestHistory struct {
	Days      int            `json:"days"`
	StartDate string         `json:"start_date"`
	EndDate   string         `json:"end_date"`
	Contests  []ContestEntry `json:"contests"`
}
