package stats_service

import (
	"math"
	"sort"

	"github.com/tcp_snm/pulse/internal/database"
	"github.com/tcp_snm/pulse/internal/service"
	"github.com/tcp_snm/pulse/internal/service/codeforces_service"
)

// ComputeProblemStats derives the problem statistics of submissions inside win.
// Submissions outside the window are ignored.
// The heatmap covers win.Days+1 calendar days, today included, while
// AveragePerDay divides the solved count by win.Days.
func ComputeProblemStats(submissions []database.Submission, win Window) ProblemStats {
	stats := ProblemStats{
		Days:                  win.Days,
		StartDate:             win.Start.Format(heatmapDateLayout),
		EndDate:               win.End.Format(heatmapDateLayout),
		SolvedPerRatingBucket: map[int32]int{},
		RecentProblems:        []SolvedProblem{},
	}

	inWindow := make([]database.Submission, 0, len(submissions))
	for _, sub := range submissions {
		if win.Contains(sub.SubmittedAt) {
			inWindow = append(inWindow, sub)
		}
	}
	sort.SliceStable(inWindow, func(i, j int) bool {
		return inWindow[i].SubmittedAt.Before(inWindow[j].SubmittedAt)
	})

	solved := solvedProblems(inWindow)
	stats.TotalSolved = len(solved)

	ratingSum := 0
	for i, p := range solved {
		stats.SolvedPerRatingBucket[p.Rating]++
		ratingSum += int(p.Rating)
		if stats.MostDifficultProblem == nil || p.Rating > stats.MostDifficultProblem.Rating {
			stats.MostDifficultProblem = &solved[i]
		}
	}
	if stats.TotalSolved > 0 {
		stats.AverageRating = int(math.Round(float64(ratingSum) / float64(stats.TotalSolved)))
		stats.AveragePerDay = service.RoundTo(float64(stats.TotalSolved)/float64(win.Days), 2)
	}

	for i := len(solved) - 1; i >= 0 && len(stats.RecentProblems) < recentProblemsSize; i-- {
		stats.RecentProblems = append(stats.RecentProblems, solved[i])
	}

	counts := make(map[string]int)
	for _, sub := range inWindow {
		counts[win.dayKey(sub.SubmittedAt)]++
	}
	stats.SubmissionHeatmap = buildHeatmap(counts, win)
	stats.StreakInfo = computeStreaks(stats.SubmissionHeatmap)

	return stats
}

// solvedProblems returns the distinct accepted problems of submissions, which
// must be sorted by time, ordered by their first accepted submission.
func solvedProblems(submissions []database.Submission) []SolvedProblem {
	seen := make(map[string]struct{})
	solved := []SolvedProblem{}
	for _, sub := range submissions {
		if sub.Verdict != codeforces_service.VerdictAccepted {
			continue
		}
		if _, ok := seen[sub.ProblemID]; ok {
			continue
		}
		seen[sub.ProblemID] = struct{}{}
		solved = append(solved, SolvedProblem{
			ProblemID: sub.ProblemID,
			Name:      sub.ProblemName,
			Link:      sub.ProblemLink,
			Rating:    sub.Rating,
			SolvedAt:  sub.SubmittedAt,
		})
	}
	return solved
}

func buildHeatmap(counts map[string]int, win Window) []HeatmapDay {
	heatmap := make([]HeatmapDay, 0, win.Days+1)
	for i := 0; i <= win.Days; i++ {
		key := win.day(i).Format(heatmapDateLayout)
		heatmap = append(heatmap, HeatmapDay{Date: key, Count: counts[key]})
	}
	return heatmap
}

// computeStreaks expects the heatmap to end with today.
// The current streak may start yesterday so an idle morning does not reset it.
func computeStreaks(heatmap []HeatmapDay) StreakInfo {
	info := StreakInfo{}
	if len(heatmap) == 0 {
		return info
	}

	run := 0
	for _, day := range heatmap {
		if day.Count == 0 {
			run = 0
			continue
		}
		info.TotalActiveDays++
		run++
		info.LongestStreak = max(info.LongestStreak, run)
	}

	last := len(heatmap) - 1
	info.SubmissionsToday = heatmap[last].Count
	i := last
	if heatmap[i].Count == 0 {
		i--
	}
	for ; i >= 0 && heatmap[i].Count > 0; i-- {
		info.CurrentStreak++
	}

	return info
}

// ComputeContestHistory returns the contests of win, oldest first.
func ComputeContestHistory(contests []database.Contest, win Window) ContestHistory {
	history := ContestHistory{
		Days:      win.Days,
		StartDate: win.Start.Format(heatmapDateLayout),
		EndDate:   win.End.Format(heatmapDateLayout),
		Contests:  []ContestEntry{},
	}
	for _, c := range contests {
		if !win.Contains(c.ContestDate) {
			continue
		}
		history.Contests = append(history.Contests, ContestEntry{
			ContestID:     c.ContestID,
			Name:          c.Name,
			Date:          c.ContestDate,
			Rank:          c.Rank,
			OldRating:     c.OldRating,
			NewRating:     c.NewRating,
			RatingChange:  c.NewRating - c.OldRating,
			UnsolvedCount: c.UnsolvedCount,
		})
	}
	sort.SliceStable(history.Contests, func(i, j int) bool {
		return history.Contests[i].Date.Before(history.Contests[j].Date)
	})
	return history
}
