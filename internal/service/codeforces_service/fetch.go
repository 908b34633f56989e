package codeforces_service

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tcp_snm/pulse/internal/pulse_errors"
)

// Fetch returns the profile, rating history and submissions of handle.
// A cached result is served unless force is set.
func (cf *CodeforcesService) Fetch(
	ctx context.Context,
	handle string,
	force bool,
) (FetchResult, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return FetchResult{}, fmt.Errorf("%w, handle cannot be empty", pulse_errors.ErrInvalidInput)
	}
	cacheKey := strings.ToLower(handle)

	if !force && cf.ResultCache != nil {
		if res, ok := cf.ResultCache.Get(ctx, cacheKey); ok {
			cf.logger.Debugf("serving %v from result cache", handle)
			return res, nil
		}
	}

	profile, err := cf.fetchProfile(ctx, handle)
	if err != nil {
		return FetchResult{}, err
	}

	ratingChanges, err := query[[]cfRatingChange](ctx, cf, "user.rating", url.Values{"handle": {handle}})
	if err != nil {
		return FetchResult{}, err
	}

	rawSubs, err := query[[]cfSubmission](ctx, cf, "user.status", url.Values{"handle": {handle}})
	if err != nil {
		return FetchResult{}, err
	}

	submissions := normalizeSubmissions(rawSubs)
	contests, err := cf.normalizeContests(ctx, ratingChanges, submissions)
	if err != nil {
		return FetchResult{}, err
	}

	res := FetchResult{
		Profile:     profile,
		Contests:    contests,
		Submissions: submissions,
		FetchedAt:   time.Now(),
	}

	if cf.ResultCache != nil {
		cf.ResultCache.Set(ctx, cacheKey, res)
	}

	cf.logger.WithFields(map[string]any{
		"handle":      handle,
		"contests":    len(contests),
		"submissions": len(submissions),
	}).Info("fetched codeforces data")

	return res, nil
}

func (cf *CodeforcesService) fetchProfile(ctx context.Context, handle string) (Profile, error) {
	users, err := query[[]cfUser](ctx, cf, "user.info", url.Values{"handles": {handle}})
	if err != nil {
		return Profile{}, err
	}
	if len(users) != 1 {
		err = fmt.Errorf(
			"%w, %w, queried 1 user but got %v",
			pulse_errors.ErrFetch,
			pulse_errors.ErrHandleNotFound,
			len(users),
		)
		cf.logger.Error(err)
		return Profile{}, err
	}

	user := users[0]
	return Profile{
		Handle:        user.Handle,
		CurrentRating: user.Rating,
		MaxRating:     user.MaxRating,
		Rank:          user.Rank,
	}, nil
}

// ContestProblems returns the problem indices of a contest, served from the lru when possible.
func (cf *CodeforcesService) ContestProblems(ctx context.Context, contestID int32) ([]string, error) {
	if indices, ok := cf.contestProblems.Get(contestID); ok {
		return indices, nil
	}
	return cf.queryContestProblems(ctx, contestID)
}

func (cf *CodeforcesService) queryContestProblems(ctx context.Context, contestID int32) ([]string, error) {

	standings, err := query[cfStandings](ctx, cf, "contest.standings", url.Values{
		"contestId": {strconv.Itoa(int(contestID))},
		"from":      {"1"},
		"count":     {"1"},
	})
	if err != nil {
		return nil, err
	}

	indices := make([]string, 0, len(standings.Problems))
	for _, p := range standings.Problems {
		indices = append(indices, p.Index)
	}
	cf.contestProblems.Add(contestID, indices)

	return indices, nil
}

// normalizeContests counts unsolved problems from cached standings first and
// queries at most MaxStandingsLookups uncached contests, newest first.
// Contests left over keep an unknown unsolved count.
func (cf *CodeforcesService) normalizeContests(
	ctx context.Context,
	changes []cfRatingChange,
	submissions []Submission,
) ([]Contest, error) {
	// contest id -> solved problem indices
	solved := make(map[int32]map[string]struct{})
	for _, sub := range submissions {
		if sub.Verdict != VerdictAccepted || sub.ContestID == 0 {
			continue
		}
		if solved[sub.ContestID] == nil {
			solved[sub.ContestID] = make(map[string]struct{})
		}
		solved[sub.ContestID][problemIndex(sub.ProblemID, sub.ContestID)] = struct{}{}
	}

	contests := make([]Contest, 0, len(changes))
	for _, change := range changes {
		contests = append(contests, Contest{
			ContestID: change.ContestID,
			Name:      change.ContestName,
			Date:      time.Unix(change.RatingUpdateTimeSeconds, 0).UTC(),
			OldRating: change.OldRating,
			NewRating: change.NewRating,
			Rank:      change.Rank,
		})
	}
	sort.SliceStable(contests, func(i, j int) bool {
		return contests[i].Date.Before(contests[j].Date)
	})

	lookups := 0
	for i := len(contests) - 1; i >= 0; i-- {
		contest := &contests[i]
		problems, ok := cf.contestProblems.Get(contest.ContestID)
		if !ok {
			if lookups >= cf.MaxStandingsLookups {
				continue
			}
			lookups++

			var err error
			problems, err = cf.queryContestProblems(ctx, contest.ContestID)
			if ctx.Err() != nil {
				err = fmt.Errorf(
					"%w, stopped counting unsolved problems of %v, %w",
					pulse_errors.ErrFetch,
					contest.ContestID,
					ctx.Err(),
				)
				cf.logger.Error(err)
				return nil, err
			}
			if err != nil {
				// unsolved count stays unknown, the rest of the history is still useful
				cf.logger.Warnf("cannot get problems of contest %v, %v", contest.ContestID, err)
				continue
			}
		}

		unsolved := int32(0)
		for _, index := range problems {
			if _, ok := solved[contest.ContestID][index]; !ok {
				unsolved++
			}
		}
		contest.UnsolvedCount = &unsolved
	}

	return contests, nil
}

func normalizeSubmissions(raw []cfSubmission) []Submission {
	submissions := make([]Submission, 0, len(raw))
	for _, sub := range raw {
		verdict := sub.Verdict
		if verdict == "" {
			verdict = verdictTesting
		}
		contestID := sub.Problem.ContestID
		if contestID == 0 {
			contestID = sub.ContestID
		}
		submissions = append(submissions, Submission{
			SubmissionID: sub.ID,
			ProblemID:    problemID(sub.Problem, contestID),
			Name:         sub.Problem.Name,
			Link:         problemLink(sub.Problem, contestID),
			ContestID:    contestID,
			Rating:       sub.Problem.Rating,
			Verdict:      verdict,
			SubmittedAt:  time.Unix(sub.CreationTimeSeconds, 0).UTC(),
		})
	}

	sort.SliceStable(submissions, func(i, j int) bool {
		return submissions[i].SubmittedAt.Before(submissions[j].SubmittedAt)
	})

	return submissions
}

func problemID(p cfProblem, contestID int32) string {
	if contestID == 0 {
		return p.ProblemsetName + p.Index
	}
	return strconv.Itoa(int(contestID)) + p.Index
}

func problemIndex(id string, contestID int32) string {
	return strings.TrimPrefix(id, strconv.Itoa(int(contestID)))
}

func problemLink(p cfProblem, contestID int32) string {
	switch {
	case contestID == 0:
		return fmt.Sprintf("https://codeforces.com/problemsets/%s/problem/99999/%s", p.ProblemsetName, p.Index)
	case contestID >= 100000:
		return fmt.Sprintf("https://codeforces.com/gym/%d/problem/%s", contestID, p.Index)
	default:
		return fmt.Sprintf("https://codeforces.com/problemset/problem/%d/%s", contestID, p.Index)
	}
}
