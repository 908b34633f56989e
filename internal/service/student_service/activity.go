package student_service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tcp_snm/pulse/internal/database"
	"github.com/tcp_snm/pulse/internal/pulse_errors"
	"github.com/tcp_snm/pulse/internal/service/codeforces_service"
)

// ReplaceActivity swaps the cached contests and submissions of a student with
// the ones in res. It must be called with a transactional querier.
func ReplaceActivity(
	ctx context.Context,
	q database.Querier,
	studentID uuid.UUID,
	res codeforces_service.FetchResult,
) error {
	if err := q.DeleteContestsByStudent(ctx, studentID); err != nil {
		return pulse_errors.HandleDBErrors(
			err,
			errMsgs,
			fmt.Sprintf("cannot delete contests of student %v", studentID),
		)
	}
	if err := q.DeleteSubmissionsByStudent(ctx, studentID); err != nil {
		return pulse_errors.HandleDBErrors(
			err,
			errMsgs,
			fmt.Sprintf("cannot delete submissions of student %v", studentID),
		)
	}

	if len(res.Contests) > 0 {
		contests := make([]database.InsertContestsParams, 0, len(res.Contests))
		for _, c := range res.Contests {
			contests = append(contests, database.InsertContestsParams{
				StudentID:     studentID,
				ContestID:     c.ContestID,
				Name:          c.Name,
				ContestDate:   c.Date,
				OldRating:     c.OldRating,
				NewRating:     c.NewRating,
				Rank:          c.Rank,
				UnsolvedCount: c.UnsolvedCount,
			})
		}
		if _, err := q.InsertContests(ctx, contests); err != nil {
			return pulse_errors.HandleDBErrors(
				err,
				errMsgs,
				fmt.Sprintf("cannot insert contests of student %v", studentID),
			)
		}
	}

	if len(res.Submissions) > 0 {
		submissions := make([]database.InsertSubmissionsParams, 0, len(res.Submissions))
		for _, s := range res.Submissions {
			submissions = append(submissions, database.InsertSubmissionsParams{
				StudentID:    studentID,
				SubmissionID: s.SubmissionID,
				ProblemID:    s.ProblemID,
				ProblemName:  s.Name,
				ProblemLink:  s.Link,
				Rating:       s.Rating,
				Verdict:      s.Verdict,
				SubmittedAt:  s.SubmittedAt,
			})
		}
		if _, err := q.InsertSubmissions(ctx, submissions); err != nil {
			return pulse_errors.HandleDBErrors(
				err,
				errMsgs,
				fmt.Sprintf("cannot insert submissions of student %v", studentID),
			)
		}
	}

	return nil
}
