package database

import (
	"context"
)

// iteratorForInsertContests implements pgx.CopyFromSource.
type iteratorForInsertContests struct {
	rows                 []InsertContestsParams
	skippedFirstNextCall bool
}

func (r *iteratorForInsertContests) Next() bool {
	if len(r.rows) == 0 {
		return false
	}
	if !r.skippedFirstNextCall {
		r.skippedFirstNextCall = true
		return true
	}
	r.rows = r.rows[1:]
	return len(r.rows) > 0
}

func (r iteratorForInsertContests) Values() ([]interface{}, error) {
	return []interface{}{
		r.rows[0].StudentID,
		r.rows[0].ContestID,
		r.rows[0].Name,
		r.rows[0].ContestDate,
		r.rows[0].OldRating,
		r.rows[0].NewRating,
		r.rows[0].Rank,
		r.rows[0].UnsolvedCount,
	}, nil
}

func (r iteratorForInsertContests) Err() error {
	return nil
}

func (q *Queries) InsertContests(ctx context.Context, arg []InsertContestsParams) (int64, error) {
	return q.db.CopyFrom(ctx, []string{"contests"}, []string{"student_id", "contest_id", "name", "contest_date", "old_rating", "new_rating", "rank", "unsolved_count"}, &iteratorForInsertContests{rows: arg})
}

// iteratorForInsertSubmissions implements pgx.CopyFromSource.
type iteratorForInsertSubmissions struct {
	rows                 []InsertSubmissionsParams
	skippedFirstNextCall bool
}

func (r *iteratorForInsertSubmissions) Next() bool {
	if len(r.rows) == 0 {
		return false
	}
	if !r.skippedFirstNextCall {
		r.skippedFirstNextCall = true
		return true
	}
	r.rows = r.rows[1:]
	return len(r.rows) > 0
}

func (r iteratorForInsertSubmissions) Values() ([]interface{}, error) {
	return []interface{}{
		r.rows[0].StudentID,
		r.rows[0].SubmissionID,
		r.rows[0].ProblemID,
		r.rows[0].ProblemName,
		r.rows[0].ProblemLink,
		r.rows[0].Rating,
		r.rows[0].Verdict,
		r.rows[0].SubmittedAt,
	}, nil
}

func (r iteratorForInsertSubmissions) Err() error {
	return nil
}

func (q *Queries) InsertSubmissions(ctx context.Context, arg []InsertSubmissionsParams) (int64, error) {
	return q.db.CopyFrom(ctx, []string{"submissions"}, []string{"student_id", "submission_id", "problem_id", "problem_name", "problem_link", "rating", "verdict", "submitted_at"}, &iteratorForInsertSubmissions{rows: arg})
}
