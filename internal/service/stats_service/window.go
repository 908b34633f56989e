package stats_service

import (
	"fmt"
	"time"

	"github.com/tcp_snm/pulse/internal/pulse_errors"
)

// NewWindow builds the window of the last days days ending today in loc.
func NewWindow(now time.Time, loc *time.Location, days int) (Window, error) {
	if days < MinDays || days > MaxDays {
		return Window{}, fmt.Errorf(
			"%w, days must be between %d and %d",
			pulse_errors.ErrInvalidInput,
			MinDays,
			MaxDays,
		)
	}
	if loc == nil {
		loc = time.Local
	}

	y, m, d := now.In(loc).Date()
	return Window{
		Days:  days,
		Start: time.Date(y, m, d-days, 12, 0, 0, 0, loc),
		End:   time.Date(y, m, d, 12, 0, 0, 0, loc),
	}, nil
}

// Contains reports whether t falls on one of the window's days.
func (w Window) Contains(t time.Time) bool {
	day := w.dayKey(t)
	return day >= w.Start.Format(heatmapDateLayout) && day <= w.End.Format(heatmapDateLayout)
}

// Since is an instant no later than the first moment of the window's first day.
func (w Window) Since() time.Time {
	return w.Start.Add(-24 * time.Hour)
}

// day returns noon of the i-th day of the window.
func (w Window) day(i int) time.Time {
	y, m, d := w.Start.Date()
	return time.Date(y, m, d+i, 12, 0, 0, 0, w.Start.Location())
}

func (w Window) dayKey(t time.Time) string {
	return t.In(w.End.Location()).Format(heatmapDateLayout)
}
