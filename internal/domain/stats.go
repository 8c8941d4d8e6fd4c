package domain

import (
	"sort"
	"time"
)

// Summary holds the dashboard counters.
type Summary struct {
	Total      int `json:"total"`
	InProgress int `json:"inProgress"`
	Done       int `json:"done"`
	Overdue    int `json:"overdue"`
}

// Summarize counts todos for the dashboard cards. A todo is overdue when
// its window ended before now and it is not done.
func Summarize(todos []Todo, now time.Time) Summary {
	s := Summary{Total: len(todos)}
	for _, t := range todos {
		if t.Status == StatusInProgress {
			s.InProgress++
		}
		if t.Status == StatusDone {
			s.Done++
		}
		if t.EndAt.Before(now) && t.Status != StatusDone {
			s.Overdue++
		}
	}
	return s
}

// TimelinePoint is one bucket of the dashboard chart: how many todos
// start on a given day.
type TimelinePoint struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Tasks int    `json:"tasks"`
}

// Timeline buckets todos by the calendar day of StartAt in loc, sorted
// date-ascending, keeping only the trailing rangeDays before now. When the
// range filter leaves nothing, the full series is returned instead so the
// chart never goes blank on old data.
func Timeline(todos []Todo, now time.Time, rangeDays int, loc *time.Location) []TimelinePoint {
	if loc == nil {
		loc = time.Local
	}
	byDay := make(map[string]int)
	for _, t := range todos {
		if t.StartAt.IsZero() {
			continue
		}
		byDay[t.StartAt.In(loc).Format("2006-01-02")]++
	}
	if len(byDay) == 0 {
		return nil
	}

	all := make([]TimelinePoint, 0, len(byDay))
	for date, n := range byDay {
		all = append(all, TimelinePoint{Date: date, Tasks: n})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Date < all[j].Date })

	if rangeDays <= 0 {
		rangeDays = 90
	}
	cutoff := now.In(loc).AddDate(0, 0, -rangeDays).Format("2006-01-02")
	filtered := make([]TimelinePoint, 0, len(all))
	for _, p := range all {
		if p.Date >= cutoff {
			filtered = append(filtered, p)
		}
	}
	if len(filtered) == 0 {
		return all
	}
	return filtered
}
