package domain

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	todos := []Todo{
		{Status: StatusInProgress, EndAt: now.Add(time.Hour)},
		{Status: StatusInProgress, EndAt: now.Add(-time.Hour)}, // overdue
		{Status: StatusDone, EndAt: now.Add(-48 * time.Hour)},  // done late, not overdue
		{Status: StatusTodo, EndAt: now.Add(-time.Minute)},     // overdue
		{Status: StatusBacklog, EndAt: now.Add(72 * time.Hour)},
	}

	got := Summarize(todos, now)
	want := Summary{Total: 5, InProgress: 2, Done: 1, Overdue: 2}
	if got != want {
		t.Errorf("Summarize() = %+v, want %+v", got, want)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if got := Summarize(nil, time.Now()); got != (Summary{}) {
		t.Errorf("Summarize(nil) = %+v, want zero", got)
	}
}

func TestTimeline(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	todos := []Todo{
		{StartAt: day(2026, 3, 9)},
		{StartAt: day(2026, 3, 9)},
		{StartAt: day(2026, 3, 1)},
		{StartAt: day(2025, 11, 1)}, // outside every range
		{},                          // zero StartAt is skipped
	}

	got := Timeline(todos, now, 7, time.UTC)
	want := []TimelinePoint{
		{Date: "2026-03-09", Tasks: 2},
	}
	if len(got) != len(want) {
		t.Fatalf("Timeline(7d) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Timeline(7d)[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	got = Timeline(todos, now, 30, time.UTC)
	if len(got) != 2 || got[0].Date != "2026-03-01" || got[1].Date != "2026-03-09" {
		t.Errorf("Timeline(30d) = %v, want 2026-03-01 then 2026-03-09", got)
	}
}

func TestTimelineFallsBackWhenRangeEmpty(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	todos := []Todo{
		{StartAt: day(2024, 1, 1)},
		{StartAt: day(2024, 1, 2)},
	}
	// Everything is older than 7 days: the unfiltered series comes back.
	got := Timeline(todos, now, 7, time.UTC)
	if len(got) != 2 {
		t.Fatalf("Timeline fallback returned %d points, want 2", len(got))
	}
	if got[0].Date != "2024-01-01" || got[1].Date != "2024-01-02" {
		t.Errorf("Timeline fallback = %v, want full sorted series", got)
	}
}

func TestTimelineEmpty(t *testing.T) {
	if got := Timeline(nil, time.Now(), 7, time.UTC); got != nil {
		t.Errorf("Timeline(nil) = %v, want nil", got)
	}
}
