package syncclient

import (
	"time"

	"github.com/Gokul-Webzenith/maestro-done/internal/domain"
	"github.com/Gokul-Webzenith/maestro-done/internal/dto"
)

// ByStatus returns the snapshot's todos sitting in one board column,
// preserving insertion order.
func (s *Store) ByStatus(status domain.Status) []dto.TodoResponse {
	snap := s.Snapshot()
	var out []dto.TodoResponse
	for _, t := range snap.Todos {
		if domain.Status(t.Status) == status {
			out = append(out, t)
		}
	}
	return out
}

// Urgency returns the display tier for one todo; see domain.Urgency for the
// thresholds every client must reproduce.
func Urgency(t dto.TodoResponse, now time.Time) domain.UrgencyTier {
	return domain.Urgency(domain.Status(t.Status), t.EndAt, now)
}

// Summary computes the dashboard counters over the current snapshot.
func (s *Store) Summary(now time.Time) domain.Summary {
	return domain.Summarize(s.domainTodos(), now)
}

// Timeline computes the dashboard chart series over the current snapshot.
func (s *Store) Timeline(now time.Time, rangeDays int, loc *time.Location) []domain.TimelinePoint {
	return domain.Timeline(s.domainTodos(), now, rangeDays, loc)
}

func (s *Store) domainTodos() []domain.Todo {
	snap := s.Snapshot()
	out := make([]domain.Todo, len(snap.Todos))
	for i, t := range snap.Todos {
		out[i] = t.ToTodo()
	}
	return out
}
