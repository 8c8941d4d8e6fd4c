package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"

	"github.com/Gokul-Webzenith/maestro-done/internal/cache"
	dom "github.com/Gokul-Webzenith/maestro-done/internal/domain"
	"github.com/Gokul-Webzenith/maestro-done/internal/repo"
)

var (
	// ErrNotFound covers both a missing id and an id owned by another user;
	// callers must not be able to tell the two apart.
	ErrNotFound = errors.New("not found")

	// ErrValidation is wrapped with a field-level detail message.
	ErrValidation = errors.New("validation")
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04"
)

// TodoForm carries the full set of mutable fields. The time window arrives
// as date/time part pairs exactly as the clients submit them.
type TodoForm struct {
	Text        string
	Description string
	Status      string
	StartDate   string
	StartTime   string
	EndDate     string
	EndTime     string
}

// TodoPatch is a partial update; nil fields stay untouched. The board's
// drag-and-drop flow sends Status alone.
type TodoPatch struct {
	Text        *string
	Description *string
	Status      *string
}

type TodoService struct {
	repo  repo.TodoRepo
	cache *cache.TodoCache
	loc   *time.Location
	sf    singleflight.Group
}

// NewTodoService creates a TodoService. If c is nil, caching is disabled.
// loc is the server timezone policy used to combine date/time parts into
// instants; nil means time.Local.
func NewTodoService(r repo.TodoRepo, c *cache.TodoCache, loc *time.Location) *TodoService {
	if loc == nil {
		loc = time.Local
	}
	return &TodoService{repo: r, cache: c, loc: loc}
}

// List returns the caller's todos in insertion order. Full set, no pagination.
func (s *TodoService) List(ctx context.Context, userID int64) ([]dom.Todo, error) {
	if s.cache != nil {
		key := "list:" + strconv.FormatInt(userID, 10)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetList(ctx, userID); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.List(ctx, userID)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetList(ctx, userID, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Todo), nil
	}
	return s.repo.List(ctx, userID)
}

// Create validates the form, combines the date/time pairs and persists the
// todo with status defaulted to "todo" when absent.
func (s *TodoService) Create(ctx context.Context, userID int64, form TodoForm) (dom.Todo, error) {
	t, err := s.fromForm(userID, 0, form)
	if err != nil {
		return dom.Todo{}, err
	}
	out, err := s.repo.Create(ctx, t)
	if err != nil {
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx, userID)
	return out, nil
}

// Update replaces every mutable field of an owned todo and recomputes the
// time window from the form's date/time pairs.
func (s *TodoService) Update(ctx context.Context, userID, id int64, form TodoForm) (dom.Todo, error) {
	t, err := s.fromForm(userID, id, form)
	if err != nil {
		return dom.Todo{}, err
	}
	out, err := s.repo.Update(ctx, t)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx, userID)
	return out, nil
}

// Patch applies only the fields present in p, leaving the rest untouched.
func (s *TodoService) Patch(ctx context.Context, userID, id int64, p TodoPatch) (dom.Todo, error) {
	existing, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	patched := existing
	if p.Text != nil {
		text := strings.TrimSpace(*p.Text)
		if text == "" {
			return dom.Todo{}, fmt.Errorf("%w: text must not be empty", ErrValidation)
		}
		patched.Text = text
	}
	if p.Description != nil {
		patched.Description = strings.TrimSpace(*p.Description)
	}
	if p.Status != nil {
		status := dom.Status(*p.Status)
		if !status.Valid() {
			return dom.Todo{}, fmt.Errorf("%w: unknown status %q", ErrValidation, *p.Status)
		}
		patched.Status = status
	}
	out, err := s.repo.Update(ctx, patched)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx, userID)
	return out, nil
}

// Delete removes the owned todo permanently. Deleting an already-deleted or
// foreign id fails with ErrNotFound.
func (s *TodoService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	s.invalidateCache(ctx, userID)
	return nil
}

// fromForm validates and converts a form into a domain todo. id 0 means a
// new record.
func (s *TodoService) fromForm(userID, id int64, form TodoForm) (dom.Todo, error) {
	text := strings.TrimSpace(form.Text)
	if text == "" {
		return dom.Todo{}, fmt.Errorf("%w: text is required", ErrValidation)
	}
	status := dom.StatusTodo
	if form.Status != "" {
		status = dom.Status(form.Status)
		if !status.Valid() {
			return dom.Todo{}, fmt.Errorf("%w: unknown status %q", ErrValidation, form.Status)
		}
	}
	startAt, err := s.combine(form.StartDate, form.StartTime)
	if err != nil {
		return dom.Todo{}, fmt.Errorf("%w: start: %v", ErrValidation, err)
	}
	endAt, err := s.combine(form.EndDate, form.EndTime)
	if err != nil {
		return dom.Todo{}, fmt.Errorf("%w: end: %v", ErrValidation, err)
	}
	if endAt.Before(startAt) {
		return dom.Todo{}, fmt.Errorf("%w: end must not precede start", ErrValidation)
	}
	return dom.Todo{
		ID:          id,
		UserID:      userID,
		Text:        text,
		Description: strings.TrimSpace(form.Description),
		Status:      status,
		StartAt:     startAt,
		EndAt:       endAt,
	}, nil
}

// combine joins a date part and a time part into an instant in the server
// location, matching what the clients build their windows from.
func (s *TodoService) combine(datePart, timePart string) (time.Time, error) {
	datePart = strings.TrimSpace(datePart)
	timePart = strings.TrimSpace(timePart)
	if datePart == "" || timePart == "" {
		return time.Time{}, fmt.Errorf("date and time are required")
	}
	if _, err := time.Parse(dateLayout, datePart); err != nil {
		return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD")
	}
	at, err := time.ParseInLocation(dateTimeLayout, datePart+"T"+timePart, s.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("time must be HH:MM")
	}
	return at, nil
}

func (s *TodoService) invalidateCache(ctx context.Context, userID int64) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, userID)
	}
}
