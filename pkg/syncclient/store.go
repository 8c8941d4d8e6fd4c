package syncclient

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Gokul-Webzenith/maestro-done/internal/domain"
	"github.com/Gokul-Webzenith/maestro-done/internal/dto"
	"github.com/Gokul-Webzenith/maestro-done/pkg/log"
)

// MutationKind names the four server mutations.
type MutationKind string

const (
	MutationCreate MutationKind = "create"
	MutationUpdate MutationKind = "update"
	MutationPatch  MutationKind = "patch"
	MutationDelete MutationKind = "delete"
)

// Mutation is one staged or issued server write. Form is set for create and
// update, Patch for patch, and only ID for delete.
type Mutation struct {
	Kind  MutationKind
	ID    int64
	Form  *dto.TodoFormRequest
	Patch *dto.PatchTodoRequest
}

// ErrNothingStaged is returned by Confirm when no mutation is staged.
var ErrNothingStaged = errors.New("nothing staged")

// State is a point-in-time view of the mirrored collection. Err carries the
// last load failure; mutation failures are returned to the caller instead.
type State struct {
	Todos   []dto.TodoResponse
	Loading bool
	Err     error
}

// Store mirrors the server's todo collection for one authenticated identity.
// It is an explicit, injectable container: construct one per session, hand it
// to the presentation layer by reference, and never mutate its state except
// through the operations below.
//
// Mutations are fire-and-invalidate: the local collection is never edited in
// place, so a rejected write "rolls back" simply because the refetch returns
// the pre-mutation server state.
type Store struct {
	tr *Transport

	mu      sync.Mutex
	todos   []dto.TodoResponse
	loading bool
	err     error
	staged  *Mutation
	subs    map[int]chan struct{}
	nextSub int
}

// NewStore returns a Store backed by tr. The collection starts empty; call
// Refresh to load it.
func NewStore(tr *Transport) *Store {
	return &Store{tr: tr, subs: make(map[int]chan struct{})}
}

// Snapshot returns the current collection plus loading/error flags.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	todos := make([]dto.TodoResponse, len(s.todos))
	copy(todos, s.todos)
	return State{Todos: todos, Loading: s.loading, Err: s.err}
}

// Subscribe returns a channel that receives a tick after every state change,
// and a function to unsubscribe. Notifications are dropped, never blocked on.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan struct{}, 1)
	s.subs[id] = ch
	return ch, func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Refresh fetches the collection and replaces the local mirror. On failure
// the previous collection is kept and Err is set for the presentation layer.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	s.notify()

	todos, err := s.tr.List(ctx)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.err = err
	} else {
		s.todos = todos
		s.err = nil
	}
	s.mu.Unlock()
	s.notify()
	return err
}

// Mutate sends the mutation and invalidates the collection on success.
// Create, update and patch return as soon as the server confirms, with the
// refetch still in flight. Delete awaits the refetch before returning:
// callers assert the deleted row is gone from the snapshot.
//
// On failure the error is returned as-is; the mirror is left alone and no
// retry is attempted.
func (s *Store) Mutate(ctx context.Context, m Mutation) error {
	cid := uuid.NewString()
	ctx = WithRequestID(ctx, cid)

	var err error
	switch m.Kind {
	case MutationCreate:
		if m.Form == nil {
			return errors.New("create: form is required")
		}
		_, err = s.tr.Create(ctx, *m.Form)
	case MutationUpdate:
		if m.Form == nil {
			return errors.New("update: form is required")
		}
		_, err = s.tr.Update(ctx, m.ID, *m.Form)
	case MutationPatch:
		if m.Patch == nil {
			return errors.New("patch: fields are required")
		}
		_, err = s.tr.Patch(ctx, m.ID, *m.Patch)
	case MutationDelete:
		err = s.tr.Delete(ctx, m.ID)
	default:
		return errors.New("unknown mutation kind")
	}

	if err != nil {
		log.Error("mutation failed",
			zap.String("kind", string(m.Kind)),
			zap.Int64("id", m.ID),
			zap.String("request_id", cid),
			zap.Error(err))
		return err
	}

	if m.Kind == MutationDelete {
		return s.Refresh(ctx)
	}
	s.invalidate(ctx)
	return nil
}

// Move is the drag-and-drop path: an optimistic, immediate status patch that
// bypasses the confirm gate.
func (s *Store) Move(ctx context.Context, id int64, status domain.Status) error {
	st := string(status)
	return s.Mutate(ctx, Mutation{Kind: MutationPatch, ID: id, Patch: &dto.PatchTodoRequest{Status: &st}})
}

// Stage records a mutation as pending confirmation. Nothing is sent; the
// gate only prevents issuing a mutation prematurely.
func (s *Store) Stage(m Mutation) {
	s.mu.Lock()
	s.staged = &m
	s.mu.Unlock()
	s.notify()
}

// Staged returns the pending mutation, if any.
func (s *Store) Staged() (Mutation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.staged == nil {
		return Mutation{}, false
	}
	return *s.staged, true
}

// Confirm issues the staged mutation. The stage is cleared before the call,
// so the gate closes regardless of the outcome.
func (s *Store) Confirm(ctx context.Context) error {
	s.mu.Lock()
	if s.staged == nil {
		s.mu.Unlock()
		return ErrNothingStaged
	}
	m := *s.staged
	s.staged = nil
	s.mu.Unlock()
	s.notify()
	return s.Mutate(ctx, m)
}

// CancelConfirm clears the staged mutation with no server call.
func (s *Store) CancelConfirm() {
	s.mu.Lock()
	s.staged = nil
	s.mu.Unlock()
	s.notify()
}

// invalidate forces a refetch without making the caller wait for it.
func (s *Store) invalidate(ctx context.Context) {
	go func() {
		_ = s.Refresh(context.WithoutCancel(ctx))
	}()
}

func (s *Store) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
