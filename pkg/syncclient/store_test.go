package syncclient

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gokul-Webzenith/maestro-done/internal/app"
	"github.com/Gokul-Webzenith/maestro-done/internal/auth"
	"github.com/Gokul-Webzenith/maestro-done/internal/config"
	"github.com/Gokul-Webzenith/maestro-done/internal/domain"
	"github.com/Gokul-Webzenith/maestro-done/internal/dto"
	"github.com/Gokul-Webzenith/maestro-done/internal/repo"
	"github.com/Gokul-Webzenith/maestro-done/internal/service"
)

// newTestServer runs the real API over in-memory stores.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	sessions := auth.NewMemStore()
	userSvc := service.NewUserService(repo.NewMemUserRepo())
	todoSvc := service.NewTodoService(repo.NewMemTodoRepo(), nil, time.UTC)
	app.MountAPI(r, config.Config{}, sessions, userSvc, todoSvc)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

// newSession registers a fresh user against srv and returns its transport.
func newSession(t *testing.T, srv *httptest.Server, email string) *Transport {
	t.Helper()
	tr, err := NewTransport(srv.URL, TransportOptions{})
	if err != nil {
		t.Fatalf("NewTransport: %v", err)
	}
	if err := tr.Register(context.Background(), email, "password123"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	return tr
}

func form(text string) dto.TodoFormRequest {
	return dto.TodoFormRequest{
		Text:        text,
		Description: "details",
		Status:      "todo",
		StartDate:   "2026-02-25",
		StartTime:   "10:00",
		EndDate:     "2026-02-25",
		EndTime:     "12:00",
	}
}

// waitFor polls until cond holds or the deadline passes. The create/update/
// patch paths invalidate without waiting, so assertions on the mirror after
// those mutations have to tolerate the in-flight refetch.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not reached before deadline")
}

func TestRefreshMirrorsServer(t *testing.T) {
	srv := newTestServer(t)
	tr := newSession(t, srv, "a@example.com")
	ctx := context.Background()

	created, err := tr.Create(ctx, form("first"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	store := NewStore(tr)
	if got := store.Snapshot(); len(got.Todos) != 0 {
		t.Fatalf("fresh store should be empty, got %d", len(got.Todos))
	}
	if err := store.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	snap := store.Snapshot()
	if len(snap.Todos) != 1 || snap.Todos[0].ID != created.ID {
		t.Errorf("snapshot = %+v, want the created todo", snap.Todos)
	}
	if snap.Loading || snap.Err != nil {
		t.Errorf("snapshot flags = loading %v err %v", snap.Loading, snap.Err)
	}
}

func TestCreateFireAndInvalidate(t *testing.T) {
	srv := newTestServer(t)
	tr := newSession(t, srv, "a@example.com")
	store := NewStore(tr)
	ctx := context.Background()

	f := form("async")
	if err := store.Mutate(ctx, Mutation{Kind: MutationCreate, Form: &f}); err != nil {
		t.Fatalf("Mutate(create): %v", err)
	}
	// The refetch runs behind the call; the mirror converges.
	waitFor(t, func() bool { return len(store.Snapshot().Todos) == 1 })
}

func TestDeleteAwaitsRefetch(t *testing.T) {
	srv := newTestServer(t)
	tr := newSession(t, srv, "a@example.com")
	store := NewStore(tr)
	ctx := context.Background()

	created, err := tr.Create(ctx, form("doomed"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if err := store.Mutate(ctx, Mutation{Kind: MutationDelete, ID: created.ID}); err != nil {
		t.Fatalf("Mutate(delete): %v", err)
	}
	// No waiting: delete resolves only after the refetch, so the row is
	// guaranteed gone from the snapshot right here.
	for _, got := range store.Snapshot().Todos {
		if got.ID == created.ID {
			t.Error("deleted todo still present after Mutate(delete) returned")
		}
	}
}

func TestConfirmGate(t *testing.T) {
	srv := newTestServer(t)
	tr := newSession(t, srv, "a@example.com")
	store := NewStore(tr)
	ctx := context.Background()

	f := form("staged")
	store.Stage(Mutation{Kind: MutationCreate, Form: &f})

	// Staging has no side effect: the server has nothing yet.
	list, err := tr.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("staging already created a todo: %+v", list)
	}
	if _, ok := store.Staged(); !ok {
		t.Fatal("Staged() lost the staged mutation")
	}

	// Cancel clears the stage with no server call.
	store.CancelConfirm()
	if _, ok := store.Staged(); ok {
		t.Fatal("CancelConfirm left the stage set")
	}
	if err := store.Confirm(ctx); !errors.Is(err, ErrNothingStaged) {
		t.Fatalf("Confirm after cancel = %v, want ErrNothingStaged", err)
	}

	// Stage again and confirm: now the mutation goes out.
	store.Stage(Mutation{Kind: MutationCreate, Form: &f})
	if err := store.Confirm(ctx); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if _, ok := store.Staged(); ok {
		t.Error("Confirm left the stage set")
	}
	waitFor(t, func() bool {
		list, _ := tr.List(ctx)
		return len(list) == 1
	})
}

func TestConfirmGateClosesOnFailureToo(t *testing.T) {
	srv := newTestServer(t)
	tr := newSession(t, srv, "a@example.com")
	store := NewStore(tr)
	ctx := context.Background()

	store.Stage(Mutation{Kind: MutationDelete, ID: 9999})
	err := store.Confirm(ctx)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Confirm on missing id = %v, want NotFoundError", err)
	}
	if _, ok := store.Staged(); ok {
		t.Error("failed Confirm left the stage set")
	}
}

func TestMoveBypassesGate(t *testing.T) {
	srv := newTestServer(t)
	tr := newSession(t, srv, "a@example.com")
	store := NewStore(tr)
	ctx := context.Background()

	created, err := tr.Create(ctx, form("draggable"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if err := store.Move(ctx, created.ID, domain.StatusInProgress); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if _, ok := store.Staged(); ok {
		t.Error("Move went through the confirm gate")
	}
	list, err := tr.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Status != "inprogress" {
		t.Errorf("server state after Move = %+v", list)
	}
	// Only the status moved.
	if list[0].Text != created.Text || !list[0].StartAt.Equal(created.StartAt) || !list[0].EndAt.Equal(created.EndAt) {
		t.Errorf("Move changed more than status:\n got %+v\nwant %+v", list[0], created)
	}
	waitFor(t, func() bool {
		cols := store.ByStatus(domain.StatusInProgress)
		return len(cols) == 1 && cols[0].ID == created.ID
	})
}

func TestFailedMutationKeepsServerTruth(t *testing.T) {
	srv := newTestServer(t)
	tr := newSession(t, srv, "a@example.com")
	store := NewStore(tr)
	ctx := context.Background()

	created, err := tr.Create(ctx, form("stable"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	f := form("never applied")
	err = store.Mutate(ctx, Mutation{Kind: MutationUpdate, ID: created.ID + 100, Form: &f})
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("update of missing id = %v, want NotFoundError", err)
	}

	// No rollback machinery: the mirror still holds the pre-mutation truth.
	if err := store.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	snap := store.Snapshot()
	if len(snap.Todos) != 1 || snap.Todos[0].Text != "stable" {
		t.Errorf("snapshot after failed mutation = %+v", snap.Todos)
	}
}

func TestValidationErrorSurfaces(t *testing.T) {
	srv := newTestServer(t)
	tr := newSession(t, srv, "a@example.com")
	ctx := context.Background()

	bad := form("bad window")
	bad.EndDate = "2026-02-24"
	_, err := tr.Create(ctx, bad)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Create with inverted window = %v, want ValidationError", err)
	}
	if ve.Message == "" {
		t.Error("ValidationError carries no field message")
	}
}

func TestAuthErrorWithoutSession(t *testing.T) {
	srv := newTestServer(t)
	tr, err := NewTransport(srv.URL, TransportOptions{})
	if err != nil {
		t.Fatalf("NewTransport: %v", err)
	}
	_, err = tr.List(context.Background())
	var ae *AuthError
	if !errors.As(err, &ae) {
		t.Fatalf("List without session = %v, want AuthError", err)
	}
}

func TestCrossUserMutationIsNotFound(t *testing.T) {
	srv := newTestServer(t)
	owner := newSession(t, srv, "owner@example.com")
	other := newSession(t, srv, "other@example.com")
	ctx := context.Background()

	created, err := owner.Create(ctx, form("mine"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = other.Patch(ctx, created.ID, dto.PatchTodoRequest{})
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("foreign Patch = %v, want NotFoundError", err)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	srv := newTestServer(t)
	tr := newSession(t, srv, "a@example.com")
	ctx := context.Background()

	if _, err := tr.List(ctx); err != nil {
		t.Fatalf("List while logged in: %v", err)
	}
	if err := tr.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	_, err := tr.List(ctx)
	var ae *AuthError
	if !errors.As(err, &ae) {
		t.Fatalf("List after logout = %v, want AuthError", err)
	}
}

func TestSubscribeSeesRefresh(t *testing.T) {
	srv := newTestServer(t)
	tr := newSession(t, srv, "a@example.com")
	store := NewStore(tr)

	ch, cancel := store.Subscribe()
	defer cancel()

	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no notification after Refresh")
	}
}

func TestBoardHelpers(t *testing.T) {
	srv := newTestServer(t)
	tr := newSession(t, srv, "a@example.com")
	store := NewStore(tr)
	ctx := context.Background()

	first, _ := tr.Create(ctx, form("one"))
	if _, err := tr.Patch(ctx, first.ID, dto.PatchTodoRequest{Status: strPtr("inprogress")}); err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if _, err := tr.Create(ctx, form("two")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	now := time.Date(2026, 2, 25, 11, 0, 0, 0, time.UTC)
	sum := store.Summary(now)
	if sum.Total != 2 || sum.InProgress != 1 {
		t.Errorf("Summary = %+v", sum)
	}
	// endAt is 12:00 the same day: one hour left on an in-progress card.
	inProgress := store.ByStatus(domain.StatusInProgress)
	if len(inProgress) != 1 {
		t.Fatalf("ByStatus(inprogress) = %d rows", len(inProgress))
	}
	if tier := Urgency(inProgress[0], now); tier != domain.TierCritical {
		t.Errorf("Urgency = %s, want critical", tier)
	}

	points := store.Timeline(now, 7, time.UTC)
	if len(points) != 1 || points[0].Date != "2026-02-25" || points[0].Tasks != 2 {
		t.Errorf("Timeline = %+v", points)
	}
}

func strPtr(s string) *string { return &s }
