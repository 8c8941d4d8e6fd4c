package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gokul-Webzenith/maestro-done/internal/app"
	"github.com/Gokul-Webzenith/maestro-done/internal/auth"
	"github.com/Gokul-Webzenith/maestro-done/internal/config"
	"github.com/Gokul-Webzenith/maestro-done/internal/dto"
	"github.com/Gokul-Webzenith/maestro-done/internal/repo"
	"github.com/Gokul-Webzenith/maestro-done/internal/service"
)

// newTestRouter mounts the real /api routes over in-memory stores.
func newTestRouter(t *testing.T) (*gin.Engine, auth.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()

	sessions := auth.NewMemStore()
	userSvc := service.NewUserService(repo.NewMemUserRepo())
	todoSvc := service.NewTodoService(repo.NewMemTodoRepo(), nil, time.UTC)
	app.MountAPI(r, config.Config{}, sessions, userSvc, todoSvc)
	return r, sessions
}

func sessionCookie(t *testing.T, sessions auth.Store, userID int64) *http.Cookie {
	t.Helper()
	id, err := sessions.Create(context.Background(), userID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return &http.Cookie{Name: auth.SessionCookieName, Value: id}
}

func doJSON(r *gin.Engine, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validBody() dto.TodoFormRequest {
	return dto.TodoFormRequest{
		Text:        "Test Task",
		Description: "details",
		Status:      "todo",
		StartDate:   "2026-02-25",
		StartTime:   "10:00",
		EndDate:     "2026-02-25",
		EndTime:     "12:00",
	}
}

func TestListRequiresSession(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(r, http.MethodGet, "/api", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("GET /api without cookie = %d, want 401", w.Code)
	}
	var msg dto.MessageResponse
	if err := json.Unmarshal(w.Body.Bytes(), &msg); err != nil || msg.Message != "Login required" {
		t.Errorf("401 body = %s", w.Body.String())
	}
}

func TestCreateAndList(t *testing.T) {
	r, sessions := newTestRouter(t)
	cookie := sessionCookie(t, sessions, 1)

	w := doJSON(r, http.MethodPost, "/api", validBody(), cookie)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST /api = %d, body %s", w.Code, w.Body.String())
	}
	var created dto.MutationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if !created.Success || created.Data.ID == 0 {
		t.Errorf("create envelope = %+v", created)
	}
	if created.Data.Status != "todo" {
		t.Errorf("created status = %s, want todo", created.Data.Status)
	}
	wantStart := time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)
	if !created.Data.StartAt.Equal(wantStart) {
		t.Errorf("created startAt = %v, want %v", created.Data.StartAt, wantStart)
	}

	w = doJSON(r, http.MethodGet, "/api", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api = %d", w.Code)
	}
	var list []dto.TodoResponse
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0].ID != created.Data.ID {
		t.Errorf("list = %+v, want the created todo", list)
	}
}

func TestListIsEmptyArrayNotNull(t *testing.T) {
	r, sessions := newTestRouter(t)
	cookie := sessionCookie(t, sessions, 1)

	w := doJSON(r, http.MethodGet, "/api", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api = %d", w.Code)
	}
	if body := bytes.TrimSpace(w.Body.Bytes()); string(body) != "[]" {
		t.Errorf("empty list body = %s, want []", body)
	}
}

func TestCreateValidationFails(t *testing.T) {
	r, sessions := newTestRouter(t)
	cookie := sessionCookie(t, sessions, 1)

	body := validBody()
	body.Text = ""
	w := doJSON(r, http.MethodPost, "/api", body, cookie)
	if w.Code != http.StatusBadRequest {
		t.Errorf("POST missing text = %d, want 400", w.Code)
	}

	body = validBody()
	body.EndDate = "2026-02-24"
	w = doJSON(r, http.MethodPost, "/api", body, cookie)
	if w.Code != http.StatusBadRequest {
		t.Errorf("POST end before start = %d, want 400", w.Code)
	}
}

func TestPatchChangesOnlyStatus(t *testing.T) {
	r, sessions := newTestRouter(t)
	cookie := sessionCookie(t, sessions, 1)

	w := doJSON(r, http.MethodPost, "/api", validBody(), cookie)
	var created dto.MutationResponse
	_ = json.Unmarshal(w.Body.Bytes(), &created)

	status := "inprogress"
	w = doJSON(r, http.MethodPatch, "/api/1", dto.PatchTodoRequest{Status: &status}, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("PATCH = %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodGet, "/api", nil, cookie)
	var list []dto.TodoResponse
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if len(list) != 1 {
		t.Fatalf("list has %d rows", len(list))
	}
	got, want := list[0], created.Data
	if got.Status != "inprogress" {
		t.Errorf("status = %s, want inprogress", got.Status)
	}
	if got.ID != want.ID || got.Text != want.Text || got.Description != want.Description ||
		!got.StartAt.Equal(want.StartAt) || !got.EndAt.Equal(want.EndAt) ||
		!got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("patch touched more than status:\n got %+v\nwant %+v", got, want)
	}
}

func TestCrossUserIsNotFound(t *testing.T) {
	r, sessions := newTestRouter(t)
	owner := sessionCookie(t, sessions, 1)
	other := sessionCookie(t, sessions, 2)

	doJSON(r, http.MethodPost, "/api", validBody(), owner)

	for _, tc := range []struct {
		method string
		body   any
	}{
		{http.MethodPut, validBody()},
		{http.MethodPatch, dto.PatchTodoRequest{}},
		{http.MethodDelete, nil},
	} {
		w := doJSON(r, tc.method, "/api/1", tc.body, other)
		if w.Code != http.StatusNotFound {
			t.Errorf("%s /api/1 as other user = %d, want 404", tc.method, w.Code)
		}
		var msg dto.MessageResponse
		if err := json.Unmarshal(w.Body.Bytes(), &msg); err != nil || msg.Message != "Not found" {
			t.Errorf("%s 404 body = %s, want generic Not found", tc.method, w.Body.String())
		}
	}
}

func TestDeleteTwice(t *testing.T) {
	r, sessions := newTestRouter(t)
	cookie := sessionCookie(t, sessions, 1)

	doJSON(r, http.MethodPost, "/api", validBody(), cookie)

	w := doJSON(r, http.MethodDelete, "/api/1", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("first DELETE = %d", w.Code)
	}
	var msg dto.MessageResponse
	if err := json.Unmarshal(w.Body.Bytes(), &msg); err != nil || msg.Message != "Deleted successfully" {
		t.Errorf("delete body = %s", w.Body.String())
	}

	w = doJSON(r, http.MethodDelete, "/api/1", nil, cookie)
	if w.Code != http.StatusNotFound {
		t.Errorf("second DELETE = %d, want 404", w.Code)
	}
}

func TestInvalidID(t *testing.T) {
	r, sessions := newTestRouter(t)
	cookie := sessionCookie(t, sessions, 1)
	w := doJSON(r, http.MethodDelete, "/api/abc", nil, cookie)
	if w.Code != http.StatusBadRequest {
		t.Errorf("DELETE /api/abc = %d, want 400", w.Code)
	}
}
