package syncclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Gokul-Webzenith/maestro-done/internal/dto"
)

type ctxKey int

const requestIDKey ctxKey = iota

// WithRequestID attaches a correlation id to ctx; the transport sends it as
// X-Request-Id so a mutation can be traced through the server logs. Without
// one a fresh uuid is generated per request.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// TransportOptions configures the HTTP transport.
type TransportOptions struct {
	Timeout             time.Duration
	ConnectionTimeout   time.Duration
	MaxIdleConnsPerHost int
}

// Transport is the typed HTTP client for the todo API. The session cookie
// lives in its jar, so one Transport is one authenticated identity.
type Transport struct {
	baseURL string
	hc      *http.Client
}

// NewTransport returns a Transport for the API at baseURL.
func NewTransport(baseURL string, opts TransportOptions) (*Transport, error) {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.ConnectionTimeout == 0 {
		opts.ConnectionTimeout = 10 * time.Second
	}
	if opts.MaxIdleConnsPerHost == 0 {
		opts.MaxIdleConnsPerHost = 10
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	return &Transport{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc: &http.Client{
			Jar:     jar,
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
				DialContext: (&net.Dialer{
					Timeout: opts.ConnectionTimeout,
				}).DialContext,
			},
		},
	}, nil
}

// List fetches the caller's full todo collection.
func (t *Transport) List(ctx context.Context) ([]dto.TodoResponse, error) {
	var out []dto.TodoResponse
	if err := t.do(ctx, http.MethodGet, "/api", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create posts a new todo and returns the canonical record.
func (t *Transport) Create(ctx context.Context, form dto.TodoFormRequest) (dto.TodoResponse, error) {
	var out dto.MutationResponse
	if err := t.do(ctx, http.MethodPost, "/api", form, &out); err != nil {
		return dto.TodoResponse{}, err
	}
	return out.Data, nil
}

// Update replaces every mutable field of the todo.
func (t *Transport) Update(ctx context.Context, id int64, form dto.TodoFormRequest) (dto.TodoResponse, error) {
	var out dto.MutationResponse
	if err := t.do(ctx, http.MethodPut, "/api/"+strconv.FormatInt(id, 10), form, &out); err != nil {
		return dto.TodoResponse{}, err
	}
	return out.Data, nil
}

// Patch applies a partial update; the board uses it for status moves.
func (t *Transport) Patch(ctx context.Context, id int64, patch dto.PatchTodoRequest) (dto.TodoResponse, error) {
	var out dto.MutationResponse
	if err := t.do(ctx, http.MethodPatch, "/api/"+strconv.FormatInt(id, 10), patch, &out); err != nil {
		return dto.TodoResponse{}, err
	}
	return out.Data, nil
}

// Delete removes the todo permanently.
func (t *Transport) Delete(ctx context.Context, id int64) error {
	return t.do(ctx, http.MethodDelete, "/api/"+strconv.FormatInt(id, 10), nil, nil)
}

// Register creates an account; the session cookie lands in the jar.
func (t *Transport) Register(ctx context.Context, email, password string) error {
	body := dto.RegisterRequest{Email: email, Password: password}
	return t.do(ctx, http.MethodPost, "/api/auth/register", body, nil)
}

// Login authenticates; the session cookie lands in the jar.
func (t *Transport) Login(ctx context.Context, email, password string) error {
	body := dto.LoginRequest{Email: email, Password: password}
	return t.do(ctx, http.MethodPost, "/api/auth/login", body, nil)
}

// Logout drops the server session and clears the cookie.
func (t *Transport) Logout(ctx context.Context) error {
	return t.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

func (t *Transport) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID(ctx))

	resp, err := t.hc.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	case resp.StatusCode == http.StatusBadRequest:
		var msg dto.MessageResponse
		_ = json.NewDecoder(resp.Body).Decode(&msg)
		return &ValidationError{Message: msg.Message}
	case resp.StatusCode == http.StatusUnauthorized:
		return &AuthError{}
	case resp.StatusCode == http.StatusNotFound:
		return &NotFoundError{}
	default:
		var msg dto.MessageResponse
		_ = json.NewDecoder(resp.Body).Decode(&msg)
		if msg.Message == "" {
			msg.Message = resp.Status
		}
		return fmt.Errorf("%s %s: %s", method, path, msg.Message)
	}
}
