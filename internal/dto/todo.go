package dto

import (
	"time"

	"github.com/Gokul-Webzenith/maestro-done/internal/domain"
)

// TodoFormRequest is the JSON body for POST / and PUT /:id. The time window
// arrives as separate date ("2006-01-02") and time ("15:04") parts; the
// server combines each pair into an instant.
type TodoFormRequest struct {
	Text        string `json:"text" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"max=2000"`
	Status      string `json:"status" binding:"omitempty,oneof=todo backlog inprogress done cancelled"`
	StartDate   string `json:"startDate" binding:"required"`
	StartTime   string `json:"startTime" binding:"required"`
	EndDate     string `json:"endDate" binding:"required"`
	EndTime     string `json:"endTime" binding:"required"`
}

// PatchTodoRequest is the JSON body for PATCH /:id. nil = leave unchanged.
// The drag-and-drop flow sends status only.
type PatchTodoRequest struct {
	Text        *string `json:"text,omitempty" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=2000"`
	Status      *string `json:"status,omitempty" binding:"omitempty,oneof=todo backlog inprogress done cancelled"`
}

type TodoResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Text        string    `json:"text"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	StartAt     time.Time `json:"startAt"`
	EndAt       time.Time `json:"endAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MutationResponse is the envelope returned by create/update/patch.
type MutationResponse struct {
	Success bool         `json:"success"`
	Data    TodoResponse `json:"data"`
}

// MessageResponse is returned by delete and by error paths.
type MessageResponse struct {
	Message string `json:"message"`
}

// FromTodo converts a domain todo into its wire form.
func FromTodo(t domain.Todo) TodoResponse {
	return TodoResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Text:        t.Text,
		Description: t.Description,
		Status:      string(t.Status),
		StartAt:     t.StartAt,
		EndAt:       t.EndAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// FromTodos converts a list of domain todos.
func FromTodos(list []domain.Todo) []TodoResponse {
	out := make([]TodoResponse, len(list))
	for i := range list {
		out[i] = FromTodo(list[i])
	}
	return out
}

// ToTodo converts a wire todo back into the domain form. The sync client
// uses this to feed the shared urgency and dashboard helpers.
func (r TodoResponse) ToTodo() domain.Todo {
	return domain.Todo{
		ID:          r.ID,
		UserID:      r.UserID,
		Text:        r.Text,
		Description: r.Description,
		Status:      domain.Status(r.Status),
		StartAt:     r.StartAt,
		EndAt:       r.EndAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
