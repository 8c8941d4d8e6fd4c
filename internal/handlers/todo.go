package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Gokul-Webzenith/maestro-done/internal/auth"
	"github.com/Gokul-Webzenith/maestro-done/internal/dto"
	"github.com/Gokul-Webzenith/maestro-done/internal/service"
)

type TodoHandler struct {
	svc *service.TodoService
}

func NewTodoHandler(svc *service.TodoService) *TodoHandler {
	return &TodoHandler{svc: svc}
}

// List godoc
// @Summary      List the caller's todos
// @Tags         todos
// @Produce      json
// @Security     CookieAuth
// @Success      200  {array}   dto.TodoResponse
// @Failure      401  {object}  dto.MessageResponse
// @Failure      500  {object}  dto.MessageResponse
// @Router       / [get]
func (h *TodoHandler) List(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	list, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: err.Error()})
		return
	}
	// Always an array, never null, so clients can range without a nil check.
	out := dto.FromTodos(list)
	if out == nil {
		out = []dto.TodoResponse{}
	}
	c.JSON(http.StatusOK, out)
}

// Create godoc
// @Summary      Create a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.TodoFormRequest  true  "Todo form"
// @Success      201   {object}  dto.MutationResponse
// @Failure      400   {object}  dto.MessageResponse
// @Failure      401   {object}  dto.MessageResponse
// @Router       / [post]
func (h *TodoHandler) Create(c *gin.Context) {
	var req dto.TodoFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: err.Error()})
		return
	}
	userID := auth.UserIDFromContext(c)
	t, err := h.svc.Create(c.Request.Context(), userID, toForm(req))
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, dto.MutationResponse{Success: true, Data: dto.FromTodo(t)})
}

// Update godoc
// @Summary      Replace a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int                  true  "Todo ID"
// @Param        body  body      dto.TodoFormRequest  true  "Todo form"
// @Success      200   {object}  dto.MutationResponse
// @Failure      400   {object}  dto.MessageResponse
// @Failure      401   {object}  dto.MessageResponse
// @Failure      404   {object}  dto.MessageResponse
// @Router       /{id} [put]
func (h *TodoHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.TodoFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: err.Error()})
		return
	}
	userID := auth.UserIDFromContext(c)
	t, err := h.svc.Update(c.Request.Context(), userID, id, toForm(req))
	if err != nil {
		h.writeMutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MutationResponse{Success: true, Data: dto.FromTodo(t)})
}

// Patch godoc
// @Summary      Partially update a todo (drag-and-drop status change)
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int                   true  "Todo ID"
// @Param        body  body      dto.PatchTodoRequest  true  "Partial fields"
// @Success      200   {object}  dto.MutationResponse
// @Failure      400   {object}  dto.MessageResponse
// @Failure      401   {object}  dto.MessageResponse
// @Failure      404   {object}  dto.MessageResponse
// @Router       /{id} [patch]
func (h *TodoHandler) Patch(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.PatchTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: err.Error()})
		return
	}
	userID := auth.UserIDFromContext(c)
	t, err := h.svc.Patch(c.Request.Context(), userID, id, service.TodoPatch{
		Text:        req.Text,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		h.writeMutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MutationResponse{Success: true, Data: dto.FromTodo(t)})
}

// Delete godoc
// @Summary      Delete a todo permanently
// @Tags         todos
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Todo ID"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.MessageResponse
// @Failure      401  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.MessageResponse
// @Router       /{id} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID := auth.UserIDFromContext(c)
	if err := h.svc.Delete(c.Request.Context(), userID, id); err != nil {
		h.writeMutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Deleted successfully"})
}

func (h *TodoHandler) writeMutationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		// Same body for "doesn't exist" and "not yours": existence must not leak.
		c.JSON(http.StatusNotFound, dto.MessageResponse{Message: "Not found"})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: err.Error()})
	}
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: "invalid id"})
		return 0, false
	}
	return id, true
}

func toForm(req dto.TodoFormRequest) service.TodoForm {
	return service.TodoForm{
		Text:        req.Text,
		Description: req.Description,
		Status:      req.Status,
		StartDate:   req.StartDate,
		StartTime:   req.StartTime,
		EndDate:     req.EndDate,
		EndTime:     req.EndTime,
	}
}
