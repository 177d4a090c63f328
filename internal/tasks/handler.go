package tasks

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/RianNegreiros/ai-powered-task-app/internal/platform/httpx"
	"github.com/RianNegreiros/ai-powered-task-app/internal/shared"
)

// Handler wires HTTP endpoints for task management. It is mounted behind
// the bearer middleware.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers task routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/me", h.list)
	r.Get("/me/{id}", h.get)
	r.Put("/me/{id}", h.update)
	r.Patch("/me/{id}", h.toggle)
	r.Delete("/me/{id}", h.delete)
}

// taskRequest covers both create and update bodies. TagIDs is a pointer
// so an omitted field can be told apart from an explicit empty list,
// which clears the links on update.
type taskRequest struct {
	Title       string     `json:"title" validate:"required,min=1,max=255"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	Description string     `json:"description" validate:"max=1000"`
	TagIDs      *[]string  `json:"tagIds"`
}

type tagSummaryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type taskResponse struct {
	ID          string               `json:"id"`
	UserID      string               `json:"userId"`
	Title       string               `json:"title"`
	Priority    Priority             `json:"priority"`
	DueDate     *time.Time           `json:"dueDate"`
	Completed   bool                 `json:"completed"`
	Description string               `json:"description"`
	Tags        []tagSummaryResponse `json:"tags"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

func toTaskResponse(task Task) taskResponse {
	tags := make([]tagSummaryResponse, 0, len(task.Tags))
	for _, tag := range task.Tags {
		tags = append(tags, tagSummaryResponse{ID: tag.ID, Name: tag.Name})
	}
	return taskResponse{
		ID:          strconv.FormatInt(task.ID, 10),
		UserID:      strconv.FormatInt(task.UserID, 10),
		Title:       task.Title,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
		Completed:   task.Completed,
		Description: task.Description,
		Tags:        tags,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func parseTagIDs(raw []string) ([]int64, error) {
	ids := make([]int64, 0, len(raw))
	for _, s := range raw {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: tag id %q is not numeric", shared.ErrValidation, s)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (taskRequest, Priority, bool) {
	var req taskRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return taskRequest{}, "", false
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, shared.FirstValidationMessage(err))
		return taskRequest{}, "", false
	}
	priority, err := ParsePriority(req.Priority)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", shared.ErrValidation, err))
		return taskRequest{}, "", false
	}
	return req, priority, true
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}

	req, priority, ok := h.decode(w, r)
	if !ok {
		return
	}

	input := CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		DueDate:     req.DueDate,
	}
	if req.TagIDs != nil {
		ids, err := parseTagIDs(*req.TagIDs)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		input.TagIDs = ids
	}

	task, err := h.service.CreateTask(r.Context(), identity.UserID, input)
	if err != nil {
		h.logger.Debug("create task", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toTaskResponse(task))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}

	tasks, err := h.service.ListTasks(r.Context(), identity.UserID)
	if err != nil {
		h.logger.Error("list tasks", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	response := make([]taskResponse, 0, len(tasks))
	for _, task := range tasks {
		response = append(response, toTaskResponse(task))
	}
	httpx.JSON(w, http.StatusOK, response)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	identity, id, ok := h.identityAndID(w, r)
	if !ok {
		return
	}
	task, err := h.service.GetTask(r.Context(), identity.UserID, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toTaskResponse(task))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	identity, id, ok := h.identityAndID(w, r)
	if !ok {
		return
	}

	req, priority, ok := h.decode(w, r)
	if !ok {
		return
	}

	input := UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		DueDate:     req.DueDate,
	}
	if req.TagIDs != nil {
		ids, err := parseTagIDs(*req.TagIDs)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		input.Tags = TagUpdate{Replace: true, IDs: ids}
	}

	task, err := h.service.UpdateTask(r.Context(), identity.UserID, id, input)
	if err != nil {
		h.logger.Debug("update task", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toTaskResponse(task))
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request) {
	identity, id, ok := h.identityAndID(w, r)
	if !ok {
		return
	}
	task, err := h.service.ToggleCompleted(r.Context(), identity.UserID, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toTaskResponse(task))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	identity, id, ok := h.identityAndID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteTask(r.Context(), identity.UserID, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Task with ID: %d deleted successfully.", id),
	})
}

func (h *Handler) identityAndID(w http.ResponseWriter, r *http.Request) (shared.Identity, int64, bool) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return shared.Identity{}, 0, false
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ErrTaskNotFound)
		return shared.Identity{}, 0, false
	}
	return identity, id, true
}
