package tags

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/RianNegreiros/ai-powered-task-app/internal/platform/httpx"
	"github.com/RianNegreiros/ai-powered-task-app/internal/shared"
)

// Handler wires HTTP endpoints for tag management. The router mounts it
// behind the bearer middleware, so an identity is always present.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers tag routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/me", h.list)
	r.Delete("/me/{id}", h.delete)
}

type tagRequest struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
}

type tagResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	UserID string `json:"userId"`
}

func toTagResponse(tag Tag) tagResponse {
	return tagResponse{
		ID:     strconv.FormatInt(tag.ID, 10),
		Name:   tag.Name,
		UserID: strconv.FormatInt(tag.UserID, 10),
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}

	var req tagRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, shared.FirstValidationMessage(err))
		return
	}

	tag, err := h.service.CreateTag(r.Context(), identity.UserID, req.Name)
	if err != nil {
		h.logger.Debug("create tag", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toTagResponse(tag))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}

	tags, err := h.service.ListTags(r.Context(), identity.UserID)
	if err != nil {
		h.logger.Error("list tags", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	response := make([]tagResponse, 0, len(tags))
	for _, tag := range tags {
		response = append(response, toTagResponse(tag))
	}
	httpx.JSON(w, http.StatusOK, response)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ErrTagNotFound)
		return
	}

	if err := h.service.DeleteTag(r.Context(), identity.UserID, id); err != nil {
		h.logger.Debug("delete tag", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}
