package auth

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/RianNegreiros/ai-powered-task-app/internal/platform/httpx"
	"github.com/RianNegreiros/ai-powered-task-app/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router. The /me route
// sits behind the bearer middleware; register, login and refresh are public.
func (h *Handler) MountRoutes(r chi.Router, mw *Middleware) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Post("/refresh-token", h.refresh)
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAccessToken)
		r.Get("/me", h.me)
	})
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type registerResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenPairResponse struct {
	Token            string `json:"token"`
	ExpiresIn        int64  `json:"expiresIn"`
	RefreshToken     string `json:"refreshToken"`
	RefreshExpiresIn int64  `json:"refreshExpiresIn"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required,min=3"`
}

type profileResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, shared.FirstValidationMessage(err))
		return
	}

	profile, err := h.service.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.logError(r, "register", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, registerResponse{Name: profile.Name, Email: profile.Email})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, shared.FirstValidationMessage(err))
		return
	}

	pair, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logError(r, "login", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toTokenPairResponse(pair))
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, shared.FirstValidationMessage(err))
		return
	}

	pair, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.logError(r, "refresh", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toTokenPairResponse(pair))
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}

	profile, err := h.service.ResolveIdentity(r.Context(), identity.UserID)
	if err != nil {
		h.logError(r, "resolve identity", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, profileResponse{
		ID:    strconv.FormatInt(profile.ID, 10),
		Name:  profile.Name,
		Email: profile.Email,
	})
}

func (h *Handler) logError(r *http.Request, op string, err error) {
	h.logger.Debug("auth request failed",
		slog.String("op", op),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
}

func toTokenPairResponse(pair TokenPair) tokenPairResponse {
	return tokenPairResponse{
		Token:            pair.AccessToken,
		ExpiresIn:        pair.AccessExpiresIn,
		RefreshToken:     pair.RefreshToken,
		RefreshExpiresIn: pair.RefreshExpiresIn,
	}
}
