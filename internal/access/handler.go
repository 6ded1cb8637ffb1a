package access

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/araquari-cbm/stationhub/internal/platform/httpx"
)

// Handler exposes the manager-only profile administration endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	mw        Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, mw Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		mw:        mw,
		validator: validator.New(),
	}
}

// MountRoutes registers access administration routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.mw.RequireManager())
		r.Get("/profiles", h.list)
		r.Get("/profiles/{userID}", h.show)
		r.Put("/profiles/{userID}", h.update)
	})
	r.Get("/me", h.me)
}

type updateProfileRequest struct {
	Manager     bool   `json:"manager"`
	Notices     string `json:"notices" validate:"oneof=none reader editor"`
	Operations  string `json:"operations" validate:"oneof=none reader editor"`
	Compliance  string `json:"compliance" validate:"oneof=none reader editor"`
	Personnel   string `json:"personnel" validate:"oneof=none reader editor"`
	Instruction string `json:"instruction" validate:"oneof=none reader editor"`
	Logistics   string `json:"logistics" validate:"oneof=none reader editor"`
	Social      string `json:"social" validate:"oneof=none reader editor"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list profiles", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"profiles": profiles})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid user id")
		return
	}
	profile, err := h.service.Profile(r.Context(), userID)
	if err != nil {
		h.logger.Error("get profile", slog.Any("error", err), slog.Int64("user_id", userID))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, profile)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid user id")
		return
	}

	var req updateProfileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	actorID, _ := CurrentUserID(r)
	profile := Profile{
		UserID:  userID,
		Manager: req.Manager,
		Levels: map[Module]Level{
			ModuleNotices:     ParseLevel(req.Notices),
			ModuleOperations:  ParseLevel(req.Operations),
			ModuleCompliance:  ParseLevel(req.Compliance),
			ModulePersonnel:   ParseLevel(req.Personnel),
			ModuleInstruction: ParseLevel(req.Instruction),
			ModuleLogistics:   ParseLevel(req.Logistics),
			ModuleSocial:      ParseLevel(req.Social),
		},
	}

	updated, err := h.service.Update(r.Context(), actorID, profile)
	if err != nil {
		h.logger.Error("update profile", slog.Any("error", err), slog.Int64("user_id", userID))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

// me returns the caller's own profile so the dashboard can decide which
// affordances to draw. Convention is "hide the edit affordance, not the
// record", so the client needs the full level map.
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r)
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	profile, err := h.service.Profile(r.Context(), userID)
	if err != nil {
		h.logger.Error("resolve own profile", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, profile)
}
