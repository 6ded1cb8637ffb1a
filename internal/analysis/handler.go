package analysis

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/araquari-cbm/stationhub/internal/access"
	"github.com/araquari-cbm/stationhub/internal/platform/httpx"
)

// Handler exposes document analysis over HTTP. The feature lives under the
// fire-safety compliance module's permissions.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	mw        access.Middleware
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service, mw access.Middleware) *Handler {
	return &Handler{logger: logger, service: service, mw: mw, validator: validator.New()}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.mw.RequireViewer(access.ModuleCompliance))
		r.Get("/", h.list)
		r.Get("/{id}", h.show)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.mw.RequireEditor(access.ModuleCompliance))
		r.Post("/", h.submit)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	req := ListAnalysesRequest{Limit: 50}
	q := r.URL.Query()
	if v := q.Get("status"); v != "" {
		st := Status(v)
		switch st {
		case StatusQueued, StatusRunning, StatusDone, StatusFailed:
			req.Status = &st
		default:
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown status")
			return
		}
	}
	if v := q.Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			req.Limit = parsed
		}
	}
	if v := q.Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			req.Offset = parsed
		}
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	records, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list analyses", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": records, "total": total})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	record, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "analysis not found")
			return
		}
		h.logger.Error("get analysis", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, record)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitAnalysisRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	userID, _ := access.CurrentUserID(r)
	record, err := h.service.Submit(r.Context(), req, userID)
	if err != nil {
		h.logger.Error("submit analysis", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Submit Failed", "analysis could not be queued, try again")
		return
	}
	httpx.JSON(w, http.StatusAccepted, record)
}
