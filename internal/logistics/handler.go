package logistics

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/araquari-cbm/stationhub/internal/access"
	"github.com/araquari-cbm/stationhub/internal/platform/httpx"
)

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
		r.Use(h.mw.RequireViewer(access.ModuleLogistics))
		r.Get("/vehicles", h.listVehicles)
		r.Get("/vehicles/{id}", h.showVehicle)
		r.Get("/vehicles/{id}/checklists", h.listChecklists)
		r.Get("/purchases", h.listPurchases)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.mw.RequireEditor(access.ModuleLogistics))
		r.Post("/vehicles", h.createVehicle)
		r.Patch("/vehicles/{id}", h.updateVehicle)
		r.Post("/vehicles/{id}/checklists", h.submitChecklist)
		r.Post("/purchases", h.createPurchase)
		r.Post("/purchases/{id}/status", h.updatePurchaseStatus)
	})
}

func (h *Handler) listVehicles(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.Vehicles(r.Context())
	if err != nil {
		h.logger.Error("list vehicles", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": records})
}

func (h *Handler) showVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	record, err := h.service.Vehicle(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "vehicle not found")
			return
		}
		h.logger.Error("get vehicle", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, record)
}

func (h *Handler) createVehicle(w http.ResponseWriter, r *http.Request) {
	var req CreateVehicleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	userID, _ := access.CurrentUserID(r)
	record, err := h.service.CreateVehicle(r.Context(), req, userID)
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			httpx.Problem(w, http.StatusConflict, "Conflict", "callsign or plate already registered")
			return
		}
		h.logger.Error("create vehicle", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusCreated, record)
}

func (h *Handler) updateVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	var req UpdateVehicleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	userID, _ := access.CurrentUserID(r)
	record, err := h.service.UpdateVehicle(r.Context(), id, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httpx.Problem(w, http.StatusNotFound, "Not Found", "vehicle not found")
		case errors.Is(err, ErrUnknownStatus):
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		default:
			h.logger.Error("update vehicle", slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		}
		return
	}
	httpx.JSON(w, http.StatusOK, record)
}

func (h *Handler) listChecklists(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	since := time.Now().AddDate(0, -1, 0)
	if v := r.URL.Query().Get("since"); v != "" {
		if parsed, err := time.Parse("2006-01-02", v); err == nil {
			since = parsed
		}
	}
	records, err := h.service.Checklists(r.Context(), id, since)
	if err != nil {
		h.logger.Error("list checklists", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": records})
}

func (h *Handler) submitChecklist(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	var req SubmitChecklistRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	userID, _ := access.CurrentUserID(r)
	record, err := h.service.SubmitChecklist(r.Context(), id, req, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "vehicle not found")
			return
		}
		h.logger.Error("submit checklist", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusCreated, record)
}

func (h *Handler) listPurchases(w http.ResponseWriter, r *http.Request) {
	var status *PurchaseStatus
	if v := r.URL.Query().Get("status"); v != "" {
		st := PurchaseStatus(v)
		if !ValidPurchaseStatus(st) {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown status")
			return
		}
		status = &st
	}
	records, err := h.service.Purchases(r.Context(), status)
	if err != nil {
		h.logger.Error("list purchases", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": records})
}

func (h *Handler) createPurchase(w http.ResponseWriter, r *http.Request) {
	var req CreatePurchaseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	userID, _ := access.CurrentUserID(r)
	record, err := h.service.CreatePurchase(r.Context(), req, userID)
	if err != nil {
		h.logger.Error("create purchase", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusCreated, record)
}

func (h *Handler) updatePurchaseStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	var req UpdatePurchaseStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	userID, _ := access.CurrentUserID(r)
	record, err := h.service.UpdatePurchaseStatus(r.Context(), id, req.Status, userID)
	if err != nil {
		var invalid *ErrInvalidPurchaseTransition
		switch {
		case errors.Is(err, ErrNotFound):
			httpx.Problem(w, http.StatusNotFound, "Not Found", "purchase request not found")
		case errors.Is(err, ErrUnknownStatus):
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		case errors.As(err, &invalid):
			httpx.Problem(w, http.StatusConflict, "Invalid Transition", invalid.Error())
		default:
			h.logger.Error("update purchase status", slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		}
		return
	}
	httpx.JSON(w, http.StatusOK, record)
}
