package roster

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/araquari-cbm/stationhub/internal/access"
	"github.com/araquari-cbm/stationhub/internal/observability"
	"github.com/araquari-cbm/stationhub/internal/platform/httpx"
)

// Handler exposes the roster HTTP surface. Config and publish actions are
// gated on the personnel module: the roster is maintained by whoever
// maintains the personnel records.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	mw        access.Middleware
	validator *validator.Validate
	loc       *time.Location
	metrics   *observability.Metrics
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, mw access.Middleware, loc *time.Location, metrics *observability.Metrics) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		logger:    logger,
		service:   service,
		mw:        mw,
		validator: validator.New(),
		loc:       loc,
		metrics:   metrics,
	}
}

// MountRoutes registers roster routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.mw.RequireViewer(access.ModulePersonnel))
		r.Get("/config", h.showConfig)
		r.Get("/calendar", h.calendar)
		r.Get("/entries", h.listEntries)
		r.Get("/entries/{date}", h.showEntry)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.mw.RequireEditor(access.ModulePersonnel))
		r.Put("/config", h.saveConfig)
		r.Post("/config/promote", h.promote)
		r.Post("/publish", h.publish)
	})
}

type configRequest struct {
	StartDate string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	TeamA     []int64 `json:"team_a"`
	TeamB     []int64 `json:"team_b"`
	TeamC     []int64 `json:"team_c"`
	TeamD     []int64 `json:"team_d"`
}

type configResponse struct {
	SchemaVersion int     `json:"schema_version"`
	StartDate     string  `json:"start_date"`
	TeamA         []int64 `json:"team_a"`
	TeamB         []int64 `json:"team_b"`
	TeamC         []int64 `json:"team_c"`
	TeamD         []int64 `json:"team_d"`
}

func toConfigResponse(cfg Config) configResponse {
	return configResponse{
		SchemaVersion: cfg.SchemaVersion,
		StartDate:     cfg.StartDate.Format(configDateLayout),
		TeamA:         cfg.Teams[TeamAlpha],
		TeamB:         cfg.Teams[TeamBravo],
		TeamC:         cfg.Teams[TeamCharlie],
		TeamD:         cfg.Teams[TeamDelta],
	}
}

func (h *Handler) showConfig(w http.ResponseWriter, r *http.Request) {
	userID, _ := access.CurrentUserID(r)
	cfg, err := h.service.Draft(r.Context(), userID)
	if err != nil {
		h.logger.Error("load roster draft", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, toConfigResponse(cfg))
}

func (h *Handler) saveConfig(w http.ResponseWriter, r *http.Request) {
	var req configRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	start, err := time.ParseInLocation(configDateLayout, req.StartDate, h.loc)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid start date")
		return
	}

	cfg := DefaultConfig()
	cfg.StartDate = start
	cfg.Teams[TeamAlpha] = req.TeamA
	cfg.Teams[TeamBravo] = req.TeamB
	cfg.Teams[TeamCharlie] = req.TeamC
	cfg.Teams[TeamDelta] = req.TeamD

	userID, _ := access.CurrentUserID(r)
	if err := h.service.SaveDraft(r.Context(), userID, cfg); err != nil {
		if errors.Is(err, ErrDuplicateMember) {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
		h.logger.Error("save roster draft", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, toConfigResponse(cfg))
}

func (h *Handler) promote(w http.ResponseWriter, r *http.Request) {
	userID, _ := access.CurrentUserID(r)
	cfg, err := h.service.Promote(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrDuplicateMember) {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
		h.logger.Error("promote roster config", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, toConfigResponse(cfg))
}

func (h *Handler) calendar(w http.ResponseWriter, r *http.Request) {
	now := time.Now().In(h.loc)
	year := now.Year()
	month := now.Month()
	if y := r.URL.Query().Get("year"); y != "" {
		if parsed, err := strconv.Atoi(y); err == nil && parsed > 0 {
			year = parsed
		}
	}
	if m := r.URL.Query().Get("month"); m != "" {
		if parsed, err := strconv.Atoi(m); err == nil && parsed >= 1 && parsed <= 12 {
			month = time.Month(parsed)
		}
	}

	userID, _ := access.CurrentUserID(r)
	assignments, entries, err := h.service.Calendar(r.Context(), userID, year, month)
	if err != nil {
		h.logger.Error("roster calendar", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"year":        year,
		"month":       int(month),
		"assignments": assignments,
		"published":   entries,
	})
}

type publishRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

func (h *Handler) publish(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	date, err := time.ParseInLocation(configDateLayout, req.Date, h.loc)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid date")
		return
	}

	userID, _ := access.CurrentUserID(r)
	entry, err := h.service.Publish(r.Context(), userID, date)
	if err != nil {
		h.logger.Error("publish roster", slog.Any("error", err), slog.String("date", req.Date))
		httpx.Problem(w, http.StatusBadGateway, "Publish Failed", "roster entry could not be written, try again")
		return
	}
	h.metrics.RosterPublished()
	httpx.JSON(w, http.StatusOK, entry)
}

func (h *Handler) showEntry(w http.ResponseWriter, r *http.Request) {
	date, err := time.ParseInLocation(configDateLayout, chi.URLParam(r, "date"), h.loc)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid date")
		return
	}
	entry, err := h.service.Entry(r.Context(), date)
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "no roster published for date")
			return
		}
		h.logger.Error("get roster entry", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, entry)
}

func (h *Handler) listEntries(w http.ResponseWriter, r *http.Request) {
	now := time.Now().In(h.loc)
	from := now.AddDate(0, -1, 0)
	to := now
	if v := r.URL.Query().Get("from"); v != "" {
		if parsed, err := time.ParseInLocation(configDateLayout, v, h.loc); err == nil {
			from = parsed
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if parsed, err := time.ParseInLocation(configDateLayout, v, h.loc); err == nil {
			to = parsed
		}
	}
	entries, err := h.service.Entries(r.Context(), from, to)
	if err != nil {
		h.logger.Error("list roster entries", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"entries": entries})
}
