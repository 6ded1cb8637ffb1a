// Package audit exposes the audit trail to managers. Writes happen through
// shared.AuditLogger in the mutating services; this package only reads.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/araquari-cbm/stationhub/internal/access"
	"github.com/araquari-cbm/stationhub/internal/platform/httpx"
)

// Entry is one audit trail row.
type Entry struct {
	ID         int64          `json:"id"`
	ActorID    int64          `json:"actor_id"`
	Action     string         `json:"action"`
	Entity     string         `json:"entity"`
	EntityID   string         `json:"entity_id"`
	Meta       map[string]any `json:"meta,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

type Handler struct {
	logger *slog.Logger
	pool   *pgxpool.Pool
	mw     access.Middleware
}

func NewHandler(logger *slog.Logger, pool *pgxpool.Pool, mw access.Middleware) *Handler {
	return &Handler{logger: logger, pool: pool, mw: mw}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.mw.RequireManager())
		r.Get("/", h.list)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	limit := 100
	offset := 0
	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 1000 {
			limit = parsed
		}
	}
	if v := q.Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	entries, err := h.fetch(r.Context(), q.Get("entity"), q.Get("action"), limit, offset)
	if err != nil {
		h.logger.Error("list audit entries", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": entries})
}

func (h *Handler) fetch(ctx context.Context, entity, action string, limit, offset int) ([]Entry, error) {
	query := `SELECT id, actor_id, action, entity, entity_id, meta, occurred_at FROM audit_logs`
	var conditions []string
	var args []any
	argPos := 1
	if entity != "" {
		conditions = append(conditions, fmt.Sprintf("entity = $%d", argPos))
		args = append(args, entity)
		argPos++
	}
	if action != "" {
		conditions = append(conditions, fmt.Sprintf("action = $%d", argPos))
		args = append(args, action)
		argPos++
	}
	for i, c := range conditions {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += fmt.Sprintf(" ORDER BY occurred_at DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := h.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var meta []byte
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.Entity, &e.EntityID, &meta, &e.OccurredAt); err != nil {
			return nil, err
		}
		if len(meta) > 0 {
			_ = json.Unmarshal(meta, &e.Meta)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
