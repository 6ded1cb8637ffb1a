package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/araquari-cbm/stationhub/internal/access"
	"github.com/araquari-cbm/stationhub/internal/analysis"
	"github.com/araquari-cbm/stationhub/internal/audit"
	"github.com/araquari-cbm/stationhub/internal/auth"
	"github.com/araquari-cbm/stationhub/internal/compliance"
	"github.com/araquari-cbm/stationhub/internal/events"
	"github.com/araquari-cbm/stationhub/internal/instruction"
	"github.com/araquari-cbm/stationhub/internal/logistics"
	"github.com/araquari-cbm/stationhub/internal/notices"
	"github.com/araquari-cbm/stationhub/internal/observability"
	"github.com/araquari-cbm/stationhub/internal/operations"
	"github.com/araquari-cbm/stationhub/internal/personnel"
	"github.com/araquari-cbm/stationhub/internal/roster"
	"github.com/araquari-cbm/stationhub/internal/shared"
	"github.com/araquari-cbm/stationhub/internal/social"
	"github.com/araquari-cbm/stationhub/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager

	AuthHandler        *auth.Handler
	AccessHandler      *access.Handler
	RosterHandler      *roster.Handler
	PersonnelHandler   *personnel.Handler
	NoticesHandler     *notices.Handler
	OperationsHandler  *operations.Handler
	ComplianceHandler  *compliance.Handler
	InstructionHandler *instruction.Handler
	LogisticsHandler   *logistics.Handler
	SocialHandler      *social.Handler
	AnalysisHandler    *analysis.Handler
	AuditHandler       *audit.Handler
	EventsHandler      *events.SSEHandler
	JobHandler         *jobs.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with StationHub defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)
	r.Route("/access", params.AccessHandler.MountRoutes)
	r.Route("/roster", params.RosterHandler.MountRoutes)
	r.Route("/personnel", params.PersonnelHandler.MountRoutes)
	r.Route("/notices", params.NoticesHandler.MountRoutes)
	r.Route("/operations", params.OperationsHandler.MountRoutes)
	r.Route("/compliance", params.ComplianceHandler.MountRoutes)
	r.Route("/instruction", params.InstructionHandler.MountRoutes)
	r.Route("/logistics", params.LogisticsHandler.MountRoutes)
	r.Route("/social", params.SocialHandler.MountRoutes)
	r.Route("/analysis", params.AnalysisHandler.MountRoutes)
	if params.AuditHandler != nil {
		r.Route("/audit", params.AuditHandler.MountRoutes)
	}
	if params.EventsHandler != nil {
		r.Method(http.MethodGet, "/events", params.EventsHandler)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
