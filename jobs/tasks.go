package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/araquari-cbm/stationhub/internal/observability"
	"github.com/araquari-cbm/stationhub/internal/roster"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskAnalysisRun executes a queued document analysis.
	TaskAnalysisRun = "analysis:run"
	// TaskRosterAutopublish publishes today's roster entry from the unit's
	// shared rotation config.
	TaskRosterAutopublish = "roster:autopublish"
)

// AnalysisRunPayload identifies the analysis row to execute.
type AnalysisRunPayload struct {
	AnalysisID int64 `json:"analysis_id"`
}

// NewAnalysisRunTask constructs the asynq task. MaxRetry is zero: a failed
// run is recorded on the analysis row and the operator resubmits.
func NewAnalysisRunTask(payload AnalysisRunPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAnalysisRun, data, asynq.MaxRetry(0)), nil
}

// NewRosterAutopublishTask constructs the daily autopublish task.
func NewRosterAutopublishTask() *asynq.Task {
	return asynq.NewTask(TaskRosterAutopublish, nil, asynq.MaxRetry(1))
}

// AnalysisRunner executes a stored analysis.
type AnalysisRunner interface {
	Run(ctx context.Context, id int64) error
}

// NewAnalysisRunHandler adapts the analysis service to an asynq handler.
func NewAnalysisRunHandler(runner AnalysisRunner, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload AnalysisRunPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if err := runner.Run(ctx, payload.AnalysisID); err != nil {
			logger.Error("analysis run", slog.Int64("analysis_id", payload.AnalysisID), slog.Any("error", err))
			return err
		}
		return nil
	}
}

// RosterPublisher publishes the roster entry for a date from the unit's
// shared config.
type RosterPublisher interface {
	PublishFromUnit(ctx context.Context, date time.Time) (entry *roster.Entry, ok bool, err error)
}

// NewRosterAutopublishHandler publishes today's roster entry. The run is
// skipped when no shared config has been promoted yet.
func NewRosterAutopublishHandler(publisher RosterPublisher, loc *time.Location, metrics *observability.Metrics, logger *slog.Logger) asynq.HandlerFunc {
	if loc == nil {
		loc = time.UTC
	}
	return func(ctx context.Context, t *asynq.Task) error {
		today := time.Now().In(loc)
		_, ok, err := publisher.PublishFromUnit(ctx, today)
		if err != nil {
			logger.Error("roster autopublish", slog.Any("error", err))
			return err
		}
		if !ok {
			logger.Info("roster autopublish skipped, no shared config")
			return nil
		}
		metrics.RosterPublished()
		return nil
	}
}
