package roster

import (
	"context"
	"fmt"
	"time"

	"github.com/araquari-cbm/stationhub/internal/shared"
)

// Directory exposes the active personnel identifiers. Satisfied by the
// personnel service; drafts are reconciled against it on every load.
type Directory interface {
	ActiveIDs(ctx context.Context) ([]int64, error)
}

// Notifier publishes collection-change notifications.
type Notifier interface {
	Changed(ctx context.Context, collection string)
}

// Service ties the pure rotation math to draft storage and published entries.
type Service struct {
	repo     Repository
	store    *ConfigStore
	dir      Directory
	audit    *shared.AuditLogger
	notifier Notifier
	loc      *time.Location
}

// NewService constructs a Service.
func NewService(repo Repository, store *ConfigStore, dir Directory, audit *shared.AuditLogger, notifier Notifier, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repo, store: store, dir: dir, audit: audit, notifier: notifier, loc: loc}
}

// Draft loads the operator's configuration reconciled against the current
// personnel collection. Orphaned member references are silently dropped,
// order of the rest preserved.
func (s *Service) Draft(ctx context.Context, ownerID int64) (Config, error) {
	cfg, err := s.store.LoadDraft(ctx, ownerID)
	if err != nil {
		return DefaultConfig(), err
	}
	return s.reconcile(ctx, cfg)
}

// SaveDraft validates and persists the operator's configuration.
func (s *Service) SaveDraft(ctx context.Context, ownerID int64, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return s.store.SaveDraft(ctx, ownerID, cfg)
}

// Promote copies the operator's reconciled draft to the unit-wide slot used
// by the scheduled publication job.
func (s *Service) Promote(ctx context.Context, actorID int64) (Config, error) {
	cfg, err := s.Draft(ctx, actorID)
	if err != nil {
		return DefaultConfig(), err
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), err
	}
	if err := s.store.SaveUnit(ctx, cfg); err != nil {
		return DefaultConfig(), err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "roster.config.promote",
			Entity:   "roster_config",
			EntityID: "unit",
			Meta:     map[string]any{"start_date": cfg.StartDate.Format(configDateLayout)},
		})
	}
	return cfg, nil
}

// Calendar computes the assignment for every day of the month from the
// operator's draft and returns any already-published entries alongside.
func (s *Service) Calendar(ctx context.Context, ownerID int64, year int, month time.Month) ([]Assignment, []Entry, error) {
	cfg, err := s.Draft(ctx, ownerID)
	if err != nil {
		return nil, nil, err
	}
	assignments := MonthAssignments(year, month, cfg, s.loc)
	first := time.Date(year, month, 1, 0, 0, 0, 0, s.loc)
	last := first.AddDate(0, 1, -1)
	entries, err := s.repo.List(ctx, first, last)
	if err != nil {
		return nil, nil, fmt.Errorf("list published entries: %w", err)
	}
	return assignments, entries, nil
}

// Publish resolves the on-duty team for date from the operator's draft and
// upserts the shared roster entry. A storage failure surfaces to the caller
// and leaves the draft untouched; retry is the user clicking again.
func (s *Service) Publish(ctx context.Context, actorID int64, date time.Time) (*Entry, error) {
	cfg, err := s.Draft(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.publish(ctx, actorID, date, cfg)
}

// PublishFromUnit publishes the entry for date using the unit-wide
// configuration. Used by the scheduled job; reports ok=false when no unit
// configuration has been promoted yet.
func (s *Service) PublishFromUnit(ctx context.Context, date time.Time) (entry *Entry, ok bool, err error) {
	cfg, found, err := s.store.LoadUnit(ctx)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}
	cfg, err = s.reconcile(ctx, cfg)
	if err != nil {
		return nil, false, err
	}
	entry, err = s.publish(ctx, 0, date, cfg)
	if err != nil {
		return nil, false, err
	}
	return entry, true, nil
}

// Entry returns the published entry for a date.
func (s *Service) Entry(ctx context.Context, date time.Time) (*Entry, error) {
	return s.repo.Get(ctx, date)
}

// Entries returns published entries in [from, to].
func (s *Service) Entries(ctx context.Context, from, to time.Time) ([]Entry, error) {
	return s.repo.List(ctx, from, to)
}

func (s *Service) publish(ctx context.Context, actorID int64, date time.Time, cfg Config) (*Entry, error) {
	team := TeamOnDuty(date, cfg)
	entry := Entry{
		Date:        dateOnly(date),
		TeamKey:     team.Key,
		TeamName:    team.Name,
		MemberIDs:   team.MemberIDs,
		PublishedBy: actorID,
	}
	if err := s.repo.Upsert(ctx, entry); err != nil {
		return nil, fmt.Errorf("publish roster: %w", err)
	}
	if s.audit != nil && actorID != 0 {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "roster.publish",
			Entity:   "roster_entry",
			EntityID: entry.Date.Format(configDateLayout),
			Meta:     map[string]any{"team": string(team.Key), "members": len(team.MemberIDs)},
		})
	}
	if s.notifier != nil {
		s.notifier.Changed(ctx, "roster")
	}
	return &entry, nil
}

func (s *Service) reconcile(ctx context.Context, cfg Config) (Config, error) {
	if s.dir == nil {
		return cfg, nil
	}
	active, err := s.dir.ActiveIDs(ctx)
	if err != nil {
		return cfg, fmt.Errorf("load active personnel: %w", err)
	}
	return cfg.Reconcile(active), nil
}
