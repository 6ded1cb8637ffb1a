package roster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const configDateLayout = "2006-01-02"

// storedConfig is the versioned wire shape kept in Redis. Every field has an
// explicit default applied on load so older or partial records decode
// without special cases.
type storedConfig struct {
	SchemaVersion int     `json:"schema_version"`
	StartDate     string  `json:"start_date"`
	TeamA         []int64 `json:"team_a"`
	TeamB         []int64 `json:"team_b"`
	TeamC         []int64 `json:"team_c"`
	TeamD         []int64 `json:"team_d"`
}

// ConfigStore persists rotation configurations in Redis: one draft per
// operator (the device-scoped storage of the dashboard) plus a single
// unit-wide record used for scheduled publication.
type ConfigStore struct {
	client *redis.Client
	loc    *time.Location
}

// NewConfigStore constructs a ConfigStore.
func NewConfigStore(client *redis.Client, loc *time.Location) *ConfigStore {
	if loc == nil {
		loc = time.UTC
	}
	return &ConfigStore{client: client, loc: loc}
}

// SaveDraft persists an operator's draft configuration. Last write wins.
func (s *ConfigStore) SaveDraft(ctx context.Context, ownerID int64, cfg Config) error {
	return s.save(ctx, s.draftKey(ownerID), cfg)
}

// LoadDraft loads an operator's draft. A missing or malformed record is not
// an error: the caller gets the default empty configuration.
func (s *ConfigStore) LoadDraft(ctx context.Context, ownerID int64) (Config, error) {
	return s.load(ctx, s.draftKey(ownerID))
}

// SaveUnit persists the unit-wide configuration used by the autopublish job.
func (s *ConfigStore) SaveUnit(ctx context.Context, cfg Config) error {
	return s.save(ctx, s.unitKey(), cfg)
}

// LoadUnit loads the unit-wide configuration. found is false when no record
// has ever been promoted.
func (s *ConfigStore) LoadUnit(ctx context.Context) (cfg Config, found bool, err error) {
	data, err := s.client.Get(ctx, s.unitKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return DefaultConfig(), false, nil
		}
		return DefaultConfig(), false, fmt.Errorf("roster: load unit config: %w", err)
	}
	return s.decode(data), true, nil
}

func (s *ConfigStore) save(ctx context.Context, key string, cfg Config) error {
	stored := storedConfig{
		SchemaVersion: ConfigSchemaVersion,
		StartDate:     cfg.StartDate.Format(configDateLayout),
		TeamA:         cfg.Teams[TeamAlpha],
		TeamB:         cfg.Teams[TeamBravo],
		TeamC:         cfg.Teams[TeamCharlie],
		TeamD:         cfg.Teams[TeamDelta],
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("roster: encode config: %w", err)
	}
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("roster: save config: %w", err)
	}
	return nil
}

func (s *ConfigStore) load(ctx context.Context, key string) (Config, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return DefaultConfig(), nil
		}
		return DefaultConfig(), fmt.Errorf("roster: load config: %w", err)
	}
	return s.decode(data), nil
}

// decode never fails: a malformed record means "no configuration yet".
func (s *ConfigStore) decode(data []byte) Config {
	var stored storedConfig
	if err := json.Unmarshal(data, &stored); err != nil {
		return DefaultConfig()
	}
	cfg := DefaultConfig()
	if start, err := time.ParseInLocation(configDateLayout, stored.StartDate, s.loc); err == nil {
		cfg.StartDate = start
	}
	if stored.TeamA != nil {
		cfg.Teams[TeamAlpha] = stored.TeamA
	}
	if stored.TeamB != nil {
		cfg.Teams[TeamBravo] = stored.TeamB
	}
	if stored.TeamC != nil {
		cfg.Teams[TeamCharlie] = stored.TeamC
	}
	if stored.TeamD != nil {
		cfg.Teams[TeamDelta] = stored.TeamD
	}
	return cfg
}

func (s *ConfigStore) draftKey(ownerID int64) string {
	return "roster:config:draft:" + strconv.FormatInt(ownerID, 10)
}

func (s *ConfigStore) unitKey() string {
	return "roster:config:unit"
}
