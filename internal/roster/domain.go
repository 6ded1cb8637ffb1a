// Package roster implements the 24x72 rotating duty roster: four teams, a
// fixed four-day cycle, one team on duty per calendar day.
package roster

import (
	"errors"
	"fmt"
	"time"
)

// CycleDays is the rotation cycle length. One day on, three days off.
const CycleDays = 4

// ConfigSchemaVersion tags the persisted configuration shape.
const ConfigSchemaVersion = 1

// TeamKey identifies one of the four rotation slots.
type TeamKey string

const (
	TeamAlpha   TeamKey = "A"
	TeamBravo   TeamKey = "B"
	TeamCharlie TeamKey = "C"
	TeamDelta   TeamKey = "D"
)

// TeamKeys lists the rotation slots in cycle order.
var TeamKeys = [CycleDays]TeamKey{TeamAlpha, TeamBravo, TeamCharlie, TeamDelta}

var teamNames = map[TeamKey]string{
	TeamAlpha:   "Alpha",
	TeamBravo:   "Bravo",
	TeamCharlie: "Charlie",
	TeamDelta:   "Delta",
}

// Calendar color tags are fixed per team so the month grid stays stable.
var teamColors = map[TeamKey]string{
	TeamAlpha:   "red",
	TeamBravo:   "blue",
	TeamCharlie: "amber",
	TeamDelta:   "green",
}

// Team is a rotation slot with its current membership.
type Team struct {
	Key       TeamKey `json:"key"`
	Name      string  `json:"name"`
	Color     string  `json:"color"`
	MemberIDs []int64 `json:"member_ids"`
}

// Config is the rotation configuration: an anchor date plus the four ordered
// member lists. Team Alpha is on duty on the anchor date.
type Config struct {
	SchemaVersion int                 `json:"schema_version"`
	StartDate     time.Time           `json:"start_date"`
	Teams         map[TeamKey][]int64 `json:"teams"`
}

// Entry is a published roster record, one row per calendar date.
type Entry struct {
	Date        time.Time `json:"date"`
	TeamKey     TeamKey   `json:"team_key"`
	TeamName    string    `json:"team_name"`
	MemberIDs   []int64   `json:"member_ids"`
	PublishedBy int64     `json:"published_by"`
	PublishedAt time.Time `json:"published_at"`
}

// Assignment pairs a calendar date with its computed on-duty team.
type Assignment struct {
	Date time.Time `json:"date"`
	Team Team      `json:"team"`
}

// ErrDuplicateMember rejects a firefighter placed in more than one team.
var ErrDuplicateMember = errors.New("roster: member assigned to more than one team")

// DefaultAnchor is the fallback rotation anchor used when no configuration
// has been saved yet.
var DefaultAnchor = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// DefaultConfig returns an empty four-team configuration.
func DefaultConfig() Config {
	return Config{
		SchemaVersion: ConfigSchemaVersion,
		StartDate:     DefaultAnchor,
		Teams: map[TeamKey][]int64{
			TeamAlpha:   {},
			TeamBravo:   {},
			TeamCharlie: {},
			TeamDelta:   {},
		},
	}
}

// Validate rejects a member placed in more than one rotation slot. A single
// post covers a full 24h shift, so split assignment is a data-entry error.
func (c Config) Validate() error {
	seen := make(map[int64]TeamKey)
	for _, key := range TeamKeys {
		for _, id := range c.Teams[key] {
			if prev, ok := seen[id]; ok {
				return fmt.Errorf("%w: member %d in teams %s and %s", ErrDuplicateMember, id, prev, key)
			}
			seen[id] = key
		}
	}
	return nil
}

// Reconcile drops member references that are no longer active personnel,
// preserving the order of the survivors. Runs whenever the personnel
// collection is (re)loaded, not on a timer.
func (c Config) Reconcile(activeIDs []int64) Config {
	active := make(map[int64]struct{}, len(activeIDs))
	for _, id := range activeIDs {
		active[id] = struct{}{}
	}
	out := Config{SchemaVersion: c.SchemaVersion, StartDate: c.StartDate, Teams: make(map[TeamKey][]int64, CycleDays)}
	for _, key := range TeamKeys {
		members := make([]int64, 0, len(c.Teams[key]))
		for _, id := range c.Teams[key] {
			if _, ok := active[id]; ok {
				members = append(members, id)
			}
		}
		out.Teams[key] = members
	}
	return out
}
