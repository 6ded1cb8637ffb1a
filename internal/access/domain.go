// Package access implements the per-module permission model of the unit
// dashboard. Every authenticated user carries exactly one Level per module;
// a manager flag additionally allows profile administration.
package access

import "time"

// Level is a per-module permission value.
type Level string

const (
	// LevelNone forbids both viewing and editing.
	LevelNone Level = "none"
	// LevelReader permits viewing only.
	LevelReader Level = "reader"
	// LevelEditor permits viewing and editing.
	LevelEditor Level = "editor"
)

// ParseLevel normalizes a stored string; anything unknown degrades to none.
func ParseLevel(s string) Level {
	switch Level(s) {
	case LevelReader:
		return LevelReader
	case LevelEditor:
		return LevelEditor
	default:
		return LevelNone
	}
}

// Module identifies one of the seven functional areas of the dashboard.
type Module string

const (
	ModuleNotices     Module = "notices"
	ModuleOperations  Module = "operations"
	ModuleCompliance  Module = "compliance"
	ModulePersonnel   Module = "personnel"
	ModuleInstruction Module = "instruction"
	ModuleLogistics   Module = "logistics"
	ModuleSocial      Module = "social"
)

// Modules lists every permissioned area in display order.
var Modules = []Module{
	ModuleNotices,
	ModuleOperations,
	ModuleCompliance,
	ModulePersonnel,
	ModuleInstruction,
	ModuleLogistics,
	ModuleSocial,
}

// KnownModule reports whether m is one of the seven fixed modules.
func KnownModule(m Module) bool {
	for _, known := range Modules {
		if m == known {
			return true
		}
	}
	return false
}

// ProfileSchemaVersion tags the persisted profile shape.
const ProfileSchemaVersion = 1

// Profile is a user's complete permission record.
type Profile struct {
	UserID    int64            `json:"user_id"`
	Manager   bool             `json:"manager"`
	Levels    map[Module]Level `json:"levels"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Level returns the user's level for m. Nil profiles and unknown modules
// resolve to none.
func (p *Profile) Level(m Module) Level {
	if p == nil || !KnownModule(m) {
		return LevelNone
	}
	lvl, ok := p.Levels[m]
	if !ok {
		return LevelNone
	}
	return lvl
}

// DefaultProfile returns a profile with every module at none.
func DefaultProfile(userID int64) *Profile {
	levels := make(map[Module]Level, len(Modules))
	for _, m := range Modules {
		levels[m] = LevelNone
	}
	return &Profile{UserID: userID, Levels: levels}
}
