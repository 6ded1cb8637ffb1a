package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func profileWith(levels map[Module]Level) *Profile {
	p := DefaultProfile(1)
	for m, lvl := range levels {
		p.Levels[m] = lvl
	}
	return p
}

func TestCanViewLevels(t *testing.T) {
	cases := []struct {
		level Level
		want  bool
	}{
		{LevelNone, false},
		{LevelReader, true},
		{LevelEditor, true},
	}
	for _, tc := range cases {
		p := profileWith(map[Module]Level{ModuleNotices: tc.level})
		assert.Equal(t, tc.want, CanView(p, ModuleNotices), "level %s", tc.level)
	}
}

func TestCanEditLevels(t *testing.T) {
	cases := []struct {
		level Level
		want  bool
	}{
		{LevelNone, false},
		{LevelReader, false},
		{LevelEditor, true},
	}
	for _, tc := range cases {
		p := profileWith(map[Module]Level{ModuleLogistics: tc.level})
		assert.Equal(t, tc.want, CanEdit(p, ModuleLogistics), "level %s", tc.level)
	}
}

func TestEditorImpliesViewer(t *testing.T) {
	for _, m := range Modules {
		for _, lvl := range []Level{LevelNone, LevelReader, LevelEditor} {
			p := profileWith(map[Module]Level{m: lvl})
			if CanEdit(p, m) {
				assert.True(t, CanView(p, m), "module %s level %s", m, lvl)
			}
		}
	}
}

func TestNilProfileFailsClosed(t *testing.T) {
	for _, m := range Modules {
		assert.False(t, CanView(nil, m), "view %s", m)
		assert.False(t, CanEdit(nil, m), "edit %s", m)
	}
	assert.False(t, IsManager(nil))
}

func TestUnknownModuleFailsClosed(t *testing.T) {
	p := DefaultProfile(1)
	for _, m := range Modules {
		p.Levels[m] = LevelEditor
	}
	assert.False(t, CanView(p, Module("payroll")))
	assert.False(t, CanEdit(p, Module("payroll")))
}

func TestProfileMissingLevelDefaultsToNone(t *testing.T) {
	p := &Profile{UserID: 7, Levels: map[Module]Level{}}
	assert.Equal(t, LevelNone, p.Level(ModuleSocial))
	assert.False(t, CanView(p, ModuleSocial))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelReader, ParseLevel("reader"))
	assert.Equal(t, LevelEditor, ParseLevel("editor"))
	assert.Equal(t, LevelNone, ParseLevel("none"))
	assert.Equal(t, LevelNone, ParseLevel(""))
	assert.Equal(t, LevelNone, ParseLevel("admin"))
}
