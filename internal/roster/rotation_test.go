package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func configAnchoredAt(start time.Time) Config {
	cfg := DefaultConfig()
	cfg.StartDate = start
	cfg.Teams[TeamAlpha] = []int64{1, 2}
	cfg.Teams[TeamBravo] = []int64{3}
	cfg.Teams[TeamCharlie] = []int64{4, 5, 6}
	cfg.Teams[TeamDelta] = []int64{7}
	return cfg
}

func TestTeamOnDutyCycle(t *testing.T) {
	cfg := configAnchoredAt(day(2024, time.January, 1))

	cases := []struct {
		date time.Time
		want TeamKey
	}{
		{day(2024, time.January, 1), TeamAlpha},
		{day(2024, time.January, 2), TeamBravo},
		{day(2024, time.January, 3), TeamCharlie},
		{day(2024, time.January, 4), TeamDelta},
		{day(2024, time.January, 5), TeamAlpha},
	}
	for _, tc := range cases {
		got := TeamOnDuty(tc.date, cfg)
		assert.Equal(t, tc.want, got.Key, "date %s", tc.date.Format("2006-01-02"))
	}
}

func TestTeamOnDutyAnchorIsAlwaysAlpha(t *testing.T) {
	anchors := []time.Time{
		day(2020, time.February, 29),
		day(2024, time.July, 15),
		day(1999, time.December, 31),
	}
	for _, anchor := range anchors {
		cfg := DefaultConfig()
		cfg.StartDate = anchor
		assert.Equal(t, TeamAlpha, TeamOnDuty(anchor, cfg).Key, "anchor %s", anchor)
	}
}

func TestTeamOnDutyPeriodicity(t *testing.T) {
	cfg := configAnchoredAt(day(2024, time.March, 10))
	for k := -20; k <= 20; k++ {
		target := cfg.StartDate.AddDate(0, 0, k)
		wrapped := cfg.StartDate.AddDate(0, 0, ((k%CycleDays)+CycleDays)%CycleDays)
		assert.Equal(t, TeamOnDuty(wrapped, cfg).Key, TeamOnDuty(target, cfg).Key, "k=%d", k)
	}
}

func TestTeamOnDutyBeforeAnchorWrapsForward(t *testing.T) {
	cfg := configAnchoredAt(day(2024, time.January, 5))

	// 4 days before the anchor: -4 mod 4 = 0 -> Alpha.
	assert.Equal(t, TeamAlpha, TeamOnDuty(day(2024, time.January, 1), cfg).Key)
	// 1 day before the anchor: -1 mod 4 = 3 -> Delta.
	assert.Equal(t, TeamDelta, TeamOnDuty(day(2024, time.January, 4), cfg).Key)
}

func TestTeamOnDutyIgnoresTimeOfDay(t *testing.T) {
	cfg := configAnchoredAt(day(2024, time.January, 1))
	late := time.Date(2024, time.January, 2, 23, 59, 59, 0, time.UTC)
	early := time.Date(2024, time.January, 2, 0, 0, 1, 0, time.UTC)
	assert.Equal(t, TeamBravo, TeamOnDuty(late, cfg).Key)
	assert.Equal(t, TeamBravo, TeamOnDuty(early, cfg).Key)
}

func TestTeamOnDutyAcrossDSTBoundary(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	// Brazil observed DST until 2019; pick a transition year. The clock
	// shift must not break whole-day differencing.
	cfg := configAnchoredAt(time.Date(2018, time.October, 1, 0, 0, 0, 0, loc))
	for k := 0; k < 60; k++ {
		target := cfg.StartDate.AddDate(0, 0, k)
		want := TeamKeys[k%CycleDays]
		assert.Equal(t, want, TeamOnDuty(target, cfg).Key, "k=%d (%s)", k, target)
	}
}

func TestTeamOnDutyEmptyTeams(t *testing.T) {
	cfg := DefaultConfig()
	team := TeamOnDuty(day(2024, time.June, 3), cfg)
	assert.Equal(t, TeamCharlie, team.Key)
	assert.Equal(t, "Charlie", team.Name)
	assert.NotEmpty(t, team.Color)
	assert.NotNil(t, team.MemberIDs)
	assert.Empty(t, team.MemberIDs)
}

func TestMonthAssignmentsCoversWholeMonth(t *testing.T) {
	cfg := configAnchoredAt(day(2024, time.January, 1))
	assignments := MonthAssignments(2024, time.February, cfg, time.UTC)
	require.Len(t, assignments, 29)
	assert.Equal(t, day(2024, time.February, 1), assignments[0].Date)
	// 2024-02-01 is 31 days after the anchor: 31 mod 4 = 3 -> Delta.
	assert.Equal(t, TeamDelta, assignments[0].Team.Key)
}
