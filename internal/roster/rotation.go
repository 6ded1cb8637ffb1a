package roster

import "time"

// TeamOnDuty maps a calendar date to the team covering it. Pure: any two
// valid dates and any configuration produce a defined result, including four
// empty teams. Safe to call once per cell while rendering a month grid.
func TeamOnDuty(date time.Time, cfg Config) Team {
	key := TeamKeys[cycleIndex(date, cfg.StartDate)]
	members := cfg.Teams[key]
	if members == nil {
		members = []int64{}
	}
	return Team{
		Key:       key,
		Name:      teamNames[key],
		Color:     teamColors[key],
		MemberIDs: members,
	}
}

// cycleIndex computes (date - start) in whole days, modulo the cycle length,
// wrapped into [0, CycleDays). Dates before the anchor land in the same
// four-class partition.
func cycleIndex(date, start time.Time) int {
	diffDays := int(civilMidnight(date).Sub(civilMidnight(start)) / (24 * time.Hour))
	cycle := diffDays % CycleDays
	if cycle < 0 {
		cycle += CycleDays
	}
	return cycle
}

// civilMidnight discards time-of-day and re-anchors the calendar date in UTC
// so day differences are exact multiples of 24h even across DST transitions
// in the unit timezone.
func civilMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthAssignments computes the on-duty team for every day of the given
// month in loc.
func MonthAssignments(year int, month time.Month, cfg Config, loc *time.Location) []Assignment {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	var out []Assignment
	for day := first; day.Month() == month; day = day.AddDate(0, 0, 1) {
		out = append(out, Assignment{Date: day, Team: TeamOnDuty(day, cfg)})
	}
	return out
}
