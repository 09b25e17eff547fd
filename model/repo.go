package model

import (
	"sort"
	"strings"
	"time"
)

const DefaultThresholdWeeks = 104

// Repository is a repository as reported by upstream.
//
// UpdatedAt is zero when upstream did not report it.
type Repository struct {
	Name      string
	ID        string
	URL       string
	UpdatedAt time.Time
	Empty     bool
}

// Repositories is a list of repositories.
type Repositories []Repository

func (r Repositories) Names() []string {
	names := make([]string, 0, len(r))
	for _, v := range r {
		names = append(names, v.Name)
	}
	return names
}

// StaleOptions controls which repositories SelectStale treats as candidates.
type StaleOptions struct {
	Exclusions     *Exclusions
	ThresholdWeeks int
	IgnoreEmpty    bool
}

// SelectStale returns repositories that have not been updated for more than
// ThresholdWeeks calendar ISO weeks before now, sorted by name without regard to case.
func SelectStale(repos []Repository, opt StaleOptions, now time.Time) Repositories {
	rs := make(Repositories, 0)
	for _, v := range repos {
		if opt.Exclusions.Match(v.Name) {
			continue
		}
		// A repository without an update time can't be classified.
		if v.UpdatedAt.IsZero() {
			continue
		}
		if opt.IgnoreEmpty && v.Empty {
			continue
		}
		if CalendarISOWeeks(now, v.UpdatedAt) <= opt.ThresholdWeeks {
			continue
		}
		rs = append(rs, v)
	}

	sort.SliceStable(rs, func(i, j int) bool {
		return strings.ToUpper(rs[i].Name) < strings.ToUpper(rs[j].Name)
	})
	return rs
}

// CalendarISOWeeks returns the number of ISO week boundaries between later and
// earlier, evaluated in later's location.
func CalendarISOWeeks(later, earlier time.Time) int {
	loc := later.Location()
	days := startOfISOWeek(later.In(loc)).Sub(startOfISOWeek(earlier.In(loc))).Hours() / 24
	return int(days) / 7
}

// startOfISOWeek returns the Monday of t's ISO week as a UTC date, so that
// subtracting two of them is never skewed by daylight saving.
func startOfISOWeek(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
