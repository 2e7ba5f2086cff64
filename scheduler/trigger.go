package scheduler

import (
	"fmt"
	"strings"
	"time"

	"stock_updater_project/config"
)

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// Trigger fires at a wall-clock time on a set of weekdays (every day when Weekdays is empty)
type Trigger struct {
	Name     string
	Weekdays []time.Weekday
	Hour     int
	Minute   int
}

// ParseTrigger builds a trigger from "HH:MM" and short weekday names ("mon", "tue", ...)
func ParseTrigger(name, at string, days []string) (Trigger, error) {
	t, err := time.Parse("15:04", at)
	if err != nil {
		return Trigger{}, fmt.Errorf("invalid trigger time %q: %w", at, err)
	}

	trigger := Trigger{Name: name, Hour: t.Hour(), Minute: t.Minute()}
	for _, day := range days {
		wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(day))]
		if !ok {
			return Trigger{}, fmt.Errorf("invalid weekday %q", day)
		}
		trigger.Weekdays = append(trigger.Weekdays, wd)
	}
	return trigger, nil
}

func (t Trigger) occursOn(day time.Weekday) bool {
	if len(t.Weekdays) == 0 {
		return true
	}
	for _, wd := range t.Weekdays {
		if wd == day {
			return true
		}
	}
	return false
}

func (t Trigger) on(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour, t.Minute, 0, 0, day.Location())
}

// DueBetween reports whether the trigger has an occurrence in (after, upTo].
// Times are compared in upTo's location.
func (t Trigger) DueBetween(after, upTo time.Time) bool {
	if !upTo.After(after) {
		return false
	}
	after = after.In(upTo.Location())

	day := time.Date(after.Year(), after.Month(), after.Day(), 0, 0, 0, 0, upTo.Location())
	for !day.After(upTo) {
		if t.occursOn(day.Weekday()) {
			fire := t.on(day)
			if fire.After(after) && !fire.After(upTo) {
				return true
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	return false
}

// Next returns the first occurrence strictly after now
func (t Trigger) Next(now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for i := 0; i < 8; i++ {
		if t.occursOn(day.Weekday()) {
			if fire := t.on(day); fire.After(now) {
				return fire
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	return time.Time{}
}

func (t Trigger) String() string {
	days := "every day"
	if len(t.Weekdays) > 0 {
		names := make([]string, len(t.Weekdays))
		for i, wd := range t.Weekdays {
			names[i] = wd.String()[:3]
		}
		days = strings.Join(names, ",")
	}
	return fmt.Sprintf("%s: %s at %02d:%02d", t.Name, days, t.Hour, t.Minute)
}

// Schedule is the set of triggers that start an update run
type Schedule []Trigger

// ScheduleFromConfig builds the daily trigger plus one backup trigger per configured time
func ScheduleFromConfig(cfg config.ScheduleConfig) (Schedule, error) {
	daily, err := ParseTrigger("daily", cfg.DailyAt, nil)
	if err != nil {
		return nil, err
	}
	schedule := Schedule{daily}

	if len(cfg.BackupDays) == 0 {
		return schedule, nil
	}
	for _, at := range cfg.BackupAt {
		backup, err := ParseTrigger("backup", at, cfg.BackupDays)
		if err != nil {
			return nil, err
		}
		schedule = append(schedule, backup)
	}
	return schedule, nil
}

// Due returns the triggers with an occurrence in (after, upTo]
func (s Schedule) Due(after, upTo time.Time) []Trigger {
	var due []Trigger
	for _, t := range s {
		if t.DueBetween(after, upTo) {
			due = append(due, t)
		}
	}
	return due
}

// Next returns the earliest upcoming fire time and its trigger
func (s Schedule) Next(now time.Time) (time.Time, Trigger) {
	var next time.Time
	var which Trigger
	for _, t := range s {
		fire := t.Next(now)
		if fire.IsZero() {
			continue
		}
		if next.IsZero() || fire.Before(next) {
			next, which = fire, t
		}
	}
	return next, which
}
