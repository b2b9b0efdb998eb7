package engine

import (
	"time"

	"github.com/mycore/models"
)

// KnownScheduleRule reports whether the rule is one of the supported
// schedule tags.
func KnownScheduleRule(rule models.ScheduleRule) bool {
	switch rule {
	case models.ScheduleDaily, models.ScheduleWeekdays, models.ScheduleWeekends, models.ScheduleCustom:
		return true
	}
	return false
}

// AppliesOn reports whether the habit is scheduled on the given date.
//
// A Custom habit with an explicit weekday set applies only on those days;
// with an empty set it applies every day. An unrecognized schedule rule
// fails closed: the habit is treated as not scheduled for any date rather
// than silently fabricating commitments.
func AppliesOn(habit models.Habit, date time.Time) bool {
	switch habit.Schedule {
	case models.ScheduleDaily:
		return true
	case models.ScheduleWeekdays:
		return !IsWeekend(date)
	case models.ScheduleWeekends:
		return IsWeekend(date)
	case models.ScheduleCustom:
		if len(habit.CustomDays) == 0 {
			return true
		}
		for _, day := range habit.CustomDays {
			if day == date.Weekday() {
				return true
			}
		}
		return false
	}
	return false
}

// InstanceID derives the deterministic occurrence id for a habit on a date.
// The same (date, habit) pair always yields the same id, which is what makes
// materialization idempotent.
func InstanceID(date, habitID string) string {
	return date + "_" + habitID
}

// Materialize produces the occurrence records missing from existing for
// every (habit, date) pair where the habit is scheduled on the date. It is a
// pure function: existing instances are never mutated, and running it twice
// over the same inputs produces nothing the second time.
//
// Date keys that fail to parse are skipped; a malformed date must not
// fabricate occurrences.
func Materialize(habits []models.Habit, dates []string, existing []models.HabitInstance) []models.HabitInstance {
	seen := make(map[string]struct{}, len(existing))
	for _, inst := range existing {
		seen[InstanceID(inst.Date, inst.HabitID)] = struct{}{}
	}

	var created []models.HabitInstance
	for _, dateKey := range dates {
		date, err := ParseDateKey(dateKey)
		if err != nil {
			continue
		}
		for _, habit := range habits {
			if !AppliesOn(habit, date) {
				continue
			}
			id := InstanceID(dateKey, habit.ID)
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			created = append(created, models.HabitInstance{
				ID:        id,
				HabitID:   habit.ID,
				Date:      dateKey,
				Completed: false,
			})
		}
	}
	return created
}
