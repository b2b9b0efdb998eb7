package engine

import (
	"math"
	"sort"

	"github.com/mycore/models"
)

// streakCapDays is where the momentum bonus in Strength saturates. Three
// weeks of consecutive completions count as full momentum.
const streakCapDays = 21

// Streak returns the current consecutive-day completion count for one
// habit's instance history, scanning backward from the most recent day.
//
// An incomplete instance dated today does not break the streak; the day is
// still in progress. Instances dated after today are ignored entirely, so
// pre-materialized future days can never zero out an earned streak. The
// first incomplete past day ends the scan.
func Streak(instances []models.HabitInstance, today string) int {
	sorted := sortedByDateDesc(instances)

	streak := 0
	for _, inst := range sorted {
		if inst.Date > today {
			continue
		}
		if inst.Completed {
			streak++
			continue
		}
		if inst.Date == today {
			continue
		}
		break
	}
	return streak
}

// Strength scores a habit 0-100 by blending the lifetime completion rate
// (weight 0.7) with a momentum bonus derived from the current streak
// (weight 0.3, saturating at 21 days).
//
// The completion-rate denominator covers past instances plus today's
// instance only once it is completed; an in-progress today and any
// pre-materialized future days are excluded from both sides of the rate.
// Returns 0 when there is no countable history.
func Strength(instances []models.HabitInstance, today string) int {
	total := 0
	completed := 0
	for _, inst := range instances {
		if inst.Date > today {
			continue
		}
		if inst.Date == today && !inst.Completed {
			continue
		}
		total++
		if inst.Completed {
			completed++
		}
	}
	if total == 0 {
		return 0
	}

	rate := float64(completed) / float64(total) * 100

	streak := Streak(instances, today)
	if streak > streakCapDays {
		streak = streakCapDays
	}
	momentum := float64(streak) / float64(streakCapDays) * 100

	return int(math.Round(0.7*rate + 0.3*momentum))
}

// sortedByDateDesc returns a copy of the instances ordered most recent
// first, with the habit id as a tiebreaker for determinism.
func sortedByDateDesc(instances []models.HabitInstance) []models.HabitInstance {
	sorted := make([]models.HabitInstance, len(instances))
	copy(sorted, instances)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date > sorted[j].Date
		}
		return sorted[i].HabitID > sorted[j].HabitID
	})
	return sorted
}
