package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mycore/models"
)

const testToday = "2024-05-15"

// inst builds an occurrence for the "run" habit on the given day.
func inst(date string, completed bool) models.HabitInstance {
	return models.HabitInstance{
		ID:        InstanceID(date, "run"),
		HabitID:   "run",
		Date:      date,
		Completed: completed,
	}
}

func TestStreakEmptyHistory(t *testing.T) {
	assert.Equal(t, 0, Streak(nil, testToday))
}

func TestStreakUnbroken(t *testing.T) {
	history := []models.HabitInstance{
		inst("2024-05-13", true),
		inst("2024-05-14", true),
		inst("2024-05-15", true),
	}
	assert.Equal(t, 3, Streak(history, testToday))
}

func TestStreakTolerantOfInProgressToday(t *testing.T) {
	// Everything before today is done; today just hasn't happened yet.
	history := []models.HabitInstance{
		inst("2024-05-13", true),
		inst("2024-05-14", true),
		inst("2024-05-15", false),
	}
	assert.Equal(t, 2, Streak(history, testToday), "an unfinished today must not zero the streak")
}

func TestStreakBreaksOnGap(t *testing.T) {
	// D-3 done, D-2 skipped, D-1 and today done: the scan walks backward
	// and stops at the first incomplete past day, so only the two most
	// recent completions count.
	history := []models.HabitInstance{
		inst("2024-05-12", true),
		inst("2024-05-13", false),
		inst("2024-05-14", true),
		inst("2024-05-15", true),
	}
	assert.Equal(t, 2, Streak(history, testToday))
}

func TestStreakBrokenYesterday(t *testing.T) {
	history := []models.HabitInstance{
		inst("2024-05-13", true),
		inst("2024-05-14", false),
		inst("2024-05-15", false),
	}
	assert.Equal(t, 0, Streak(history, testToday))
}

func TestStreakIgnoresFutureInstances(t *testing.T) {
	// Pre-materialized future days are always incomplete; they must never
	// zero out an earned streak.
	history := []models.HabitInstance{
		inst("2024-05-14", true),
		inst("2024-05-15", true),
		inst("2024-05-16", false),
		inst("2024-05-17", false),
	}
	assert.Equal(t, 2, Streak(history, testToday))
}

func TestStreakOrderIndependent(t *testing.T) {
	history := []models.HabitInstance{
		inst("2024-05-15", false),
		inst("2024-05-13", true),
		inst("2024-05-14", true),
	}
	forward := Streak(history, testToday)
	reversed := []models.HabitInstance{history[2], history[1], history[0]}
	assert.Equal(t, forward, Streak(reversed, testToday))
}

func TestStrengthEmptyHistory(t *testing.T) {
	assert.Equal(t, 0, Strength(nil, testToday))
}

func TestStrengthOnlyInProgressToday(t *testing.T) {
	// A single not-yet-done instance for today is no history at all.
	history := []models.HabitInstance{inst("2024-05-15", false)}
	assert.Equal(t, 0, Strength(history, testToday))
}

func TestStrengthEndToEndValue(t *testing.T) {
	// Two prior days done, today untouched: rate 100% of 2 countable days,
	// momentum 2/21. 0.7*100 + 0.3*(2/21*100) = 72.857 -> 73.
	history := []models.HabitInstance{
		inst("2024-05-13", true),
		inst("2024-05-14", true),
		inst("2024-05-15", false),
	}
	assert.Equal(t, 73, Strength(history, testToday))
}

func TestStrengthSaturatesAtFullMomentum(t *testing.T) {
	// 30 consecutive completions ending today: 100% rate and a momentum
	// bonus capped at 21 days.
	var history []models.HabitInstance
	for i := 0; i < 30; i++ {
		history = append(history, inst(DateKey(testWednesday.AddDate(0, 0, -i)), true))
	}
	assert.Equal(t, 100, Strength(history, testToday))
}

func TestStrengthBounds(t *testing.T) {
	histories := [][]models.HabitInstance{
		{inst("2024-05-14", false)},
		{inst("2024-05-14", false), inst("2024-05-15", true)},
		{inst("2024-05-10", true), inst("2024-05-11", false), inst("2024-05-12", true)},
	}
	for _, history := range histories {
		got := Strength(history, testToday)
		assert.GreaterOrEqual(t, got, 0)
		assert.LessOrEqual(t, got, 100)
	}
}

func TestStrengthDeterministic(t *testing.T) {
	history := []models.HabitInstance{
		inst("2024-05-12", true),
		inst("2024-05-13", false),
		inst("2024-05-14", true),
		inst("2024-05-15", false),
	}
	first := Strength(history, testToday)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Strength(history, testToday))
	}
}
