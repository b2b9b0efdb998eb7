package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mycore/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestEvaluateCompletionWithGoal(t *testing.T) {
	habit := models.Habit{Goal: &models.Goal{Target: 5, Unit: "km"}}

	completed, err := EvaluateCompletion(habit, false, floatPtr(5))
	assert.NoError(t, err)
	assert.True(t, completed, "value at target counts as done")

	completed, err = EvaluateCompletion(habit, true, floatPtr(4.9))
	assert.NoError(t, err)
	assert.False(t, completed, "value below target is not done, toggle notwithstanding")

	completed, err = EvaluateCompletion(habit, false, floatPtr(12.3))
	assert.NoError(t, err)
	assert.True(t, completed)
}

func TestEvaluateCompletionGoalWithoutValue(t *testing.T) {
	habit := models.Habit{Goal: &models.Goal{Target: 30, Unit: "min"}}

	_, err := EvaluateCompletion(habit, true, nil)
	assert.ErrorIs(t, err, ErrInvalidGoalValue)
}

func TestEvaluateCompletionWithoutGoal(t *testing.T) {
	habit := models.Habit{}

	completed, err := EvaluateCompletion(habit, true, nil)
	assert.NoError(t, err)
	assert.True(t, completed)

	completed, err = EvaluateCompletion(habit, false, nil)
	assert.NoError(t, err)
	assert.False(t, completed)

	// A logged value without a goal is informational only.
	completed, err = EvaluateCompletion(habit, false, floatPtr(100))
	assert.NoError(t, err)
	assert.False(t, completed)
}
