package engine

import (
	"errors"

	"github.com/mycore/models"
)

// ErrInvalidGoalValue is returned when a habit has a numeric goal but the
// check-in supplied no value to measure against it. The instance keeps its
// prior completed state.
var ErrInvalidGoalValue = errors.New("goal requires a logged value")

// EvaluateCompletion decides whether a check-in counts as done.
//
// When the habit has a goal, completion is purely value-driven: the logged
// value must be present and reach the target; the boolean toggle is ignored.
// Without a goal, the toggle is the answer.
func EvaluateCompletion(habit models.Habit, toggle bool, value *float64) (bool, error) {
	if habit.Goal != nil {
		if value == nil {
			return false, ErrInvalidGoalValue
		}
		return *value >= habit.Goal.Target, nil
	}
	return toggle, nil
}
