package engine

import (
	"github.com/mycore/models"
)

// Interest categories offered during onboarding. Free-text interests are
// also accepted; these are just the built-in ones with suggestions behind
// them.
const (
	InterestHealth       = "Health"
	InterestProductivity = "Productivity"
	InterestFinance      = "Finance"
	InterestLearning     = "Learning"
	InterestDetox        = "Detox"
)

// suggestedHabits is the onboarding catalog, one flagship habit per
// built-in interest.
var suggestedHabits = []models.Habit{
	{
		ID:       "h1",
		Name:     "Morning Run (Gym)",
		Icon:     "Activity",
		Interest: InterestHealth,
		Schedule: models.ScheduleDaily,
		Trigger: models.Trigger{
			Kind:     models.TriggerLocation,
			Location: &models.LocationTrigger{LocationName: "Gold's Gym"},
		},
	},
	{
		ID:       "h2",
		Name:     "Market Analysis",
		Icon:     "TrendingUp",
		Interest: InterestFinance,
		Schedule: models.ScheduleWeekdays,
		Trigger: models.Trigger{
			Kind:    models.TriggerAppOpen,
			AppOpen: &models.AppOpenTrigger{AppName: "Market Terminal", ActionDetail: "Check S&P 500"},
		},
	},
	{
		ID:       "h3",
		Name:     "Social Media < 30m",
		Icon:     "Smartphone",
		Interest: InterestDetox,
		Schedule: models.ScheduleDaily,
		Trigger: models.Trigger{
			Kind:       models.TriggerScreenTime,
			ScreenTime: &models.ScreenTimeTrigger{ThresholdMinutes: 30},
		},
	},
	{
		ID:       "h4",
		Name:     "Read 1 Chapter",
		Icon:     "BookOpen",
		Interest: InterestLearning,
		Schedule: models.ScheduleDaily,
		Trigger:  models.Trigger{Kind: models.TriggerManual},
	},
	{
		ID:       "h5",
		Name:     "Deep Work Session",
		Icon:     "Zap",
		Interest: InterestProductivity,
		Schedule: models.ScheduleWeekdays,
		Trigger: models.Trigger{
			Kind:    models.TriggerAppOpen,
			AppOpen: &models.AppOpenTrigger{AppName: "Timer Started"},
		},
	},
}

// Suggestions proposes up to five starter habits matching the user's
// interests, padded with defaults from the catalog when the interests alone
// don't fill the list.
func Suggestions(interests []string) []models.Habit {
	wanted := make(map[string]bool, len(interests))
	for _, interest := range interests {
		wanted[interest] = true
	}

	var picks []models.Habit
	picked := make(map[string]bool)
	for _, habit := range suggestedHabits {
		if wanted[habit.Interest] {
			picks = append(picks, habit)
			picked[habit.ID] = true
		}
	}

	for _, habit := range suggestedHabits {
		if len(picks) >= 5 {
			break
		}
		if !picked[habit.ID] {
			picks = append(picks, habit)
			picked[habit.ID] = true
		}
	}

	if len(picks) > 5 {
		picks = picks[:5]
	}
	return picks
}
