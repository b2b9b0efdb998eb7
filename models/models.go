package models

import (
	"time"
)

// ScheduleRule describes on which days a habit produces an occurrence.
type ScheduleRule string

const (
	ScheduleDaily    ScheduleRule = "Daily"
	ScheduleWeekdays ScheduleRule = "Weekdays"
	ScheduleWeekends ScheduleRule = "Weekends"
	ScheduleCustom   ScheduleRule = "Custom"
)

// TriggerKind identifies what prompts a habit check-in.
type TriggerKind string

const (
	TriggerManual     TriggerKind = "MANUAL"
	TriggerLocation   TriggerKind = "LOCATION"
	TriggerAppOpen    TriggerKind = "APP_OPEN"
	TriggerScreenTime TriggerKind = "SCREEN_TIME"
)

// LocationTrigger fires when the user enters a named place (geofence).
type LocationTrigger struct {
	LocationName string `bson:"location_name" json:"locationName"`
}

// AppOpenTrigger fires when a named app is opened.
type AppOpenTrigger struct {
	AppName      string `bson:"app_name" json:"appName"`
	ActionDetail string `bson:"action_detail,omitempty" json:"actionDetail,omitempty"`
}

// ScreenTimeTrigger fires when daily screen time crosses a threshold.
type ScreenTimeTrigger struct {
	ThresholdMinutes int `bson:"threshold_minutes" json:"thresholdMinutes"`
}

// Trigger is a tagged union keyed by Kind. Only the variant matching the
// kind is populated; Manual carries no payload at all.
type Trigger struct {
	Kind       TriggerKind        `bson:"kind" json:"kind"`
	Location   *LocationTrigger   `bson:"location,omitempty" json:"location,omitempty"`
	AppOpen    *AppOpenTrigger    `bson:"app_open,omitempty" json:"appOpen,omitempty"`
	ScreenTime *ScreenTimeTrigger `bson:"screen_time,omitempty" json:"screenTime,omitempty"`
}

// Goal is a numeric completion target for a habit, e.g. {5, "km"}.
type Goal struct {
	Target float64 `bson:"target" json:"target"`
	Unit   string  `bson:"unit" json:"unit"`
}

// Habit is a recurring commitment. Streak and Strength are derived from the
// instance history on every read and are deliberately not persisted.
type Habit struct {
	ID       string       `bson:"_id,omitempty" json:"id"`
	Name     string       `bson:"name" json:"name"`
	Icon     string       `bson:"icon,omitempty" json:"icon,omitempty"`
	Interest string       `bson:"interest,omitempty" json:"interest,omitempty"`
	Schedule ScheduleRule `bson:"schedule" json:"schedule"`
	// CustomDays is only consulted when Schedule is Custom. An empty set
	// means every day.
	CustomDays []time.Weekday `bson:"custom_days,omitempty" json:"customDays,omitempty"`
	Trigger    Trigger        `bson:"trigger" json:"trigger"`
	Goal       *Goal          `bson:"goal,omitempty" json:"goal,omitempty"`
	Streak     int            `bson:"-" json:"streak"`
	Strength   int            `bson:"-" json:"strength"`
}

// HabitInstance is a single dated occurrence of a habit. Its id is derived
// from (date, habit id) so materialization is naturally idempotent.
type HabitInstance struct {
	ID          string     `bson:"_id,omitempty" json:"id"`
	HabitID     string     `bson:"habit_id" json:"habitId"`
	Date        string     `bson:"date" json:"date"` // YYYY-MM-DD
	Completed   bool       `bson:"completed" json:"completed"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completedAt,omitempty"`
	Value       *float64   `bson:"value,omitempty" json:"value,omitempty"`
}

// Priority of a task.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Reminder describes when the user wants to be nudged about a task. The
// engine stores it verbatim; delivery belongs to an external collaborator.
type Reminder struct {
	Type       string `bson:"type" json:"type"`
	CustomDate string `bson:"custom_date,omitempty" json:"customDate,omitempty"`
}

// Task is an ad-hoc to-do, optionally linked to a project.
type Task struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	DueDate     string    `bson:"due_date" json:"dueDate"` // YYYY-MM-DD
	DueTime     string    `bson:"due_time,omitempty" json:"dueTime,omitempty"`
	Priority    Priority  `bson:"priority" json:"priority"`
	Category    string    `bson:"category,omitempty" json:"category,omitempty"`
	ProjectID   string    `bson:"project_id,omitempty" json:"projectId,omitempty"`
	Completed   bool      `bson:"completed" json:"completed"`
	Reminder    *Reminder `bson:"reminder,omitempty" json:"reminder,omitempty"`
}

// Project status values. Archived is an explicit, sticky user action;
// the other two are derived from progress.
const (
	ProjectActive    = "active"
	ProjectCompleted = "completed"
	ProjectArchived  = "archived"
)

// Project groups tasks. Progress and status are recomputed from the linked
// tasks after every task mutation and are never set by the user directly
// (archival excepted).
type Project struct {
	ID          string `bson:"_id,omitempty" json:"id"`
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	StartDate   string `bson:"start_date" json:"startDate"` // YYYY-MM-DD
	EndDate     string `bson:"end_date" json:"endDate"`     // YYYY-MM-DD
	Progress    int    `bson:"progress" json:"progress"`    // 0-100
	Status      string `bson:"status" json:"status"`
}

// DayStats summarizes one day of habit activity for the analytics view.
// Always derived, never persisted.
type DayStats struct {
	Date            string `json:"date"`
	DayName         string `json:"dayName"`
	CompletionRate  int    `json:"completionRate"` // 0-100
	TotalHabits     int    `json:"totalHabits"`
	CompletedHabits int    `json:"completedHabits"`
}
