package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/mycore/models"
	"github.com/mycore/storage"
)

var (
	// ErrHabitNotFound is returned when an operation references a habit id
	// absent from the habits collection.
	ErrHabitNotFound = errors.New("habit not found")
	// ErrInstanceNotFound is returned when a check-in references an
	// occurrence id absent from the instances collection.
	ErrInstanceNotFound = errors.New("habit instance not found")
	// ErrTaskNotFound is returned when an operation references a task id
	// absent from the tasks collection.
	ErrTaskNotFound = errors.New("task not found")
	// ErrProjectNotFound is returned when a task links to a project id
	// absent from the projects collection.
	ErrProjectNotFound = errors.New("project not found")
	// ErrUnknownScheduleRule is returned when a habit carries a schedule
	// tag outside the supported set.
	ErrUnknownScheduleRule = errors.New("unknown schedule rule")
)

// Engine is the recurrence-materialization and momentum-scoring core. It
// owns no state beyond the injected storage handle and clock; streaks,
// strength, day stats and project progress are always recomputed from the
// stored history.
type Engine struct {
	store storage.StorageInterface
	now   func() time.Time
}

// NewEngine constructs an Engine over the given storage handle. The now
// function supplies the current instant; pass nil to use time.Now. Tests
// inject a fixed clock here to pin down "today".
func NewEngine(store storage.StorageInterface, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{store: store, now: now}
}

// today returns the canonical key of the current day.
func (e *Engine) today() string {
	return DateKey(e.now())
}

// --- HABITS ---

// GetHabits returns every habit with its streak and strength freshly
// computed from the full instance history.
func (e *Engine) GetHabits(ctx context.Context) ([]models.Habit, error) {
	var habits []models.Habit
	if err := e.store.ListWhere(ctx, storage.CollectionHabits, bson.M{}, &habits); err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}

	var instances []models.HabitInstance
	if err := e.store.ListWhere(ctx, storage.CollectionInstances, bson.M{}, &instances); err != nil {
		return nil, fmt.Errorf("list instances: %w", err)
	}

	byHabit := make(map[string][]models.HabitInstance)
	for _, inst := range instances {
		byHabit[inst.HabitID] = append(byHabit[inst.HabitID], inst)
	}

	today := e.today()
	for i := range habits {
		history := byHabit[habits[i].ID]
		habits[i].Streak = Streak(history, today)
		habits[i].Strength = Strength(history, today)
	}
	return habits, nil
}

// AddHabit validates and stores a new habit. A missing id is assigned;
// identity is immutable afterwards.
func (e *Engine) AddHabit(ctx context.Context, habit models.Habit) (*models.Habit, error) {
	if strings.TrimSpace(habit.Name) == "" {
		return nil, errors.New("habit name is required")
	}
	if !KnownScheduleRule(habit.Schedule) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheduleRule, habit.Schedule)
	}
	if habit.ID == "" {
		habit.ID = uuid.NewString()
	}
	if err := e.store.Put(ctx, storage.CollectionHabits, habit.ID, habit); err != nil {
		return nil, fmt.Errorf("put habit: %w", err)
	}
	return &habit, nil
}

// CompleteOnboarding stores the habits picked during onboarding and seeds
// occurrence records for the surrounding window (the last seven days plus
// the next three), so the dashboard has history to show immediately.
func (e *Engine) CompleteOnboarding(ctx context.Context, habits []models.Habit) error {
	for _, habit := range habits {
		if _, err := e.AddHabit(ctx, habit); err != nil {
			return err
		}
	}
	_, err := e.GetInstancesForDates(ctx, DateWindow(e.now(), 7, 3))
	return err
}

// --- INSTANCES ---

// GetInstancesForDates returns every occurrence for the given day keys,
// materializing the missing ones first. Materialization is idempotent:
// occurrence ids are derived from (date, habit), existing records are never
// overwritten, and calling this twice creates nothing the second time.
func (e *Engine) GetInstancesForDates(ctx context.Context, dates []string) ([]models.HabitInstance, error) {
	var habits []models.Habit
	if err := e.store.ListWhere(ctx, storage.CollectionHabits, bson.M{}, &habits); err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}

	var existing []models.HabitInstance
	filter := bson.M{"date": bson.M{"$in": dates}}
	if err := e.store.ListWhere(ctx, storage.CollectionInstances, filter, &existing); err != nil {
		return nil, fmt.Errorf("list instances: %w", err)
	}

	created := Materialize(habits, dates, existing)
	for _, inst := range created {
		if err := e.store.Put(ctx, storage.CollectionInstances, inst.ID, inst); err != nil {
			return nil, fmt.Errorf("put instance: %w", err)
		}
	}

	all := append(existing, created...)
	sort.Slice(all, func(i, j int) bool {
		if all[i].Date != all[j].Date {
			return all[i].Date < all[j].Date
		}
		return all[i].HabitID < all[j].HabitID
	})
	return all, nil
}

// SetInstanceCompletion applies a check-in to one occurrence. The completed
// flag is decided by EvaluateCompletion (goal-driven when the habit has a
// goal, the toggle otherwise). CompletedAt is stamped on the transition to
// completed and cleared whenever the occurrence ends up incomplete. On an
// invalid goal value the occurrence is left untouched.
func (e *Engine) SetInstanceCompletion(ctx context.Context, instanceID string, toggle bool, value *float64) error {
	var inst models.HabitInstance
	if err := e.store.Get(ctx, storage.CollectionInstances, instanceID, &inst); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrInstanceNotFound, instanceID)
		}
		return fmt.Errorf("get instance: %w", err)
	}

	var habit models.Habit
	if err := e.store.Get(ctx, storage.CollectionHabits, inst.HabitID, &habit); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrHabitNotFound, inst.HabitID)
		}
		return fmt.Errorf("get habit: %w", err)
	}

	completed, err := EvaluateCompletion(habit, toggle, value)
	if err != nil {
		return err
	}

	wasCompleted := inst.Completed
	inst.Completed = completed
	inst.Value = value
	if completed && !wasCompleted {
		now := e.now()
		inst.CompletedAt = &now
	} else if !completed {
		inst.CompletedAt = nil
	}

	if err := e.store.Put(ctx, storage.CollectionInstances, inst.ID, inst); err != nil {
		return fmt.Errorf("put instance: %w", err)
	}
	return nil
}

// --- DAY STATS ---

// GetDayStats summarizes habit completion per day for the analytics view,
// materializing occurrences for the requested days as needed.
func (e *Engine) GetDayStats(ctx context.Context, dates []string) ([]models.DayStats, error) {
	instances, err := e.GetInstancesForDates(ctx, dates)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int)
	completed := make(map[string]int)
	for _, inst := range instances {
		totals[inst.Date]++
		if inst.Completed {
			completed[inst.Date]++
		}
	}

	stats := make([]models.DayStats, 0, len(dates))
	for _, dateKey := range dates {
		date, err := ParseDateKey(dateKey)
		if err != nil {
			continue
		}
		stats = append(stats, models.DayStats{
			Date:            dateKey,
			DayName:         DayName(date),
			CompletionRate:  CompletionPercent(totals[dateKey], completed[dateKey]),
			TotalHabits:     totals[dateKey],
			CompletedHabits: completed[dateKey],
		})
	}
	return stats, nil
}

// --- TASKS ---

// GetTasks returns every task.
func (e *Engine) GetTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := e.store.ListWhere(ctx, storage.CollectionTasks, bson.M{}, &tasks); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// AddTask stores a new task. When the task links to a project, the
// project's progress is recomputed before this call returns, so no reader
// can observe the new task alongside stale progress.
func (e *Engine) AddTask(ctx context.Context, task models.Task) (*models.Task, error) {
	if strings.TrimSpace(task.Title) == "" {
		return nil, errors.New("task title is required")
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if err := e.store.Put(ctx, storage.CollectionTasks, task.ID, task); err != nil {
		return nil, fmt.Errorf("put task: %w", err)
	}
	if task.ProjectID != "" {
		if err := e.rollupProject(ctx, task.ProjectID); err != nil {
			return nil, err
		}
	}
	return &task, nil
}

// TaskUpdate carries the fields of a task that may change after creation.
// Nil fields are left untouched.
type TaskUpdate struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	DueDate     *string          `json:"dueDate,omitempty"`
	DueTime     *string          `json:"dueTime,omitempty"`
	Priority    *models.Priority `json:"priority,omitempty"`
	Category    *string          `json:"category,omitempty"`
	ProjectID   *string          `json:"projectId,omitempty"`
	Completed   *bool            `json:"completed,omitempty"`
	Reminder    *models.Reminder `json:"reminder,omitempty"`
}

// UpdateTask applies a partial update to a task. Rollup runs for every
// project affected: the task's current project, and both the old and the
// new one when the link itself changes.
func (e *Engine) UpdateTask(ctx context.Context, taskID string, update TaskUpdate) (*models.Task, error) {
	var task models.Task
	if err := e.store.Get(ctx, storage.CollectionTasks, taskID, &task); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
		}
		return nil, fmt.Errorf("get task: %w", err)
	}

	previousProject := task.ProjectID

	if update.Title != nil {
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.DueDate != nil {
		task.DueDate = *update.DueDate
	}
	if update.DueTime != nil {
		task.DueTime = *update.DueTime
	}
	if update.Priority != nil {
		task.Priority = *update.Priority
	}
	if update.Category != nil {
		task.Category = *update.Category
	}
	if update.ProjectID != nil {
		task.ProjectID = *update.ProjectID
	}
	if update.Completed != nil {
		task.Completed = *update.Completed
	}
	if update.Reminder != nil {
		task.Reminder = update.Reminder
	}

	if err := e.store.Put(ctx, storage.CollectionTasks, task.ID, task); err != nil {
		return nil, fmt.Errorf("put task: %w", err)
	}

	for _, projectID := range affectedProjects(previousProject, task.ProjectID) {
		if err := e.rollupProject(ctx, projectID); err != nil {
			return nil, err
		}
	}
	return &task, nil
}

// DeleteTask removes a task and recomputes its project, if any.
func (e *Engine) DeleteTask(ctx context.Context, taskID string) error {
	var task models.Task
	if err := e.store.Get(ctx, storage.CollectionTasks, taskID, &task); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
		}
		return fmt.Errorf("get task: %w", err)
	}

	if err := e.store.Delete(ctx, storage.CollectionTasks, taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	if task.ProjectID != "" {
		return e.rollupProject(ctx, task.ProjectID)
	}
	return nil
}

// affectedProjects lists the distinct non-empty project ids touched by a
// task update.
func affectedProjects(before, after string) []string {
	var ids []string
	if before != "" {
		ids = append(ids, before)
	}
	if after != "" && after != before {
		ids = append(ids, after)
	}
	return ids
}

// --- PROJECTS ---

// GetProjects returns every project.
func (e *Engine) GetProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := e.store.ListWhere(ctx, storage.CollectionProjects, bson.M{}, &projects); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// AddProject stores a new project. Progress always starts derived: a fresh
// project has no linked tasks yet, so it begins active at 0%.
func (e *Engine) AddProject(ctx context.Context, project models.Project) (*models.Project, error) {
	if strings.TrimSpace(project.Name) == "" {
		return nil, errors.New("project name is required")
	}
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	project.Progress = 0
	project.Status = models.ProjectActive
	if err := e.store.Put(ctx, storage.CollectionProjects, project.ID, project); err != nil {
		return nil, fmt.Errorf("put project: %w", err)
	}
	return &project, nil
}

// ArchiveProject marks a project archived. Archival is sticky: later task
// mutations recompute progress but never unarchive.
func (e *Engine) ArchiveProject(ctx context.Context, projectID string) error {
	var project models.Project
	if err := e.store.Get(ctx, storage.CollectionProjects, projectID, &project); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
		}
		return fmt.Errorf("get project: %w", err)
	}
	project.Status = models.ProjectArchived
	if err := e.store.Put(ctx, storage.CollectionProjects, projectID, project); err != nil {
		return fmt.Errorf("put project: %w", err)
	}
	return nil
}

// rollupProject recomputes one project's progress and status from its
// linked tasks and persists the result.
func (e *Engine) rollupProject(ctx context.Context, projectID string) error {
	var project models.Project
	if err := e.store.Get(ctx, storage.CollectionProjects, projectID, &project); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
		}
		return fmt.Errorf("get project: %w", err)
	}

	var tasks []models.Task
	filter := bson.M{"project_id": projectID}
	if err := e.store.ListWhere(ctx, storage.CollectionTasks, filter, &tasks); err != nil {
		return fmt.Errorf("list project tasks: %w", err)
	}

	updated := RecomputeProject(project, tasks)
	if err := e.store.Put(ctx, storage.CollectionProjects, projectID, updated); err != nil {
		return fmt.Errorf("put project: %w", err)
	}
	return nil
}

// --- RESET ---

// ResetAll clears every collection. Destructive and irreversible; used for
// sign-out and demo resets.
func (e *Engine) ResetAll(ctx context.Context) error {
	for _, collection := range storage.Collections {
		if err := e.store.DeleteAll(ctx, collection); err != nil {
			return fmt.Errorf("clear %s: %w", collection, err)
		}
	}
	return nil
}
