package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/mycore/models"
)

func TestMemoryPutGetRoundTrip(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	task := models.Task{
		ID:        "t1",
		Title:     "Write report",
		DueDate:   "2024-05-20",
		Priority:  models.PriorityHigh,
		ProjectID: "p1",
	}
	require.NoError(t, store.Put(ctx, CollectionTasks, task.ID, task))

	var got models.Task
	require.NoError(t, store.Get(ctx, CollectionTasks, "t1", &got))
	assert.Equal(t, task, got)
}

func TestMemoryGetNotFound(t *testing.T) {
	store := NewMemoryStorage()
	var got models.Task
	err := store.Get(context.Background(), CollectionTasks, "missing", &got)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryPutUpserts(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	task := models.Task{ID: "t1", Title: "First", DueDate: "2024-05-20", Priority: models.PriorityLow}
	require.NoError(t, store.Put(ctx, CollectionTasks, task.ID, task))

	task.Title = "Second"
	require.NoError(t, store.Put(ctx, CollectionTasks, task.ID, task))

	var got models.Task
	require.NoError(t, store.Get(ctx, CollectionTasks, "t1", &got))
	assert.Equal(t, "Second", got.Title)
}

func TestMemoryListWhereEquality(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	for _, task := range []models.Task{
		{ID: "t1", Title: "A", DueDate: "2024-05-20", Priority: models.PriorityLow, ProjectID: "p1"},
		{ID: "t2", Title: "B", DueDate: "2024-05-21", Priority: models.PriorityLow, ProjectID: "p2"},
		{ID: "t3", Title: "C", DueDate: "2024-05-22", Priority: models.PriorityLow, ProjectID: "p1"},
	} {
		require.NoError(t, store.Put(ctx, CollectionTasks, task.ID, task))
	}

	var got []models.Task
	require.NoError(t, store.ListWhere(ctx, CollectionTasks, bson.M{"project_id": "p1"}, &got))
	require.Len(t, got, 2)
	// Results are ordered by id for determinism.
	assert.Equal(t, "t1", got[0].ID)
	assert.Equal(t, "t3", got[1].ID)
}

func TestMemoryListWhereIn(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	for _, inst := range []models.HabitInstance{
		{ID: "2024-05-13_h1", HabitID: "h1", Date: "2024-05-13"},
		{ID: "2024-05-14_h1", HabitID: "h1", Date: "2024-05-14"},
		{ID: "2024-05-15_h1", HabitID: "h1", Date: "2024-05-15"},
	} {
		require.NoError(t, store.Put(ctx, CollectionInstances, inst.ID, inst))
	}

	var got []models.HabitInstance
	filter := bson.M{"date": bson.M{"$in": []string{"2024-05-13", "2024-05-15"}}}
	require.NoError(t, store.ListWhere(ctx, CollectionInstances, filter, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "2024-05-13", got[0].Date)
	assert.Equal(t, "2024-05-15", got[1].Date)
}

func TestMemoryListWhereEmptyFilterReturnsAll(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, CollectionHabits, "h1", models.Habit{ID: "h1", Name: "Run", Schedule: models.ScheduleDaily}))
	require.NoError(t, store.Put(ctx, CollectionHabits, "h2", models.Habit{ID: "h2", Name: "Read", Schedule: models.ScheduleDaily}))

	var got []models.Habit
	require.NoError(t, store.ListWhere(ctx, CollectionHabits, bson.M{}, &got))
	assert.Len(t, got, 2)
}

func TestMemoryListWhereRejectsBadArguments(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	var got []models.Task
	assert.Error(t, store.ListWhere(ctx, CollectionTasks, "not a filter", &got))
	assert.Error(t, store.ListWhere(ctx, CollectionTasks, bson.M{}, got), "out must be a pointer to a slice")
}

func TestMemoryDelete(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, CollectionTasks, "t1", models.Task{ID: "t1", Title: "A", DueDate: "2024-05-20"}))
	require.NoError(t, store.Delete(ctx, CollectionTasks, "t1"))

	var got models.Task
	assert.ErrorIs(t, store.Get(ctx, CollectionTasks, "t1", &got), ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, CollectionTasks, "t1"), ErrNotFound)
}

func TestMemoryDeleteAll(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, CollectionTasks, "t1", models.Task{ID: "t1", Title: "A", DueDate: "2024-05-20"}))
	require.NoError(t, store.Put(ctx, CollectionTasks, "t2", models.Task{ID: "t2", Title: "B", DueDate: "2024-05-21"}))
	require.NoError(t, store.DeleteAll(ctx, CollectionTasks))

	var got []models.Task
	require.NoError(t, store.ListWhere(ctx, CollectionTasks, bson.M{}, &got))
	assert.Empty(t, got)
}

func TestMemoryPreservesNestedDocuments(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	habit := models.Habit{
		ID:       "h1",
		Name:     "Social Media < 30m",
		Schedule: models.ScheduleDaily,
		Trigger: models.Trigger{
			Kind:       models.TriggerScreenTime,
			ScreenTime: &models.ScreenTimeTrigger{ThresholdMinutes: 30},
		},
		Goal: &models.Goal{Target: 30, Unit: "min"},
	}
	require.NoError(t, store.Put(ctx, CollectionHabits, habit.ID, habit))

	var got models.Habit
	require.NoError(t, store.Get(ctx, CollectionHabits, "h1", &got))
	require.NotNil(t, got.Trigger.ScreenTime)
	assert.Equal(t, 30, got.Trigger.ScreenTime.ThresholdMinutes)
	require.NotNil(t, got.Goal)
	assert.Equal(t, 30.0, got.Goal.Target)
}
