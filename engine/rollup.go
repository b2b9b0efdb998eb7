package engine

import (
	"math"

	"github.com/mycore/models"
)

// CompletionPercent is the rounded percentage of completed over total,
// with 0 for an empty set.
func CompletionPercent(total, completed int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// RecomputeProject derives a project's progress and status from its linked
// tasks and returns the updated copy.
//
// Progress is the rounded completed-task percentage (0 with no tasks).
// Status flips to completed exactly at 100% and back to active if progress
// later drops, except for archived projects: archival is an explicit user
// action and stays put regardless of progress.
func RecomputeProject(project models.Project, tasks []models.Task) models.Project {
	total := len(tasks)
	completed := 0
	for _, task := range tasks {
		if task.Completed {
			completed++
		}
	}

	project.Progress = CompletionPercent(total, completed)

	if project.Status != models.ProjectArchived {
		if project.Progress == 100 {
			project.Status = models.ProjectCompleted
		} else {
			project.Status = models.ProjectActive
		}
	}
	return project
}
