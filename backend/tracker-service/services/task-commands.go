package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/yolmane/fintech-project-manager/backend/tracker-service/logging"
	"github.com/yolmane/fintech-project-manager/backend/tracker-service/models"
	"github.com/yolmane/fintech-project-manager/backend/tracker-service/repositories"
)

// DefaultQualityScore is used when a task is completed without a rating.
const DefaultQualityScore = 100

func (pm *ProjectManager) AssignMemberToProject(ctx context.Context, projectID, memberID string) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	p, err := pm.project(projectID)
	if err != nil {
		return err
	}
	m, err := pm.member(memberID)
	if err != nil {
		return err
	}
	if err := p.AddTeamMember(memberID); err != nil {
		return err
	}
	// A restored snapshot may already carry the member-side reference.
	_ = m.AssignToProject(projectID)
	logging.Logger.Infof("Event ID: MEMBER_ASSIGNED_TO_PROJECT, Description: Member %s joined project %s", memberID, projectID)
	return pm.persist(ctx)
}

func (pm *ProjectManager) RemoveMemberFromProject(ctx context.Context, projectID, memberID string) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	p, err := pm.project(projectID)
	if err != nil {
		return err
	}
	if err := p.RemoveTeamMember(memberID); err != nil {
		return err
	}
	if m, ok := pm.members.get(memberID); ok {
		m.LeaveProject(projectID)
	}
	logging.Logger.Infof("Event ID: MEMBER_REMOVED_FROM_PROJECT, Description: Member %s left project %s", memberID, projectID)
	return pm.persist(ctx)
}

func (pm *ProjectManager) AddTask(ctx context.Context, projectID string, task *models.Task) (models.TaskView, error) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	p, err := pm.project(projectID)
	if err != nil {
		return models.TaskView{}, err
	}
	if task.ID == "" {
		return models.TaskView{}, fmt.Errorf("task id: %w", models.ErrInvalidValue)
	}
	if !task.Status.Valid() {
		return models.TaskView{}, fmt.Errorf("task %s status %q: %w", task.ID, task.Status, models.ErrInvalidValue)
	}
	if _, err := p.Task(task.ID); err == nil {
		return models.TaskView{}, fmt.Errorf("task %s in project %s: %w", task.ID, projectID, models.ErrDuplicate)
	}
	p.AddTask(task)
	pm.mirrorTask(ctx, task)
	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %s added to project %s", task.ID, projectID)
	return task.View(pm.now()), pm.persist(ctx)
}

func (pm *ProjectManager) task(projectID, taskID string) (*models.Project, *models.Task, error) {
	p, err := pm.project(projectID)
	if err != nil {
		return nil, nil, err
	}
	t, err := p.Task(taskID)
	if err != nil {
		return nil, nil, err
	}
	return p, t, nil
}

// AssignTask hands the task to a member and moves it to inProgress. A previous
// assignee releases the task.
func (pm *ProjectManager) AssignTask(ctx context.Context, projectID, taskID, memberID string) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	p, t, err := pm.task(projectID, taskID)
	if err != nil {
		return err
	}
	m, err := pm.member(memberID)
	if err != nil {
		return err
	}
	if t.AssignedTo == memberID && slices.Contains(m.AssignedTasks, taskID) {
		return fmt.Errorf("task %s already assigned to %s: %w", taskID, memberID, models.ErrDuplicate)
	}
	if prev, ok := pm.members.get(t.AssignedTo); ok && prev.ID != memberID {
		prev.ReleaseTask(taskID)
	}
	t.AssignTo(memberID)
	_ = m.AssignTask(taskID)
	p.UpdatedAt = t.UpdatedAt
	pm.mirrorTask(ctx, t)
	logging.Logger.Infof("Event ID: TASK_ASSIGNED, Description: Task %s assigned to %s", taskID, memberID)
	return pm.persist(ctx)
}

func (pm *ProjectManager) UpdateTaskStatus(ctx context.Context, projectID, taskID string, status models.TaskStatus) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	p, t, err := pm.task(projectID, taskID)
	if err != nil {
		return err
	}
	if err := t.UpdateStatus(status); err != nil {
		return err
	}
	p.UpdatedAt = t.UpdatedAt
	pm.mirrorTask(ctx, t)
	return pm.persist(ctx)
}

// LogTaskTime overwrites the task's actual hours, costed at the assignee's rate.
func (pm *ProjectManager) LogTaskTime(ctx context.Context, projectID, taskID string, hours float64) (models.TaskView, error) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	p, t, err := pm.task(projectID, taskID)
	if err != nil {
		return models.TaskView{}, err
	}
	if t.AssignedTo == "" {
		return models.TaskView{}, fmt.Errorf("task %s has no assignee: %w", taskID, models.ErrInvalidValue)
	}
	m, err := pm.member(t.AssignedTo)
	if err != nil {
		return models.TaskView{}, err
	}
	t.UpdateTimeTracking(hours, m.HourlyRate)
	p.UpdatedAt = t.UpdatedAt
	return t.View(pm.now()), pm.persist(ctx)
}

// CompleteTask completes the task, books the hours at the assignee's rate and
// folds the sample into the assignee's performance.
func (pm *ProjectManager) CompleteTask(ctx context.Context, projectID, taskID string, actualHours, qualityScore float64) (models.TaskView, error) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	p, t, err := pm.task(projectID, taskID)
	if err != nil {
		return models.TaskView{}, err
	}
	m, err := pm.member(t.AssignedTo)
	if err != nil {
		return models.TaskView{}, err
	}
	if err := m.CompleteTask(taskID, actualHours, qualityScore); err != nil {
		return models.TaskView{}, err
	}
	t.UpdateTimeTracking(actualHours, m.HourlyRate)
	_ = t.UpdateStatus(models.TaskCompleted)
	p.UpdatedAt = t.UpdatedAt
	pm.mirrorTask(ctx, t)
	logging.Logger.Infof("Event ID: TASK_COMPLETED, Description: Task %s completed by %s", taskID, m.ID)
	return t.View(pm.now()), pm.persist(ctx)
}

// AddTaskDependency records that taskID depends on dependsOnID. Both tasks
// must belong to the project and the edge must not close a cycle.
func (pm *ProjectManager) AddTaskDependency(ctx context.Context, projectID, taskID, dependsOnID string) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	p, t, err := pm.task(projectID, taskID)
	if err != nil {
		return err
	}
	if dependsOnID != taskID {
		if _, err := p.Task(dependsOnID); err != nil {
			return err
		}
		if p.CreatesCycle(taskID, dependsOnID) {
			return fmt.Errorf("dependency %s -> %s creates a cycle: %w", taskID, dependsOnID, models.ErrInvalidValue)
		}
	}
	if err := t.AddDependency(dependsOnID); err != nil {
		return err
	}
	p.UpdatedAt = t.UpdatedAt
	if pm.graph != nil {
		if err := pm.graph.AddDependency(ctx, taskID, dependsOnID); err != nil {
			logging.Logger.Warnf("Event ID: DEPENDENCY_MIRROR_FAILED, Description: Dependency %s -> %s not mirrored: %v", taskID, dependsOnID, err)
		}
	}
	return pm.persist(ctx)
}

func (pm *ProjectManager) AddTaskComment(ctx context.Context, projectID, taskID, author, text string) (models.Comment, error) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	p, t, err := pm.task(projectID, taskID)
	if err != nil {
		return models.Comment{}, err
	}
	c := t.AddComment(author, text)
	p.UpdatedAt = t.UpdatedAt
	return c, pm.persist(ctx)
}

func (pm *ProjectManager) AddRequirement(ctx context.Context, projectID string, t models.RequirementType, description string) (models.Requirement, error) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	p, err := pm.project(projectID)
	if err != nil {
		return models.Requirement{}, err
	}
	req, err := p.AddRequirement(t, description)
	if err != nil {
		return models.Requirement{}, err
	}
	return req, pm.persist(ctx)
}

// AddProjectTechnology tags the project and registers the tag globally.
func (pm *ProjectManager) AddProjectTechnology(ctx context.Context, projectID, tag string) error {
	if tag == "" {
		return fmt.Errorf("technology: %w", models.ErrInvalidValue)
	}
	pm.mu.Lock()
	defer pm.mu.Unlock()

	p, err := pm.project(projectID)
	if err != nil {
		return err
	}
	if err := p.AddTechnology(tag); err != nil {
		return err
	}
	pm.technologies.set(tag, struct{}{})
	return pm.persist(ctx)
}

// mirrorTask pushes the task node to the dependency graph. Failures are
// logged and never fail the command.
func (pm *ProjectManager) mirrorTask(ctx context.Context, t *models.Task) {
	if pm.graph == nil {
		return
	}
	node := repositories.TaskNode{ID: t.ID, ProjectID: t.ProjectID, Title: t.Title, Status: string(t.Status)}
	if err := pm.graph.EnsureTaskNode(ctx, node); err != nil {
		logging.Logger.Warnf("Event ID: TASK_MIRROR_FAILED, Description: Task %s not mirrored: %v", t.ID, err)
	}
}
