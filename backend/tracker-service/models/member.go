package models

import (
	"fmt"
	"slices"
	"strings"
)

type Availability string

const (
	Available Availability = "available"
	Busy      Availability = "busy"
	Vacation  Availability = "vacation"
)

func (a Availability) Valid() bool {
	switch a {
	case Available, Busy, Vacation:
		return true
	}
	return false
}

// Performance holds running means over completed tasks.
type Performance struct {
	CompletedTasks        int    `json:"completedTasks"`
	AverageCompletionTime Amount `json:"averageCompletionTime"`
	QualityScore          Amount `json:"qualityScore"`
}

type Workload struct {
	CurrentProjects int          `json:"currentProjects"`
	AssignedTasks   int          `json:"assignedTasks"`
	Availability    Availability `json:"availability"`
}

type TeamMember struct {
	ID              string
	Name            string
	Role            string
	Email           string
	Skills          []string
	HourlyRate      float64
	Availability    Availability
	CurrentProjects []string
	AssignedTasks   []string
	Performance     Performance
}

func NewTeamMember(id, name, role, email string, skills []string, hourlyRate float64) *TeamMember {
	if id == "" {
		id = newID("TM")
	}
	if skills == nil {
		skills = []string{}
	}
	return &TeamMember{
		ID:              id,
		Name:            name,
		Role:            role,
		Email:           email,
		Skills:          skills,
		HourlyRate:      hourlyRate,
		Availability:    Available,
		CurrentProjects: []string{},
		AssignedTasks:   []string{},
		Performance:     Performance{QualityScore: 100},
	}
}

func (m *TeamMember) AssignToProject(projectID string) error {
	if slices.Contains(m.CurrentProjects, projectID) {
		return fmt.Errorf("member %s already on project %s: %w", m.ID, projectID, ErrDuplicate)
	}
	m.CurrentProjects = append(m.CurrentProjects, projectID)
	return nil
}

func (m *TeamMember) AssignTask(taskID string) error {
	if slices.Contains(m.AssignedTasks, taskID) {
		return fmt.Errorf("task %s already assigned to %s: %w", taskID, m.ID, ErrDuplicate)
	}
	m.AssignedTasks = append(m.AssignedTasks, taskID)
	return nil
}

// CompleteTask removes the task from the member's assignments and folds one
// sample into the running means: new = (old*(N-1) + sample) / N.
func (m *TeamMember) CompleteTask(taskID string, actualHours, qualityScore float64) error {
	idx := slices.Index(m.AssignedTasks, taskID)
	if idx == -1 {
		return fmt.Errorf("task %s not assigned to %s: %w", taskID, m.ID, ErrNotFound)
	}
	m.AssignedTasks = slices.Delete(m.AssignedTasks, idx, idx+1)

	p := &m.Performance
	p.CompletedTasks++
	n := float64(p.CompletedTasks)
	p.AverageCompletionTime = Amount((float64(p.AverageCompletionTime)*(n-1) + actualHours) / n)
	p.QualityScore = Amount((float64(p.QualityScore)*(n-1) + qualityScore) / n)
	return nil
}

func (m *TeamMember) Workload() Workload {
	return Workload{
		CurrentProjects: len(m.CurrentProjects),
		AssignedTasks:   len(m.AssignedTasks),
		Availability:    m.Availability,
	}
}

// HasSkill matches case-insensitively, whole skill only.
func (m *TeamMember) HasSkill(skill string) bool {
	for _, s := range m.Skills {
		if strings.EqualFold(s, skill) {
			return true
		}
	}
	return false
}

func (m *TeamMember) SetAvailability(a Availability) error {
	if !a.Valid() {
		return fmt.Errorf("availability %q: %w", a, ErrInvalidValue)
	}
	m.Availability = a
	return nil
}

// LeaveProject drops the project reference, reporting whether it was held.
func (m *TeamMember) LeaveProject(projectID string) bool {
	idx := slices.Index(m.CurrentProjects, projectID)
	if idx == -1 {
		return false
	}
	m.CurrentProjects = slices.Delete(m.CurrentProjects, idx, idx+1)
	return true
}

// ReleaseTask drops a task assignment without counting it as completed.
func (m *TeamMember) ReleaseTask(taskID string) bool {
	idx := slices.Index(m.AssignedTasks, taskID)
	if idx == -1 {
		return false
	}
	m.AssignedTasks = slices.Delete(m.AssignedTasks, idx, idx+1)
	return true
}
