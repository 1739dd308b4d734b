package services

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yolmane/fintech-project-manager/backend/tracker-service/models"
)

type ResourceUtilization struct {
	TeamMembers      int `json:"teamMembers"`
	AvailableMembers int `json:"availableMembers"`
	TotalProjects    int `json:"totalProjects"`
	ActiveProjects   int `json:"activeProjects"`
	// UtilizationRate is undefined when no member is available.
	UtilizationRate models.Ratio `json:"utilizationRate"`
}

type BudgetAnalysis struct {
	TotalBudget           models.Amount `json:"totalBudget"`
	TotalSpent            models.Amount `json:"totalSpent"`
	Remaining             models.Amount `json:"remaining"`
	UtilizationPercentage models.Ratio  `json:"utilizationPercentage"`
}

type DashboardStats struct {
	TotalProjects  int           `json:"totalProjects"`
	ActiveProjects int           `json:"activeProjects"`
	TotalBudget    models.Amount `json:"totalBudget"`
	TeamSize       int           `json:"teamSize"`
}

// ProjectFilter combines its set predicates with AND. Empty strings and nil
// pointers are unset.
type ProjectFilter struct {
	Status    models.ProjectStatus
	Client    string
	MinBudget *float64
	MaxBudget *float64
}

func (f ProjectFilter) matches(p *models.Project) bool {
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.Client != "" && p.Client != f.Client {
		return false
	}
	if f.MinBudget != nil && p.Budget < *f.MinBudget {
		return false
	}
	if f.MaxBudget != nil && p.Budget > *f.MaxBudget {
		return false
	}
	return true
}

func (pm *ProjectManager) Project(id string) (models.ProjectView, error) {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	p, err := pm.project(id)
	if err != nil {
		return models.ProjectView{}, err
	}
	return p.View(pm.now()), nil
}

func (pm *ProjectManager) Task(projectID, taskID string) (models.TaskView, error) {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	_, t, err := pm.task(projectID, taskID)
	if err != nil {
		return models.TaskView{}, err
	}
	return t.View(pm.now()), nil
}

func (pm *ProjectManager) TeamMember(id string) (models.MemberView, error) {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	m, err := pm.member(id)
	if err != nil {
		return models.MemberView{}, err
	}
	return m.View(), nil
}

func (pm *ProjectManager) Projects() []models.ProjectView {
	return pm.selectProjects(func(*models.Project) bool { return true })
}

func (pm *ProjectManager) TeamMembers() []models.MemberView {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	out := make([]models.MemberView, 0, pm.members.len())
	for _, m := range pm.members.values() {
		out = append(out, m.View())
	}
	return out
}

func (pm *ProjectManager) Technologies() []string {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return slices.Clone(pm.technologies.keys)
}

// Clients returns key/value pairs in insertion order.
func (pm *ProjectManager) Clients() [][2]string {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.clientPairs()
}

func (pm *ProjectManager) clientPairs() [][2]string {
	out := make([][2]string, 0, pm.clients.len())
	for _, k := range pm.clients.keys {
		out = append(out, [2]string{k, pm.clients.items[k]})
	}
	return out
}

func (pm *ProjectManager) selectProjects(keep func(*models.Project) bool) []models.ProjectView {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	now := pm.now()
	out := []models.ProjectView{}
	for _, p := range pm.projects.values() {
		if keep(p) {
			out = append(out, p.View(now))
		}
	}
	return out
}

// ProjectsByStatus counts projects per status. Unseen statuses are absent.
func (pm *ProjectManager) ProjectsByStatus() map[models.ProjectStatus]int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.projectsByStatus()
}

func (pm *ProjectManager) projectsByStatus() map[models.ProjectStatus]int {
	counts := make(map[models.ProjectStatus]int)
	for _, p := range pm.projects.values() {
		counts[p.Status]++
	}
	return counts
}

func (pm *ProjectManager) ProjectsAtRisk() []models.ProjectView {
	now := pm.now()
	return pm.selectProjects(func(p *models.Project) bool { return p.IsAtRisk(now) })
}

func (pm *ProjectManager) ResourceUtilization() ResourceUtilization {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.resourceUtilization()
}

func (pm *ProjectManager) resourceUtilization() ResourceUtilization {
	u := ResourceUtilization{
		TeamMembers:   pm.members.len(),
		TotalProjects: pm.projects.len(),
	}
	for _, m := range pm.members.values() {
		if m.Availability == models.Available {
			u.AvailableMembers++
		}
	}
	for _, p := range pm.projects.values() {
		if p.Status != models.StatusCompleted {
			u.ActiveProjects++
		}
	}
	u.UtilizationRate = models.Percent(float64(u.ActiveProjects), float64(u.AvailableMembers))
	return u
}

func (pm *ProjectManager) BudgetAnalysis() BudgetAnalysis {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.budgetAnalysis()
}

func (pm *ProjectManager) budgetAnalysis() BudgetAnalysis {
	var a BudgetAnalysis
	for _, p := range pm.projects.values() {
		a.TotalBudget += models.Amount(p.Budget)
		a.TotalSpent += p.BudgetUtilization().Spent
	}
	a.Remaining = a.TotalBudget - a.TotalSpent
	a.UtilizationPercentage = models.Percent(float64(a.TotalSpent), float64(a.TotalBudget))
	return a
}

func (pm *ProjectManager) DashboardStats() DashboardStats {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	counts := pm.projectsByStatus()
	active := 0
	for _, n := range counts {
		active += n
	}
	active -= counts[models.StatusCompleted]
	return DashboardStats{
		TotalProjects:  pm.projects.len(),
		ActiveProjects: active,
		TotalBudget:    pm.budgetAnalysis().TotalBudget,
		TeamSize:       pm.members.len(),
	}
}

// FindAvailableTeamMember returns the available member holding every skill
// with the highest quality score. Ties go to the member added first.
func (pm *ProjectManager) FindAvailableTeamMember(skills []string) (models.MemberView, error) {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	var candidates []*models.TeamMember
	for _, m := range pm.members.values() {
		if m.Availability != models.Available {
			continue
		}
		if !slices.ContainsFunc(skills, func(s string) bool { return !m.HasSkill(s) }) {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return models.MemberView{}, fmt.Errorf("available member with skills %v: %w", skills, models.ErrNotFound)
	}
	slices.SortStableFunc(candidates, func(a, b *models.TeamMember) int {
		switch {
		case a.Performance.QualityScore > b.Performance.QualityScore:
			return -1
		case a.Performance.QualityScore < b.Performance.QualityScore:
			return 1
		}
		return 0
	})
	return candidates[0].View(), nil
}

// SearchProjects matches term case-insensitively against name or client.
func (pm *ProjectManager) SearchProjects(term string) []models.ProjectView {
	needle := strings.ToLower(term)
	return pm.selectProjects(func(p *models.Project) bool {
		return strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Client), needle)
	})
}

func (pm *ProjectManager) FilterProjects(f ProjectFilter) []models.ProjectView {
	return pm.selectProjects(f.matches)
}
