package services

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yolmane/fintech-project-manager/backend/tracker-service/logging"
	"github.com/yolmane/fintech-project-manager/backend/tracker-service/models"
)

const seedDateLayout = "2006-01-02"

type SeedMember struct {
	Name       string   `yaml:"name"`
	Role       string   `yaml:"role"`
	Email      string   `yaml:"email"`
	Skills     []string `yaml:"skills"`
	HourlyRate float64  `yaml:"hourlyRate"`
}

type SeedProject struct {
	Name         string   `yaml:"name"`
	Client       string   `yaml:"client"`
	Budget       float64  `yaml:"budget"`
	StartDate    string   `yaml:"startDate"`
	Deadline     string   `yaml:"deadline"`
	Status       string   `yaml:"status"`
	Technologies []string `yaml:"technologies"`
}

type SeedData struct {
	Members  []SeedMember  `yaml:"members"`
	Projects []SeedProject `yaml:"projects"`
}

func ParseSeed(data []byte) (SeedData, error) {
	var seed SeedData
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return SeedData{}, fmt.Errorf("failed to parse seed: %w", err)
	}
	return seed, nil
}

func (s SeedProject) build() (*models.Project, error) {
	start, err := time.Parse(seedDateLayout, s.StartDate)
	if err != nil {
		return nil, fmt.Errorf("seed project %q startDate: %w", s.Name, models.ErrInvalidValue)
	}
	deadline, err := time.Parse(seedDateLayout, s.Deadline)
	if err != nil {
		return nil, fmt.Errorf("seed project %q deadline: %w", s.Name, models.ErrInvalidValue)
	}
	p := models.NewProject("", s.Name, s.Client, s.Budget, start, deadline)
	if s.Status != "" {
		if err := p.UpdateStatus(models.ProjectStatus(s.Status)); err != nil {
			return nil, fmt.Errorf("seed project %q: %w", s.Name, err)
		}
	}
	for _, tech := range s.Technologies {
		_ = p.AddTechnology(tech)
	}
	return p, nil
}

// SeedFromYAML loads demo members and projects when the manager holds no
// projects. It reports whether anything was added.
func (pm *ProjectManager) SeedFromYAML(ctx context.Context, data []byte) (bool, error) {
	seed, err := ParseSeed(data)
	if err != nil {
		return false, err
	}

	projects := make([]*models.Project, 0, len(seed.Projects))
	for _, sp := range seed.Projects {
		p, err := sp.build()
		if err != nil {
			return false, err
		}
		projects = append(projects, p)
	}

	pm.mu.Lock()
	defer pm.mu.Unlock()
	if pm.projects.len() > 0 {
		return false, nil
	}
	for _, sm := range seed.Members {
		m := models.NewTeamMember("", sm.Name, sm.Role, sm.Email, sm.Skills, sm.HourlyRate)
		pm.members.set(m.ID, m)
	}
	for _, p := range projects {
		pm.projects.set(p.ID, p)
	}
	logging.Logger.Infof("Event ID: SEED_LOADED, Description: Seeded %d team members and %d projects", len(seed.Members), len(projects))
	return true, pm.persist(ctx)
}
