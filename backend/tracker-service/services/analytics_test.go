package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/yolmane/fintech-project-manager/backend/tracker-service/models"
)

func TestFindAvailableTeamMember(t *testing.T) {
	pm := newTestManager(nil)
	mustAddMember(t, pm, "TM-busy", []string{"JavaScript"}, 100, models.Busy)
	mustAddMember(t, pm, "TM-first", []string{"javascript", "SQL"}, 90, models.Available)
	mustAddMember(t, pm, "TM-second", []string{"JavaScript"}, 90, models.Available)
	mustAddMember(t, pm, "TM-python", []string{"Python"}, 99, models.Available)

	got, err := pm.FindAvailableTeamMember([]string{"JavaScript"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "TM-first" {
		t.Fatalf("expected TM-first on tie, got %s", got.ID)
	}

	got, err = pm.FindAvailableTeamMember(nil)
	if err != nil || got.ID != "TM-python" {
		t.Fatalf("expected TM-python with no skills, got %s (%v)", got.ID, err)
	}

	if _, err := pm.FindAvailableTeamMember([]string{"Java"}); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for partial skill match, got %v", err)
	}
	if _, err := pm.FindAvailableTeamMember([]string{"JavaScript", "Rust"}); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFilterProjects(t *testing.T) {
	pm := newTestManager(nil)
	mustAddProject(t, pm, "P1", "Mobile bank", "Alfa", 5000000, models.StatusDevelopment)
	mustAddProject(t, pm, "P2", "AML", "Sber", 8000000, models.StatusDesign)
	mustAddProject(t, pm, "P3", "Wallet", "Tinkoff", 500000, models.StatusDevelopment)
	mustAddProject(t, pm, "P4", "Cards", "Alfa", 1000000, models.StatusDevelopment)

	min := 1000000.0
	got := pm.FilterProjects(ProjectFilter{MinBudget: &min, Status: models.StatusDevelopment})
	if len(got) != 2 || got[0].ID != "P1" || got[1].ID != "P4" {
		t.Fatalf("expected P1 and P4, got %v", ids(got))
	}

	if all := pm.FilterProjects(ProjectFilter{}); len(all) != 4 {
		t.Fatalf("expected all 4 projects for empty filter, got %d", len(all))
	}

	max := 1000000.0
	got = pm.FilterProjects(ProjectFilter{Client: "Alfa", MaxBudget: &max})
	if len(got) != 1 || got[0].ID != "P4" {
		t.Fatalf("expected P4, got %v", ids(got))
	}
}

// A zero bound is still a bound; only nil pointers are unset.
func TestFilterProjectsZeroBudgetBound(t *testing.T) {
	pm := newTestManager(nil)
	mustAddProject(t, pm, "P1", "Mobile bank", "Alfa", 5000000, models.StatusDevelopment)
	mustAddProject(t, pm, "P2", "Internal pilot", "Alfa", 0, models.StatusPlanning)

	zero := 0.0
	got := pm.FilterProjects(ProjectFilter{MaxBudget: &zero})
	if len(got) != 1 || got[0].ID != "P2" {
		t.Fatalf("expected only P2 under a zero max budget, got %v", ids(got))
	}
	if got := pm.FilterProjects(ProjectFilter{MinBudget: &zero}); len(got) != 2 {
		t.Fatalf("expected both projects over a zero min budget, got %v", ids(got))
	}
}

func TestSearchProjects(t *testing.T) {
	pm := newTestManager(nil)
	mustAddProject(t, pm, "P1", "Mobile Banking", "Alfa-Bank", 1, models.StatusPlanning)
	mustAddProject(t, pm, "P2", "AML monitoring", "Sberbank", 1, models.StatusPlanning)

	if got := pm.SearchProjects("BANK"); len(got) != 2 {
		t.Fatalf("expected 2 matches, got %v", ids(got))
	}
	if got := pm.SearchProjects("aml"); len(got) != 1 || got[0].ID != "P2" {
		t.Fatalf("expected P2, got %v", ids(got))
	}
	if got := pm.SearchProjects("crypto"); len(got) != 0 {
		t.Fatalf("expected no matches, got %v", ids(got))
	}
}

func TestProjectsByStatusOmitsUnseen(t *testing.T) {
	pm := newTestManager(nil)
	mustAddProject(t, pm, "P1", "A", "C", 1, models.StatusDesign)
	mustAddProject(t, pm, "P2", "B", "C", 1, models.StatusDesign)
	mustAddProject(t, pm, "P3", "C", "C", 1, models.StatusCompleted)

	counts := pm.ProjectsByStatus()
	if len(counts) != 2 || counts[models.StatusDesign] != 2 || counts[models.StatusCompleted] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
	if _, ok := counts[models.StatusPlanning]; ok {
		t.Fatal("expected planning to be absent")
	}

	stats := pm.DashboardStats()
	if stats.TotalProjects != 3 || stats.ActiveProjects != 2 || stats.TotalBudget != 3 || stats.TeamSize != 0 {
		t.Fatalf("unexpected dashboard stats: %+v", stats)
	}
}

func TestProjectsAtRisk(t *testing.T) {
	pm := newTestManager(nil)
	near := models.NewProject("NEAR", "Near", "C", 1, testNow.AddDate(0, -1, 0), testNow.AddDate(0, 0, 3))
	far := models.NewProject("FAR", "Far", "C", 1, testNow.AddDate(0, -1, 0), testNow.AddDate(1, 0, 0))
	pm.AddProject(context.Background(), near)
	pm.AddProject(context.Background(), far)

	got := pm.ProjectsAtRisk()
	if len(got) != 1 || got[0].ID != "NEAR" || !got[0].AtRisk {
		t.Fatalf("expected only NEAR, got %v", ids(got))
	}
}

func TestResourceUtilizationUnguarded(t *testing.T) {
	pm := newTestManager(nil)
	mustAddProject(t, pm, "P1", "A", "C", 100, models.StatusDevelopment)
	mustAddMember(t, pm, "TM-1", nil, 100, models.Vacation)

	u := pm.ResourceUtilization()
	if u.TeamMembers != 1 || u.AvailableMembers != 0 || u.ActiveProjects != 1 {
		t.Fatalf("unexpected counts: %+v", u)
	}
	if !math.IsInf(float64(u.UtilizationRate), 1) {
		t.Fatalf("expected +Inf utilization, got %v", u.UtilizationRate)
	}

	mustAddMember(t, pm, "TM-2", nil, 100, models.Available)
	mustAddMember(t, pm, "TM-3", nil, 100, models.Available)
	if u := pm.ResourceUtilization(); float64(u.UtilizationRate) != 50 {
		t.Fatalf("expected 50, got %v", u.UtilizationRate)
	}
}

func TestBudgetAnalysis(t *testing.T) {
	pm := newTestManager(nil)
	if a := pm.BudgetAnalysis(); !math.IsNaN(float64(a.UtilizationPercentage)) {
		t.Fatalf("expected NaN for empty manager, got %v", a.UtilizationPercentage)
	}

	ctx := context.Background()
	mustAddProject(t, pm, "P1", "A", "C", 1000, models.StatusDevelopment)
	mustAddProject(t, pm, "P2", "B", "C", 3000, models.StatusDevelopment)
	task := models.NewTask("T1", "done", "", "", "")
	task.EstimatedCost = 400
	task.Status = models.TaskCompleted
	pm.AddTask(ctx, "P1", task)

	a := pm.BudgetAnalysis()
	if a.TotalBudget != 4000 || a.TotalSpent != 400 || a.Remaining != 3600 || float64(a.UtilizationPercentage) != 10 {
		t.Fatalf("unexpected analysis: %+v", a)
	}
}

func ids(views []models.ProjectView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.ID)
	}
	return out
}
