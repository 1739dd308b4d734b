package services

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/yolmane/fintech-project-manager/backend/tracker-service/logging"
	"github.com/yolmane/fintech-project-manager/backend/tracker-service/models"
	"github.com/yolmane/fintech-project-manager/backend/tracker-service/repositories"
)

var testNow = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	logging.Logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func newTestManager(store repositories.SnapshotStore, opts ...Option) *ProjectManager {
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return NewProjectManager(store, opts...)
}

func mustAddProject(t *testing.T, pm *ProjectManager, id, name, client string, budget float64, status models.ProjectStatus) *models.Project {
	t.Helper()
	p := models.NewProject(id, name, client, budget, testNow.AddDate(0, -1, 0), testNow.AddDate(0, 6, 0))
	p.Status = status
	if _, err := pm.AddProject(context.Background(), p); err != nil {
		t.Fatalf("AddProject(%s): %v", id, err)
	}
	return p
}

func mustAddMember(t *testing.T, pm *ProjectManager, id string, skills []string, quality float64, availability models.Availability) *models.TeamMember {
	t.Helper()
	m := models.NewTeamMember(id, id, "developer", id+"@example.com", skills, 2000)
	m.Performance.QualityScore = models.Amount(quality)
	m.Availability = availability
	if _, err := pm.AddTeamMember(context.Background(), m); err != nil {
		t.Fatalf("AddTeamMember(%s): %v", id, err)
	}
	return m
}

type failingStore struct{}

func (failingStore) Load(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("disk unavailable")
}

func (failingStore) Save(ctx context.Context, key string, data []byte) error {
	return errors.New("disk unavailable")
}

func (failingStore) Close(ctx context.Context) error { return nil }

type recordingMirror struct {
	nodes []repositories.TaskNode
	edges [][2]string
	err   error
}

func (r *recordingMirror) EnsureTaskNode(ctx context.Context, node repositories.TaskNode) error {
	r.nodes = append(r.nodes, node)
	return r.err
}

func (r *recordingMirror) AddDependency(ctx context.Context, taskID, dependsOnID string) error {
	r.edges = append(r.edges, [2]string{taskID, dependsOnID})
	return r.err
}

func TestCommandsPersistSnapshot(t *testing.T) {
	store := repositories.NewMemoryStore()
	pm := newTestManager(store)
	mustAddProject(t, pm, "PROJ-1", "Core banking", "Alfa", 100, models.StatusPlanning)

	if _, err := store.Load(context.Background(), DefaultSnapshotKey); err != nil {
		t.Fatalf("expected snapshot under %s, got %v", DefaultSnapshotKey, err)
	}
}

func TestCustomSnapshotKey(t *testing.T) {
	store := repositories.NewMemoryStore()
	pm := newTestManager(store, WithSnapshotKey("tenant-a"))
	mustAddProject(t, pm, "PROJ-1", "Core banking", "Alfa", 100, models.StatusPlanning)

	if _, err := store.Load(context.Background(), "tenant-a"); err != nil {
		t.Fatalf("expected snapshot under tenant-a, got %v", err)
	}
}

func TestErrorKinds(t *testing.T) {
	ctx := context.Background()
	pm := newTestManager(nil)
	mustAddProject(t, pm, "PROJ-1", "Core banking", "Alfa", 100, models.StatusPlanning)
	mustAddMember(t, pm, "TM-1", nil, 100, models.Available)

	if _, err := pm.Project("missing"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := pm.DeleteProject(ctx, "missing"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	bad := models.ProjectStatus("archived")
	if _, err := pm.UpdateProject(ctx, "PROJ-1", ProjectUpdate{Status: &bad}); !errors.Is(err, models.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
	if err := pm.AssignMemberToProject(ctx, "PROJ-1", "TM-1"); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := pm.AssignMemberToProject(ctx, "PROJ-1", "TM-1"); !errors.Is(err, models.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	dup := models.NewProject("PROJ-1", "Other", "Other", 1, testNow, testNow)
	if _, err := pm.AddProject(ctx, dup); !errors.Is(err, models.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if _, err := pm.AddRequirement(ctx, "PROJ-1", "legal", "x"); !errors.Is(err, models.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
}

func TestInvalidUpdateLeavesProjectUntouched(t *testing.T) {
	pm := newTestManager(nil)
	mustAddProject(t, pm, "PROJ-1", "Core banking", "Alfa", 100, models.StatusPlanning)

	name := "Renamed"
	bad := models.ProjectStatus("archived")
	if _, err := pm.UpdateProject(context.Background(), "PROJ-1", ProjectUpdate{Name: &name, Status: &bad}); err == nil {
		t.Fatal("expected error")
	}
	v, _ := pm.Project("PROJ-1")
	if v.Name != "Core banking" {
		t.Fatalf("expected name unchanged, got %q", v.Name)
	}
}

func TestPersistFailureSurfaces(t *testing.T) {
	pm := newTestManager(failingStore{})
	p := models.NewProject("PROJ-1", "Core banking", "Alfa", 100, testNow, testNow.AddDate(0, 1, 0))
	if _, err := pm.AddProject(context.Background(), p); err == nil {
		t.Fatal("expected persistence error")
	}
	if err := pm.Load(context.Background()); err == nil {
		t.Fatal("expected load error")
	}
}

func TestTaskLifecycleUpdatesBudgetAndPerformance(t *testing.T) {
	ctx := context.Background()
	pm := newTestManager(nil)
	mustAddProject(t, pm, "PROJ-1", "Core banking", "Alfa", 1000, models.StatusDevelopment)
	mustAddMember(t, pm, "TM-1", []string{"Go"}, 100, models.Available)

	task := models.NewTask("TASK-1", "Ledger", "", "development", models.PriorityHigh)
	task.EstimatedCost = 250
	if _, err := pm.AddTask(ctx, "PROJ-1", task); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if err := pm.AssignTask(ctx, "PROJ-1", "TASK-1", "TM-1"); err != nil {
		t.Fatalf("AssignTask: %v", err)
	}
	tv, err := pm.LogTaskTime(ctx, "PROJ-1", "TASK-1", 10)
	if err != nil {
		t.Fatalf("LogTaskTime: %v", err)
	}
	if tv.ActualCost != 20000 {
		t.Fatalf("expected actual cost 20000, got %v", tv.ActualCost)
	}

	tv, err = pm.CompleteTask(ctx, "PROJ-1", "TASK-1", 40, 95)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if tv.Status != models.TaskCompleted || tv.CompletedDate == nil {
		t.Fatalf("expected completed task with date, got %+v", tv)
	}
	if tv.ActualHours != 40 {
		t.Fatalf("expected 40 actual hours, got %v", tv.ActualHours)
	}

	pv, _ := pm.Project("PROJ-1")
	if pv.Progress != 100 || pv.BudgetUtilization.Spent != 250 || float64(pv.BudgetUtilization.Percentage) != 25 {
		t.Fatalf("unexpected project view: progress=%d budget=%+v", pv.Progress, pv.BudgetUtilization)
	}

	mv, _ := pm.TeamMember("TM-1")
	if mv.Performance.CompletedTasks != 1 || mv.Performance.QualityScore != 95 || mv.Workload.AssignedTasks != 0 {
		t.Fatalf("unexpected member performance: %+v workload %+v", mv.Performance, mv.Workload)
	}

	if _, err := pm.CompleteTask(ctx, "PROJ-1", "TASK-1", 1, 1); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second completion, got %v", err)
	}
}

func TestReassignReleasesPreviousMember(t *testing.T) {
	ctx := context.Background()
	pm := newTestManager(nil)
	mustAddProject(t, pm, "PROJ-1", "Core banking", "Alfa", 1000, models.StatusDevelopment)
	mustAddMember(t, pm, "TM-1", nil, 100, models.Available)
	mustAddMember(t, pm, "TM-2", nil, 100, models.Available)
	pm.AddTask(ctx, "PROJ-1", models.NewTask("TASK-1", "Ledger", "", "", ""))

	if err := pm.AssignTask(ctx, "PROJ-1", "TASK-1", "TM-1"); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := pm.AssignTask(ctx, "PROJ-1", "TASK-1", "TM-1"); !errors.Is(err, models.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if err := pm.AssignTask(ctx, "PROJ-1", "TASK-1", "TM-2"); err != nil {
		t.Fatalf("reassign: %v", err)
	}
	first, _ := pm.TeamMember("TM-1")
	second, _ := pm.TeamMember("TM-2")
	if len(first.AssignedTasks) != 0 || len(second.AssignedTasks) != 1 {
		t.Fatalf("expected task to move, got %v and %v", first.AssignedTasks, second.AssignedTasks)
	}
}

func TestDependenciesAndMirror(t *testing.T) {
	ctx := context.Background()
	mirror := &recordingMirror{}
	pm := newTestManager(nil, WithDependencyMirror(mirror))
	mustAddProject(t, pm, "PROJ-1", "Core banking", "Alfa", 1000, models.StatusDevelopment)
	pm.AddTask(ctx, "PROJ-1", models.NewTask("TASK-1", "Schema", "", "", ""))
	pm.AddTask(ctx, "PROJ-1", models.NewTask("TASK-2", "API", "", "", ""))

	if err := pm.AddTaskDependency(ctx, "PROJ-1", "TASK-2", "TASK-1"); err != nil {
		t.Fatalf("AddTaskDependency: %v", err)
	}
	if err := pm.AddTaskDependency(ctx, "PROJ-1", "TASK-2", "TASK-1"); !errors.Is(err, models.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if err := pm.AddTaskDependency(ctx, "PROJ-1", "TASK-2", "TASK-2"); !errors.Is(err, models.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
	if err := pm.AddTaskDependency(ctx, "PROJ-1", "TASK-2", "TASK-9"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(mirror.nodes) != 2 || len(mirror.edges) != 1 || mirror.edges[0] != [2]string{"TASK-2", "TASK-1"} {
		t.Fatalf("unexpected mirror state: nodes=%v edges=%v", mirror.nodes, mirror.edges)
	}
}

func TestAddTaskDependencyRejectsCycles(t *testing.T) {
	ctx := context.Background()
	mirror := &recordingMirror{}
	pm := newTestManager(nil, WithDependencyMirror(mirror))
	mustAddProject(t, pm, "PROJ-1", "Core banking", "Alfa", 1000, models.StatusDevelopment)
	for _, id := range []string{"TASK-1", "TASK-2", "TASK-3"} {
		if _, err := pm.AddTask(ctx, "PROJ-1", models.NewTask(id, id, "", "", "")); err != nil {
			t.Fatalf("AddTask(%s): %v", id, err)
		}
	}
	if err := pm.AddTaskDependency(ctx, "PROJ-1", "TASK-2", "TASK-1"); err != nil {
		t.Fatalf("AddTaskDependency: %v", err)
	}
	if err := pm.AddTaskDependency(ctx, "PROJ-1", "TASK-3", "TASK-2"); err != nil {
		t.Fatalf("AddTaskDependency: %v", err)
	}

	if err := pm.AddTaskDependency(ctx, "PROJ-1", "TASK-1", "TASK-2"); !errors.Is(err, models.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue for direct cycle, got %v", err)
	}
	if err := pm.AddTaskDependency(ctx, "PROJ-1", "TASK-1", "TASK-3"); !errors.Is(err, models.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue for transitive cycle, got %v", err)
	}
	if err := pm.AddTaskDependency(ctx, "PROJ-1", "TASK-3", "TASK-1"); err != nil {
		t.Fatalf("expected shortcut edge to be accepted, got %v", err)
	}

	tv, _ := pm.Task("PROJ-1", "TASK-1")
	if len(tv.Dependencies) != 0 {
		t.Fatalf("expected rejected edges to leave TASK-1 untouched, got %v", tv.Dependencies)
	}
	if len(mirror.edges) != 3 {
		t.Fatalf("expected only accepted edges mirrored, got %v", mirror.edges)
	}
}

func TestMirrorFailureDoesNotFailCommand(t *testing.T) {
	ctx := context.Background()
	pm := newTestManager(nil, WithDependencyMirror(&recordingMirror{err: errors.New("neo4j down")}))
	mustAddProject(t, pm, "PROJ-1", "Core banking", "Alfa", 1000, models.StatusDevelopment)
	pm.AddTask(ctx, "PROJ-1", models.NewTask("TASK-1", "Schema", "", "", ""))

	if _, err := pm.AddTask(ctx, "PROJ-1", models.NewTask("TASK-2", "API", "", "", "")); err != nil {
		t.Fatalf("expected command to succeed, got %v", err)
	}
	if err := pm.AddTaskDependency(ctx, "PROJ-1", "TASK-2", "TASK-1"); err != nil {
		t.Fatalf("expected command to succeed, got %v", err)
	}
}

func TestDeleteCascadesReferences(t *testing.T) {
	ctx := context.Background()
	pm := newTestManager(nil)
	mustAddProject(t, pm, "PROJ-1", "Core banking", "Alfa", 1000, models.StatusDevelopment)
	mustAddProject(t, pm, "PROJ-2", "Payments", "Alfa", 1000, models.StatusDevelopment)
	mustAddMember(t, pm, "TM-1", nil, 100, models.Available)
	pm.AssignMemberToProject(ctx, "PROJ-1", "TM-1")
	pm.AssignMemberToProject(ctx, "PROJ-2", "TM-1")
	pm.AddTask(ctx, "PROJ-1", models.NewTask("TASK-1", "Ledger", "", "", ""))
	pm.AssignTask(ctx, "PROJ-1", "TASK-1", "TM-1")

	if err := pm.DeleteProject(ctx, "PROJ-1"); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	mv, _ := pm.TeamMember("TM-1")
	if len(mv.CurrentProjects) != 1 || len(mv.AssignedTasks) != 0 {
		t.Fatalf("expected references dropped, got %+v", mv)
	}

	if err := pm.DeleteTeamMember(ctx, "TM-1"); err != nil {
		t.Fatalf("DeleteTeamMember: %v", err)
	}
	pv, _ := pm.Project("PROJ-2")
	if pv.TeamSize != 0 {
		t.Fatalf("expected empty team, got %v", pv.Team)
	}
}

func TestTechnologiesAndClients(t *testing.T) {
	ctx := context.Background()
	pm := newTestManager(nil)
	if got := len(pm.Technologies()); got != len(defaultTechnologies) {
		t.Fatalf("expected %d default technologies, got %d", len(defaultTechnologies), got)
	}
	pm.AddTechnology(ctx, "Kafka")
	pm.AddTechnology(ctx, "Kafka")
	techs := pm.Technologies()
	if len(techs) != len(defaultTechnologies)+1 || techs[len(techs)-1] != "Kafka" {
		t.Fatalf("unexpected technologies: %v", techs)
	}

	pm.SetClient(ctx, "alfa", "Alfa-Bank")
	pm.SetClient(ctx, "sber", "Sberbank")
	pm.SetClient(ctx, "alfa", "Alfa-Bank JSC")
	clients := pm.Clients()
	want := [][2]string{{"alfa", "Alfa-Bank JSC"}, {"sber", "Sberbank"}}
	if len(clients) != 2 || clients[0] != want[0] || clients[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, clients)
	}
}

func TestOverflowingCostKeepsPersisting(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	pm := newTestManager(store)
	mustAddProject(t, pm, "PROJ-1", "Core banking", "Alfa", 1000, models.StatusDevelopment)
	m := models.NewTeamMember("TM-1", "Ana", "developer", "ana@example.com", []string{"Go"}, 1e200)
	if _, err := pm.AddTeamMember(ctx, m); err != nil {
		t.Fatalf("AddTeamMember: %v", err)
	}
	if _, err := pm.AddTask(ctx, "PROJ-1", models.NewTask("TASK-1", "Ledger", "", "development", models.PriorityHigh)); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if err := pm.AssignTask(ctx, "PROJ-1", "TASK-1", "TM-1"); err != nil {
		t.Fatalf("AssignTask: %v", err)
	}

	tv, err := pm.LogTaskTime(ctx, "PROJ-1", "TASK-1", 1e200)
	if err != nil {
		t.Fatalf("LogTaskTime: %v", err)
	}
	if tv.ActualCost.Defined() {
		t.Fatalf("expected overflowed cost, got %v", tv.ActualCost)
	}
	if err := pm.SetClient(ctx, "alfa", "Alfa Bank"); err != nil {
		t.Fatalf("SetClient after overflow: %v", err)
	}
	if _, err := pm.Export(FormatJSON); err != nil {
		t.Fatalf("json export after overflow: %v", err)
	}
	if _, err := pm.Export(FormatCSV); err != nil {
		t.Fatalf("csv export after overflow: %v", err)
	}

	restored := newTestManager(store)
	if err := restored.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	rv, err := restored.Task("PROJ-1", "TASK-1")
	if err != nil {
		t.Fatalf("Task: %v", err)
	}
	if rv.ActualCost.Defined() || rv.ActualHours != 1e200 {
		t.Fatalf("unexpected restored task: cost=%v hours=%v", rv.ActualCost, rv.ActualHours)
	}
}
