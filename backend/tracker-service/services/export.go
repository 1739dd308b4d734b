package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yolmane/fintech-project-manager/backend/tracker-service/models"
)

const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

type ExportSummary struct {
	TotalProjects int `json:"totalProjects"`
	// ActiveProjects holds per-status counts.
	ActiveProjects      map[models.ProjectStatus]int `json:"activeProjects"`
	BudgetAnalysis      BudgetAnalysis               `json:"budgetAnalysis"`
	ResourceUtilization ResourceUtilization          `json:"resourceUtilization"`
}

type ExportDocument struct {
	Projects    []models.ProjectView `json:"projects"`
	TeamMembers []models.MemberView  `json:"teamMembers"`
	Summary     ExportSummary        `json:"summary"`
}

func (pm *ProjectManager) ExportDocument() ExportDocument {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	s := pm.snapshot()
	return ExportDocument{
		Projects:    s.Projects,
		TeamMembers: s.TeamMembers,
		Summary: ExportSummary{
			TotalProjects:       pm.projects.len(),
			ActiveProjects:      pm.projectsByStatus(),
			BudgetAnalysis:      pm.budgetAnalysis(),
			ResourceUtilization: pm.resourceUtilization(),
		},
	}
}

// Export renders the full-state document as pretty JSON or naive CSV.
func (pm *ProjectManager) Export(format string) ([]byte, error) {
	doc := pm.ExportDocument()
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode export: %w", err)
		}
		return data, nil
	case FormatCSV:
		projects, err := toCSV(doc.Projects)
		if err != nil {
			return nil, err
		}
		members, err := toCSV(doc.TeamMembers)
		if err != nil {
			return nil, err
		}
		return []byte("Projects:\n" + projects + "\n\nTeam Members:\n" + members), nil
	}
	return nil, fmt.Errorf("export format %q: %w", format, models.ErrInvalidValue)
}

type csvField struct {
	key   string
	value json.RawMessage
}

// toCSV writes a header row from the first record's keys and one row per
// record with every value JSON-encoded. Falsy values become "". Nothing
// else is quoted or escaped. Keys missing from later records are written as "".
func toCSV[T any](records []T) (string, error) {
	if len(records) == 0 {
		return "", nil
	}
	rows := make([][]csvField, 0, len(records))
	for _, r := range records {
		fields, err := orderedFields(r)
		if err != nil {
			return "", err
		}
		rows = append(rows, fields)
	}

	headers := make([]string, 0, len(rows[0]))
	for _, f := range rows[0] {
		headers = append(headers, f.key)
	}

	lines := []string{strings.Join(headers, ",")}
	for _, fields := range rows {
		byKey := make(map[string]json.RawMessage, len(fields))
		for _, f := range fields {
			byKey[f.key] = f.value
		}
		cells := make([]string, 0, len(headers))
		for _, h := range headers {
			v, ok := byKey[h]
			if !ok || isFalsy(v) {
				cells = append(cells, `""`)
				continue
			}
			cells = append(cells, string(v))
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return strings.Join(lines, "\n"), nil
}

// orderedFields encodes v and splits the top-level object into its fields
// in encoding order.
func orderedFields(v any) ([]csvField, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}

	dec := json.NewDecoder(&buf)
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, fmt.Errorf("record is not an object: %w", models.ErrInvalidValue)
	}
	var fields []csvField
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to read record key: %w", err)
		}
		key, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to read record field %s: %w", key, err)
		}
		fields = append(fields, csvField{key: key, value: raw})
	}
	return fields, nil
}

func isFalsy(v json.RawMessage) bool {
	switch string(v) {
	case "false", "null", `""`:
		return true
	}
	var f float64
	if err := json.Unmarshal(v, &f); err == nil && f == 0 {
		return true
	}
	return false
}
