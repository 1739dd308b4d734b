package models

type RequirementType string

const (
	RequirementFunctional    RequirementType = "functional"
	RequirementNonFunctional RequirementType = "nonFunctional"
	RequirementRegulatory    RequirementType = "regulatory"
)

func (t RequirementType) Valid() bool {
	switch t {
	case RequirementFunctional, RequirementNonFunctional, RequirementRegulatory:
		return true
	}
	return false
}

type Requirement struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
}

// Requirements groups a project's requirements by bucket.
type Requirements struct {
	Functional    []Requirement `json:"functional"`
	NonFunctional []Requirement `json:"nonFunctional"`
	Regulatory    []Requirement `json:"regulatory"`
}

func newRequirements() Requirements {
	return Requirements{
		Functional:    []Requirement{},
		NonFunctional: []Requirement{},
		Regulatory:    []Requirement{},
	}
}

func (r *Requirements) bucket(t RequirementType) *[]Requirement {
	switch t {
	case RequirementFunctional:
		return &r.Functional
	case RequirementNonFunctional:
		return &r.NonFunctional
	case RequirementRegulatory:
		return &r.Regulatory
	}
	return nil
}
