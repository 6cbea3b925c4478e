// Package bulk analyzes the cascade impact of bulk deletes and renders the
// confirmation and result messages shown to the calling agent.
package bulk

import (
	"fmt"
	"strings"
)

// ResourceType is the kind of resource a bulk operation targets.
type ResourceType string

const (
	ResourceWorkspace ResourceType = "workspace"
	ResourceBoard     ResourceType = "board"
	ResourceCard      ResourceType = "card"
)

// Title returns the capitalized type name, e.g. "Workspace".
func (t ResourceType) Title() string {
	s := string(t)
	if s == "" {
		return "Resource"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Count renders n with the singular or plural type name.
func (t ResourceType) Count(n int) string {
	return pluralize(n, string(t), string(t)+"s")
}

// DependentType is the kind of resource affected by deleting a parent.
type DependentType string

const (
	DependentBoard     DependentType = "board"
	DependentCard      DependentType = "card"
	DependentComment   DependentType = "comment"
	DependentSubtask   DependentType = "subtask"
	DependentChildCard DependentType = "child_card"
)

func (t DependentType) label(n int) string {
	switch t {
	case DependentBoard:
		return pluralize(n, "board", "boards")
	case DependentCard:
		return pluralize(n, "card", "cards")
	case DependentComment:
		return pluralize(n, "comment", "comments")
	case DependentSubtask:
		return pluralize(n, "subtask", "subtasks")
	case DependentChildCard:
		return pluralize(n, "child card", "child cards")
	default:
		return fmt.Sprintf("%d %s", n, string(t))
	}
}

// DependentItem is one enumerated affected resource.
type DependentItem struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	AdditionalInfo string `json:"additional_info,omitempty"`
}

// Dependent describes one category of affected resources. Items is only set for
// boards under a workspace and children under a card.
type Dependent struct {
	Type  DependentType   `json:"type"`
	Count int             `json:"count"`
	Items []DependentItem `json:"items,omitempty"`
}

// ResourceDependency is the analysis result for a single resource.
//
// Unverified is set when the resource or one of its dependent lists could not be
// fetched for a reason other than not-found. Such a resource reports no dependents,
// so callers must treat it as unknown rather than safe.
type ResourceDependency struct {
	ID              int          `json:"id"`
	Type            ResourceType `json:"type"`
	Name            string       `json:"name"`
	HasDependencies bool         `json:"has_dependencies"`
	Dependents      []Dependent  `json:"dependents"`
	Unverified      bool         `json:"unverified,omitempty"`
}

func newResourceDependency(t ResourceType, id int, name string) ResourceDependency {
	return ResourceDependency{ID: id, Type: t, Name: name, Dependents: []Dependent{}}
}

func placeholderName(t ResourceType, id int) string {
	return fmt.Sprintf("%s %d", t.Title(), id)
}

func (r *ResourceDependency) addDependent(d Dependent) {
	if d.Count <= 0 {
		return
	}
	r.Dependents = append(r.Dependents, d)
	r.HasDependencies = true
}

// ImpactSummary totals affected quantities across a batch. A board deleted directly and
// also counted under its workspace is counted twice.
type ImpactSummary struct {
	Workspaces int `json:"workspaces"`
	Boards     int `json:"boards"`
	Cards      int `json:"cards"`
	Comments   int `json:"comments"`
	Subtasks   int `json:"subtasks"`
	ChildCards int `json:"child_cards"`
}

func (s *ImpactSummary) addResource(t ResourceType) {
	switch t {
	case ResourceWorkspace:
		s.Workspaces++
	case ResourceBoard:
		s.Boards++
	case ResourceCard:
		s.Cards++
	}
}

func (s *ImpactSummary) addDependent(d Dependent) {
	switch d.Type {
	case DependentBoard:
		s.Boards += d.Count
	case DependentCard:
		s.Cards += d.Count
	case DependentComment:
		s.Comments += d.Count
	case DependentSubtask:
		s.Subtasks += d.Count
	case DependentChildCard:
		s.ChildCards += d.Count
	}
}

// BulkDependencyAnalysis is the aggregate result over one batch.
type BulkDependencyAnalysis struct {
	ResourcesWithDeps    []ResourceDependency `json:"resources_with_deps"`
	ResourcesWithoutDeps []ResourceDependency `json:"resources_without_deps"`
	TotalImpact          ImpactSummary        `json:"total_impact"`
	NameMap              map[int]string       `json:"-"`
}

// Unverified returns the resources whose dependencies could not be checked.
func (a BulkDependencyAnalysis) Unverified() []ResourceDependency {
	var out []ResourceDependency
	for _, group := range [][]ResourceDependency{a.ResourcesWithDeps, a.ResourcesWithoutDeps} {
		for _, r := range group {
			if r.Unverified {
				out = append(out, r)
			}
		}
	}
	return out
}

// Len is the number of analyzed resources.
func (a BulkDependencyAnalysis) Len() int {
	return len(a.ResourcesWithDeps) + len(a.ResourcesWithoutDeps)
}

// ResourceRef names a resource in a result message.
type ResourceRef struct {
	ID   int    `json:"id"`
	Name string `json:"name,omitempty"`
}

// FailedResource is a ResourceRef plus the error that stopped it.
type FailedResource struct {
	ID    int    `json:"id"`
	Name  string `json:"name,omitempty"`
	Error string `json:"error"`
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
