package bulk

import (
	"fmt"
	"strings"
)

const confirmationPrompt = "Proceed with this bulk delete? Deleted resources cannot be restored."

// Confirmation is the rendered prompt for a batch that has dependencies.
type Confirmation struct {
	HasConfirmation      bool                 `json:"has_confirmation"`
	Message              string               `json:"message"`
	ResourcesWithDeps    []ResourceDependency `json:"resources_with_deps"`
	ResourcesWithoutDeps []ResourceDependency `json:"resources_without_deps"`
	TotalImpact          ImpactSummary        `json:"total_impact"`
}

// BuildConfirmation returns nil when no resource in the batch has dependencies; the caller
// then deletes without asking. Otherwise it renders the cascade for every resource.
func BuildConfirmation(analysis BulkDependencyAnalysis) *Confirmation {
	if len(analysis.ResourcesWithDeps) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("⚠️  Bulk delete confirmation required\n\n")

	withDeps := analysis.ResourcesWithDeps
	fmt.Fprintf(&b, "%s:\n\n", haveDependencies(withDeps[0].Type, len(withDeps)))
	for _, resource := range withDeps {
		writeResourceTree(&b, resource)
		b.WriteString("\n")
	}

	if without := verifiedOnly(analysis.ResourcesWithoutDeps); len(without) > 0 {
		fmt.Fprintf(&b, "%s without dependencies will be deleted automatically:\n", without[0].Type.Count(len(without)))
		for _, resource := range without {
			fmt.Fprintf(&b, "  • %s (ID: %d)\n", resource.Name, resource.ID)
		}
		b.WriteString("\n")
	}

	if impact := formatImpact(analysis.TotalImpact); impact != "" {
		fmt.Fprintf(&b, "Total impact: %s\n\n", impact)
	}

	b.WriteString(confirmationPrompt)

	return &Confirmation{
		HasConfirmation:      true,
		Message:              b.String(),
		ResourcesWithDeps:    append([]ResourceDependency(nil), analysis.ResourcesWithDeps...),
		ResourcesWithoutDeps: append([]ResourceDependency(nil), analysis.ResourcesWithoutDeps...),
		TotalImpact:          analysis.TotalImpact,
	}
}

// verifiedOnly drops resources whose dependencies could not be checked; those are
// reported separately and never listed as dependency-free.
func verifiedOnly(resources []ResourceDependency) []ResourceDependency {
	out := make([]ResourceDependency, 0, len(resources))
	for _, r := range resources {
		if !r.Unverified {
			out = append(out, r)
		}
	}
	return out
}

func haveDependencies(t ResourceType, n int) string {
	if n == 1 {
		return fmt.Sprintf("%s has dependencies", t.Count(n))
	}
	return fmt.Sprintf("%s have dependencies", t.Count(n))
}

func writeResourceTree(b *strings.Builder, resource ResourceDependency) {
	fmt.Fprintf(b, "%s %q (ID: %d)\n", resource.Type.Title(), resource.Name, resource.ID)

	for i, dep := range resource.Dependents {
		last := i == len(resource.Dependents)-1

		connector, indent := "├─", "│  "
		if last {
			connector, indent = "└─", "   "
		}

		if len(dep.Items) == 0 {
			fmt.Fprintf(b, "%s %s\n", connector, dep.Type.label(dep.Count))
			continue
		}

		fmt.Fprintf(b, "%s %s:\n", connector, dep.Type.label(dep.Count))
		for _, item := range dep.Items {
			line := fmt.Sprintf("%s  • %s (ID: %d)", indent, item.Name, item.ID)
			if item.AdditionalInfo != "" {
				line += " - " + item.AdditionalInfo
			}
			b.WriteString(line + "\n")
		}
	}
}

// formatImpact lists the non-zero counters in a fixed order.
func formatImpact(s ImpactSummary) string {
	var parts []string
	add := func(n int, singular, plural string) {
		if n > 0 {
			parts = append(parts, pluralize(n, singular, plural))
		}
	}

	add(s.Workspaces, "workspace", "workspaces")
	add(s.Boards, "board", "boards")
	add(s.Cards, "card", "cards")
	add(s.Comments, "comment", "comments")
	add(s.Subtasks, "subtask", "subtasks")
	add(s.ChildCards, "parent link removed", "parent links removed")

	return strings.Join(parts, ", ")
}

func displayName(id int, name string) string {
	if strings.TrimSpace(name) == "" {
		return fmt.Sprintf("Resource ID: %d", id)
	}
	return name
}

// FormatSimpleSuccess renders the message for a bulk delete where every item succeeded.
func FormatSimpleSuccess(resourceType ResourceType, count int, resources []ResourceRef) string {
	if count == 1 && len(resources) > 0 {
		r := resources[0]
		return fmt.Sprintf("✓ Successfully deleted %s: %s (ID: %d)", resourceType, displayName(r.ID, r.Name), r.ID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✓ Successfully deleted %s", resourceType.Count(count))
	if len(resources) == 0 {
		return b.String()
	}

	b.WriteString(":\n")
	for _, r := range resources {
		fmt.Fprintf(&b, "  • %s (ID: %d)\n", displayName(r.ID, r.Name), r.ID)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatPartialSuccess renders a mixed outcome. Successful deletions are final; nothing is rolled back.
func FormatPartialSuccess(resourceType ResourceType, successes []ResourceRef, failures []FailedResource) string {
	var b strings.Builder
	total := len(successes) + len(failures)
	fmt.Fprintf(&b, "⚠️  Partial success: bulk delete of %s finished with errors\n\n", resourceType.Count(total))

	fmt.Fprintf(&b, "✓ Successfully deleted (%d):\n", len(successes))
	for _, r := range successes {
		fmt.Fprintf(&b, "  • %s (ID: %d)\n", displayName(r.ID, r.Name), r.ID)
	}

	fmt.Fprintf(&b, "\n✗ Failed to delete (%d):\n", len(failures))
	for _, f := range failures {
		fmt.Fprintf(&b, "  • %s (ID: %d): %s\n", displayName(f.ID, f.Name), f.ID, f.Error)
	}

	fmt.Fprintf(&b, "\nSummary: %d successful, %d failed. ", len(successes), len(failures))
	b.WriteString("Successful deletions remain committed and were not rolled back; retry the failed items separately.")

	return b.String()
}

// FormatFailure renders the message for a bulk delete where no item succeeded.
func FormatFailure(resourceType ResourceType, failures []FailedResource) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✗ Failed to delete %s:\n", resourceType.Count(len(failures)))
	for _, f := range failures {
		fmt.Fprintf(&b, "  • %s (ID: %d): %s\n", displayName(f.ID, f.Name), f.ID, f.Error)
	}
	fmt.Fprintf(&b, "\nNo %ss were deleted.", resourceType)
	return b.String()
}
