package bulk

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func workspaceWithBoards() ResourceDependency {
	return ResourceDependency{
		ID:              5,
		Type:            ResourceWorkspace,
		Name:            "Platform",
		HasDependencies: true,
		Dependents: []Dependent{{
			Type:  DependentBoard,
			Count: 2,
			Items: []DependentItem{
				{ID: 10, Name: "Roadmap", AdditionalInfo: "3 cards"},
				{ID: 11, Name: "Sprint", AdditionalInfo: "7 cards"},
			},
		}},
	}
}

func TestBuildConfirmationReturnsNilWithoutDependencies(t *testing.T) {
	analysis := aggregateResults([]outcome{
		{dep: newResourceDependency(ResourceCard, 1, "a")},
		{dep: newResourceDependency(ResourceCard, 2, "b")},
	})

	assert.Nil(t, BuildConfirmation(analysis))
}

func TestBuildConfirmationRendersResourceTree(t *testing.T) {
	card := ResourceDependency{
		ID:              42,
		Type:            ResourceCard,
		Name:            "Parent",
		HasDependencies: true,
		Dependents: []Dependent{
			{Type: DependentComment, Count: 3},
			{Type: DependentSubtask, Count: 1},
			{Type: DependentChildCard, Count: 1, Items: []DependentItem{
				{ID: 99, Name: "Sub-task A", AdditionalInfo: "remains as independent card"},
			}},
		},
	}
	analysis := aggregateResults([]outcome{{dep: card}})

	confirmation := BuildConfirmation(analysis)
	require.NotNil(t, confirmation)
	assert.True(t, confirmation.HasConfirmation)

	msg := confirmation.Message
	assert.Contains(t, msg, "1 card has dependencies:")
	assert.Contains(t, msg, `Card "Parent" (ID: 42)`)
	assert.Contains(t, msg, "├─ 3 comments\n")
	assert.Contains(t, msg, "├─ 1 subtask\n")
	assert.Contains(t, msg, "└─ 1 child card:\n")
	assert.Contains(t, msg, "     • Sub-task A (ID: 99) - remains as independent card")
	assert.Contains(t, msg, "Total impact: 1 card, 3 comments, 1 subtask, 1 parent link removed")
	assert.True(t, strings.HasSuffix(msg, confirmationPrompt))
	assert.NotContains(t, msg, "deleted automatically")
}

func TestBuildConfirmationMixedBatch(t *testing.T) {
	free := newResourceDependency(ResourceWorkspace, 6, "Sandbox")
	analysis := aggregateResults([]outcome{{dep: workspaceWithBoards()}, {dep: free}})

	confirmation := BuildConfirmation(analysis)
	require.NotNil(t, confirmation)

	msg := confirmation.Message
	assert.Contains(t, msg, "1 workspace has dependencies:")
	assert.Contains(t, msg, "└─ 2 boards:\n")
	assert.Contains(t, msg, "  • Roadmap (ID: 10) - 3 cards")
	assert.Contains(t, msg, "1 workspace without dependencies will be deleted automatically:")
	assert.Contains(t, msg, "  • Sandbox (ID: 6)")
	assert.Contains(t, msg, "Total impact: 2 workspaces, 2 boards")

	assert.Len(t, confirmation.ResourcesWithDeps, 1)
	assert.Len(t, confirmation.ResourcesWithoutDeps, 1)
	assert.Equal(t, analysis.TotalImpact, confirmation.TotalImpact)
}

func TestBuildConfirmationLeavesUnverifiedOutOfAutomaticList(t *testing.T) {
	free := newResourceDependency(ResourceWorkspace, 6, "Sandbox")
	unknown := newResourceDependency(ResourceWorkspace, 7, "Workspace 7")
	unknown.Unverified = true
	analysis := aggregateResults([]outcome{{dep: workspaceWithBoards()}, {dep: free}, {dep: unknown}})

	confirmation := BuildConfirmation(analysis)
	require.NotNil(t, confirmation)

	msg := confirmation.Message
	assert.Contains(t, msg, "1 workspace without dependencies will be deleted automatically:")
	assert.Contains(t, msg, "  • Sandbox (ID: 6)")
	assert.NotContains(t, msg, "Workspace 7 (ID: 7)")
	assert.Len(t, confirmation.ResourcesWithoutDeps, 2)
}

func TestBuildConfirmationOmitsAutomaticListWhenAllUnverified(t *testing.T) {
	unknown := newResourceDependency(ResourceWorkspace, 7, "Workspace 7")
	unknown.Unverified = true
	analysis := aggregateResults([]outcome{{dep: workspaceWithBoards()}, {dep: unknown}})

	msg := BuildConfirmation(analysis).Message
	assert.NotContains(t, msg, "deleted automatically")
}

func TestBuildConfirmationUsesMiddleConnectorForItemsBeforeLastCategory(t *testing.T) {
	card := ResourceDependency{
		ID: 1, Type: ResourceCard, Name: "P", HasDependencies: true,
		Dependents: []Dependent{
			{Type: DependentChildCard, Count: 1, Items: []DependentItem{{ID: 2, Name: "C"}}},
			{Type: DependentComment, Count: 2},
		},
	}

	msg := BuildConfirmation(aggregateResults([]outcome{{dep: card}})).Message

	assert.Contains(t, msg, "├─ 1 child card:\n│    • C (ID: 2)\n└─ 2 comments\n")
}

func TestBuildConfirmationIsDeterministic(t *testing.T) {
	analysis := aggregateResults([]outcome{{dep: workspaceWithBoards()}})

	first := BuildConfirmation(analysis).Message
	second := BuildConfirmation(analysis).Message
	assert.Equal(t, first, second)
}

func TestBuildConfirmationPluralizesLeadSentence(t *testing.T) {
	other := workspaceWithBoards()
	other.ID = 8
	analysis := aggregateResults([]outcome{{dep: workspaceWithBoards()}, {dep: other}})

	msg := BuildConfirmation(analysis).Message
	assert.Contains(t, msg, "2 workspaces have dependencies:")
}

func TestFormatImpactSkipsZeroCounters(t *testing.T) {
	assert.Equal(t, "", formatImpact(ImpactSummary{}))
	assert.Equal(t, "1 board, 2 parent links removed", formatImpact(ImpactSummary{Boards: 1, ChildCards: 2}))
	assert.Equal(t,
		"1 workspace, 2 boards, 3 cards, 4 comments, 5 subtasks, 1 parent link removed",
		formatImpact(ImpactSummary{Workspaces: 1, Boards: 2, Cards: 3, Comments: 4, Subtasks: 5, ChildCards: 1}),
	)
}

func TestFormatSimpleSuccessSingle(t *testing.T) {
	msg := FormatSimpleSuccess(ResourceWorkspace, 1, []ResourceRef{{ID: 5, Name: "Old Project"}})

	assert.Contains(t, msg, "Old Project")
	assert.Contains(t, msg, "(ID: 5)")
	assert.Contains(t, msg, "✓")
	assert.NotContains(t, msg, "•")
	assert.NotContains(t, msg, "\n")
}

func TestFormatSimpleSuccessFallsBackToID(t *testing.T) {
	msg := FormatSimpleSuccess(ResourceCard, 1, []ResourceRef{{ID: 7}})

	assert.Contains(t, msg, "Resource ID: 7")
	assert.Contains(t, msg, "(ID: 7)")
}

func TestFormatSimpleSuccessMultiple(t *testing.T) {
	msg := FormatSimpleSuccess(ResourceBoard, 2, []ResourceRef{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}})

	lines := strings.Split(msg, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "✓ Successfully deleted 2 boards:", lines[0])
	assert.Equal(t, "  • A (ID: 1)", lines[1])
	assert.Equal(t, "  • B (ID: 2)", lines[2])
}

func TestFormatPartialSuccess(t *testing.T) {
	msg := FormatPartialSuccess(ResourceCard,
		[]ResourceRef{{ID: 1, Name: "A"}},
		[]FailedResource{{ID: 2, Name: "B", Error: "403 Forbidden"}},
	)

	successIdx := strings.Index(msg, "Successfully deleted")
	failIdx := strings.Index(msg, "Failed to delete")
	require.True(t, successIdx >= 0 && failIdx > successIdx)

	successSection := msg[successIdx:failIdx]
	failSection := msg[failIdx:]
	assert.Contains(t, successSection, "A (ID: 1)")
	assert.Contains(t, failSection, "B (ID: 2): 403 Forbidden")
	assert.Contains(t, msg, "1 successful, 1 failed")
	assert.Contains(t, msg, "not rolled back")
}

func TestFormatPartialSuccessListsEveryItemOnce(t *testing.T) {
	for split := 0; split <= 6; split++ {
		var successes []ResourceRef
		var failures []FailedResource
		for id := 1; id <= 6; id++ {
			if id <= split {
				successes = append(successes, ResourceRef{ID: id, Name: fmt.Sprintf("item-%d", id)})
			} else {
				failures = append(failures, FailedResource{ID: id, Name: fmt.Sprintf("item-%d", id), Error: "boom"})
			}
		}

		msg := FormatPartialSuccess(ResourceCard, successes, failures)

		for id := 1; id <= 6; id++ {
			assert.Equal(t, 1, strings.Count(msg, fmt.Sprintf("(ID: %d)", id)), "split %d id %d", split, id)
		}
		assert.Contains(t, msg, fmt.Sprintf("%d successful, %d failed", len(successes), len(failures)))
	}
}

func TestFormatFailure(t *testing.T) {
	msg := FormatFailure(ResourceBoard, []FailedResource{{ID: 3, Error: "500 Internal Server Error"}})

	assert.Contains(t, msg, "Failed to delete 1 board")
	assert.Contains(t, msg, "Resource ID: 3 (ID: 3): 500 Internal Server Error")
	assert.Contains(t, msg, "No boards were deleted.")
}
