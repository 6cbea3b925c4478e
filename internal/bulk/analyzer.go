package bulk

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/ylchen07/businessmap-mcp-server/internal/businessmap"
)

// DefaultConcurrency bounds how many resources of one batch are analyzed at once.
const DefaultConcurrency = 8

const childCardInfo = "remains as independent card"

// ResourceReader is the read side of the BusinessMap client used for analysis.
type ResourceReader interface {
	GetWorkspace(ctx context.Context, workspaceID int) (*businessmap.Workspace, error)
	ListBoards(ctx context.Context, opts *businessmap.ListBoardsOptions) ([]businessmap.Board, error)
	ListAllCards(ctx context.Context, opts *businessmap.ListCardsOptions) ([]businessmap.Card, error)
	GetBoard(ctx context.Context, boardID int) (*businessmap.Board, error)
	GetCard(ctx context.Context, cardID int) (*businessmap.Card, error)
	ListCardChildren(ctx context.Context, cardID int) ([]businessmap.CardLink, error)
	ListCardComments(ctx context.Context, cardID int) ([]businessmap.Comment, error)
	ListCardSubtasks(ctx context.Context, cardID int) ([]businessmap.Subtask, error)
}

// Analyzer determines what else a bulk delete would affect. It never mutates anything.
type Analyzer struct {
	reader      ResourceReader
	log         *log.Logger
	concurrency int
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithConcurrency caps concurrent per-resource analyses. Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(a *Analyzer) {
		if n >= 1 {
			a.concurrency = n
		}
	}
}

// WithLogger sets the logger used to report degraded analyses.
func WithLogger(logger *log.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.log = logger
		}
	}
}

// NewAnalyzer returns an Analyzer reading through reader.
func NewAnalyzer(reader ResourceReader, opts ...Option) *Analyzer {
	a := &Analyzer{
		reader:      reader,
		log:         log.Default(),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type verification int

const (
	verified verification = iota
	notFound
	unverified
)

// outcome is what each per-resource worker hands back to the join.
type outcome struct {
	dep       ResourceDependency
	state     verification
	nameKnown bool
	err       error
}

// AnalyzeWorkspaces reports the boards under each workspace.
func (a *Analyzer) AnalyzeWorkspaces(ctx context.Context, workspaceIDs []int) BulkDependencyAnalysis {
	return a.analyzeAll(ctx, workspaceIDs, a.analyzeWorkspace)
}

// AnalyzeBoards reports the cards on each board.
func (a *Analyzer) AnalyzeBoards(ctx context.Context, boardIDs []int) BulkDependencyAnalysis {
	return a.analyzeAll(ctx, boardIDs, a.analyzeBoard)
}

// AnalyzeCards reports comments, subtasks and child cards of each card.
func (a *Analyzer) AnalyzeCards(ctx context.Context, cardIDs []int) BulkDependencyAnalysis {
	return a.analyzeAll(ctx, cardIDs, a.analyzeCard)
}

func (a *Analyzer) analyzeAll(ctx context.Context, ids []int, analyze func(context.Context, int) outcome) BulkDependencyAnalysis {
	outcomes := make([]outcome, len(ids))

	var g errgroup.Group
	g.SetLimit(a.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			outcomes[i] = analyze(ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	for _, o := range outcomes {
		switch o.state {
		case notFound:
			a.log.Printf("%s %d not found during dependency analysis: %v", o.dep.Type, o.dep.ID, o.err)
		case unverified:
			a.log.Printf("could not verify dependencies of %s %d: %v", o.dep.Type, o.dep.ID, o.err)
		}
	}

	return aggregateResults(outcomes)
}

func (a *Analyzer) analyzeWorkspace(ctx context.Context, workspaceID int) outcome {
	workspace, err := a.reader.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return degraded(ResourceWorkspace, workspaceID, err)
	}

	dep := newResourceDependency(ResourceWorkspace, workspaceID, workspace.Name)

	boards, err := a.reader.ListBoards(ctx, &businessmap.ListBoardsOptions{WorkspaceIDs: []int{workspaceID}})
	if err != nil {
		return incomplete(dep, err)
	}

	if len(boards) > 0 {
		items := make([]DependentItem, 0, len(boards))
		for _, board := range boards {
			items = append(items, DependentItem{
				ID:             board.BoardID,
				Name:           board.Name,
				AdditionalInfo: a.boardCardInfo(ctx, board.BoardID),
			})
		}
		dep.addDependent(Dependent{Type: DependentBoard, Count: len(boards), Items: items})
	}

	return outcome{dep: dep, state: verified, nameKnown: true}
}

func (a *Analyzer) boardCardInfo(ctx context.Context, boardID int) string {
	cards, err := a.reader.ListAllCards(ctx, &businessmap.ListCardsOptions{BoardIDs: []int{boardID}})
	if err != nil {
		a.log.Printf("could not count cards on board %d: %v", boardID, err)
		return "card count unavailable"
	}
	return pluralize(len(cards), "card", "cards")
}

func (a *Analyzer) analyzeBoard(ctx context.Context, boardID int) outcome {
	board, err := a.reader.GetBoard(ctx, boardID)
	if err != nil {
		return degraded(ResourceBoard, boardID, err)
	}

	dep := newResourceDependency(ResourceBoard, boardID, board.Name)

	cards, err := a.reader.ListAllCards(ctx, &businessmap.ListCardsOptions{BoardIDs: []int{boardID}})
	if err != nil {
		return incomplete(dep, err)
	}
	dep.addDependent(Dependent{Type: DependentCard, Count: len(cards)})

	return outcome{dep: dep, state: verified, nameKnown: true}
}

func (a *Analyzer) analyzeCard(ctx context.Context, cardID int) outcome {
	card, err := a.reader.GetCard(ctx, cardID)
	if err != nil {
		return degraded(ResourceCard, cardID, err)
	}

	dep := newResourceDependency(ResourceCard, cardID, card.Title)

	comments, err := a.reader.ListCardComments(ctx, cardID)
	if err != nil {
		return incomplete(dep, err)
	}
	dep.addDependent(Dependent{Type: DependentComment, Count: len(comments)})

	subtasks, err := a.reader.ListCardSubtasks(ctx, cardID)
	if err != nil {
		return incomplete(dep, err)
	}
	dep.addDependent(Dependent{Type: DependentSubtask, Count: len(subtasks)})

	children, err := a.reader.ListCardChildren(ctx, cardID)
	if err != nil {
		return incomplete(dep, err)
	}
	if len(children) > 0 {
		items := make([]DependentItem, 0, len(children))
		for _, child := range children {
			name := child.Title
			if name == "" {
				name = placeholderName(ResourceCard, child.CardID)
			}
			items = append(items, DependentItem{ID: child.CardID, Name: name, AdditionalInfo: childCardInfo})
		}
		dep.addDependent(Dependent{Type: DependentChildCard, Count: len(children), Items: items})
	}

	return outcome{dep: dep, state: verified, nameKnown: true}
}

// degraded is the result for a resource that could not be fetched at all.
func degraded(t ResourceType, id int, err error) outcome {
	state := unverified
	if businessmap.IsNotFound(err) {
		state = notFound
	}

	dep := newResourceDependency(t, id, placeholderName(t, id))
	dep.Unverified = state == unverified

	return outcome{dep: dep, state: state, err: err}
}

// incomplete is the result for a resource that was fetched but whose dependents were not.
// The resource exists, so any failure here, a 404 included, leaves its dependents unknown.
func incomplete(dep ResourceDependency, err error) outcome {
	dep.Dependents = []Dependent{}
	dep.HasDependencies = false
	dep.Unverified = true

	return outcome{dep: dep, state: unverified, nameKnown: true, err: err}
}

// aggregateResults partitions outcomes by HasDependencies, keeping input order inside each
// partition, and folds every resource and dependent count into the impact summary.
func aggregateResults(outcomes []outcome) BulkDependencyAnalysis {
	analysis := BulkDependencyAnalysis{
		ResourcesWithDeps:    []ResourceDependency{},
		ResourcesWithoutDeps: []ResourceDependency{},
		NameMap:              make(map[int]string, len(outcomes)),
	}

	for _, o := range outcomes {
		dep := o.dep
		if dep.HasDependencies {
			analysis.ResourcesWithDeps = append(analysis.ResourcesWithDeps, dep)
		} else {
			analysis.ResourcesWithoutDeps = append(analysis.ResourcesWithoutDeps, dep)
		}

		if o.nameKnown {
			analysis.NameMap[dep.ID] = dep.Name
		}

		analysis.TotalImpact.addResource(dep.Type)
		for _, d := range dep.Dependents {
			analysis.TotalImpact.addDependent(d)
		}
	}

	return analysis
}
