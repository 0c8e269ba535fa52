package analyzer

import (
	"github.com/flowscope/flowscope/hashid"
	"github.com/flowscope/flowscope/model"
)

// RelationKind distinguishes a cross-statement tracker entry's origin.
type RelationKind string

const (
	RelationView    RelationKind = "view"
	RelationTable   RelationKind = "materialized_table"
)

// TrackedRelation is one definition the cross-statement tracker has seen
// (spec.md §4.5).
type TrackedRelation struct {
	NodeID    string
	Name      model.CanonicalName
	Kind      RelationKind
	DefinedBy int
}

// CrossStatementTracker carries forward relations a CREATE VIEW / CREATE
// TABLE AS defines so later statements in the same request resolve them to
// the same node id (spec.md §4.5). It is scoped to a single Analyze call
// and consulted strictly in request order — a statement never sees a
// definition introduced later in the same request.
type CrossStatementTracker struct {
	byKey map[string]TrackedRelation
	order []string
}

func NewCrossStatementTracker() *CrossStatementTracker {
	return &CrossStatementTracker{byKey: make(map[string]TrackedRelation)}
}

// Lookup returns the relation registered under name, if any.
func (t *CrossStatementTracker) Lookup(name model.CanonicalName) (TrackedRelation, bool) {
	rel, ok := t.byKey[name.String()]
	return rel, ok
}

// Register records a new relation definition. A second definition of the
// same canonical name emits DUPLICATE_DEFINITION and keeps the first
// (spec.md §4.5 invariants).
func (t *CrossStatementTracker) Register(name model.CanonicalName, kind RelationKind, stmtIndex int) (TrackedRelation, *model.Issue) {
	key := name.String()
	if existing, ok := t.byKey[key]; ok {
		issue := model.WarningIssue(model.CodeDuplicateDefinition,
			"duplicate definition of relation "+name.String()).WithStatement(stmtIndex)
		return existing, &issue
	}
	rel := TrackedRelation{
		NodeID:    hashid.NodeID(string(model.NodeTable), name.String()),
		Name:      name,
		Kind:      kind,
		DefinedBy: stmtIndex,
	}
	t.byKey[key] = rel
	t.order = append(t.order, key)
	return rel, nil
}

// Relations returns every tracked relation in registration order.
func (t *CrossStatementTracker) Relations() []TrackedRelation {
	out := make([]TrackedRelation, 0, len(t.order))
	for _, key := range t.order {
		out = append(out, t.byKey[key])
	}
	return out
}
