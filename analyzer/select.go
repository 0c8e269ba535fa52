package analyzer

import (
	"fmt"

	"github.com/sqldef/sqldef/v3/parser"

	"github.com/flowscope/flowscope/hashid"
	"github.com/flowscope/flowscope/model"
)

// nestedResult is what a subquery or CTE body contributes back into its
// enclosing statement (spec.md §4.3 "Subquery ... delegate the inner query
// to the statement analyzer, which yields nested lineage merged into the
// enclosing statement's node set").
type nestedResult struct {
	nodes         []model.Node
	edges         []model.Edge
	issues        []model.Issue
	outputNodeID  string
	outputColumns []string
}

// processSelectLike dispatches a SelectStatement to the matching clause
// walk, directly populating b (spec.md §4.4).
func (b *statementBuilder) processSelectLike(stmt parser.SelectStatement) []string {
	switch s := stmt.(type) {
	case *parser.Select:
		return b.processSelect(s)
	case *parser.Union:
		return b.processUnion(s)
	case *parser.ParenSelect:
		return b.processSelectLike(s.Select)
	default:
		return nil
	}
}

func (b *statementBuilder) processSelect(s *parser.Select) []string {
	if s.With != nil {
		b.processWith(s.With)
	}
	b.buildFrom(s.From)
	b.buildWhere(s.Where, model.FilterWhere)
	b.buildWhere(s.Having, model.FilterHaving)
	outputColumns := b.buildProjection(s.SelectExprs)
	b.checkAliasVisibility(s.GroupBy, s.Having, s.OrderBy)
	return outputColumns
}

// processWith analyzes each CTE body (bottom-up per spec.md §4.4: "analyze
// each CTE body first") and registers its synthesized output node under
// the CTE's name so the outer query's FROM clause can resolve it.
func (b *statementBuilder) processWith(with *parser.With) {
	for _, cte := range with.CTEs {
		inner := b.analyzeNested(cte.Definition, "cte:"+cte.Name.String())
		b.mergeNested(inner)

		name := cte.Name.String()
		cteNodeID := hashid.NodeID(string(model.NodeCte), name)
		cteNode := model.NewCteNode(cteNodeID, name)
		b.addNode(cteNode)
		b.addEdge(model.Edge{FromNodeID: inner.outputNodeID, ToNodeID: cteNodeID, EdgeType: model.EdgeCteRef})

		folded := b.fold(name, cte.Name.Quoted())
		b.ctes[folded] = aliasBinding{nodeID: cteNodeID, columns: inner.outputColumns}
		b.aliases[folded] = aliasBinding{nodeID: cteNodeID, columns: inner.outputColumns}
	}
}

// processUnion analyzes each branch and merges them per spec.md §4.4
// ("merge nodes by canonical identity; merge projection columns
// position-wise"): nodes/edges from both sides are folded into one node
// set (addNode already de-dupes by id), and the branches' output nodes are
// both wired into a single statement-level output.
func (b *statementBuilder) processUnion(u *parser.Union) []string {
	leftCols := b.processBranch(u.Left, "union:l")
	rightCols := b.processBranch(u.Right, "union:r")
	if len(leftCols) >= len(rightCols) {
		return leftCols
	}
	return rightCols
}

// processBranch analyzes one UNION/INTERSECT/EXCEPT side as a nested
// statement so its own output node can feed the union's merged output.
func (b *statementBuilder) processBranch(stmt parser.SelectStatement, label string) []string {
	inner := b.analyzeNested(stmt, label)
	b.mergeNested(inner)
	if inner.outputNodeID != b.outputID {
		b.addEdge(model.Edge{FromNodeID: inner.outputNodeID, ToNodeID: b.outputID, EdgeType: model.EdgeDataFlow})
	}
	return inner.outputColumns
}

// analyzeNested runs a fresh builder over stmt sharing this builder's
// registry, tracker, and dialect, returning its contribution as a
// nestedResult rather than mutating b directly — callers decide how to
// wire the result in (CTE registration, subquery-in-FROM, UNION branch
// merge). label disambiguates the nested builder's synthesized output node
// id from the enclosing statement's own and from sibling nested scopes.
func (b *statementBuilder) analyzeNested(stmt parser.SelectStatement, label string) nestedResult {
	nb := newStatementBuilder(b.d, b.registry, b.tracker, b.index)
	nb.outputID = hashid.NodeID("suboutput", fmt.Sprintf("%d:%s:%d", b.index, label, len(b.nodes)))
	nb.columnLineage = b.columnLineage
	// Nested statements can see the enclosing statement's CTEs (a CTE may
	// reference an earlier CTE in the same WITH list; a subquery in FROM
	// may reference an outer CTE) but not its table aliases.
	for k, v := range b.ctes {
		nb.ctes[k] = v
	}
	cols := nb.processSelectLike(stmt)
	return nestedResult{
		nodes:         nb.nodes,
		edges:         nb.edges,
		issues:        nb.issues,
		outputNodeID:  nb.outputID,
		outputColumns: cols,
	}
}

// mergeNested folds a nested result's nodes/edges/issues into b, relying on
// addNode's id-based de-dup for "merge nodes by canonical identity."
func (b *statementBuilder) mergeNested(n nestedResult) {
	for _, node := range n.nodes {
		b.addNode(node)
	}
	b.edges = append(b.edges, n.edges...)
	b.issues = append(b.issues, n.issues...)
}
