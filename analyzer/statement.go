package analyzer

import (
	"strings"

	"github.com/sqldef/sqldef/v3/parser"

	"github.com/flowscope/flowscope/dialect"
	"github.com/flowscope/flowscope/hashid"
	"github.com/flowscope/flowscope/model"
)

// aliasBinding is what a FROM-clause alias (or bare table/CTE name) resolves
// to within one statement: the node it refers to and that node's canonical
// name, if it has one (subqueries don't).
type aliasBinding struct {
	nodeID  string
	name    *model.CanonicalName
	columns []string // folded column names known for this binding, if any
}

// statementBuilder accumulates one StatementLineage while walking a parsed
// statement's AST (spec.md §4.4). It is single-use: construct one per
// statement via newStatementBuilder.
type statementBuilder struct {
	d        model.Dialect
	registry *SchemaRegistry
	tracker  *CrossStatementTracker
	expr     *exprAnalyzer
	index    int

	nodes   []model.Node
	nodeIdx map[string]int // node id -> index into nodes, for de-dup by canonical identity
	edges   []model.Edge
	issues  []model.Issue

	aliases map[string]aliasBinding
	ctes    map[string]aliasBinding

	// selectAliases tracks output aliases declared so far in the current
	// SELECT list, for lateral-column-alias checking (spec.md §4.4).
	selectAliases map[string]bool

	// outputID is this builder's synthesized output node id. The
	// top-level builder for a statement uses hashid.OutputNodeID(index) —
	// the id the cross-statement tracker and spec.md §4.4 "one output node
	// per statement" refer to. Builders created for a nested scope (a CTE
	// body, a UNION branch, a subquery in FROM) get a scope-qualified id
	// instead, so their output nodes never collide with the statement's
	// own or with each other.
	outputID string

	// columnLineage gates per-column Projection/Join edges (spec.md §6
	// "enableColumnLineage"). Table-level nodes and structural Join edges
	// are emitted regardless; this only suppresses the finer column-pair
	// detail. Defaults true; analyzer.go flips it per-request and
	// analyzeNested propagates it into nested builders.
	columnLineage bool
}

func newStatementBuilder(d model.Dialect, registry *SchemaRegistry, tracker *CrossStatementTracker, index int) *statementBuilder {
	return &statementBuilder{
		d:             d,
		registry:      registry,
		tracker:       tracker,
		expr:          newExprAnalyzer(d),
		index:         index,
		nodeIdx:       make(map[string]int),
		aliases:       make(map[string]aliasBinding),
		ctes:          make(map[string]aliasBinding),
		selectAliases: make(map[string]bool),
		outputID:      hashid.OutputNodeID(index),
		columnLineage: true,
	}
}

func (b *statementBuilder) addIssue(issue model.Issue) {
	b.issues = append(b.issues, issue.WithStatement(b.index))
}

// addNode inserts a node if its id isn't already present (spec.md §3 "Within
// one statement, a given canonical table appears at most once"), returning
// its final index.
func (b *statementBuilder) addNode(n model.Node) int {
	if i, ok := b.nodeIdx[n.ID]; ok {
		return i
	}
	b.nodeIdx[n.ID] = len(b.nodes)
	b.nodes = append(b.nodes, n)
	return len(b.nodes) - 1
}

func (b *statementBuilder) addEdge(e model.Edge) {
	e.ID = hashid.EdgeID(e.FromNodeID, e.ToNodeID)
	b.edges = append(b.edges, e)
}

// resolveTableRef canonicalizes and resolves a TableName against the
// registry, honoring the CTE alias map first (a CTE named the same as a
// catalog table shadows it within the statement, per standard SQL scoping).
func (b *statementBuilder) resolveTableRef(tn parser.TableName) (model.Node, aliasBinding, bool) {
	rawName := tn.Name.String()
	if cte, ok := b.ctes[b.fold(rawName, tn.Name.Quoted())]; ok {
		if i, found := b.nodeIdx[cte.nodeID]; found {
			return b.nodes[i], cte, true
		}
		return model.NewCteNode(cte.nodeID, rawName), cte, true
	}

	parts := []string{rawName}
	quoted := []bool{tn.Name.Quoted()}
	if !tn.Schema.IsEmpty() {
		parts = []string{tn.Schema.String(), rawName}
		quoted = []bool{tn.Schema.Quoted(), tn.Name.Quoted()}
	}
	canonical := b.registry.Canonicalize(parts, quoted)
	res := b.registry.Resolve(canonical)

	if res.Source == model.ResolvedUnresolved {
		b.addIssue(model.WarningIssue(model.CodeUnknownTable, "unknown table "+canonical.String()))
	}

	// A bare (unqualified) name might instead be a relation registered by
	// an earlier statement (view / CREATE TABLE AS, spec.md §4.5).
	if global, ok := b.tracker.Lookup(canonical); ok {
		node := model.NewTableNode(global.NodeID, canonical.String())
		qn := canonical.String()
		node.QualifiedName = &qn
		binding := aliasBinding{nodeID: global.NodeID, name: &canonical}
		return node, binding, true
	}

	node := model.NewTableNode(hashid.NodeID(string(model.NodeTable), canonical.String()), canonical.String())
	qn := canonical.String()
	node.QualifiedName = &qn
	binding := aliasBinding{nodeID: node.ID, name: &canonical}
	if res.Table != nil {
		binding.columns = append(binding.columns, res.Table.order...)
	}
	return node, binding, true
}

func (b *statementBuilder) fold(identifier string, quoted bool) string {
	return dialect.Fold(b.d, identifier, quoted, model.CaseFoldDialectDefault)
}

// buildFrom walks a FROM clause left to right (spec.md §4.4 "bottom-up"),
// populating nodes, join edges, and the alias map.
func (b *statementBuilder) buildFrom(exprs parser.TableExprs) {
	for _, te := range exprs {
		b.buildTableExpr(te, nil)
	}
}

// buildTableExpr returns the node id representing expr's result (so a
// parent JoinTableExpr can wire a Join edge to it) and records aliases.
func (b *statementBuilder) buildTableExpr(expr parser.TableExpr, parentJoinType *model.JoinType) string {
	switch te := expr.(type) {
	case *parser.AliasedTableExpr:
		return b.buildAliasedTableExpr(te, parentJoinType)
	case *parser.JoinTableExpr:
		jt := joinTypeFor(te.Join)
		leftID := b.buildTableExpr(te.LeftExpr, nil)
		rightID := b.buildTableExpr(te.RightExpr, &jt)

		b.addEdge(model.Edge{FromNodeID: leftID, ToNodeID: rightID, EdgeType: model.EdgeJoin})

		if te.Condition.On != nil {
			for _, ref := range b.expr.ColumnRefs(te.Condition.On) {
				b.recordFilterOnRef(ref, model.FilterJoinOn, parser.String(te.Condition.On))
			}
			if b.columnLineage {
				b.emitJoinConditionEdges(te.Condition.On, leftID, rightID)
			}
		}
		return rightID
	case *parser.ParenTableExpr:
		var last string
		for _, inner := range te.Exprs {
			last = b.buildTableExpr(inner, parentJoinType)
		}
		return last
	default:
		return ""
	}
}

func (b *statementBuilder) buildAliasedTableExpr(te *parser.AliasedTableExpr, joinType *model.JoinType) string {
	switch simple := te.Expr.(type) {
	case parser.TableName:
		node, binding, _ := b.resolveTableRef(simple)
		if joinType != nil {
			node = node.WithJoinType(*joinType)
		}
		idx := b.addNode(node)
		b.nodes[idx] = mergeJoinType(b.nodes[idx], joinType)

		alias := te.As.String()
		if alias != "" {
			binding.nodeID = node.ID
			b.aliases[b.fold(alias, te.As.Quoted())] = binding
		} else if binding.name != nil {
			b.aliases[b.fold(binding.name.Name, false)] = binding
		}
		return node.ID
	case *parser.Subquery:
		label := "subquery"
		if alias := te.As.String(); alias != "" {
			label = "subquery:" + alias
		}
		inner := b.analyzeNested(simple.Select, label)
		b.mergeNested(inner)
		outID := inner.outputNodeID
		alias := te.As.String()
		binding := aliasBinding{nodeID: outID, columns: inner.outputColumns}
		if alias != "" {
			b.aliases[b.fold(alias, te.As.Quoted())] = binding
		}
		if joinType != nil {
			if idx, ok := b.nodeIdx[outID]; ok {
				b.nodes[idx] = mergeJoinType(b.nodes[idx], joinType)
			}
		}
		return outID
	default:
		return ""
	}
}

func mergeJoinType(n model.Node, jt *model.JoinType) model.Node {
	if jt != nil {
		return n.WithJoinType(*jt)
	}
	return n
}

func joinTypeFor(join string) model.JoinType {
	switch strings.ToUpper(strings.TrimSpace(join)) {
	case "LEFT JOIN", "LEFT OUTER JOIN":
		return model.JoinLeft
	case "RIGHT JOIN", "RIGHT OUTER JOIN":
		return model.JoinRight
	case "FULL JOIN", "FULL OUTER JOIN":
		return model.JoinFull
	case "CROSS JOIN":
		return model.JoinCross
	case "NATURAL JOIN":
		return model.JoinInner
	default:
		if strings.Contains(strings.ToUpper(join), "SEMI") {
			return model.JoinSemi
		}
		if strings.Contains(strings.ToUpper(join), "ANTI") {
			return model.JoinAnti
		}
		return model.JoinInner
	}
}

// emitJoinConditionEdges adds one Join edge per column pair compared in a
// simple `a.x = b.y`-shaped ON condition, best-effort: structurally complex
// conditions still get their refs recorded as filters, just not split into
// per-column edges.
func (b *statementBuilder) emitJoinConditionEdges(expr parser.Expr, leftID, rightID string) {
	cmp, ok := expr.(*parser.ComparisonExpr)
	if !ok || cmp.Operator != "=" {
		if and, ok := expr.(*parser.AndExpr); ok {
			b.emitJoinConditionEdges(and.Left, leftID, rightID)
			b.emitJoinConditionEdges(and.Right, leftID, rightID)
		}
		return
	}
	leftCol, lok := cmp.Left.(*parser.ColName)
	rightCol, rok := cmp.Right.(*parser.ColName)
	if !lok || !rok {
		return
	}
	lc, rc := leftCol.Name.String(), rightCol.Name.String()
	b.addEdge(model.Edge{
		FromNodeID: leftID, ToNodeID: rightID, EdgeType: model.EdgeJoin,
		FromColumn: &lc, ToColumn: &rc,
	})
}

// recordFilterOnRef attaches a FilterPredicate to the node a column
// reference resolves to, via the current alias map.
func (b *statementBuilder) recordFilterOnRef(ref ColumnReference, clause model.FilterClauseType, exprText string) {
	nodeID := b.nodeForRef(ref)
	if nodeID == "" {
		return
	}
	idx, ok := b.nodeIdx[nodeID]
	if !ok {
		return
	}
	b.nodes[idx].Filters = append(b.nodes[idx].Filters, model.FilterPredicate{
		ClauseType: clause,
		Expression: exprText,
	})
}

// nodeForRef resolves a column reference's table qualifier through the
// alias map; unqualified references resolve only when exactly one relation
// is in scope (the common single-table case) — ambiguous unqualified refs
// in a multi-table FROM are left unattached rather than guessed at.
func (b *statementBuilder) nodeForRef(ref ColumnReference) string {
	binding, ok := b.bindingForRef(ref)
	if !ok {
		return ""
	}
	return binding.nodeID
}

// bindingForRef resolves a column reference to its alias binding, applying
// the same qualified/single-relation-in-scope rule as nodeForRef.
func (b *statementBuilder) bindingForRef(ref ColumnReference) (aliasBinding, bool) {
	if ref.Table != "" {
		binding, ok := b.aliases[b.fold(ref.Table, false)]
		return binding, ok
	}
	if len(b.aliases) == 1 {
		for _, binding := range b.aliases {
			return binding, true
		}
	}
	return aliasBinding{}, false
}

// buildWhere extracts filter predicates and UNKNOWN_COLUMN diagnostics from
// a WHERE or HAVING clause.
func (b *statementBuilder) buildWhere(where *parser.Where, clause model.FilterClauseType) {
	if where == nil || where.Expr == nil {
		return
	}
	exprText := parser.String(where.Expr)
	for _, ref := range b.expr.ColumnRefs(where.Expr) {
		b.recordFilterOnRef(ref, clause, exprText)
		b.validateRef(ref)
	}
}

func (b *statementBuilder) validateRef(ref ColumnReference) {
	binding, ok := b.bindingForRef(ref)
	if !ok || binding.name == nil {
		return
	}
	res := b.registry.Resolve(*binding.name)
	b.registry.ValidateColumn(res, ref.Column, ref.Quoted, b.index)
}

// buildProjection extracts output columns from the SELECT list, wiring
// Projection edges from source nodes to this statement's single output
// node (spec.md §4.4 "Projection").
func (b *statementBuilder) buildProjection(exprs parser.SelectExprs) []string {
	outID := b.outputID
	outIdx := b.addNode(model.NewTableNode(outID, "output"))

	var outputColumns []string
	var columns []model.ColumnRef
	for _, se := range exprs {
		switch item := se.(type) {
		case *parser.StarExpr:
			outputColumns = append(outputColumns, "*")
			columns = append(columns, model.ColumnRef{Name: "*"})
			if !b.columnLineage {
				continue
			}
			for _, binding := range b.aliases {
				for _, col := range binding.columns {
					c := col
					b.addEdge(model.Edge{FromNodeID: binding.nodeID, ToNodeID: outID, EdgeType: model.EdgeProjection, FromColumn: &c})
				}
			}
		case *parser.AliasedExpr:
			label := outputLabel(item)
			outputColumns = append(outputColumns, label)
			columns = append(columns, model.ColumnRef{Name: label, DataType: InferType(item.Expr)})
			if !dialect.LateralColumnAlias(b.d) {
				for _, ref := range b.expr.ColumnRefs(item.Expr) {
					if ref.Table == "" && b.selectAliases[b.fold(ref.Column, ref.Quoted)] {
						b.addIssue(model.WarningIssue(model.CodeUnsupportedSyntax,
							"SELECT item references earlier SELECT-list alias \""+ref.Column+"\", not supported by this dialect"))
					}
				}
			}
			if !item.As.IsEmpty() {
				b.selectAliases[b.fold(item.As.String(), false)] = true
			}
			if !b.columnLineage {
				continue
			}

			refs := b.expr.ColumnRefs(item.Expr)
			if len(refs) == 0 {
				b.addEdge(model.Edge{ToNodeID: outID, FromNodeID: outID, EdgeType: model.EdgeProjection, Expression: strPtr(parser.String(item.Expr))})
				continue
			}
			for _, ref := range refs {
				b.validateRef(ref)
				nodeID := b.nodeForRef(ref)
				if nodeID == "" {
					continue
				}
				col := ref.Column
				b.addEdge(model.Edge{FromNodeID: nodeID, ToNodeID: outID, EdgeType: model.EdgeProjection, FromColumn: &col, ToColumn: &label})
			}
		}
	}
	b.nodes[outIdx].Columns = columns
	return outputColumns
}

func outputLabel(item *parser.AliasedExpr) string {
	if !item.As.IsEmpty() {
		return item.As.String()
	}
	if col, ok := item.Expr.(*parser.ColName); ok {
		return col.Name.String()
	}
	return parser.String(item.Expr)
}

func strPtr(s string) *string { return &s }

// checkAliasVisibility implements spec.md §4.4's GROUP BY/HAVING/ORDER BY
// alias rules: a clause referencing a SELECT-list alias the dialect
// forbids there emits UNSUPPORTED_SYNTAX.
func (b *statementBuilder) checkAliasVisibility(groupBy parser.GroupBy, having *parser.Where, orderBy parser.OrderBy) {
	check := func(expr parser.Expr, clauseName string, allowed bool) {
		col, ok := expr.(*parser.ColName)
		if !ok || !col.Qualifier.Name.IsEmpty() {
			return
		}
		name := b.fold(col.Name.String(), col.Name.Quoted())
		if !b.selectAliases[name] {
			return
		}
		if !allowed {
			b.addIssue(model.WarningIssue(model.CodeUnsupportedSyntax,
				clauseName+" references SELECT-list alias \""+col.Name.String()+"\", not supported by this dialect"))
		}
	}
	for _, e := range groupBy {
		check(e, "GROUP BY", dialect.AliasInGroupBy(b.d))
	}
	if having != nil && having.Expr != nil {
		for _, ref := range b.expr.ColumnRefs(having.Expr) {
			if ref.Table != "" {
				continue
			}
			name := b.fold(ref.Column, ref.Quoted)
			if b.selectAliases[name] && !dialect.AliasInHaving(b.d) {
				b.addIssue(model.WarningIssue(model.CodeUnsupportedSyntax,
					"HAVING references SELECT-list alias \""+ref.Column+"\", not supported by this dialect"))
			}
		}
	}
	for _, o := range orderBy {
		check(o.Expr, "ORDER BY", dialect.AliasInOrderBy(b.d))
	}
}
