// Package analyzer implements FlowScope's per-statement and global lineage
// construction (spec.md §3-§5): the SchemaRegistry, the statement-level AST
// walk, and the Analyze entrypoint that ties both together with the
// linter.
package analyzer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sqldef/sqldef/v3/parser"

	"github.com/flowscope/flowscope/hashid"
	"github.com/flowscope/flowscope/linter"
	"github.com/flowscope/flowscope/model"
	"github.com/flowscope/flowscope/sqlast"
)

var defaultLinter = linter.Default()

type source struct {
	name    *string
	content string
}

// Analyze is FlowScope's single entrypoint (spec.md §6): it parses every
// source, builds one StatementLineage per statement, stitches the
// cross-statement GlobalLineage, lints each statement, and freezes the
// schema registry's final contents.
func Analyze(request model.AnalyzeRequest) model.AnalyzeResult {
	if request.SQL == "" && len(request.Files) == 0 {
		issue := model.ErrorIssue(model.CodeInvalidRequest, "request has neither sql nor files")
		counts, hasErrors := model.SummarizeIssues([]model.Issue{issue})
		return model.AnalyzeResult{
			Summary: model.Summary{IssueCounts: counts, HasErrors: hasErrors},
			Issues:  []model.Issue{issue},
		}
	}

	sources := gatherSources(request)

	registry := NewSchemaRegistry(request.Dialect, request.Schema)
	tracker := NewCrossStatementTracker()

	var issues []model.Issue
	issues = append(issues, registry.Issues...)
	registryCursor := len(registry.Issues)

	lintCfg := linter.Config{
		Enabled: request.LintEnabled(),
	}
	if request.Options != nil {
		lintCfg.RuleOverrides = request.Options.RuleOverrides
		lintCfg.RuleOptions = request.Options.RuleOptions
	}
	columnLineage := request.ColumnLineageEnabled()

	var statements []model.StatementLineage
	lineageByIndex := make(map[int]model.StatementLineage)

	nextIndex := 0
	for _, src := range sources {
		chunks := sqlast.Split(src.content)
		parsed, parseIssues := sqlast.ParseAll(src.content, request.Dialect, src.name, nextIndex)
		issues = append(issues, parseIssues...)

		parsedByIndex := make(map[int]sqlast.Statement, len(parsed))
		for _, stmt := range parsed {
			parsedByIndex[stmt.Index] = stmt
		}

		for i, chunk := range chunks {
			idx := nextIndex + i

			if stmt, ok := parsedByIndex[idx]; ok {
				lineage := dispatchStatement(stmt, request.Dialect, registry, tracker, columnLineage)
				statements = append(statements, lineage)
				lineageByIndex[stmt.Index] = lineage

				issues = append(issues, registry.Issues[registryCursor:]...)
				registryCursor = len(registry.Issues)
			}

			if lintCfg.Enabled {
				queryType := sqlast.Classify(chunk.Raw)
				if stmt, ok := parsedByIndex[idx]; ok {
					queryType = stmt.QueryType
				}
				ctx := linter.Context{
					Dialect:        request.Dialect,
					Raw:            chunk.Raw,
					StatementIndex: idx,
					Span:           chunk.Span,
					QueryType:      queryType,
				}
				issues = append(issues, defaultLinter.Check(ctx, lintCfg)...)
			}
		}

		nextIndex += len(chunks)
	}

	globalLineage := buildGlobalLineage(tracker, lineageByIndex, statements)
	tableCount := countDistinctTables(statements)
	counts, hasErrors := model.SummarizeIssues(issues)

	return model.AnalyzeResult{
		Summary: model.Summary{
			StatementCount: len(statements),
			TableCount:     tableCount,
			HasErrors:      hasErrors,
			IssueCounts:    counts,
		},
		Statements:     statements,
		GlobalLineage:  globalLineage,
		Issues:         issues,
		ResolvedSchema: registry.Resolved(),
	}
}

func gatherSources(request model.AnalyzeRequest) []source {
	if len(request.Files) > 0 {
		out := make([]source, len(request.Files))
		for i, f := range request.Files {
			name := f.Name
			out[i] = source{name: &name, content: f.Content}
		}
		return out
	}
	return []source{{name: request.SourceName, content: request.SQL}}
}

// dispatchStatement builds one StatementLineage by routing a parsed
// statement to the handling its query type needs (spec.md §4.4).
func dispatchStatement(stmt sqlast.Statement, d model.Dialect, registry *SchemaRegistry, tracker *CrossStatementTracker, columnLineage bool) model.StatementLineage {
	b := newStatementBuilder(d, registry, tracker, stmt.Index)
	b.columnLineage = columnLineage

	switch stmt.QueryType {
	case sqlast.QuerySelect:
		b.processSelectLike(stmt.Select)
	case sqlast.QueryInsert:
		analyzeInsert(b, stmt)
	case sqlast.QueryUpdate:
		analyzeMutation(b, stmt, updateTargetPattern)
	case sqlast.QueryDelete:
		analyzeMutation(b, stmt, deleteTargetPattern)
	case sqlast.QueryCreateView, sqlast.QueryCreateTableAs:
		analyzeCreate(b, stmt, tracker)
	case sqlast.QueryDDL:
		analyzeDDL(b, stmt)
	default:
		// QueryOther: nothing structured to extract; the statement still
		// gets a span and a complexity score of its (empty) node set.
	}

	return finishStatement(b, stmt)
}

func finishStatement(b *statementBuilder, stmt sqlast.Statement) model.StatementLineage {
	span := stmt.Span
	return model.StatementLineage{
		Index:           stmt.Index,
		SourceName:      stmt.SourceName,
		QueryType:       stmt.QueryType,
		Nodes:           b.nodes,
		Edges:           model.DedupeEdges(b.edges),
		ComplexityScore: complexityScore(b.nodes),
		Span:            &span,
	}
}

func splitDotted(name string) []string {
	return strings.Split(name, ".")
}

func falseSlice(n int) []bool {
	return make([]bool, n)
}

// resolveByText canonicalizes and resolves a dotted name captured from raw
// SQL text (INSERT/UPDATE/DELETE targets, whose structured AST fields
// aren't confirmed in the retrieved sources — see sqlast.objectNameFromText
// for the same tradeoff), adding it as a Table node bound under its own
// bare name so filter/projection extraction can find it via the single-
// relation fallback in nodeForRef.
func (b *statementBuilder) resolveByText(rawName string) (string, aliasBinding) {
	parts := splitDotted(rawName)
	canonical := b.registry.Canonicalize(parts, falseSlice(len(parts)))
	res := b.registry.Resolve(canonical)
	if res.Source == model.ResolvedUnresolved {
		b.addIssue(model.WarningIssue(model.CodeUnknownTable, "unknown table "+canonical.String()))
	}

	nodeID := hashid.NodeID(string(model.NodeTable), canonical.String())
	if global, ok := b.tracker.Lookup(canonical); ok {
		nodeID = global.NodeID
	}
	node := model.NewTableNode(nodeID, canonical.String())
	qn := canonical.String()
	node.QualifiedName = &qn
	b.addNode(node)

	binding := aliasBinding{nodeID: nodeID, name: &canonical}
	if res.Table != nil {
		binding.columns = append(binding.columns, res.Table.order...)
	}
	b.aliases[b.fold(canonical.Name, false)] = binding
	return nodeID, binding
}

var insertPattern = regexp.MustCompile(`(?is)^\s*INSERT\s+INTO\s+([A-Za-z_][A-Za-z0-9_$]*(?:\.[A-Za-z_][A-Za-z0-9_$]*){0,2})\s*(\(\s*([^)]*)\s*\))?\s*(SELECT\b.*)?$`)

// analyzeInsert implements spec.md §4.4 "INSERT": resolve the target table,
// and when the statement is insert-from-select, analyze that query as a
// nested SELECT and wire its output columns into the target — positionally
// against the declared column list when present, else against the target's
// known columns in declaration order.
func analyzeInsert(b *statementBuilder, stmt sqlast.Statement) {
	m := insertPattern.FindStringSubmatch(stmt.Raw)
	if m == nil {
		return
	}
	targetID, targetBinding := b.resolveByText(m[1])

	var declaredColumns []string
	if m[3] != "" {
		for _, c := range strings.Split(m[3], ",") {
			declaredColumns = append(declaredColumns, strings.TrimSpace(c))
		}
	}

	selectText := strings.TrimSpace(m[4])
	if selectText == "" {
		return
	}
	sel, err := parser.ParseSelectStatement(selectText, sqlast.ModeFor(b.d))
	if err != nil {
		return
	}

	inner := b.analyzeNested(sel, "insert:source")
	b.mergeNested(inner)

	targetColumns := declaredColumns
	if len(targetColumns) == 0 {
		targetColumns = targetBinding.columns
	}

	for i, col := range inner.outputColumns {
		edge := model.Edge{FromNodeID: inner.outputNodeID, ToNodeID: targetID, EdgeType: model.EdgeDataFlow}
		if col != "" && col != "*" {
			c := col
			edge.FromColumn = &c
		}
		if i < len(targetColumns) {
			t := targetColumns[i]
			edge.ToColumn = &t
		}
		b.addEdge(edge)
	}
}

var updateTargetPattern = regexp.MustCompile(`(?is)^\s*UPDATE\s+([A-Za-z_][A-Za-z0-9_$]*(?:\.[A-Za-z_][A-Za-z0-9_$]*){0,2})`)
var deleteTargetPattern = regexp.MustCompile(`(?is)^\s*DELETE\s+FROM\s+([A-Za-z_][A-Za-z0-9_$]*(?:\.[A-Za-z_][A-Za-z0-9_$]*){0,2})`)
var wherePattern = regexp.MustCompile(`(?is)\bWHERE\b(.*?)(?:\bORDER\s+BY\b|\bLIMIT\b|\z)`)

// analyzeMutation implements spec.md §4.4 "UPDATE / DELETE": resolve the
// target table and record its WHERE-clause filters and column refs, the
// same way a SELECT's WHERE is handled.
func analyzeMutation(b *statementBuilder, stmt sqlast.Statement, targetPattern *regexp.Regexp) {
	tm := targetPattern.FindStringSubmatch(stmt.Raw)
	if tm == nil {
		return
	}
	b.resolveByText(tm[1])

	wm := wherePattern.FindStringSubmatch(stmt.Raw)
	if wm == nil {
		return
	}
	whereText := strings.TrimSpace(wm[1])
	if whereText == "" {
		return
	}
	expr, err := parser.ParseExpression(whereText, sqlast.ModeFor(b.d))
	if err != nil {
		return
	}
	exprText := parser.String(expr)
	for _, ref := range b.expr.ColumnRefs(expr) {
		b.recordFilterOnRef(ref, model.FilterWhere, exprText)
		b.validateRef(ref)
	}
}

// analyzeCreate implements spec.md §4.4/§4.5 "CREATE VIEW / CREATE TABLE
// AS": analyze the inner query like a SELECT, then register the defined
// relation with the cross-statement tracker and wire a data-flow edge from
// this statement's output into it.
func analyzeCreate(b *statementBuilder, stmt sqlast.Statement, tracker *CrossStatementTracker) {
	if stmt.Select != nil {
		b.processSelectLike(stmt.Select)
	}
	if stmt.DefinedName == nil {
		return
	}
	parts := splitDotted(*stmt.DefinedName)
	canonical := b.registry.Canonicalize(parts, falseSlice(len(parts)))

	kind := RelationTable
	if stmt.QueryType == sqlast.QueryCreateView {
		kind = RelationView
	}
	rel, dup := tracker.Register(canonical, kind, stmt.Index)
	if dup != nil {
		b.issues = append(b.issues, *dup)
	}

	relNode := model.NewTableNode(rel.NodeID, canonical.String())
	qn := canonical.String()
	relNode.QualifiedName = &qn
	b.addNode(relNode)

	if stmt.Select != nil {
		b.addEdge(model.Edge{FromNodeID: b.outputID, ToNodeID: rel.NodeID, EdgeType: model.EdgeDataFlow})
	}
}

// analyzeDDL implements spec.md §4.4 "other DDL": emit only a placeholder
// node for the declared object, with no further structural analysis (the
// statement carries no query to trace lineage through).
func analyzeDDL(b *statementBuilder, stmt sqlast.Statement) {
	if stmt.DefinedName == nil {
		return
	}
	parts := splitDotted(*stmt.DefinedName)
	canonical := b.registry.Canonicalize(parts, falseSlice(len(parts)))
	node := model.NewTableNode(hashid.NodeID(string(model.NodeTable), canonical.String()), canonical.String())
	qn := canonical.String()
	node.QualifiedName = &qn
	b.addNode(node)
}

// buildGlobalLineage stitches the request-wide graph (spec.md §4.5): one
// GlobalNode per tracked view/materialized-table relation plus every
// distinct catalog table referenced anywhere, a producer edge from each
// relation's source tables into it, and a consumer edge from the relation
// into every later statement's output that references it.
func buildGlobalLineage(tracker *CrossStatementTracker, lineageByIndex map[int]model.StatementLineage, statements []model.StatementLineage) model.GlobalLineage {
	var out model.GlobalLineage
	seenNode := make(map[string]bool)
	relByID := make(map[string]TrackedRelation)

	for _, rel := range tracker.Relations() {
		kind := string(rel.Kind)
		definedBy := rel.DefinedBy
		out.Nodes = append(out.Nodes, model.GlobalNode{
			ID:                 rel.NodeID,
			CanonicalName:      rel.Name.String(),
			Kind:               kind,
			DefinedByStatement: &definedBy,
		})
		seenNode[rel.NodeID] = true
		relByID[rel.NodeID] = rel
	}

	for _, lineage := range statements {
		for _, n := range lineage.Nodes {
			if n.NodeType != model.NodeTable || n.QualifiedName == nil || seenNode[n.ID] {
				continue
			}
			seenNode[n.ID] = true
			out.Nodes = append(out.Nodes, model.GlobalNode{ID: n.ID, CanonicalName: *n.QualifiedName, Kind: "table"})
		}
	}

	seenEdge := make(map[string]bool)
	addGlobalEdge := func(from, to string, stmtIndex int) {
		key := from + "|" + to + "|" + strconv.Itoa(stmtIndex)
		if seenEdge[key] {
			return
		}
		seenEdge[key] = true
		out.Edges = append(out.Edges, model.GlobalEdge{
			ID:             hashid.EdgeID(from, to),
			FromNodeID:     from,
			ToNodeID:       to,
			StatementIndex: stmtIndex,
		})
	}

	for _, rel := range tracker.Relations() {
		defining, ok := lineageByIndex[rel.DefinedBy]
		if !ok {
			continue
		}
		for _, n := range defining.Nodes {
			if n.NodeType == model.NodeTable && n.ID != rel.NodeID && n.QualifiedName != nil {
				addGlobalEdge(n.ID, rel.NodeID, rel.DefinedBy)
			}
		}
	}

	for _, lineage := range statements {
		outputID := hashid.OutputNodeID(lineage.Index)
		for _, n := range lineage.Nodes {
			rel, tracked := relByID[n.ID]
			if !tracked || rel.DefinedBy == lineage.Index {
				continue
			}
			addGlobalEdge(n.ID, outputID, lineage.Index)
		}
	}

	return out
}

func countDistinctTables(statements []model.StatementLineage) int {
	seen := make(map[string]bool)
	for _, lineage := range statements {
		for _, n := range lineage.Nodes {
			if n.NodeType == model.NodeTable && n.QualifiedName != nil {
				seen[*n.QualifiedName] = true
			}
		}
	}
	return len(seen)
}
