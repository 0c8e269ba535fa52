package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flowscope/flowscope/model"
)

// Scenario 1 (spec.md §8): SELECT * expands against a known catalog table
// with no warnings.
func TestAnalyzeSelectStarExpandsProjection(t *testing.T) {
	schema := &model.SchemaMetadata{Tables: []model.SchemaTable{
		{Name: "users", Columns: []model.ColumnSchema{{Name: "id"}, {Name: "name"}, {Name: "email"}}},
	}}
	result := Analyze(model.AnalyzeRequest{SQL: "SELECT * FROM users", Dialect: model.Ansi, Schema: schema})

	assert.False(t, result.Summary.HasErrors)
	assert.Empty(t, result.Issues)
	assert.Len(t, result.Statements, 1)

	var tableNodes int
	for _, n := range result.Statements[0].Nodes {
		if n.NodeType == model.NodeTable && n.Label != "output" {
			tableNodes++
		}
	}
	assert.Equal(t, 1, tableNodes)

	var projections int
	for _, e := range result.Statements[0].Edges {
		if e.EdgeType == model.EdgeProjection {
			projections++
		}
	}
	assert.Equal(t, 3, projections)
}

// Scenario 2 (spec.md §8): two tables, one Join edge, complexity 20.
func TestAnalyzeJoinProducesTwoTablesOneJoinComplexity20(t *testing.T) {
	result := Analyze(model.AnalyzeRequest{
		SQL: "SELECT u.id, o.total FROM users u JOIN orders o ON u.id = o.user_id",
		Dialect: model.Ansi,
		Schema:  &model.SchemaMetadata{AllowImplied: true},
	})

	assert.False(t, result.Summary.HasErrors)
	stmt := result.Statements[0]
	assert.Equal(t, 20, stmt.ComplexityScore)

	var tableNodes, joinEdges int
	for _, n := range stmt.Nodes {
		if n.NodeType == model.NodeTable && n.Label != "output" {
			tableNodes++
		}
	}
	for _, e := range stmt.Edges {
		if e.EdgeType == model.EdgeJoin {
			joinEdges++
		}
	}
	assert.Equal(t, 2, tableNodes)
	assert.GreaterOrEqual(t, joinEdges, 1)
	assert.GreaterOrEqual(t, result.Summary.TableCount, 2)
}

// Scenario 4 (spec.md §8): trailing comma before FROM only surfaces with
// lint enabled, and the malformed SELECT list still degrades gracefully.
func TestAnalyzeTrailingCommaLintRequiresLintEnabled(t *testing.T) {
	withLint := Analyze(model.AnalyzeRequest{SQL: "select a, from t", Dialect: model.Ansi})
	assert.True(t, hasIssueCode(withLint.Issues, "LINT_CV_003"))

	disabled := false
	withoutLint := Analyze(model.AnalyzeRequest{
		SQL: "select a, from t", Dialect: model.Ansi,
		Options: &model.AnalysisOptions{LintEnabled: &disabled},
	})
	assert.False(t, hasIssueCode(withoutLint.Issues, "LINT_CV_003"))
}

// Scenario 5 (spec.md §8): CREATE VIEW then SELECT FROM it stitches a
// global edge users -> v -> statement-2 output.
func TestAnalyzeGlobalLineageStitchesViewAcrossStatements(t *testing.T) {
	result := Analyze(model.AnalyzeRequest{
		SQL:     "CREATE VIEW v AS SELECT id FROM users; SELECT * FROM v;",
		Dialect: model.Ansi,
		Schema:  &model.SchemaMetadata{AllowImplied: true},
	})

	assert.False(t, result.Summary.HasErrors)
	assert.Len(t, result.Statements, 2)

	var usersID, vID string
	for _, n := range result.GlobalLineage.Nodes {
		switch n.CanonicalName {
		case "v":
			vID = n.ID
		case "users":
			usersID = n.ID
		}
	}
	assert.NotEmpty(t, vID)
	assert.NotEmpty(t, usersID)

	var hasProducer, hasConsumer bool
	for _, e := range result.GlobalLineage.Edges {
		if e.FromNodeID == usersID && e.ToNodeID == vID {
			hasProducer = true
		}
		if e.FromNodeID == vID && e.StatementIndex == 1 {
			hasConsumer = true
		}
	}
	assert.True(t, hasProducer, "expected users -> v producer edge")
	assert.True(t, hasConsumer, "expected v -> statement-2 output consumer edge")
}

// Scenario 6 (spec.md §8): a column missing from the supplied catalog
// warns but never errors.
func TestAnalyzeUnknownColumnWarnsNotErrors(t *testing.T) {
	result := Analyze(model.AnalyzeRequest{
		SQL:     "SELECT x FROM users",
		Dialect: model.Ansi,
		Schema:  &model.SchemaMetadata{Tables: []model.SchemaTable{{Name: "users", Columns: []model.ColumnSchema{{Name: "id"}}}}},
	})

	assert.False(t, result.Summary.HasErrors)
	var found bool
	for _, issue := range result.Issues {
		if issue.Code == model.CodeUnknownColumn {
			found = true
			assert.Contains(t, issue.Message, "x")
		}
	}
	assert.True(t, found)
}

func TestAnalyzeMalformedRequestIsInvalid(t *testing.T) {
	result := Analyze(model.AnalyzeRequest{})
	assert.True(t, result.Summary.HasErrors)
	assert.Empty(t, result.Statements)
	assert.Equal(t, model.CodeInvalidRequest, result.Issues[0].Code)
}

// P3 (spec.md §8): malformed SQL never panics and always yields a
// PARSE_ERROR rather than aborting the whole request.
func TestAnalyzeUnparsableStatementYieldsParseError(t *testing.T) {
	result := Analyze(model.AnalyzeRequest{SQL: "SELEC fro garbage *(((", Dialect: model.Ansi})
	assert.True(t, hasIssueCode(result.Issues, model.CodeParseError))
	assert.True(t, result.Summary.HasErrors)
}

// P5 (spec.md §8): complexity score always lands in [1, 100] regardless of
// statement shape.
func TestAnalyzeComplexityScoreAlwaysInRange(t *testing.T) {
	result := Analyze(model.AnalyzeRequest{
		SQL:     "SELECT 1",
		Dialect: model.Ansi,
	})
	for _, stmt := range result.Statements {
		assert.GreaterOrEqual(t, stmt.ComplexityScore, 1)
		assert.LessOrEqual(t, stmt.ComplexityScore, 100)
	}
}

func TestAnalyzeInsertSelectWiresDataFlowToTarget(t *testing.T) {
	result := Analyze(model.AnalyzeRequest{
		SQL:     "INSERT INTO archive (id, name) SELECT id, name FROM users",
		Dialect: model.Ansi,
		Schema:  &model.SchemaMetadata{AllowImplied: true},
	})
	assert.False(t, result.Summary.HasErrors)
	var found bool
	for _, e := range result.Statements[0].Edges {
		if e.EdgeType == model.EdgeDataFlow && e.ToColumn != nil && *e.ToColumn == "id" {
			found = true
		}
	}
	assert.True(t, found)
}

func hasIssueCode(issues []model.Issue, code string) bool {
	for _, i := range issues {
		if i.Code == code {
			return true
		}
	}
	return false
}
