package sqlast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flowscope/flowscope/model"
)

func TestSplitDividesOnSemicolonsAndTracksSpans(t *testing.T) {
	chunks := Split("select 1; select 2;")
	assert.Len(t, chunks, 2)
	assert.Equal(t, "select 1", chunks[0].Raw)
	assert.Equal(t, "select 2", chunks[1].Raw)
	assert.Equal(t, "select 1", "select 1; select 2;"[chunks[0].Span.Start:chunks[0].Span.End])
}

func TestSplitDropsEmptyStatementsAndLeadingComments(t *testing.T) {
	sql := "-- a leading comment\nselect 1;;  \n  select 2"
	chunks := Split(sql)
	assert.Len(t, chunks, 2)
	assert.Equal(t, "select 1", chunks[0].Raw)
	assert.Equal(t, "select 2", chunks[1].Raw)
}

func TestClassifyRecognizesEachQueryType(t *testing.T) {
	assert.Equal(t, QuerySelect, Classify("select 1"))
	assert.Equal(t, QuerySelect, Classify("with x as (select 1) select * from x"))
	assert.Equal(t, QueryInsert, Classify("insert into t values (1)"))
	assert.Equal(t, QueryUpdate, Classify("update t set a = 1"))
	assert.Equal(t, QueryDelete, Classify("delete from t"))
	assert.Equal(t, QueryCreateView, Classify("create view v as select 1"))
	assert.Equal(t, QueryCreateTableAs, Classify("create table t as select 1"))
	assert.Equal(t, QueryDDL, Classify("create table t (id int)"))
	assert.Equal(t, QueryDDL, Classify("alter table t add column c int"))
	assert.Equal(t, QueryOther, Classify("vacuum t"))
}

func TestModeForMapsDialectsToNearestLexer(t *testing.T) {
	assert.Equal(t, ModeFor(model.Mysql), ModeFor(model.Mysql))
	assert.NotEqual(t, ModeFor(model.Mysql), ModeFor(model.Mssql))
	assert.Equal(t, ModeFor(model.Sqlite), ModeFor(model.Duckdb))
	assert.Equal(t, ModeFor(model.Postgres), ModeFor(model.Redshift))
	assert.Equal(t, ModeFor(model.Generic), ModeFor(model.Ansi))
}

func TestParseAllReturnsStatementsForWellFormedSQL(t *testing.T) {
	statements, issues := ParseAll("select 1; select 2", model.Ansi, nil, 0)
	assert.Empty(t, issues)
	assert.Len(t, statements, 2)
	assert.Equal(t, 0, statements[0].Index)
	assert.Equal(t, 1, statements[1].Index)
	assert.Equal(t, QuerySelect, statements[0].QueryType)
}

func TestParseAllReportsParseErrorButKeepsGoing(t *testing.T) {
	statements, issues := ParseAll("select 1; garbage ((( not sql", model.Ansi, nil, 0)
	assert.Len(t, statements, 1)
	assert.NotEmpty(t, issues)
	assert.Equal(t, model.CodeParseError, issues[0].Code)
}

func TestParseAllExtractsCreateViewDefinitionAndName(t *testing.T) {
	statements, issues := ParseAll("create view v as select id from users", model.Ansi, nil, 0)
	assert.Empty(t, issues)
	assert.Len(t, statements, 1)
	assert.Equal(t, QueryCreateView, statements[0].QueryType)
	assert.NotNil(t, statements[0].Select)
	assert.NotNil(t, statements[0].DefinedName)
	assert.Equal(t, "v", *statements[0].DefinedName)
}

func TestParseAllExtractsCreateTableAsInnerSelect(t *testing.T) {
	statements, issues := ParseAll("create table archive as select id from users", model.Ansi, nil, 0)
	assert.Empty(t, issues)
	assert.Len(t, statements, 1)
	assert.Equal(t, QueryCreateTableAs, statements[0].QueryType)
	assert.NotNil(t, statements[0].Select)
	assert.NotNil(t, statements[0].DefinedName)
	assert.Equal(t, "archive", *statements[0].DefinedName)
}

func TestParseAllAssignsSourceNameAndStartIndex(t *testing.T) {
	name := "migration.sql"
	statements, _ := ParseAll("select 1", model.Ansi, &name, 5)
	assert.Equal(t, 5, statements[0].Index)
	assert.Equal(t, &name, statements[0].SourceName)
}
