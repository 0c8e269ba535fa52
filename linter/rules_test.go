package linter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flowscope/flowscope/model"
)

func ctx(raw string) Context {
	return Context{Dialect: model.Ansi, Raw: raw, StatementIndex: 0}
}

func TestTrailingCommaBeforeFromFires(t *testing.T) {
	r := newTrailingCommaBeforeFromRule()
	assert.NotEmpty(t, r.Check(ctx("select a, from t"), nil))
	assert.Empty(t, r.Check(ctx("select a from t"), nil))
}

func TestInconsistentKeywordCaseFiresOnMixedCase(t *testing.T) {
	r := newInconsistentKeywordCaseRule()
	assert.NotEmpty(t, r.Check(ctx("SELECT a from t"), nil))
	assert.Empty(t, r.Check(ctx("select a from t"), nil))
	assert.Empty(t, r.Check(ctx("SELECT a FROM t"), nil))
}

func TestMixedIndentationFiresOnTabsAndSpaces(t *testing.T) {
	r := newMixedIndentationRule()
	raw := "select a\n\tfrom t\n  where a > 1"
	assert.NotEmpty(t, r.Check(ctx(raw), nil))
	assert.Empty(t, r.Check(ctx("select a\n\tfrom t\n\twhere a > 1"), nil))
}

func TestExcessiveBlankLinesFiresOnTwoConsecutiveBlanks(t *testing.T) {
	r := newExcessiveBlankLinesRule()
	assert.NotEmpty(t, r.Check(ctx("select a\n\n\nfrom t"), nil))
	assert.Empty(t, r.Check(ctx("select a\n\nfrom t"), nil))
}

func TestUnusedTableAliasFiresWhenAliasNeverQualifiesAColumn(t *testing.T) {
	r := newUnusedTableAliasRule()
	assert.NotEmpty(t, r.Check(ctx("select a from users u"), nil))
	assert.Empty(t, r.Check(ctx("select u.a from users u"), nil))
}

func TestUnusedTableAliasIgnoresClauseKeywordsMatchedAsAlias(t *testing.T) {
	r := newUnusedTableAliasRule()
	assert.Empty(t, r.Check(ctx("select a from users where a > 1"), nil))
}

func TestBareJoinFiresWithoutQualifier(t *testing.T) {
	r := newBareJoinRule()
	assert.NotEmpty(t, r.Check(ctx("select * from a join b on a.id = b.id"), nil))
	assert.Empty(t, r.Check(ctx("select * from a inner join b on a.id = b.id"), nil))
	assert.Empty(t, r.Check(ctx("select * from a left outer join b on a.id = b.id"), nil))
}

func TestMixedColumnQualificationFiresWhenJoinMixesQualifiedAndBare(t *testing.T) {
	r := newMixedColumnQualificationRule()
	assert.NotEmpty(t, r.Check(ctx("select u.id, total from users u join orders o on u.id = o.user_id"), nil))
	assert.Empty(t, r.Check(ctx("select u.id, o.total from users u join orders o on u.id = o.user_id"), nil))
	assert.Empty(t, r.Check(ctx("select id, total from users"), nil))
}

func TestRedundantColumnOrderFiresOnScenario3(t *testing.T) {
	r := newRedundantColumnOrderRule()
	found := r.Check(ctx("select a + 1, a from t"), nil)
	assert.NotEmpty(t, found)
	assert.Equal(t, "LINT_ST_006", found[0].Code)
	assert.Empty(t, r.Check(ctx("select a, a + 1 from t"), nil))
}

func TestTsqlConcatOperatorOnlyFiresForMssql(t *testing.T) {
	r := newTsqlConcatOperatorRule()
	mssqlCtx := Context{Dialect: model.Mssql, Raw: "select 'a' + name from t"}
	assert.NotEmpty(t, r.Check(mssqlCtx, nil))

	ansiCtx := Context{Dialect: model.Ansi, Raw: "select 'a' + name from t"}
	assert.Empty(t, r.Check(ansiCtx, nil))
}

func TestSplitTopLevelRespectsParenDepth(t *testing.T) {
	got := splitTopLevel("a, f(b, c), d")
	assert.Equal(t, []string{"a", " f(b, c)", " d"}, got)
}

func TestDefaultRuleSetRunsInStableOrder(t *testing.T) {
	l := Default()
	first := l.Check(ctx("select a, from t"), Config{Enabled: true})
	second := l.Check(ctx("select a, from t"), Config{Enabled: true})
	assert.Equal(t, first, second)
}

func TestCheckSkipsDisabledRulesAndTagsStatementIndex(t *testing.T) {
	l := New(newTrailingCommaBeforeFromRule())
	cfg := Config{Enabled: true, RuleOverrides: map[string]bool{"LINT_CV_003": false}}
	assert.Empty(t, l.Check(Context{Raw: "select a, from t", StatementIndex: 2}, cfg))

	cfg = Config{Enabled: true}
	issues := l.Check(Context{Raw: "select a, from t", StatementIndex: 2}, cfg)
	assert.Len(t, issues, 1)
	assert.Equal(t, 2, *issues[0].StatementIndex)
}

func TestCheckDisabledReturnsNothing(t *testing.T) {
	l := Default()
	assert.Empty(t, l.Check(ctx("select a, from t"), Config{Enabled: false}))
}

func TestSelfAliasColumnFiresOnSameName(t *testing.T) {
	r := newSelfAliasColumnRule()
	assert.NotEmpty(t, r.Check(ctx("select a as a from t"), nil))
	assert.NotEmpty(t, r.Check(ctx("select t.a as a from t"), nil))
	assert.Empty(t, r.Check(ctx("select a as b from t"), nil))
	assert.Empty(t, r.Check(ctx("select a + 1 as a from t"), nil))
}

func TestCoalesceConventionFiresOnIfnullAndNvl(t *testing.T) {
	r := newCoalesceConventionRule()
	assert.NotEmpty(t, r.Check(ctx("select ifnull(a, 0) from t"), nil))
	assert.NotEmpty(t, r.Check(ctx("select nvl(a, 0) from t"), nil))
	assert.Empty(t, r.Check(ctx("select coalesce(a, 0) from t"), nil))
}

func TestCountStyleFiresOnCountOne(t *testing.T) {
	r := newCountStyleRule()
	assert.Len(t, r.Check(ctx("select count(1), count(1) from t"), nil), 2)
	assert.Empty(t, r.Check(ctx("select count(*) from t"), nil))
	assert.Empty(t, r.Check(ctx("select count(id) from t"), nil))
}

func TestStatementBracketsFiresOnFullStatementWrap(t *testing.T) {
	r := newStatementBracketsRule()
	assert.NotEmpty(t, r.Check(ctx("(select 1)"), nil))
	assert.Empty(t, r.Check(ctx("select 1"), nil))
	assert.Empty(t, r.Check(ctx("select * from (select 1) as t"), nil))
}

func TestBlockedWordsFiresOnPlaceholder(t *testing.T) {
	r := newBlockedWordsRule()
	assert.NotEmpty(t, r.Check(ctx("select foo from t"), nil))
	assert.Empty(t, r.Check(ctx("select customer_id from t"), nil))
}

func TestCastingStyleFiresOnMixedCastAndColonColon(t *testing.T) {
	r := newCastingStyleRule()
	assert.NotEmpty(t, r.Check(ctx("select cast(a as int)::text from t"), nil))
	assert.Empty(t, r.Check(ctx("select a::int from t"), nil))
	assert.Empty(t, r.Check(ctx("select cast(a as int) from t"), nil))
}

func TestTrailingOperatorFiresOnLineEndOperator(t *testing.T) {
	r := newTrailingOperatorRule()
	assert.NotEmpty(t, r.Check(ctx("select a +\n b from t"), nil))
	assert.Empty(t, r.Check(ctx("select a\n + b from t"), nil))
}

func TestCommaSpacingFiresOnTightComma(t *testing.T) {
	r := newCommaSpacingRule()
	assert.NotEmpty(t, r.Check(ctx("select a,b from t"), nil))
	assert.Empty(t, r.Check(ctx("select a, b from t"), nil))
	assert.Empty(t, r.Check(ctx("select 'a,b' as txt, b from t"), nil))
}

func TestSelectModifierLayoutFiresOnModifierOnNextLine(t *testing.T) {
	r := newSelectModifierLayoutRule()
	assert.NotEmpty(t, r.Check(ctx("select\ndistinct a\nfrom t"), nil))
	assert.Empty(t, r.Check(ctx("select distinct a from t"), nil))
}

func TestSetOperatorLayoutFiresWhenOperatorSharesLine(t *testing.T) {
	r := newSetOperatorLayoutRule()
	assert.NotEmpty(t, r.Check(ctx("select 1 union select 2\nunion select 3"), nil))
	assert.Empty(t, r.Check(ctx("select 1\nunion\nselect 2\nunion\nselect 3"), nil))
	assert.Empty(t, r.Check(ctx("select 1\nunion all\nselect 2"), nil))
}

func TestSpecialCharsFiresOnHyphenatedQuotedIdentifier(t *testing.T) {
	r := newSpecialCharsRule()
	assert.NotEmpty(t, r.Check(ctx(`select "bad-name" from t`), nil))
	assert.Empty(t, r.Check(ctx(`select "good_name" from t`), nil))
	assert.Empty(t, r.Check(ctx(`select '"bad-name"' as note from t`), nil))
}

func TestUnnecessaryElseNullFiresOncePerOccurrence(t *testing.T) {
	r := newUnnecessaryElseNullRule()
	assert.Len(t, r.Check(ctx("select case when x > 1 then 'a' else null end from t"), nil), 1)
	assert.Empty(t, r.Check(ctx("select case when x > 1 then 'a' else 'b' end from t"), nil))
}

func TestDistinctParensFiresOnSingleParenthesizedItem(t *testing.T) {
	r := newDistinctParensRule()
	assert.NotEmpty(t, r.Check(ctx("select distinct(a) from t"), nil))
	assert.Empty(t, r.Check(ctx("select distinct a from t"), nil))
	assert.Empty(t, r.Check(ctx("select distinct(a), b from t"), nil))
}

func TestConsecutiveSemicolonsFiresOnFirstStatementOnly(t *testing.T) {
	r := newConsecutiveSemicolonsRule()
	assert.NotEmpty(t, r.Check(ctx("select 1;;"), nil))
	assert.Empty(t, r.Check(ctx("select 1;"), nil))
	assert.Empty(t, r.Check(Context{Dialect: model.Ansi, Raw: "select 1;;", StatementIndex: 1}, nil))
}

func TestProcedureBeginEndOnlyFiresForMssqlWithoutBlock(t *testing.T) {
	r := newProcedureBeginEndRule()
	mssqlCtx := Context{Dialect: model.Mssql, Raw: "create procedure p as select 1;"}
	assert.NotEmpty(t, r.Check(mssqlCtx, nil))

	withBlock := Context{Dialect: model.Mssql, Raw: "create procedure p as begin select 1; end;"}
	assert.Empty(t, r.Check(withBlock, nil))

	ansiCtx := Context{Dialect: model.Ansi, Raw: "create procedure p as select 1;"}
	assert.Empty(t, r.Check(ansiCtx, nil))
}
