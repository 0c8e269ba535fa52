package linter

import (
	"regexp"
	"strings"

	"github.com/flowscope/flowscope/model"
)

// meta carries a rule's fixed identity (spec.md §4.6, SPEC_FULL.md §C
// "sqlfluff_name()"). Rule implementations embed it and only need to write
// Check.
type meta struct {
	code         string
	name         string
	description  string
	sqlfluffName string
}

func (m meta) Code() string         { return m.code }
func (m meta) Name() string         { return m.name }
func (m meta) Description() string  { return m.description }
func (m meta) SQLFluffName() string { return m.sqlfluffName }

// builtinRules lists every rule in dispatch order (spec.md §4.6 "stable
// across runs"). Category prefixes follow spec.md §4.6's SQLFluff-parity
// scheme: AL aliasing, AM ambiguity, CV convention, LT layout, RF
// references, ST structure, TQ TSQL-specific.
func builtinRules() []Rule {
	return []Rule{
		newTrailingCommaBeforeFromRule(),
		newInconsistentKeywordCaseRule(),
		newMixedIndentationRule(),
		newExcessiveBlankLinesRule(),
		newUnusedTableAliasRule(),
		newBareJoinRule(),
		newMixedColumnQualificationRule(),
		newRedundantColumnOrderRule(),
		newTsqlConcatOperatorRule(),
		newSelfAliasColumnRule(),
		newCoalesceConventionRule(),
		newCountStyleRule(),
		newStatementBracketsRule(),
		newBlockedWordsRule(),
		newCastingStyleRule(),
		newTrailingOperatorRule(),
		newCommaSpacingRule(),
		newSelectModifierLayoutRule(),
		newSetOperatorLayoutRule(),
		newSpecialCharsRule(),
		newUnnecessaryElseNullRule(),
		newDistinctParensRule(),
		newConsecutiveSemicolonsRule(),
		newProcedureBeginEndRule(),
	}
}

// stringLiteralPattern matches single-quoted SQL string literals so rules
// that scan raw text for keywords/punctuation can ignore text that only
// happens to appear inside a literal.
var stringLiteralPattern = regexp.MustCompile(`'(?:[^'\\]|\\.)*'`)

func withoutStringLiterals(s string) string {
	return stringLiteralPattern.ReplaceAllString(s, "''")
}

// --- CV_003: trailing comma before FROM -------------------------------

type trailingCommaBeforeFromRule struct{ meta }

func newTrailingCommaBeforeFromRule() trailingCommaBeforeFromRule {
	return trailingCommaBeforeFromRule{meta{
		code: "LINT_CV_003", name: "trailing-comma-before-from",
		description:  "a comma immediately before FROM leaves a dangling SELECT-list item",
		sqlfluffName: "convention.trailing_comma",
	}}
}

var trailingCommaPattern = regexp.MustCompile(`(?is),\s*\bFROM\b`)

func (r trailingCommaBeforeFromRule) Check(ctx Context, _ map[string]string) []model.Issue {
	if !trailingCommaPattern.MatchString(ctx.Raw) {
		return nil
	}
	return []model.Issue{model.WarningIssue(r.code, "trailing comma before FROM")}
}

// --- CV_010: inconsistent keyword case ---------------------------------

type inconsistentKeywordCaseRule struct{ meta }

func newInconsistentKeywordCaseRule() inconsistentKeywordCaseRule {
	return inconsistentKeywordCaseRule{meta{
		code: "LINT_CV_010", name: "inconsistent-keyword-case",
		description:  "keywords in one statement mix upper and lower case",
		sqlfluffName: "convention.casing",
	}}
}

var keywordPattern = regexp.MustCompile(`(?i)\b(select|from|where|join|on|group by|order by|having|insert|update|delete|create|and|or)\b`)

func (r inconsistentKeywordCaseRule) Check(ctx Context, _ map[string]string) []model.Issue {
	matches := keywordPattern.FindAllString(ctx.Raw, -1)
	if len(matches) < 2 {
		return nil
	}
	sawUpper, sawLower := false, false
	for _, m := range matches {
		if m == strings.ToUpper(m) {
			sawUpper = true
		}
		if m == strings.ToLower(m) {
			sawLower = true
		}
	}
	if sawUpper && sawLower {
		return []model.Issue{model.InfoIssue(r.code, "keywords mix upper and lower case within one statement")}
	}
	return nil
}

// --- LT_002: mixed indentation ------------------------------------------

type mixedIndentationRule struct{ meta }

func newMixedIndentationRule() mixedIndentationRule {
	return mixedIndentationRule{meta{
		code: "LINT_LT_002", name: "mixed-indentation",
		description:  "a statement indents some lines with tabs and others with spaces",
		sqlfluffName: "layout.indent",
	}}
}

func (r mixedIndentationRule) Check(ctx Context, _ map[string]string) []model.Issue {
	sawTab, sawSpace := false, false
	for _, line := range strings.Split(ctx.Raw, "\n") {
		if strings.HasPrefix(line, "\t") {
			sawTab = true
		} else if strings.HasPrefix(line, "  ") {
			sawSpace = true
		}
	}
	if sawTab && sawSpace {
		return []model.Issue{model.WarningIssue(r.code, "statement mixes tab and space indentation")}
	}
	return nil
}

// --- LT_005: excessive blank lines --------------------------------------

type excessiveBlankLinesRule struct{ meta }

func newExcessiveBlankLinesRule() excessiveBlankLinesRule {
	return excessiveBlankLinesRule{meta{
		code: "LINT_LT_005", name: "excessive-blank-lines",
		description:  "two or more consecutive blank lines inside one statement",
		sqlfluffName: "layout.spacing",
	}}
}

var blankRunPattern = regexp.MustCompile(`\n[ \t]*\n[ \t]*\n`)

func (r excessiveBlankLinesRule) Check(ctx Context, _ map[string]string) []model.Issue {
	if blankRunPattern.MatchString(ctx.Raw) {
		return []model.Issue{model.InfoIssue(r.code, "excessive blank lines within statement")}
	}
	return nil
}

// --- AL_002: unused table alias -----------------------------------------

type unusedTableAliasRule struct{ meta }

func newUnusedTableAliasRule() unusedTableAliasRule {
	return unusedTableAliasRule{meta{
		code: "LINT_AL_002", name: "unused-table-alias",
		description:  "a FROM-clause alias is declared but never referenced",
		sqlfluffName: "aliasing.unused",
	}}
}

var tableAliasPattern = regexp.MustCompile(`(?is)\bFROM\s+[A-Za-z_][\w.]*\s+(?:AS\s+)?([A-Za-z_]\w*)\b`)

func (r unusedTableAliasRule) Check(ctx Context, _ map[string]string) []model.Issue {
	m := tableAliasPattern.FindStringSubmatch(ctx.Raw)
	if m == nil {
		return nil
	}
	alias := m[1]
	switch strings.ToUpper(alias) {
	case "WHERE", "JOIN", "GROUP", "ORDER", "HAVING", "LIMIT", "UNION":
		return nil
	}
	at := strings.Index(ctx.Raw, m[0])
	elsewhere := ctx.Raw[:at] + " " + ctx.Raw[at+len(m[0]):]
	usePattern := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(alias) + `\s*\.`)
	if usePattern.MatchString(elsewhere) {
		return nil
	}
	return []model.Issue{model.InfoIssue(r.code, "table alias \""+alias+"\" is declared but never qualifies a column")}
}

// --- AM_005: bare JOIN ----------------------------------------------------

type bareJoinRule struct{ meta }

func newBareJoinRule() bareJoinRule {
	return bareJoinRule{meta{
		code: "LINT_AM_005", name: "bare-join",
		description:  "a JOIN with no INNER/LEFT/RIGHT/FULL/CROSS qualifier is ambiguous to a reader",
		sqlfluffName: "ambiguous.join",
	}}
}

var bareJoinPattern = regexp.MustCompile(`(?i)(?:^|[^A-Z])JOIN\b`)
var qualifiedJoinPattern = regexp.MustCompile(`(?i)\b(INNER|LEFT|RIGHT|FULL|CROSS|NATURAL)\s+(?:OUTER\s+)?JOIN\b`)

func (r bareJoinRule) Check(ctx Context, _ map[string]string) []model.Issue {
	joins := bareJoinPattern.FindAllStringIndex(ctx.Raw, -1)
	qualified := qualifiedJoinPattern.FindAllStringIndex(ctx.Raw, -1)
	if len(joins) > len(qualified) {
		return []model.Issue{model.WarningIssue(r.code, "JOIN without an explicit INNER/LEFT/RIGHT/FULL/CROSS qualifier")}
	}
	return nil
}

// --- RF_003: mixed column qualification ----------------------------------

type mixedColumnQualificationRule struct{ meta }

func newMixedColumnQualificationRule() mixedColumnQualificationRule {
	return mixedColumnQualificationRule{meta{
		code: "LINT_RF_003", name: "mixed-qualification",
		description:  "a multi-table statement qualifies some column references but not others",
		sqlfluffName: "references.qualification",
	}}
}

var joinKeywordPattern = regexp.MustCompile(`(?i)\bJOIN\b`)
var selectListPattern = regexp.MustCompile(`(?is)\bSELECT\b(.*?)\bFROM\b`)
var qualifiedColPattern = regexp.MustCompile(`\b[A-Za-z_]\w*\.[A-Za-z_]\w*\b`)
var bareIdentPattern = regexp.MustCompile(`\b[A-Za-z_]\w*\b`)

func (r mixedColumnQualificationRule) Check(ctx Context, _ map[string]string) []model.Issue {
	if !joinKeywordPattern.MatchString(ctx.Raw) {
		return nil
	}
	m := selectListPattern.FindStringSubmatch(ctx.Raw)
	if m == nil {
		return nil
	}
	list := m[1]
	hasQualified := qualifiedColPattern.MatchString(list)
	withoutQualified := qualifiedColPattern.ReplaceAllString(list, "")
	hasBare := false
	for _, tok := range bareIdentPattern.FindAllString(withoutQualified, -1) {
		if tok == "" || tok == "," {
			continue
		}
		hasBare = true
		break
	}
	if hasQualified && hasBare {
		return []model.Issue{model.InfoIssue(r.code, "SELECT list mixes qualified and unqualified column references across a multi-table query")}
	}
	return nil
}

// --- ST_006: redundant column after derived expression -------------------

type redundantColumnOrderRule struct{ meta }

func newRedundantColumnOrderRule() redundantColumnOrderRule {
	return redundantColumnOrderRule{meta{
		code: "LINT_ST_006", name: "redundant-column-order",
		description:  "a bare column appears in the SELECT list after an expression that already derives from it",
		sqlfluffName: "structure.column_order",
	}}
}

func (r redundantColumnOrderRule) Check(ctx Context, _ map[string]string) []model.Issue {
	m := selectListPattern.FindStringSubmatch(ctx.Raw)
	if m == nil {
		return nil
	}
	items := splitTopLevel(m[1])
	seenDerivedFrom := make(map[string]bool)
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if bareIdentPattern.MatchString(trimmed) && trimmed == bareIdentPattern.FindString(trimmed) {
			if seenDerivedFrom[strings.ToLower(trimmed)] {
				return []model.Issue{model.InfoIssue(r.code, "column \""+trimmed+"\" repeats a column already consumed by an earlier SELECT-list expression")}
			}
			continue
		}
		for _, ident := range bareIdentPattern.FindAllString(trimmed, -1) {
			seenDerivedFrom[strings.ToLower(ident)] = true
		}
	}
	return nil
}

// splitTopLevel splits a comma-separated list on commas not nested inside
// parentheses — good enough for a token-level lint rule that never needs a
// full expression parse.
func splitTopLevel(s string) []string {
	var out []string
	depth := 0
	last := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				out = append(out, s[last:i])
				last = i + 1
			}
		}
	}
	out = append(out, s[last:])
	return out
}

// --- TQ_001: TSQL string concatenation with + ----------------------------

type tsqlConcatOperatorRule struct{ meta }

func newTsqlConcatOperatorRule() tsqlConcatOperatorRule {
	return tsqlConcatOperatorRule{meta{
		code: "LINT_TQ_001", name: "tsql-plus-concat",
		description:  "string concatenation via + is NULL-propagating and easy to confuse with arithmetic",
		sqlfluffName: "tsql.concat",
	}}
}

var concatPattern = regexp.MustCompile(`'[^']*'\s*\+\s*`)

func (r tsqlConcatOperatorRule) Check(ctx Context, _ map[string]string) []model.Issue {
	if ctx.Dialect != model.Mssql {
		return nil
	}
	if concatPattern.MatchString(ctx.Raw) {
		return []model.Issue{model.InfoIssue(r.code, "string literal concatenated with +; consider CONCAT() to avoid NULL propagation")}
	}
	return nil
}

// --- AL_009: self-alias column ------------------------------------------

type selfAliasColumnRule struct{ meta }

func newSelfAliasColumnRule() selfAliasColumnRule {
	return selfAliasColumnRule{meta{
		code: "LINT_AL_009", name: "self-alias-column",
		description:  "a SELECT-list column is aliased to its own name",
		sqlfluffName: "aliasing.self_alias",
	}}
}

var asAliasPattern = regexp.MustCompile(`(?is)^([A-Za-z_][\w.]*)\s+AS\s+([A-Za-z_]\w*)$`)

func (r selfAliasColumnRule) Check(ctx Context, _ map[string]string) []model.Issue {
	m := selectListPattern.FindStringSubmatch(ctx.Raw)
	if m == nil {
		return nil
	}
	var issues []model.Issue
	for _, item := range splitTopLevel(m[1]) {
		am := asAliasPattern.FindStringSubmatch(strings.TrimSpace(item))
		if am == nil {
			continue
		}
		source := am[1]
		if idx := strings.LastIndex(source, "."); idx >= 0 {
			source = source[idx+1:]
		}
		if strings.EqualFold(source, am[2]) {
			issues = append(issues, model.InfoIssue(r.code, "column aliased to its own name: \""+am[2]+"\""))
		}
	}
	return issues
}

// --- CV_001: prefer COALESCE over IFNULL/NVL -----------------------------

type coalesceConventionRule struct{ meta }

func newCoalesceConventionRule() coalesceConventionRule {
	return coalesceConventionRule{meta{
		code: "LINT_CV_001", name: "coalesce-convention",
		description:  "IFNULL/NVL should be written as COALESCE for portability",
		sqlfluffName: "convention.coalesce",
	}}
}

var ifnullNvlPattern = regexp.MustCompile(`(?i)\b(IFNULL|NVL)\s*\(`)

func (r coalesceConventionRule) Check(ctx Context, _ map[string]string) []model.Issue {
	var issues []model.Issue
	for _, m := range ifnullNvlPattern.FindAllStringSubmatch(ctx.Raw, -1) {
		fn := strings.ToUpper(m[1])
		issues = append(issues, model.InfoIssue(r.code, "use COALESCE instead of "+fn))
	}
	return issues
}

// --- CV_002: prefer COUNT(*) over COUNT(1) -------------------------------

type countStyleRule struct{ meta }

func newCountStyleRule() countStyleRule {
	return countStyleRule{meta{
		code: "LINT_CV_002", name: "count-style",
		description:  "COUNT(1) should be written as COUNT(*)",
		sqlfluffName: "convention.count_rows",
	}}
}

var countOnePattern = regexp.MustCompile(`(?i)\bCOUNT\s*\(\s*1\s*\)`)

func (r countStyleRule) Check(ctx Context, _ map[string]string) []model.Issue {
	matches := countOnePattern.FindAllString(ctx.Raw, -1)
	if matches == nil {
		return nil
	}
	issues := make([]model.Issue, len(matches))
	for i := range matches {
		issues[i] = model.InfoIssue(r.code, "use COUNT(*) instead of COUNT(1) for clarity")
	}
	return issues
}

// --- CV_007: unnecessary statement-wrapping brackets ---------------------

type statementBracketsRule struct{ meta }

func newStatementBracketsRule() statementBracketsRule {
	return statementBracketsRule{meta{
		code: "LINT_CV_007", name: "statement-brackets",
		description:  "a full statement wrapped in unnecessary outer brackets",
		sqlfluffName: "convention.statement_brackets",
	}}
}

func (r statementBracketsRule) Check(ctx Context, _ map[string]string) []model.Issue {
	trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(ctx.Raw), ";"))
	if len(trimmed) < 2 || trimmed[0] != '(' || trimmed[len(trimmed)-1] != ')' {
		return nil
	}
	if !wrapsEntireStatement(trimmed) {
		return nil
	}
	return []model.Issue{model.InfoIssue(r.code, "avoid wrapping the full statement in unnecessary brackets")}
}

// wrapsEntireStatement reports whether s's opening paren only closes at the
// very end of s, i.e. the whole statement is one bracketed group rather
// than a bracket around a sub-expression.
func wrapsEntireStatement(s string) bool {
	depth := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(s)-1 {
				return false
			}
		}
	}
	return depth == 0
}

// --- CV_009: blocked placeholder words -----------------------------------

type blockedWordsRule struct{ meta }

func newBlockedWordsRule() blockedWordsRule {
	return blockedWordsRule{meta{
		code: "LINT_CV_009", name: "blocked-words",
		description:  "placeholder words such as TODO/FIXME/foo/bar leaked into committed SQL",
		sqlfluffName: "convention.blocked_words",
	}}
}

var blockedWordsPattern = regexp.MustCompile(`(?i)\b(todo|fixme|foo|bar)\b`)

func (r blockedWordsRule) Check(ctx Context, _ map[string]string) []model.Issue {
	if blockedWordsPattern.MatchString(withoutStringLiterals(ctx.Raw)) {
		return []model.Issue{model.WarningIssue(r.code, "blocked placeholder word detected (TODO/FIXME/foo/bar)")}
	}
	return nil
}

// --- CV_011: mixed casting style ------------------------------------------

type castingStyleRule struct{ meta }

func newCastingStyleRule() castingStyleRule {
	return castingStyleRule{meta{
		code: "LINT_CV_011", name: "casting-style",
		description:  "a statement mixes :: casts and CAST() within itself",
		sqlfluffName: "convention.casting_style",
	}}
}

var castFuncPattern = regexp.MustCompile(`(?i)\bCAST\s*\(`)

func (r castingStyleRule) Check(ctx Context, _ map[string]string) []model.Issue {
	if strings.Contains(ctx.Raw, "::") && castFuncPattern.MatchString(ctx.Raw) {
		return []model.Issue{model.InfoIssue(r.code, "use consistent casting style (avoid mixing :: and CAST)")}
	}
	return nil
}

// --- LT_003: trailing line-end operator -----------------------------------

type trailingOperatorRule struct{ meta }

func newTrailingOperatorRule() trailingOperatorRule {
	return trailingOperatorRule{meta{
		code: "LINT_LT_003", name: "trailing-operator",
		description:  "an operator placed at the end of a line rather than the start of the next",
		sqlfluffName: "layout.operators",
	}}
}

var trailingOperatorPattern = regexp.MustCompile(`[+\-*/=<>]\s*\n`)

func (r trailingOperatorRule) Check(ctx Context, _ map[string]string) []model.Issue {
	if trailingOperatorPattern.MatchString(withoutStringLiterals(ctx.Raw)) {
		return []model.Issue{model.InfoIssue(r.code, "operator line placement appears inconsistent")}
	}
	return nil
}

// --- LT_004: comma spacing -------------------------------------------------

type commaSpacingRule struct{ meta }

func newCommaSpacingRule() commaSpacingRule {
	return commaSpacingRule{meta{
		code: "LINT_LT_004", name: "comma-spacing",
		description:  "commas should be followed by a space and not preceded by one",
		sqlfluffName: "layout.commas",
	}}
}

var tightCommaPattern = regexp.MustCompile(`,\S`)
var spaceBeforeCommaPattern = regexp.MustCompile(`[^\s(,]\s+,`)

func (r commaSpacingRule) Check(ctx Context, _ map[string]string) []model.Issue {
	text := withoutStringLiterals(ctx.Raw)
	if tightCommaPattern.MatchString(text) || spaceBeforeCommaPattern.MatchString(text) {
		return []model.Issue{model.InfoIssue(r.code, "comma spacing appears inconsistent")}
	}
	return nil
}

// --- LT_010: SELECT modifier layout ----------------------------------------

type selectModifierLayoutRule struct{ meta }

func newSelectModifierLayoutRule() selectModifierLayoutRule {
	return selectModifierLayoutRule{meta{
		code: "LINT_LT_010", name: "select-modifier-layout",
		description:  "DISTINCT/ALL should stay on the same line as SELECT",
		sqlfluffName: "layout.select_modifiers",
	}}
}

var selectModifierNewlinePattern = regexp.MustCompile(`(?is)\bSELECT\s*\n+\s*(DISTINCT|ALL)\b`)

func (r selectModifierLayoutRule) Check(ctx Context, _ map[string]string) []model.Issue {
	if selectModifierNewlinePattern.MatchString(ctx.Raw) {
		return []model.Issue{model.InfoIssue(r.code, "SELECT modifiers (DISTINCT/ALL) should be consistently formatted")}
	}
	return nil
}

// --- LT_011: set operator layout ---------------------------------------

type setOperatorLayoutRule struct{ meta }

func newSetOperatorLayoutRule() setOperatorLayoutRule {
	return setOperatorLayoutRule{meta{
		code: "LINT_LT_011", name: "set-operator-layout",
		description:  "UNION/INTERSECT/EXCEPT should sit on their own line in a multiline statement",
		sqlfluffName: "layout.set_operators",
	}}
}

var setOperatorPattern = regexp.MustCompile(`(?i)\b(UNION(\s+ALL)?|INTERSECT|EXCEPT)\b`)

func (r setOperatorLayoutRule) Check(ctx Context, _ map[string]string) []model.Issue {
	if !strings.Contains(ctx.Raw, "\n") {
		return nil
	}
	for _, line := range strings.Split(ctx.Raw, "\n") {
		trimmed := strings.TrimSpace(line)
		loc := setOperatorPattern.FindStringIndex(trimmed)
		if loc == nil {
			continue
		}
		match := trimmed[loc[0]:loc[1]]
		if !strings.EqualFold(trimmed, match) {
			return []model.Issue{model.InfoIssue(r.code, "set operators should be on their own line in multiline queries")}
		}
	}
	return nil
}

// --- RF_005: quoted identifiers with special characters -------------------

type specialCharsRule struct{ meta }

func newSpecialCharsRule() specialCharsRule {
	return specialCharsRule{meta{
		code: "LINT_RF_005", name: "references-special-chars",
		description:  "a quoted identifier contains characters outside [A-Za-z0-9_]",
		sqlfluffName: "references.special_chars",
	}}
}

var quotedIdentPattern = regexp.MustCompile(`"([^"]*)"`)
var simpleIdentCharsPattern = regexp.MustCompile(`^[A-Za-z0-9_]*$`)

func (r specialCharsRule) Check(ctx Context, _ map[string]string) []model.Issue {
	text := withoutStringLiterals(ctx.Raw)
	for _, m := range quotedIdentPattern.FindAllStringSubmatch(text, -1) {
		if !simpleIdentCharsPattern.MatchString(m[1]) {
			return []model.Issue{model.WarningIssue(r.code, "identifier contains unsupported special characters")}
		}
	}
	return nil
}

// --- ST_002: unnecessary ELSE NULL ----------------------------------------

type unnecessaryElseNullRule struct{ meta }

func newUnnecessaryElseNullRule() unnecessaryElseNullRule {
	return unnecessaryElseNullRule{meta{
		code: "LINT_ST_002", name: "unnecessary-else-null",
		description:  "CASE already returns NULL when no branch matches, so ELSE NULL is redundant",
		sqlfluffName: "structure.else_null",
	}}
}

var elseNullPattern = regexp.MustCompile(`(?is)\bELSE\s+NULL\s+END\b`)

func (r unnecessaryElseNullRule) Check(ctx Context, _ map[string]string) []model.Issue {
	matches := elseNullPattern.FindAllString(ctx.Raw, -1)
	if matches == nil {
		return nil
	}
	issues := make([]model.Issue, len(matches))
	for i := range matches {
		issues[i] = model.InfoIssue(r.code, "ELSE NULL is redundant in CASE expressions; it can be removed")
	}
	return issues
}

// --- ST_008: DISTINCT used with parentheses -------------------------------

type distinctParensRule struct{ meta }

func newDistinctParensRule() distinctParensRule {
	return distinctParensRule{meta{
		code: "LINT_ST_008", name: "distinct-parens",
		description:  "SELECT DISTINCT(expr) should be written as SELECT DISTINCT expr",
		sqlfluffName: "structure.distinct",
	}}
}

var distinctParenItemPattern = regexp.MustCompile(`(?is)\bSELECT\s+DISTINCT\s*\(([^()]*)\)\s*(,|\bFROM\b)`)

func (r distinctParensRule) Check(ctx Context, _ map[string]string) []model.Issue {
	m := distinctParenItemPattern.FindStringSubmatch(ctx.Raw)
	if m == nil || m[2] == "," {
		return nil
	}
	return []model.Issue{model.InfoIssue(r.code, "DISTINCT used with parentheses")}
}

// --- ST_012: consecutive semicolons ---------------------------------------

type consecutiveSemicolonsRule struct{ meta }

func newConsecutiveSemicolonsRule() consecutiveSemicolonsRule {
	return consecutiveSemicolonsRule{meta{
		code: "LINT_ST_012", name: "consecutive-semicolons",
		description:  "two or more semicolons in a row with nothing meaningful between them",
		sqlfluffName: "structure.consecutive_semicolons",
	}}
}

var consecutiveSemicolonPattern = regexp.MustCompile(`;\s*;`)

func (r consecutiveSemicolonsRule) Check(ctx Context, _ map[string]string) []model.Issue {
	if ctx.StatementIndex != 0 {
		return nil
	}
	if consecutiveSemicolonPattern.MatchString(withoutStringLiterals(ctx.Raw)) {
		return []model.Issue{model.WarningIssue(r.code, "consecutive semicolons detected")}
	}
	return nil
}

// --- TQ_002: TSQL procedure without BEGIN/END -----------------------------

type procedureBeginEndRule struct{ meta }

func newProcedureBeginEndRule() procedureBeginEndRule {
	return procedureBeginEndRule{meta{
		code: "LINT_TQ_002", name: "procedure-begin-end",
		description:  "CREATE PROCEDURE should wrap its body in a BEGIN/END block",
		sqlfluffName: "tsql.procedure_begin_end",
	}}
}

var createProcedurePattern = regexp.MustCompile(`(?is)\bCREATE\s+(?:OR\s+ALTER\s+)?PROCEDURE\b`)
var beginEndPattern = regexp.MustCompile(`(?is)\bBEGIN\b.*\bEND\b`)

func (r procedureBeginEndRule) Check(ctx Context, _ map[string]string) []model.Issue {
	if ctx.Dialect != model.Mssql {
		return nil
	}
	text := withoutStringLiterals(ctx.Raw)
	if !createProcedurePattern.MatchString(text) {
		return nil
	}
	if beginEndPattern.MatchString(text) {
		return nil
	}
	return []model.Issue{model.WarningIssue(r.code, "CREATE PROCEDURE should include a BEGIN/END block")}
}
