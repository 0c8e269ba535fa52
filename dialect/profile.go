// Package dialect holds the static per-dialect profile tables the analyzer
// and linter consult (spec.md §4.1). Every lookup here is a pure function
// over a closed enumeration — no I/O, no mutation, safe to call from any
// goroutine.
//
// Ported from the original's generated/scoping_rules.rs and
// generated/function_rules.rs, which the original's build.rs generates from
// editable TOML files (spec.md §9 "Static dialect tables"). FlowScope keeps
// the tables themselves hand-maintained Go switches rather than adding a
// codegen step — at this table size codegen buys nothing the pack's other
// examples would justify pulling in a templating dependency for.
package dialect

import (
	"strings"

	"github.com/flowscope/flowscope/model"
)

// NullOrdering describes default NULL placement in ORDER BY.
type NullOrdering int

const (
	NullsAreLarge NullOrdering = iota
	NullsAreSmall
	NullsAreLast
)

// AliasInGroupBy reports whether a SELECT-list alias may be referenced in
// GROUP BY for the given dialect.
func AliasInGroupBy(d model.Dialect) bool {
	switch d {
	case model.Bigquery, model.Clickhouse, model.Databricks, model.Duckdb,
		model.Hive, model.Mysql, model.Redshift, model.Sqlite:
		return true
	default:
		return false
	}
}

// AliasInHaving reports whether a SELECT-list alias may be referenced in
// HAVING for the given dialect.
func AliasInHaving(d model.Dialect) bool {
	switch d {
	case model.Bigquery, model.Clickhouse, model.Databricks, model.Duckdb,
		model.Hive, model.Mysql, model.Redshift, model.Sqlite:
		return true
	default:
		return false
	}
}

// AliasInOrderBy reports whether a SELECT-list alias may be referenced in
// ORDER BY for the given dialect. Far more widely supported than GROUP
// BY/HAVING alias references, so the default is true.
func AliasInOrderBy(d model.Dialect) bool {
	switch d {
	case model.Snowflake:
		return true
	default:
		return true
	}
}

// LateralColumnAlias reports whether one SELECT item may reference an alias
// defined earlier in the same SELECT list.
func LateralColumnAlias(d model.Dialect) bool {
	switch d {
	case model.Bigquery, model.Clickhouse, model.Databricks, model.Duckdb,
		model.Hive, model.Snowflake:
		return true
	default:
		return false
	}
}

// NullOrderingFor returns the default NULL ordering behavior for a dialect.
func NullOrderingFor(d model.Dialect) NullOrdering {
	switch d {
	case model.Bigquery, model.Databricks, model.Hive, model.Mssql, model.Mysql, model.Sqlite:
		return NullsAreSmall
	case model.Postgres, model.Redshift, model.Snowflake:
		return NullsAreLarge
	case model.Clickhouse, model.Duckdb:
		return NullsAreLast
	default:
		return NullsAreLast
	}
}

// SupportsImplicitUnnest reports whether the dialect allows UNNEST-like
// array expansion without an explicit CROSS JOIN.
func SupportsImplicitUnnest(d model.Dialect) bool {
	switch d {
	case model.Bigquery, model.Redshift:
		return true
	default:
		return false
	}
}

// normalizeFuncName lowercases and strips underscores so DATEADD and
// DATE_ADD share a rule, per spec.md §4.1.
func normalizeFuncName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r == '_' {
			continue
		}
		b.WriteRune(toLowerASCII(r))
	}
	return b.String()
}

func toLowerASCII(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

// SkipArgsForFunction returns the 0-based argument indices to exclude from
// column-reference extraction for a date/time function whose leading
// arguments are keywords rather than columns (e.g. DATEDIFF(YEAR, a, b) in
// Snowflake). Ported from generated/function_rules.rs verbatim.
func SkipArgsForFunction(d model.Dialect, funcName string) []int {
	switch normalizeFuncName(funcName) {
	case "datediff":
		switch d {
		case model.Mssql, model.Redshift, model.Snowflake:
			return []int{0}
		default:
			return nil
		}
	case "dateadd":
		switch d {
		case model.Mssql, model.Snowflake:
			return []int{0}
		default:
			return nil
		}
	case "datepart":
		switch d {
		case model.Postgres, model.Redshift, model.Snowflake:
			return []int{0}
		default:
			return nil
		}
	case "datetrunc":
		switch d {
		case model.Bigquery:
			return []int{1}
		case model.Databricks, model.Duckdb, model.Postgres, model.Redshift, model.Snowflake:
			return []int{0}
		default:
			return nil
		}
	case "extract":
		return []int{0}
	case "timestampadd":
		switch d {
		case model.Bigquery:
			return []int{1}
		case model.Snowflake:
			return []int{0}
		default:
			return nil
		}
	case "timestampsub":
		switch d {
		case model.Bigquery:
			return []int{1}
		default:
			return nil
		}
	default:
		return nil
	}
}

// SkipSet is a convenience wrapper for callers that need O(1) membership
// tests over the skip-index list.
func SkipSet(indices []int) map[int]struct{} {
	set := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		set[i] = struct{}{}
	}
	return set
}
