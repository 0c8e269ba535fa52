package dialect

import (
	"strings"

	"github.com/flowscope/flowscope/model"
)

// defaultCaseSensitivity is each dialect's bare-identifier fold policy
// absent an explicit override (spec.md §4.1 "fold").
func defaultCaseSensitivity(d model.Dialect) model.CaseSensitivity {
	switch d {
	case model.Mssql, model.Mysql, model.Sqlite, model.Duckdb, model.Redshift:
		return model.CaseFoldLower
	case model.Snowflake:
		return model.CaseFoldUpper
	case model.Bigquery, model.Clickhouse, model.Databricks, model.Hive,
		model.Postgres, model.Ansi:
		return model.CaseFoldLower
	default:
		return model.CaseFoldLower
	}
}

// normalizationOverrides corrects specific identifiers that don't follow
// their dialect's blanket fold rule — e.g. a dialect whose catalog views
// expose a handful of historically mixed-case system names. Empty by
// default; present so a deployment can extend it without touching the fold
// algorithm itself (spec.md §4.1).
var normalizationOverrides = map[string]string{}

// Fold applies spec.md §4.1's case-folding rule: quoted identifiers bypass
// folding unconditionally (spec.md §9 Open Questions); unquoted identifiers
// fold per the effective policy (explicit override if not
// CaseFoldDialectDefault, else the dialect's own default), then pass
// through normalizationOverrides. Folding is idempotent: folding an
// already-folded identifier is a no-op, satisfying spec.md §8 P1.
func Fold(d model.Dialect, identifier string, quoted bool, policy model.CaseSensitivity) string {
	if quoted {
		return overridden(identifier)
	}

	effective := policy
	if effective == model.CaseFoldDialectDefault {
		effective = defaultCaseSensitivity(d)
	}

	var folded string
	switch effective {
	case model.CaseFoldUpper:
		folded = strings.ToUpper(identifier)
	case model.CaseFoldPreserve:
		folded = identifier
	default: // CaseFoldLower, CaseFoldDialectDefault (unreachable after resolution)
		folded = strings.ToLower(identifier)
	}
	return overridden(folded)
}

func overridden(identifier string) string {
	if override, ok := normalizationOverrides[identifier]; ok {
		return override
	}
	return identifier
}
