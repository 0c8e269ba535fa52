package model

// Dialect is the closed enumeration of SQL dialects FlowScope understands,
// plus Generic for dialect-agnostic analysis.
type Dialect int

const (
	Generic Dialect = iota
	Ansi
	Bigquery
	Clickhouse
	Databricks
	Duckdb
	Hive
	Mssql
	Mysql
	Postgres
	Redshift
	Snowflake
	Sqlite
)

func (d Dialect) String() string {
	switch d {
	case Ansi:
		return "ansi"
	case Bigquery:
		return "bigquery"
	case Clickhouse:
		return "clickhouse"
	case Databricks:
		return "databricks"
	case Duckdb:
		return "duckdb"
	case Hive:
		return "hive"
	case Mssql:
		return "mssql"
	case Mysql:
		return "mysql"
	case Postgres:
		return "postgres"
	case Redshift:
		return "redshift"
	case Snowflake:
		return "snowflake"
	case Sqlite:
		return "sqlite"
	default:
		return "generic"
	}
}

// ParseDialect maps a wire-format dialect string (as accepted on
// AnalyzeRequest.Dialect) to its Dialect value. Unknown strings fall back to
// Generic rather than erroring — an unrecognized dialect should degrade to
// conservative defaults, not fail the request.
func ParseDialect(s string) Dialect {
	switch s {
	case "ansi":
		return Ansi
	case "bigquery":
		return Bigquery
	case "clickhouse":
		return Clickhouse
	case "databricks":
		return Databricks
	case "duckdb":
		return Duckdb
	case "hive":
		return Hive
	case "mssql", "sqlserver", "tsql":
		return Mssql
	case "mysql":
		return Mysql
	case "postgres", "postgresql":
		return Postgres
	case "redshift":
		return Redshift
	case "snowflake":
		return Snowflake
	case "sqlite", "sqlite3":
		return Sqlite
	default:
		return Generic
	}
}

// CaseSensitivity controls how bare (unquoted) identifiers are folded
// before comparison.
type CaseSensitivity int

const (
	// CaseFoldDialectDefault defers to the active dialect's default policy.
	CaseFoldDialectDefault CaseSensitivity = iota
	CaseFoldUpper
	CaseFoldLower
	CaseFoldPreserve
)
