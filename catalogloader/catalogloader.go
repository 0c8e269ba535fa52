// Package catalogloader turns a live database connection into the
// model.SchemaMetadata FlowScope's analyzer consumes (SPEC_FULL.md §C,
// recovering the original's flowscope-cli/src/metadata/provider.rs
// MetadataProvider concept). It is glue, not core: analyzer.Analyze never
// imports database/sql, and nothing here is reachable from that package.
package catalogloader

import (
	"context"
	"database/sql"
	"fmt"

	// Blank-imported for their database/sql driver registration, the same
	// way the teacher's adapter/{mysql,postgres,mssql,sqlite3} packages
	// pull in their respective drivers.
	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/flowscope/flowscope/model"
)

// Driver names FlowScope's loader understands. Each one is also the
// database/sql driver name its package registers under — DriverSqlite3
// is "sqlite" rather than "sqlite3" because modernc.org/sqlite (the
// pure-Go driver this module uses) registers itself that way.
const (
	DriverMysql    = "mysql"
	DriverPostgres = "postgres"
	DriverMssql    = "sqlserver"
	DriverSqlite3  = "sqlite"
)

// Config is the connection info for one catalog load, grounded on the
// teacher's database.Config (driver name plus a ready DSN rather than
// its full per-field host/port/user breakdown, since FlowScope only ever
// reads schema — it never builds DDL or opens a migration session).
type Config struct {
	Driver string
	DSN    string
	// Schema restricts introspection to one schema/database (ignored by
	// sqlite3, which has no concept of it).
	Schema string
}

// Fingerprint is a content hash of a loaded catalog (via hashstructure),
// so callers can detect "the schema didn't actually change" between
// polls without diffing the table list by hand.
type Fingerprint uint64

// Load connects, introspects, and returns both the resulting
// model.SchemaMetadata and its Fingerprint.
func Load(ctx context.Context, cfg Config) (*model.SchemaMetadata, Fingerprint, error) {
	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, 0, fmt.Errorf("catalogloader: open %s: %w", cfg.Driver, err)
	}
	defer db.Close()

	var tables []model.SchemaTable
	switch cfg.Driver {
	case DriverMysql:
		tables, err = loadInformationSchema(ctx, db, cfg.Schema, "?")
	case DriverPostgres:
		tables, err = loadInformationSchema(ctx, db, cfg.Schema, "$1")
	case DriverMssql:
		tables, err = loadInformationSchema(ctx, db, cfg.Schema, "@p1")
	case DriverSqlite3:
		tables, err = loadSqlite(ctx, db)
	default:
		return nil, 0, fmt.Errorf("catalogloader: unsupported driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, 0, err
	}

	schema := &model.SchemaMetadata{Tables: tables, AllowImplied: false}
	if cfg.Schema != "" {
		s := cfg.Schema
		schema.DefaultSchema = &s
	}

	fp, err := hashstructure.Hash(tables, hashstructure.FormatV2, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("catalogloader: fingerprint: %w", err)
	}
	return schema, Fingerprint(fp), nil
}

// loadInformationSchema covers MySQL, Postgres, and MSSQL, whose
// information_schema.columns shape is close enough to share one query
// shaped by a single placeholder-syntax parameter (grounded on the
// teacher's per-adapter introspection queries, which likewise each build
// one parameterized information_schema query per table/column pass).
func loadInformationSchema(ctx context.Context, db *sql.DB, schemaName, placeholder string) ([]model.SchemaTable, error) {
	query := fmt.Sprintf(`
		SELECT table_schema, table_name, column_name, data_type, ordinal_position
		FROM information_schema.columns
		WHERE (%s = '' OR table_schema = %s)
		ORDER BY table_schema, table_name, ordinal_position
	`, placeholder, placeholder)

	rows, err := db.QueryContext(ctx, query, schemaName)
	if err != nil {
		return nil, fmt.Errorf("catalogloader: query columns: %w", err)
	}
	defer rows.Close()

	byKey := make(map[string]*model.SchemaTable)
	var order []string
	for rows.Next() {
		var rowSchema, tableName, columnName, dataType string
		var ordinal int
		if err := rows.Scan(&rowSchema, &tableName, &columnName, &dataType, &ordinal); err != nil {
			return nil, fmt.Errorf("catalogloader: scan column row: %w", err)
		}
		key := rowSchema + "." + tableName
		t, ok := byKey[key]
		if !ok {
			t = &model.SchemaTable{Schema: rowSchema, Name: tableName}
			byKey[key] = t
			order = append(order, key)
		}
		dt := dataType
		t.Columns = append(t.Columns, model.ColumnSchema{Name: columnName, DataType: &dt})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalogloader: iterate column rows: %w", err)
	}

	out := make([]model.SchemaTable, 0, len(order))
	for _, key := range order {
		out = append(out, *byKey[key])
	}
	return out, nil
}

// loadSqlite uses sqlite_master plus PRAGMA table_info, since sqlite3 has
// no information_schema.
func loadSqlite(ctx context.Context, db *sql.DB) ([]model.SchemaTable, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return nil, fmt.Errorf("catalogloader: list sqlite tables: %w", err)
	}
	var tableNames []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("catalogloader: scan table name: %w", err)
		}
		tableNames = append(tableNames, name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalogloader: iterate sqlite tables: %w", err)
	}

	out := make([]model.SchemaTable, 0, len(tableNames))
	for _, name := range tableNames {
		colRows, err := db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%q)`, name))
		if err != nil {
			return nil, fmt.Errorf("catalogloader: table_info(%s): %w", name, err)
		}
		table := model.SchemaTable{Name: name}
		for colRows.Next() {
			var cid int
			var colName, colType string
			var notNull, pk int
			var dflt sql.NullString
			if err := colRows.Scan(&cid, &colName, &colType, &notNull, &dflt, &pk); err != nil {
				colRows.Close()
				return nil, fmt.Errorf("catalogloader: scan table_info row: %w", err)
			}
			dt := colType
			table.Columns = append(table.Columns, model.ColumnSchema{
				Name:         colName,
				DataType:     &dt,
				IsPrimaryKey: pk != 0,
			})
		}
		colRows.Close()
		if err := colRows.Err(); err != nil {
			return nil, fmt.Errorf("catalogloader: iterate table_info rows: %w", err)
		}
		out = append(out, table)
	}
	return out, nil
}
