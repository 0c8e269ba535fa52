package analyzer

import (
	"github.com/flowscope/flowscope/dialect"
	"github.com/flowscope/flowscope/model"
)

// registryTable is the registry's live entry for one relation: either a
// catalog-supplied table or one captured on the fly because allow_implied
// let a reference through (spec.md §4.2).
type registryTable struct {
	name    model.CanonicalName
	columns map[string]registryColumn // folded column name -> column
	order   []string                  // folded names, first-seen order
	origin  model.SchemaOrigin
	source  model.ResolutionSource
}

type registryColumn struct {
	displayName  string
	dataType     *string
	isPrimaryKey bool
	foreignKey   *string
}

// SchemaRegistry canonicalizes references and resolves them against a
// caller-supplied catalog, learning implied tables as it goes
// (spec.md §4.2). One registry is scoped to a single Analyze call; it is
// never shared across calls or goroutines.
type SchemaRegistry struct {
	dialect        model.Dialect
	fold           func(string, bool) string
	defaultCatalog string
	defaultSchema  string
	searchPath     []string
	allowImplied   bool

	byKey map[string]*registryTable // folded "catalog\x00schema\x00name" -> table
	order []string                  // insertion order, for deterministic resolved_schema emission

	Issues []model.Issue
}

// NewSchemaRegistry seeds a registry from the caller's catalog, or an empty
// one permitting no implied tables if schema is nil.
func NewSchemaRegistry(d model.Dialect, schema *model.SchemaMetadata) *SchemaRegistry {
	r := &SchemaRegistry{
		dialect: d,
		fold:    foldFuncFor(d, schema),
		byKey:   make(map[string]*registryTable),
	}
	if schema == nil {
		return r
	}
	if schema.DefaultCatalog != nil {
		r.defaultCatalog = r.fold(*schema.DefaultCatalog, false)
	}
	if schema.DefaultSchema != nil {
		r.defaultSchema = r.fold(*schema.DefaultSchema, false)
	}
	for _, s := range schema.SearchPath {
		r.searchPath = append(r.searchPath, r.fold(s, false))
	}
	r.allowImplied = schema.AllowImplied

	for _, t := range schema.Tables {
		name := model.CanonicalName{
			Catalog: r.fold(t.Catalog, false),
			Schema:  r.fold(t.Schema, false),
			Name:    r.fold(t.Name, false),
		}
		if name.Schema == "" {
			name.Schema = r.defaultSchema
		}
		if name.Catalog == "" {
			name.Catalog = r.defaultCatalog
		}
		rt := &registryTable{
			name:    name,
			columns: make(map[string]registryColumn, len(t.Columns)),
			origin:  model.OriginCatalog,
			source:  model.ResolvedExact,
		}
		for _, c := range t.Columns {
			folded := r.fold(c.Name, false)
			rt.columns[folded] = registryColumn{
				displayName:  c.Name,
				dataType:     c.DataType,
				isPrimaryKey: c.IsPrimaryKey,
				foreignKey:   c.ForeignKey,
			}
			rt.order = append(rt.order, folded)
		}
		key := tableKey(name)
		if _, exists := r.byKey[key]; exists {
			r.Issues = append(r.Issues, model.WarningIssue(model.CodeDuplicateDefinition,
				"duplicate table definition in supplied schema: "+name.String()))
			continue
		}
		r.byKey[key] = rt
		r.order = append(r.order, key)
	}
	return r
}

func foldFuncFor(d model.Dialect, schema *model.SchemaMetadata) func(string, bool) string {
	policy := model.CaseFoldDialectDefault
	if schema != nil && schema.CaseSensitivity != nil {
		policy = *schema.CaseSensitivity
	}
	return func(identifier string, quoted bool) string {
		return dialect.Fold(d, identifier, quoted, policy)
	}
}

func tableKey(name model.CanonicalName) string {
	return name.Catalog + "\x00" + name.Schema + "\x00" + name.Name
}

// Canonicalize folds a possibly-qualified reference's parts and fills in
// catalog/schema defaults per spec.md §4.2 steps 1-5. Parts are supplied
// already split honoring quoting, most-specific last (i.e. for `a.b.c`,
// parts = ["a","b","c"], quoted[i] true if parts[i] was quoted in source).
func (r *SchemaRegistry) Canonicalize(parts []string, quoted []bool) model.CanonicalName {
	var name model.CanonicalName
	switch len(parts) {
	case 1:
		name.Name = r.fold(parts[0], quoted[0])
	case 2:
		name.Schema = r.fold(parts[0], quoted[0])
		name.Name = r.fold(parts[1], quoted[1])
	case 3:
		name.Catalog = r.fold(parts[0], quoted[0])
		name.Schema = r.fold(parts[1], quoted[1])
		name.Name = r.fold(parts[2], quoted[2])
	default:
		if len(parts) > 0 {
			name.Name = r.fold(parts[len(parts)-1], quoted[len(quoted)-1])
		}
	}
	if name.Schema == "" {
		name.Schema = r.defaultSchema
	}
	if name.Catalog == "" {
		name.Catalog = r.defaultCatalog
	}
	return name
}

// ResolveResult carries the outcome of resolving one table reference.
type ResolveResult struct {
	Name   model.CanonicalName
	Source model.ResolutionSource
	Table  *registryTable // nil when Source == Unresolved
}

// Resolve implements the §4.2 resolution order: exact match, then
// search_path, then (if allow_implied) capture as implied, else
// Unresolved.
func (r *SchemaRegistry) Resolve(name model.CanonicalName) ResolveResult {
	if t, ok := r.byKey[tableKey(name)]; ok {
		return ResolveResult{Name: t.name, Source: model.ResolvedExact, Table: t}
	}

	for _, candidateSchema := range r.searchPath {
		candidate := name
		candidate.Schema = candidateSchema
		if t, ok := r.byKey[tableKey(candidate)]; ok {
			return ResolveResult{Name: t.name, Source: model.ResolvedSearchPath, Table: t}
		}
	}

	if r.allowImplied {
		t := &registryTable{
			name:    name,
			columns: make(map[string]registryColumn),
			origin:  model.OriginImplied,
			source:  model.ResolvedImplied,
		}
		key := tableKey(name)
		r.byKey[key] = t
		r.order = append(r.order, key)
		return ResolveResult{Name: name, Source: model.ResolvedImplied, Table: t}
	}

	return ResolveResult{Name: name, Source: model.ResolvedUnresolved}
}

// ValidateColumn implements spec.md §4.2 "Column validation". It also
// learns the column (by use) on implied tables. stmtIndex tags any emitted
// UNKNOWN_COLUMN warning.
func (r *SchemaRegistry) ValidateColumn(res ResolveResult, columnName string, quoted bool, stmtIndex int) {
	if res.Table == nil {
		return
	}
	folded := r.fold(columnName, quoted)

	if res.Table.origin == model.OriginImplied {
		if _, known := res.Table.columns[folded]; !known {
			res.Table.columns[folded] = registryColumn{displayName: columnName}
			res.Table.order = append(res.Table.order, folded)
		}
		return
	}

	if _, known := res.Table.columns[folded]; !known {
		issue := model.WarningIssue(model.CodeUnknownColumn,
			"unknown column \""+columnName+"\" on table "+res.Table.name.String()).
			WithStatement(stmtIndex)
		r.Issues = append(r.Issues, issue)
	}
}

// Resolved freezes the registry's final contents (spec.md §3 "Lifecycle",
// §6 "resolved_schema") in deterministic insertion order.
func (r *SchemaRegistry) Resolved() model.ResolvedSchemaMetadata {
	out := model.ResolvedSchemaMetadata{}
	if r.defaultCatalog != "" {
		c := r.defaultCatalog
		out.DefaultCatalog = &c
	}
	if r.defaultSchema != "" {
		s := r.defaultSchema
		out.DefaultSchema = &s
	}
	for _, key := range r.order {
		t := r.byKey[key]
		rt := model.ResolvedSchemaTable{
			Catalog: t.name.Catalog,
			Schema:  t.name.Schema,
			Name:    t.name.Name,
			Origin:  t.origin,
			Source:  t.source,
		}
		for _, folded := range t.order {
			c := t.columns[folded]
			rt.Columns = append(rt.Columns, model.ResolvedColumnSchema{
				Name:         c.displayName,
				DataType:     c.dataType,
				IsPrimaryKey: c.isPrimaryKey,
				ForeignKey:   c.foreignKey,
			})
		}
		out.Tables = append(out.Tables, rt)
	}
	return out
}
