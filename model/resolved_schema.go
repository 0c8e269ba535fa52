package model

// SchemaOrigin tags how a table entered the resolved schema: supplied by
// the caller's catalog, or captured on the fly because the SQL referenced
// it and allow_implied was set (spec.md §4.2, GLOSSARY "Implied table").
type SchemaOrigin string

const (
	OriginCatalog SchemaOrigin = "catalog"
	OriginImplied SchemaOrigin = "implied"
)

// ResolutionSource records which step of the resolution algorithm
// (spec.md §4.2) produced a table's resolution.
type ResolutionSource string

const (
	ResolvedExact      ResolutionSource = "exact"
	ResolvedSearchPath ResolutionSource = "search_path"
	ResolvedImplied    ResolutionSource = "implied"
	ResolvedUnresolved ResolutionSource = "unresolved"
)

// ResolvedColumnSchema is a column as it ends up in the frozen registry
// snapshot: either supplied by the catalog or learned by use (implied
// tables accrete columns as projections reference them).
type ResolvedColumnSchema struct {
	Name         string  `json:"name"`
	DataType     *string `json:"dataType,omitempty"`
	IsPrimaryKey bool    `json:"isPrimaryKey,omitempty"`
	ForeignKey   *string `json:"foreignKey,omitempty"`
}

// ResolvedSchemaTable is one table's frozen entry in resolved_schema.
type ResolvedSchemaTable struct {
	Catalog   string                  `json:"catalog,omitempty"`
	Schema    string                  `json:"schema,omitempty"`
	Name      string                  `json:"name"`
	Columns   []ResolvedColumnSchema  `json:"columns"`
	Origin    SchemaOrigin            `json:"origin"`
	Source    ResolutionSource        `json:"source"`
	UpdatedAt *string                 `json:"updatedAt,omitempty"`
}

// ResolvedSchemaMetadata is the registry's contents at the end of an
// analyze call (spec.md §3 "Lifecycle"): the input catalog plus every
// implied table captured along the way.
type ResolvedSchemaMetadata struct {
	DefaultCatalog *string               `json:"defaultCatalog,omitempty"`
	DefaultSchema  *string               `json:"defaultSchema,omitempty"`
	Tables         []ResolvedSchemaTable `json:"tables"`
}

// AnalyzeResult is the top-level output of Analyze (spec.md §6).
type AnalyzeResult struct {
	Summary        Summary                `json:"summary"`
	Statements     []StatementLineage     `json:"statements"`
	GlobalLineage  GlobalLineage          `json:"globalLineage"`
	Issues         []Issue                `json:"issues"`
	ResolvedSchema ResolvedSchemaMetadata `json:"resolvedSchema"`
}
