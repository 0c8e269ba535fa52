package model

// FileSource is one named SQL source file in an ordered multi-file request
// (spec.md §6).
type FileSource struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// ColumnSchema describes one column of a catalog table (spec.md §3).
type ColumnSchema struct {
	Name        string  `json:"name"`
	DataType    *string `json:"dataType,omitempty"`
	IsPrimaryKey bool   `json:"isPrimaryKey,omitempty"`
	ForeignKey  *string `json:"foreignKey,omitempty"`
}

// SchemaTable describes one catalog table supplied by the caller.
type SchemaTable struct {
	Catalog string         `json:"catalog,omitempty"`
	Schema  string         `json:"schema,omitempty"`
	Name    string         `json:"name"`
	Columns []ColumnSchema `json:"columns"`
}

// SchemaMetadata is the input catalog (spec.md §3).
type SchemaMetadata struct {
	DefaultCatalog   *string           `json:"defaultCatalog,omitempty"`
	DefaultSchema    *string           `json:"defaultSchema,omitempty"`
	SearchPath       []string          `json:"searchPath,omitempty"`
	CaseSensitivity  *CaseSensitivity  `json:"caseSensitivity,omitempty"`
	AllowImplied     bool              `json:"allowImplied"`
	Tables           []SchemaTable     `json:"tables"`
}

// AnalysisOptions carries per-run toggles (spec.md §6).
type AnalysisOptions struct {
	// EnableColumnLineage defaults to true when nil.
	EnableColumnLineage *bool           `json:"enableColumnLineage,omitempty"`
	LintEnabled         *bool           `json:"lintEnabled,omitempty"`
	RuleOverrides       map[string]bool `json:"ruleOverrides,omitempty"`
	RuleOptions         map[string]map[string]string `json:"ruleOptions,omitempty"`
}

func (o *AnalysisOptions) columnLineageEnabled() bool {
	if o == nil || o.EnableColumnLineage == nil {
		return true
	}
	return *o.EnableColumnLineage
}

// ColumnLineageEnabled reports whether column-level lineage should be
// computed for this request, applying the documented default of true.
func (r AnalyzeRequest) ColumnLineageEnabled() bool {
	return r.Options.columnLineageEnabled()
}

func (o *AnalysisOptions) lintEnabled() bool {
	if o == nil || o.LintEnabled == nil {
		return true
	}
	return *o.LintEnabled
}

// AnalyzeRequest is the top-level input to Analyze (spec.md §6).
type AnalyzeRequest struct {
	SQL        string          `json:"sql"`
	Files      []FileSource    `json:"files,omitempty"`
	Dialect    Dialect         `json:"dialect"`
	SourceName *string         `json:"sourceName,omitempty"`
	Options    *AnalysisOptions `json:"options,omitempty"`
	Schema     *SchemaMetadata `json:"schema,omitempty"`
}

// LintEnabled reports whether the linter should run for this request.
func (r AnalyzeRequest) LintEnabled() bool {
	return r.Options.lintEnabled()
}
