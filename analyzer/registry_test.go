package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flowscope/flowscope/model"
)

func strp(s string) *string { return &s }

func TestResolveExactMatch(t *testing.T) {
	r := NewSchemaRegistry(model.Ansi, &model.SchemaMetadata{
		Tables: []model.SchemaTable{{Name: "users", Columns: []model.ColumnSchema{{Name: "id"}}}},
	})
	res := r.Resolve(r.Canonicalize([]string{"users"}, []bool{false}))
	assert.Equal(t, model.ResolvedExact, res.Source)
	assert.NotNil(t, res.Table)
}

func TestResolveViaSearchPath(t *testing.T) {
	r := NewSchemaRegistry(model.Postgres, &model.SchemaMetadata{
		SearchPath: []string{"app"},
		Tables:     []model.SchemaTable{{Schema: "app", Name: "users"}},
	})
	res := r.Resolve(r.Canonicalize([]string{"users"}, []bool{false}))
	assert.Equal(t, model.ResolvedSearchPath, res.Source)
}

func TestResolveUnresolvedWithoutAllowImplied(t *testing.T) {
	r := NewSchemaRegistry(model.Ansi, &model.SchemaMetadata{})
	res := r.Resolve(r.Canonicalize([]string{"ghost"}, []bool{false}))
	assert.Equal(t, model.ResolvedUnresolved, res.Source)
	assert.Nil(t, res.Table)
}

func TestResolveCapturesImpliedTable(t *testing.T) {
	r := NewSchemaRegistry(model.Ansi, &model.SchemaMetadata{AllowImplied: true})
	res := r.Resolve(r.Canonicalize([]string{"ghost"}, []bool{false}))
	assert.Equal(t, model.ResolvedImplied, res.Source)
	assert.NotNil(t, res.Table)

	resolved := r.Resolved()
	assert.Len(t, resolved.Tables, 1)
	assert.Equal(t, model.OriginImplied, resolved.Tables[0].Origin)
}

func TestValidateColumnLearnsByUseOnImpliedTable(t *testing.T) {
	r := NewSchemaRegistry(model.Ansi, &model.SchemaMetadata{AllowImplied: true})
	res := r.Resolve(r.Canonicalize([]string{"ghost"}, []bool{false}))
	r.ValidateColumn(res, "id", false, 0)

	resolved := r.Resolved()
	assert.Len(t, resolved.Tables[0].Columns, 1)
	assert.Equal(t, "id", resolved.Tables[0].Columns[0].Name)
	assert.Empty(t, r.Issues)
}

func TestValidateColumnWarnsOnUnknownCatalogColumn(t *testing.T) {
	r := NewSchemaRegistry(model.Ansi, &model.SchemaMetadata{
		Tables: []model.SchemaTable{{Name: "users", Columns: []model.ColumnSchema{{Name: "id"}}}},
	})
	res := r.Resolve(r.Canonicalize([]string{"users"}, []bool{false}))
	r.ValidateColumn(res, "ghost_col", false, 3)

	assert.Len(t, r.Issues, 1)
	assert.Equal(t, model.CodeUnknownColumn, r.Issues[0].Code)
	assert.Equal(t, 3, *r.Issues[0].StatementIndex)
}

func TestDuplicateSchemaTableDefinitionWarns(t *testing.T) {
	r := NewSchemaRegistry(model.Ansi, &model.SchemaMetadata{
		Tables: []model.SchemaTable{{Name: "users"}, {Name: "users"}},
	})
	assert.Len(t, r.Issues, 1)
	assert.Equal(t, model.CodeDuplicateDefinition, r.Issues[0].Code)
}

func TestCanonicalizeDefaultsSchemaAndCatalog(t *testing.T) {
	catalog, schema := "main", "public"
	r := NewSchemaRegistry(model.Postgres, &model.SchemaMetadata{
		DefaultCatalog: &catalog,
		DefaultSchema:  &schema,
	})
	name := r.Canonicalize([]string{"users"}, []bool{false})
	assert.Equal(t, "main", name.Catalog)
	assert.Equal(t, "public", name.Schema)
	assert.Equal(t, "users", name.Name)
}
