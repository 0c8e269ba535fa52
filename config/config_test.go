package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flowscope/flowscope/model"
)

func TestParseDecodesDialectAndSchema(t *testing.T) {
	buf := []byte(`
dialect: postgres
default_schema: app
allow_implied: true
tables:
  - name: users
    columns:
      - name: id
        is_primary_key: true
      - name: email
`)
	cfg, err := Parse(buf)
	assert.NoError(t, err)
	assert.Equal(t, model.Postgres, cfg.ResolveDialect())

	schema := cfg.Schema()
	assert.NotNil(t, schema)
	assert.True(t, schema.AllowImplied)
	assert.Equal(t, "app", *schema.DefaultSchema)
	assert.Len(t, schema.Tables, 1)
	assert.Equal(t, "users", schema.Tables[0].Name)
	assert.Len(t, schema.Tables[0].Columns, 2)
	assert.True(t, schema.Tables[0].Columns[0].IsPrimaryKey)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("dialect: mysql\nbogus_field: 1\n"))
	assert.Error(t, err)
}

func TestSchemaReturnsNilWhenNothingConfigured(t *testing.T) {
	cfg, err := Parse([]byte("dialect: ansi\n"))
	assert.NoError(t, err)
	assert.Nil(t, cfg.Schema())
}

func TestOptionsCarriesLintAndColumnLineageToggles(t *testing.T) {
	buf := []byte(`
dialect: ansi
lint_enabled: false
enable_column_lineage: false
rules:
  LINT_CV_003:
    enabled: false
  LINT_AM_005:
    enabled: true
    options:
      foo: bar
`)
	cfg, err := Parse(buf)
	assert.NoError(t, err)

	opts := cfg.Options()
	assert.False(t, *opts.LintEnabled)
	assert.False(t, *opts.EnableColumnLineage)
	assert.False(t, opts.RuleOverrides["LINT_CV_003"])
	assert.True(t, opts.RuleOverrides["LINT_AM_005"])
	assert.Equal(t, "bar", opts.RuleOptions["LINT_AM_005"]["foo"])
}

func TestLoadReturnsErrorForMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/flowscope.yaml")
	assert.Error(t, err)
}
