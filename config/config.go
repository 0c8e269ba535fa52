// Package config loads flowscopectl's run configuration from YAML,
// grounded on the teacher's database.ParseGeneratorConfig (database.go):
// read the file, decode with known-fields enforcement, report errors to
// the caller rather than os.Exit so a library caller never has its process
// killed out from under it.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/flowscope/flowscope/model"
)

// RuleConfig is one rule's enabled/option override, keyed by its
// LINT_<CAT>_<NN> code in the parent map.
type RuleConfig struct {
	Enabled *bool             `yaml:"enabled,omitempty"`
	Options map[string]string `yaml:"options,omitempty"`
}

// SchemaTableConfig mirrors model.SchemaTable for YAML authoring.
type SchemaTableConfig struct {
	Catalog string `yaml:"catalog,omitempty"`
	Schema  string `yaml:"schema,omitempty"`
	Name    string `yaml:"name"`
	Columns []struct {
		Name         string  `yaml:"name"`
		DataType     *string `yaml:"data_type,omitempty"`
		IsPrimaryKey bool    `yaml:"is_primary_key,omitempty"`
		ForeignKey   *string `yaml:"foreign_key,omitempty"`
	} `yaml:"columns"`
}

// Config is flowscopectl's top-level YAML run configuration.
type Config struct {
	Dialect             string                `yaml:"dialect"`
	DefaultCatalog       *string               `yaml:"default_catalog,omitempty"`
	DefaultSchema        *string               `yaml:"default_schema,omitempty"`
	SearchPath           []string              `yaml:"search_path,omitempty"`
	AllowImplied         bool                  `yaml:"allow_implied"`
	EnableColumnLineage  *bool                 `yaml:"enable_column_lineage,omitempty"`
	LintEnabled          *bool                 `yaml:"lint_enabled,omitempty"`
	Rules                map[string]RuleConfig `yaml:"rules,omitempty"`
	Tables               []SchemaTableConfig   `yaml:"tables,omitempty"`
	Concurrency          int                   `yaml:"concurrency,omitempty"`
}

// Load reads and decodes a YAML config file.
func Load(path string) (Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(buf)
}

// Parse decodes YAML bytes into a Config.
func Parse(buf []byte) (Config, error) {
	var cfg Config
	if err := yaml.UnmarshalStrict(buf, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	return cfg, nil
}

// Schema builds the model.SchemaMetadata an AnalyzeRequest expects from
// the config's declarative table list.
func (c Config) Schema() *model.SchemaMetadata {
	if len(c.Tables) == 0 && c.DefaultSchema == nil && c.DefaultCatalog == nil && len(c.SearchPath) == 0 {
		return nil
	}
	schema := &model.SchemaMetadata{
		DefaultCatalog: c.DefaultCatalog,
		DefaultSchema:  c.DefaultSchema,
		SearchPath:     c.SearchPath,
		AllowImplied:   c.AllowImplied,
	}
	for _, t := range c.Tables {
		table := model.SchemaTable{Catalog: t.Catalog, Schema: t.Schema, Name: t.Name}
		for _, col := range t.Columns {
			table.Columns = append(table.Columns, model.ColumnSchema{
				Name:         col.Name,
				DataType:     col.DataType,
				IsPrimaryKey: col.IsPrimaryKey,
				ForeignKey:   col.ForeignKey,
			})
		}
		schema.Tables = append(schema.Tables, table)
	}
	return schema
}

// Options builds the model.AnalysisOptions an AnalyzeRequest expects from
// the config's lint/column-lineage toggles.
func (c Config) Options() *model.AnalysisOptions {
	opts := &model.AnalysisOptions{
		EnableColumnLineage: c.EnableColumnLineage,
		LintEnabled:         c.LintEnabled,
	}
	for code, rule := range c.Rules {
		if rule.Enabled != nil {
			if opts.RuleOverrides == nil {
				opts.RuleOverrides = make(map[string]bool)
			}
			opts.RuleOverrides[code] = *rule.Enabled
		}
		if len(rule.Options) > 0 {
			if opts.RuleOptions == nil {
				opts.RuleOptions = make(map[string]map[string]string)
			}
			opts.RuleOptions[code] = rule.Options
		}
	}
	return opts
}

// ResolveDialect resolves the config's dialect string via model.ParseDialect.
func (c Config) ResolveDialect() model.Dialect {
	return model.ParseDialect(c.Dialect)
}
