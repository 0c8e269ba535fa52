package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flowscope/flowscope/model"
)

func TestFoldDefaultsLowercaseForAnsi(t *testing.T) {
	assert.Equal(t, "users", Fold(model.Ansi, "Users", false, model.CaseFoldDialectDefault))
}

func TestFoldDefaultsUppercaseForSnowflake(t *testing.T) {
	assert.Equal(t, "USERS", Fold(model.Snowflake, "users", false, model.CaseFoldDialectDefault))
}

func TestFoldQuotedIdentifierIsNeverFolded(t *testing.T) {
	assert.Equal(t, "Users", Fold(model.Ansi, "Users", true, model.CaseFoldDialectDefault))
}

func TestFoldExplicitPolicyOverridesDialectDefault(t *testing.T) {
	assert.Equal(t, "USERS", Fold(model.Ansi, "users", false, model.CaseFoldUpper))
	assert.Equal(t, "users", Fold(model.Ansi, "USERS", false, model.CaseFoldLower))
	assert.Equal(t, "Users", Fold(model.Ansi, "Users", false, model.CaseFoldPreserve))
}

// Idempotence: folding an already-folded identifier a second time must be
// a no-op (spec.md §8 property P1).
func TestFoldIsIdempotent(t *testing.T) {
	for _, d := range []model.Dialect{model.Ansi, model.Mysql, model.Postgres, model.Snowflake, model.Bigquery} {
		once := Fold(d, "MixedCase", false, model.CaseFoldDialectDefault)
		twice := Fold(d, once, false, model.CaseFoldDialectDefault)
		assert.Equal(t, once, twice, "dialect %v", d)
	}
}
