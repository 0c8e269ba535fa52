package batch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flowscope/flowscope/model"
)

func TestAnalyzeAllPreservesInputOrder(t *testing.T) {
	requests := []model.AnalyzeRequest{
		{SQL: "SELECT 1", Dialect: model.Ansi},
		{SQL: "SELECT 1, 2", Dialect: model.Ansi},
		{SQL: "SELECT 1, 2, 3", Dialect: model.Ansi},
	}
	results, err := AnalyzeAll(context.Background(), requests, 2)
	assert.NoError(t, err)
	assert.Len(t, results, 3)
	for i, r := range results {
		assert.Len(t, r.Statements, 1)
		assert.False(t, r.Summary.HasErrors, "request %d", i)
		if len(r.Statements) != 1 {
			continue
		}
		// Request i selects i+1 literals, so its output node has i+1 columns.
		for _, n := range r.Statements[0].Nodes {
			if n.Label == "output" {
				assert.Len(t, n.Columns, i+1, "request %d", i)
			}
		}
	}
}

func TestAnalyzeAllStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := AnalyzeAll(ctx, []model.AnalyzeRequest{{SQL: "SELECT 1", Dialect: model.Ansi}}, 0)
	assert.Error(t, err)
}

func TestAnalyzeAllHandlesEmptyInput(t *testing.T) {
	results, err := AnalyzeAll(context.Background(), nil, 4)
	assert.NoError(t, err)
	assert.Empty(t, results)
}
