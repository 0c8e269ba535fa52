package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flowscope/flowscope/model"
)

func jt(j model.JoinType) *model.JoinType { return &j }

func TestComplexityScoreSimpleJoin(t *testing.T) {
	// SELECT u.id, o.total FROM users u JOIN orders o ON u.id = o.user_id
	// spec.md §8 scenario 2: 2 tables*5 + 1 simple join*10 = 20.
	nodes := []model.Node{
		{NodeType: model.NodeTable},
		{NodeType: model.NodeTable, JoinType: jt(model.JoinInner)},
	}
	assert.Equal(t, 20, complexityScore(nodes))
}

func TestComplexityScoreCrossJoinWeightsMore(t *testing.T) {
	nodes := []model.Node{
		{NodeType: model.NodeTable},
		{NodeType: model.NodeTable, JoinType: jt(model.JoinCross)},
	}
	assert.Equal(t, 5+5+15, complexityScore(nodes))
}

func TestComplexityScoreCountsCtesAndFilters(t *testing.T) {
	nodes := []model.Node{
		{NodeType: model.NodeCte},
		{NodeType: model.NodeTable, Filters: []model.FilterPredicate{{}, {}}},
	}
	assert.Equal(t, 8+5+4, complexityScore(nodes))
}

func TestComplexityScoreClampedToRange(t *testing.T) {
	assert.Equal(t, 1, complexityScore(nil))

	var many []model.Node
	for i := 0; i < 50; i++ {
		many = append(many, model.Node{NodeType: model.NodeTable, JoinType: jt(model.JoinCross)})
	}
	assert.Equal(t, 100, complexityScore(many))
}
