package analyzer

import "github.com/flowscope/flowscope/model"

// complexityScore implements spec.md §3's formula as a pure function of a
// statement's final node list: tables weighted 5, simple joins 10,
// CROSS/FULL joins 15, CTEs 8, filters 2, clamped to [1, 100]. The
// synthesized per-statement output node (Label "output" — it names no
// catalog relation) is not a table for scoring purposes and contributes
// nothing on its own, matching the same Label check analyzer_test.go uses
// to tell a real table node from the output node. Join-ON predicates
// recorded on a node are covered by the join weight and are not counted
// as filters.
func complexityScore(nodes []model.Node) int {
	score := 0
	for _, n := range nodes {
		switch {
		case n.NodeType == model.NodeTable && n.Label != "output":
			score += 5
		case n.NodeType == model.NodeCte:
			score += 8
		}
		if n.JoinType != nil {
			switch *n.JoinType {
			case model.JoinCross, model.JoinFull:
				score += 15
			default:
				score += 10
			}
		}
		for _, f := range n.Filters {
			if f.ClauseType != model.FilterJoinOn {
				score += 2
			}
		}
	}
	if score < 1 {
		return 1
	}
	if score > 100 {
		return 100
	}
	return score
}
