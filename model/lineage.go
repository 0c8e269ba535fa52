package model

// NodeType discriminates the kind of entity a Node represents.
type NodeType string

const (
	NodeTable  NodeType = "table"
	NodeCte    NodeType = "cte"
	NodeColumn NodeType = "column"
)

// JoinType mirrors the SQL join keywords a node's incoming join carries.
type JoinType string

const (
	JoinInner JoinType = "inner"
	JoinLeft  JoinType = "left"
	JoinRight JoinType = "right"
	JoinFull  JoinType = "full"
	JoinCross JoinType = "cross"
	JoinSemi  JoinType = "semi"
	JoinAnti  JoinType = "anti"
)

// FilterClauseType records which clause produced a FilterPredicate.
type FilterClauseType string

const (
	FilterWhere  FilterClauseType = "where"
	FilterHaving FilterClauseType = "having"
	FilterJoinOn FilterClauseType = "join_on"
)

// FilterPredicate is a recorded filter expression attached to the node it
// was extracted from.
type FilterPredicate struct {
	ClauseType FilterClauseType `json:"clauseType"`
	Expression string           `json:"expression"`
}

// ColumnRef is a single column produced or consumed by a node (its
// projection list, in the case of a Table/Cte/output node).
type ColumnRef struct {
	Name     string  `json:"name"`
	DataType *string `json:"dataType,omitempty"`
}

// Node is a table, CTE, or column participating in a statement's lineage
// graph. Node IDs are a deterministic function of (NodeType, qualified name)
// (and parent id, for columns) — see hashid.
type Node struct {
	ID            string             `json:"id"`
	NodeType      NodeType           `json:"nodeType"`
	Label         string             `json:"label"`
	QualifiedName *string            `json:"qualifiedName,omitempty"`
	Alias         *string            `json:"alias,omitempty"`
	Columns       []ColumnRef        `json:"columns,omitempty"`
	Filters       []FilterPredicate  `json:"filters,omitempty"`
	JoinType      *JoinType          `json:"joinType,omitempty"`
	Span          *Span              `json:"span,omitempty"`
}

func NewTableNode(id, label string) Node {
	return Node{ID: id, NodeType: NodeTable, Label: label}
}

func NewCteNode(id, label string) Node {
	return Node{ID: id, NodeType: NodeCte, Label: label}
}

func (n Node) WithJoinType(jt JoinType) Node {
	n.JoinType = &jt
	return n
}

// EdgeType discriminates the kind of data-flow relationship an Edge
// represents.
type EdgeType string

const (
	EdgeDataFlow   EdgeType = "data_flow"
	EdgeJoin       EdgeType = "join"
	EdgeFilter     EdgeType = "filter"
	EdgeProjection EdgeType = "projection"
	EdgeCteRef     EdgeType = "cte_ref"
)

// Edge connects two nodes. Edge IDs are a deterministic function of
// (fromNodeID, toNodeID) — see hashid.
type Edge struct {
	ID         string   `json:"id"`
	FromNodeID string   `json:"fromNodeId"`
	ToNodeID   string   `json:"toNodeId"`
	EdgeType   EdgeType `json:"edgeType"`
	FromColumn *string  `json:"fromColumn,omitempty"`
	ToColumn   *string  `json:"toColumn,omitempty"`
	Expression *string  `json:"expression,omitempty"`
}

// dedupeKey identifies an edge for the (from,to,type,fromCol,toCol)
// de-duplication rule in spec.md §4.4.
func (e Edge) dedupeKey() string {
	fc, tc := "", ""
	if e.FromColumn != nil {
		fc = *e.FromColumn
	}
	if e.ToColumn != nil {
		tc = *e.ToColumn
	}
	return e.FromNodeID + "|" + e.ToNodeID + "|" + string(e.EdgeType) + "|" + fc + "|" + tc
}

// DedupeEdges removes duplicate edges per spec.md §4.4, preserving the
// order of first occurrence.
func DedupeEdges(edges []Edge) []Edge {
	seen := make(map[string]struct{}, len(edges))
	out := make([]Edge, 0, len(edges))
	for _, e := range edges {
		key := e.dedupeKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	return out
}

// StatementLineage is the per-statement analysis result (spec.md §3).
type StatementLineage struct {
	Index            int      `json:"index"`
	SourceName       *string  `json:"sourceName,omitempty"`
	QueryType        string   `json:"queryType"`
	Nodes            []Node   `json:"nodes"`
	Edges            []Edge   `json:"edges"`
	ComplexityScore  int      `json:"complexityScore"`
	Span             *Span    `json:"span,omitempty"`
}

// GlobalNode records a relation stitched across statements by the
// cross-statement tracker.
type GlobalNode struct {
	ID                string `json:"id"`
	CanonicalName     string `json:"canonicalName"`
	Kind              string `json:"kind"` // "table" | "view" | "materialized_table"; CTEs get no GlobalNode
	DefinedByStatement *int  `json:"definedByStatement,omitempty"`
}

// GlobalEdge is a GlobalLineage data-flow relationship between two
// GlobalNodes (or a GlobalNode and a statement's synthesized output).
type GlobalEdge struct {
	ID             string `json:"id"`
	FromNodeID     string `json:"fromNodeId"`
	ToNodeID       string `json:"toNodeId"`
	StatementIndex int    `json:"statementIndex"`
}

// GlobalLineage is the request-wide lineage graph stitched across
// statements (spec.md §3, §4.5).
type GlobalLineage struct {
	Nodes []GlobalNode `json:"nodes"`
	Edges []GlobalEdge `json:"edges"`
}
