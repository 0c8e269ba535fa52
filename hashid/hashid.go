// Package hashid generates the deterministic node/edge identifiers FlowScope
// relies on for its core invariant: identical inputs hash to byte-identical
// IDs across runs and platforms (spec.md §3, §9 "Identifier hashing").
//
// Ported from the original's analyzer/helpers/id.rs, which hashed with
// Rust's DefaultHasher (SipHash, stable within one build but not guaranteed
// across Rust versions or platforms — acceptable there since the whole
// binary ships as one artifact). Go has no std hasher with that guarantee
// either (hash/maphash is explicitly process-seeded), so instead of
// hash/fnv's slower Write-based API we use xxhash, whose output is a pure
// function of its input bytes with no process or platform-dependent seed.
package hashid

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

func hashString(parts ...string) uint64 {
	h := xxhash.New()
	for _, p := range parts {
		_, _ = h.WriteString(p)
		_, _ = h.WriteString("\x00")
	}
	return h.Sum64()
}

// NodeID returns a deterministic id for a node of the given type and
// (already-canonicalized) name.
func NodeID(nodeType, name string) string {
	return fmt.Sprintf("%s_%016x", nodeType, hashString(nodeType, name))
}

// EdgeID returns a deterministic id for the edge between two node ids.
func EdgeID(fromID, toID string) string {
	return fmt.Sprintf("edge_%016x", hashString(fromID, toID))
}

// ColumnNodeID returns a deterministic id for a column node scoped to an
// optional parent node id.
func ColumnNodeID(parentID *string, columnName string) string {
	parent := ""
	if parentID != nil {
		parent = *parentID
	}
	return fmt.Sprintf("column_%016x", hashString("column", parent, columnName))
}

// OutputNodeID returns a deterministic id for a statement's synthesized
// projection output node.
func OutputNodeID(statementIndex int) string {
	return NodeID("output", fmt.Sprintf("statement_%d", statementIndex))
}
