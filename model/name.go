package model

import "strings"

// CanonicalName is the {catalog?, schema?, name} triple after case-folding
// and defaulting (spec.md §3, §4.2). Equality is structural on the folded
// parts; an empty part only matches another empty part — callers that want
// "None matches any" resolution semantics implement that explicitly in the
// registry, not here, since CanonicalName itself must stay a plain
// comparable value (map key, node-id input).
type CanonicalName struct {
	Catalog string `json:"catalog,omitempty"`
	Schema  string `json:"schema,omitempty"`
	Name    string `json:"name"`
}

// String renders the canonical name as dot-joined parts, used both for
// display and as the stable string fed into node-id hashing.
func (c CanonicalName) String() string {
	parts := make([]string, 0, 3)
	if c.Catalog != "" {
		parts = append(parts, c.Catalog)
	}
	if c.Schema != "" {
		parts = append(parts, c.Schema)
	}
	parts = append(parts, c.Name)
	return strings.Join(parts, ".")
}

func (c CanonicalName) Equal(other CanonicalName) bool {
	return c.Catalog == other.Catalog && c.Schema == other.Schema && c.Name == other.Name
}
