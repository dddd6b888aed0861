package backend

import "github.com/querybridge/querybridge/pkg/querybridge/query"

// OperatorSet is the set of operators an engine profile accepts.
// Supported-operator variance across engine versions is expressed here as
// data rather than branching code.
type OperatorSet map[query.Operator]bool

// Supports reports whether op is in the set.
func (s OperatorSet) Supports(op query.Operator) bool { return s[op] }

// Operators builds an OperatorSet from a list.
func Operators(ops ...query.Operator) OperatorSet {
	s := make(OperatorSet, len(ops))
	for _, op := range ops {
		s[op] = true
	}
	return s
}

// AllOperators is the full canonical operator set.
func AllOperators() OperatorSet {
	return Operators(
		query.Equal, query.NotEqual,
		query.Less, query.LessOrEqual,
		query.Greater, query.GreaterOrEqual,
		query.Range,
	)
}

// Capabilities describes what a connector can do, so the federation layer
// can route or reject requests without probing the engine.
type Capabilities struct {
	Operators OperatorSet

	// CompositeKeys: multi-attribute equality filters matched row-wise.
	CompositeKeys bool
	// FullText: free-text search term support.
	FullText bool
	// FieldScopedSearch: "field:term" scoping of the search term.
	FieldScopedSearch bool
	// Grouping: limit-per-field result grouping.
	Grouping bool
	// RawQuery: verbatim native query additions.
	RawQuery bool
}
