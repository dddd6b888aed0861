package query

import (
	qberrors "github.com/querybridge/querybridge/pkg/querybridge/errors"
)

// NoLimit is the sentinel row count connectors substitute when a
// request carries no explicit limit.
const NoLimit = 1000000

// Operator is the closed set of comparison operators a condition may use.
// A given engine may support only a subset; see backend.OperatorSet.
type Operator string

const (
	Equal          Operator = "equal"
	NotEqual       Operator = "notEqual"
	Less           Operator = "less"
	LessOrEqual    Operator = "lessOrEqual"
	Greater        Operator = "greater"
	GreaterOrEqual Operator = "greaterOrEqual"
	Range          Operator = "range"
)

// ParseOperator validates a wire-level operator name.
func ParseOperator(s string) (Operator, error) {
	switch Operator(s) {
	case Equal, NotEqual, Less, LessOrEqual, Greater, GreaterOrEqual, Range:
		return Operator(s), nil
	}
	return "", qberrors.UnsupportedOperator(s)
}

// Condition is one attribute/operator/value triple.
//
// Attributes holds a single name for plain conditions. A composite key
// carries N names; Value must then be [][]any where each row has exactly
// N scalars matched positionally to Attributes. Composite keys only
// support equality semantics.
//
// For plain conditions Value is a scalar, a []any (IN semantics), or for
// Range a 2-element [lower, upper] pair (or a RangeValue produced by
// MergeRanges).
type Condition struct {
	Attributes []string
	Operator   Operator
	Value      any
}

// Where builds a plain single-attribute condition.
func Where(attr string, op Operator, value any) Condition {
	return Condition{Attributes: []string{attr}, Operator: op, Value: value}
}

// WhereComposite builds an equality condition over a composite key.
func WhereComposite(attrs []string, rows [][]any) Condition {
	return Condition{Attributes: attrs, Operator: Equal, Value: rows}
}

// Attr returns the attribute name of a plain condition.
func (c Condition) Attr() string {
	if len(c.Attributes) == 0 {
		return ""
	}
	return c.Attributes[0]
}

// Composite reports whether the condition targets a composite key.
func (c Condition) Composite() bool { return len(c.Attributes) > 1 }

// Validate checks the structural invariants of a condition.
func (c Condition) Validate() error {
	if len(c.Attributes) == 0 {
		return qberrors.BadRequest("condition has no attribute")
	}
	if !c.Composite() {
		return nil
	}
	if c.Operator != Equal {
		return qberrors.BadRequest("composite key conditions only support equality")
	}
	rows, ok := c.Value.([][]any)
	if !ok {
		return qberrors.BadRequest("composite key value must be rows of scalars")
	}
	for _, row := range rows {
		if len(row) != len(c.Attributes) {
			return qberrors.BadRequest("composite key row arity does not match attribute count")
		}
	}
	return nil
}

// Group is a set of conditions combined with AND.
type Group []Condition

// Filter is a disjunction of groups: depth is fixed at exactly two
// levels (OR of ANDs), no nested boolean trees beyond this.
type Filter []Group

// Validate checks every condition in the filter.
func (f Filter) Validate() error {
	for _, g := range f {
		for _, c := range g {
			if err := c.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Sort directions.
const (
	Asc  = "asc"
	Desc = "desc"
)

// Order is one sort criterion. Sequence order across a []Order is
// significant and preserved in engine output.
type Order struct {
	Attribute string `json:"attribute"`
	Direction string `json:"direction"`
}

// Request is the engine-agnostic query description handed to a connector.
type Request struct {
	// Server names the configured backend this request routes to.
	Server string `json:"server,omitempty"`
	// Collection is the index/collection/table queried. Empty falls back
	// to the server's configured default.
	Collection string `json:"collection,omitempty"`

	Attributes []string `json:"attributes,omitempty"`
	Filter     Filter   `json:"-"`

	// Search is a free-text term, OR SearchFields restricts which
	// "field:rest" prefixes of it are honored as field-scoped search.
	Search       string   `json:"search,omitempty"`
	SearchFields []string `json:"searchFields,omitempty"`

	// RawQuery is appended to the engine query verbatim (after
	// whitespace collapsing). Escaping is the caller's responsibility.
	RawQuery string `json:"rawQuery,omitempty"`

	Order []Order `json:"order,omitempty"`

	Limit int `json:"limit,omitempty"`
	// Page is 1-based; the offset is (Page-1)*Limit.
	Page int `json:"page,omitempty"`
	// LimitPer switches the result to grouped-by-field shape; Limit then
	// acts as the per-group row cap.
	LimitPer string `json:"limitPer,omitempty"`

	// NativeSyntax exposes the engine's own phrase/wildcard syntax
	// unescaped, for power users.
	NativeSyntax bool `json:"nativeSyntax,omitempty"`
}

// Result is the normalized response shape shared by all connectors.
type Result struct {
	TotalCount int64            `json:"totalCount"`
	Docs       []map[string]any `json:"data"`
}
