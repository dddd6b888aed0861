package solr

import (
	"strings"

	qberrors "github.com/querybridge/querybridge/pkg/querybridge/errors"
	"github.com/querybridge/querybridge/pkg/querybridge/query"
)

// Compiler renders a filter expression to the engine's boolean query
// syntax. It is a pure value; Compile never mutates its input and is
// safe for concurrent use.
type Compiler struct {
	Profile Profile
	// Native exposes engine phrase/wildcard syntax unescaped.
	Native bool
}

// Compile renders the two-level OR-of-ANDs filter. It fails with an
// unsupported-operator error if any condition uses an operator outside
// the profile's set, before any rendering happens.
func (c Compiler) Compile(f query.Filter) (string, error) {
	for _, g := range f {
		for _, cond := range g {
			if !c.Profile.Operators.Supports(cond.Operator) {
				return "", qberrors.UnsupportedOperator(string(cond.Operator))
			}
		}
	}

	groups := make([]string, 0, len(f))
	for _, g := range f {
		s, err := c.compileGroup(g)
		if err != nil {
			return "", err
		}
		groups = append(groups, s)
	}
	if len(groups) == 1 {
		return groups[0], nil
	}
	return "(" + strings.Join(groups, " OR ") + ")", nil
}

func (c Compiler) compileGroup(g query.Group) (string, error) {
	merged := query.MergeRanges(g)
	frags := make([]string, 0, len(merged))
	for _, cond := range merged {
		frag, err := c.renderCondition(cond)
		if err != nil {
			return "", err
		}
		frags = append(frags, frag)
	}
	return "(" + strings.Join(frags, " AND ") + ")", nil
}

func (c Compiler) renderCondition(cond query.Condition) (string, error) {
	if err := cond.Validate(); err != nil {
		return "", err
	}
	if cond.Composite() {
		return c.renderComposite(cond)
	}

	attr := c.ident(cond.Attr())
	switch cond.Operator {
	case query.Range:
		return c.renderRange(attr, cond.Value)
	case query.Greater:
		return attr + ":{" + c.scalar(cond.Value) + " TO *]", nil
	case query.GreaterOrEqual:
		return attr + ":[" + c.scalar(cond.Value) + " TO *]", nil
	case query.Less:
		return attr + ":[* TO " + c.scalar(cond.Value) + "}", nil
	case query.LessOrEqual:
		return attr + ":[* TO " + c.scalar(cond.Value) + "]", nil
	case query.NotEqual:
		return "-" + attr + ":" + c.scalar(cond.Value), nil
	case query.Equal:
		return attr + ":" + c.scalar(cond.Value), nil
	}
	return "", qberrors.UnsupportedOperator(string(cond.Operator))
}

// ident escapes an attribute name with the same reserved-character
// rules as values.
func (c Compiler) ident(name string) string {
	return escapeString(name, c.Native)
}

// scalar renders a value: arrays become an OR list (IN semantics),
// everything else a single escaped literal.
func (c Compiler) scalar(v any) string {
	if vals, ok := query.AsList(v); ok {
		parts := make([]string, len(vals))
		for i, e := range vals {
			parts[i] = literal(e, c.Native)
		}
		return "(" + strings.Join(parts, " OR ") + ")"
	}
	return literal(v, c.Native)
}

func (c Compiler) renderRange(attr string, v any) (string, error) {
	if rv, ok := v.(query.RangeValue); ok {
		lc, uc := "{", "}"
		if rv.Lower.Inclusive {
			lc = "["
		}
		if rv.Upper.Inclusive {
			uc = "]"
		}
		return attr + ":" + lc + literal(rv.Lower.Value, c.Native) +
			" TO " + literal(rv.Upper.Value, c.Native) + uc, nil
	}
	pair, ok := query.AsList(v)
	if !ok || len(pair) != 2 {
		return "", qberrors.BadRequest("range value must be a [lower, upper] pair")
	}
	// Caller-supplied pairs are inclusive on both ends.
	return attr + ":[" + literal(pair[0], c.Native) +
		" TO " + literal(pair[1], c.Native) + "]", nil
}

// renderComposite renders a multi-attribute equality condition: each
// value row becomes a parenthesised conjunction, rows joined with OR.
func (c Compiler) renderComposite(cond query.Condition) (string, error) {
	rows := cond.Value.([][]any)
	rendered := make([]string, 0, len(rows))
	for _, row := range rows {
		parts := make([]string, len(row))
		for i, v := range row {
			parts[i] = c.ident(cond.Attributes[i]) + ":" + literal(v, c.Native)
		}
		rendered = append(rendered, "("+strings.Join(parts, " AND ")+")")
	}
	return strings.Join(rendered, " OR "), nil
}
