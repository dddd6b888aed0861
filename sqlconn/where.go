package sqlconn

import (
	"regexp"
	"strings"

	qberrors "github.com/querybridge/querybridge/pkg/querybridge/errors"
	"github.com/querybridge/querybridge/pkg/querybridge/query"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func safeIdent(name string) (string, error) {
	if !identRe.MatchString(name) {
		return "", qberrors.BadRequest("invalid identifier " + name)
	}
	return quoteIdent(name), nil
}

// buildWhere renders the two-level OR-of-ANDs filter as a WHERE clause
// body (no WHERE keyword), collecting arguments into b. Range merging
// shares query.MergeRanges with the solr compiler so both connectors
// agree on interval semantics.
func buildWhere(f query.Filter, b *ArgBuilder) (string, error) {
	groups := make([]string, 0, len(f))
	for _, g := range f {
		s, err := buildGroup(g, b)
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

func buildGroup(g query.Group, b *ArgBuilder) (string, error) {
	merged := query.MergeRanges(g)
	parts := make([]string, 0, len(merged))
	for _, c := range merged {
		s, err := buildCondition(c, b)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return "(" + strings.Join(parts, " AND ") + ")", nil
}

func buildCondition(c query.Condition, b *ArgBuilder) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	if c.Composite() {
		return buildComposite(c, b)
	}
	col, err := safeIdent(c.Attr())
	if err != nil {
		return "", err
	}

	switch c.Operator {
	case query.Equal:
		if vals, ok := query.AsList(c.Value); ok {
			return inList(col, vals, false, b)
		}
		return col + " = " + b.Arg(c.Value), nil
	case query.NotEqual:
		if vals, ok := query.AsList(c.Value); ok {
			return inList(col, vals, true, b)
		}
		return col + " <> " + b.Arg(c.Value), nil
	case query.Less:
		return col + " < " + b.Arg(c.Value), nil
	case query.LessOrEqual:
		return col + " <= " + b.Arg(c.Value), nil
	case query.Greater:
		return col + " > " + b.Arg(c.Value), nil
	case query.GreaterOrEqual:
		return col + " >= " + b.Arg(c.Value), nil
	case query.Range:
		return buildRange(col, c.Value, b)
	}
	return "", qberrors.UnsupportedOperator(string(c.Operator))
}

func inList(col string, vals []any, negate bool, b *ArgBuilder) (string, error) {
	if len(vals) == 0 {
		return "", qberrors.BadRequest("empty value list for " + col)
	}
	phs := make([]string, len(vals))
	for i, v := range vals {
		phs[i] = b.Arg(v)
	}
	op := " IN ("
	if negate {
		op = " NOT IN ("
	}
	return col + op + strings.Join(phs, ", ") + ")", nil
}

func buildRange(col string, v any, b *ArgBuilder) (string, error) {
	if rv, ok := v.(query.RangeValue); ok {
		if rv.Lower.Inclusive && rv.Upper.Inclusive {
			return col + " BETWEEN " + b.Arg(rv.Lower.Value) + " AND " + b.Arg(rv.Upper.Value), nil
		}
		lo := " > "
		if rv.Lower.Inclusive {
			lo = " >= "
		}
		hi := " < "
		if rv.Upper.Inclusive {
			hi = " <= "
		}
		return "(" + col + lo + b.Arg(rv.Lower.Value) + " AND " + col + hi + b.Arg(rv.Upper.Value) + ")", nil
	}
	pair, ok := query.AsList(v)
	if !ok || len(pair) != 2 {
		return "", qberrors.BadRequest("range value must be a [lower, upper] pair")
	}
	return col + " BETWEEN " + b.Arg(pair[0]) + " AND " + b.Arg(pair[1]), nil
}

// buildComposite renders a multi-attribute equality condition: one
// parenthesised conjunction per value row, rows joined with OR.
func buildComposite(c query.Condition, b *ArgBuilder) (string, error) {
	cols := make([]string, len(c.Attributes))
	for i, a := range c.Attributes {
		col, err := safeIdent(a)
		if err != nil {
			return "", err
		}
		cols[i] = col
	}
	rows := c.Value.([][]any)
	rendered := make([]string, 0, len(rows))
	for _, row := range rows {
		parts := make([]string, len(row))
		for i, v := range row {
			parts[i] = cols[i] + " = " + b.Arg(v)
		}
		rendered = append(rendered, "("+strings.Join(parts, " AND ")+")")
	}
	if len(rendered) == 1 {
		return rendered[0], nil
	}
	return "(" + strings.Join(rendered, " OR ") + ")", nil
}

// buildSearch renders the free-text term as a case-insensitive contains
// match OR-ed across the configured search fields.
func buildSearch(term string, fields []string, d Dialect, b *ArgBuilder) (string, error) {
	if len(fields) == 0 {
		return "", qberrors.BadRequest("free-text search needs configured search fields")
	}
	pattern := "%" + escapeLike(term) + "%"
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		col, err := safeIdent(f)
		if err != nil {
			return "", err
		}
		parts = append(parts, d.ContainsFold(col, b.Arg(pattern)))
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return "(" + strings.Join(parts, " OR ") + ")", nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
