package solr

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/querybridge/querybridge/pkg/querybridge/query"
)

const (
	// NoLimit is the sentinel row count substituted when no explicit
	// limit is given, so the engine's own default page size never
	// applies.
	NoLimit = query.NoLimit

	// MatchAll is the universal match token used when no filter, search
	// term or raw addition is present.
	MatchAll = "*:*"
)

var spaceRunRe = regexp.MustCompile(`\s+`)

// Assemble combines the compiled filter, the escaped search term, the
// raw query addition and the sort/pagination/grouping options into the
// flat parameter map the select endpoint expects. The returned map is
// owned by the caller.
func Assemble(req query.Request, profile Profile, searchFields []string) (map[string]string, error) {
	params := map[string]string{"wt": "json"}

	if len(req.Attributes) > 0 {
		params["fl"] = strings.Join(req.Attributes, ",")
	}

	fields := req.SearchFields
	if len(fields) == 0 {
		fields = searchFields
	}

	var frags []string
	if term := strings.TrimSpace(req.Search); term != "" {
		frags = append(frags, searchFragment(term, fields, req.NativeSyntax))
	}
	if len(req.Filter) > 0 {
		compiled, err := Compiler{Profile: profile, Native: req.NativeSyntax}.Compile(req.Filter)
		if err != nil {
			return nil, err
		}
		frags = append(frags, compiled)
	}
	if raw := strings.TrimSpace(spaceRunRe.ReplaceAllString(req.RawQuery, " ")); raw != "" {
		// Verbatim; escaping raw additions is the caller's business.
		frags = append(frags, raw)
	}
	if len(frags) == 0 {
		frags = append(frags, MatchAll)
	}
	params["q"] = strings.Join(frags, " AND ")

	limit := req.Limit
	if limit <= 0 {
		limit = NoLimit
	}
	params["rows"] = strconv.Itoa(limit)
	if req.Page > 0 {
		params["start"] = strconv.Itoa((req.Page - 1) * limit)
	}

	if req.LimitPer == "" {
		if len(req.Order) > 0 {
			params["sort"] = sortString(req.Order)
		}
		return params, nil
	}

	// Grouped result shape: the per-group limit takes over pagination,
	// so the row limit falls back to the sentinel. Explicit sort order
	// is not forwarded; group ordering stays at engine defaults.
	params["rows"] = strconv.Itoa(NoLimit)
	params["group"] = "true"
	params["group.field"] = req.LimitPer
	params["group.limit"] = strconv.Itoa(limit)
	params["group.format"] = "simple"
	params["group.main"] = "true"
	return params, nil
}

func sortString(order []query.Order) string {
	parts := make([]string, len(order))
	for i, o := range order {
		dir := o.Direction
		if dir != query.Desc {
			dir = query.Asc
		}
		parts[i] = o.Attribute + " " + dir
	}
	return strings.Join(parts, ",")
}

// searchFragment renders the free-text term. A term shaped like
// "<allowed-field>:<rest>" becomes a phrase-quoted field-scoped clause;
// anything else is escaped wholesale.
func searchFragment(term string, fields []string, native bool) string {
	for _, f := range fields {
		prefix := f + ":"
		if strings.HasPrefix(term, prefix) && len(term) > len(prefix) {
			return "(" + f + ":\"" + term[len(prefix):] + "\")"
		}
	}
	return escapeString(term, native)
}
