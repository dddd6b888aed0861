package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/querybridge/querybridge/internal/cliopt"
	"github.com/querybridge/querybridge/internal/cliutil"
	"github.com/querybridge/querybridge/pkg/querybridge"
	"github.com/querybridge/querybridge/pkg/querybridge/query"
)

// repeatFlag collects repeatable string flags.
type repeatFlag []string

func (r *repeatFlag) String() string { return strings.Join(*r, ",") }
func (r *repeatFlag) Set(v string) error {
	*r = append(*r, v)
	return nil
}

func RunSearch(g cliopt.GlobalOptions, argv []string) int {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var server, collection, term, raw, limitPer string
	var limit, page int
	var native bool
	var filters, orders, attrs repeatFlag
	fs.StringVar(&server, "server", "", "configured server name")
	fs.StringVar(&server, "s", "", "configured server name")
	fs.StringVar(&collection, "collection", "", "collection/table (defaults from config)")
	fs.StringVar(&term, "q", "", "free-text search term")
	fs.StringVar(&raw, "raw", "", "raw query addition (not escaped)")
	fs.Var(&filters, "f", "filter condition, e.g. year>=2000 or genre=a,b (repeatable, AND-ed)")
	fs.Var(&orders, "order", "sort criterion attr[:desc] (repeatable)")
	fs.Var(&attrs, "fields", "attribute to return (repeatable)")
	fs.IntVar(&limit, "l", 0, "row limit")
	fs.IntVar(&page, "p", 0, "1-based page")
	fs.StringVar(&limitPer, "limit-per", "", "group results by this field")
	fs.BoolVar(&native, "native", false, "expose native engine syntax unescaped")
	if err := fs.Parse(argv); err != nil {
		return 2
	}
	if server == "" {
		fmt.Fprintln(os.Stderr, "missing -s/--server")
		return 2
	}

	req := query.Request{
		Server:       server,
		Collection:   collection,
		Search:       term,
		RawQuery:     raw,
		Attributes:   attrs,
		Limit:        limit,
		Page:         page,
		LimitPer:     limitPer,
		NativeSyntax: native,
	}
	if len(filters) > 0 {
		group := make(query.Group, 0, len(filters))
		for _, f := range filters {
			cond, err := parseCondition(f)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 2
			}
			group = append(group, cond)
		}
		req.Filter = query.Filter{group}
	}
	for _, o := range orders {
		attr, dir, found := strings.Cut(o, ":")
		crit := query.Order{Attribute: attr, Direction: query.Asc}
		if found && dir == query.Desc {
			crit.Direction = query.Desc
		}
		req.Order = append(req.Order, crit)
	}

	ctx := context.Background()
	cfg, err := querybridge.LoadConfig(g.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	client, err := querybridge.Open(ctx, cfg, querybridge.Options{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer client.Close()

	start := time.Now()
	res, err := client.Search(ctx, req)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printSearch(cliutil.ParseOutputFormat(g.Format), res, time.Since(start))
	return 0
}

func printSearch(format cliutil.OutputFormat, res query.Result, dur time.Duration) {
	switch format {
	case cliutil.FormatPretty:
		fmt.Fprintf(os.Stdout, "Found %d docs (%d returned) in %dms\n",
			res.TotalCount, len(res.Docs), dur.Milliseconds())
		for _, doc := range res.Docs {
			cliutil.PrintJSON(os.Stdout, doc)
		}
	default:
		cliutil.PrintJSON(os.Stdout, res)
	}
}

// condition flag grammar: attr<op>value with op one of >=, <=, !=, >, <,
// =. An = value containing commas becomes an IN list.
func parseCondition(s string) (query.Condition, error) {
	for _, probe := range []struct {
		token string
		op    query.Operator
	}{
		{">=", query.GreaterOrEqual},
		{"<=", query.LessOrEqual},
		{"!=", query.NotEqual},
		{">", query.Greater},
		{"<", query.Less},
		{"=", query.Equal},
	} {
		attr, rest, found := strings.Cut(s, probe.token)
		if !found || attr == "" {
			continue
		}
		if probe.op == query.Equal && strings.Contains(rest, ",") {
			parts := strings.Split(rest, ",")
			vals := make([]any, len(parts))
			for i, p := range parts {
				vals[i] = coerce(p)
			}
			return query.Where(attr, query.Equal, vals), nil
		}
		return query.Where(attr, probe.op, coerce(rest)), nil
	}
	return query.Condition{}, fmt.Errorf("cannot parse filter %q", s)
}

func coerce(s string) any {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}
