package sqlconn

import (
	"context"
	"database/sql"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/querybridge/querybridge/pkg/querybridge/backend"
	qberrors "github.com/querybridge/querybridge/pkg/querybridge/errors"
	"github.com/querybridge/querybridge/pkg/querybridge/query"
)

// rnCol is the synthetic row-number column used for grouped queries; it
// is stripped from result docs.
const rnCol = "qb_rn"

// Options configure a SQL connector.
type Options struct {
	// Server is the configured name, used for logging.
	Server string
	// Engine is "postgres" or "sqlite".
	Engine string
	DSN    string
	// Table is the default table when a request names no collection.
	Table string
	// SearchFields are the columns matched by free-text search terms.
	SearchFields []string
	Logger       *slog.Logger
}

// Connector runs the generic query model against a SQL database.
type Connector struct {
	db      *sql.DB
	dialect Dialect
	opts    Options
	logger  *slog.Logger
}

var _ backend.Connector = (*Connector)(nil)

// Open connects per the configured engine and verifies the connection.
func Open(ctx context.Context, opts Options) (*Connector, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var db *sql.DB
	var d Dialect
	switch opts.Engine {
	case "postgres":
		cfg, err := pgx.ParseConfig(opts.DSN)
		if err != nil {
			return nil, qberrors.Wrap(qberrors.ErrConfig, "parse postgres DSN", err)
		}
		db = stdlib.OpenDB(*cfg)
		d = postgresDialect{}
	case "sqlite":
		var err error
		db, err = sql.Open("sqlite", opts.DSN)
		if err != nil {
			return nil, qberrors.Wrap(qberrors.ErrConfig, "open sqlite", err)
		}
		d = sqliteDialect{}
	default:
		return nil, qberrors.NewError(qberrors.ErrConfig, "unknown sql engine "+opts.Engine)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, qberrors.Wrap(qberrors.ErrTransport, "connect "+opts.Engine, err)
	}
	return &Connector{db: db, dialect: d, opts: opts, logger: logger}, nil
}

func (c *Connector) Name() string { return c.dialect.Name() }

func (c *Connector) Capabilities() backend.Capabilities {
	return backend.Capabilities{
		Operators:     backend.AllOperators(),
		CompositeKeys: true,
		FullText:      len(c.opts.SearchFields) > 0,
		Grouping:      true,
	}
}

func (c *Connector) Ping(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return qberrors.Wrap(qberrors.ErrTransport, "ping "+c.dialect.Name(), err)
	}
	return nil
}

func (c *Connector) Close() error { return c.db.Close() }

// Search translates the request into a count query plus a row query and
// normalizes the rows into the shared result shape.
func (c *Connector) Search(ctx context.Context, req query.Request) (query.Result, error) {
	if err := req.Filter.Validate(); err != nil {
		return query.Result{}, err
	}
	if req.RawQuery != "" {
		return query.Result{}, qberrors.BadRequest("raw query additions are not supported by sql connectors")
	}
	table := req.Collection
	if table == "" {
		table = c.opts.Table
	}
	tbl, err := safeIdent(table)
	if err != nil {
		return query.Result{}, err
	}

	b := NewArgBuilder(c.dialect)
	var conds []string
	if term := strings.TrimSpace(req.Search); term != "" {
		s, err := buildSearch(term, c.opts.SearchFields, c.dialect, b)
		if err != nil {
			return query.Result{}, err
		}
		conds = append(conds, s)
	}
	if len(req.Filter) > 0 {
		s, err := buildWhere(req.Filter, b)
		if err != nil {
			return query.Result{}, err
		}
		conds = append(conds, s)
	}

	from := " FROM " + tbl
	if len(conds) > 0 {
		from += " WHERE " + strings.Join(conds, " AND ")
	}
	whereArgs := append([]any(nil), b.Args()...)

	selectSQL, err := c.buildSelect(req, tbl, from, b)
	if err != nil {
		return query.Result{}, err
	}

	start := time.Now()
	var total int64
	if err := c.db.QueryRowContext(ctx, "SELECT count(*)"+from, whereArgs...).Scan(&total); err != nil {
		return query.Result{}, qberrors.Wrap(qberrors.ErrBackend, "count query", err)
	}
	docs, err := c.queryDocs(ctx, selectSQL, b.Args())
	if err != nil {
		return query.Result{}, err
	}
	c.logger.Debug("sql search",
		"server", c.opts.Server, "engine", c.dialect.Name(), "table", table,
		"duration_ms", time.Since(start).Milliseconds(), "total", total)

	return query.Result{TotalCount: total, Docs: docs}, nil
}

func (c *Connector) buildSelect(req query.Request, tbl, from string, b *ArgBuilder) (string, error) {
	cols := "*"
	if len(req.Attributes) > 0 {
		quoted := make([]string, len(req.Attributes))
		for i, a := range req.Attributes {
			col, err := safeIdent(a)
			if err != nil {
				return "", err
			}
			quoted[i] = col
		}
		cols = strings.Join(quoted, ", ")
	}

	if req.LimitPer != "" {
		// Grouped shape: at most Limit rows per LimitPer value, limit
		// sentinel-free and sort not forwarded, matching the solr
		// connector's grouping contract.
		grp, err := safeIdent(req.LimitPer)
		if err != nil {
			return "", err
		}
		perGroup := req.Limit
		if perGroup <= 0 {
			perGroup = query.NoLimit
		}
		inner := "SELECT *, row_number() OVER (PARTITION BY " + grp + ") AS " + rnCol + from
		return "SELECT " + cols + " FROM (" + inner + ") qb WHERE " + rnCol + " <= " + b.Arg(perGroup), nil
	}

	sel := "SELECT " + cols + from
	if len(req.Order) > 0 {
		parts := make([]string, len(req.Order))
		for i, o := range req.Order {
			col, err := safeIdent(o.Attribute)
			if err != nil {
				return "", err
			}
			dir := " ASC"
			if o.Direction == query.Desc {
				dir = " DESC"
			}
			parts[i] = col + dir
		}
		sel += " ORDER BY " + strings.Join(parts, ", ")
	}
	if req.Limit > 0 {
		sel += " LIMIT " + strconv.Itoa(req.Limit)
		if req.Page > 0 {
			sel += " OFFSET " + strconv.Itoa((req.Page-1)*req.Limit)
		}
	}
	return sel, nil
}

func (c *Connector) queryDocs(ctx context.Context, sqlText string, args []any) ([]map[string]any, error) {
	rows, err := c.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, qberrors.Wrap(qberrors.ErrBackend, "row query", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, qberrors.Wrap(qberrors.ErrBackend, "read columns", err)
	}

	var docs []map[string]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, qberrors.Wrap(qberrors.ErrBackend, "scan row", err)
		}
		doc := make(map[string]any, len(cols))
		for i, name := range cols {
			if name == rnCol {
				continue
			}
			if bs, ok := vals[i].([]byte); ok {
				doc[name] = string(bs)
			} else {
				doc[name] = vals[i]
			}
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, qberrors.Wrap(qberrors.ErrBackend, "iterate rows", err)
	}
	return docs, nil
}
