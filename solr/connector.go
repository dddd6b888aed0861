package solr

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/querybridge/querybridge/pkg/querybridge/backend"
	qberrors "github.com/querybridge/querybridge/pkg/querybridge/errors"
	"github.com/querybridge/querybridge/pkg/querybridge/query"
)

const defaultTimeout = 10 * time.Second

// Options configure a Connector.
type Options struct {
	// Server is the configured name this connector answers to; used as
	// the log/metric label.
	Server string
	// URLs are the engine base URLs, rotated round-robin per request.
	URLs []string
	// Collection is the default collection when a request names none.
	Collection string
	// SearchFields is the server-level allow-list for field-scoped
	// search terms; a request's own list takes precedence.
	SearchFields []string
	// Profile selects the supported-operator set. Zero value means
	// standard.
	Profile Profile

	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
	Metrics    *Metrics
}

// Connector is the Solr implementation of backend.Connector.
type Connector struct {
	opts Options
	rot  *rotation
	t    *transport
}

var _ backend.Connector = (*Connector)(nil)

// New builds a connector. It performs no I/O.
func New(opts Options) (*Connector, error) {
	rot, err := newRotation(opts.URLs)
	if err != nil {
		return nil, err
	}
	if opts.Profile.Name == "" {
		opts.Profile = StandardProfile()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Connector{
		opts: opts,
		rot:  rot,
		t: &transport{
			client:  client,
			logger:  opts.Logger,
			metrics: opts.Metrics,
			server:  opts.Server,
		},
	}, nil
}

func (c *Connector) Name() string { return "solr" }

func (c *Connector) Capabilities() backend.Capabilities {
	return backend.Capabilities{
		Operators:         c.opts.Profile.Operators,
		CompositeKeys:     true,
		FullText:          true,
		FieldScopedSearch: true,
		Grouping:          true,
		RawQuery:          true,
	}
}

// Search compiles and assembles the request, issues it against the next
// base URL in rotation and normalizes the reply.
func (c *Connector) Search(ctx context.Context, req query.Request) (query.Result, error) {
	if err := req.Filter.Validate(); err != nil {
		return query.Result{}, err
	}
	collection := req.Collection
	if collection == "" {
		collection = c.opts.Collection
	}
	if collection == "" {
		return query.Result{}, qberrors.BadRequest("no collection named in request or configuration")
	}

	params, err := Assemble(req, c.opts.Profile, c.opts.SearchFields)
	if err != nil {
		return query.Result{}, err
	}

	resp, err := c.t.selectQuery(ctx, c.rot.pick(), collection, params)
	if err != nil {
		return query.Result{}, err
	}
	return query.Result{
		TotalCount: resp.Response.NumFound,
		Docs:       resp.Response.Docs,
	}, nil
}

func (c *Connector) Ping(ctx context.Context) error {
	return c.t.ping(ctx, c.rot.pick())
}

func (c *Connector) Close() error { return nil }
