// Package querybridge routes engine-agnostic query requests to
// interchangeable backend connectors built from configuration.
package querybridge

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/querybridge/querybridge/pkg/querybridge/backend"
	qberrors "github.com/querybridge/querybridge/pkg/querybridge/errors"
	"github.com/querybridge/querybridge/pkg/querybridge/query"
	"github.com/querybridge/querybridge/solr"
	"github.com/querybridge/querybridge/sqlconn"
)

// Options tune the shared plumbing handed to every connector.
type Options struct {
	Logger     *slog.Logger
	Registerer prometheus.Registerer
	HTTPClient *http.Client
}

// Client is the federation entry point: a name-keyed set of connectors.
type Client struct {
	connectors map[string]backend.Connector
	logger     *slog.Logger
}

// Open builds one connector per configured server. SQL connectors are
// connected (and pinged) eagerly; solr connectors perform no I/O until
// the first request.
func Open(ctx context.Context, cfg Config, opts Options) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := solr.NewMetrics(opts.Registerer)

	connectors := make(map[string]backend.Connector, len(cfg.Servers))
	closeAll := func() {
		for _, c := range connectors {
			_ = c.Close()
		}
	}

	for name, sc := range cfg.Servers {
		var (
			conn backend.Connector
			err  error
		)
		switch sc.Engine {
		case "solr":
			var profile solr.Profile
			profile, err = solr.ProfileByName(sc.Profile)
			if err == nil {
				conn, err = solr.New(solr.Options{
					Server:       name,
					URLs:         sc.URLs,
					Collection:   sc.Collection,
					SearchFields: sc.SearchFields,
					Profile:      profile,
					Timeout:      time.Duration(sc.TimeoutMS) * time.Millisecond,
					HTTPClient:   opts.HTTPClient,
					Logger:       logger,
					Metrics:      metrics,
				})
			}
		default:
			conn, err = sqlconn.Open(ctx, sqlconn.Options{
				Server:       name,
				Engine:       sc.Engine,
				DSN:          sc.DSN,
				Table:        sc.Collection,
				SearchFields: sc.SearchFields,
				Logger:       logger,
			})
		}
		if err != nil {
			closeAll()
			return nil, err
		}
		connectors[name] = conn
	}
	return &Client{connectors: connectors, logger: logger}, nil
}

// Connector resolves a configured server by name.
func (c *Client) Connector(name string) (backend.Connector, error) {
	conn, ok := c.connectors[name]
	if !ok {
		return nil, qberrors.UnknownServer(name)
	}
	return conn, nil
}

// Search routes the request to the connector named by req.Server.
func (c *Client) Search(ctx context.Context, req query.Request) (query.Result, error) {
	conn, err := c.Connector(req.Server)
	if err != nil {
		return query.Result{}, err
	}
	return conn.Search(ctx, req)
}

// Ping checks the named server's reachability.
func (c *Client) Ping(ctx context.Context, server string) error {
	conn, err := c.Connector(server)
	if err != nil {
		return err
	}
	return conn.Ping(ctx)
}

// Servers lists configured server names, sorted.
func (c *Client) Servers() []string {
	names := make([]string, 0, len(c.connectors))
	for name := range c.connectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close releases every connector.
func (c *Client) Close() error {
	var first error
	for _, conn := range c.connectors {
		if err := conn.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
