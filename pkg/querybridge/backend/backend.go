package backend

import (
	"context"

	"github.com/querybridge/querybridge/pkg/querybridge/query"
)

// Connector translates the generic query model into one engine's native
// syntax, executes the query, and normalizes the response. Connectors are
// stateless per call and safe for concurrent use.
type Connector interface {
	// Name identifies the engine kind ("solr", "postgres", "sqlite").
	Name() string
	Capabilities() Capabilities
	Search(ctx context.Context, req query.Request) (query.Result, error)
	Ping(ctx context.Context) error
	Close() error
}
