package solr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	qberrors "github.com/querybridge/querybridge/pkg/querybridge/errors"
)

// selectResponse is the slice of the engine's JSON reply this connector
// consumes.
type selectResponse struct {
	Response struct {
		NumFound int64            `json:"numFound"`
		Docs     []map[string]any `json:"docs"`
	} `json:"response"`
}

type transport struct {
	client  *http.Client
	logger  *slog.Logger
	metrics *Metrics
	server  string
}

// selectQuery POSTs the parameter map form-encoded to
// <base>/<collection>/select and decodes the JSON reply. HTTP status
// >= 400 and JSON failures surface as typed errors; nothing is retried
// here.
func (t *transport) selectQuery(ctx context.Context, base, collection string, params map[string]string) (selectResponse, error) {
	var out selectResponse

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}
	endpoint := base + "/" + collection + "/select"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return out, qberrors.Wrap(qberrors.ErrTransport, "build request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	reqID := uuid.NewString()
	req.Header.Set("X-Request-Id", reqID)

	start := time.Now()
	resp, err := t.client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		t.metrics.observe(t.server, "error", elapsed.Seconds())
		t.logger.Warn("solr select failed",
			"server", t.server, "endpoint", endpoint, "request_id", reqID, "err", err)
		return out, qberrors.Wrap(qberrors.ErrTransport, "select request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		t.metrics.observe(t.server, "error", elapsed.Seconds())
		t.logger.Warn("solr select returned error status",
			"server", t.server, "endpoint", endpoint, "request_id", reqID, "status", resp.StatusCode)
		return out, qberrors.NewError(qberrors.ErrTransport,
			fmt.Sprintf("engine returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))))
	}

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.metrics.observe(t.server, "error", elapsed.Seconds())
		return out, qberrors.Wrap(qberrors.ErrDecode, "decode select response", err)
	}

	t.metrics.observe(t.server, "ok", elapsed.Seconds())
	t.logger.Debug("solr select",
		"server", t.server, "collection", collection, "request_id", reqID,
		"duration_ms", elapsed.Milliseconds(), "num_found", out.Response.NumFound)
	return out, nil
}

// ping issues a lightweight GET against the engine's ping handler.
func (t *transport) ping(ctx context.Context, base string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/admin/ping?wt=json", nil)
	if err != nil {
		return qberrors.Wrap(qberrors.ErrTransport, "build ping request", err)
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return qberrors.Wrap(qberrors.ErrTransport, "ping request", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return qberrors.NewError(qberrors.ErrTransport,
			fmt.Sprintf("ping returned status %d", resp.StatusCode))
	}
	return nil
}
