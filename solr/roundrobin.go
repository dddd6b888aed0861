package solr

import (
	"strings"
	"sync"

	qberrors "github.com/querybridge/querybridge/pkg/querybridge/errors"
)

// rotation hands out base URLs cyclically from a fixed list. It is an
// explicit counter, not a generator: unbounded, restartable, safe for
// concurrent pickers.
type rotation struct {
	mu   sync.Mutex
	urls []string
	next int
}

func newRotation(urls []string) (*rotation, error) {
	if len(urls) == 0 {
		return nil, qberrors.NewError(qberrors.ErrConfig, "no server URLs configured")
	}
	cleaned := make([]string, len(urls))
	for i, u := range urls {
		cleaned[i] = strings.TrimRight(u, "/")
	}
	return &rotation{urls: cleaned}, nil
}

func (r *rotation) pick() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.urls[r.next]
	r.next = (r.next + 1) % len(r.urls)
	return u
}

func (r *rotation) size() int { return len(r.urls) }
