// Package client is a Go consumer of the bookmark API. It maintains a local
// mirror of the caller's bookmark set, kept fresh by refetching whenever the
// server's change feed reports any mutation.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/linkstash/linkstash/internal/domain"
	"github.com/linkstash/linkstash/internal/logger"
)

// Hook mirrors "all bookmarks owned by the current identity".
//
// Reconciliation is deliberately coarse: any feed event triggers a full
// refetch. No delta merging, no retry/backoff; a failed refetch keeps the
// last successfully fetched (stale) set.
type Hook struct {
	base   *url.URL
	httpc  *http.Client
	logger logger.Logger

	mu        sync.RWMutex
	bookmarks []domain.Bookmark
	loading   bool
	rev       uint64

	view domain.View

	cancel context.CancelFunc
	conn   *websocket.Conn
	done   chan struct{}
}

// New builds a hook for the given server base URL (ex: "https://stash.local").
func New(baseURL string, log logger.Logger) (*Hook, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &Hook{
		base:   base,
		httpc:  &http.Client{Jar: jar},
		logger: log,
	}, nil
}

// Login authenticates and stores the session cookies in the client jar.
func (h *Hook) Login(ctx context.Context, email, password string) error {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint("/api/auth/login"), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("login request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login rejected: %s", resp.Status)
	}
	return nil
}

// Open performs the initial fetch and opens the change-feed subscription.
// The loading flag clears once the initial fetch settles, success or not.
func (h *Hook) Open(ctx context.Context) error {
	h.mu.Lock()
	h.loading = true
	h.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	h.cancel = cancel

	err := h.Refetch(ctx)

	h.mu.Lock()
	h.loading = false
	h.mu.Unlock()

	if err != nil {
		h.logger.Warn("initial bookmark fetch failed", logger.Error(err))
	}

	wsURL := *h.base
	switch wsURL.Scheme {
	case "https":
		wsURL.Scheme = "wss"
	default:
		wsURL.Scheme = "ws"
	}
	wsURL.Path = "/api/bookmarks/feed"

	dialer := websocket.Dialer{Jar: h.httpc.Jar}
	conn, resp, err := dialer.DialContext(ctx, wsURL.String(), nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		cancel()
		return fmt.Errorf("failed to open change feed: %w", err)
	}
	h.conn = conn
	h.done = make(chan struct{})

	go h.watch(ctx)
	return nil
}

// watch refetches on every feed notification until the socket closes.
func (h *Hook) watch(ctx context.Context) {
	defer close(h.done)
	for {
		if _, _, err := h.conn.ReadMessage(); err != nil {
			if ctx.Err() == nil {
				h.logger.Warn("change feed closed", logger.Error(err))
			}
			return
		}
		// Event contents don't matter: insert, update and delete all mean
		// "re-read current state".
		if err := h.Refetch(ctx); err != nil {
			h.logger.Warn("refetch after change event failed", logger.Error(err))
		}
	}
}

// Refetch re-reads the full bookmark set. On failure the previous set is
// kept.
func (h *Hook) Refetch(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.endpoint("/api/bookmarks"), http.NoBody)
	if err != nil {
		return err
	}

	resp, err := h.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch rejected: %s", resp.Status)
	}

	var bookmarks []domain.Bookmark
	if err := json.NewDecoder(resp.Body).Decode(&bookmarks); err != nil {
		return fmt.Errorf("failed to decode bookmarks: %w", err)
	}

	h.mu.Lock()
	h.bookmarks = bookmarks
	h.rev++
	h.mu.Unlock()
	return nil
}

// Bookmarks returns the current mirrored set (newest first, as served).
func (h *Hook) Bookmarks() []domain.Bookmark {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.bookmarks
}

// Loading reports whether the initial fetch is still in flight.
func (h *Hook) Loading() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.loading
}

// Delete issues a fire-and-forget delete. The local mirror is not touched;
// it converges when the resulting feed event triggers a refetch.
func (h *Hook) Delete(ctx context.Context, id string) {
	go func() {
		req, err := http.NewRequestWithContext(ctx, http.MethodDelete, h.endpoint("/api/bookmarks/"+id), http.NoBody)
		if err != nil {
			h.logger.Warn("delete request build failed", logger.Error(err))
			return
		}
		resp, err := h.httpc.Do(req)
		if err != nil {
			h.logger.Warn("delete failed", logger.String("id", id), logger.Error(err))
			return
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
}

// DeriveView returns the filtered/sorted view of the mirror. The result is
// memoized on (set revision, query).
func (h *Hook) DeriveView(q domain.ViewQuery) []domain.Bookmark {
	h.mu.RLock()
	rev := h.rev
	set := h.bookmarks
	h.mu.RUnlock()
	return h.view.Derive(rev, set, q)
}

// Close tears down the subscription and stops the watcher.
func (h *Hook) Close() error {
	if h.cancel != nil {
		h.cancel()
	}
	if h.conn != nil {
		err := h.conn.Close()
		<-h.done
		return err
	}
	return nil
}

func (h *Hook) endpoint(path string) string {
	u := *h.base
	u.Path = path
	return u.String()
}
