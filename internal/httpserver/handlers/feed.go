package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/linkstash/linkstash/internal/httpserver/deps"
	"github.com/linkstash/linkstash/internal/httpserver/mw"
	"github.com/linkstash/linkstash/internal/logger"
)

const (
	feedWriteTimeout = 10 * time.Second
	feedPingInterval = 30 * time.Second
)

// Feed upgrades to a websocket and forwards the caller's change-feed
// notifications. Events carry table/action/id only; clients refetch.
func Feed(d deps.Deps) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// Cookies carry the session, so cross-origin sockets must be
			// rejected. Same policy as the CORS middleware.
			return mw.OriginAllowed(r.Header.Get("Origin"), r.Host, d.AllowedHosts)
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := owner(d, w, r)
		if !ok {
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			d.Logger.Debug("feed upgrade failed", logger.Error(err))
			return
		}
		defer func() { _ = conn.Close() }()

		ctx := r.Context()
		sub := d.Feed.Subscribe(ctx, userID)
		defer func() { _ = sub.Close() }()

		d.Logger.Debug("feed subscription opened", logger.String("user_id", userID))

		// Reader goroutine: we never expect client messages, but reading is
		// required to notice the peer closing.
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ping := time.NewTicker(feedPingInterval)
		defer ping.Stop()

		for {
			select {
			case ev, open := <-sub.Events():
				if !open {
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
				if err := conn.WriteJSON(ev); err != nil {
					d.Logger.Debug("feed write failed", logger.Error(err))
					return
				}

			case <-ping.C:
				_ = conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}

			case <-closed:
				return

			case <-ctx.Done():
				return
			}
		}
	}
}
