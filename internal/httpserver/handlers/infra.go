package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/linkstash/linkstash/internal/httpserver/deps"
)

type componentStatus struct {
	OK           bool   `json:"ok"`
	SessionCount *int64 `json:"session_count,omitempty"`
	Impact       string `json:"impact,omitempty"`
	Error        string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports component health for operators: the record store, the
// change feed (both redis-backed) and the session population.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		redisStatus := componentStatus{OK: true}
		if d.RedisClient == nil {
			redisStatus = componentStatus{OK: false, Impact: "storage-and-feed-down", Error: "client not initialized"}
		} else if err := d.RedisClient.Ping(ctx).Err(); err != nil {
			redisStatus = componentStatus{OK: false, Impact: "storage-and-feed-down", Error: "timeout"}
		}

		sessionsStatus := componentStatus{OK: redisStatus.OK}
		if redisStatus.OK {
			if n, err := d.Store.CountSessions(ctx); err == nil {
				sessionsStatus.SessionCount = &n
			}
		}

		mode := "operational"
		if !redisStatus.OK {
			mode = "critical" // no store, no feed, no sessions
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode: mode,
			Components: map[string]componentStatus{
				"redis":    redisStatus,
				"sessions": sessionsStatus,
			},
		})
	}
}
