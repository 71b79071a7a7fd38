package handlers

import (
	"net/http"

	"github.com/linkstash/linkstash/internal/httpserver/deps"
	"github.com/linkstash/linkstash/internal/logger"
)

// Reload triggers a manual re-import of the seed file.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.SeedReloadTrigger == nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "seed import disabled"})
			return
		}

		select {
		case d.SeedReloadTrigger <- struct{}{}:
			d.Logger.Info("manual seed re-import triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte("✅ Seed re-import triggered\n"))
		default:
			d.Logger.Warn("seed re-import already in progress",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte("⏳ Seed re-import already in progress, please wait\n"))
		}
	}
}
