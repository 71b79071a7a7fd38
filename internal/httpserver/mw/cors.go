package mw

import "net/http"

// OriginAllowed reports whether a browser Origin may talk to this server:
// the request's own host or one of the configured allowed hosts, over http
// or https. An empty Origin (non-browser client) is allowed.
func OriginAllowed(origin, requestHost string, allowedHosts []string) bool {
	if origin == "" {
		return true
	}
	if origin == "https://"+requestHost || origin == "http://"+requestHost {
		return true
	}
	for _, h := range allowedHosts {
		if origin == "https://"+h || origin == "http://"+h {
			return true
		}
	}
	return false
}

// CORS handles preflight requests and echoes the Origin header for allowed
// origins only. Session cookies require credentialed CORS, so the wildcard
// origin is never used, and echoing arbitrary origins would amount to one;
// disallowed origins get no CORS headers at all.
func CORS(allowedHosts []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && OriginAllowed(origin, r.Host, allowedHosts) {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Set("Vary", "Origin")

				if r.Method == http.MethodOptions {
					h.Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
					h.Set("Access-Control-Allow-Headers", "Content-Type")
					h.Set("Access-Control-Max-Age", "300")
					w.WriteHeader(http.StatusNoContent)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
