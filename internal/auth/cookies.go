package auth

import (
	"net/http"
	"time"
)

// Cookie names for the session token pair.
const (
	CookieAccess  = "stash_access"
	CookieRefresh = "stash_refresh"
)

// CookieOptions carries the attributes applied to every session cookie.
type CookieOptions struct {
	Domain string // empty = host-only
	Secure bool
}

// CookieBridge binds cookie reads and writes to both sides of one request
// lifecycle. Every Set and Clear mutates the in-flight request's Cookie
// header AND the response's Set-Cookie headers: downstream code in the same
// request must observe the new value, and the browser must persist it. If
// only one side were written, the symptoms would be stale sessions or
// redirect loops.
type CookieBridge struct {
	r    *http.Request
	w    http.ResponseWriter
	opts CookieOptions
}

func NewCookieBridge(w http.ResponseWriter, r *http.Request, opts CookieOptions) *CookieBridge {
	return &CookieBridge{r: r, w: w, opts: opts}
}

// Get reads a cookie value from the (possibly already mutated) request.
func (b *CookieBridge) Get(name string) (string, bool) {
	c, err := b.r.Cookie(name)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

// Set writes a cookie on both the request and the response.
func (b *CookieBridge) Set(name, value string, maxAge time.Duration) {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   b.opts.Domain,
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   b.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(b.w, c)
	b.mutateRequest(name, value, false)
}

// Clear removes a cookie on both the request and the response.
func (b *CookieBridge) Clear(name string) {
	c := &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   b.opts.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   b.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(b.w, c)
	b.mutateRequest(name, "", true)
}

// mutateRequest rewrites the request's Cookie header so that same-request
// reads see the mutation.
func (b *CookieBridge) mutateRequest(name, value string, remove bool) {
	existing := b.r.Cookies()
	rebuilt := make([]*http.Cookie, 0, len(existing)+1)
	replaced := false
	for _, c := range existing {
		if c.Name == name {
			if remove {
				continue
			}
			rebuilt = append(rebuilt, &http.Cookie{Name: name, Value: value})
			replaced = true
			continue
		}
		rebuilt = append(rebuilt, c)
	}
	if !remove && !replaced {
		rebuilt = append(rebuilt, &http.Cookie{Name: name, Value: value})
	}

	b.r.Header.Del("Cookie")
	for _, c := range rebuilt {
		b.r.AddCookie(c)
	}
}
