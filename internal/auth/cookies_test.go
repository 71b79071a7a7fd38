package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func responseCookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("response has no %q cookie", name)
	return nil
}

func TestCookieBridgeSetWritesBothSides(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/app", nil)
	r.AddCookie(&http.Cookie{Name: "other", Value: "keep"})
	w := httptest.NewRecorder()

	b := NewCookieBridge(w, r, CookieOptions{Secure: true})
	b.Set(CookieAccess, "tok123", time.Minute)

	// Same-request reads must observe the new value.
	c, err := r.Cookie(CookieAccess)
	if err != nil {
		t.Fatalf("request side missing cookie: %v", err)
	}
	if c.Value != "tok123" {
		t.Errorf("request cookie = %q, want tok123", c.Value)
	}
	if other, err := r.Cookie("other"); err != nil || other.Value != "keep" {
		t.Errorf("unrelated request cookie was disturbed: %v, %v", other, err)
	}

	// And the browser must be told to persist it.
	rc := responseCookie(t, w, CookieAccess)
	if rc.Value != "tok123" {
		t.Errorf("response cookie = %q, want tok123", rc.Value)
	}
	if !rc.HttpOnly || !rc.Secure {
		t.Errorf("cookie flags HttpOnly=%v Secure=%v, want both true", rc.HttpOnly, rc.Secure)
	}
	if rc.MaxAge != 60 {
		t.Errorf("MaxAge = %d, want 60", rc.MaxAge)
	}
}

func TestCookieBridgeSetReplacesExisting(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/app", nil)
	r.AddCookie(&http.Cookie{Name: CookieAccess, Value: "old"})
	w := httptest.NewRecorder()

	b := NewCookieBridge(w, r, CookieOptions{})
	b.Set(CookieAccess, "new", time.Minute)

	if got := len(r.Cookies()); got != 1 {
		t.Fatalf("request has %d cookies, want 1", got)
	}
	if c, _ := r.Cookie(CookieAccess); c.Value != "new" {
		t.Errorf("request cookie = %q, want new", c.Value)
	}
}

func TestCookieBridgeClearWritesBothSides(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/app", nil)
	r.AddCookie(&http.Cookie{Name: CookieRefresh, Value: "tok"})
	r.AddCookie(&http.Cookie{Name: "other", Value: "keep"})
	w := httptest.NewRecorder()

	b := NewCookieBridge(w, r, CookieOptions{})
	b.Clear(CookieRefresh)

	if _, err := r.Cookie(CookieRefresh); err == nil {
		t.Error("request side still carries the cleared cookie")
	}
	if _, err := r.Cookie("other"); err != nil {
		t.Error("clearing removed an unrelated cookie")
	}

	rc := responseCookie(t, w, CookieRefresh)
	if rc.MaxAge >= 0 {
		t.Errorf("response MaxAge = %d, want negative (delete)", rc.MaxAge)
	}
}

func TestCookieBridgeGet(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/app", nil)
	w := httptest.NewRecorder()
	b := NewCookieBridge(w, r, CookieOptions{})

	if _, ok := b.Get(CookieAccess); ok {
		t.Error("Get() on absent cookie should report !ok")
	}

	b.Set(CookieAccess, "v", time.Minute)
	if v, ok := b.Get(CookieAccess); !ok || v != "v" {
		t.Errorf("Get() after Set = %q, %v; want v, true", v, ok)
	}
}
