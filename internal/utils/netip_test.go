package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseHostNoPort(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"1.2.3.4", "1.2.3.4"},
		{"1.2.3.4:8080", "1.2.3.4"},
		{"[::1]:443", "::1"},
		{"example.com:80", "example.com"},
	}
	for _, tt := range tests {
		if got := ParseHostNoPort(tt.in); got != tt.want {
			t.Errorf("ParseHostNoPort(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFirstForwardedFor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"1.2.3.4", "1.2.3.4"},
		{"1.2.3.4, 5.6.7.8", "1.2.3.4"},
		{"  1.2.3.4 ,5.6.7.8", "1.2.3.4"},
	}
	for _, tt := range tests {
		if got := FirstForwardedFor(tt.in); got != tt.want {
			t.Errorf("FirstForwardedFor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remote     string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{
			name:   "remote addr only",
			remote: "9.9.9.9:1234",
			want:   "9.9.9.9",
		},
		{
			name:       "proxy headers ignored when untrusted",
			remote:     "9.9.9.9:1234",
			headers:    map[string]string{"X-Forwarded-For": "1.2.3.4"},
			trustProxy: false,
			want:       "9.9.9.9",
		},
		{
			name:       "xff wins when trusted",
			remote:     "9.9.9.9:1234",
			headers:    map[string]string{"X-Forwarded-For": "1.2.3.4, 5.6.7.8"},
			trustProxy: true,
			want:       "1.2.3.4",
		},
		{
			name:       "cf header beats xff",
			remote:     "9.9.9.9:1234",
			headers:    map[string]string{"CF-Connecting-IP": "2.2.2.2", "X-Forwarded-For": "1.2.3.4"},
			trustProxy: true,
			want:       "2.2.2.2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"10.0.0.0/8", "192.168.1.5", " ", "garbage"})
	if m.IsEmpty() {
		t.Fatal("matcher should not be empty")
	}

	tests := []struct {
		ip   string
		want bool
	}{
		{"10.1.2.3", true},
		{"192.168.1.5", true},
		{"192.168.1.6", false},
		{"11.0.0.1", false},
		{"not-an-ip", false},
	}
	for _, tt := range tests {
		if got := m.Allow(tt.ip); got != tt.want {
			t.Errorf("Allow(%q) = %v, want %v", tt.ip, got, tt.want)
		}
	}

	if !NewIPMatcher(nil).IsEmpty() {
		t.Error("empty list should produce an empty matcher")
	}
}
