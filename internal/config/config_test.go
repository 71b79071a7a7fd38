package config

import (
	"reflect"
	"testing"
	"time"
)

func TestGetenv(t *testing.T) {
	t.Setenv("STASH_TEST_GETENV", "value")
	if got := getenv("STASH_TEST_GETENV", "def"); got != "value" {
		t.Errorf("getenv() = %q, want value", got)
	}
	if got := getenv("STASH_TEST_GETENV_MISSING", "def"); got != "def" {
		t.Errorf("getenv() = %q, want def", got)
	}
}

func TestRequireEnv(t *testing.T) {
	t.Setenv("STASH_TEST_REQUIRED", "present")
	if got := requireEnv("STASH_TEST_REQUIRED"); got != "present" {
		t.Errorf("requireEnv() = %q, want present", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("requireEnv() on missing variable should panic")
		}
	}()
	requireEnv("STASH_TEST_REQUIRED_MISSING")
}

func TestRequireEnvInt(t *testing.T) {
	t.Setenv("STASH_TEST_INT", "42")
	if got := requireEnvInt("STASH_TEST_INT"); got != 42 {
		t.Errorf("requireEnvInt() = %d, want 42", got)
	}

	t.Setenv("STASH_TEST_INT_BAD", "not-a-number")
	defer func() {
		if recover() == nil {
			t.Error("requireEnvInt() on malformed value should panic")
		}
	}()
	requireEnvInt("STASH_TEST_INT_BAD")
}

func TestGetenvInt(t *testing.T) {
	t.Setenv("STASH_TEST_GETENVINT", "7")
	if got := getenvInt("STASH_TEST_GETENVINT", 1); got != 7 {
		t.Errorf("getenvInt() = %d, want 7", got)
	}
	t.Setenv("STASH_TEST_GETENVINT_BAD", "x")
	if got := getenvInt("STASH_TEST_GETENVINT_BAD", 1); got != 1 {
		t.Errorf("getenvInt() on malformed value = %d, want default 1", got)
	}
	if got := getenvInt("STASH_TEST_GETENVINT_MISSING", 3); got != 3 {
		t.Errorf("getenvInt() on missing value = %d, want default 3", got)
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		value string
		def   bool
		want  bool
	}{
		{"true", false, true},
		{"false", true, false},
		{"1", false, true},
		{"0", true, false},
		{"garbage", true, true},
		{"", false, false},
	}
	for _, tt := range tests {
		t.Setenv("STASH_TEST_BOOL", tt.value)
		if got := mustBool("STASH_TEST_BOOL", tt.def); got != tt.want {
			t.Errorf("mustBool(%q, %v) = %v, want %v", tt.value, tt.def, got, tt.want)
		}
	}
}

func TestMustDuration(t *testing.T) {
	t.Setenv("STASH_TEST_DUR", "90s")
	if got := mustDuration("STASH_TEST_DUR", time.Second); got != 90*time.Second {
		t.Errorf("mustDuration() = %v, want 90s", got)
	}
	t.Setenv("STASH_TEST_DUR_BAD", "ninety")
	if got := mustDuration("STASH_TEST_DUR_BAD", 5*time.Second); got != 5*time.Second {
		t.Errorf("mustDuration() on malformed value = %v, want default 5s", got)
	}
}

func TestParseList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b ", []string{"a", "b"}},
		{`"a",'b'`, []string{"a", "b"}},
		{",,", []string{}},
	}
	for _, tt := range tests {
		if got := parseList(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseList(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}
