package internal

import (
	"strings"
	"testing"
	"time"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	if err := NewDefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestDocsConfig_Extension(t *testing.T) {
	for _, ext := range []string{"md", ".", ".m d", ""} {
		cfg := DocsConfig{Root: ".", Extension: ext}
		if err := cfg.Validate(); err == nil {
			t.Errorf("extension %q should fail validation", ext)
		}
	}
	cfg := DocsConfig{Root: ".", Extension: ".markdown"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("extension .markdown should pass: %v", err)
	}
}

func TestDocsConfig_ExternalSchemes(t *testing.T) {
	cfg := DocsConfig{Root: ".", Extension: ".md", ExternalSchemes: []string{"https", "Bad Scheme"}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid scheme should fail validation")
	}
}

func TestCacheConfig_PathRequiredWhenEnabled(t *testing.T) {
	cfg := CacheConfig{Enabled: true}
	if err := cfg.Validate(); err == nil {
		t.Fatal("enabled cache without path should fail")
	}
	cfg.Enabled = false
	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled cache without path should pass: %v", err)
	}
}

func TestWatchConfig_DebounceFloor(t *testing.T) {
	cfg := WatchConfig{Debounce: time.Millisecond}
	if err := cfg.Validate(); err == nil {
		t.Fatal("1ms debounce should fail validation")
	}
}
