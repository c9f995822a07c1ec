package cli

import (
	"os"
	"path/filepath"
	"testing"

	"riepilogo/internal/config"
)

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("RIEPILOGO_TEST_VALUE=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RIEPILOGO_TEST_VALUE", "")
	os.Unsetenv("RIEPILOGO_TEST_VALUE")

	if err := LoadEnvFile(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("LoadEnvFile: %v", err)
	}
	if got := os.Getenv("RIEPILOGO_TEST_VALUE"); got != "from-file" {
		t.Fatalf("expected value from file, got %q", got)
	}
}

func TestLoadEnvFileDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("RIEPILOGO_TEST_VALUE=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RIEPILOGO_TEST_VALUE", "from-env")

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile: %v", err)
	}
	if got := os.Getenv("RIEPILOGO_TEST_VALUE"); got != "from-env" {
		t.Fatalf("environment should win, got %q", got)
	}
}

func TestSheetsCredentials(t *testing.T) {
	cfg := &config.Config{
		GoogleServiceAccountFile: "/sa.json",
		GoogleOAuthClientJSON:    `{"installed":{}}`,
		GoogleOAuthTokenFile:     "/token.json",
	}
	src := SheetsCredentials(cfg)
	if src.ServiceAccountFile != "/sa.json" || src.OAuthClientJSON != `{"installed":{}}` || src.OAuthTokenFile != "/token.json" {
		t.Fatalf("unexpected mapping %+v", src)
	}
	if src.ServiceAccountJSON != "" || src.OAuthClientFile != "" || src.OAuthTokenJSON != "" {
		t.Fatalf("unset sources should stay empty: %+v", src)
	}
}
