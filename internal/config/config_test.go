package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.ServerAddr != ":3000" {
		t.Errorf("ServerAddr = %q, want :3000", cfg.ServerAddr)
	}
	if cfg.OIDCProviderName != "google-oauth2" {
		t.Errorf("OIDCProviderName = %q, want google-oauth2", cfg.OIDCProviderName)
	}
	if cfg.InviteSweepInterval != 6*time.Hour {
		t.Errorf("InviteSweepInterval = %v, want 6h", cfg.InviteSweepInterval)
	}
}

func TestRealm(t *testing.T) {
	hosted := &Config{MultiTenancy: false}
	if hosted.Realm() != "hosted" {
		t.Errorf("Realm() = %q, want hosted", hosted.Realm())
	}

	cloud := &Config{MultiTenancy: true}
	if cloud.Realm() != "cloud" {
		t.Errorf("Realm() = %q, want cloud", cloud.Realm())
	}
}

func TestIsEmailEnabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{"fully configured", Config{SMTPEnabled: true, SMTPHost: "smtp.example.com", SMTPFrom: "a@b.co"}, true},
		{"flag off", Config{SMTPHost: "smtp.example.com", SMTPFrom: "a@b.co"}, false},
		{"no host", Config{SMTPEnabled: true, SMTPFrom: "a@b.co"}, false},
		{"no from", Config{SMTPEnabled: true, SMTPHost: "smtp.example.com"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.IsEmailEnabled(); got != tt.want {
				t.Errorf("IsEmailEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadYAMLConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `organizations:
  - name: Hedgebox
    domains:
      - hedgebox.net
      - hedgebox.io
  - name: Acme
    domains:
      - acme.example.com
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("CONFIG_FILE", path)

	cfg, err := LoadYAMLConfig()
	if err != nil {
		t.Fatalf("LoadYAMLConfig() error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadYAMLConfig() returned nil for existing file")
	}
	if len(cfg.Organizations) != 2 {
		t.Fatalf("Organizations = %d, want 2", len(cfg.Organizations))
	}

	if org := cfg.GetOrganizationByDomain("hedgebox.io"); org == nil || org.Name != "Hedgebox" {
		t.Errorf("GetOrganizationByDomain(hedgebox.io) = %v, want Hedgebox", org)
	}
	// Case-insensitive match
	if org := cfg.GetOrganizationByDomain("HEDGEBOX.NET"); org == nil || org.Name != "Hedgebox" {
		t.Errorf("GetOrganizationByDomain(HEDGEBOX.NET) = %v, want Hedgebox", org)
	}
	if org := cfg.GetOrganizationByDomain("unknown.example.com"); org != nil {
		t.Errorf("GetOrganizationByDomain(unknown) = %v, want nil", org)
	}
}

func TestLoadYAMLConfig_Missing(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "does-not-exist.yaml"))

	cfg, err := LoadYAMLConfig()
	if err != nil {
		t.Fatalf("LoadYAMLConfig() error = %v, want nil for missing file", err)
	}
	if cfg != nil {
		t.Errorf("LoadYAMLConfig() = %v, want nil", cfg)
	}
}

func TestGetOrganizationByDomain_NilConfig(t *testing.T) {
	var cfg *YAMLConfig
	if org := cfg.GetOrganizationByDomain("hedgebox.net"); org != nil {
		t.Errorf("nil config returned %v", org)
	}
}
