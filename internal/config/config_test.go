package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir string, cfg map[string]interface{}) {
	t.Helper()
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), data, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

func TestGetLoadsTrackers(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, map[string]interface{}{
		"log_level": "debug",
		"trackers": []map[string]interface{}{
			{"name": "mteam", "api_key": "k1"},
			{"name": "audiences", "cookie_file": "/tmp/AUDIENCES.txt", "passkey": "pk"},
		},
	})
	SetConfigPath(tmpDir)
	Reload()

	cfg := Get()
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if len(cfg.Trackers) != 2 {
		t.Fatalf("len(Trackers) = %d, want 2", len(cfg.Trackers))
	}
	if tr := cfg.Tracker("MTEAM"); tr == nil || tr.APIKey != "k1" {
		t.Errorf("Tracker(MTEAM) = %+v, want api key k1", tr)
	}
	if cfg.Tracker("nosuch") != nil {
		t.Error("Tracker(nosuch) should be nil")
	}
}

func TestSetDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, map[string]interface{}{
		"trackers": []map[string]interface{}{
			{"name": "hdsky", "passkey": "pk"},
		},
	})
	SetConfigPath(tmpDir)
	Reload()

	cfg := Get()
	if cfg.LogLevel != "info" {
		t.Errorf("default LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.Screens != 6 {
		t.Errorf("default Screens = %d, want 6", cfg.Screens)
	}
	want := filepath.Join(tmpDir, "cookies", "HDSKY.txt")
	if got := cfg.Tracker("hdsky").CookieFile; got != want {
		t.Errorf("default CookieFile = %q, want %q", got, want)
	}
	if cfg.WorkDir != filepath.Join(tmpDir, "tmp") {
		t.Errorf("default WorkDir = %q", cfg.WorkDir)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"no trackers", Config{}, true},
		{"missing name", Config{Trackers: []Tracker{{APIKey: "k"}}}, true},
		{"no credentials", Config{Trackers: []Tracker{{Name: "chd"}}}, true},
		{"api key only", Config{Trackers: []Tracker{{Name: "mteam", APIKey: "k"}}}, false},
		{"cookie only", Config{Trackers: []Tracker{{Name: "u2", CookieFile: "/c/U2.txt"}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfig(&tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
