package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestConfigLoadSave(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "vpctl-config-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	// Override the home directory environment variable for testing
	t.Setenv("HOME", tempDir)
	t.Setenv("USERPROFILE", tempDir)

	// 1. Test Load with no existing file
	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error when loading missing config, got: %v", err)
	}
	if cfg == nil {
		t.Fatalf("expected empty config to be returned, got nil")
	}

	// 2. Modify and Save the config
	cfg.SchoolCode = 10000000
	cfg.Username = "schueler"
	cfg.SavedClasses = []string{"5a", "10a"}
	cfg.DefaultClass = "10a"
	cfg.AccentColor = "42"

	err = Save(cfg)
	if err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	configPath := filepath.Join(tempDir, ".vpctl.json")
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("expected config file to be created at %s", configPath)
	}
	if strings.Contains(strings.ToLower(string(data)), "password") {
		t.Errorf("config file must not contain a password field: %s", data)
	}

	// 3. Test Load with existing file
	loadedCfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load existing config: %v", err)
	}

	if !reflect.DeepEqual(cfg, loadedCfg) {
		t.Errorf("loaded config does not match saved config.\nGot: %+v\nExpected: %+v", loadedCfg, cfg)
	}
}

func TestConfigParseError(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "vpctl-config-err-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	t.Setenv("HOME", tempDir)
	t.Setenv("USERPROFILE", tempDir)

	configPath := filepath.Join(tempDir, ".vpctl.json")
	err = os.WriteFile(configPath, []byte("invalid json { content"), 0644)
	if err != nil {
		t.Fatalf("failed to write invalid json: %v", err)
	}

	_, err = Load()
	if err == nil {
		t.Errorf("expected error when loading invalid json, got nil")
	}
}

func TestResolveAccount(t *testing.T) {
	t.Setenv(EnvSchool, "")
	t.Setenv(EnvUser, "")
	t.Setenv(EnvPassword, "secret")

	acc, err := ResolveAccount(&AppConfig{SchoolCode: 123, Username: "saved"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acc.SchoolCode != 123 || acc.Username != "saved" || acc.Password != "secret" {
		t.Errorf("expected saved settings plus env password, got %+v", acc)
	}

	t.Setenv(EnvSchool, "456")
	t.Setenv(EnvUser, "env-user")
	acc, err = ResolveAccount(&AppConfig{SchoolCode: 123, Username: "saved"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acc.SchoolCode != 456 || acc.Username != "env-user" {
		t.Errorf("expected environment to win, got %+v", acc)
	}

	t.Setenv(EnvSchool, "not-a-number")
	if _, err := ResolveAccount(nil); err == nil {
		t.Errorf("expected error for non-numeric school code")
	}
}
