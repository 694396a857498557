package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func tempConfigPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.json")
}

func writeTestConfig(t *testing.T, path string, cfg *Config) {
	t.Helper()
	if err := Save(path, cfg); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
}

func clearEnvOverrides(t *testing.T) {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_BASE_URL", "")
}

func TestSave_ReloadRoundTrip(t *testing.T) {
	clearEnvOverrides(t)
	path := tempConfigPath(t)

	original := &Config{
		LogLevel:   "debug",
		TokenModel: "gpt-4o",
	}
	original.API.BaseURL = "https://api.openai.com/v1"
	original.API.APIKey = "sk-test-round-trip"
	original.Poll.IntervalMS = 500
	original.Poll.TimeoutS = 60
	original.List.Limit = 50
	original.List.Order = "asc"

	if err := Save(path, original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file does not exist after Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.LogLevel != original.LogLevel {
		t.Errorf("LogLevel mismatch: %v != %v", loaded.LogLevel, original.LogLevel)
	}
	if loaded.TokenModel != original.TokenModel {
		t.Errorf("TokenModel mismatch: %v != %v", loaded.TokenModel, original.TokenModel)
	}
	if loaded.API.BaseURL != original.API.BaseURL {
		t.Errorf("API.BaseURL mismatch: %v != %v", loaded.API.BaseURL, original.API.BaseURL)
	}
	if loaded.API.APIKey != original.API.APIKey {
		t.Errorf("API.APIKey mismatch: %v != %v", loaded.API.APIKey, original.API.APIKey)
	}
	if loaded.Poll.IntervalMS != original.Poll.IntervalMS {
		t.Errorf("Poll.IntervalMS mismatch: %v != %v", loaded.Poll.IntervalMS, original.Poll.IntervalMS)
	}
	if loaded.Poll.TimeoutS != original.Poll.TimeoutS {
		t.Errorf("Poll.TimeoutS mismatch: %v != %v", loaded.Poll.TimeoutS, original.Poll.TimeoutS)
	}
	if loaded.List.Limit != original.List.Limit {
		t.Errorf("List.Limit mismatch: %v != %v", loaded.List.Limit, original.List.Limit)
	}
	if loaded.List.Order != original.List.Order {
		t.Errorf("List.Order mismatch: %v != %v", loaded.List.Order, original.List.Order)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := tempConfigPath(t)
	cfg := &Config{}
	cfg.API.APIKey = "sk-from-file"
	cfg.API.BaseURL = "https://file.example/v1"
	writeTestConfig(t, path, cfg)

	t.Setenv("OPENAI_API_KEY", "sk-from-env")
	t.Setenv("OPENAI_BASE_URL", "https://env.example/v1")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.API.APIKey != "sk-from-env" {
		t.Errorf("expected env override for api key, got %v", loaded.API.APIKey)
	}
	if loaded.API.BaseURL != "https://env.example/v1" {
		t.Errorf("expected env override for base url, got %v", loaded.API.BaseURL)
	}
}

func TestLoad_WritesDefaults(t *testing.T) {
	clearEnvOverrides(t)
	path := tempConfigPath(t)

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.LogLevel != "info" {
		t.Errorf("expected default log_level=info, got %v", loaded.LogLevel)
	}
	if loaded.Poll.IntervalMS != 750 {
		t.Errorf("expected default poll.interval_ms=750, got %v", loaded.Poll.IntervalMS)
	}
	if loaded.Poll.TimeoutS != 120 {
		t.Errorf("expected default poll.timeout_s=120, got %v", loaded.Poll.TimeoutS)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Load should write a defaults file: %v", err)
	}
}

func TestSave_AtomicWrite(t *testing.T) {
	path := tempConfigPath(t)

	cfg := &Config{LogLevel: "info"}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Verify no temp file left behind
	tmpPath := path + ".tmp"
	if _, err := os.Stat(tmpPath); !os.IsNotExist(err) {
		t.Errorf("temp file should not exist after successful save")
	}

	// Verify the file is valid JSON
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read saved config: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Errorf("saved file is not valid JSON: %v", err)
	}
}

func TestToMap(t *testing.T) {
	cfg := &Config{
		LogLevel:   "debug",
		TokenModel: "gpt-4",
	}
	cfg.API.BaseURL = "https://api.openai.com/v1"
	cfg.Poll.IntervalMS = 750

	m, err := ToMap(cfg)
	if err != nil {
		t.Fatalf("ToMap failed: %v", err)
	}

	if m["log_level"] != "debug" {
		t.Errorf("expected log_level=debug, got %v", m["log_level"])
	}
	if m["token_model"] != "gpt-4" {
		t.Errorf("expected token_model=gpt-4, got %v", m["token_model"])
	}

	api, ok := m["api"].(map[string]any)
	if !ok {
		t.Fatalf("expected api to be map, got %T", m["api"])
	}
	if api["base_url"] != "https://api.openai.com/v1" {
		t.Errorf("expected api.base_url, got %v", api["base_url"])
	}

	poll, ok := m["poll"].(map[string]any)
	if !ok {
		t.Fatalf("expected poll to be map, got %T", m["poll"])
	}
	// JSON numbers are float64
	if poll["interval_ms"] != float64(750) {
		t.Errorf("expected poll.interval_ms=750, got %v", poll["interval_ms"])
	}
}

func TestListValues_NoMask(t *testing.T) {
	cfg := &Config{LogLevel: "info"}
	cfg.API.APIKey = "sk-secret-key-1234"

	flat, err := ListValues(cfg, false)
	if err != nil {
		t.Fatalf("ListValues failed: %v", err)
	}

	if flat["api.api_key"] != "sk-secret-key-1234" {
		t.Errorf("expected unmasked api.api_key, got %v", flat["api.api_key"])
	}
	if flat["log_level"] != "info" {
		t.Errorf("expected log_level=info, got %v", flat["log_level"])
	}
}

func TestListValues_WithMask(t *testing.T) {
	cfg := &Config{LogLevel: "info"}
	cfg.API.APIKey = "sk-secret-key-1234"

	flat, err := ListValues(cfg, true)
	if err != nil {
		t.Fatalf("ListValues failed: %v", err)
	}

	if flat["api.api_key"] != "***1234" {
		t.Errorf("expected masked api.api_key=***1234, got %v", flat["api.api_key"])
	}
	if flat["log_level"] != "info" {
		t.Errorf("expected log_level=info, got %v", flat["log_level"])
	}
}

func TestGetValue_ExistingKey(t *testing.T) {
	path := tempConfigPath(t)

	cfg := &Config{LogLevel: "debug"}
	cfg.TokenModel = "gpt-4"
	cfg.Poll.IntervalMS = 250
	writeTestConfig(t, path, cfg)

	v, err := GetValue(path, "log_level")
	if err != nil {
		t.Fatalf("GetValue failed: %v", err)
	}
	if v != "debug" {
		t.Errorf("expected log_level=debug, got %v", v)
	}

	v, err = GetValue(path, "token_model")
	if err != nil {
		t.Fatalf("GetValue failed: %v", err)
	}
	if v != "gpt-4" {
		t.Errorf("expected token_model=gpt-4, got %v", v)
	}

	v, err = GetValue(path, "poll.interval_ms")
	if err != nil {
		t.Fatalf("GetValue failed: %v", err)
	}
	// JSON numbers are float64
	if v != float64(250) {
		t.Errorf("expected poll.interval_ms=250, got %v (%T)", v, v)
	}
}

func TestGetValue_UnknownKey(t *testing.T) {
	path := tempConfigPath(t)

	cfg := &Config{LogLevel: "info"}
	writeTestConfig(t, path, cfg)

	_, err := GetValue(path, "nonexistent.key")
	if err == nil {
		t.Fatal("expected error for unknown key, got nil")
	}
	expected := "unknown config key: nonexistent.key"
	if err.Error() != expected {
		t.Errorf("expected error %q, got %q", expected, err.Error())
	}
}

func TestSetValue_String(t *testing.T) {
	path := tempConfigPath(t)

	cfg := &Config{LogLevel: "info"}
	cfg.TokenModel = "gpt-4"
	writeTestConfig(t, path, cfg)

	if err := SetValue(path, "log_level", "debug"); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}

	v, err := GetValue(path, "log_level")
	if err != nil {
		t.Fatalf("GetValue failed: %v", err)
	}
	if v != "debug" {
		t.Errorf("expected log_level=debug after set, got %v", v)
	}

	// Other values are preserved
	v, err = GetValue(path, "token_model")
	if err != nil {
		t.Fatalf("GetValue failed: %v", err)
	}
	if v != "gpt-4" {
		t.Errorf("expected token_model=gpt-4 (preserved), got %v", v)
	}
}

func TestSetValue_Numeric(t *testing.T) {
	path := tempConfigPath(t)

	cfg := &Config{}
	cfg.Poll.IntervalMS = 750
	writeTestConfig(t, path, cfg)

	if err := SetValue(path, "poll.interval_ms", "250"); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}

	v, err := GetValue(path, "poll.interval_ms")
	if err != nil {
		t.Fatalf("GetValue failed: %v", err)
	}
	if v != float64(250) {
		t.Errorf("expected poll.interval_ms=250, got %v (%T)", v, v)
	}
}

func TestSetValue_Boolean(t *testing.T) {
	path := tempConfigPath(t)

	cfg := &Config{LogLevel: "info"}
	writeTestConfig(t, path, cfg)

	if err := SetValue(path, "some_flag", "true"); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}

	v, err := GetValue(path, "some_flag")
	if err != nil {
		t.Fatalf("GetValue failed: %v", err)
	}
	if v != true {
		t.Errorf("expected some_flag=true, got %v (%T)", v, v)
	}
}

func TestSetValue_NestedKey(t *testing.T) {
	path := tempConfigPath(t)

	cfg := &Config{}
	cfg.List.Order = "desc"
	writeTestConfig(t, path, cfg)

	if err := SetValue(path, "list.order", "asc"); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}

	v, err := GetValue(path, "list.order")
	if err != nil {
		t.Fatalf("GetValue failed: %v", err)
	}
	if v != "asc" {
		t.Errorf("expected list.order=asc, got %v", v)
	}
}

func TestSetValue_NewNestedKey(t *testing.T) {
	path := tempConfigPath(t)

	cfg := &Config{LogLevel: "info"}
	writeTestConfig(t, path, cfg)

	// Set a new nested key that doesn't exist in the Config struct
	if err := SetValue(path, "custom.setting", "value"); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}

	v, err := GetValue(path, "custom.setting")
	if err != nil {
		t.Fatalf("GetValue failed: %v", err)
	}
	if v != "value" {
		t.Errorf("expected custom.setting=value, got %v", v)
	}
}

func TestSetValue_NonexistentFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist", "config.json")
	err := SetValue(path, "log_level", "debug")
	if err == nil {
		t.Fatal("expected error for nonexistent file, got nil")
	}
}

func TestGetValue_NonexistentFile(t *testing.T) {
	// GetValue goes through Load, which writes defaults first.
	path := tempConfigPath(t)

	v, err := GetValue(path, "log_level")
	if err != nil {
		t.Fatalf("GetValue on new config failed: %v", err)
	}
	if v != "info" {
		t.Errorf("expected default log_level=info, got %v", v)
	}
}

func TestSave_CreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subdir", "config.json")

	cfg := &Config{LogLevel: "warn"}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save should create parent directory, got: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file should exist: %v", err)
	}
}
