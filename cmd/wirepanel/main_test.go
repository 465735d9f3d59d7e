package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestRun_InvalidConfig verifies run fails with invalid config path.
func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("WIREPANEL_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := run(ctx)
	if err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
	if !strings.Contains(err.Error(), "loading config") {
		t.Errorf("run() error = %v, want loading config error", err)
	}
}

// TestRun_InvalidBoards verifies run rejects boards without providers.
func TestRun_InvalidBoards(t *testing.T) {
	configPath := writeConfig(t, `
database:
  path: "`+filepath.Join(t.TempDir(), "wires.db")+`"
boards:
  - id: empty
`)
	t.Setenv("WIREPANEL_CONFIG", configPath)

	err := run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "at least one provider") {
		t.Fatalf("run() error = %v, want provider validation error", err)
	}
}

// TestRun_StartsAndStops runs the service with MQTT and InfluxDB disabled
// and shuts it down through the context.
func TestRun_StartsAndStops(t *testing.T) {
	if testing.Short() {
		t.Skip("binds a TCP port")
	}

	dbPath := filepath.Join(t.TempDir(), "wires.db")
	configPath := writeConfig(t, `
database:
  path: "`+dbPath+`"
mqtt:
  enabled: false
influxdb:
  enabled: false
logging:
  level: error
api:
  host: "127.0.0.1"
  port: 38471
wires:
  random_seed: 7
tools:
  - kind: screwdriver
    capabilities: [screwing]
boards:
  - id: airlock-1
    layout_id: airlock
    providers: [door]
  - id: lamp-1
    providers: [light]
operators:
  - name: alice
    hands: true
    tool: screwdriver
`)
	t.Setenv("WIREPANEL_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	if err := run(ctx); err != nil {
		t.Fatalf("run() error: %v", err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("database not created: %v", err)
	}
}

// TestGetConfigPath_Default verifies default config path.
func TestGetConfigPath_Default(t *testing.T) {
	t.Setenv("WIREPANEL_CONFIG", "")

	if path := getConfigPath(); path != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", path, defaultConfigPath)
	}
}

// TestGetConfigPath_EnvOverride verifies environment variable override.
func TestGetConfigPath_EnvOverride(t *testing.T) {
	expected := "/custom/path/config.yaml"
	t.Setenv("WIREPANEL_CONFIG", expected)

	if path := getConfigPath(); path != expected {
		t.Errorf("getConfigPath() = %q, want %q", path, expected)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

// TestRunMigrate_UpDownStatus applies, inspects and rolls back the schema.
func TestRunMigrate_UpDownStatus(t *testing.T) {
	configPath := writeConfig(t, `
database:
  path: "`+filepath.Join(t.TempDir(), "wires.db")+`"
boards:
  - id: lamp-1
    providers: [light]
`)
	t.Setenv("WIREPANEL_CONFIG", configPath)
	ctx := context.Background()

	var out strings.Builder
	if err := runMigrate(ctx, nil, &out); err != nil {
		t.Fatalf("runMigrate(status) error = %v", err)
	}
	if strings.Contains(out.String(), "applied") || strings.Count(out.String(), "pending") != 2 {
		t.Errorf("fresh database status:\n%s", out.String())
	}

	out.Reset()
	if err := runMigrate(ctx, []string{"-up"}, &out); err != nil {
		t.Fatalf("runMigrate(-up) error = %v", err)
	}
	if strings.Count(out.String(), "applied") != 2 || strings.Contains(out.String(), "pending") {
		t.Errorf("status after -up:\n%s", out.String())
	}

	out.Reset()
	if err := runMigrate(ctx, []string{"-down"}, &out); err != nil {
		t.Fatalf("runMigrate(-down) error = %v", err)
	}
	if !strings.Contains(out.String(), "pending  20261016_130000  wire_audit") {
		t.Errorf("status after -down:\n%s", out.String())
	}

	if err := runMigrate(ctx, []string{"-up", "-down"}, &out); err == nil {
		t.Error("runMigrate(-up -down) succeeded")
	}
}
