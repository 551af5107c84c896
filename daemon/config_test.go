package daemon

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDiscoverConfigPathFrom_FirstMatchWins(t *testing.T) {
	cwd := t.TempDir()
	home := t.TempDir()

	projectConfig := filepath.Join(cwd, "robin.yaml")
	if err := os.WriteFile(projectConfig, []byte("schedules: []"), 0o600); err != nil {
		t.Fatalf("WriteFile(project config) error = %v", err)
	}

	homeConfigDir := filepath.Join(home, ".robin")
	if err := os.MkdirAll(homeConfigDir, 0o755); err != nil {
		t.Fatalf("MkdirAll(home config dir) error = %v", err)
	}
	homeConfig := filepath.Join(homeConfigDir, "config.yaml")
	if err := os.WriteFile(homeConfig, []byte("schedules: []"), 0o600); err != nil {
		t.Fatalf("WriteFile(home config) error = %v", err)
	}

	got, found, err := DiscoverConfigPathFrom("", cwd, home)
	if err != nil {
		t.Fatalf("DiscoverConfigPathFrom() error = %v", err)
	}
	if !found {
		t.Fatal("found = false, want true")
	}
	if got != projectConfig {
		t.Fatalf("path = %q, want %q", got, projectConfig)
	}
}

func TestDiscoverConfigPathFrom_HomeFallback(t *testing.T) {
	cwd := t.TempDir()
	home := t.TempDir()

	homeConfigDir := filepath.Join(home, ".robin")
	if err := os.MkdirAll(homeConfigDir, 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	homeConfig := filepath.Join(homeConfigDir, "config.yaml")
	if err := os.WriteFile(homeConfig, []byte("schedules: []"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, found, err := DiscoverConfigPathFrom("", cwd, home)
	if err != nil {
		t.Fatalf("DiscoverConfigPathFrom() error = %v", err)
	}
	if !found || got != homeConfig {
		t.Fatalf("path = (%q, %v), want home config", got, found)
	}
}

func TestDiscoverConfigPathFrom_ExplicitNotFound(t *testing.T) {
	_, found, err := DiscoverConfigPathFrom("/tmp/does-not-exist.yaml", t.TempDir(), t.TempDir())
	if err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
	if found {
		t.Fatal("found = true, want false")
	}
}

func TestLoadConfigFile_FullConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "robin.yaml")
	yaml := `
engine:
  max_execution_time: 8ms
  tick_rate_hz: 30
events:
  update_budget_ms: 20
schedules:
  - name: nightly-respawn
    cron: "0 3 * * *"
    event: world_respawn
    priority: high
    source: scheduler
    data:
      region: east
history:
  enabled: true
  path: /tmp/robin-events.db
  retention_count: 1000
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile() error = %v", err)
	}
	if cfg.Engine.MaxExecutionTime != 8*time.Millisecond {
		t.Fatalf("MaxExecutionTime = %v, want 8ms", cfg.Engine.MaxExecutionTime)
	}
	if cfg.Engine.TickRate != 30 {
		t.Fatalf("TickRate = %v, want 30", cfg.Engine.TickRate)
	}
	// Defaults survive partial engine config.
	if cfg.Engine.MaxDepth != 32 {
		t.Fatalf("MaxDepth = %d, want default 32", cfg.Engine.MaxDepth)
	}
	if cfg.Events.UpdateBudgetMS != 20 {
		t.Fatalf("UpdateBudgetMS = %d, want 20", cfg.Events.UpdateBudgetMS)
	}
	if len(cfg.Schedules) != 1 {
		t.Fatalf("schedules = %d, want 1", len(cfg.Schedules))
	}
	sched := cfg.Schedules[0]
	if sched.Name != "nightly-respawn" || sched.Event != "world_respawn" {
		t.Fatalf("schedule = %+v", sched)
	}
	if sched.Data["region"] != "east" {
		t.Fatalf("schedule data = %v, want region=east", sched.Data)
	}
	if !cfg.History.Enabled || cfg.History.RetentionCount != 1000 {
		t.Fatalf("history = %+v", cfg.History)
	}
}

func TestLoadConfigFile_RejectsBadSchedules(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing name", `
schedules:
  - cron: "* * * * *"
    event: tick
`},
		{"missing event", `
schedules:
  - name: s1
    cron: "* * * * *"
`},
		{"bad cron", `
schedules:
  - name: s1
    cron: "not a cron"
    event: tick
`},
		{"timezone prefix", `
schedules:
  - name: s1
    cron: "CRON_TZ=UTC * * * * *"
    event: tick
`},
		{"duplicate name", `
schedules:
  - name: s1
    cron: "* * * * *"
    event: tick
  - name: s1
    cron: "* * * * *"
    event: tock
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "robin.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0o600); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}
			if _, err := LoadConfigFile(path); err == nil {
				t.Fatal("LoadConfigFile() error = nil, want validation error")
			}
		})
	}
}

func TestNextCronRunUTC(t *testing.T) {
	now := time.Date(2025, 6, 1, 2, 30, 0, 0, time.UTC)
	next, err := nextCronRunUTC("0 3 * * *", now)
	if err != nil {
		t.Fatalf("nextCronRunUTC() error = %v", err)
	}
	want := time.Date(2025, 6, 1, 3, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("next = %v, want %v", next, want)
	}
}

func TestParseCronExpressionUTC_RejectsTimezones(t *testing.T) {
	if _, err := parseCronExpressionUTC("TZ=America/New_York 0 3 * * *"); err == nil {
		t.Fatal("expected error for timezone-prefixed expression")
	}
	if _, err := parseCronExpressionUTC(""); err == nil {
		t.Fatal("expected error for empty expression")
	}
}
