package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// newTestRoot creates a fresh cobra root command wired to all subcommands.
// Each test gets an isolated command tree to avoid shared state.
func newTestRoot() *cobra.Command {
	root := &cobra.Command{
		Use:          "robin",
		SilenceUsage: true,
	}
	root.AddCommand(NewRunCmd())
	root.AddCommand(NewValidateCmd())
	root.AddCommand(NewHistoryCmd())
	return root
}

// executeCommand runs a cobra command with the given args and captures stdout/stderr.
func executeCommand(root *cobra.Command, args ...string) (stdout, stderr string, err error) {
	var outBuf, errBuf bytes.Buffer
	root.SetOut(&outBuf)
	root.SetErr(&errBuf)
	root.SetArgs(args)
	err = root.Execute()
	return outBuf.String(), errBuf.String(), err
}

// writeTestFile creates a temporary file with the given content and returns its path.
func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validConfigYAML = `
engine:
  tick_rate_hz: 30
schedules:
  - name: nightly
    cron: "0 3 * * *"
    event: world_respawn
  - name: hourly
    cron: "0 * * * *"
    event: hourly_tick
`

func TestValidateCmd_ValidConfig(t *testing.T) {
	path := writeTestFile(t, "robin.yaml", validConfigYAML)

	stdout, _, err := executeCommand(newTestRoot(), "validate", path)
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}
	if !strings.Contains(stdout, "Valid! 2 schedules") {
		t.Fatalf("stdout = %q, want schedule summary", stdout)
	}
	if !strings.Contains(stdout, "30 Hz") {
		t.Fatalf("stdout = %q, want tick rate", stdout)
	}
}

func TestValidateCmd_InvalidConfig(t *testing.T) {
	path := writeTestFile(t, "robin.yaml", `
schedules:
  - name: bad
    cron: "not a cron"
    event: tick
`)

	_, _, err := executeCommand(newTestRoot(), "validate", path)
	if err == nil {
		t.Fatal("validate error = nil, want validation failure")
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error type = %T, want *ExitError", err)
	}
	if exitErr.Code != exitValidation {
		t.Fatalf("exit code = %d, want %d", exitErr.Code, exitValidation)
	}
}

func TestValidateCmd_MissingFile(t *testing.T) {
	_, _, err := executeCommand(newTestRoot(), "validate", "/tmp/no-such-config.yaml")
	if err == nil {
		t.Fatal("validate error = nil, want failure")
	}
}

func TestRunCmd_MissingConfig(t *testing.T) {
	_, _, err := executeCommand(newTestRoot(), "run", "/tmp/no-such-config.yaml")
	if err == nil {
		t.Fatal("run error = nil, want failure")
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error type = %T, want *ExitError", err)
	}
	if exitErr.Code != exitFileNotFound {
		t.Fatalf("exit code = %d, want %d", exitErr.Code, exitFileNotFound)
	}
}

func TestHistoryCmd_EmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	stdout, _, err := executeCommand(newTestRoot(), "history", dbPath)
	if err != nil {
		t.Fatalf("history error = %v", err)
	}
	if !strings.Contains(stdout, "0 of 0 events") {
		t.Fatalf("stdout = %q, want empty summary", stdout)
	}
}
