package e2e

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bradleyjkemp/cupaloy/v2"
	"github.com/jenian/locgrd/internal/cli"
	"github.com/jenian/locgrd/internal/config"
	"github.com/jenian/locgrd/internal/fsys"
	"github.com/jenian/locgrd/internal/output"
)

func init() {
	output.SetColor(false)
}

func setupMockAddon(t *testing.T, addonName string) string {
	t.Helper()
	testdataDir := filepath.Join("testdata", addonName)

	if _, err := os.Stat(testdataDir); os.IsNotExist(err) {
		t.Fatalf("Testdata directory not found: %s", testdataDir)
	}

	absPath, err := filepath.Abs(testdataDir)
	if err != nil {
		t.Fatalf("Failed to get absolute path: %v", err)
	}

	// locgrd never writes during scan/check, so testdata is used directly
	return absPath
}

// runLocgrd executes the command tree in-process against the real file system
func runLocgrd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmd(fsys.NewOsProvider())
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func runCheckTest(t *testing.T, addonName string, extraArgs ...string) {
	t.Helper()
	mockAddon := setupMockAddon(t, addonName)

	args := append([]string{"check", mockAddon, "--no-header"}, extraArgs...)
	stdout, stderr, err := runLocgrd(t, args...)

	// ErrIssuesFound is expected when keys are missing
	if err != nil && !errors.Is(err, cli.ErrIssuesFound) {
		t.Fatalf("locgrd check failed: %v\nStderr: %s", err, stderr)
	}

	cupaloy.SnapshotT(t, strings.TrimSpace(stdout))
}

func TestE2E_BasicCheck(t *testing.T) {
	runCheckTest(t, "mock-addon")
}

func TestE2E_BasicCheckJSON(t *testing.T) {
	runCheckTest(t, "mock-addon", "--json")
}

func TestE2E_ConfigIgnores(t *testing.T) {
	// Keys in ignores.missing are not reported and ignored folders are not scanned
	runCheckTest(t, "mock-addon-ignores", "--json")
}

func TestE2E_Scan(t *testing.T) {
	mockAddon := setupMockAddon(t, "mock-addon")

	stdout, stderr, err := runLocgrd(t, "scan", "--path", mockAddon, "--json")
	if err != nil {
		t.Fatalf("locgrd scan failed: %v\nStderr: %s", err, stderr)
	}

	cupaloy.SnapshotT(t, strings.TrimSpace(stdout))
}

func TestE2E_ExitStatus(t *testing.T) {
	mockAddon := setupMockAddon(t, "mock-addon")

	_, stderr, err := runLocgrd(t, "check", mockAddon, "--silent")
	if !errors.Is(err, cli.ErrIssuesFound) {
		t.Fatalf("Expected ErrIssuesFound, got %v", err)
	}
	if stderr != "" {
		t.Errorf("Silent mode should not write progress, got %q", stderr)
	}
}

func TestE2E_EnvExclude(t *testing.T) {
	mockAddon := setupMockAddon(t, "mock-addon")
	t.Setenv(config.EnvExclude, "Modules")

	stdout, stderr, err := runLocgrd(t, "check", mockAddon, "--json")
	if !errors.Is(err, cli.ErrIssuesFound) {
		t.Fatalf("Expected ErrIssuesFound, got %v\nStderr: %s", err, stderr)
	}

	var result output.JSONOutput
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("Invalid JSON output: %v\n%s", err, stdout)
	}
	if result.TotalKeys != 5 || result.Missing != 2 {
		t.Errorf("Expected 5 keys and 2 missing with Modules excluded, got %+v", result)
	}
	for _, info := range result.Plain {
		if info.Key == "Bar Label" {
			t.Error("Keys from excluded folder should not be reported")
		}
	}
}

func TestE2E_DefinitionsFlag(t *testing.T) {
	mockAddon := setupMockAddon(t, "mock-addon")

	stdout, _, err := runLocgrd(t, "check", mockAddon, "--json", "--no-auto-detect",
		"--definitions", "Localization/LocalizationPost.lua")
	if !errors.Is(err, cli.ErrIssuesFound) {
		t.Fatalf("Expected ErrIssuesFound, got %v", err)
	}

	var result output.JSONOutput
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("Invalid JSON output: %v\n%s", err, stdout)
	}
	if result.DefinedKeys != 1 || result.Missing != 5 {
		t.Errorf("Expected only LocalizationPost.lua to be loaded, got %+v", result)
	}
}
