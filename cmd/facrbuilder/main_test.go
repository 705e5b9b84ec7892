package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"facr-builder/internal/catalog"
)

func resetFlags() {
	hostsFile = ""
	servicesFile = ""
	outFile = ""
	hostLOB = "FUELS"
	provider = "yaml"
	dbDSN = ""
	resolveTimeout = 0
}

func TestNewRootCmd(t *testing.T) {
	cmd := newRootCmd()
	if cmd == nil {
		t.Fatal("newRootCmd returned nil")
	}
	if !strings.HasPrefix(cmd.Use, "facrbuilder") {
		t.Errorf("Expected use 'facrbuilder', got '%s'", cmd.Use)
	}
}

func TestLoadConfigFlagsWinOverEnvironment(t *testing.T) {
	resetFlags()
	t.Setenv("HOSTS", "/env/hosts")
	t.Setenv("SERVICES", "/env/services.yaml")
	t.Setenv("CSVOUT", "/env/out.csv")
	hostsFile = "/flag/hosts"

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HostsFile != "/flag/hosts" {
		t.Errorf("expected flag value to win, got %q", cfg.HostsFile)
	}
	if cfg.ServicesFile != "/env/services.yaml" || cfg.OutFile != "/env/out.csv" {
		t.Errorf("expected env fallback, got %q / %q", cfg.ServicesFile, cfg.OutFile)
	}
}

func TestLoadConfigRequiresHostsServicesAndOutput(t *testing.T) {
	cases := []struct {
		name  string
		setup func()
		want  string
	}{
		{"missing hosts", func() {
			servicesFile = "/s.yaml"
			outFile = "/o.csv"
		}, "HOSTS"},
		{"missing services", func() {
			hostsFile = "/h"
			outFile = "/o.csv"
		}, "SERVICES"},
		{"missing output", func() {
			hostsFile = "/h"
			servicesFile = "/s.yaml"
		}, "CSVOUT"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resetFlags()
			t.Setenv("HOSTS", "")
			t.Setenv("SERVICES", "")
			t.Setenv("CSVOUT", "")
			tc.setup()
			_, err := loadConfig()
			if err == nil {
				t.Fatal("expected a configuration error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("expected error mentioning %s, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadConfigNormalizesLOB(t *testing.T) {
	resetFlags()
	hostsFile = "/h"
	servicesFile = "/s.yaml"
	outFile = "/o.csv"
	hostLOB = "payments"

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HostLOB != "PAYMENTS" {
		t.Errorf("expected normalized LOB, got %q", cfg.HostLOB)
	}
}

func TestLoadConfigRejectsUnknownLOB(t *testing.T) {
	resetFlags()
	hostsFile = "/h"
	servicesFile = "/s.yaml"
	outFile = "/o.csv"
	hostLOB = "RETAIL"

	if _, err := loadConfig(); err == nil {
		t.Error("expected error for unknown LOB")
	}
}

func TestLoadConfigMariaDBProviderRequiresDSN(t *testing.T) {
	resetFlags()
	hostsFile = "/h"
	outFile = "/o.csv"
	provider = "mariadb"

	if _, err := loadConfig(); err == nil {
		t.Error("expected error for missing DSN")
	}

	dbDSN = "root:facr@tcp(127.0.0.1:3306)/facr_catalog"
	if _, err := loadConfig(); err != nil {
		t.Errorf("expected no error with DSN set, got %v", err)
	}
}

func TestLoadConfigRejectsUnknownProvider(t *testing.T) {
	resetFlags()
	hostsFile = "/h"
	outFile = "/o.csv"
	provider = "consul"

	if _, err := loadConfig(); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestListAvailableServices(t *testing.T) {
	cat, err := catalog.LoadYAML(strings.NewReader("web:\n  incoming:\n    - hostname: w1\n      protocol_port: 443/tcp\n"))
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}

	var buf bytes.Buffer
	listAvailableServices(&buf, cat)
	out := buf.String()
	if !strings.Contains(out, "Available services:") || !strings.Contains(out, "- web") {
		t.Errorf("unexpected listing output: %q", out)
	}
}

func TestRunEndToEndWithYAMLCatalog(t *testing.T) {
	resetFlags()
	tmpDir := t.TempDir()

	hostsPath := filepath.Join(tmpDir, "hosts")
	if err := os.WriteFile(hostsPath, []byte("10.10.10.1\n10.10.10.2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	servicesPath := filepath.Join(tmpDir, "services.yaml")
	servicesYAML := "web:\n  incoming:\n    - hostname: 10.20.0.1\n      protocol_port: 443/tcp\n"
	if err := os.WriteFile(servicesPath, []byte(servicesYAML), 0644); err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(tmpDir, "rules.csv")

	cmd := newRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{
		"--hosts", hostsPath,
		"--services", servicesPath,
		"--out", outPath,
		"--resolve-timeout", "100ms",
		"--log-level", "ERROR",
		"web",
	})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("expected run to succeed, got %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("expected output file, got %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rules, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "source_hostname,source_ip_address,source_lob") {
		t.Errorf("unexpected header: %q", lines[0])
	}
}

func TestRunFailsWhenAllServicesUnknown(t *testing.T) {
	resetFlags()
	tmpDir := t.TempDir()

	hostsPath := filepath.Join(tmpDir, "hosts")
	if err := os.WriteFile(hostsPath, []byte("10.10.10.1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	servicesPath := filepath.Join(tmpDir, "services.yaml")
	if err := os.WriteFile(servicesPath, []byte("web:\n  incoming: []\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := newRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{
		"--hosts", hostsPath,
		"--services", servicesPath,
		"--out", filepath.Join(tmpDir, "rules.csv"),
		"--log-level", "ERROR",
		"nonexistent",
	})

	if err := cmd.Execute(); err == nil {
		t.Error("expected error when every requested service is unknown")
	}
}

func TestRunListsServicesWhenNoneRequested(t *testing.T) {
	resetFlags()
	tmpDir := t.TempDir()

	hostsPath := filepath.Join(tmpDir, "hosts")
	if err := os.WriteFile(hostsPath, []byte("10.10.10.1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	servicesPath := filepath.Join(tmpDir, "services.yaml")
	if err := os.WriteFile(servicesPath, []byte("web:\n  incoming: []\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{
		"--hosts", hostsPath,
		"--services", servicesPath,
		"--out", filepath.Join(tmpDir, "rules.csv"),
		"--log-level", "ERROR",
	})

	if err := cmd.Execute(); err == nil {
		t.Error("expected error when no service names are given")
	}
	if !strings.Contains(out.String(), "- web") {
		t.Errorf("expected service listing, got %q", out.String())
	}
}

func TestSetupLogger(t *testing.T) {
	levels := []string{"DEBUG", "INFO", "WARN", "ERROR", "UNKNOWN"}
	for _, lvl := range levels {
		l := setupLogger(lvl, "")
		if l == nil {
			t.Errorf("setupLogger returned nil for level %s", lvl)
		}
	}

	tmpDir := t.TempDir()
	logFile := filepath.Join(tmpDir, "test.log")
	l1 := setupLogger("INFO", logFile)
	if l1 == nil {
		t.Error("setupLogger with file returned nil")
	}

	// Test invalid log file path
	l2 := setupLogger("INFO", "/nonexistent/path/to/log.log")
	if l2 == nil {
		t.Error("setupLogger should return a logger even if file fails")
	}
}
