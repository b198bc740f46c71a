package nodes

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yourorg/s3-image-nodes/internal/config"
)

func TestConfigInfoMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s3_config.json")
	env := NewEnv(&config.Store{Path: path}, nil)
	report := NewConfigInfo(env).Run()

	if report.ConfigExists {
		t.Fatalf("ConfigExists=true for missing file")
	}
	if report.ConfigFilePath != path {
		t.Fatalf("path=%q; want %q", report.ConfigFilePath, path)
	}
	if len(report.Profiles) != 0 {
		t.Fatalf("profiles=%v; want none", report.Profiles)
	}
	if len(report.Instructions) == 0 || !strings.Contains(report.Instructions[0], path) {
		t.Fatalf("instructions=%v", report.Instructions)
	}
	// The report must not have created the file.
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("config file was created by config-info")
	}
}

func TestConfigInfoConfiguredFlags(t *testing.T) {
	env := testEnv(t, newFakeStore())
	report := NewConfigInfo(env).Run()

	if !report.ConfigExists {
		t.Fatalf("ConfigExists=false")
	}
	if len(report.Profiles) != 1 {
		t.Fatalf("profiles=%v", report.Profiles)
	}
	p := report.Profiles[0]
	if p.Name != "test" || p.DisplayName != "Test" || p.Endpoint != "localhost:9000" || !p.Configured {
		t.Fatalf("profile status: %+v", p)
	}

	// The whole report is JSON-serializable.
	if _, err := json.MarshalIndent(report, "", "  "); err != nil {
		t.Fatalf("marshal report: %v", err)
	}
}

func TestConfigInfoPlaceholderNotConfigured(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s3_config.json")
	s := &config.Store{Path: path}
	if err := s.CreateDefault(); err != nil {
		t.Fatal(err)
	}
	report := NewConfigInfo(NewEnv(s, nil)).Run()

	configured := map[string]bool{}
	for _, p := range report.Profiles {
		configured[p.Name] = p.Configured
	}
	if configured["aws_s3"] || configured["digitalocean"] || configured["backblaze"] {
		t.Fatalf("placeholder profiles reported configured: %v", configured)
	}
	if !configured["minio_local"] {
		t.Fatalf("minio_local should be configured: %v", configured)
	}
}

func TestConfigInfoMalformedNeverFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s3_config.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	report := NewConfigInfo(NewEnv(&config.Store{Path: path}, nil)).Run()

	if !report.ConfigExists {
		t.Fatalf("ConfigExists=false")
	}
	if len(report.Instructions) == 0 || !strings.Contains(report.Instructions[0], "errors") {
		t.Fatalf("instructions=%v", report.Instructions)
	}
}
