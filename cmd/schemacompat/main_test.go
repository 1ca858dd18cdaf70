package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
)

const testdata = "../../schemafile/testdata"

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func runCLI(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Usage(t *testing.T) {
	if code, _, stderr := runCLI(); code != exitError || !strings.Contains(stderr, "Usage") {
		t.Fatalf("expected usage and exit 2, got %d %q", code, stderr)
	}
	if code, _, _ := runCLI("compile"); code != exitError {
		t.Fatalf("unknown subcommand must exit 2, got %d", code)
	}
}

func TestCheck_Compatible(t *testing.T) {
	code, stdout, stderr := runCLI("check",
		"-old", filepath.Join(testdata, "user_v1.yaml"),
		"-new", filepath.Join(testdata, "user_v2.json"),
		"-type", "full")
	if code != exitCompatible {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "compatible (FULL)") {
		t.Fatalf("unexpected output %q", stdout)
	}
}

func TestCheck_Incompatible(t *testing.T) {
	dir := t.TempDir()
	newPath := writeFile(t, dir, "new.json", `{"type":"object","properties":{"id":{"type":"string"},"age":{"type":"integer"}}}`)
	code, stdout, _ := runCLI("check", "-old", filepath.Join(testdata, "user_v1.yaml"), "-new", newPath)
	if code != exitIncompatible {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stdout, "no_longer_required\t$.id") || !strings.Contains(stdout, "incompatible (FORWARD)") {
		t.Fatalf("unexpected output %q", stdout)
	}
}

func TestCheck_JSONFormat(t *testing.T) {
	dir := t.TempDir()
	newPath := writeFile(t, dir, "new.json", `{"type":"object","properties":{"id":{"type":"integer"}},"required":["id"]}`)
	code, stdout, _ := runCLI("check", "-old", filepath.Join(testdata, "user_v1.yaml"), "-new", newPath, "-format", "json", "-type", "BACKWARD")
	if code != exitIncompatible {
		t.Fatalf("expected exit 1, got %d", code)
	}
	var res struct {
		Compatible    bool   `json:"compatible"`
		Compatibility string `json:"compatibility"`
		Violations    []struct {
			Code string `json:"code"`
			Path string `json:"path"`
		} `json:"violations"`
	}
	if err := json.Unmarshal([]byte(stdout), &res); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout)
	}
	if res.Compatible || res.Compatibility != "BACKWARD" {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(res.Violations) != 1 || res.Violations[0].Code != "type_changed" || res.Violations[0].Path != "$.id" {
		t.Fatalf("unexpected violations %+v", res.Violations)
	}
}

func TestCheck_Selector(t *testing.T) {
	code, stdout, stderr := runCLI("check",
		"-old", filepath.Join(testdata, "bundle.json"),
		"-new", filepath.Join(testdata, "bundle.json"),
		"-select", "definitions.User", "-validate")
	if code != exitCompatible {
		t.Fatalf("expected exit 0, got %d: %s %s", code, stdout, stderr)
	}
}

func TestCheck_Errors(t *testing.T) {
	v1 := filepath.Join(testdata, "user_v1.yaml")
	cases := []struct {
		name string
		args []string
	}{
		{"missing flags", []string{"check", "-old", v1}},
		{"bad type", []string{"check", "-old", v1, "-new", v1, "-type", "SIDEWAYS"}},
		{"bad format", []string{"check", "-old", v1, "-new", v1, "-format", "xml"}},
		{"missing file", []string{"check", "-old", v1, "-new", "does-not-exist.json"}},
		{"duplicate keys", []string{"check", "-old", v1, "-new", filepath.Join(testdata, "dup.yaml")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if code, _, _ := runCLI(tc.args...); code != exitError {
				t.Fatalf("expected exit 2, got %d", code)
			}
		})
	}
}

func TestRegister_BlockFlow(t *testing.T) {
	dir := t.TempDir()
	store := filepath.Join(dir, "store")
	v1 := filepath.Join(testdata, "user_v1.yaml")
	v2 := writeFile(t, dir, "v2.json", `{"type":"object","properties":{"age":{"type":"integer"}}}`)

	code, stdout, stderr := runCLI("register", "-store", store, "-subject", "user", "-version", "1", "-log-level", "error", v1)
	if code != exitCompatible || !strings.Contains(stdout, "first version") {
		t.Fatalf("first register: %d %q %q", code, stdout, stderr)
	}
	code, stdout, _ = runCLI("register", "-store", store, "-subject", "user", "-version", "2", "-mode", "block", "-log-level", "error", v2)
	if code != exitIncompatible || !strings.Contains(stdout, "rejected user version 2") {
		t.Fatalf("expected rejection, got %d %q", code, stdout)
	}
	code, stdout, _ = runCLI("register", "-store", store, "-subject", "user", "-version", "2", "-log-level", "error", v2)
	if code != exitCompatible || !strings.Contains(stdout, "stored user version 2") {
		t.Fatalf("warn mode should store, got %d %q", code, stdout)
	}
}

func TestRegister_Config(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "registry.yaml", "compatibility: full\nmode: block\nstore_dir: "+filepath.Join(dir, "store")+"\n")
	v1 := filepath.Join(testdata, "user_v1.yaml")
	v2 := filepath.Join(testdata, "user_v2.json")

	for i, path := range []string{v1, v2} {
		code, stdout, stderr := runCLI("register", "-config", cfg, "-subject", "user", "-log-level", "error", path)
		if code != exitCompatible {
			t.Fatalf("register %d: %d %q %q", i, code, stdout, stderr)
		}
	}
	bad := writeFile(t, dir, "bad.yaml", "mode: audit\n")
	if code, _, _ := runCLI("register", "-config", bad, "-subject", "user", v1); code != exitError {
		t.Fatalf("invalid config must exit 2, got %d", code)
	}
	if code, _, _ := runCLI("register", "-store", dir, v1); code != exitError {
		t.Fatalf("missing subject must exit 2, got %d", code)
	}
}

func TestCheck_ReportsFirstViolationInDocumentOrder(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeFile(t, dir, "old.yaml", "type: object\nproperties:\n  zeta: {type: string}\n  alpha: {type: string}\n")
	newPath := writeFile(t, dir, "new.json", `{"type":"object","properties":{"zeta":{"type":"integer"},"alpha":{"type":"boolean"}}}`)
	code, stdout, _ := runCLI("check", "-old", oldPath, "-new", newPath)
	if code != exitIncompatible {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.HasPrefix(stdout, "type_changed\t$.zeta\t") {
		t.Fatalf("expected the first property of the file to be reported, got %q", stdout)
	}
}

func TestCheck_MultiDocumentYAML(t *testing.T) {
	dir := t.TempDir()
	multi := writeFile(t, dir, "multi.yaml", "type: string\n---\ntype: integer\n")
	if code, _, stderr := runCLI("check", "-old", multi, "-new", multi); code != exitError || !strings.Contains(stderr, "single YAML document") {
		t.Fatalf("expected exit 2 for multi-document input, got %d %q", code, stderr)
	}
}
