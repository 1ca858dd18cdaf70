package schemafile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_YAML(t *testing.T) {
	doc, err := Load(filepath.Join("testdata", "user_v1.yaml"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if doc["type"] != "object" {
		t.Fatalf("expected object schema, got %v", doc["type"])
	}
	props, ok := doc["properties"].(map[string]any)
	if !ok || len(props) != 2 {
		t.Fatalf("expected two properties, got %v", doc["properties"])
	}
	req, ok := doc["required"].([]any)
	if !ok || len(req) != 1 || req[0] != "id" {
		t.Fatalf("unexpected required %v", doc["required"])
	}
}

func TestLoad_JSON(t *testing.T) {
	doc, err := Load(filepath.Join("testdata", "user_v2.json"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	props := doc["properties"].(map[string]any)
	if _, ok := props["email"]; !ok {
		t.Fatalf("expected email property")
	}
}

func TestLoad_Selector(t *testing.T) {
	doc, err := Load(filepath.Join("testdata", "bundle.json"), WithSelector("definitions.User"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if doc["type"] != "object" {
		t.Fatalf("expected selected User schema, got %v", doc)
	}

	_, err = Load(filepath.Join("testdata", "bundle.json"), WithSelector("definitions.Missing"))
	if !errors.Is(err, ErrSelectorNotFound) {
		t.Fatalf("expected ErrSelectorNotFound, got %v", err)
	}
}

func TestLoad_SelectorOnYAML(t *testing.T) {
	doc, err := Load(filepath.Join("testdata", "user_v1.yaml"), WithSelector("properties.age"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if doc["type"] != "integer" {
		t.Fatalf("expected integer schema, got %v", doc)
	}
}

func TestLoad_DuplicateYAMLKey(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "dup.yaml"))
	var de *DuplicateKeyError
	if !errors.As(err, &de) {
		t.Fatalf("expected DuplicateKeyError, got %T %v", err, err)
	}
	if de.Key != "id" || de.Path != "$.properties" {
		t.Fatalf("unexpected duplicate %q at %q", de.Key, de.Path)
	}
	if de.FirstLine != 3 || de.Line != 5 {
		t.Fatalf("unexpected positions first=%d dup=%d", de.FirstLine, de.Line)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "nope.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestDecode_RootMustBeObject(t *testing.T) {
	cases := []struct {
		name string
		data string
		f    Format
	}{
		{"json array", `[1,2]`, FormatJSON},
		{"json scalar", `"x"`, FormatJSON},
		{"yaml list", "- a\n- b\n", FormatYAML},
		{"empty yaml", "", FormatYAML},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.data), Options{Format: tc.f})
			if !errors.Is(err, ErrNotObject) {
				t.Fatalf("expected ErrNotObject, got %v", err)
			}
		})
	}
}

func TestDecode_UnknownFormat(t *testing.T) {
	if _, err := Decode([]byte(`{}`), Options{Format: "toml"}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestDetectFormat(t *testing.T) {
	cases := map[string]Format{
		"a.yaml":   FormatYAML,
		"b.YML":    FormatYAML,
		"c.json":   FormatJSON,
		"d.schema": FormatJSON,
	}
	for in, want := range cases {
		if got := DetectFormat(in); got != want {
			t.Fatalf("DetectFormat(%q)=%q want %q", in, got, want)
		}
	}
}

func TestMetaValidation(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"type": 5}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err != nil {
		t.Fatalf("without meta-validation the document loads: %v", err)
	}
	if _, err := Load(bad, WithMetaValidation()); err == nil {
		t.Fatalf("expected meta-validation to reject type 5")
	}
	if _, err := Load(filepath.Join("testdata", "user_v2.json"), WithMetaValidation()); err != nil {
		t.Fatalf("valid schema rejected: %v", err)
	}
}
