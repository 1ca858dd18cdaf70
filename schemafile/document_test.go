package schemafile

import (
	"path/filepath"
	"testing"
)

func TestLoadDocument_Keys(t *testing.T) {
	doc, err := LoadDocument(filepath.Join("testdata", "user_v1.yaml"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	keys := doc.Keys("$.properties")
	if len(keys) != 2 || keys[0] != "id" || keys[1] != "age" {
		t.Fatalf("expected document order [id age], got %v", keys)
	}

	doc, err = LoadDocument(filepath.Join("testdata", "user_v2.json"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	keys = doc.Keys("$.properties")
	if len(keys) != 3 || keys[0] != "id" || keys[1] != "age" || keys[2] != "email" {
		t.Fatalf("expected document order [id age email], got %v", keys)
	}
}

func TestLoadDocument_KeysUnderSelector(t *testing.T) {
	doc, err := LoadDocument(filepath.Join("testdata", "bundle.json"), WithSelector("definitions.User"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	keys := doc.Keys("$")
	if len(keys) != 3 || keys[0] != "type" || keys[1] != "properties" || keys[2] != "required" {
		t.Fatalf("expected keys of definitions.User, got %v", keys)
	}

	doc, err = LoadDocument(filepath.Join("testdata", "bundle.json"), WithSelector("definitions.Us*"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if keys := doc.Keys("$"); keys != nil {
		t.Fatalf("order is unknown for wildcard selectors, got %v", keys)
	}
}

func TestSelectorBase(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"definitions.User", "$.definitions.User", true},
		{"allOf.0.properties", "$.allOf[0].properties", true},
		{"a.b*", "", false},
		{"a..b", "", false},
		{`a\.b`, "", false},
	}
	for _, tc := range cases {
		got, ok := selectorBase(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("selectorBase(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestDocument_NilKeys(t *testing.T) {
	var d *Document
	if d.Keys("$") != nil {
		t.Fatalf("nil document has no order")
	}
}
