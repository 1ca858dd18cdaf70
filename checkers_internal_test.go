package schemacompat

import (
	"errors"
	"testing"

	"github.com/reoring/schemacompat/jsonschema"
)

func TestCheckers_RejectMismatchedKind(t *testing.T) {
	w := newWalker()
	str := jsonschema.FromValue(map[string]any{"type": "string"})
	num := jsonschema.FromValue(map[string]any{"type": "number"})
	tr := traversal{ct: Forward, path: Root()}
	for _, k := range jsonschema.Kinds() {
		check, ok := w.checkers[k]
		if !ok {
			t.Fatalf("no checker registered for %s", k)
		}
		other := str
		if k == jsonschema.KindString {
			other = num
		}
		if _, err := check(w, other, other, tr); !errors.Is(err, ErrInternal) {
			t.Fatalf("%s checker: expected ErrInternal, got %v", k, err)
		}
	}
}

func TestPropertyUnion_OldThenNew(t *testing.T) {
	oldS := jsonschema.FromValue(map[string]any{"properties": map[string]any{"b": nil, "a": nil}})
	newS := jsonschema.FromValue(map[string]any{"properties": map[string]any{"c": nil, "a": nil, "0": nil}})
	got := propertyUnion(oldS, newS)
	want := []string{"a", "b", "0", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestRoot_FieldPaths(t *testing.T) {
	p := Root().Field("user").Field("id")
	if p.String() != "$.user.id" {
		t.Fatalf("unexpected path %q", p)
	}
	if Root().String() != "$" {
		t.Fatalf("unexpected root path %q", Root())
	}
	v := p.Violation(Backward, CodeRequiredAdded)
	if v.Message != "Not BACKWARD compatible, $.user.id required field added" {
		t.Fatalf("unexpected message %q", v.Message)
	}
}

func TestDeepCopy_IsIndependent(t *testing.T) {
	src := map[string]any{"a": []any{map[string]any{"b": 1}}, "y": map[any]any{"k": "v"}}
	cp := deepCopy(src).(map[string]any)
	cp["a"].([]any)[0].(map[string]any)["b"] = 2
	if src["a"].([]any)[0].(map[string]any)["b"] != 1 {
		t.Fatalf("copy shares nested state with source")
	}
	if _, ok := cp["y"].(map[string]any); !ok {
		t.Fatalf("expected map[any]any to be copied as map[string]any, got %T", cp["y"])
	}
}
