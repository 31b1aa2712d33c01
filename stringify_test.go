package typekit_test

import (
	"math"
	"testing"

	typekit "github.com/reoring/typekit"
	"github.com/reoring/typekit/dsl"
	"github.com/reoring/typekit/ir"
)

func TestStringify_ObjectInDeclarationOrder(t *testing.T) {
	tk := userType(t)
	out := tk.Stringify(map[string]any{
		"sex":   "male",
		"email": "neko@example.com",
		"id":    "u-1",
	})
	want := `{"id":"u-1","email":"neko@example.com","sex":"male"}`
	if out != want {
		t.Fatalf("out = %s, want %s", out, want)
	}
}

func TestStringify_OmitsAbsentOptional(t *testing.T) {
	tk, err := typekit.New(dsl.Shape(
		dsl.Field("a", dsl.String()),
		dsl.Optional("b", dsl.String()),
	))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if out := tk.Stringify(map[string]any{"a": "x"}); out != `{"a":"x"}` {
		t.Fatalf("out = %s", out)
	}
}

func TestStringify_NullableWritesExplicitNull(t *testing.T) {
	tk, err := typekit.New(dsl.Shape(
		dsl.Field("a", dsl.Nullable(dsl.String())),
		dsl.Optional("b", dsl.String()),
	))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out := tk.Stringify(map[string]any{"a": nil, "b": nil})
	// a is nullable so the sentinel is written; b is not, so it is omitted.
	if out != `{"a":null}` {
		t.Fatalf("out = %s", out)
	}
}

func TestStringify_EscapesControlAndQuote(t *testing.T) {
	tk, err := typekit.New(dsl.String())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out := tk.Stringify("a\"b\\c\nd\x01e")
	want := `"a\"b\\c\nde"`
	if out != want {
		t.Fatalf("out = %s, want %s", out, want)
	}
}

func TestStringify_NonFiniteNumbersEncodeAsNull(t *testing.T) {
	tk, err := typekit.New(dsl.Array(dsl.Number()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out := tk.Stringify([]any{float64(1), math.NaN(), math.Inf(1), 2.5})
	if out != `[1,null,null,2.5]` {
		t.Fatalf("out = %s", out)
	}
}

func TestStringify_UnionSelectsMatchingBranch(t *testing.T) {
	tk, err := typekit.New(dsl.Array(dsl.Union(dsl.String(), dsl.Number())))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if out := tk.Stringify([]any{"a", float64(2)}); out != `["a",2]` {
		t.Fatalf("out = %s", out)
	}
}

func TestStringify_UnknownPropertyUsesGenericEncoding(t *testing.T) {
	tk, err := typekit.New(dsl.Shape(
		dsl.Field("meta", dsl.Unknown()),
	))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out := tk.Stringify(map[string]any{"meta": []any{float64(1), "two"}})
	if out != `{"meta":[1,"two"]}` {
		t.Fatalf("out = %s", out)
	}
}

func TestStringify_RecursiveValue(t *testing.T) {
	tk, err := typekit.New(dsl.Recursive("Node", func(self ir.Edge) []ir.Field {
		return []ir.Field{
			dsl.Field("v", dsl.Number()),
			dsl.Optional("next", self),
		}
	}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	v := map[string]any{
		"v":    float64(1),
		"next": map[string]any{"v": float64(2)},
	}
	if out := tk.Stringify(v); out != `{"v":1,"next":{"v":2}}` {
		t.Fatalf("out = %s", out)
	}
}

func TestRoundTrip_ParseOfStringifyIsDeepEqual(t *testing.T) {
	tk := userType(t)
	v := map[string]any{
		"id":    nil,
		"email": "neko@example.com",
		"sex":   float64(2),
		"note":  "hi",
	}
	if !tk.Is(v) {
		t.Fatalf("precondition: value must conform")
	}
	back, err := typekit.Parse([]byte(tk.Stringify(v)))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !tk.Is(back) {
		t.Fatalf("round-tripped value must still conform")
	}
	if !typekit.Equal(v, back) {
		t.Fatalf("round trip changed the value:\n in=%#v\nout=%#v", v, back)
	}
}
