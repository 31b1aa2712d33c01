package ir_test

import (
	"strings"
	"testing"

	"github.com/reoring/typekit/ir"
)

func str() ir.Edge { return ir.Edge{Type: &ir.Primitive{Name: ir.PString}} }
func num() ir.Edge { return ir.Edge{Type: &ir.Primitive{Name: ir.PNumber}} }

func TestNewUnion_DropsStructuralDuplicates(t *testing.T) {
	u := ir.NewUnion(str(), num(), str())
	if len(u.Alts) != 2 {
		t.Fatalf("alts = %d, want 2", len(u.Alts))
	}
	// Nullability is part of structural identity.
	u = ir.NewUnion(str(), ir.Edge{Type: str().Type, Nullable: true})
	if len(u.Alts) != 2 {
		t.Fatalf("nullable variant must not be deduplicated")
	}
}

func TestKey_DistinguishesShapes(t *testing.T) {
	a := &ir.Object{Fields: []ir.Field{{Name: "x", Value: num(), Required: true}}}
	b := &ir.Object{Fields: []ir.Field{{Name: "x", Value: num(), Required: false}}}
	if ir.Key(a) == ir.Key(b) {
		t.Fatalf("required flag must affect structural identity")
	}
	c := &ir.Object{Fields: []ir.Field{{Name: "x", Value: num(), Required: true}}}
	if ir.Key(a) != ir.Key(c) {
		t.Fatalf("identical shapes must share a key")
	}
}

func TestKey_TerminatesOnRecursion(t *testing.T) {
	o := &ir.Object{Name: "Node", Origin: ir.OriginNamed}
	o.Fields = []ir.Field{
		{Name: "next", Value: ir.Edge{Type: &ir.Ref{Target: o}}, Required: false},
	}
	k := ir.Key(o)
	if !strings.Contains(k, "ref{Node}") {
		t.Fatalf("key = %q", k)
	}
}

func TestMerge_CollisionIsModelError(t *testing.T) {
	x := &ir.Intersection{Members: []ir.Type{
		&ir.Object{Fields: []ir.Field{{Name: "id", Value: str(), Required: true}}},
		&ir.Object{Fields: []ir.Field{{Name: "id", Value: num(), Required: true}}},
	}}
	if _, err := ir.Merge(x); err == nil {
		t.Fatalf("expected collision error")
	}
}

func TestMerge_FlattensNestedIntersections(t *testing.T) {
	inner := &ir.Intersection{Members: []ir.Type{
		&ir.Object{Fields: []ir.Field{{Name: "a", Value: str(), Required: true}}},
	}}
	x := &ir.Intersection{Members: []ir.Type{
		inner,
		&ir.Object{Fields: []ir.Field{{Name: "b", Value: num(), Required: true}}},
	}}
	o, err := ir.Merge(x)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(o.Fields) != 2 || o.Fields[0].Name != "a" || o.Fields[1].Name != "b" {
		t.Fatalf("fields = %+v", o.Fields)
	}
}

func TestAllowsAbsent(t *testing.T) {
	und := ir.Edge{Type: &ir.Primitive{Name: ir.PUndefined}}
	if !ir.AllowsAbsent(und) {
		t.Fatalf("undefined must allow absence")
	}
	u := ir.Edge{Type: ir.NewUnion(str(), und)}
	if !ir.AllowsAbsent(u) {
		t.Fatalf("union with undefined must allow absence")
	}
	if ir.AllowsAbsent(str()) {
		t.Fatalf("plain string must not allow absence")
	}
}

func TestString_Descriptions(t *testing.T) {
	enum := &ir.Primitive{Name: ir.PString, Enum: []any{"male", "female"}}
	if got := enum.String(); got != `("male" | "female")` {
		t.Errorf("enum = %q", got)
	}
	arr := &ir.Array{Item: ir.Edge{Type: enum, Nullable: true}}
	if got := arr.String(); got != `Array<(("male" | "female") | null)>` {
		t.Errorf("array = %q", got)
	}
	anon := &ir.Object{}
	if anon.String() != ir.AnonymousName {
		t.Errorf("anonymous object = %q", anon.String())
	}
}
