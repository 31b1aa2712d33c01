package irconv_test

import (
	"strings"
	"testing"

	typekit "github.com/reoring/typekit"
	"github.com/reoring/typekit/ir"
	"github.com/reoring/typekit/irconv"
	js "github.com/reoring/typekit/jsonschema"
)

const userDoc = `
types:
  User:
    type: object
    properties:
      id: { type: string, format: uuid }
      name: { type: string, nullable: true }
      sex:
        oneOf:
          - { type: number, enum: [1, 2], nullable: true }
          - { type: string, enum: [male, female], nullable: true }
      friends:
        type: array
        items: { ref: User }
    required: [id, name, sex]
roots:
  - type: array
    items: { ref: User }
`

func TestFromYAML_BuildsWorkingValidator(t *testing.T) {
	roots, err := irconv.FromYAML([]byte(userDoc))
	if err != nil {
		t.Fatalf("FromYAML: %v", err)
	}
	if len(roots) != 1 {
		t.Fatalf("roots = %d", len(roots))
	}
	tk, err := typekit.New(roots[0])
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	v := []any{map[string]any{
		"id":   "0a1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9",
		"name": nil,
		"sex":  "male",
	}}
	if !tk.Is(v) {
		t.Fatalf("expected conforming value: %+v", tk.Validate(v).Errors)
	}
	bad := []any{map[string]any{
		"id":   "nope",
		"name": nil,
		"sex":  "male",
	}}
	res := tk.Validate(bad)
	if res.OK || res.Errors[0].Path != "$input[0].id" {
		t.Fatalf("unexpected result: %+v", res.Errors)
	}
}

func TestFromYAML_SelfReferenceBecomesBackEdge(t *testing.T) {
	roots, err := irconv.FromYAML([]byte(userDoc))
	if err != nil {
		t.Fatalf("FromYAML: %v", err)
	}
	arr := roots[0].Type.(*ir.Array)
	user := arr.Item.Type.(*ir.Object)
	friends, ok := user.Field("friends")
	if !ok {
		t.Fatalf("friends field missing")
	}
	items := friends.Value.Type.(*ir.Array).Item
	ref, ok := items.Type.(*ir.Ref)
	if !ok {
		t.Fatalf("self reference must be an explicit back edge, got %T", items.Type)
	}
	if ref.Target != user {
		t.Fatalf("back edge must resolve to the declaring object")
	}
}

func TestFromYAML_PropertyOrderSurvivesToSchema(t *testing.T) {
	roots, err := irconv.FromYAML([]byte(userDoc))
	if err != nil {
		t.Fatalf("FromYAML: %v", err)
	}
	app, err := js.Compile(roots, js.Options{Purpose: js.PurposeSwagger})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	user, ok := app.Components.Schemas.Get("User")
	if !ok {
		t.Fatalf("User missing; have %v", app.Components.Schemas.Keys())
	}
	keys := user.Properties.Keys()
	want := []string{"id", "name", "sex", "friends"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v", keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}
}

func TestFromYAML_DefaultsRootsToDeclaredTypes(t *testing.T) {
	doc := `
types:
  A:
    type: object
    properties:
      v: { type: string }
    required: [v]
  B:
    type: object
    properties:
      w: { type: number }
`
	roots, err := irconv.FromYAML([]byte(doc))
	if err != nil {
		t.Fatalf("FromYAML: %v", err)
	}
	if len(roots) != 2 {
		t.Fatalf("roots = %d", len(roots))
	}
	if roots[0].Type.String() != "A" || roots[1].Type.String() != "B" {
		t.Fatalf("roots = %v, %v", roots[0].Type, roots[1].Type)
	}
}

func TestFromYAML_UndeclaredRefFails(t *testing.T) {
	doc := `
roots:
  - { ref: Ghost }
`
	_, err := irconv.FromYAML([]byte(doc))
	if err == nil || !strings.Contains(err.Error(), "Ghost") {
		t.Fatalf("expected undeclared-type error, got %v", err)
	}
}

func TestFromYAML_TupleAndIntersection(t *testing.T) {
	doc := `
roots:
  - type: tuple
    items:
      - { type: string }
      - { type: number }
  - allOf:
      - type: object
        properties:
          a: { type: string }
        required: [a]
      - type: object
        properties:
          b: { type: number }
        required: [b]
`
	roots, err := irconv.FromYAML([]byte(doc))
	if err != nil {
		t.Fatalf("FromYAML: %v", err)
	}
	if _, ok := roots[0].Type.(*ir.Tuple); !ok {
		t.Fatalf("first root = %T", roots[0].Type)
	}
	x, ok := roots[1].Type.(*ir.Intersection)
	if !ok {
		t.Fatalf("second root = %T", roots[1].Type)
	}
	merged, err := ir.Merge(x)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(merged.Fields) != 2 {
		t.Fatalf("fields = %+v", merged.Fields)
	}
}
