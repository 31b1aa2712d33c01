package typekit_test

import (
	"errors"
	"testing"

	typekit "github.com/reoring/typekit"
	"github.com/reoring/typekit/dsl"
	"github.com/reoring/typekit/jsonschema"
)

func TestApplication_OneFragmentPerRootInOrder(t *testing.T) {
	app, err := typekit.Application(jsonschema.Options{},
		dsl.Object("First", dsl.Field("a", dsl.String())),
		dsl.Object("Second", dsl.Field("b", dsl.Number())),
	)
	if err != nil {
		t.Fatalf("Application: %v", err)
	}
	if len(app.Schemas) != 2 {
		t.Fatalf("schemas = %d", len(app.Schemas))
	}
	if app.Schemas[0].Ref != jsonschema.DefaultRefPrefix+"First" {
		t.Errorf("first ref = %q", app.Schemas[0].Ref)
	}
	if app.Schemas[1].Ref != jsonschema.DefaultRefPrefix+"Second" {
		t.Errorf("second ref = %q", app.Schemas[1].Ref)
	}
}

func TestApplication_MisuseWithoutRoots(t *testing.T) {
	_, err := typekit.Application(jsonschema.Options{})
	if err == nil {
		t.Fatalf("expected misuse error")
	}
	var me *typekit.MisuseError
	if !errors.As(err, &me) {
		t.Fatalf("expected *MisuseError, got %T", err)
	}
}

func TestMustNew_PanicsOnModelError(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	typekit.MustNew(dsl.Intersect(dsl.String(), dsl.Number()))
}

func TestResult_EmptyErrorsOnSuccess(t *testing.T) {
	tk := userType(t)
	res := tk.Validate(map[string]any{"id": "u", "email": "a@b.co", "sex": float64(2)})
	if !res.OK || len(res.Errors) != 0 {
		t.Fatalf("res = %+v", res)
	}
}
