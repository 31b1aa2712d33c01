package typekit

// Package typekit derives three runtime artifacts from a static type
// description: a value validator, a specialized serializer, and a JSON Schema
// document. Callers write no schema or validation code; everything is lowered
// from the shared ir graph.
//
// - Compile once with New, then Is/Assert/Validate/Stringify on the handle
// - A stable diagnostics model via ErrorRecord (access path, expected, value)
// - Schema applications for two dialects ("swagger", "ajv") via Application
//
// Design policy:
// - Keep only public APIs in the root package; the IR lives in ir/, schema
//   output in jsonschema/, builders in dsl/, and the CLI under cmd/typekit.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	t, err := typekit.New(dsl.Object("User",
//		dsl.Field("id", dsl.StringFormat(ir.FormatUUID)),
//		dsl.Optional("note", dsl.String()),
//	))
//	ok := t.Is(v)
//	res := t.Validate(v)
//	out := t.Stringify(v)
//
//	app, err := typekit.Application(jsonschema.Options{
//		Purpose:   jsonschema.PurposeSwagger,
//		RefPrefix: "#/components/schemas/",
//	}, roots...)
