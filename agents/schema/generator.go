/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package schema derives JSON schemas for tool arguments from Go structs
// and converts them into the shapes the model SDKs accept.
package schema

import "github.com/invopop/jsonschema"

// Generator wraps jsonschema.Reflector with the defaults used for tool
// argument schemas: inline definitions, required-ness from jsonschema tags.
type Generator struct {
	reflector jsonschema.Reflector
}

// NewGenerator constructs a generator wired with the tool schema defaults.
func NewGenerator() *Generator {
	return &Generator{
		reflector: jsonschema.Reflector{
			RequiredFromJSONSchemaTags: true,
			ExpandedStruct:             true,
			AllowAdditionalProperties:  true,
			DoNotReference:             true,
		},
	}
}

// Reflect returns the JSON schema for the provided value.
func (g *Generator) Reflect(v any) *jsonschema.Schema {
	s := g.reflector.Reflect(v)
	// Model APIs reject or ignore the meta-schema URL.
	s.Version = ""
	s.ID = ""
	return s
}

// Reflect derives the JSON schema for v using a default generator.
func Reflect(v any) *jsonschema.Schema {
	return NewGenerator().Reflect(v)
}

// ReflectType allocates a zero value of T and reflects it to a schema.
func ReflectType[T any]() *jsonschema.Schema {
	var zero T
	return Reflect(&zero)
}
