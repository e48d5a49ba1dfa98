// Package validator checks decoded documents against JSON Schemas.
package validator

// Draft2020_12 is the JSON Schema dialect used for cppdev's own schemas.
const Draft2020_12 = "https://json-schema.org/draft/2020-12/schema"

// A JSONDocument is a decoded JSON value: maps, slices, strings, bools, json.Number and nil.
type JSONDocument interface{}

// Validator validates a decoded document.
type Validator interface {
	Validate(doc JSONDocument) error
}

// Compiler turns registered schemas into Validators.
type Compiler interface {
	// AddSchema registers a decoded schema document under id.
	AddSchema(id string, schema JSONDocument) error

	// Compile creates a Validator from the schema previously added with id.
	Compile(id string) (Validator, error)
}
