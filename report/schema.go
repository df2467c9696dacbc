package report

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

// ErrSchema is wrapped by every validation failure.
var ErrSchema = errors.New("record does not match schema")

var (
	compileOnce    sync.Once
	outlineSchema  *jsonschema.Schema
	analysisSchema *jsonschema.Schema
	compileErr     error
)

func compileSchemas() {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	for _, name := range []string{"outline.json", "analysis.json"} {
		data, err := schemaFiles.ReadFile("schemas/" + name)
		if err != nil {
			compileErr = fmt.Errorf("read schema %s: %w", name, err)
			return
		}
		if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
			compileErr = fmt.Errorf("load schema %s: %w", name, err)
			return
		}
	}

	if outlineSchema, compileErr = compiler.Compile("outline.json"); compileErr != nil {
		compileErr = fmt.Errorf("compile outline schema: %w", compileErr)
		return
	}
	if analysisSchema, compileErr = compiler.Compile("analysis.json"); compileErr != nil {
		compileErr = fmt.Errorf("compile analysis schema: %w", compileErr)
	}
}

// ValidateOutline checks rec against the outline schema.
func ValidateOutline(rec Outline) error {
	compileOnce.Do(compileSchemas)
	if compileErr != nil {
		return compileErr
	}
	return validate(outlineSchema, rec)
}

// ValidateAnalysis checks a against the analysis schema.
func ValidateAnalysis(a Analysis) error {
	compileOnce.Do(compileSchemas)
	if compileErr != nil {
		return compileErr
	}
	return validate(analysisSchema, a)
}

func validate(schema *jsonschema.Schema, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode record for validation: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return nil
}
