// Package plan reads batch generation plans: YAML files listing generation
// steps that are validated against an embedded JSON schema and executed in
// order.
package plan

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/attus74/devutil/compiler/filestore"
)

// Step kinds.
const (
	KindContentEntity = "content-entity"
	KindConfigEntity  = "config-entity"
	KindBundle        = "bundle"
	KindPlugin        = "plugin"
)

// ErrInvalidPlan is returned for plans that do not match the plan schema.
var ErrInvalidPlan = errors.New("plan: invalid plan")

// Plan is a list of generation steps.
type Plan struct {
	// Author is the default author of all steps.
	Author string `yaml:"author"`
	Steps  []Step `yaml:"steps"`
}

// Step is one generator invocation. Which fields apply depends on Kind.
type Step struct {
	Kind          string `yaml:"kind"`
	Name          string `yaml:"name"`
	Label         string `yaml:"label"`
	Module        string `yaml:"module"`
	Path          string `yaml:"path"`
	Bundles       bool   `yaml:"bundles"`
	BundleClasses bool   `yaml:"bundle_classes"`
	EntityType    string `yaml:"entity_type"`
	Bundle        string `yaml:"bundle"`
	Author        string `yaml:"author"`
}

// String returns a short description used in logs and errors.
func (s Step) String() string {
	if s.Kind == KindBundle {
		return s.Kind + " " + s.EntityType + "." + s.Bundle
	}
	return s.Kind + " " + s.Name
}

// SchemaURL identifies the embedded plan schema.
const SchemaURL = "https://github.com/attus74/devutil/plan.schema.json"

//go:embed plan.schema.json
var schemaSource []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiled() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft7
		if err := c.AddResource(SchemaURL, bytes.NewReader(schemaSource)); err != nil {
			schemaErr = fmt.Errorf("plan: add schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile(SchemaURL)
	})
	return schema, schemaErr
}

// Parse decodes and validates a plan.
func Parse(data []byte) (*Plan, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	// The validator expects JSON values.
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	s, err := compiled()
	if err != nil {
		return nil, err
	}
	if err := s.Validate(value); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	p := &Plan{}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	return p, nil
}

// Load reads and validates the plan at path.
func Load(fs filestore.FileStore, path string) (*Plan, error) {
	text, ok, err := fs.ReadText(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("plan: %s does not exist", path)
	}
	p, err := Parse([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
