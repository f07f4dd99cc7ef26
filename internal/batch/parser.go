package batch

import (
	"bytes"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

func ParseSuiteYAML(r io.Reader) (*Suite, error) {
	yamlBytes, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll: %w", err)
	}

	jsonBytes, err := yaml.YAMLToJSON(yamlBytes)
	if err != nil {
		return nil, fmt.Errorf("yaml.YAMLToJSON: %w", err)
	}

	return ParseSuiteJSON(bytes.NewReader(jsonBytes))
}

func ParseSuiteJSON(r io.Reader) (*Suite, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var def suiteDef
	if err := decoder.Decode(&def); err != nil {
		return nil, fmt.Errorf("json.Decode: %w", err)
	}

	return def.compile()
}
