package batch

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/karupanerura/expression-evaluator/internal/expression"
	"github.com/karupanerura/expression-evaluator/internal/types"
	"github.com/mitchellh/mapstructure"
)

type suiteDef struct {
	Cases []map[string]any `json:"cases"`
}

func (d *suiteDef) compile() (*Suite, error) {
	if len(d.Cases) == 0 {
		return nil, fmt.Errorf("empty cases")
	}

	suite := &Suite{Cases: make([]*Case, len(d.Cases))}
	seen := make(map[string]bool, len(d.Cases))
	for i, raw := range d.Cases {
		var def caseDef
		if err := decodeCaseDef(raw, &def); err != nil {
			return nil, fmt.Errorf("cases[%d]: %w", i, err)
		}
		if def.Name == "" {
			def.Name = fmt.Sprintf("case%d", i+1)
		}
		if seen[def.Name] {
			return nil, fmt.Errorf("%s: duplicated case name in cases", def.Name)
		}
		seen[def.Name] = true

		c, err := def.compile()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", def.Name, err)
		}
		suite.Cases[i] = c
	}
	return suite, nil
}

type caseDef struct {
	Name        string `mapstructure:"name"`
	Mode        string `mapstructure:"mode"`
	Expr        string `mapstructure:"expr"`
	Expect      any    `mapstructure:"expect"`
	ExpectError string `mapstructure:"expect_error"`
}

func decodeCaseDef(raw map[string]any, def *caseDef) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      def,
	})
	if err != nil {
		return fmt.Errorf("mapstructure.NewDecoder: %w", err)
	}
	return decoder.Decode(raw)
}

func (d *caseDef) compile() (*Case, error) {
	domain, err := expression.ParseDomain(d.Mode)
	if err != nil {
		return nil, fmt.Errorf("invalid mode: %w", err)
	}
	if d.Expect != nil && d.ExpectError != "" {
		return nil, fmt.Errorf("expect and expect_error are exclusive")
	}

	c := &Case{
		Name:   d.Name,
		Domain: domain,
		Source: d.Expr,
	}
	if d.ExpectError != "" {
		c.ExpectError, err = types.ParseErrorTag(d.ExpectError)
		if err != nil {
			return nil, fmt.Errorf("invalid expect_error: %w", err)
		}
	}
	if d.Expect != nil {
		c.Expect, err = decodeExpectation(domain, d.Expect)
		if err != nil {
			return nil, fmt.Errorf("invalid expect: %w", err)
		}
	}
	return c, nil
}

func decodeExpectation(domain expression.Domain, v any) (expression.Value, error) {
	switch domain {
	case expression.Numerical:
		n, ok := v.(json.Number)
		if !ok {
			return nil, fmt.Errorf("needs a number for %s expression but got: %v", domain, v)
		}
		f, err := n.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %s: %w", n, err)
		}
		return expression.Number(f), nil

	case expression.Logical:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("needs a boolean for %s expression but got: %v", domain, v)
		}
		return expression.Bool(b), nil

	default:
		return nil, fmt.Errorf("unknown domain: %v", domain)
	}
}
