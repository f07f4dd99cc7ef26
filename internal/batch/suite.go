package batch

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/karupanerura/expression-evaluator/internal/expression"
	"github.com/karupanerura/expression-evaluator/internal/types"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// Suite is a named list of expressions, optionally with expected outcomes.
type Suite struct {
	Cases []*Case
}

type Case struct {
	Name        string
	Domain      expression.Domain
	Source      string
	Expect      expression.Value
	ExpectError types.ErrorTag
}

type Result struct {
	Name   string           `json:"name"`
	Mode   string           `json:"mode"`
	Expr   string           `json:"expr"`
	Value  expression.Value `json:"result,omitempty"`
	Err    error            `json:"-"`
	Error  any              `json:"error,omitempty"`
	Passed bool             `json:"passed"`
	Reason string           `json:"reason,omitempty"`
}

// Run evaluates every case, at most parallelism at once (unlimited when
// parallelism <= 0). Results are returned in case order.
func (s *Suite) Run(ctx context.Context, parallelism int) ([]*Result, error) {
	results := make([]*Result, len(s.Cases))

	eg, ctx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		eg.SetLimit(parallelism)
	}
	for i, c := range s.Cases {
		i := i
		c := c
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("%s: %w", c.Name, err)
			}
			results[i] = c.Run()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Case) Run() *Result {
	r := &Result{
		Name: c.Name,
		Mode: c.Domain.String(),
		Expr: c.Source,
	}
	r.Value, r.Err = expression.Evaluate(c.Source, c.Domain)
	if r.Err != nil {
		var e types.Exception
		if errors.As(r.Err, &e) {
			r.Error = e.Exception()
		} else {
			r.Error = r.Err.Error()
		}
	}
	r.Passed, r.Reason = c.verify(r.Value, r.Err)
	return r
}

func (c *Case) verify(v expression.Value, err error) (bool, string) {
	if c.ExpectError != "" {
		if err == nil {
			return false, fmt.Sprintf("expect %s error but got %v", c.ExpectError, v)
		}
		if tag, _ := types.TagOf(err); tag != c.ExpectError {
			return false, fmt.Sprintf("expect %s error but got: %v", c.ExpectError, err)
		}
		return true, ""
	}
	if err != nil {
		return false, err.Error()
	}
	if c.Expect != nil && !sameValue(c.Expect, v) {
		return false, fmt.Sprintf("expect to %v but got %v", c.Expect, v)
	}
	return true, ""
}

func sameValue(expected, actual expression.Value) bool {
	e, ok := expected.(expression.Number)
	if !ok {
		return expected == actual
	}
	a, ok := actual.(expression.Number)
	if !ok {
		return false
	}
	if e == a {
		return true
	}
	return math.Abs(float64(e-a)) <= 1e-9*math.Max(1, math.Abs(float64(e)))
}

// Failed returns the results that did not meet their expectation.
func Failed(results []*Result) []*Result {
	return lo.Filter(results, func(r *Result, _ int) bool {
		return !r.Passed
	})
}
