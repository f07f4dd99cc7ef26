package types_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/karupanerura/expression-evaluator/internal/types"
)

func TestErrorException(t *testing.T) {
	t.Parallel()

	err := &types.Error{
		Tag:   types.UnrecognizedTokenErrorTag,
		Err:   errors.New(`unexpected character 'x' at 4`),
		Extra: map[string]any{"char": "x", "position": 4},
	}
	expected := map[string]any{
		"tags":     []any{types.UnrecognizedTokenErrorTag},
		"message":  `unexpected character 'x' at 4`,
		"char":     "x",
		"position": 4,
	}
	if diff := cmp.Diff(expected, err.Exception()); diff != "" {
		t.Errorf("unexpected exception (-want +got):\n%s", diff)
	}
	if got := err.Error(); got != `UnrecognizedToken: unexpected character 'x' at 4` {
		t.Errorf("unexpected message: %s", got)
	}

	nested := &types.Error{Tag: types.TypeErrorTag, Err: &types.Error{Tag: types.DivisionByZeroErrorTag}}
	if diff := cmp.Diff([]any{types.TypeErrorTag, types.DivisionByZeroErrorTag}, nested.Exception().(map[string]any)["tags"]); diff != "" {
		t.Errorf("unexpected tags (-want +got):\n%s", diff)
	}
}

func TestErrorIs(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("wrapped: %w", &types.Error{Tag: types.DivisionByZeroErrorTag})
	if !errors.Is(err, &types.Error{Tag: types.DivisionByZeroErrorTag}) {
		t.Error("should match by tag")
	}
	if errors.Is(err, &types.Error{Tag: types.MissingOperandErrorTag}) {
		t.Error("should not match other tags")
	}

	tag, ok := types.TagOf(err)
	if !ok || tag != types.DivisionByZeroErrorTag {
		t.Errorf("unexpected tag: %s", tag)
	}
	if _, ok := types.TagOf(errors.New("plain")); ok {
		t.Error("plain errors have no tag")
	}
}

func TestParseErrorTag(t *testing.T) {
	t.Parallel()

	tag, err := types.ParseErrorTag("UnbalancedParens")
	if err != nil || tag != types.UnbalancedParensErrorTag {
		t.Errorf("unexpected result: %s, %v", tag, err)
	}
	if _, err := types.ParseErrorTag("ZeroDivisionError"); err == nil {
		t.Error("should be error")
	}
}
