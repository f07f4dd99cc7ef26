package expression

import (
	"fmt"

	"github.com/karupanerura/expression-evaluator/internal/types"
)

func newUnrecognizedTokenError(c rune, pos int) error {
	return &types.Error{
		Tag:   types.UnrecognizedTokenErrorTag,
		Err:   fmt.Errorf("unexpected character %q at %d", c, pos),
		Extra: map[string]any{"char": string(c), "position": pos},
	}
}

func newMissingOperandError(found string, pos int) error {
	return &types.Error{
		Tag:   types.MissingOperandErrorTag,
		Err:   fmt.Errorf("expecting a value or left parenthesis but got %s at %d", found, pos),
		Extra: map[string]any{"position": pos},
	}
}

func newUnbalancedParensError(format string, args ...any) error {
	return &types.Error{
		Tag: types.UnbalancedParensErrorTag,
		Err: fmt.Errorf(format, args...),
	}
}

func newTrailingTokensError(t Token) error {
	return &types.Error{
		Tag:   types.TrailingTokensErrorTag,
		Err:   fmt.Errorf("unexpected token %s at %d", t, t.BeginsPos()),
		Extra: map[string]any{"position": t.BeginsPos()},
	}
}

func newNestingTooDeepError(t Token) error {
	return &types.Error{
		Tag:   types.NestingTooDeepErrorTag,
		Err:   fmt.Errorf("expression nests deeper than %d at %d", maxNestingDepth, t.BeginsPos()),
		Extra: map[string]any{"position": t.BeginsPos()},
	}
}
