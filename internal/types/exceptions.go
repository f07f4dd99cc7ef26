package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

type ErrorTag string

const (
	UnrecognizedTokenErrorTag ErrorTag = "UnrecognizedToken"
	UnbalancedParensErrorTag  ErrorTag = "UnbalancedParens"
	MissingOperandErrorTag    ErrorTag = "MissingOperand"
	TrailingTokensErrorTag    ErrorTag = "TrailingTokens"
	DivisionByZeroErrorTag    ErrorTag = "DivisionByZero"
	TypeErrorTag              ErrorTag = "TypeError"
	NestingTooDeepErrorTag    ErrorTag = "NestingTooDeep"
)

var knownErrorTags = []ErrorTag{
	UnrecognizedTokenErrorTag,
	UnbalancedParensErrorTag,
	MissingOperandErrorTag,
	TrailingTokensErrorTag,
	DivisionByZeroErrorTag,
	TypeErrorTag,
	NestingTooDeepErrorTag,
}

// ParseErrorTag resolves a tag name such as "DivisionByZero".
func ParseErrorTag(s string) (ErrorTag, error) {
	tag, ok := lo.Find(knownErrorTags, func(tag ErrorTag) bool {
		return string(tag) == s
	})
	if !ok {
		return "", fmt.Errorf("unknown error tag: %q", s)
	}
	return tag, nil
}

type Exception interface {
	error
	Exception() any
}

type Error struct {
	Tag   ErrorTag
	Err   error
	Extra map[string]any
}

var _ Exception = (*Error)(nil)

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Tag)
	}

	var b strings.Builder
	b.WriteString(string(e.Tag))
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same tag.
// It allows errors.Is(err, &types.Error{Tag: types.DivisionByZeroErrorTag}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Tag == e.Tag
}

func (e *Error) Exception() any {
	tags := []any{}
	for err := error(e); err != nil; err = errors.Unwrap(err) {
		if e, ok := err.(*Error); ok {
			tags = append(tags, e.Tag)
		}
	}

	o := map[string]any{
		"tags": tags,
	}
	if e.Err != nil {
		o["message"] = e.Err.Error()
	}
	if len(e.Extra) != 0 {
		o = lo.Assign(o, e.Extra)
	}
	return o
}

// TagOf returns the tag of the outermost *Error in err's chain.
func TagOf(err error) (ErrorTag, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Tag, true
	}
	return "", false
}
