package expression

import (
	"strconv"
	"strings"

	"github.com/samber/lo"
)

type Token interface {
	BeginsPos() int
	EndsPos() int
	String() string
}

type rangeToken struct {
	beginsPos, endsPos int
}

func (t rangeToken) BeginsPos() int {
	return t.beginsPos
}

func (t rangeToken) EndsPos() int {
	return t.endsPos
}

type NumberToken struct {
	rangeToken
	Value   float64
	literal string
}

func (t NumberToken) String() string {
	if t.literal != "" {
		return t.literal
	}
	return strconv.FormatFloat(t.Value, 'f', -1, 64)
}

type BoolToken struct {
	rangeToken
	Value bool
}

func (t BoolToken) String() string {
	if t.Value {
		return "T"
	}
	return "F"
}

type OperatorToken struct {
	rangeToken
	Operator Operator
}

func (t OperatorToken) String() string {
	return t.Operator.String()
}

type LParenToken struct {
	rangeToken
}

func (LParenToken) String() string {
	return "("
}

type RParenToken struct {
	rangeToken
}

func (RParenToken) String() string {
	return ")"
}

// Render serializes tokens back into source text, one space between tokens.
func Render(tokens []Token) string {
	return strings.Join(lo.Map(tokens, func(t Token, _ int) string {
		return t.String()
	}), " ")
}

// tokenDomain reports which domain a token belongs to. Parentheses belong to
// both and report ok=false.
func tokenDomain(t Token) (d Domain, ok bool) {
	switch tok := t.(type) {
	case NumberToken:
		return Numerical, true
	case BoolToken:
		return Logical, true
	case OperatorToken:
		return tok.Operator.Domain(), true
	default:
		return 0, false
	}
}
