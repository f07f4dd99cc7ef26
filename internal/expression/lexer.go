package expression

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"
)

type lexer struct {
	source string
	domain Domain
	index  int
}

func newLexer(source string, domain Domain) *lexer {
	return &lexer{
		source: source,
		domain: domain,
		index:  0,
	}
}

// Tokenize splits source into the tokens of the given domain. An empty or
// blank source yields an empty slice.
func Tokenize(source string, domain Domain) ([]Token, error) {
	if domain != Numerical && domain != Logical {
		return nil, fmt.Errorf("unknown domain: %v", domain)
	}

	lex := newLexer(source, domain)
	tokens := []Token{}
	for {
		tok, err := lex.consume()
		if errors.Is(err, io.EOF) {
			return tokens, nil
		} else if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
}

func (l *lexer) consume() (Token, error) {
	for l.index != len(l.source) {
		c := l.source[l.index]
		switch c {
		case ' ', '\t', '\r', '\n':
			l.index++ // just skip white spaces
			continue
		case '(':
			l.index++
			return LParenToken{rangeToken{beginsPos: l.index - 1, endsPos: l.index}}, nil
		case ')':
			l.index++
			return RParenToken{rangeToken{beginsPos: l.index - 1, endsPos: l.index}}, nil
		}

		if op, ok := operatorsBySymbol[l.domain][c]; ok {
			l.index++
			return OperatorToken{rangeToken{beginsPos: l.index - 1, endsPos: l.index}, op}, nil
		}

		switch l.domain {
		case Numerical:
			if isDigit(c) {
				return l.consumeNumber()
			}
		case Logical:
			switch c {
			case 'T':
				l.index++
				return BoolToken{rangeToken{beginsPos: l.index - 1, endsPos: l.index}, true}, nil
			case 'F':
				l.index++
				return BoolToken{rangeToken{beginsPos: l.index - 1, endsPos: l.index}, false}, nil
			}
		}

		r, _ := utf8.DecodeRuneInString(l.source[l.index:])
		return nil, newUnrecognizedTokenError(r, l.index)
	}
	return nil, io.EOF
}

// consumeNumber scans digits with at most one fractional part. A '.' that is
// not followed by a digit is left for the next call, which rejects it.
func (l *lexer) consumeNumber() (Token, error) {
	begins := l.index
	for l.index != len(l.source) && isDigit(l.source[l.index]) {
		l.index++
	}
	if l.index+1 < len(l.source) && l.source[l.index] == '.' && isDigit(l.source[l.index+1]) {
		l.index++
		for l.index != len(l.source) && isDigit(l.source[l.index]) {
			l.index++
		}
	}

	literal := l.source[begins:l.index]
	v, err := strconv.ParseFloat(literal, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) { // out of range literals become +Inf
		return nil, fmt.Errorf("invalid number %s at %d: %w", literal, begins, err)
	}
	return NumberToken{rangeToken{beginsPos: begins, endsPos: l.index}, v, literal}, nil
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
