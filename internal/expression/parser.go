package expression

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/k0kubun/pp"
	"github.com/karupanerura/expression-evaluator/internal/types"
)

var parserDebugLog = false

// maxNestingDepth bounds the recursion of constructAST, counting both
// parentheses and chains of right-associative operators.
const maxNestingDepth = 1000

func init() {
	if v, err := strconv.ParseBool(os.Getenv("EXPRESSION_EVALUATOR_DEBUG")); v && err == nil {
		parserDebugLog = true
	}
}

type tokenStream struct {
	tokens []Token
	index  int
}

func (s *tokenStream) isCompleted() bool {
	return s.index == len(s.tokens)
}

func (s *tokenStream) consume() (Token, error) {
	if s.isCompleted() {
		return nil, io.EOF
	}
	tok := s.tokens[s.index]
	s.index++
	return tok, nil
}

// push unreads the last consumed token.
func (s *tokenStream) push() {
	if s.index == 0 {
		panic("should not reach here: nothing to push back")
	}
	s.index--
}

// endPos is the position just after the last token.
func (s *tokenStream) endPos() int {
	if len(s.tokens) == 0 {
		return 0
	}
	return s.tokens[len(s.tokens)-1].EndsPos()
}

type parser struct {
	stream   *tokenStream
	depth    int
	debug    bool
	debugOut io.Writer
}

// Parse builds an expression tree from tokens produced by Tokenize.
func Parse(tokens []Token) (Node, error) {
	p := &parser{stream: &tokenStream{tokens: tokens}, debug: parserDebugLog, debugOut: os.Stderr}
	return p.parse()
}

func parseWithDebugOutput(tokens []Token) (Node, error) {
	p := &parser{stream: &tokenStream{tokens: tokens}, debug: true, debugOut: os.Stderr}
	return p.parse()
}

func (p *parser) parse() (Node, error) {
	if err := p.checkDomain(); err != nil {
		return nil, err
	}
	if p.debug {
		log.Println("tokens: ", Render(p.stream.tokens))
	}

	node, err := p.constructAST(1)
	if err != nil {
		return nil, err
	}
	if !p.stream.isCompleted() {
		tok, _ := p.stream.consume()
		if p.debug {
			log.Println("not consumed token: ", tok)
		}
		if _, isRParen := tok.(RParenToken); isRParen {
			return nil, newUnbalancedParensError("unexpected ) at %d", tok.BeginsPos())
		}
		return nil, newTrailingTokensError(tok)
	}

	if p.debug {
		pp.Fprintln(p.debugOut, node)
		log.Println(node.String())
	}
	return node, nil
}

// checkDomain rejects token sequences whose literals and operators do not all
// belong to the same domain.
func (p *parser) checkDomain() error {
	var domain Domain
	for _, tok := range p.stream.tokens {
		d, ok := tokenDomain(tok)
		if !ok {
			continue
		}
		if domain == 0 {
			domain = d
		} else if d != domain {
			return &types.Error{
				Tag: types.TypeErrorTag,
				Err: fmt.Errorf("%s token %s at %d in %s expression", d, tok, tok.BeginsPos(), domain),
			}
		}
	}
	return nil
}

// constructAST parses operators whose precedence is at least minBP.
func (p *parser) constructAST(minBP uint8) (Node, error) {
	if p.depth == maxNestingDepth {
		tok, err := p.stream.consume()
		if errors.Is(err, io.EOF) {
			return nil, newMissingOperandError("end of expression", p.stream.endPos())
		}
		return nil, newNestingTooDeepError(tok)
	}
	p.depth++
	defer func() { p.depth-- }()

	left, err := p.constructAtom()
	if err != nil {
		return nil, err
	}

	for {
		tok, err := p.stream.consume()
		if errors.Is(err, io.EOF) {
			return left, nil
		}

		opTok, isOP := tok.(OperatorToken)
		if !isOP || opTok.Operator.Precedence() < minBP {
			p.stream.push()
			return left, nil
		}
		if p.debug {
			log.Println("OP", minBP, opTok.Operator, left)
		}

		bp := opTok.Operator.Precedence()
		if !opTok.Operator.RightAssociative() {
			bp++
		}
		right, err := p.constructAST(bp)
		if err != nil {
			return nil, err
		}

		left = Binary(opTok.Operator, left, right)
	}
}

// constructAtom parses a literal or a parenthesized sub-expression.
func (p *parser) constructAtom() (Node, error) {
	tok, err := p.stream.consume()
	if errors.Is(err, io.EOF) {
		return nil, newMissingOperandError("end of expression", p.stream.endPos())
	}
	if p.debug {
		log.Println("atom token: ", tok)
	}

	switch t := tok.(type) {
	case NumberToken:
		return Leaf(Number(t.Value)), nil

	case BoolToken:
		return Leaf(Bool(t.Value)), nil

	case LParenToken:
		node, err := p.constructAST(1)
		if err != nil {
			return nil, err
		}

		closeTok, err := p.stream.consume()
		if errors.Is(err, io.EOF) {
			return nil, newUnbalancedParensError("( at %d is not closed", t.BeginsPos())
		}
		if _, isRParen := closeTok.(RParenToken); !isRParen {
			return nil, newTrailingTokensError(closeTok)
		}
		return node, nil

	default:
		return nil, newMissingOperandError(strconv.Quote(tok.String()), tok.BeginsPos())
	}
}
