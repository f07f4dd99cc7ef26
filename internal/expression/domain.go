package expression

import "fmt"

// Domain selects the expression language: its token alphabet, operator table
// and value type.
type Domain int

const (
	Numerical Domain = iota + 1
	Logical
)

func ParseDomain(s string) (Domain, error) {
	switch s {
	case "numerical":
		return Numerical, nil
	case "logical":
		return Logical, nil
	default:
		return 0, fmt.Errorf("unsupported expression type: %q", s)
	}
}

func (d Domain) String() string {
	switch d {
	case Numerical:
		return "numerical"
	case Logical:
		return "logical"
	default:
		return fmt.Sprintf("Domain(%d)", int(d))
	}
}

type Operator int

const (
	Add Operator = iota + 1
	Sub
	Mul
	Div
	Pow
	And
	Or
	Implies
	ConverseImplies
	Equiv
)

type associativity int

const (
	leftAssociative associativity = iota
	rightAssociative
)

type operatorInfo struct {
	symbol        byte
	domain        Domain
	precedence    uint8
	associativity associativity
}

var operatorTable = map[Operator]operatorInfo{
	Add: {symbol: '+', domain: Numerical, precedence: 1},
	Sub: {symbol: '-', domain: Numerical, precedence: 1},
	Mul: {symbol: '*', domain: Numerical, precedence: 2},
	Div: {symbol: '/', domain: Numerical, precedence: 2},
	Pow: {symbol: '^', domain: Numerical, precedence: 3, associativity: rightAssociative},

	And:             {symbol: '&', domain: Logical, precedence: 3},
	Or:              {symbol: '|', domain: Logical, precedence: 2},
	Implies:         {symbol: '>', domain: Logical, precedence: 1},
	ConverseImplies: {symbol: '<', domain: Logical, precedence: 1},
	Equiv:           {symbol: '=', domain: Logical, precedence: 1},
}

// operatorsBySymbol is the per-domain operator alphabet used by the lexer.
var operatorsBySymbol = func() map[Domain]map[byte]Operator {
	m := map[Domain]map[byte]Operator{
		Numerical: {},
		Logical:   {},
	}
	for op, info := range operatorTable {
		m[info.domain][info.symbol] = op
	}
	return m
}()

func (o Operator) Domain() Domain {
	return operatorTable[o].domain
}

func (o Operator) Precedence() uint8 {
	return operatorTable[o].precedence
}

func (o Operator) RightAssociative() bool {
	return operatorTable[o].associativity == rightAssociative
}

func (o Operator) String() string {
	info, ok := operatorTable[o]
	if !ok {
		return fmt.Sprintf("Operator(%d)", int(o))
	}
	return string(info.symbol)
}
