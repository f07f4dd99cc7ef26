package expression

import (
	"fmt"
	"math"

	"github.com/karupanerura/expression-evaluator/internal/types"
)

// Node is a node of an expression tree. Every node exclusively owns its
// children.
type Node interface {
	execute() (Value, error)
	String() string
}

type leafNode struct {
	value Value
}

// Leaf returns a terminal node holding v.
func Leaf(v Value) Node {
	return &leafNode{value: v}
}

func (n *leafNode) execute() (Value, error) {
	return n.value, nil
}

func (n *leafNode) String() string {
	switch v := n.value.(type) {
	case Bool:
		return BoolToken{Value: bool(v)}.String()
	case Number:
		return NumberToken{Value: float64(v)}.String()
	default:
		return fmt.Sprint(v)
	}
}

type binaryNode struct {
	operator Operator
	left     Node
	right    Node
}

// Binary returns a node applying op to left and right.
func Binary(op Operator, left, right Node) Node {
	return &binaryNode{operator: op, left: left, right: right}
}

func (n *binaryNode) String() string {
	return "(" + n.left.String() + " " + n.operator.String() + " " + n.right.String() + ")"
}

func (n *binaryNode) execute() (Value, error) {
	left, err := n.left.execute()
	if err != nil {
		return nil, err
	}
	right, err := n.right.execute()
	if err != nil {
		return nil, err
	}

	switch lhs := left.(type) {
	case Number:
		rhs, ok := right.(Number)
		if !ok {
			return nil, newOperandTypeError(n.operator, left, right)
		}
		return applyNumeric(n.operator, lhs, rhs)

	case Bool:
		rhs, ok := right.(Bool)
		if !ok {
			return nil, newOperandTypeError(n.operator, left, right)
		}
		return applyLogical(n.operator, lhs, rhs)

	default:
		return nil, newOperandTypeError(n.operator, left, right)
	}
}

func applyNumeric(op Operator, lhs, rhs Number) (Value, error) {
	switch op {
	case Add:
		return lhs + rhs, nil
	case Sub:
		return lhs - rhs, nil
	case Mul:
		return lhs * rhs, nil
	case Div:
		if rhs == 0 {
			return nil, &types.Error{
				Tag: types.DivisionByZeroErrorTag,
				Err: fmt.Errorf("%v / %v", lhs, rhs),
			}
		}
		return lhs / rhs, nil
	case Pow:
		return Number(math.Pow(float64(lhs), float64(rhs))), nil
	default:
		return nil, newOperandTypeError(op, lhs, rhs)
	}
}

func applyLogical(op Operator, lhs, rhs Bool) (Value, error) {
	switch op {
	case And:
		return lhs && rhs, nil
	case Or:
		return lhs || rhs, nil
	case Implies:
		return !lhs || rhs, nil
	case ConverseImplies:
		return lhs || !rhs, nil
	case Equiv:
		return Bool(lhs == rhs), nil
	default:
		return nil, newOperandTypeError(op, lhs, rhs)
	}
}

func newOperandTypeError(op Operator, left, right Value) error {
	return &types.Error{
		Tag: types.TypeErrorTag,
		Err: fmt.Errorf("invalid operator %q for left=%T right=%T", op, left, right),
	}
}
