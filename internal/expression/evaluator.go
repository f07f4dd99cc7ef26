package expression

import "fmt"

// EvaluateTree walks node bottom-up and returns the resulting scalar.
func EvaluateTree(node Node) (Value, error) {
	if node == nil {
		return nil, fmt.Errorf("empty expression is not allowed")
	}
	return node.execute()
}

// Evaluate lexes, parses and evaluates source in the given domain.
func Evaluate(source string, domain Domain) (Value, error) {
	expr, err := ParseExpr(source, domain)
	if err != nil {
		return nil, err
	}
	return expr.Evaluate()
}
