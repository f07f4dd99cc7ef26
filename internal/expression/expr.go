package expression

type Expr struct {
	Source string
	Domain Domain
	root   Node
}

func ParseExpr(source string, domain Domain) (*Expr, error) {
	return parseExpr(source, domain, Parse)
}

func ParseExprWithDebugOutput(source string, domain Domain) (*Expr, error) {
	return parseExpr(source, domain, parseWithDebugOutput)
}

func parseExpr(source string, domain Domain, parse func([]Token) (Node, error)) (*Expr, error) {
	tokens, err := Tokenize(source, domain)
	if err != nil {
		return nil, err
	}

	root, err := parse(tokens)
	if err != nil {
		return nil, err
	}

	return &Expr{
		Source: source,
		Domain: domain,
		root:   root,
	}, nil
}

// Tree returns the parsed expression tree.
func (e *Expr) Tree() Node {
	return e.root
}

func (e *Expr) Evaluate() (Value, error) {
	return EvaluateTree(e.root)
}

func (e *Expr) String() string {
	return e.Source
}
