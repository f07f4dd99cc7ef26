package expression

import (
	"math"
	"strconv"

	"github.com/goccy/go-json"
)

// Value is the result of an expression: a Number or a Bool.
type Value interface {
	Domain() Domain
	String() string
}

type Number float64

func (Number) Domain() Domain {
	return Numerical
}

func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'g', -1, 64)
}

// MarshalJSON writes infinities and NaN as the strings "+Inf", "-Inf" and "NaN".
func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return json.Marshal(n.String())
	}
	return json.Marshal(f)
}

type Bool bool

func (Bool) Domain() Domain {
	return Logical
}

func (b Bool) String() string {
	return strconv.FormatBool(bool(b))
}
