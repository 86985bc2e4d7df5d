package inv

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/roach88/invgen/internal/proglang"
)

// DefaultMinTriples is the default number of modified samples a fixed
// plane needs before LinearTernary is justified.
const DefaultMinTriples = 5

// LinearTernary states that three integral scalars lie on one plane:
// a*x + b*y + c*z + d == 0. Coefficients are exact integers with gcd 1 and
// a positive leading coefficient.
type LinearTernary struct {
	base
	minTriples int

	// points holds distinct observations until three non-collinear ones
	// fix the plane.
	points [][3]int64

	// coef is a, b, c, d; nil until the plane is fixed.
	coef []*big.Int
}

// Kind implements Invariant.
func (*LinearTernary) Kind() Kind { return KindLinearTernary }

// Fixed reports whether three non-collinear points have fixed the plane.
func (l *LinearTernary) Fixed() bool { return l.coef != nil }

// Coefficients returns copies of a, b, c and d. ok is false until the plane
// is fixed.
func (l *LinearTernary) Coefficients() (a, b, c, d *big.Int, ok bool) {
	if l.coef == nil {
		return nil, nil, nil, nil, false
	}
	cp := func(i int) *big.Int { return new(big.Int).Set(l.coef[i]) }
	return cp(0), cp(1), cp(2), cp(3), true
}

// AddSample implements Invariant. Collinear points before the plane is
// fixed are absorbed; once fixed, any point off the plane falsifies.
func (l *LinearTernary) AddSample(values []proglang.Value, count int) {
	x, xok := values[0].(proglang.Int)
	y, yok := values[1].(proglang.Int)
	z, zok := values[2].(proglang.Int)
	if !xok || !yok || !zok || !l.begin(count) {
		return
	}
	p := [3]int64{int64(x), int64(y), int64(z)}

	if l.coef != nil {
		if !l.onPlane(p) {
			l.falsify()
		}
		return
	}
	for _, q := range l.points {
		if q == p {
			return
		}
	}
	if len(l.points) < 2 {
		l.points = append(l.points, p)
		return
	}
	n := normal(l.points[0], l.points[1], p)
	if n[0].Sign() == 0 && n[1].Sign() == 0 && n[2].Sign() == 0 {
		return
	}
	l.coef = plane(n, l.points[0])
	l.points = nil
}

// normal is (p1-p0) x (p2-p0); zero when the points are collinear.
func normal(p0, p1, p2 [3]int64) [3]*big.Int {
	var u, v [3]*big.Int
	for i := range 3 {
		u[i] = new(big.Int).Sub(big.NewInt(p1[i]), big.NewInt(p0[i]))
		v[i] = new(big.Int).Sub(big.NewInt(p2[i]), big.NewInt(p0[i]))
	}
	cross := func(i, j int) *big.Int {
		l := new(big.Int).Mul(u[i], v[j])
		return l.Sub(l, new(big.Int).Mul(u[j], v[i]))
	}
	return [3]*big.Int{cross(1, 2), cross(2, 0), cross(0, 1)}
}

// plane returns the normalized coefficients of the plane with normal n
// through p.
func plane(n [3]*big.Int, p [3]int64) []*big.Int {
	d := new(big.Int)
	for i := range 3 {
		d.Sub(d, new(big.Int).Mul(n[i], big.NewInt(p[i])))
	}
	coef := []*big.Int{n[0], n[1], n[2], d}

	g := new(big.Int)
	for _, c := range coef {
		g.GCD(nil, nil, g, new(big.Int).Abs(c))
	}
	negate := false
	for _, c := range coef[:3] {
		if c.Sign() != 0 {
			negate = c.Sign() < 0
			break
		}
	}
	for _, c := range coef {
		c.Quo(c, g)
		if negate {
			c.Neg(c)
		}
	}
	return coef
}

func (l *LinearTernary) onPlane(p [3]int64) bool {
	sum := new(big.Int).Set(l.coef[3])
	for i := range 3 {
		sum.Add(sum, new(big.Int).Mul(l.coef[i], big.NewInt(p[i])))
	}
	return sum.Sign() == 0
}

// JustifiedProbability implements Invariant. The relation is exact: it is
// justified once the plane is fixed and enough modified samples confirm it.
func (l *LinearTernary) JustifiedProbability() float64 {
	return l.probability(func() float64 {
		if l.coef != nil && l.modified >= l.minTriples {
			return ProbabilityJustified
		}
		return ProbabilityUnjustified
	})
}

// Justified implements Invariant.
func (l *LinearTernary) Justified(limit float64) bool {
	return l.JustifiedProbability() <= limit
}

// Format implements Invariant. When the last variable with a non-zero
// coefficient has coefficient +-1 the relation is solved for it
// ("z == 2 * x - y + 3"); otherwise the implicit form is used
// ("2 * x + 3 * y - 4 * z + 1 == 0").
func (l *LinearTernary) Format() string {
	if l.coef == nil {
		return ""
	}
	names := make([]string, 3)
	for i, v := range l.slice.Vars {
		names[i] = v.Name
	}

	last := 2
	for last > 0 && l.coef[last].Sign() == 0 {
		last--
	}
	if l.coef[last].CmpAbs(big.NewInt(1)) == 0 {
		// v_last == -(sum of other terms + d) / c_last, and 1/c_last == c_last.
		s := l.coef[last]
		scale := func(c *big.Int) *big.Int {
			r := new(big.Int).Mul(c, s)
			return r.Neg(r)
		}
		var coefs []*big.Int
		var others []string
		for i := range 3 {
			if i == last {
				continue
			}
			coefs = append(coefs, scale(l.coef[i]))
			others = append(others, names[i])
		}
		return names[last] + " == " + formatLinear(coefs, others, scale(l.coef[3]))
	}
	return formatLinear(l.coef[:3], names, l.coef[3]) + " == 0"
}

// formatLinear renders sum(coefs[i] * names[i]) + constant, omitting zero
// terms and unit coefficients.
func formatLinear(coefs []*big.Int, names []string, constant *big.Int) string {
	var b strings.Builder
	first := true
	term := func(c *big.Int, name string) {
		neg := c.Sign() < 0
		switch {
		case first && neg:
			b.WriteString("-")
		case !first && neg:
			b.WriteString(" - ")
		case !first:
			b.WriteString(" + ")
		}
		first = false
		abs := new(big.Int).Abs(c)
		switch {
		case name == "":
			b.WriteString(abs.String())
		case abs.IsInt64() && abs.Int64() == 1:
			b.WriteString(name)
		default:
			b.WriteString(abs.String() + " * " + name)
		}
	}
	for i, c := range coefs {
		if c.Sign() != 0 {
			term(c, names[i])
		}
	}
	if constant.Sign() != 0 || first {
		term(constant, "")
	}
	return b.String()
}

// Repr implements Invariant.
func (l *LinearTernary) Repr() string {
	if l.coef == nil {
		return fmt.Sprintf("LinearTernary%s: state=%s; points=%d",
			l.slice.VarNames(), l.state, len(l.points))
	}
	return fmt.Sprintf("LinearTernary%s: state=%s; a=%s, b=%s, c=%s, d=%s",
		l.slice.VarNames(), l.state, l.coef[0], l.coef[1], l.coef[2], l.coef[3])
}

// IsSameFormula reports whether both planes are fixed and identical.
func (l *LinearTernary) IsSameFormula(other Invariant) bool {
	m, ok := other.(*LinearTernary)
	if !ok || l.coef == nil || m.coef == nil {
		return false
	}
	for i := range l.coef {
		if l.coef[i].Cmp(m.coef[i]) != 0 {
			return false
		}
	}
	return true
}

// IsExclusiveFormula reports whether both planes are fixed and parallel
// but distinct.
func (l *LinearTernary) IsExclusiveFormula(other Invariant) bool {
	m, ok := other.(*LinearTernary)
	if !ok || l.coef == nil || m.coef == nil {
		return false
	}
	for i := range 3 {
		if l.coef[i].Cmp(m.coef[i]) != 0 {
			return false
		}
	}
	return l.coef[3].Cmp(m.coef[3]) != 0
}
