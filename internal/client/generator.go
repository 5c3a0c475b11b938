package client

import (
	"math"
	"math/rand/v2"
)

// Generator produces synthetic clients around population means, varying the
// features that move the models most.
type Generator struct {
	means map[string]float64
	rng   *rand.Rand
}

// NewGenerator creates a Generator. means maps feature name to population mean.
func NewGenerator(means map[string]float64, seed uint64) *Generator {
	return &Generator{means: means, rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Client returns one synthetic client.
func (g *Generator) Client() map[string]any {
	c := make(map[string]any, len(g.means)+6)
	for k, v := range g.means {
		c[k] = v
	}

	income := g.intn(60000, 250000)
	debt := g.intn(0, int(float64(income)*g.uniform(0.5, 8)))
	savings := g.intn(0, int(float64(income)*g.uniform(0.7, 6)))
	expenditure := g.intn(5000, income)

	c["INCOME"] = income
	c["DEBT"] = debt
	c["SAVINGS"] = savings
	c["R_DEBT_INCOME"] = round3(float64(debt) / float64(income+1))
	c["R_SAVINGS_INCOME"] = round3(float64(savings) / float64(income+1))
	c["R_EXPENDITURE"] = round3(g.uniform(0.3, 0.8))
	c["R_GROCERIES"] = round3(g.uniform(0.1, 0.8))
	c["R_HOUSING"] = round3(g.uniform(0.05, 0.8))
	c["R_GAMBLING"] = round3(g.uniform(0, 0.8))
	c["T_EXPENDITURE_12"] = expenditure
	c["T_GROCERIES_12"] = g.intn(1000, expenditure)
	if income < 70000 {
		c["T_HOUSING_12"] = 0
	} else {
		c["T_HOUSING_12"] = g.intn(0, int(float64(income)*0.3))
	}

	for _, name := range []string{"CAT_DEBT", "CAT_CREDIT_CARD", "CAT_MORTGAGE", "CAT_SAVINGS_ACCOUNT"} {
		c[name] = g.rng.IntN(2)
	}
	c["CAT_DEPENDENTS"] = g.rng.IntN(3)
	if _, ok := g.means["CAT_GAMBLING_ENCODED"]; ok {
		c["CAT_GAMBLING_ENCODED"] = g.rng.IntN(3)
	}
	return c
}

// Clients returns n synthetic clients.
func (g *Generator) Clients(n int) []map[string]any {
	out := make([]map[string]any, n)
	for i := range out {
		out[i] = g.Client()
	}
	return out
}

// intn returns a uniform integer in [lo, hi]; hi below lo yields lo.
func (g *Generator) intn(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.rng.IntN(hi-lo+1)
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
