package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Client(t *testing.T) {
	means := map[string]float64{"INCOME": 120000, "R_CLOTHING": 0.4, "CAT_GAMBLING_ENCODED": 1.2}
	g := NewGenerator(means, 42)

	for range 200 {
		c := g.Client()

		income := c["INCOME"].(int)
		require.GreaterOrEqual(t, income, 60000)
		require.LessOrEqual(t, income, 250000)

		assert.Equal(t, 0.4, c["R_CLOTHING"])
		assert.Contains(t, []int{0, 1}, c["CAT_DEBT"])
		assert.Contains(t, []int{0, 1, 2}, c["CAT_DEPENDENTS"])
		assert.Contains(t, []int{0, 1, 2}, c["CAT_GAMBLING_ENCODED"])

		exp := c["T_EXPENDITURE_12"].(int)
		assert.LessOrEqual(t, c["T_GROCERIES_12"].(int), exp)
		if income < 70000 {
			assert.Equal(t, 0, c["T_HOUSING_12"])
		}
		ratio := c["R_DEBT_INCOME"].(float64)
		assert.InDelta(t, float64(c["DEBT"].(int))/float64(income+1), ratio, 0.0005)
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	means := map[string]float64{"INCOME": 1}
	a := NewGenerator(means, 7).Clients(5)
	b := NewGenerator(means, 7).Clients(5)
	assert.Equal(t, a, b)
	assert.Len(t, a, 5)
}

func TestGenerator_DoesNotMutateMeans(t *testing.T) {
	means := map[string]float64{"INCOME": 1}
	NewGenerator(means, 1).Client()
	assert.Equal(t, map[string]float64{"INCOME": 1}, means)
}
