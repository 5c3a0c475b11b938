package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFeatureCatalog(t *testing.T) {
	c, err := NewFeatureCatalog(
		[]string{"INCOME", "savings", "DEBT"},
		map[string]float64{"income": 100, "SAVINGS": 50, "DEBT": 25, "UNUSED": 1},
	)
	require.NoError(t, err)

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"INCOME", "SAVINGS", "DEBT"}, c.Names())
	assert.Equal(t, []float64{100, 50, 25}, c.Defaults())

	v, ok := c.Default("Savings")
	require.True(t, ok)
	assert.Equal(t, 50.0, v)

	i, ok := c.Index(" debt ")
	require.True(t, ok)
	assert.Equal(t, 2, i)

	assert.False(t, c.Contains("UNUSED"))
}

func TestNewFeatureCatalogMissingEntry(t *testing.T) {
	_, err := NewFeatureCatalog(
		[]string{"INCOME", "SAVINGS", "DEBT"},
		map[string]float64{"INCOME": 100},
	)
	require.ErrorIs(t, err, ErrMissingCatalogEntry)
	assert.Contains(t, err.Error(), "SAVINGS")
	assert.Contains(t, err.Error(), "DEBT")
}

func TestNewFeatureCatalogRejectsBadNames(t *testing.T) {
	_, err := NewFeatureCatalog([]string{"INCOME", "income"}, map[string]float64{"INCOME": 1})
	assert.Error(t, err)

	_, err = NewFeatureCatalog([]string{" "}, map[string]float64{"": 1})
	assert.Error(t, err)

	_, err = NewFeatureCatalog(nil, nil)
	assert.Error(t, err)
}

func TestFeatureCatalogIsImmutable(t *testing.T) {
	c, err := NewFeatureCatalog([]string{"A", "B"}, map[string]float64{"A": 1, "B": 2})
	require.NoError(t, err)

	names := c.Names()
	names[0] = "Z"
	defaults := c.Defaults()
	defaults[0] = 99

	assert.Equal(t, "A", c.NameAt(0))
	assert.Equal(t, 1.0, c.DefaultAt(0))
}

func TestClientInputCanonicalisesKeys(t *testing.T) {
	in := NewClientInput(map[string]float64{"income": 10, " Debt ": 2})

	v, ok := in.Value("INCOME")
	require.True(t, ok)
	assert.Equal(t, 10.0, v)

	_, ok = in.Value("savings")
	assert.False(t, ok)

	assert.Equal(t, 2, in.Len())
	assert.Equal(t, []string{"DEBT", "INCOME"}, in.Names())
}

func TestNewUser(t *testing.T) {
	u, err := NewUser(" alice ", "$2a$10$hash", "Admin")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "admin", u.Role)

	_, err = NewUser("", "h", "user")
	assert.Error(t, err)
	_, err = NewUser("bob", "", "user")
	assert.Error(t, err)
	_, err = NewUser("bob", "h", "root")
	assert.Error(t, err)
}
