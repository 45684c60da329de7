package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankcore/internal/models"
)

func TestRegisterAndLookup(t *testing.T) {
	d, err := New(nil)
	require.NoError(t, err)

	a := models.Account{ID: "1", AccountNumber: "1234567890", Username: "testuser"}
	require.NoError(t, d.Register(a))

	byNumber, ok := d.FindByAccountNumber("1234567890")
	require.True(t, ok)
	assert.Equal(t, a, byNumber)

	byName, ok := d.FindByUsername("testuser")
	require.True(t, ok)
	assert.Equal(t, a, byName)

	_, ok = d.FindByAccountNumber("0000000000")
	assert.False(t, ok)
}

func TestRegisterRejectsDuplicateNumber(t *testing.T) {
	d, err := New([]models.Account{{ID: "1", AccountNumber: "1234567890", Username: "testuser"}})
	require.NoError(t, err)

	err = d.Register(models.Account{ID: "2", AccountNumber: "1234567890", Username: "other"})
	assert.ErrorIs(t, err, ErrDuplicateAccountNumber)

	// First registration still wins the lookup.
	a, ok := d.FindByAccountNumber("1234567890")
	require.True(t, ok)
	assert.Equal(t, "testuser", a.Username)
}

func TestSeedWithDuplicateNumberFails(t *testing.T) {
	_, err := New([]models.Account{
		{ID: "1", AccountNumber: "1234567890", Username: "a"},
		{ID: "2", AccountNumber: "1234567890", Username: "b"},
	})
	assert.ErrorIs(t, err, ErrDuplicateAccountNumber)
}

func TestGenerateAccountNumber(t *testing.T) {
	d, err := New(nil)
	require.NoError(t, err)

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		n := d.GenerateAccountNumber()
		assert.Len(t, n, 10)
		assert.NotEqual(t, byte('0'), n[0])
		seen[n] = struct{}{}
		require.NoError(t, d.Register(models.Account{ID: n, AccountNumber: n}))
	}
	// Registered numbers are never handed out again.
	assert.Len(t, seen, 100)
	next := d.GenerateAccountNumber()
	_, taken := seen[next]
	assert.False(t, taken)
}
