package tenant_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocklane/api/pkg/domain/shared"
	"github.com/stocklane/api/pkg/domain/tenant"
)

func TestNewTenant(t *testing.T) {
	companyID := shared.NewID()

	t.Run("creates a tenant", func(t *testing.T) {
		tn, err := tenant.NewTenant(companyID, "Main Warehouse", "main-warehouse")
		require.NoError(t, err)

		assert.False(t, tn.ID().IsZero())
		assert.Equal(t, "Main Warehouse", tn.Name())
		assert.Equal(t, "main-warehouse", tn.Code())
		assert.True(t, tn.BelongsToCompany(companyID))
	})

	t.Run("requires a company", func(t *testing.T) {
		_, err := tenant.NewTenant(shared.ID{}, "Main Warehouse", "main-warehouse")
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})

	t.Run("requires a name", func(t *testing.T) {
		_, err := tenant.NewTenant(companyID, "", "main-warehouse")
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})

	t.Run("rejects invalid codes", func(t *testing.T) {
		for _, code := range []string{"", "a", "-starts-with-hyphen", "ends-with-hyphen-", "has spaces", "UPPER"} {
			_, err := tenant.NewTenant(companyID, "Main Warehouse", code)
			assert.True(t, errors.Is(err, shared.ErrValidation), "code %q should be rejected", code)
		}
	})
}

func TestTenant_Update(t *testing.T) {
	companyID := shared.NewID()

	t.Run("update name", func(t *testing.T) {
		tn, err := tenant.NewTenant(companyID, "Main", "main")
		require.NoError(t, err)

		require.NoError(t, tn.UpdateName("North Hub"))
		assert.Equal(t, "North Hub", tn.Name())

		err = tn.UpdateName("")
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})

	t.Run("update code validates format", func(t *testing.T) {
		tn, err := tenant.NewTenant(companyID, "Main", "main")
		require.NoError(t, err)

		require.NoError(t, tn.UpdateCode("north-hub"))
		assert.Equal(t, "north-hub", tn.Code())

		err = tn.UpdateCode("Not Valid")
		assert.True(t, errors.Is(err, shared.ErrValidation))
		assert.Equal(t, "north-hub", tn.Code())
	})
}

func TestBelongsToCompany(t *testing.T) {
	companyID := shared.NewID()
	tn, err := tenant.NewTenant(companyID, "Main", "main")
	require.NoError(t, err)

	assert.True(t, tn.BelongsToCompany(companyID))
	assert.False(t, tn.BelongsToCompany(shared.NewID()))
}

func TestGenerateCode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases and hyphenates", "Main Warehouse", "main-warehouse"},
		{"collapses punctuation", "North / East  Hub!", "north-east-hub"},
		{"trims leading and trailing hyphens", "--Main--", "main"},
		{"keeps digits", "Dock 42", "dock-42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tenant.GenerateCode(tt.in)
			assert.Equal(t, tt.want, got)
			assert.True(t, tenant.IsValidCode(got))
		})
	}
}
