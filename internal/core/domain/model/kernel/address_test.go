package kernel_test

import (
	"strings"
	"testing"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAddress(t *testing.T) {
	district := kernel.NewUUID()

	t.Run("should create address and trim parts", func(t *testing.T) {
		addr, err := kernel.NewAddress(district, "  Old Town ", " 12 Baker St ")

		require.NoError(t, err)
		require.NoError(t, addr.Validate())
		assert.True(t, addr.DistrictID().IsEqual(district))
		assert.Equal(t, "Old Town", addr.Neighborhood())
		assert.Equal(t, "12 Baker St", addr.Street())
	})

	t.Run("should report every missing part", func(t *testing.T) {
		_, err := kernel.NewAddress(kernel.UUID{}, " ", "")

		require.Error(t, err)
		assert.True(t, errs.IsValidation(err))
		assert.Contains(t, err.Error(), "district")
		assert.Contains(t, err.Error(), "neighborhood")
		assert.Contains(t, err.Error(), "street")
	})

	t.Run("should reject overly long street", func(t *testing.T) {
		_, err := kernel.NewAddress(district, "Old Town", strings.Repeat("x", 256))

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestAddress_Validate(t *testing.T) {
	var zero kernel.Address

	require.ErrorIs(t, zero.Validate(), kernel.ErrAddressIsNotConstructed)
}
