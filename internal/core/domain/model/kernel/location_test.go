package kernel_test

import (
	"math"
	"testing"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocation(t *testing.T) {
	t.Run("should accept valid coordinates", func(t *testing.T) {
		loc, err := kernel.NewLocation(41.311081, 69.240562)

		require.NoError(t, err)
		require.NoError(t, loc.Validate())
		assert.InDelta(t, 41.311081, loc.Latitude(), 1e-9)
		assert.InDelta(t, 69.240562, loc.Longitude(), 1e-9)
		assert.Equal(t, "Location(41.311081,69.240562)", loc.String())
	})

	t.Run("should accept boundaries", func(t *testing.T) {
		_, err := kernel.NewLocation(kernel.LatitudeMin, kernel.LongitudeMax)

		require.NoError(t, err)
	})

	testCases := []struct {
		name      string
		lat, lng  float64
		errSubstr string
	}{
		{"latitude too small", -90.0001, 0, "is latitude"},
		{"latitude too large", 91, 0, "is latitude"},
		{"longitude too small", 0, -181, "is longitude"},
		{"longitude too large", 0, 180.5, "is longitude"},
		{"latitude NaN", math.NaN(), 0, "is latitude"},
	}
	for _, tc := range testCases {
		t.Run("should reject "+tc.name, func(t *testing.T) {
			loc, err := kernel.NewLocation(tc.lat, tc.lng)

			require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
			assert.Contains(t, err.Error(), tc.errSubstr)
			assert.Equal(t, kernel.Location{}, loc)
		})
	}
}

func TestLocation_Validate(t *testing.T) {
	var zero kernel.Location

	require.ErrorIs(t, zero.Validate(), kernel.ErrLocationIsNotConstructed)
}

func TestLocation_IsEqual(t *testing.T) {
	a, _ := kernel.NewLocation(10, 20)
	b, _ := kernel.NewLocation(10, 20)
	c, _ := kernel.NewLocation(10, 21)

	eq, err := a.IsEqual(b)
	require.NoError(t, err)
	assert.True(t, eq)

	eq, err = a.IsEqual(c)
	require.NoError(t, err)
	assert.False(t, eq)

	_, err = a.IsEqual(kernel.Location{})
	require.Error(t, err)
}
