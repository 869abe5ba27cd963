package kernel_test

import (
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint_ValidCoordinates(t *testing.T) {
	p, err := kernel.NewGeoPoint(41.0082, 28.9784)
	require.NoError(t, err)
	assert.InDelta(t, 41.0082, p.Lat(), 1e-9)
	assert.InDelta(t, 28.9784, p.Lng(), 1e-9)
	require.NoError(t, p.Validate())
}

func TestNewGeoPoint_Bounds(t *testing.T) {
	edges := [][2]float64{
		{-90, -180},
		{90, 180},
		{0, 0},
	}
	for _, e := range edges {
		_, err := kernel.NewGeoPoint(e[0], e[1])
		require.NoError(t, err)
	}
}

func TestNewGeoPoint_LatitudeOutOfRange(t *testing.T) {
	_, err := kernel.NewGeoPoint(90.5, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = kernel.NewGeoPoint(-91, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestNewGeoPoint_LongitudeOutOfRange(t *testing.T) {
	_, err := kernel.NewGeoPoint(0, 180.1)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = kernel.NewGeoPoint(0, -200)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestGeoPoint_IsEqual(t *testing.T) {
	a, err := kernel.NewGeoPoint(10, 20)
	require.NoError(t, err)
	b, err := kernel.NewGeoPoint(10, 20)
	require.NoError(t, err)
	c, err := kernel.NewGeoPoint(10, 21)
	require.NoError(t, err)

	assert.True(t, a.IsEqual(b))
	assert.False(t, a.IsEqual(c))
}

func TestGeoPoint_ZeroValueFailsValidation(t *testing.T) {
	var p kernel.GeoPoint
	require.Error(t, p.Validate())
}
