package grid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Section 1: Construction
// ============================================================================

func TestGridCreation(t *testing.T) {
	t.Run("ExplicitResolutions", func(t *testing.T) {
		g, err := New(2.0, 1.0, 0.5, 8, 4, 2)
		require.NoError(t, err)

		assert.Equal(t, 8, g.ResX)
		assert.Equal(t, 4, g.ResY)
		assert.Equal(t, 2, g.ResZ)
		assert.Equal(t, 0.25, g.Dx)
		assert.Equal(t, 0.25, g.Dy)
		assert.Equal(t, 0.25, g.Dz)
		assert.Equal(t, 64, g.NumVertices())
	})

	t.Run("LongestAxisResolution", func(t *testing.T) {
		// Per-axis counts follow the aspect ratio of the sizes.
		g, err := New(2.0, 1.0, 1.0, 8)
		require.NoError(t, err)

		assert.Equal(t, 8, g.ResX)
		assert.Equal(t, 4, g.ResY)
		assert.Equal(t, 4, g.ResZ)
	})

	t.Run("LongestAxisCube", func(t *testing.T) {
		g, err := New(1.0, 1.0, 1.0, 8)
		require.NoError(t, err)

		assert.Equal(t, 8, g.ResX)
		assert.Equal(t, 8, g.ResY)
		assert.Equal(t, 8, g.ResZ)
	})

	t.Run("VertexCoordinates", func(t *testing.T) {
		g, err := New(1.0, 2.0, 3.0, 4, 4, 4)
		require.NoError(t, err)

		id := g.Index(1, 2, 3)
		assert.Equal(t, 1*g.Dx, g.Px[id])
		assert.Equal(t, 2*g.Dy, g.Py[id])
		assert.Equal(t, 3*g.Dz, g.Pz[id])
	})
}

func TestGridCreationFailures(t *testing.T) {
	cases := []struct {
		name  string
		sizes [3]float64
		res   []int
	}{
		{"ZeroSize", [3]float64{0, 1, 1}, []int{4, 4, 4}},
		{"NegativeSize", [3]float64{1, -1, 1}, []int{4, 4, 4}},
		{"ZeroResolution", [3]float64{1, 1, 1}, []int{4, 0, 4}},
		{"NegativeResolution", [3]float64{1, 1, 1}, []int{-4}},
		{"NoResolutions", [3]float64{1, 1, 1}, []int{}},
		{"TwoResolutions", [3]float64{1, 1, 1}, []int{4, 4}},
		{"FourResolutions", [3]float64{1, 1, 1}, []int{4, 4, 4, 4}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.sizes[0], tc.sizes[1], tc.sizes[2], tc.res...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidArgument))
		})
	}
}

// ============================================================================
// Section 2: Indexing and validation
// ============================================================================

func TestWrap(t *testing.T) {
	assert.Equal(t, 0, Wrap(0, 4))
	assert.Equal(t, 3, Wrap(3, 4))
	assert.Equal(t, 0, Wrap(4, 4))
	assert.Equal(t, 1, Wrap(9, 4))
	assert.Equal(t, 3, Wrap(-1, 4))
	assert.Equal(t, 2, Wrap(-6, 4))
}

func TestIndexLayout(t *testing.T) {
	g, err := New(1, 1, 1, 2, 3, 4)
	require.NoError(t, err)

	// Row-major: z fastest, then y, then x.
	assert.Equal(t, 0, g.Index(0, 0, 0))
	assert.Equal(t, 1, g.Index(0, 0, 1))
	assert.Equal(t, 4, g.Index(0, 1, 0))
	assert.Equal(t, 12, g.Index(1, 0, 0))
	assert.Equal(t, g.NumVertices()-1, g.Index(1, 2, 3))
}

func TestShapeValidation(t *testing.T) {
	g, err := New(1, 1, 1, 4, 4, 4)
	require.NoError(t, err)

	assert.NoError(t, g.CheckScalar("f", make([]float64, 64)))

	err = g.CheckScalar("f", make([]float64, 63))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShapeMismatch))

	err = g.CheckComplex("F", make([]complex128, 65))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShapeMismatch))
}
