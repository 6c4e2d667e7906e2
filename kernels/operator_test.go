package kernels

import (
	"math/rand"
	"testing"

	"github.com/notargets/DECGrid/dec"
	"github.com/notargets/DECGrid/grid"
	"github.com/notargets/DECGrid/spectral"
	"github.com/notargets/DECGrid/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Test helpers
// ============================================================================

func testGrid(t *testing.T) *grid.Grid {
	t.Helper()
	g, err := grid.New(1.0, 1.5, 0.75, 8, 6, 4)
	require.NoError(t, err)
	return g
}

func randomOneForm(g *grid.Grid, seed int64) dec.OneForm {
	rng := rand.New(rand.NewSource(seed))
	v := dec.NewOneForm(g)
	for id := range v.X {
		v.X[id] = rng.Float64()*2 - 1
		v.Y[id] = rng.Float64()*2 - 1
		v.Z[id] = rng.Float64()*2 - 1
	}
	return v
}

func randomSpectrum(g *grid.Grid, seed int64) []complex128 {
	rng := rand.New(rand.NewSource(seed))
	spec := make([]complex128, g.NumVertices())
	for id := range spec {
		spec[id] = complex(rng.Float64()*2-1, rng.Float64()*2-1)
	}
	return spec
}

// ============================================================================
// Section 1: Kernel vs. sequential reference equivalence
// ============================================================================

// The per-cell kernels share the sequential operators' wraparound
// arithmetic, so host and device results agree to round-off.
func TestKernelDivMatchesReference(t *testing.T) {
	device := utils.CreateTestDevice()
	defer device.Free()

	g := testGrid(t)
	op, err := NewOperator(device, g)
	require.NoError(t, err)
	defer op.Free()

	v := randomOneForm(g, 40)
	want, err := dec.Div(g, v)
	require.NoError(t, err)

	got, err := op.Div(v)
	require.NoError(t, err)

	require.Len(t, got, len(want))
	for id := range want {
		assert.InDelta(t, want[id], got[id], 1e-12)
	}
}

func TestKernelStaggeredSharpMatchesReference(t *testing.T) {
	device := utils.CreateTestDevice()
	defer device.Free()

	g := testGrid(t)
	op, err := NewOperator(device, g)
	require.NoError(t, err)
	defer op.Free()

	t.Run("OutOfPlace", func(t *testing.T) {
		v := randomOneForm(g, 41)
		want, err := dec.StaggeredSharp(g, v)
		require.NoError(t, err)

		got, err := op.StaggeredSharp(v)
		require.NoError(t, err)

		for id := range want.X {
			assert.InDelta(t, want.X[id], got.X[id], 1e-12)
			assert.InDelta(t, want.Y[id], got.Y[id], 1e-12)
			assert.InDelta(t, want.Z[id], got.Z[id], 1e-12)
		}
	})

	t.Run("InPlace", func(t *testing.T) {
		v := randomOneForm(g, 42)
		ref := dec.OneForm{
			X: append([]float64(nil), v.X...),
			Y: append([]float64(nil), v.Y...),
			Z: append([]float64(nil), v.Z...),
		}
		require.NoError(t, dec.StaggeredSharpInPlace(g, ref))

		require.NoError(t, op.StaggeredSharpInPlace(v))
		for id := range v.X {
			assert.InDelta(t, ref.X[id], v.X[id], 1e-12)
			assert.InDelta(t, ref.Y[id], v.Y[id], 1e-12)
			assert.InDelta(t, ref.Z[id], v.Z[id], 1e-12)
		}
	})
}

func TestKernelApplySymbol(t *testing.T) {
	device := utils.CreateTestDevice()
	defer device.Free()

	g := testGrid(t)
	op, err := NewOperator(device, g)
	require.NoError(t, err)
	defer op.Free()

	spec := randomSpectrum(g, 43)
	fac := spectral.ScaleFactors(g)

	want := make([]complex128, len(spec))
	for id := range spec {
		want[id] = spec[id] * complex(fac[id], 0)
	}

	require.NoError(t, op.ApplySymbol(spec, fac))
	for id := range want {
		assert.InDelta(t, real(want[id]), real(spec[id]), 1e-12)
		assert.InDelta(t, imag(want[id]), imag(spec[id]), 1e-12)
	}
}

func TestKernelComplexMultiply(t *testing.T) {
	device := utils.CreateTestDevice()
	defer device.Free()

	g := testGrid(t)
	op, err := NewOperator(device, g)
	require.NoError(t, err)
	defer op.Free()

	a := randomSpectrum(g, 44)
	b := randomSpectrum(g, 45)

	want := make([]complex128, len(a))
	for id := range a {
		want[id] = a[id] * b[id]
	}

	require.NoError(t, op.ComplexMultiply(a, b))
	for id := range want {
		assert.InDelta(t, real(want[id]), real(a[id]), 1e-12)
		assert.InDelta(t, imag(want[id]), imag(a[id]), 1e-12)
	}
}

// ============================================================================
// Section 2: Device-assisted spectral solve
// ============================================================================

// Running the solver's pointwise scaling step through the device kernel
// reproduces the all-host solve: the two execution strategies compose.
func TestDeviceAssistedPoissonSolve(t *testing.T) {
	device := utils.CreateTestDevice()
	defer device.Free()

	g, err := grid.New(1, 1, 1, 8, 8, 8)
	require.NoError(t, err)
	op, err := NewOperator(device, g)
	require.NoError(t, err)
	defer op.Free()

	rng := rand.New(rand.NewSource(46))
	f := make([]float64, g.NumVertices())
	mean := 0.0
	for id := range f {
		f[id] = rng.Float64()*2 - 1
		mean += f[id]
	}
	mean /= float64(len(f))
	for id := range f {
		f[id] -= mean
	}

	solver, err := spectral.NewPoissonSolver(g, nil)
	require.NoError(t, err)
	want, err := solver.Solve(f)
	require.NoError(t, err)

	// Same pipeline, with the fac multiply dispatched per cell.
	tr := spectral.NewFourierTransform(g)
	spec := make([]complex128, len(f))
	for id, x := range f {
		spec[id] = complex(x, 0)
	}
	tr.Forward(spec, spec)
	require.NoError(t, op.ApplySymbol(spec, spectral.ScaleFactors(g)))
	tr.Inverse(spec, spec)

	for id := range want {
		assert.InDelta(t, want[id], real(spec[id]), 1e-12)
	}
}

// ============================================================================
// Section 3: Validation
// ============================================================================

func TestKernelShapeMismatch(t *testing.T) {
	device := utils.CreateTestDevice()
	defer device.Free()

	g := testGrid(t)
	op, err := NewOperator(device, g)
	require.NoError(t, err)
	defer op.Free()

	short := make([]float64, g.NumVertices()-1)
	good := make([]float64, g.NumVertices())

	_, err = op.Div(dec.OneForm{X: short, Y: good, Z: good})
	assert.ErrorIs(t, err, grid.ErrShapeMismatch)

	err = op.ApplySymbol(make([]complex128, g.NumVertices()), short)
	assert.ErrorIs(t, err, grid.ErrShapeMismatch)

	err = op.ComplexMultiply(make([]complex128, 1), make([]complex128, g.NumVertices()))
	assert.ErrorIs(t, err, grid.ErrShapeMismatch)
}
