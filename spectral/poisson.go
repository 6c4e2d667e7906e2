package spectral

import (
	"fmt"
	"math"

	"github.com/notargets/DECGrid/grid"
)

// Symbol returns the spectral symbol table of the 7-point periodic
// discrete Laplacian Div∘d0:
//
//	denom[i,j,k] = (sin(π·i/ResX)/Dx)² + (sin(π·j/ResY)/Dy)² + (sin(π·k/ResZ)/Dz)²
//
// The Laplacian eigenvalue at frequency (i,j,k) is −4·denom[i,j,k].
func Symbol(g *grid.Grid) []float64 {
	nx, ny, nz := g.ResX, g.ResY, g.ResZ
	sx := make([]float64, nx)
	sy := make([]float64, ny)
	sz := make([]float64, nz)
	for i := range sx {
		s := math.Sin(math.Pi*float64(i)/float64(nx)) / g.Dx
		sx[i] = s * s
	}
	for j := range sy {
		s := math.Sin(math.Pi*float64(j)/float64(ny)) / g.Dy
		sy[j] = s * s
	}
	for k := range sz {
		s := math.Sin(math.Pi*float64(k)/float64(nz)) / g.Dz
		sz[k] = s * s
	}

	denom := make([]float64, g.NumVertices())
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				denom[g.Index(i, j, k)] = sx[i] + sy[j] + sz[k]
			}
		}
	}
	return denom
}

// ScaleFactors returns the per-frequency inverse of the Laplacian symbol,
// fac = −0.25/denom, with the zero-frequency entry set to zero. That entry
// is the removable singularity of the periodic problem: the solution is
// pinned to zero mean instead of carrying an arbitrary additive constant.
func ScaleFactors(g *grid.Grid) []float64 {
	fac := Symbol(g)
	for id := range fac {
		fac[id] = -0.25 / fac[id]
	}
	fac[0] = 0
	return fac
}

// PoissonSolver inverts the discrete Laplacian Div∘d0 on the torus. The
// scale-factor table is computed once at construction; the solver holds no
// other state and Solve calls are independent.
type PoissonSolver struct {
	g   *grid.Grid
	fft Transform
	fac []float64
}

// NewPoissonSolver builds a solver for the grid. A nil transform selects
// the gonum-backed FourierTransform.
func NewPoissonSolver(g *grid.Grid, t Transform) (*PoissonSolver, error) {
	if g == nil {
		return nil, fmt.Errorf("poisson solver requires a grid: %w", grid.ErrInvalidArgument)
	}
	if t == nil {
		t = NewFourierTransform(g)
	}
	return &PoissonSolver{g: g, fft: t, fac: ScaleFactors(g)}, nil
}

// Solve returns u with Div(d0(u)) == f and mean(u) == 0, up to round-off.
//
// Precondition: f should have zero mean. The periodic problem is only
// solvable for zero-mean right-hand sides; a non-zero mean is not an
// error here — the zero-frequency component is silently projected out —
// so callers needing strict solvability checking must validate
// mean(f) ≈ 0 themselves.
func (s *PoissonSolver) Solve(f []float64) ([]float64, error) {
	if err := s.g.CheckScalar("right-hand side", f); err != nil {
		return nil, err
	}

	spec := make([]complex128, len(f))
	for id, x := range f {
		spec[id] = complex(x, 0)
	}

	s.fft.Forward(spec, spec)
	for id := range spec {
		spec[id] *= complex(s.fac[id], 0)
	}
	s.fft.Inverse(spec, spec)

	// The imaginary residue is round-off for a real input.
	u := make([]float64, len(f))
	for id := range u {
		u[id] = real(spec[id])
	}
	return u, nil
}
