package dec

import (
	"github.com/notargets/DECGrid/grid"
)

// DerivativeOfFunction computes the discrete exterior derivative d0 of a
// 0-cochain: the forward difference of f along each axis, stored as line
// integrals on the edges leaving each vertex. No division by edge length
// is applied; the result is a 1-form, not a vector field.
func DerivativeOfFunction(g *grid.Grid, f []float64) (OneForm, error) {
	if err := g.CheckScalar("scalar field", f); err != nil {
		return OneForm{}, err
	}
	v := NewOneForm(g)
	nx, ny, nz := g.ResX, g.ResY, g.ResZ
	for i := 0; i < nx; i++ {
		ip := grid.Wrap(i+1, nx)
		for j := 0; j < ny; j++ {
			jp := grid.Wrap(j+1, ny)
			for k := 0; k < nz; k++ {
				kp := grid.Wrap(k+1, nz)
				id := g.Index(i, j, k)
				v.X[id] = f[g.Index(ip, j, k)] - f[id]
				v.Y[id] = f[g.Index(i, jp, k)] - f[id]
				v.Z[id] = f[g.Index(i, j, kp)] - f[id]
			}
		}
	}
	return v, nil
}

// DerivativeOfOneForm computes d1: the circulation of a 1-form around the
// unit square normal to each axis. This is the discrete curl; composed
// with DerivativeOfFunction it vanishes identically.
func DerivativeOfOneForm(g *grid.Grid, v OneForm) (TwoForm, error) {
	if err := v.Check(g); err != nil {
		return TwoForm{}, err
	}
	w := NewTwoForm(g)
	nx, ny, nz := g.ResX, g.ResY, g.ResZ
	for i := 0; i < nx; i++ {
		ip := grid.Wrap(i+1, nx)
		for j := 0; j < ny; j++ {
			jp := grid.Wrap(j+1, ny)
			for k := 0; k < nz; k++ {
				kp := grid.Wrap(k+1, nz)
				id := g.Index(i, j, k)
				w.X[id] = v.Y[id] - v.Y[g.Index(i, j, kp)] + v.Z[g.Index(i, jp, k)] - v.Z[id]
				w.Y[id] = v.Z[id] - v.Z[g.Index(ip, j, k)] + v.X[g.Index(i, j, kp)] - v.X[id]
				w.Z[id] = v.X[id] - v.X[g.Index(i, jp, k)] + v.Y[g.Index(ip, j, k)] - v.Y[id]
			}
		}
	}
	return w, nil
}

// DerivativeOfTwoForm computes d2: the net flux out of each unit cell.
// The result is a volume-integrated 3-cochain; consistent with the rest of
// the family it is not renormalized by cell volume. Composed with
// DerivativeOfOneForm it vanishes identically.
func DerivativeOfTwoForm(g *grid.Grid, w TwoForm) ([]float64, error) {
	if err := w.Check(g); err != nil {
		return nil, err
	}
	f := make([]float64, g.NumVertices())
	nx, ny, nz := g.ResX, g.ResY, g.ResZ
	for i := 0; i < nx; i++ {
		ip := grid.Wrap(i+1, nx)
		for j := 0; j < ny; j++ {
			jp := grid.Wrap(j+1, ny)
			for k := 0; k < nz; k++ {
				kp := grid.Wrap(k+1, nz)
				id := g.Index(i, j, k)
				f[id] = (w.X[g.Index(ip, j, k)] - w.X[id]) +
					(w.Y[g.Index(i, jp, k)] - w.Y[id]) +
					(w.Z[g.Index(i, j, kp)] - w.Z[id])
			}
		}
	}
	return f, nil
}

// Div computes the codifferential of a 1-form: the backward-difference
// divergence scaled by the squared edge length per axis. The first 1/d
// converts line-integrated edge values to averages, the second accounts
// for the face area element. Div applied to DerivativeOfFunction(f) yields
// the 7-point periodic discrete Laplacian of f, negative semidefinite.
func Div(g *grid.Grid, v OneForm) ([]float64, error) {
	if err := v.Check(g); err != nil {
		return nil, err
	}
	f := make([]float64, g.NumVertices())
	nx, ny, nz := g.ResX, g.ResY, g.ResZ
	idx2 := 1.0 / (g.Dx * g.Dx)
	idy2 := 1.0 / (g.Dy * g.Dy)
	idz2 := 1.0 / (g.Dz * g.Dz)
	for i := 0; i < nx; i++ {
		im := grid.Wrap(i-1, nx)
		for j := 0; j < ny; j++ {
			jm := grid.Wrap(j-1, ny)
			for k := 0; k < nz; k++ {
				km := grid.Wrap(k-1, nz)
				id := g.Index(i, j, k)
				f[id] = (v.X[id]-v.X[g.Index(im, j, k)])*idx2 +
					(v.Y[id]-v.Y[g.Index(i, jm, k)])*idy2 +
					(v.Z[id]-v.Z[g.Index(i, j, km)])*idz2
			}
		}
	}
	return f, nil
}
