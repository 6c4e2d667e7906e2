package dec

import (
	"github.com/notargets/DECGrid/grid"
)

// Sharp reconstructs a vertex-centered vector field from a 1-form by
// averaging the two edges incident to each vertex along an axis and
// dividing by the edge length. For v = DerivativeOfFunction(f) this is the
// centered-difference gradient of f.
func Sharp(g *grid.Grid, v OneForm) (VectorField, error) {
	if err := v.Check(g); err != nil {
		return VectorField{}, err
	}
	u := NewVectorField(g)
	nx, ny, nz := g.ResX, g.ResY, g.ResZ
	for i := 0; i < nx; i++ {
		im := grid.Wrap(i-1, nx)
		for j := 0; j < ny; j++ {
			jm := grid.Wrap(j-1, ny)
			for k := 0; k < nz; k++ {
				km := grid.Wrap(k-1, nz)
				id := g.Index(i, j, k)
				u.X[id] = 0.5 * (v.X[g.Index(im, j, k)] + v.X[id]) / g.Dx
				u.Y[id] = 0.5 * (v.Y[g.Index(i, jm, k)] + v.Y[id]) / g.Dy
				u.Z[id] = 0.5 * (v.Z[g.Index(i, j, km)] + v.Z[id]) / g.Dz
			}
		}
	}
	return u, nil
}

// StaggeredSharp reconstructs an edge-centered vector field: each
// component is the 1-form value divided by its edge length, with no
// neighbor access. The samples stay on the staggered edge midpoints.
func StaggeredSharp(g *grid.Grid, v OneForm) (VectorField, error) {
	if err := v.Check(g); err != nil {
		return VectorField{}, err
	}
	u := NewVectorField(g)
	for id := range v.X {
		u.X[id] = v.X[id] / g.Dx
		u.Y[id] = v.Y[id] / g.Dy
		u.Z[id] = v.Z[id] / g.Dz
	}
	return u, nil
}

// StaggeredSharpInPlace rescales the 1-form's own storage into the
// edge-centered vector field. The operator is purely elementwise, which is
// what makes the aliased update safe; no other operator in the family may
// be run in place.
func StaggeredSharpInPlace(g *grid.Grid, v OneForm) error {
	if err := v.Check(g); err != nil {
		return err
	}
	for id := range v.X {
		v.X[id] /= g.Dx
		v.Y[id] /= g.Dy
		v.Z[id] /= g.Dz
	}
	return nil
}
