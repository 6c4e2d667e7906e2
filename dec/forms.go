// Package dec implements lowest-order discrete exterior calculus operators
// on a periodic lattice: the exterior derivative family d0/d1/d2, the
// codifferential Div, and the two sharp operators reconstructing vector
// fields from discrete 1-forms. All operators are pure functions of
// (grid, field): they allocate fresh outputs and never mutate their inputs,
// with the single documented exception of StaggeredSharpInPlace.
package dec

import (
	"github.com/notargets/DECGrid/grid"
)

// OneForm is a discrete 1-form: X[g.Index(i,j,k)] is the line integral
// along the edge from vertex (i,j,k) to (i+1,j,k), with periodic wrap at
// the boundary, and likewise Y, Z for the other axes.
type OneForm struct {
	X, Y, Z []float64
}

// TwoForm is a discrete 2-form: X[g.Index(i,j,k)] is the flux through the
// unit face normal to x anchored at (i,j,k).
type TwoForm struct {
	X, Y, Z []float64
}

// VectorField holds three sampled vector components, vertex-centered for
// Sharp or edge-centered for StaggeredSharp.
type VectorField struct {
	X, Y, Z []float64
}

// NewOneForm allocates a zero 1-form matching the grid shape.
func NewOneForm(g *grid.Grid) OneForm {
	n := g.NumVertices()
	return OneForm{X: make([]float64, n), Y: make([]float64, n), Z: make([]float64, n)}
}

// NewTwoForm allocates a zero 2-form matching the grid shape.
func NewTwoForm(g *grid.Grid) TwoForm {
	n := g.NumVertices()
	return TwoForm{X: make([]float64, n), Y: make([]float64, n), Z: make([]float64, n)}
}

// NewVectorField allocates a zero vector field matching the grid shape.
func NewVectorField(g *grid.Grid) VectorField {
	n := g.NumVertices()
	return VectorField{X: make([]float64, n), Y: make([]float64, n), Z: make([]float64, n)}
}

func checkTriple(g *grid.Grid, name string, x, y, z []float64) error {
	if err := g.CheckScalar(name+".X", x); err != nil {
		return err
	}
	if err := g.CheckScalar(name+".Y", y); err != nil {
		return err
	}
	return g.CheckScalar(name+".Z", z)
}

// Check validates the component shapes against the grid.
func (v OneForm) Check(g *grid.Grid) error {
	return checkTriple(g, "one-form", v.X, v.Y, v.Z)
}

// Check validates the component shapes against the grid.
func (w TwoForm) Check(g *grid.Grid) error {
	return checkTriple(g, "two-form", w.X, w.Y, w.Z)
}

// Check validates the component shapes against the grid.
func (u VectorField) Check(g *grid.Grid) error {
	return checkTriple(g, "vector field", u.X, u.Y, u.Z)
}
