// Package grid defines the periodic rectangular lattice underlying the DEC
// operators: a discretized 3-torus with fixed physical extents and per-axis
// vertex counts. A Grid is immutable once constructed; all field arrays are
// flat []float64 slices addressed in (i*ResY+j)*ResZ+k order.
package grid

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors surfaced by grid construction and shape validation.
// Callers discriminate with errors.Is.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrShapeMismatch   = errors.New("shape mismatch")
)

// Grid describes a periodic rectangular lattice on the 3-torus. Vertex
// Res is identified with vertex 0 on each axis, so every index into a
// field array is taken modulo the corresponding resolution.
type Grid struct {
	SizeX, SizeY, SizeZ float64 // physical extents of the fundamental domain
	ResX, ResY, ResZ    int     // vertex counts per axis
	Dx, Dy, Dz          float64 // derived edge lengths, size/res

	// Vertex coordinates, flattened: Px[g.Index(i,j,k)] = i*Dx, etc.
	Px, Py, Pz []float64
}

// New constructs a periodic grid from three positive physical sizes and
// either three per-axis resolutions or a single target resolution for the
// longest axis. In the single-resolution form the other two axes get
// round(size_axis/size_longest*res) vertices, so the aspect ratio of cell
// counts approximates the aspect ratio of sizes.
func New(sizeX, sizeY, sizeZ float64, res ...int) (*Grid, error) {
	if sizeX <= 0 || sizeY <= 0 || sizeZ <= 0 {
		return nil, fmt.Errorf("grid sizes must be positive, got (%g,%g,%g): %w",
			sizeX, sizeY, sizeZ, ErrInvalidArgument)
	}

	var resX, resY, resZ int
	switch len(res) {
	case 1:
		n := res[0]
		if n <= 0 {
			return nil, fmt.Errorf("grid resolution must be positive, got %d: %w",
				n, ErrInvalidArgument)
		}
		longest := math.Max(sizeX, math.Max(sizeY, sizeZ))
		resX = int(math.Round(sizeX / longest * float64(n)))
		resY = int(math.Round(sizeY / longest * float64(n)))
		resZ = int(math.Round(sizeZ / longest * float64(n)))
	case 3:
		resX, resY, resZ = res[0], res[1], res[2]
	default:
		return nil, fmt.Errorf("grid takes 1 or 3 resolutions, got %d: %w",
			len(res), ErrInvalidArgument)
	}
	if resX <= 0 || resY <= 0 || resZ <= 0 {
		return nil, fmt.Errorf("grid resolutions must be positive, got (%d,%d,%d): %w",
			resX, resY, resZ, ErrInvalidArgument)
	}

	g := &Grid{
		SizeX: sizeX, SizeY: sizeY, SizeZ: sizeZ,
		ResX: resX, ResY: resY, ResZ: resZ,
		Dx: sizeX / float64(resX),
		Dy: sizeY / float64(resY),
		Dz: sizeZ / float64(resZ),
	}

	n := g.NumVertices()
	g.Px = make([]float64, n)
	g.Py = make([]float64, n)
	g.Pz = make([]float64, n)
	for i := 0; i < resX; i++ {
		for j := 0; j < resY; j++ {
			for k := 0; k < resZ; k++ {
				id := g.Index(i, j, k)
				g.Px[id] = float64(i) * g.Dx
				g.Py[id] = float64(j) * g.Dy
				g.Pz[id] = float64(k) * g.Dz
			}
		}
	}
	return g, nil
}

// NumVertices returns the total number of lattice vertices.
func (g *Grid) NumVertices() int {
	return g.ResX * g.ResY * g.ResZ
}

// Index maps lattice coordinates to the flat array offset. Coordinates
// must already be in range; callers wrap with Wrap first.
func (g *Grid) Index(i, j, k int) int {
	return (i*g.ResY+j)*g.ResZ + k
}

// Wrap reduces a lattice index modulo the resolution, mapping negatives
// into range. Every operator routes its periodic neighbor access through
// this helper rather than relying on any array-library wrapping.
func Wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// CheckScalar validates that f has one value per vertex.
func (g *Grid) CheckScalar(name string, f []float64) error {
	if len(f) != g.NumVertices() {
		return fmt.Errorf("%s has length %d, grid is (%d,%d,%d): %w",
			name, len(f), g.ResX, g.ResY, g.ResZ, ErrShapeMismatch)
	}
	return nil
}

// CheckComplex validates a complex spectrum array against the grid shape.
func (g *Grid) CheckComplex(name string, f []complex128) error {
	if len(f) != g.NumVertices() {
		return fmt.Errorf("%s has length %d, grid is (%d,%d,%d): %w",
			name, len(f), g.ResX, g.ResY, g.ResZ, ErrShapeMismatch)
	}
	return nil
}
