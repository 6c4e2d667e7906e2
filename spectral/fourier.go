// Package spectral solves the periodic discrete Poisson equation by
// inverting the 7-point Laplacian in Fourier space. The 3D discrete
// Fourier transform is an injected capability behind the Transform
// interface; two providers are included, one on gonum's dsp/fourier and
// one on mjibson/go-dsp.
package spectral

import (
	"github.com/mjibson/go-dsp/fft"
	"github.com/notargets/DECGrid/grid"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Transform is a forward/inverse 3D discrete Fourier transform over
// arrays of the grid's shape. The pair is unitary in the usual sense:
// Inverse(Forward(x)) == x up to round-off. dst and src must both have
// one entry per grid vertex; dst may alias src.
type Transform interface {
	Forward(dst, src []complex128)
	Inverse(dst, src []complex128)
}

// FourierTransform implements Transform with gonum's complex FFT, applied
// axis by axis with gather/scatter over the flat array.
type FourierTransform struct {
	g                *grid.Grid
	fftX, fftY, fftZ *fourier.CmplxFFT
}

// NewFourierTransform returns the default Transform for a grid.
func NewFourierTransform(g *grid.Grid) *FourierTransform {
	return &FourierTransform{
		g:    g,
		fftX: fourier.NewCmplxFFT(g.ResX),
		fftY: fourier.NewCmplxFFT(g.ResY),
		fftZ: fourier.NewCmplxFFT(g.ResZ),
	}
}

// Forward computes the unnormalized forward 3D DFT.
func (t *FourierTransform) Forward(dst, src []complex128) {
	t.sweep(dst, src, false)
}

// Inverse computes the inverse 3D DFT, scaled so that Inverse∘Forward is
// the identity.
func (t *FourierTransform) Inverse(dst, src []complex128) {
	t.sweep(dst, src, true)
	scale := 1.0 / float64(t.g.NumVertices())
	for id := range dst {
		dst[id] *= complex(scale, 0)
	}
}

func (t *FourierTransform) sweep(dst, src []complex128, inverse bool) {
	g := t.g
	nx, ny, nz := g.ResX, g.ResY, g.ResZ
	if &dst[0] != &src[0] {
		copy(dst, src)
	}

	apply := func(plan *fourier.CmplxFFT, line []complex128) []complex128 {
		if inverse {
			return plan.Sequence(nil, line)
		}
		return plan.Coefficients(nil, line)
	}

	// Lines along z are contiguous.
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			base := g.Index(i, j, 0)
			copy(dst[base:base+nz], apply(t.fftZ, dst[base:base+nz]))
		}
	}

	// Lines along y, stride ResZ.
	line := make([]complex128, ny)
	for i := 0; i < nx; i++ {
		for k := 0; k < nz; k++ {
			for j := 0; j < ny; j++ {
				line[j] = dst[g.Index(i, j, k)]
			}
			out := apply(t.fftY, line)
			for j := 0; j < ny; j++ {
				dst[g.Index(i, j, k)] = out[j]
			}
		}
	}

	// Lines along x, stride ResY*ResZ.
	line = make([]complex128, nx)
	for j := 0; j < ny; j++ {
		for k := 0; k < nz; k++ {
			for i := 0; i < nx; i++ {
				line[i] = dst[g.Index(i, j, k)]
			}
			out := apply(t.fftX, line)
			for i := 0; i < nx; i++ {
				dst[g.Index(i, j, k)] = out[i]
			}
		}
	}
}

// DSPTransform implements Transform with mjibson/go-dsp's mixed-radix FFT,
// swept axis by axis. go-dsp's IFFT carries a 1/n factor per axis, so the
// three sweeps together give the 1/N normalization.
type DSPTransform struct {
	g *grid.Grid
}

// NewDSPTransform returns a Transform backed by mjibson/go-dsp.
func NewDSPTransform(g *grid.Grid) *DSPTransform {
	return &DSPTransform{g: g}
}

// Forward computes the unnormalized forward 3D DFT.
func (t *DSPTransform) Forward(dst, src []complex128) {
	t.sweep(dst, src, fft.FFT)
}

// Inverse computes the normalized inverse 3D DFT.
func (t *DSPTransform) Inverse(dst, src []complex128) {
	t.sweep(dst, src, fft.IFFT)
}

func (t *DSPTransform) sweep(dst, src []complex128, apply func([]complex128) []complex128) {
	g := t.g
	nx, ny, nz := g.ResX, g.ResY, g.ResZ
	if &dst[0] != &src[0] {
		copy(dst, src)
	}

	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			base := g.Index(i, j, 0)
			copy(dst[base:base+nz], apply(dst[base:base+nz]))
		}
	}

	line := make([]complex128, ny)
	for i := 0; i < nx; i++ {
		for k := 0; k < nz; k++ {
			for j := 0; j < ny; j++ {
				line[j] = dst[g.Index(i, j, k)]
			}
			out := apply(line)
			for j := 0; j < ny; j++ {
				dst[g.Index(i, j, k)] = out[j]
			}
		}
	}

	line = make([]complex128, nx)
	for j := 0; j < ny; j++ {
		for k := 0; k < nz; k++ {
			for i := 0; i < nx; i++ {
				line[i] = dst[g.Index(i, j, k)]
			}
			out := apply(line)
			for i := 0; i < nx; i++ {
				dst[g.Index(i, j, k)] = out[i]
			}
		}
	}
}
