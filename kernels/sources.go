package kernels

import (
	"fmt"

	"github.com/notargets/DECGrid/grid"
)

// blockSize is the @inner width for the flattened elementwise kernels.
const blockSize = 256

// preamble bakes the grid shape and metric factors into the kernel source.
// The float constants are printed with enough digits to round-trip, so the
// device sees exactly the values the sequential operators use.
func preamble(g *grid.Grid) string {
	idx2 := 1.0 / (g.Dx * g.Dx)
	idy2 := 1.0 / (g.Dy * g.Dy)
	idz2 := 1.0 / (g.Dz * g.Dz)
	n := g.NumVertices()
	return fmt.Sprintf(`
#define NX %d
#define NY %d
#define NZ %d
#define NTOT %d
#define DX %.17g
#define DY %.17g
#define DZ %.17g
#define INV_DX2 %.17g
#define INV_DY2 %.17g
#define INV_DZ2 %.17g
#define BLOCK %d
#define NBLOCKS %d
#define IDX(i, j, k) (((i) * NY + (j)) * NZ + (k))
`, g.ResX, g.ResY, g.ResZ, n, g.Dx, g.Dy, g.Dz, idx2, idy2, idz2,
		blockSize, (n+blockSize-1)/blockSize)
}

// divSource is the per-cell codifferential: each output cell reads the
// current cell and its three backward neighbors, with the same
// (i + N - 1) % N wraparound arithmetic as the sequential operator, and
// writes to a separate output buffer.
func divSource(g *grid.Grid) string {
	return preamble(g) + `
@kernel void divOneForm(const double *vx,
                        const double *vy,
                        const double *vz,
                        double *div) {
	for (int i = 0; i < NX; ++i; @outer) {
		for (int j = 0; j < NY; ++j; @inner) {
			for (int k = 0; k < NZ; ++k) {
				const int im = (i + NX - 1) % NX;
				const int jm = (j + NY - 1) % NY;
				const int km = (k + NZ - 1) % NZ;
				const int id = IDX(i, j, k);
				div[id] = (vx[id] - vx[IDX(im, j, k)]) * INV_DX2 +
					(vy[id] - vy[IDX(i, jm, k)]) * INV_DY2 +
					(vz[id] - vz[IDX(i, j, km)]) * INV_DZ2;
			}
		}
	}
}
`
}

// staggeredSharpSource rescales edge values in place; the operator is
// purely elementwise, so each thread owns its cell outright.
func staggeredSharpSource(g *grid.Grid) string {
	return preamble(g) + `
@kernel void staggeredSharp(double *vx,
                            double *vy,
                            double *vz) {
	for (int b = 0; b < NBLOCKS; ++b; @outer) {
		for (int t = 0; t < BLOCK; ++t; @inner) {
			const int n = b * BLOCK + t;
			if (n < NTOT) {
				vx[n] = vx[n] / DX;
				vy[n] = vy[n] / DY;
				vz[n] = vz[n] / DZ;
			}
		}
	}
}
`
}

// applySymbolSource scales an interleaved complex spectrum by a real
// per-frequency factor, in place.
func applySymbolSource(g *grid.Grid) string {
	return preamble(g) + `
@kernel void applySymbol(double *field,
                         const double *fac) {
	for (int b = 0; b < NBLOCKS; ++b; @outer) {
		for (int t = 0; t < BLOCK; ++t; @inner) {
			const int n = b * BLOCK + t;
			if (n < NTOT) {
				field[2 * n] = field[2 * n] * fac[n];
				field[2 * n + 1] = field[2 * n + 1] * fac[n];
			}
		}
	}
}
`
}

// complexMultiplySource is the generic elementwise complex product
// a[n] *= b[n] over interleaved buffers.
func complexMultiplySource(g *grid.Grid) string {
	return preamble(g) + `
@kernel void complexMultiply(double *a,
                             const double *b) {
	for (int bk = 0; bk < NBLOCKS; ++bk; @outer) {
		for (int t = 0; t < BLOCK; ++t; @inner) {
			const int n = bk * BLOCK + t;
			if (n < NTOT) {
				const double ar = a[2 * n];
				const double ai = a[2 * n + 1];
				const double br = b[2 * n];
				const double bi = b[2 * n + 1];
				a[2 * n] = ar * br - ai * bi;
				a[2 * n + 1] = ar * bi + ai * br;
			}
		}
	}
}
`
}
