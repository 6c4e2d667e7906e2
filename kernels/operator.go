// Package kernels re-expresses the elementwise and backward-stencil
// operators as per-cell OCCA kernels. Each output cell depends only on a
// small fixed neighborhood of input cells, which is what licenses
// one-thread-per-cell execution with no synchronization. The kernels use
// the identical wraparound arithmetic as the sequential operators in
// package dec, so the two executors agree to round-off.
package kernels

import (
	"fmt"
	"unsafe"

	"github.com/notargets/DECGrid/dec"
	"github.com/notargets/DECGrid/grid"
	"github.com/notargets/gocca"
)

// Operator holds the compiled kernel family and pooled device buffers for
// one grid. Queue submission and device selection belong to the caller;
// the Operator only owns what it allocates, released by Free.
type Operator struct {
	grid    *grid.Grid
	device  *gocca.OCCADevice
	kernels map[string]*gocca.OCCAKernel
	memory  map[string]*gocca.OCCAMemory
}

// NewOperator compiles the kernels for a grid and allocates the pooled
// device buffers. Panics on a nil device, matching the runtime contract
// everywhere else in the package chain.
func NewOperator(device *gocca.OCCADevice, g *grid.Grid) (*Operator, error) {
	if device == nil {
		panic("kernels: nil device")
	}
	op := &Operator{
		grid:    g,
		device:  device,
		kernels: make(map[string]*gocca.OCCAKernel),
		memory:  make(map[string]*gocca.OCCAMemory),
	}

	sources := map[string]string{
		"divOneForm":      divSource(g),
		"staggeredSharp":  staggeredSharpSource(g),
		"applySymbol":     applySymbolSource(g),
		"complexMultiply": complexMultiplySource(g),
	}
	for name, source := range sources {
		if err := op.buildKernel(source, name); err != nil {
			op.Free()
			return nil, err
		}
	}

	realBytes := int64(g.NumVertices() * 8)
	for _, name := range []string{"vx", "vy", "vz", "div", "fac"} {
		op.memory[name] = device.Malloc(realBytes, nil, nil)
	}
	// Interleaved re/im pairs for the spectral-domain kernels.
	op.memory["specA"] = device.Malloc(2*realBytes, nil, nil)
	op.memory["specB"] = device.Malloc(2*realBytes, nil, nil)

	return op, nil
}

func (op *Operator) buildKernel(source, name string) error {
	var kernel *gocca.OCCAKernel
	var err error

	if op.device.Mode() == "OpenMP" {
		// Workaround for OCCA bug: OpenMP doesn't get default -O3 flag
		props := gocca.JsonParse(`{"compiler_flags": "-O3"}`)
		defer props.Free()
		kernel, err = op.device.BuildKernelFromString(source, name, props)
	} else {
		kernel, err = op.device.BuildKernelFromString(source, name, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to build kernel %s: %w", name, err)
	}
	op.kernels[name] = kernel
	return nil
}

func (op *Operator) uploadOneForm(v dec.OneForm) {
	bytes := int64(op.grid.NumVertices() * 8)
	op.memory["vx"].CopyFrom(unsafe.Pointer(&v.X[0]), bytes)
	op.memory["vy"].CopyFrom(unsafe.Pointer(&v.Y[0]), bytes)
	op.memory["vz"].CopyFrom(unsafe.Pointer(&v.Z[0]), bytes)
}

// Div runs the codifferential kernel over a 1-form and returns the
// resulting scalar field.
func (op *Operator) Div(v dec.OneForm) ([]float64, error) {
	if err := v.Check(op.grid); err != nil {
		return nil, err
	}
	op.uploadOneForm(v)

	if err := op.kernels["divOneForm"].RunWithArgs(
		op.memory["vx"], op.memory["vy"], op.memory["vz"], op.memory["div"]); err != nil {
		return nil, fmt.Errorf("divOneForm kernel execution failed: %w", err)
	}
	op.device.Finish()

	n := op.grid.NumVertices()
	out := make([]float64, n)
	op.memory["div"].CopyTo(unsafe.Pointer(&out[0]), int64(n*8))
	return out, nil
}

// StaggeredSharp runs the edge-centered sharp kernel and returns a fresh
// vector field, leaving v untouched.
func (op *Operator) StaggeredSharp(v dec.OneForm) (dec.VectorField, error) {
	if err := v.Check(op.grid); err != nil {
		return dec.VectorField{}, err
	}
	op.uploadOneForm(v)
	if err := op.runStaggeredSharp(); err != nil {
		return dec.VectorField{}, err
	}

	u := dec.NewVectorField(op.grid)
	op.downloadVectorField(u)
	return u, nil
}

// StaggeredSharpInPlace rescales the 1-form's own storage through the
// in-place kernel, mirroring dec.StaggeredSharpInPlace.
func (op *Operator) StaggeredSharpInPlace(v dec.OneForm) error {
	if err := v.Check(op.grid); err != nil {
		return err
	}
	op.uploadOneForm(v)
	if err := op.runStaggeredSharp(); err != nil {
		return err
	}
	op.downloadVectorField(dec.VectorField{X: v.X, Y: v.Y, Z: v.Z})
	return nil
}

func (op *Operator) runStaggeredSharp() error {
	if err := op.kernels["staggeredSharp"].RunWithArgs(
		op.memory["vx"], op.memory["vy"], op.memory["vz"]); err != nil {
		return fmt.Errorf("staggeredSharp kernel execution failed: %w", err)
	}
	op.device.Finish()
	return nil
}

func (op *Operator) downloadVectorField(u dec.VectorField) {
	bytes := int64(op.grid.NumVertices() * 8)
	op.memory["vx"].CopyTo(unsafe.Pointer(&u.X[0]), bytes)
	op.memory["vy"].CopyTo(unsafe.Pointer(&u.Y[0]), bytes)
	op.memory["vz"].CopyTo(unsafe.Pointer(&u.Z[0]), bytes)
}

// ApplySymbol scales the spectrum in place by a real per-frequency factor,
// the pointwise step of the spectral Poisson solve. A complex128 slice is
// interleaved re/im pairs in memory, so it maps directly onto the device
// buffer layout.
func (op *Operator) ApplySymbol(spec []complex128, fac []float64) error {
	if err := op.grid.CheckComplex("spectrum", spec); err != nil {
		return err
	}
	if err := op.grid.CheckScalar("factors", fac); err != nil {
		return err
	}
	n := op.grid.NumVertices()
	op.memory["specA"].CopyFrom(unsafe.Pointer(&spec[0]), int64(n*16))
	op.memory["fac"].CopyFrom(unsafe.Pointer(&fac[0]), int64(n*8))

	if err := op.kernels["applySymbol"].RunWithArgs(
		op.memory["specA"], op.memory["fac"]); err != nil {
		return fmt.Errorf("applySymbol kernel execution failed: %w", err)
	}
	op.device.Finish()

	op.memory["specA"].CopyTo(unsafe.Pointer(&spec[0]), int64(n*16))
	return nil
}

// ComplexMultiply computes a[n] *= b[n] elementwise on the device,
// updating a in place.
func (op *Operator) ComplexMultiply(a, b []complex128) error {
	if err := op.grid.CheckComplex("multiplicand", a); err != nil {
		return err
	}
	if err := op.grid.CheckComplex("multiplier", b); err != nil {
		return err
	}
	n := op.grid.NumVertices()
	op.memory["specA"].CopyFrom(unsafe.Pointer(&a[0]), int64(n*16))
	op.memory["specB"].CopyFrom(unsafe.Pointer(&b[0]), int64(n*16))

	if err := op.kernels["complexMultiply"].RunWithArgs(
		op.memory["specA"], op.memory["specB"]); err != nil {
		return fmt.Errorf("complexMultiply kernel execution failed: %w", err)
	}
	op.device.Finish()

	op.memory["specA"].CopyTo(unsafe.Pointer(&a[0]), int64(n*16))
	return nil
}

// Free releases all kernels and device memory owned by the Operator.
func (op *Operator) Free() {
	for _, kernel := range op.kernels {
		kernel.Free()
	}
	for _, mem := range op.memory {
		mem.Free()
	}
}
