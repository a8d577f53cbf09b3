package gocl

import "github.com/google/uuid"

// Program is the unit of kernel compilation: an identity under which the
// offline compiler deposits each kernel's intermediate representation in
// the on-disk artifact cache (see the cache package for the layout).
type Program struct {
	// ID addresses the program's artifacts on disk. It must be stable
	// across processes for the cache to hit.
	ID string
}

// NewProgram returns a Program with a fresh unique identity.
func NewProgram() *Program {
	return &Program{ID: uuid.NewString()}
}

// ArgKind classifies a declared kernel argument.
type ArgKind int

//go:generate go tool enumer -type=ArgKind kernel.go

const (
	// ArgValue is a plain by-value argument, passed through unmodified.
	ArgValue ArgKind = iota
	// ArgPointer is a memory-object (or local-memory, see ArgInfo.Local)
	// argument.
	ArgPointer
	// ArgImage and ArgSampler exist so kernels declaring them are
	// recognized and rejected: no backend here claims image support.
	ArgImage
	ArgSampler
)

// ArgInfo is the declaration-side metadata of one kernel argument.
type ArgInfo struct {
	Kind ArgKind

	// Local marks a pointer argument addressing local/shared scratch
	// memory. Local arguments are never bound to caller memory: the
	// submission engine lays them out in the launch's local-memory block
	// and passes their offsets.
	Local bool
}

// Kernel is one callable entry point of a Program. The runtime fills the
// metadata from the offline compiler's output; backends own the compiled
// per-device artifacts in side tables keyed by (kernel, device), so the
// Kernel itself stays device-agnostic.
type Kernel struct {
	Name    string
	Program *Program

	// Args describe the kernel's declared arguments in order.
	Args []ArgInfo

	// NumAutoLocals counts the kernel's automatic local-memory
	// allocations, laid out after the declared local arguments. Their
	// sizes travel in the tail of a command's argument snapshot.
	NumAutoLocals int
}
