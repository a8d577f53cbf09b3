package gocl

// Device identifies one logical compute device. Instances are created by
// the outer runtime, one per device reported by Probe, carrying the
// runtime's identity assignments; the backend fills Info at Init.
type Device struct {
	// ID is the dense runtime-assigned device identity. Backends key
	// per-device state on it and use it as the hardware ordinal.
	ID int

	// GlobalMemID groups devices that alias one logical global memory:
	// a memory object allocates once per group, and the group's devices
	// share that allocation. A stand-alone device uses its own ID.
	GlobalMemID int

	// Info is the device's capability record, valid from Init until
	// Uninit.
	Info DeviceInfo
}

// VectorWidths is the per-element-type vector width a device's code
// generator works with, one entry per scalar kind.
type VectorWidths struct {
	Char   int
	Short  int
	Int    int
	Long   int
	Half   int
	Float  int
	Double int
}

// FPConfig is a bit set of floating-point capabilities.
type FPConfig uint32

const (
	FPDenorm FPConfig = 1 << iota
	FPInfNaN
	FPRoundToNearest
	FPRoundToZero
	FPRoundToInf
	FPFMA
)

// DeviceInfo is the capability record the outer runtime consumes for
// device selection and code generation. Backends fill it during Init.
type DeviceInfo struct {
	Name string

	// Execution geometry limits: the largest work-group and the largest
	// per-dimension work-item counts a launch may use.
	MaxWorkGroupSize int
	MaxWorkItemSizes [3]int

	// Memory sizes in bytes. MaxAllocSize is the largest single
	// allocation the backend permits, deliberately smaller than
	// GlobalMemSize so one allocation cannot starve runtime and driver
	// overhead.
	LocalMemSize    uint64
	ConstantMemSize uint64
	GlobalMemSize   uint64
	MaxAllocSize    uint64

	ComputeUnits int
	ClockRateKHz int
	ECC          bool

	// Integrated reports a device sharing the host's physical memory
	// package. Independent from HostUnifiedMemory: an integrated device
	// may still expose a distinct memory space.
	Integrated        bool
	HostUnifiedMemory bool

	// DedicatedLocalMem reports local/shared memory implemented as real
	// on-chip scratch rather than carved out of global memory.
	DedicatedLocalMem bool

	// ComputeCapability is the device's versioned feature pair; Arch is
	// the architecture identifier derived from it (configuration may
	// override), e.g. "sm_80", handed to the kernel translator.
	ComputeCapability [2]int
	Arch              string

	// AddressBits and TargetTriple tell the offline compiler how to lower
	// kernels for this device.
	AddressBits  int
	TargetTriple string

	PreferredVectorWidths VectorWidths
	NativeVectorWidths    VectorWidths
	SingleFPConfig        FPConfig
	DoubleFPConfig        FPConfig

	ImageSupport bool
}
