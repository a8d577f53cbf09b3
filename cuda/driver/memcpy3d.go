package driver

// MemoryType says which address space one side of a structured copy lives
// in. Values equal the driver's memory-type enum.
type MemoryType int

const (
	MemoryHost   MemoryType = 1
	MemoryDevice MemoryType = 2
)

// Memcpy3DSide is one endpoint of a Memcpy3D: the memory kind, the base
// (Host or Device, per MemoryType), a 3-D origin -- XInBytes in bytes, Y in
// rows, Z in slices -- the row pitch in bytes, and Height, the rows per
// slice of this side's layout (its slice pitch divided by its row pitch).
type Memcpy3DSide struct {
	MemoryType MemoryType
	Host       []byte
	Device     DevPtr

	XInBytes uint64
	Y        uint64
	Z        uint64

	Pitch  uint64
	Height uint64
}

// Memcpy3D describes one structured rectangular copy, mirroring the
// driver's 3-D copy parameter block: the copied extents and the two sides.
// One shape serves host-to-device, device-to-host and device-to-device
// copies; only the sides' memory kinds vary.
type Memcpy3D struct {
	WidthInBytes uint64
	Height       uint64
	Depth        uint64

	Src Memcpy3DSide
	Dst Memcpy3DSide
}
