package driver

// ParamKind tags how one launch parameter reaches the kernel.
type ParamKind int

//go:generate go tool enumer -type=ParamKind -trimprefix=Param params.go

const (
	// ParamRaw passes bytes by value, as laid out.
	ParamRaw ParamKind = iota
	// ParamPointer passes a device address.
	ParamPointer
	// ParamSharedOffset passes a 32-bit offset into the launch's
	// local-memory block, the convention lowered kernels use to address
	// their local regions.
	ParamSharedOffset
)

// Param is one kernel launch parameter. Implementations lower the tagged
// value to the driver's calling convention; the fake records it as-is.
type Param struct {
	Kind   ParamKind
	Raw    []byte
	Ptr    DevPtr
	Offset uint32
}

// RawParam passes raw bytes by value.
func RawParam(raw []byte) Param { return Param{Kind: ParamRaw, Raw: raw} }

// PointerParam passes a device address (zero for the null pointer).
func PointerParam(ptr DevPtr) Param { return Param{Kind: ParamPointer, Ptr: ptr} }

// SharedOffsetParam passes a local-memory offset.
func SharedOffsetParam(offset uint32) Param {
	return Param{Kind: ParamSharedOffset, Offset: offset}
}
