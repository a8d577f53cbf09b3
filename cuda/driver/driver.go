// Package driver is the minimal CUDA driver API surface the cuda backend
// relies on: one verb per driver call it issues, with the driver's own
// numeric error codes, attribute identifiers and flag values.
//
// The real implementation is built with the "cuda" build tag and links
// against libcuda through cgo; Load returns it. Without the tag, Load
// reports how to enable it. Tests use the in-memory fake from the
// drivertest package.
package driver

// Device is the driver's device handle, obtained from an ordinal.
type Device int

// Context, Module and Function are opaque driver handles, wide enough for
// implementations to store raw pointers in them.
type (
	Context  uintptr
	Module   uintptr
	Function uintptr
)

// DevPtr is an address in device memory. The zero value is the null device
// pointer; byte-offset arithmetic is the caller's business, as with the
// driver's own device pointers.
type DevPtr uint64

// Dim3 is a three-dimensional launch extent.
type Dim3 struct {
	X, Y, Z uint32
}

// CtxFlags configure context creation.
type CtxFlags uint32

const (
	CtxSchedAuto CtxFlags = 0x00
	CtxMapHost   CtxFlags = 0x08
)

// HostMemFlags modify host-pinned allocation and host-memory registration.
type HostMemFlags uint32

const (
	HostMemPortable      HostMemFlags = 0x01
	HostMemDeviceMap     HostMemFlags = 0x02
	HostMemWriteCombined HostMemFlags = 0x04
)

// API is the driver contract. Every verb returns a Result; Success is zero.
// Callers decide fatality -- the driver layer never panics.
//
// Calls touching device state act on the calling thread's current context
// (see CtxSetCurrent), mirroring the driver's threading model.
type API interface {
	// Init initializes the driver. Safe to call repeatedly.
	Init() Result

	DeviceGet(ordinal int) (Device, Result)
	DeviceGetName(dev Device) (string, Result)
	DeviceGetAttribute(attr DeviceAttribute, dev Device) (int, Result)

	CtxCreate(flags CtxFlags, dev Device) (Context, Result)
	CtxSetCurrent(ctx Context) Result
	CtxDestroy(ctx Context) Result

	// MemGetInfo reports free and total memory of the current context's
	// device.
	MemGetInfo() (free, total uint64, rc Result)

	MemAlloc(size uint64) (DevPtr, Result)
	MemFree(ptr DevPtr) Result

	// MemHostAlloc allocates size bytes of host-pinned memory, returned
	// as a byte slice backed by it. Release with MemFreeHost.
	MemHostAlloc(size uint64, flags HostMemFlags) ([]byte, Result)
	MemFreeHost(host []byte) Result

	// MemHostRegister pins existing host memory; SupportsHostRegister
	// reports whether the platform implements it at all.
	MemHostRegister(host []byte, flags HostMemFlags) Result
	MemHostGetDevicePointer(host []byte) (DevPtr, Result)
	SupportsHostRegister() bool

	// Synchronous linear copies; sizes come from the slice lengths where
	// a slice is involved.
	MemcpyHtoD(dst DevPtr, src []byte) Result
	MemcpyDtoH(dst []byte, src DevPtr) Result
	MemcpyDtoD(dst, src DevPtr, size uint64) Result

	// Memcpy3D performs one structured rectangular copy.
	Memcpy3D(p *Memcpy3D) Result

	ModuleLoad(path string) (Module, Result)
	ModuleGetFunction(mod Module, name string) (Function, Result)

	LaunchKernel(fn Function, grid, block Dim3, sharedBytes uint32, params []Param) Result

	// StreamSynchronize blocks until all work queued on the default
	// stream -- and, for this backend's usage, the whole device -- has
	// completed.
	StreamSynchronize() Result
}
