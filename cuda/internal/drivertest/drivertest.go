// Package drivertest provides an in-memory driver.API for testing the cuda
// backend without hardware. The fake really moves bytes: device allocations
// are plain byte slices behind fabricated addresses, host-mapped memory
// writes through to the registered slice, and rectangular copies honor the
// descriptor's pitches and origins. Everything else -- launches, module
// loads, call counts -- is recorded for assertions.
package drivertest

import (
	"fmt"
	"os"
	"sync"

	"github.com/gocl-dev/gocl/cuda/driver"
)

// Launch records one LaunchKernel call.
type Launch struct {
	Function    driver.Function
	Grid, Block driver.Dim3
	SharedBytes uint32
	Params      []driver.Param
}

// Fake implements driver.API in memory. The zero value is not usable; call
// NewFake. Exported fields are knobs tests may set before (or between)
// calls; a Result knob of Success means "behave normally".
type Fake struct {
	mu sync.Mutex

	// Device identity and attributes reported to the session.
	Name  string
	Attrs map[driver.DeviceAttribute]int

	// Memory amounts reported by MemGetInfo.
	FreeMem, TotalMem uint64

	// HostRegister is what SupportsHostRegister returns.
	HostRegister bool

	// Failure knobs.
	InitResult        driver.Result
	AllocResult       driver.Result
	RegisterResult    driver.Result
	ModuleLoadResult  driver.Result
	GetFunctionResult driver.Result
	LaunchResult      driver.Result

	// Recorded activity.
	Launches []Launch
	Copies3D []driver.Memcpy3D

	calls map[string]int

	nextPtr driver.DevPtr
	allocs  map[driver.DevPtr][]byte
	pinned  map[*byte][]byte
	mapped  map[*byte]driver.DevPtr

	nextCtx    driver.Context
	contexts   map[driver.Context]driver.Device
	currentCtx driver.Context

	nextModule driver.Module
	modules    map[driver.Module]string
	nextFunc   driver.Function
	functions  map[driver.Function]string
}

// NewFake returns a Fake configured like a mid-range discrete GPU.
func NewFake() *Fake {
	return &Fake{
		Name: "NVIDIA Tesla T4",
		Attrs: map[driver.DeviceAttribute]int{
			driver.AttrMaxThreadsPerBlock: 1024,
			driver.AttrMaxBlockDimX:       1024,
			driver.AttrMaxBlockDimY:       1024,
			driver.AttrMaxBlockDimZ:       64,

			driver.AttrMaxSharedMemoryPerBlock:          48 * 1024,
			driver.AttrMaxSharedMemoryPerMultiprocessor: 64 * 1024,
			driver.AttrTotalConstantMemory:              64 * 1024,

			driver.AttrWarpSize:            32,
			driver.AttrClockRate:           1_590_000,
			driver.AttrMultiprocessorCount: 40,

			driver.AttrIntegrated:       0,
			driver.AttrCanMapHostMemory: 1,
			driver.AttrEccEnabled:       1,

			driver.AttrComputeCapabilityMajor: 7,
			driver.AttrComputeCapabilityMinor: 5,
		},
		FreeMem:      15 << 30,
		TotalMem:     16 << 30,
		HostRegister: true,

		calls:      make(map[string]int),
		nextPtr:    0x10_0000,
		allocs:     make(map[driver.DevPtr][]byte),
		pinned:     make(map[*byte][]byte),
		mapped:     make(map[*byte]driver.DevPtr),
		nextCtx:    1,
		contexts:   make(map[driver.Context]driver.Device),
		nextModule: 1,
		modules:    make(map[driver.Module]string),
		nextFunc:   1,
		functions:  make(map[driver.Function]string),
	}
}

// Calls reports how many times the named API verb has been invoked.
func (f *Fake) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

// Bytes returns the live backing of the allocation containing [ptr, ptr+n).
// Tests use it to seed or inspect device memory directly.
func (f *Fake) Bytes(ptr driver.DevPtr, n uint64) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resolve(ptr, n)
}

// FunctionName reports the symbol a Function handle was resolved from.
func (f *Fake) FunctionName(fn driver.Function) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.functions[fn]
}

// ModulePath reports the file a Module handle was loaded from.
func (f *Fake) ModulePath(mod driver.Module) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.modules[mod]
}

func (f *Fake) count(name string) {
	f.calls[name]++
}

// resolve locates the allocation containing [ptr, ptr+n) and returns the
// live view starting at ptr. Panics on an unmapped or out-of-bounds range,
// which is always a caller bug.
func (f *Fake) resolve(ptr driver.DevPtr, n uint64) []byte {
	for base, buf := range f.allocs {
		if ptr >= base && ptr+driver.DevPtr(n) <= base+driver.DevPtr(len(buf)) {
			off := uint64(ptr - base)
			return buf[off : off+n]
		}
	}
	panic(fmt.Sprintf("drivertest: no allocation covers [%#x, %#x)", uint64(ptr), uint64(ptr)+n))
}

func (f *Fake) Init() driver.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("Init")
	return f.InitResult
}

func (f *Fake) DeviceGet(ordinal int) (driver.Device, driver.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("DeviceGet")
	if ordinal < 0 {
		return 0, driver.ErrInvalidDevice
	}
	return driver.Device(ordinal), driver.Success
}

func (f *Fake) DeviceGetName(dev driver.Device) (string, driver.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("DeviceGetName")
	return f.Name, driver.Success
}

func (f *Fake) DeviceGetAttribute(attr driver.DeviceAttribute, dev driver.Device) (int, driver.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("DeviceGetAttribute")
	return f.Attrs[attr], driver.Success
}

func (f *Fake) CtxCreate(flags driver.CtxFlags, dev driver.Device) (driver.Context, driver.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("CtxCreate")
	ctx := f.nextCtx
	f.nextCtx++
	f.contexts[ctx] = dev
	f.currentCtx = ctx
	return ctx, driver.Success
}

func (f *Fake) CtxSetCurrent(ctx driver.Context) driver.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("CtxSetCurrent")
	if ctx != 0 {
		if _, ok := f.contexts[ctx]; !ok {
			return driver.ErrInvalidContext
		}
	}
	f.currentCtx = ctx
	return driver.Success
}

func (f *Fake) CtxDestroy(ctx driver.Context) driver.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("CtxDestroy")
	if _, ok := f.contexts[ctx]; !ok {
		return driver.ErrInvalidContext
	}
	delete(f.contexts, ctx)
	if f.currentCtx == ctx {
		f.currentCtx = 0
	}
	return driver.Success
}

func (f *Fake) MemGetInfo() (free, total uint64, rc driver.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("MemGetInfo")
	return f.FreeMem, f.TotalMem, driver.Success
}

func (f *Fake) MemAlloc(size uint64) (driver.DevPtr, driver.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("MemAlloc")
	if f.AllocResult != driver.Success {
		return 0, f.AllocResult
	}
	return f.place(make([]byte, size)), driver.Success
}

// place assigns a fresh fabricated address to buf and registers it as an
// allocation. Addresses are 256-byte aligned with a guard gap so adjacent
// allocations never abut.
func (f *Fake) place(buf []byte) driver.DevPtr {
	ptr := f.nextPtr
	span := driver.DevPtr(len(buf)+511) &^ 255
	f.nextPtr += span
	f.allocs[ptr] = buf
	return ptr
}

func (f *Fake) MemFree(ptr driver.DevPtr) driver.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("MemFree")
	if _, ok := f.allocs[ptr]; !ok {
		return driver.ErrInvalidValue
	}
	delete(f.allocs, ptr)
	return driver.Success
}

func (f *Fake) MemHostAlloc(size uint64, flags driver.HostMemFlags) ([]byte, driver.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("MemHostAlloc")
	if size == 0 {
		return nil, driver.ErrInvalidValue
	}
	buf := make([]byte, size)
	f.pinned[&buf[0]] = buf
	return buf, driver.Success
}

func (f *Fake) MemFreeHost(host []byte) driver.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("MemFreeHost")
	if len(host) == 0 {
		return driver.ErrInvalidValue
	}
	key := &host[0]
	if _, ok := f.pinned[key]; !ok {
		return driver.ErrInvalidValue
	}
	delete(f.pinned, key)
	if ptr, ok := f.mapped[key]; ok {
		delete(f.mapped, key)
		delete(f.allocs, ptr)
	}
	return driver.Success
}

func (f *Fake) MemHostRegister(host []byte, flags driver.HostMemFlags) driver.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("MemHostRegister")
	if len(host) == 0 {
		return driver.ErrInvalidValue
	}
	if f.RegisterResult != driver.Success {
		return f.RegisterResult
	}
	f.pinned[&host[0]] = host
	return driver.Success
}

// MemHostGetDevicePointer maps pinned host memory into the fake address
// space backed by the host slice itself, so device-side copies write
// through to host memory like real unified addressing.
func (f *Fake) MemHostGetDevicePointer(host []byte) (driver.DevPtr, driver.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("MemHostGetDevicePointer")
	if len(host) == 0 {
		return 0, driver.ErrInvalidValue
	}
	key := &host[0]
	if ptr, ok := f.mapped[key]; ok {
		return ptr, driver.Success
	}
	ptr := f.place(host)
	f.mapped[key] = ptr
	return ptr, driver.Success
}

func (f *Fake) SupportsHostRegister() bool {
	return f.HostRegister
}

func (f *Fake) MemcpyHtoD(dst driver.DevPtr, src []byte) driver.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("MemcpyHtoD")
	copy(f.resolve(dst, uint64(len(src))), src)
	return driver.Success
}

func (f *Fake) MemcpyDtoH(dst []byte, src driver.DevPtr) driver.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("MemcpyDtoH")
	copy(dst, f.resolve(src, uint64(len(dst))))
	return driver.Success
}

func (f *Fake) MemcpyDtoD(dst, src driver.DevPtr, size uint64) driver.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("MemcpyDtoD")
	copy(f.resolve(dst, size), f.resolve(src, size))
	return driver.Success
}

func (f *Fake) Memcpy3D(p *driver.Memcpy3D) driver.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("Memcpy3D")
	f.Copies3D = append(f.Copies3D, *p)
	for z := uint64(0); z < p.Depth; z++ {
		for y := uint64(0); y < p.Height; y++ {
			src := f.sideRow(&p.Src, y, z, p.WidthInBytes)
			dst := f.sideRow(&p.Dst, y, z, p.WidthInBytes)
			copy(dst, src)
		}
	}
	return driver.Success
}

// sideRow returns the width-byte row at (y, z) of one side of a 3D copy,
// applying the side's origin, pitch and slice height.
func (f *Fake) sideRow(side *driver.Memcpy3DSide, y, z, width uint64) []byte {
	off := ((side.Z+z)*side.Height+side.Y+y)*side.Pitch + side.XInBytes
	if side.MemoryType == driver.MemoryHost {
		return side.Host[off : off+width]
	}
	return f.resolve(side.Device+driver.DevPtr(off), width)
}

func (f *Fake) ModuleLoad(path string) (driver.Module, driver.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("ModuleLoad")
	if f.ModuleLoadResult != driver.Success {
		return 0, f.ModuleLoadResult
	}
	if _, err := os.Stat(path); err != nil {
		return 0, driver.ErrFileNotFound
	}
	mod := f.nextModule
	f.nextModule++
	f.modules[mod] = path
	return mod, driver.Success
}

func (f *Fake) ModuleGetFunction(mod driver.Module, name string) (driver.Function, driver.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("ModuleGetFunction")
	if f.GetFunctionResult != driver.Success {
		return 0, f.GetFunctionResult
	}
	if _, ok := f.modules[mod]; !ok {
		return 0, driver.ErrInvalidHandle
	}
	fn := f.nextFunc
	f.nextFunc++
	f.functions[fn] = name
	return fn, driver.Success
}

func (f *Fake) LaunchKernel(fn driver.Function, grid, block driver.Dim3, sharedBytes uint32, params []driver.Param) driver.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("LaunchKernel")
	if f.LaunchResult != driver.Success {
		return f.LaunchResult
	}
	rec := Launch{Function: fn, Grid: grid, Block: block, SharedBytes: sharedBytes}
	rec.Params = make([]driver.Param, len(params))
	for i, p := range params {
		cp := p
		cp.Raw = append([]byte(nil), p.Raw...)
		rec.Params[i] = cp
	}
	f.Launches = append(f.Launches, rec)
	return driver.Success
}

func (f *Fake) StreamSynchronize() driver.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("StreamSynchronize")
	return driver.Success
}

var _ driver.API = (*Fake)(nil)
