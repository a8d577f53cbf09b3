//go:build cuda

package driver

/*
#cgo LDFLAGS: -lcuda
#include <stdlib.h>
#include <cuda.h>
*/
import "C"
import (
	"runtime"
	"unsafe"
)

// Load returns the driver implementation linked against libcuda.
func Load() (API, error) {
	return api{}, nil
}

// api implements API through cgo. Handles are stored as the driver's raw
// pointers widened into the package's handle types.
type api struct{}

func (api) Init() Result {
	return Result(C.cuInit(0))
}

func (api) DeviceGet(ordinal int) (Device, Result) {
	var dev C.CUdevice
	rc := C.cuDeviceGet(&dev, C.int(ordinal))
	return Device(dev), Result(rc)
}

func (api) DeviceGetName(dev Device) (string, Result) {
	var buf [256]C.char
	rc := C.cuDeviceGetName(&buf[0], C.int(len(buf)), C.CUdevice(dev))
	return C.GoString(&buf[0]), Result(rc)
}

func (api) DeviceGetAttribute(attr DeviceAttribute, dev Device) (int, Result) {
	var value C.int
	rc := C.cuDeviceGetAttribute(&value, C.CUdevice_attribute(attr), C.CUdevice(dev))
	return int(value), Result(rc)
}

func (api) CtxCreate(flags CtxFlags, dev Device) (Context, Result) {
	var ctx C.CUcontext
	rc := C.cuCtxCreate(&ctx, C.uint(flags), C.CUdevice(dev))
	return Context(uintptr(unsafe.Pointer(ctx))), Result(rc)
}

func (api) CtxSetCurrent(ctx Context) Result {
	return Result(C.cuCtxSetCurrent(C.CUcontext(unsafe.Pointer(ctx))))
}

func (api) CtxDestroy(ctx Context) Result {
	return Result(C.cuCtxDestroy(C.CUcontext(unsafe.Pointer(ctx))))
}

func (api) MemGetInfo() (free, total uint64, rc Result) {
	var cFree, cTotal C.size_t
	r := C.cuMemGetInfo(&cFree, &cTotal)
	return uint64(cFree), uint64(cTotal), Result(r)
}

func (api) MemAlloc(size uint64) (DevPtr, Result) {
	var ptr C.CUdeviceptr
	rc := C.cuMemAlloc(&ptr, C.size_t(size))
	return DevPtr(ptr), Result(rc)
}

func (api) MemFree(ptr DevPtr) Result {
	return Result(C.cuMemFree(C.CUdeviceptr(ptr)))
}

func (api) MemHostAlloc(size uint64, flags HostMemFlags) ([]byte, Result) {
	var p unsafe.Pointer
	rc := C.cuMemHostAlloc(&p, C.size_t(size), C.uint(flags))
	if Result(rc) != Success {
		return nil, Result(rc)
	}
	return unsafe.Slice((*byte)(p), size), Success
}

func (api) MemFreeHost(host []byte) Result {
	if len(host) == 0 {
		return Success
	}
	return Result(C.cuMemFreeHost(unsafe.Pointer(&host[0])))
}

func (api) MemHostRegister(host []byte, flags HostMemFlags) Result {
	if len(host) == 0 {
		return ErrInvalidValue
	}
	return Result(C.cuMemHostRegister(unsafe.Pointer(&host[0]), C.size_t(len(host)), C.uint(flags)))
}

func (api) MemHostGetDevicePointer(host []byte) (DevPtr, Result) {
	if len(host) == 0 {
		return 0, ErrInvalidValue
	}
	var ptr C.CUdeviceptr
	rc := C.cuMemHostGetDevicePointer(&ptr, unsafe.Pointer(&host[0]), 0)
	return DevPtr(ptr), Result(rc)
}

// cuMemHostRegister is unimplemented on 32-bit ARM platforms.
func (api) SupportsHostRegister() bool {
	return runtime.GOARCH != "arm"
}

func (api) MemcpyHtoD(dst DevPtr, src []byte) Result {
	if len(src) == 0 {
		return Success
	}
	return Result(C.cuMemcpyHtoD(C.CUdeviceptr(dst), unsafe.Pointer(&src[0]), C.size_t(len(src))))
}

func (api) MemcpyDtoH(dst []byte, src DevPtr) Result {
	if len(dst) == 0 {
		return Success
	}
	return Result(C.cuMemcpyDtoH(unsafe.Pointer(&dst[0]), C.CUdeviceptr(src), C.size_t(len(dst))))
}

func (api) MemcpyDtoD(dst, src DevPtr, size uint64) Result {
	return Result(C.cuMemcpyDtoD(C.CUdeviceptr(dst), C.CUdeviceptr(src), C.size_t(size)))
}

func (api) Memcpy3D(p *Memcpy3D) Result {
	var c C.CUDA_MEMCPY3D
	c.WidthInBytes = C.size_t(p.WidthInBytes)
	c.Height = C.size_t(p.Height)
	c.Depth = C.size_t(p.Depth)

	c.srcMemoryType = C.CUmemorytype(p.Src.MemoryType)
	if p.Src.MemoryType == MemoryHost {
		c.srcHost = unsafe.Pointer(&p.Src.Host[0])
	} else {
		c.srcDevice = C.CUdeviceptr(p.Src.Device)
	}
	c.srcXInBytes = C.size_t(p.Src.XInBytes)
	c.srcY = C.size_t(p.Src.Y)
	c.srcZ = C.size_t(p.Src.Z)
	c.srcPitch = C.size_t(p.Src.Pitch)
	c.srcHeight = C.size_t(p.Src.Height)

	c.dstMemoryType = C.CUmemorytype(p.Dst.MemoryType)
	if p.Dst.MemoryType == MemoryHost {
		c.dstHost = unsafe.Pointer(&p.Dst.Host[0])
	} else {
		c.dstDevice = C.CUdeviceptr(p.Dst.Device)
	}
	c.dstXInBytes = C.size_t(p.Dst.XInBytes)
	c.dstY = C.size_t(p.Dst.Y)
	c.dstZ = C.size_t(p.Dst.Z)
	c.dstPitch = C.size_t(p.Dst.Pitch)
	c.dstHeight = C.size_t(p.Dst.Height)

	rc := C.cuMemcpy3D(&c)
	runtime.KeepAlive(p)
	return Result(rc)
}

func (api) ModuleLoad(path string) (Module, Result) {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))
	var mod C.CUmodule
	rc := C.cuModuleLoad(&mod, cPath)
	return Module(uintptr(unsafe.Pointer(mod))), Result(rc)
}

func (api) ModuleGetFunction(mod Module, name string) (Function, Result) {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	var fn C.CUfunction
	rc := C.cuModuleGetFunction(&fn, C.CUmodule(unsafe.Pointer(mod)), cName)
	return Function(uintptr(unsafe.Pointer(fn))), Result(rc)
}

func (api) LaunchKernel(fn Function, grid, block Dim3, sharedBytes uint32, params []Param) Result {
	// The driver consumes the parameter block before cuLaunchKernel
	// returns, so C-heap copies scoped to this call are enough. Copying
	// also keeps Go pointers out of the table, per cgo pointer rules.
	var kernelParams *unsafe.Pointer
	if len(params) > 0 {
		table := C.malloc(C.size_t(len(params)) * C.size_t(unsafe.Sizeof(unsafe.Pointer(nil))))
		defer C.free(table)
		slots := unsafe.Slice((*unsafe.Pointer)(table), len(params))
		for i, p := range params {
			var block unsafe.Pointer
			switch p.Kind {
			case ParamRaw:
				block = C.CBytes(p.Raw)
			case ParamPointer:
				block = C.malloc(C.size_t(unsafe.Sizeof(C.CUdeviceptr(0))))
				*(*C.CUdeviceptr)(block) = C.CUdeviceptr(p.Ptr)
			case ParamSharedOffset:
				block = C.malloc(C.size_t(unsafe.Sizeof(C.uint(0))))
				*(*C.uint)(block) = C.uint(p.Offset)
			}
			slots[i] = block
			defer C.free(block)
		}
		kernelParams = (*unsafe.Pointer)(table)
	}
	return Result(C.cuLaunchKernel(C.CUfunction(unsafe.Pointer(fn)),
		C.uint(grid.X), C.uint(grid.Y), C.uint(grid.Z),
		C.uint(block.X), C.uint(block.Y), C.uint(block.Z),
		C.uint(sharedBytes), nil, kernelParams, nil))
}

func (api) StreamSynchronize() Result {
	return Result(C.cuStreamSynchronize(nil))
}
