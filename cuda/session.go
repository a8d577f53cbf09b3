package cuda

import (
	"fmt"
	"runtime"

	"github.com/dustin/go-humanize"
	"github.com/gocl-dev/gocl"
	"github.com/gocl-dev/gocl/cuda/driver"
	"github.com/gomlx/exceptions"
	"k8s.io/klog/v2"
)

// session is one logical device's live driver state: created by the first
// Init, destroyed exactly once by Uninit.
type session struct {
	dev  driver.Device
	ctx  driver.Context
	arch string

	// hostRegister reports whether the platform can register caller host
	// memory. When false, MemUseHostPtr objects fall back to device
	// memory kept coherent by copies around every launch.
	hostRegister bool
}

// check panics when a driver call fails. Device failures leave the process
// in an unrecoverable state, so every failure except plain allocation
// exhaustion is fatal; the panic value carries the operation, the driver's
// symbolic error name and a stack trace.
func check(op string, rc driver.Result) {
	if rc != driver.Success {
		exceptions.Panicf("cuda: %s failed: %s (%s)", op, rc.Name(), rc.Description())
	}
}

// session returns d's live session, panicking when Init has not run.
func (b *Backend) session(d *gocl.Device) *session {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.sessions[d.ID]
	if s == nil {
		exceptions.Panicf("cuda: device %d has no live session (missing Init?)", d.ID)
	}
	return s
}

// bind pins the calling goroutine to its OS thread and makes d's context
// current on it; the returned release undoes the pinning. Contexts are
// per-thread driver state, so every device-touching operation runs inside
// a bind.
func (b *Backend) bind(d *gocl.Device) (*session, func()) {
	s := b.session(d)
	runtime.LockOSThread()
	check("cuCtxSetCurrent", b.drv.CtxSetCurrent(s.ctx))
	return s, runtime.UnlockOSThread
}

// Probe implements gocl.Backend. The count is configuration, not hardware
// enumeration: the "devices" config key, else DeviceCountEnv, else one
// device. Zero disables the backend.
func (b *Backend) Probe() int {
	return b.opts.devices
}

// Init implements gocl.Backend. The first call for a device creates its
// driver context and fills d.Info; later calls return immediately.
func (b *Backend) Init(d *gocl.Device) {
	// Driver initialization is cheap to repeat and must precede every
	// other driver call, including the ones below on the first-init path.
	check("cuInit", b.drv.Init())

	b.mu.Lock()
	_, live := b.sessions[d.ID]
	b.mu.Unlock()
	if live {
		return
	}

	dev, rc := b.drv.DeviceGet(d.ID)
	check("cuDeviceGet", rc)

	info := &d.Info
	name, rc := b.drv.DeviceGetName(dev)
	if rc != driver.Success {
		klog.Warningf("cuda: device %d name query failed: %s", d.ID, rc.Name())
	}
	info.Name = name

	attr := func(a driver.DeviceAttribute) int {
		v, rc := b.drv.DeviceGetAttribute(a, dev)
		check("cuDeviceGetAttribute", rc)
		return v
	}
	info.MaxWorkGroupSize = attr(driver.AttrMaxThreadsPerBlock)
	info.MaxWorkItemSizes = [3]int{
		attr(driver.AttrMaxBlockDimX),
		attr(driver.AttrMaxBlockDimY),
		attr(driver.AttrMaxBlockDimZ),
	}
	info.LocalMemSize = uint64(attr(driver.AttrMaxSharedMemoryPerMultiprocessor))
	info.ConstantMemSize = uint64(attr(driver.AttrTotalConstantMemory))
	info.ComputeUnits = attr(driver.AttrMultiprocessorCount)
	info.ClockRateKHz = attr(driver.AttrClockRate)
	info.ECC = attr(driver.AttrEccEnabled) != 0
	info.Integrated = attr(driver.AttrIntegrated) != 0
	info.ComputeCapability = [2]int{
		attr(driver.AttrComputeCapabilityMajor),
		attr(driver.AttrComputeCapabilityMinor),
	}

	// Facts that hold for every CUDA device. The device exposes its own
	// memory space even when integrated, and local memory is real on-chip
	// scratch. Kernels are lowered scalar, one lane per work-item.
	info.HostUnifiedMemory = false
	info.DedicatedLocalMem = true
	info.AddressBits = 64
	info.TargetTriple = "nvptx64-nvidia-cuda"
	info.ImageSupport = false
	widths := gocl.VectorWidths{Char: 1, Short: 1, Int: 1, Long: 1, Half: 0, Float: 1, Double: 1}
	info.PreferredVectorWidths = widths
	info.NativeVectorWidths = widths
	info.SingleFPConfig = gocl.FPDenorm | gocl.FPInfNaN | gocl.FPRoundToNearest |
		gocl.FPRoundToZero | gocl.FPRoundToInf | gocl.FPFMA
	info.DoubleFPConfig = info.SingleFPConfig

	info.Arch = fmt.Sprintf("sm_%d%d", info.ComputeCapability[0], info.ComputeCapability[1])
	if b.opts.arch != "" {
		info.Arch = b.opts.arch
	}
	klog.V(1).Infof("cuda: device %d gpu architecture = %s", d.ID, info.Arch)

	ctx, rc := b.drv.CtxCreate(driver.CtxMapHost, dev)
	check("cuCtxCreate", rc)

	_, total, rc := b.drv.MemGetInfo()
	check("cuMemGetInfo", rc)
	info.GlobalMemSize = total
	// Cap single allocations so one buffer cannot starve the runtime and
	// driver of device memory.
	info.MaxAllocSize = max(total/4, 128<<20)

	s := &session{dev: dev, ctx: ctx, arch: info.Arch, hostRegister: b.drv.SupportsHostRegister()}
	b.mu.Lock()
	b.sessions[d.ID] = s
	b.mu.Unlock()

	klog.V(1).Infof("cuda: device %d (%s) initialized: %s global memory, %s max allocation",
		d.ID, info.Name, humanize.IBytes(info.GlobalMemSize), humanize.IBytes(info.MaxAllocSize))
}

// Uninit implements gocl.Backend, tearing down d's session. Exactly one
// call must follow a successful Init; calling with no live session panics.
func (b *Backend) Uninit(d *gocl.Device) {
	b.mu.Lock()
	s := b.sessions[d.ID]
	if s != nil {
		delete(b.sessions, d.ID)
		// Compiled function handles died with the context.
		for key := range b.funcs {
			if key.device == d.ID {
				delete(b.funcs, key)
			}
		}
	}
	b.mu.Unlock()
	if s == nil {
		exceptions.Panicf("cuda: Uninit of device %d without a live session", d.ID)
	}

	if rc := b.drv.CtxDestroy(s.ctx); rc != driver.Success {
		klog.Errorf("cuda: destroying device %d context: %s", d.ID, rc.Name())
	}
	d.Info = gocl.DeviceInfo{}
	klog.V(1).Infof("cuda: device %d uninitialized", d.ID)
}
