package cuda

import (
	"github.com/gocl-dev/gocl"
	"github.com/gocl-dev/gocl/cuda/driver"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Alloc implements gocl.Backend. The allocation strategy follows the
// object's flags; the resulting slot is shared by every device of d's
// global-memory group, so at most one device allocation exists per group.
func (b *Backend) Alloc(d *gocl.Device, m *gocl.MemObject, hostPtr []byte) error {
	s, release := b.bind(d)
	defer release()

	_, shared, err := m.EnsureSlot(d.ID, d.GlobalMemID, func() (gocl.Slot, error) {
		slot, err := b.allocate(d, s, m, hostPtr)
		if err != nil {
			return gocl.Slot{}, err
		}
		if m.Flags&gocl.MemCopyHostPtr != 0 {
			check("cuMemcpyHtoD", b.drv.MemcpyHtoD(driver.DevPtr(slot.Ptr), hostPtr[:m.Size]))
		}
		return slot, nil
	})
	if err != nil {
		return err
	}
	if shared {
		klog.V(2).Infof("cuda: device %d shares the group %d allocation of a %d-byte object",
			d.ID, d.GlobalMemID, m.Size)
	}
	return nil
}

// allocate performs one device allocation of m according to its flags. It
// runs under the object's lock, inside EnsureSlot.
func (b *Backend) allocate(d *gocl.Device, s *session, m *gocl.MemObject, hostPtr []byte) (gocl.Slot, error) {
	switch {
	case m.Flags&gocl.MemUseHostPtr != 0:
		if !s.hostRegister {
			// No host-memory registration on this platform: back the
			// object with device memory and mark it for manual copies
			// around every launch.
			ptr, rc := b.drv.MemAlloc(m.Size)
			check("cuMemAlloc", rc)
			m.Host = hostPtr[:m.Size]
			return gocl.Slot{Ptr: gocl.DevPtr(ptr), HostSync: true}, nil
		}
		rc := b.drv.MemHostRegister(hostPtr[:m.Size], driver.HostMemDeviceMap)
		if rc == driver.ErrHostMemoryAlreadyRegistered {
			klog.Warningf("cuda: host memory of a %d-byte object was already registered", m.Size)
		} else {
			check("cuMemHostRegister", rc)
		}
		ptr, rc := b.drv.MemHostGetDevicePointer(hostPtr[:m.Size])
		check("cuMemHostGetDevicePointer", rc)
		m.Host = hostPtr[:m.Size]
		return gocl.Slot{Ptr: gocl.DevPtr(ptr)}, nil

	case m.Flags&gocl.MemAllocHostPtr != 0:
		host, rc := b.drv.MemHostAlloc(m.Size, driver.HostMemDeviceMap)
		check("cuMemHostAlloc", rc)
		ptr, rc := b.drv.MemHostGetDevicePointer(host)
		check("cuMemHostGetDevicePointer", rc)
		m.Host = host
		return gocl.Slot{Ptr: gocl.DevPtr(ptr)}, nil

	default:
		ptr, rc := b.drv.MemAlloc(m.Size)
		if rc != driver.Success {
			// The one recoverable device failure: the runtime may free
			// something and retry.
			return gocl.Slot{}, errors.Wrapf(gocl.ErrAllocFailed,
				"cuda: %d bytes on device %d (%s)", m.Size, d.ID, rc.Name())
		}
		return gocl.Slot{Ptr: gocl.DevPtr(ptr)}, nil
	}
}

// Free implements gocl.Backend. Release failures are logged, never fatal.
func (b *Backend) Free(d *gocl.Device, m *gocl.MemObject) {
	_, release := b.bind(d)
	defer release()

	slot, ok := m.DropSlot(d.ID, d.GlobalMemID)
	if !ok {
		klog.Errorf("cuda: Free of a memory object with no allocation on device %d", d.ID)
		return
	}
	if m.Flags&gocl.MemAllocHostPtr != 0 {
		if rc := b.drv.MemFreeHost(m.Host); rc != driver.Success {
			klog.Errorf("cuda: freeing pinned host memory of a %d-byte object: %s", m.Size, rc.Name())
		}
		m.Host = nil
		return
	}
	// Registered caller memory is released through its device pointer like
	// a plain allocation; the registration itself is never undone.
	if rc := b.drv.MemFree(driver.DevPtr(slot.Ptr)); rc != driver.Success {
		klog.Errorf("cuda: freeing %d device bytes: %s", m.Size, rc.Name())
	}
}

// Read implements gocl.Backend.
func (b *Backend) Read(d *gocl.Device, dst []byte, src gocl.DevPtr, offset uint64) {
	_, release := b.bind(d)
	defer release()
	check("cuMemcpyDtoH", b.drv.MemcpyDtoH(dst, driver.DevPtr(src)+driver.DevPtr(offset)))
}

// Write implements gocl.Backend.
func (b *Backend) Write(d *gocl.Device, dst gocl.DevPtr, offset uint64, src []byte) {
	_, release := b.bind(d)
	defer release()
	check("cuMemcpyHtoD", b.drv.MemcpyHtoD(driver.DevPtr(dst)+driver.DevPtr(offset), src))
}

// Copy implements gocl.Backend. Identical base addresses mean the source
// and destination are the same allocation; the runtime uses that shape for
// self-copies, which need no work and issue no driver call at all.
func (b *Backend) Copy(d *gocl.Device, dst gocl.DevPtr, dstOffset uint64, src gocl.DevPtr, srcOffset, n uint64) {
	if dst == src {
		return
	}
	_, release := b.bind(d)
	defer release()
	check("cuMemcpyDtoD", b.drv.MemcpyDtoD(
		driver.DevPtr(dst)+driver.DevPtr(dstOffset),
		driver.DevPtr(src)+driver.DevPtr(srcOffset), n))
}

// hostSide describes host memory as one side of a 3-D copy. The side's
// height in rows is SlicePitch/RowPitch, truncating when the slice pitch is
// not a row-pitch multiple.
func hostSide(host []byte, layout gocl.RectLayout) driver.Memcpy3DSide {
	return driver.Memcpy3DSide{
		MemoryType: driver.MemoryHost,
		Host:       host,
		XInBytes:   layout.Origin[0],
		Y:          layout.Origin[1],
		Z:          layout.Origin[2],
		Pitch:      layout.RowPitch,
		Height:     layout.SlicePitch / layout.RowPitch,
	}
}

// deviceSide describes device memory as one side of a 3-D copy.
func deviceSide(ptr gocl.DevPtr, layout gocl.RectLayout) driver.Memcpy3DSide {
	return driver.Memcpy3DSide{
		MemoryType: driver.MemoryDevice,
		Device:     driver.DevPtr(ptr),
		XInBytes:   layout.Origin[0],
		Y:          layout.Origin[1],
		Z:          layout.Origin[2],
		Pitch:      layout.RowPitch,
		Height:     layout.SlicePitch / layout.RowPitch,
	}
}

// ReadRect implements gocl.Backend.
func (b *Backend) ReadRect(d *gocl.Device, dst []byte, dstLayout gocl.RectLayout, src gocl.DevPtr, srcLayout gocl.RectLayout, region gocl.Region) {
	_, release := b.bind(d)
	defer release()
	check("cuMemcpy3D", b.drv.Memcpy3D(&driver.Memcpy3D{
		WidthInBytes: region.Width,
		Height:       region.Height,
		Depth:        region.Depth,
		Src:          deviceSide(src, srcLayout),
		Dst:          hostSide(dst, dstLayout),
	}))
}

// WriteRect implements gocl.Backend.
func (b *Backend) WriteRect(d *gocl.Device, dst gocl.DevPtr, dstLayout gocl.RectLayout, src []byte, srcLayout gocl.RectLayout, region gocl.Region) {
	_, release := b.bind(d)
	defer release()
	check("cuMemcpy3D", b.drv.Memcpy3D(&driver.Memcpy3D{
		WidthInBytes: region.Width,
		Height:       region.Height,
		Depth:        region.Depth,
		Src:          hostSide(src, srcLayout),
		Dst:          deviceSide(dst, dstLayout),
	}))
}

// CopyRect implements gocl.Backend.
func (b *Backend) CopyRect(d *gocl.Device, dst gocl.DevPtr, dstLayout gocl.RectLayout, src gocl.DevPtr, srcLayout gocl.RectLayout, region gocl.Region) {
	_, release := b.bind(d)
	defer release()
	check("cuMemcpy3D", b.drv.Memcpy3D(&driver.Memcpy3D{
		WidthInBytes: region.Width,
		Height:       region.Height,
		Depth:        region.Depth,
		Src:          deviceSide(src, srcLayout),
		Dst:          deviceSide(dst, dstLayout),
	}))
}

// Map implements gocl.Backend. A non-nil host means the region is already
// host-visible and is returned unchanged, with no copying; nil gets a fresh
// staging buffer filled by one synchronous device-to-host copy.
func (b *Backend) Map(d *gocl.Device, base gocl.DevPtr, offset, n uint64, host []byte) []byte {
	if host != nil {
		return host
	}
	_, release := b.bind(d)
	defer release()
	staging := make([]byte, n)
	check("cuMemcpyDtoH", b.drv.MemcpyDtoH(staging, driver.DevPtr(base)+driver.DevPtr(offset)))
	return staging
}

// Unmap implements gocl.Backend. Only staging buffers need the write-back;
// nil marks a mapping that was already host-visible. A pre-mapped region
// passed back non-nil costs one redundant but harmless write-back, since
// the two cases are indistinguishable here.
func (b *Backend) Unmap(d *gocl.Device, host []byte, base gocl.DevPtr, offset uint64) {
	if host == nil {
		return
	}
	_, release := b.bind(d)
	defer release()
	check("cuMemcpyHtoD", b.drv.MemcpyHtoD(driver.DevPtr(base)+driver.DevPtr(offset), host))
}
