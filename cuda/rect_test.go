package cuda

import (
	"testing"

	"github.com/gocl-dev/gocl"
	"github.com/gocl-dev/gocl/cuda/driver"
	"github.com/gocl-dev/gocl/cuda/internal/drivertest"
	"github.com/stretchr/testify/require"
)

func TestWriteRectDescriptorAndPlacement(t *testing.T) {
	f := drivertest.NewFake()
	b := testBackend(t, f, "")
	d := &gocl.Device{ID: 0}
	b.Init(d)

	m := gocl.NewMemObject(128, 0)
	require.NoError(t, b.Alloc(d, m, nil))
	slot := slotOf(t, m, d)

	host := pattern(64)
	// Host rows of 16 bytes, 4 rows per slice; device rows of 32 bytes
	// starting at byte 4 of row 1, 3 rows per slice.
	hostLayout := gocl.RectLayout{RowPitch: 16, SlicePitch: 64}
	devLayout := gocl.RectLayout{Origin: [3]uint64{4, 1, 0}, RowPitch: 32, SlicePitch: 96}
	region := gocl.Region{Width: 8, Height: 2, Depth: 1}
	b.WriteRect(d, slot.Ptr, devLayout, host, hostLayout, region)

	require.Len(t, f.Copies3D, 1)
	desc := f.Copies3D[0]
	require.Equal(t, driver.MemoryHost, desc.Src.MemoryType)
	require.Equal(t, driver.MemoryDevice, desc.Dst.MemoryType)
	require.Equal(t, uint64(8), desc.WidthInBytes)
	require.Equal(t, uint64(2), desc.Height)
	require.Equal(t, uint64(1), desc.Depth)
	require.Equal(t, uint64(16), desc.Src.Pitch)
	require.Equal(t, uint64(4), desc.Src.Height, "64/16 rows per slice")
	require.Equal(t, uint64(32), desc.Dst.Pitch)
	require.Equal(t, uint64(3), desc.Dst.Height, "96/32 rows per slice")
	require.Equal(t, uint64(4), desc.Dst.XInBytes)
	require.Equal(t, uint64(1), desc.Dst.Y)

	// Row y of the region lands at (1+y)*32 + 4.
	require.Equal(t, host[0:8], f.Bytes(driver.DevPtr(slot.Ptr)+36, 8))
	require.Equal(t, host[16:24], f.Bytes(driver.DevPtr(slot.Ptr)+68, 8))
}

func TestReadRectTruncatesDerivedHeight(t *testing.T) {
	f := drivertest.NewFake()
	b := testBackend(t, f, "")
	d := &gocl.Device{ID: 0}
	b.Init(d)

	m := gocl.NewMemObject(64, 0)
	require.NoError(t, b.Alloc(d, m, nil))
	slot := slotOf(t, m, d)
	contents := pattern(64)
	b.Write(d, slot.Ptr, 0, contents)

	dst := make([]byte, 8)
	// 40/16 is not whole: the derived device-side height truncates to 2.
	devLayout := gocl.RectLayout{RowPitch: 16, SlicePitch: 40}
	hostLayout := gocl.RectLayout{RowPitch: 8, SlicePitch: 8}
	b.ReadRect(d, dst, hostLayout, slot.Ptr, devLayout, gocl.Region{Width: 8, Height: 1, Depth: 1})

	desc := f.Copies3D[len(f.Copies3D)-1]
	require.Equal(t, uint64(2), desc.Src.Height, "40/16 truncates")
	require.Equal(t, uint64(1), desc.Dst.Height)
	require.Equal(t, contents[:8], dst)
}

func TestCopyRectAcrossSlices(t *testing.T) {
	f := drivertest.NewFake()
	b := testBackend(t, f, "")
	d := &gocl.Device{ID: 0}
	b.Init(d)

	src := gocl.NewMemObject(32, 0)
	dst := gocl.NewMemObject(16, 0)
	require.NoError(t, b.Alloc(d, src, nil))
	require.NoError(t, b.Alloc(d, dst, nil))
	srcPtr := slotOf(t, src, d).Ptr
	dstPtr := slotOf(t, dst, d).Ptr

	contents := pattern(32)
	b.Write(d, srcPtr, 0, contents)

	// Two slices of one 4-byte row each: source slices are 16 bytes
	// apart (2 rows of 8), destination slices 8 bytes apart.
	srcLayout := gocl.RectLayout{RowPitch: 8, SlicePitch: 16}
	dstLayout := gocl.RectLayout{RowPitch: 8, SlicePitch: 8}
	b.CopyRect(d, dstPtr, dstLayout, srcPtr, srcLayout, gocl.Region{Width: 4, Height: 1, Depth: 2})

	desc := f.Copies3D[len(f.Copies3D)-1]
	require.Equal(t, driver.MemoryDevice, desc.Src.MemoryType)
	require.Equal(t, driver.MemoryDevice, desc.Dst.MemoryType)
	require.Equal(t, uint64(2), desc.Src.Height)
	require.Equal(t, uint64(1), desc.Dst.Height)

	require.Equal(t, contents[0:4], f.Bytes(driver.DevPtr(dstPtr), 4))
	require.Equal(t, contents[16:20], f.Bytes(driver.DevPtr(dstPtr)+8, 4))
}
