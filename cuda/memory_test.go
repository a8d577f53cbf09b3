package cuda

import (
	"fmt"
	"testing"

	"github.com/chewxy/math32"
	"github.com/gocl-dev/gocl"
	"github.com/gocl-dev/gocl/cuda/driver"
	"github.com/gocl-dev/gocl/cuda/internal/drivertest"
	"github.com/stretchr/testify/require"
)

// pattern returns n distinguishable bytes.
func pattern(n int) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = byte(i*7 + 3)
	}
	return p
}

func slotOf(t *testing.T, m *gocl.MemObject, d *gocl.Device) gocl.Slot {
	t.Helper()
	s, ok := m.SlotFor(d.ID)
	require.True(t, ok, "no slot for device %d", d.ID)
	return s
}

func TestAllocSharesGroupAllocation(t *testing.T) {
	f := drivertest.NewFake()
	b := testBackend(t, f, "devices=3")
	d0 := &gocl.Device{ID: 0, GlobalMemID: 5}
	d1 := &gocl.Device{ID: 1, GlobalMemID: 5}
	d2 := &gocl.Device{ID: 2, GlobalMemID: 7}
	for _, d := range []*gocl.Device{d0, d1, d2} {
		b.Init(d)
	}

	m := gocl.NewMemObject(1024, 0)
	require.NoError(t, b.Alloc(d0, m, nil))
	require.NoError(t, b.Alloc(d1, m, nil))

	// One group, one device allocation: the second device aliases it.
	require.Equal(t, 1, f.Calls("MemAlloc"))
	require.Equal(t, slotOf(t, m, d0), slotOf(t, m, d1))

	// A device of another group allocates its own.
	require.NoError(t, b.Alloc(d2, m, nil))
	require.Equal(t, 2, f.Calls("MemAlloc"))
	require.NotEqual(t, slotOf(t, m, d0).Ptr, slotOf(t, m, d2).Ptr)
}

func TestAllocExhaustionIsRecoverable(t *testing.T) {
	f := drivertest.NewFake()
	b := testBackend(t, f, "")
	d := &gocl.Device{ID: 0}
	b.Init(d)

	f.AllocResult = driver.ErrOutOfMemory
	m := gocl.NewMemObject(1<<20, 0)
	err := b.Alloc(d, m, nil)
	require.ErrorIs(t, err, gocl.ErrAllocFailed)
	require.ErrorContains(t, err, "CUDA_ERROR_OUT_OF_MEMORY")
	fmt.Printf("\texhaustion: %v\n", err)

	// Nothing was bound, and the object is usable once memory frees up.
	_, ok := m.SlotFor(d.ID)
	require.False(t, ok)
	f.AllocResult = driver.Success
	require.NoError(t, b.Alloc(d, m, nil))
}

func TestAllocCopyHostPtrRoundTrip(t *testing.T) {
	f := drivertest.NewFake()
	b := testBackend(t, f, "")
	d := &gocl.Device{ID: 0}
	b.Init(d)

	values := make([]float32, 16)
	for i := range values {
		values[i] = math32.Sqrt(float32(i + 1))
	}
	host := gocl.RawFromSlice(values)
	require.Len(t, host, 64)

	m := gocl.NewMemObject(64, gocl.MemCopyHostPtr)
	require.NoError(t, b.Alloc(d, m, host))
	require.Equal(t, 1, f.Calls("MemcpyHtoD"))

	slot := slotOf(t, m, d)
	require.Equal(t, host, f.Bytes(driver.DevPtr(slot.Ptr), 64))

	got := make([]byte, 64)
	b.Read(d, got, slot.Ptr, 0)
	require.Equal(t, values, gocl.SliceFromRaw[float32](got))
}

func TestAllocUseHostPtrRegistered(t *testing.T) {
	f := drivertest.NewFake()
	b := testBackend(t, f, "")
	d := &gocl.Device{ID: 0}
	b.Init(d)

	host := pattern(128)
	m := gocl.NewMemObject(128, gocl.MemUseHostPtr)
	require.NoError(t, b.Alloc(d, m, host))

	require.Equal(t, 1, f.Calls("MemHostRegister"))
	require.Equal(t, 1, f.Calls("MemHostGetDevicePointer"))
	require.Zero(t, f.Calls("MemAlloc"))

	slot := slotOf(t, m, d)
	require.False(t, slot.HostSync)

	// The device pointer aliases the caller's memory.
	b.Write(d, slot.Ptr, 0, []byte{0xAA, 0xBB})
	require.Equal(t, []byte{0xAA, 0xBB}, host[:2])
}

func TestAllocUseHostPtrAlreadyRegistered(t *testing.T) {
	f := drivertest.NewFake()
	f.RegisterResult = driver.ErrHostMemoryAlreadyRegistered
	b := testBackend(t, f, "")
	d := &gocl.Device{ID: 0}
	b.Init(d)

	// Tolerated: the device pointer is still there to be looked up.
	m := gocl.NewMemObject(64, gocl.MemUseHostPtr)
	require.NoError(t, b.Alloc(d, m, pattern(64)))
	require.Equal(t, 1, f.Calls("MemHostGetDevicePointer"))
}

func TestAllocUseHostPtrRegisterFailureIsFatal(t *testing.T) {
	f := drivertest.NewFake()
	f.RegisterResult = driver.ErrInvalidValue
	b := testBackend(t, f, "")
	d := &gocl.Device{ID: 0}
	b.Init(d)

	m := gocl.NewMemObject(64, gocl.MemUseHostPtr)
	require.Panics(t, func() { _ = b.Alloc(d, m, pattern(64)) })
}

func TestAllocUseHostPtrFallback(t *testing.T) {
	f := drivertest.NewFake()
	f.HostRegister = false
	b := testBackend(t, f, "")
	d := &gocl.Device{ID: 0}
	b.Init(d)

	host := pattern(64)
	m := gocl.NewMemObject(64, gocl.MemUseHostPtr)
	require.NoError(t, b.Alloc(d, m, host))

	// Plain device memory marked for manual coherence; the caller's
	// memory stays the host side.
	require.Equal(t, 1, f.Calls("MemAlloc"))
	require.Zero(t, f.Calls("MemHostRegister"))
	require.True(t, slotOf(t, m, d).HostSync)
	require.Equal(t, &host[0], &m.Host[0])
}

func TestAllocHostPtrPinned(t *testing.T) {
	f := drivertest.NewFake()
	b := testBackend(t, f, "")
	d := &gocl.Device{ID: 0}
	b.Init(d)

	m := gocl.NewMemObject(64, gocl.MemAllocHostPtr)
	require.NoError(t, b.Alloc(d, m, nil))
	require.Equal(t, 1, f.Calls("MemHostAlloc"))
	require.Len(t, m.Host, 64)

	// The mapped device pointer writes through to the pinned memory.
	slot := slotOf(t, m, d)
	b.Write(d, slot.Ptr, 4, []byte{9, 9})
	require.Equal(t, []byte{9, 9}, m.Host[4:6])

	b.Free(d, m)
	require.Equal(t, 1, f.Calls("MemFreeHost"))
	require.Zero(t, f.Calls("MemFree"))
	require.Nil(t, m.Host)
	_, ok := m.SlotFor(d.ID)
	require.False(t, ok)
}

func TestAllocHostPtrWithInitialContents(t *testing.T) {
	f := drivertest.NewFake()
	b := testBackend(t, f, "")
	d := &gocl.Device{ID: 0}
	b.Init(d)

	initial := pattern(32)
	m := gocl.NewMemObject(32, gocl.MemAllocHostPtr|gocl.MemCopyHostPtr)
	require.NoError(t, b.Alloc(d, m, initial))
	require.Equal(t, initial, m.Host)
}

func TestFreeDeviceAllocation(t *testing.T) {
	f := drivertest.NewFake()
	b := testBackend(t, f, "")
	d := &gocl.Device{ID: 0}
	b.Init(d)

	m := gocl.NewMemObject(256, 0)
	require.NoError(t, b.Alloc(d, m, nil))
	b.Free(d, m)
	require.Equal(t, 1, f.Calls("MemFree"))
	_, ok := m.SlotFor(d.ID)
	require.False(t, ok)

	// A second Free finds nothing to release and must not panic; the
	// exactly-once discipline is the caller's.
	b.Free(d, m)
	require.Equal(t, 1, f.Calls("MemFree"))
}

func TestReadWriteAtOffsets(t *testing.T) {
	f := drivertest.NewFake()
	b := testBackend(t, f, "")
	d := &gocl.Device{ID: 0}
	b.Init(d)

	m := gocl.NewMemObject(64, 0)
	require.NoError(t, b.Alloc(d, m, nil))
	slot := slotOf(t, m, d)

	payload := pattern(8)
	b.Write(d, slot.Ptr, 8, payload)
	require.Equal(t, payload, f.Bytes(driver.DevPtr(slot.Ptr)+8, 8))

	got := make([]byte, 4)
	b.Read(d, got, slot.Ptr, 10)
	require.Equal(t, payload[2:6], got)
}

func TestCopySameBaseIsNoOp(t *testing.T) {
	f := drivertest.NewFake()
	b := testBackend(t, f, "")
	d := &gocl.Device{ID: 0}
	b.Init(d)

	m := gocl.NewMemObject(64, 0)
	require.NoError(t, b.Alloc(d, m, nil))
	slot := slotOf(t, m, d)

	// Same base address: zero driver calls, not even a context bind.
	binds := f.Calls("CtxSetCurrent")
	b.Copy(d, slot.Ptr, 0, slot.Ptr, 32, 16)
	require.Zero(t, f.Calls("MemcpyDtoD"))
	require.Equal(t, binds, f.Calls("CtxSetCurrent"))
}

func TestCopyBetweenAllocations(t *testing.T) {
	f := drivertest.NewFake()
	b := testBackend(t, f, "")
	d := &gocl.Device{ID: 0}
	b.Init(d)

	src := gocl.NewMemObject(64, 0)
	dst := gocl.NewMemObject(64, 0)
	require.NoError(t, b.Alloc(d, src, nil))
	require.NoError(t, b.Alloc(d, dst, nil))

	payload := pattern(32)
	b.Write(d, slotOf(t, src, d).Ptr, 0, payload)
	b.Copy(d, slotOf(t, dst, d).Ptr, 16, slotOf(t, src, d).Ptr, 0, 32)
	require.Equal(t, 1, f.Calls("MemcpyDtoD"))

	got := make([]byte, 32)
	b.Read(d, got, slotOf(t, dst, d).Ptr, 16)
	require.Equal(t, payload, got)
}

func TestMapUnmap(t *testing.T) {
	f := drivertest.NewFake()
	b := testBackend(t, f, "")
	d := &gocl.Device{ID: 0}
	b.Init(d)

	m := gocl.NewMemObject(64, 0)
	require.NoError(t, b.Alloc(d, m, nil))
	slot := slotOf(t, m, d)
	contents := pattern(64)
	b.Write(d, slot.Ptr, 0, contents)

	t.Run("host-visible passthrough", func(t *testing.T) {
		host := make([]byte, 16)
		reads := f.Calls("MemcpyDtoH")
		got := b.Map(d, slot.Ptr, 0, 16, host)
		require.Equal(t, &host[0], &got[0])
		require.Equal(t, reads, f.Calls("MemcpyDtoH"), "passthrough must not copy")
	})

	t.Run("staging buffer", func(t *testing.T) {
		reads := f.Calls("MemcpyDtoH")
		got := b.Map(d, slot.Ptr, 8, 16, nil)
		require.Equal(t, contents[8:24], got)
		require.Equal(t, reads+1, f.Calls("MemcpyDtoH"))

		// Unmap writes the staging buffer back.
		writes := f.Calls("MemcpyHtoD")
		copy(got, pattern(16)[8:])
		b.Unmap(d, got, slot.Ptr, 8)
		require.Equal(t, writes+1, f.Calls("MemcpyHtoD"))
		require.Equal(t, got, f.Bytes(driver.DevPtr(slot.Ptr)+8, 16))
	})

	t.Run("nil unmap is a no-op", func(t *testing.T) {
		writes := f.Calls("MemcpyHtoD")
		b.Unmap(d, nil, slot.Ptr, 0)
		require.Equal(t, writes, f.Calls("MemcpyHtoD"))
	})
}
