package gocl

import "github.com/pkg/errors"

// DevPtr is an address in a device's memory space, opaque to the runtime.
// The zero value is the null device pointer.
type DevPtr uint64

// Region is the extent of a rectangular copy: width in bytes, height in
// rows, depth in slices.
type Region struct {
	Width  uint64
	Height uint64
	Depth  uint64
}

// RectLayout describes how one side of a rectangular copy is laid out in
// its memory space: a 3-D origin (X in bytes, Y in rows, Z in slices) plus
// the row and slice pitches in bytes. The slice pitch must be a multiple of
// the row pitch for the layout to describe disjoint rows; a non-multiple is
// accepted and truncates (see Backend.ReadRect).
type RectLayout struct {
	Origin     [3]uint64
	RowPitch   uint64
	SlicePitch uint64
}

// Backend is the device-specific half of the compute-device contract: one
// implementation per device kind, selected at discovery time through the
// registry (see Register and New). It covers session lifecycle, memory
// object management, kernel compilation and command execution.
//
// Backends execute synchronously: every call blocks until the device work
// it names completes, and Submit drives a command to completion before
// returning. There are no internal streams to overlap.
//
// Failure model: device failures leave the program in an unrecoverable
// state, so failed device operations panic with a diagnostic naming the
// operation and the driver's error. The one exception is Alloc, whose
// device-memory exhaustion on a plain allocation is reported as an error
// matching ErrAllocFailed for the caller to handle.
//
// The outer runtime must serialize command submission per logical queue.
// Memory objects and kernels have defined behavior on concurrent first use
// from different devices, but nothing here orders commands.
type Backend interface {
	// Name of the backend kind, as registered.
	Name() string

	// Probe returns how many devices the backend exposes. Zero means the
	// backend is unavailable. Counts come from configuration, not
	// hardware enumeration.
	Probe() int

	// Init establishes d's session and fills d.Info. Idempotent per
	// device: a second call returns without touching the existing
	// session.
	Init(d *Device)

	// Uninit tears d's session down and invalidates d.Info. It must be
	// called exactly once after a successful Init.
	Uninit(d *Device)

	// Alloc binds a device allocation of m to d. When another device of
	// d's global-memory group already allocated, that allocation is
	// shared instead. hostPtr supplies the caller's host memory where
	// m.Flags calls for it. Exhaustion of device memory on a plain
	// allocation returns an error matching ErrAllocFailed; every other
	// device failure is fatal.
	Alloc(d *Device, m *MemObject, hostPtr []byte) error

	// Free releases d's binding of m: the pinned host memory when
	// MemAllocHostPtr was used, the device allocation otherwise.
	// Exactly-once discipline is the caller's responsibility.
	Free(d *Device, m *MemObject)

	// Read copies len(dst) bytes of device memory from src+offset into
	// dst, blocking until complete.
	Read(d *Device, dst []byte, src DevPtr, offset uint64)

	// Write copies len(src) bytes from src into device memory at
	// dst+offset, blocking until complete.
	Write(d *Device, dst DevPtr, offset uint64, src []byte)

	// Copy moves n bytes device-to-device. A no-op when dst and src are
	// the same base address, regardless of the offsets.
	Copy(d *Device, dst DevPtr, dstOffset uint64, src DevPtr, srcOffset, n uint64)

	// ReadRect copies a 3-D region of device memory into host memory.
	// Each side's rows are addressed through its RectLayout; a layout's
	// height in rows is derived as SlicePitch/RowPitch, truncating.
	ReadRect(d *Device, dst []byte, dstLayout RectLayout, src DevPtr, srcLayout RectLayout, region Region)

	// WriteRect copies a 3-D region of host memory into device memory.
	WriteRect(d *Device, dst DevPtr, dstLayout RectLayout, src []byte, srcLayout RectLayout, region Region)

	// CopyRect copies a 3-D region between device allocations.
	CopyRect(d *Device, dst DevPtr, dstLayout RectLayout, src DevPtr, srcLayout RectLayout, region Region)

	// Map returns host-visible memory exposing n bytes of device memory
	// at base+offset. A non-nil host is returned unchanged with no
	// copying: the region is already host-visible. With a nil host, a
	// fresh staging buffer is returned, filled by one synchronous
	// device-to-host copy.
	Map(d *Device, base DevPtr, offset, n uint64, host []byte) []byte

	// Unmap releases a mapping obtained from Map. A non-nil host is
	// flushed with one synchronous host-to-device copy of len(host) bytes
	// to base+offset and then dropped; nil is a no-op. Note a pre-mapped
	// region is indistinguishable from a staging buffer here: passing one
	// back costs a redundant but harmless write-back.
	Unmap(d *Device, host []byte, base DevPtr, offset uint64)

	// CompileKernel makes k runnable on d ahead of its first submission:
	// translating its intermediate representation if no translated
	// artifact is cached on disk, loading it and resolving the kernel's
	// symbol. Submit does the same lazily.
	CompileKernel(d *Device, k *Kernel)

	// Submit executes one command node synchronously, driving its event
	// Submitted -> Running -> Complete. Non-execution commands are
	// delegated whole to the backend's Executor.
	Submit(node *CommandNode)

	// Flush is a no-op: work is fully dispatched at Submit time.
	Flush(d *Device)

	// Join blocks until all outstanding work on d completes. This is a
	// full-device barrier, coarser than any single queue's ordering.
	Join(d *Device)
}

// ErrAllocFailed signals device-memory exhaustion on a plain device
// allocation, the single recoverable device failure. Match with errors.Is
// on the error returned by Backend.Alloc.
var ErrAllocFailed = errors.New("device memory allocation failed")
