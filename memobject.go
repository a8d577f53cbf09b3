package gocl

import "sync"

// MemFlags describe how a memory object relates to caller host memory at
// creation time.
type MemFlags uint32

const (
	// MemUseHostPtr backs the object with the caller's host memory:
	// devices map it directly where the platform supports host-memory
	// registration, and otherwise fall back to device memory kept
	// coherent by copies around every launch that touches the object.
	// Mutually exclusive with MemAllocHostPtr.
	MemUseHostPtr MemFlags = 1 << iota

	// MemAllocHostPtr makes the backend allocate host-pinned memory for
	// the object and map it into the device address space.
	MemAllocHostPtr

	// MemCopyHostPtr copies the caller-supplied initial contents to the
	// device synchronously, right after allocation. Combinable with
	// MemAllocHostPtr.
	MemCopyHostPtr
)

// Slot is one device-side binding of a memory object: the device address,
// and whether kernel launches must bracket it with manual host copies (the
// MemUseHostPtr fallback on platforms without host-memory registration).
type Slot struct {
	Ptr      DevPtr
	HostSync bool
}

// MemObject is one logical buffer of the runtime, shared across devices.
// Device bindings live in a slot table keyed both by device ID and by
// global-memory-group ID: at most one device allocation exists per group,
// and the group's devices alias it.
//
// The slot table is owner-mediated: EnsureSlot runs its allocation callback
// under the object's lock, so concurrent first use from two devices yields
// exactly one allocation.
type MemObject struct {
	Size  uint64
	Flags MemFlags

	// Host is the object's host-visible backing: the caller's memory for
	// MemUseHostPtr and MemCopyHostPtr, pinned memory owned by the
	// backend for MemAllocHostPtr, nil otherwise.
	Host []byte

	mu    sync.Mutex
	slots map[int]Slot
}

// NewMemObject returns a memory object of the given size and flags. The
// caller's host memory, when the flags call for one, is passed to
// Backend.Alloc instead.
func NewMemObject(size uint64, flags MemFlags) *MemObject {
	return &MemObject{Size: size, Flags: flags}
}

// EnsureSlot returns the object's slot for deviceID, invoking alloc only
// when the device's global-memory group has no allocation yet; otherwise
// the group's existing slot is copied into the device's own entry. shared
// reports whether an existing allocation was reused. The callback runs
// under the object's lock.
func (m *MemObject) EnsureSlot(deviceID, groupID int, alloc func() (Slot, error)) (s Slot, shared bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if got, ok := m.slots[groupID]; ok {
		m.slots[deviceID] = got
		return got, true, nil
	}
	s, err = alloc()
	if err != nil {
		return Slot{}, false, err
	}
	if m.slots == nil {
		m.slots = make(map[int]Slot)
	}
	m.slots[groupID] = s
	m.slots[deviceID] = s
	return s, false, nil
}

// SlotFor returns deviceID's binding, if any.
func (m *MemObject) SlotFor(deviceID int) (Slot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[deviceID]
	return s, ok
}

// DropSlot removes the bindings of deviceID and of its global-memory
// group, returning the slot that was bound. Backends call it when freeing;
// exactly-once discipline stays with the caller.
func (m *MemObject) DropSlot(deviceID, groupID int) (Slot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[groupID]
	if !ok {
		s, ok = m.slots[deviceID]
	}
	delete(m.slots, groupID)
	delete(m.slots, deviceID)
	return s, ok
}
