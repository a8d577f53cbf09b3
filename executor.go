package gocl

import "github.com/gomlx/exceptions"

// Executor handles the non-execution commands a backend's Submit delegates
// whole: buffer transfers, mappings, barriers. The outer runtime normally
// supplies its own executor wired to its queue bookkeeping; SyncExecutor is
// a minimal stand-in for tests and simple embedders.
type Executor interface {
	Exec(node *CommandNode)
}

// SyncExecutor completes each delegated command synchronously against the
// backend's memory operations, driving the node's event Running ->
// Complete (Submit marks it Submitted before delegating).
type SyncExecutor struct {
	Backend Backend
}

// Exec implements Executor.
func (x SyncExecutor) Exec(node *CommandNode) {
	d := node.Device
	xfer := node.Xfer
	node.Event.MarkRunning()
	switch node.Type {
	case CommandReadBuffer:
		slot := mustSlot(xfer.Mem, d)
		x.Backend.Read(d, xfer.Host[:xfer.Size], slot.Ptr, xfer.Offset)
	case CommandWriteBuffer:
		slot := mustSlot(xfer.Mem, d)
		x.Backend.Write(d, slot.Ptr, xfer.Offset, xfer.Host[:xfer.Size])
	case CommandCopyBuffer:
		dst := mustSlot(xfer.Mem, d)
		src := mustSlot(xfer.SrcMem, d)
		x.Backend.Copy(d, dst.Ptr, xfer.Offset, src.Ptr, xfer.SrcOffset, xfer.Size)
	case CommandMapBuffer:
		slot := mustSlot(xfer.Mem, d)
		xfer.Mapped = x.Backend.Map(d, slot.Ptr, xfer.Offset, xfer.Size, xfer.Host)
	case CommandUnmapBuffer:
		slot := mustSlot(xfer.Mem, d)
		x.Backend.Unmap(d, xfer.Host, slot.Ptr, xfer.Offset)
	case CommandBarrier:
		x.Backend.Join(d)
	default:
		exceptions.Panicf("gocl: no generic execution for %s commands", node.Type)
	}
	node.Event.MarkComplete()
}

func mustSlot(m *MemObject, d *Device) Slot {
	s, ok := m.SlotFor(d.ID)
	if !ok {
		exceptions.Panicf("gocl: memory object has no allocation on device %d", d.ID)
	}
	return s
}
