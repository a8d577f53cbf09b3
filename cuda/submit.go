package cuda

import (
	"github.com/gocl-dev/gocl"
	"github.com/gocl-dev/gocl/cuda/driver"
	"github.com/gomlx/exceptions"
	"k8s.io/klog/v2"
)

// hostSynced is one memory object on the manual-coherence fallback path
// that a launch has touched: its copy-in already happened during argument
// marshalling, and it owes a copy-back after the launch.
type hostSynced struct {
	m    *gocl.MemObject
	slot gocl.Slot
}

// Submit implements gocl.Backend, driving node's event Submitted ->
// Running -> Complete before returning. Kernel executions are handled
// natively; every other command type is delegated whole to the backend's
// executor, which finishes the event itself.
func (b *Backend) Submit(node *gocl.CommandNode) {
	d := node.Device
	s, release := b.bind(d)
	defer release()

	node.Event.MarkSubmitted()
	if node.Type != gocl.CommandRunKernel {
		b.executor.Exec(node)
		return
	}

	run := node.Run
	fn := b.ensureFunction(d, s, run.Kernel)
	params, sharedBytes, synced := b.marshalArgs(d, run)

	node.Event.MarkRunning()
	klog.V(2).Infof("cuda: launching %s on device %d: groups %v, local %v, %d shared bytes",
		run.Kernel.Name, d.ID, run.Groups, run.Local, sharedBytes)
	check("cuLaunchKernel", b.drv.LaunchKernel(fn,
		driver.Dim3{X: run.Groups[0], Y: run.Groups[1], Z: run.Groups[2]},
		driver.Dim3{X: run.Local[0], Y: run.Local[1], Z: run.Local[2]},
		sharedBytes, params))

	// Host-synced objects see the launch's writes only through an explicit
	// copy-back.
	for _, hs := range synced {
		check("cuMemcpyDtoH", b.drv.MemcpyDtoH(hs.m.Host[:hs.m.Size], driver.DevPtr(hs.slot.Ptr)))
	}
	node.Event.MarkComplete()
}

// marshalArgs lowers a run command's argument snapshot into launch
// parameters, in declared order, laying out the launch's local-memory block
// along the way: each local argument takes the running offset and advances
// it by its size, and the automatic locals in the snapshot's tail continue
// the same counter, so no two local regions alias. The final counter value
// is the launch's shared-memory byte count.
//
// Bound global pointers resolve to the device's slot; a slot on the
// manual-coherence fallback gets its host contents copied in here and is
// returned for the post-launch copy-back.
func (b *Backend) marshalArgs(d *gocl.Device, run *gocl.RunCommand) (params []driver.Param, sharedBytes uint32, synced []hostSynced) {
	k := run.Kernel
	if len(run.Args) != len(k.Args)+k.NumAutoLocals {
		exceptions.Panicf("cuda: %s: argument snapshot has %d entries, kernel declares %d arguments + %d automatic locals",
			k.Name, len(run.Args), len(k.Args), k.NumAutoLocals)
	}

	params = make([]driver.Param, 0, len(run.Args))
	for i, arg := range run.Args {
		// The snapshot's tail entries are the automatic locals, size only.
		auto := i >= len(k.Args)
		switch {
		case auto || (k.Args[i].Kind == gocl.ArgPointer && k.Args[i].Local):
			params = append(params, driver.SharedOffsetParam(sharedBytes))
			sharedBytes += uint32(arg.Size)

		case k.Args[i].Kind == gocl.ArgValue:
			params = append(params, driver.RawParam(arg.Raw))

		case k.Args[i].Kind == gocl.ArgPointer:
			if arg.Mem == nil {
				params = append(params, driver.PointerParam(0))
				continue
			}
			slot, ok := arg.Mem.SlotFor(d.ID)
			if !ok {
				exceptions.Panicf("cuda: argument %d of %s: memory object has no allocation on device %d",
					i, k.Name, d.ID)
			}
			if slot.HostSync {
				check("cuMemcpyHtoD", b.drv.MemcpyHtoD(driver.DevPtr(slot.Ptr), arg.Mem.Host[:arg.Mem.Size]))
				synced = append(synced, hostSynced{m: arg.Mem, slot: slot})
			}
			params = append(params, driver.PointerParam(driver.DevPtr(slot.Ptr)))

		default:
			// Image and sampler arguments: fail loudly rather than hand
			// the kernel a wrong encoding.
			exceptions.Panicf("cuda: argument %d of %s: unhandled kernel argument kind %s",
				i, k.Name, k.Args[i].Kind)
		}
	}
	return params, sharedBytes, synced
}

// Flush implements gocl.Backend. Work is fully dispatched at Submit time,
// so there is nothing to push.
func (b *Backend) Flush(d *gocl.Device) {}

// Join implements gocl.Backend by synchronizing the default stream: a
// full-device barrier, coarser than any single queue's ordering.
func (b *Backend) Join(d *gocl.Device) {
	_, release := b.bind(d)
	defer release()
	check("cuStreamSynchronize", b.drv.StreamSynchronize())
}
