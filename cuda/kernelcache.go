package cuda

import (
	"os"

	"github.com/gocl-dev/gocl"
	"github.com/gocl-dev/gocl/cache"
	"github.com/gocl-dev/gocl/cuda/driver"
	"github.com/gomlx/exceptions"
	"k8s.io/klog/v2"
)

// CompileKernel implements gocl.Backend, making k runnable on d ahead of
// its first submission. Submit does the same work lazily; compiling here
// keeps translation and module loading out of the command path.
func (b *Backend) CompileKernel(d *gocl.Device, k *gocl.Kernel) {
	s, release := b.bind(d)
	defer release()
	b.ensureFunction(d, s, k)
}

// ensureFunction returns k's resolved device function for d, memoized in
// the backend's (kernel, device) side table.
//
// On a miss, the kernel's machine code is located next to its intermediate
// representation in the artifact cache; when absent it is produced by the
// translator first. Whatever artifact sits at the path is trusted -- there
// is no freshness check against the IR. The module is then loaded and the
// kernel's symbol resolved, both fatal on failure.
//
// Callers must hold d's context binding.
func (b *Backend) ensureFunction(d *gocl.Device, s *session, k *gocl.Kernel) driver.Function {
	key := funcKey{kernel: k, device: d.ID}
	b.mu.Lock()
	fn, ok := b.funcs[key]
	b.mu.Unlock()
	if ok {
		return fn
	}

	irPath := cache.KernelIRPath(b.opts.cacheRoot, k.Program.ID, d.ID, k.Name)
	ptxPath := irPath + ".ptx"
	if _, err := os.Stat(ptxPath); err != nil {
		if err := b.translator.Translate(irPath, ptxPath, k.Name, s.arch); err != nil {
			exceptions.Panicf("cuda: %+v", err)
		}
		klog.V(1).Infof("cuda: translated %s for device %d (%s)", k.Name, d.ID, s.arch)
	}

	mod, rc := b.drv.ModuleLoad(ptxPath)
	check("cuModuleLoad", rc)
	fn, rc = b.drv.ModuleGetFunction(mod, k.Name)
	check("cuModuleGetFunction", rc)

	b.mu.Lock()
	b.funcs[key] = fn
	b.mu.Unlock()
	return fn
}
