package cuda

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gocl-dev/gocl"
	"github.com/gocl-dev/gocl/cache"
	"github.com/gocl-dev/gocl/cuda/driver"
	"github.com/gocl-dev/gocl/cuda/internal/drivertest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type translateCall struct {
	ir, out, kernel, arch string
}

// fakeTranslator records its calls and deposits a placeholder artifact, or
// fails when told to.
type fakeTranslator struct {
	calls []translateCall
	fail  error
}

func (ft *fakeTranslator) Translate(irPath, outPath, kernelName, arch string) error {
	ft.calls = append(ft.calls, translateCall{irPath, outPath, kernelName, arch})
	if ft.fail != nil {
		return ft.fail
	}
	return os.WriteFile(outPath, []byte("// translated\n"), 0o644)
}

// seedIR creates the directory a kernel's artifacts live in, as the offline
// compiler would have, and writes a placeholder IR file there.
func seedIR(t *testing.T, b *Backend, d *gocl.Device, k *gocl.Kernel) string {
	t.Helper()
	ir := cache.KernelIRPath(b.opts.cacheRoot, k.Program.ID, d.ID, k.Name)
	require.NoError(t, os.MkdirAll(filepath.Dir(ir), 0o755))
	require.NoError(t, os.WriteFile(ir, []byte("; ir placeholder\n"), 0o644))
	return ir
}

func TestCompileTranslatesOnMiss(t *testing.T) {
	f := drivertest.NewFake()
	b := testBackend(t, f, "")
	d := &gocl.Device{ID: 0}
	b.Init(d)

	ft := &fakeTranslator{}
	b.SetTranslator(ft)

	k := &gocl.Kernel{Name: "vecadd", Program: gocl.NewProgram()}
	ir := seedIR(t, b, d, k)
	b.CompileKernel(d, k)

	require.Len(t, ft.calls, 1)
	call := ft.calls[0]
	require.Equal(t, ir, call.ir)
	require.Equal(t, ir+".ptx", call.out)
	require.Equal(t, "vecadd", call.kernel)
	require.Equal(t, "sm_75", call.arch)

	require.Equal(t, 1, f.Calls("ModuleLoad"))
	require.Equal(t, 1, f.Calls("ModuleGetFunction"))
}

func TestCompileReusesExistingArtifact(t *testing.T) {
	f := drivertest.NewFake()
	b := testBackend(t, f, "")
	d := &gocl.Device{ID: 0}
	b.Init(d)

	ft := &fakeTranslator{}
	b.SetTranslator(ft)

	k := &gocl.Kernel{Name: "vecadd", Program: gocl.NewProgram()}
	seedKernel(t, b, d, k)
	b.CompileKernel(d, k)

	require.Empty(t, ft.calls, "artifact already on disk")
	require.Equal(t, 1, f.Calls("ModuleLoad"))
}

func TestCompileMemoizedPerDevice(t *testing.T) {
	f := drivertest.NewFake()
	b := testBackend(t, f, "devices=2")
	d0 := &gocl.Device{ID: 0}
	d1 := &gocl.Device{ID: 1}
	b.Init(d0)
	b.Init(d1)

	ft := &fakeTranslator{}
	b.SetTranslator(ft)

	k := &gocl.Kernel{Name: "vecadd", Program: gocl.NewProgram()}
	seedIR(t, b, d0, k)
	seedIR(t, b, d1, k)

	b.CompileKernel(d0, k)
	b.CompileKernel(d0, k)
	require.Len(t, ft.calls, 1)
	require.Equal(t, 1, f.Calls("ModuleLoad"))

	// Submitting the compiled kernel reuses the resolved function.
	node := runNode(d0, k, nil, [3]uint32{1, 1, 1}, [3]uint32{1, 1, 1})
	b.Submit(node)
	require.Equal(t, 1, f.Calls("ModuleLoad"))
	require.Len(t, f.Launches, 1)

	// Another device translates and loads its own artifact.
	b.CompileKernel(d1, k)
	require.Len(t, ft.calls, 2)
	require.Equal(t, 2, f.Calls("ModuleLoad"))
	require.NotEqual(t, ft.calls[0].out, ft.calls[1].out)
}

func TestTranslatorFailureIsFatal(t *testing.T) {
	f := drivertest.NewFake()
	b := testBackend(t, f, "")
	d := &gocl.Device{ID: 0}
	b.Init(d)

	ft := &fakeTranslator{fail: errors.New("ptxas exploded")}
	b.SetTranslator(ft)

	k := &gocl.Kernel{Name: "vecadd", Program: gocl.NewProgram()}
	require.Panics(t, func() { b.CompileKernel(d, k) })
	require.Zero(t, f.Calls("ModuleLoad"))
}

func TestModuleLoadFailureIsFatal(t *testing.T) {
	f := drivertest.NewFake()
	f.ModuleLoadResult = driver.ErrNoBinaryForGPU
	b := testBackend(t, f, "")
	d := &gocl.Device{ID: 0}
	b.Init(d)

	k := &gocl.Kernel{Name: "vecadd", Program: gocl.NewProgram()}
	seedKernel(t, b, d, k)
	require.Panics(t, func() { b.CompileKernel(d, k) })
}

func TestMissingKernelSymbolIsFatal(t *testing.T) {
	f := drivertest.NewFake()
	f.GetFunctionResult = driver.ErrNotFound
	b := testBackend(t, f, "")
	d := &gocl.Device{ID: 0}
	b.Init(d)

	k := &gocl.Kernel{Name: "vecadd", Program: gocl.NewProgram()}
	seedKernel(t, b, d, k)
	require.Panics(t, func() { b.CompileKernel(d, k) })
}

func TestCommandTranslatorRunsProgram(t *testing.T) {
	dir := t.TempDir()

	// Stands in for llc: copies the input (last argument) to the -o target.
	script := filepath.Join(dir, "fake-llc")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\ncp \"$5\" \"$4\"\n"), 0o755))

	ir := filepath.Join(dir, "kernel")
	require.NoError(t, os.WriteFile(ir, []byte("; module contents"), 0o644))

	ct := CommandTranslator{Command: script}
	require.NoError(t, ct.Translate(ir, ir+".ptx", "vecadd", "sm_75"))

	out, err := os.ReadFile(ir + ".ptx")
	require.NoError(t, err)
	require.Equal(t, "; module contents", string(out))
}

func TestCommandTranslatorFailures(t *testing.T) {
	dir := t.TempDir()
	ir := filepath.Join(dir, "kernel")
	require.NoError(t, os.WriteFile(ir, []byte("; module contents"), 0o644))

	t.Run("missing program", func(t *testing.T) {
		ct := CommandTranslator{Command: filepath.Join(dir, "no-such-translator")}
		err := ct.Translate(ir, ir+".ptx", "vecadd", "sm_75")
		require.Error(t, err)
		require.ErrorContains(t, err, "translating vecadd")
	})

	t.Run("stderr folded into error", func(t *testing.T) {
		script := filepath.Join(dir, "failing-llc")
		require.NoError(t, os.WriteFile(script,
			[]byte("#!/bin/sh\necho 'fatal: bad arch' >&2\nexit 1\n"), 0o755))
		ct := CommandTranslator{Command: script}
		err := ct.Translate(ir, ir+".ptx", "vecadd", "sm_75")
		require.Error(t, err)
		require.ErrorContains(t, err, "fatal: bad arch")
	})
}
