// Package cuda implements the gocl backend for NVIDIA GPUs through the
// CUDA driver API.
//
// Importing the package registers it under the name "cuda"; gocl.New picks
// it up from there. Devices are configured, not enumerated: Probe reports
// the configured count (config key "devices", else GOCL_CUDA_DEVICE_COUNT,
// else one device), and each logical device binds the hardware ordinal
// matching its ID.
//
// Execution is synchronous. Submit drives each command to completion on the
// default stream before returning; there are no internal streams to
// overlap, and Flush has nothing to push. Kernels arrive as intermediate
// representation deposited in the on-disk artifact cache (see the cache
// package) and are lowered to PTX by an external translator on first use.
//
// Device failures are unrecoverable and panic with the failing driver call;
// the one error callers can handle is gocl.ErrAllocFailed from Alloc. See
// gocl.Backend for the full contract.
package cuda

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/gocl-dev/gocl"
	"github.com/gocl-dev/gocl/cache"
	"github.com/gocl-dev/gocl/cuda/driver"
	"github.com/pkg/errors"
)

// BackendName is the name this backend registers under.
const BackendName = "cuda"

// Environment variables consulted where the matching config key is absent.
const (
	// DeviceCountEnv sets how many logical devices Probe reports
	// (config key "devices"). Negative means unset; zero disables the
	// backend.
	DeviceCountEnv = "GOCL_CUDA_DEVICE_COUNT"

	// GPUArchEnv overrides the architecture identifier derived from the
	// compute capability (config key "arch"), e.g. "sm_80".
	GPUArchEnv = "GOCL_CUDA_GPU_ARCH"

	// TranslatorEnv names the external IR translator program (config key
	// "translator").
	TranslatorEnv = "GOCL_PTX_TRANSLATOR"
)

func init() {
	gocl.Register(BackendName, func(config string) (gocl.Backend, error) {
		drv, err := driver.Load()
		if err != nil {
			return nil, err
		}
		return New(drv, config)
	})
}

// Backend implements gocl.Backend on a driver.API. Create with New.
type Backend struct {
	drv        driver.API
	opts       options
	translator Translator
	executor   gocl.Executor

	mu       sync.Mutex
	sessions map[int]*session
	funcs    map[funcKey]driver.Function
}

// funcKey addresses one compiled kernel function in the backend's side
// table: compiled artifacts are per (kernel, device), never stored on the
// kernel itself.
type funcKey struct {
	kernel *gocl.Kernel
	device int
}

// New builds a backend on an explicit driver implementation. The registry
// constructor loads the real driver; tests and embedders may pass their
// own. The config string is the part after "cuda:" of a selection string,
// "key=value" pairs separated by commas (keys: devices, arch, cache,
// translator); config values win over the corresponding environment
// variables.
func New(drv driver.API, config string) (*Backend, error) {
	opts, err := parseOptions(config)
	if err != nil {
		return nil, err
	}
	b := &Backend{
		drv:      drv,
		opts:     opts,
		sessions: make(map[int]*session),
		funcs:    make(map[funcKey]driver.Function),
	}
	b.translator = CommandTranslator{Command: opts.translator}
	b.executor = gocl.SyncExecutor{Backend: b}
	return b, nil
}

// Name implements gocl.Backend.
func (b *Backend) Name() string { return BackendName }

// SetExecutor replaces the executor handling non-execution commands. The
// default gocl.SyncExecutor completes them against this backend's memory
// operations; the outer runtime substitutes its own.
func (b *Backend) SetExecutor(x gocl.Executor) { b.executor = x }

// SetTranslator replaces the kernel IR translator. The default runs the
// configured external program (see CommandTranslator).
func (b *Backend) SetTranslator(tr Translator) { b.translator = tr }

// options are the backend's resolved configuration: config-string keys
// first, environment second, defaults last. Resolved once at construction.
type options struct {
	devices    int
	arch       string
	cacheRoot  string
	translator string
}

func parseOptions(config string) (options, error) {
	opts := options{devices: -1}
	for _, field := range strings.Split(config, ",") {
		if field == "" {
			continue
		}
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			return opts, errors.Errorf("cuda: config %q: want key=value", field)
		}
		switch key {
		case "devices":
			n, err := strconv.Atoi(value)
			if err != nil {
				return opts, errors.Wrapf(err, "cuda: config devices=%q", value)
			}
			opts.devices = n
		case "arch":
			opts.arch = value
		case "cache":
			opts.cacheRoot = value
		case "translator":
			opts.translator = value
		default:
			return opts, errors.Errorf("cuda: unknown config key %q", key)
		}
	}

	if opts.devices < 0 {
		if v := os.Getenv(DeviceCountEnv); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return opts, errors.Wrapf(err, "cuda: %s=%q", DeviceCountEnv, v)
			}
			opts.devices = n
		}
	}
	if opts.devices < 0 {
		opts.devices = 1
	}
	if opts.arch == "" {
		opts.arch = os.Getenv(GPUArchEnv)
	}
	if opts.cacheRoot == "" {
		root, err := cache.Root()
		if err != nil {
			return opts, err
		}
		opts.cacheRoot = root
	}
	if opts.translator == "" {
		opts.translator = os.Getenv(TranslatorEnv)
	}
	if opts.translator == "" {
		opts.translator = DefaultTranslatorCommand
	}
	return opts, nil
}
