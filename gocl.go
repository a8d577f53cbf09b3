// Package gocl defines the generic compute-device contract of the gocl
// runtime: the Backend interface each device backend implements, the shared
// device/memory/kernel/command data model, and a registry through which
// backends are discovered by name.
//
// Backends register themselves when imported:
//
//	import (
//		"github.com/gocl-dev/gocl"
//		_ "github.com/gocl-dev/gocl/cuda"
//	)
//
//	backend := must.M1(gocl.New())
//	n := backend.Probe()
//
// New selects the backend named by the GOCL_BACKEND environment variable
// ("cuda" when unset); NewWithConfig takes the selection string explicitly.
// A selection string is "name" or "name:config", where config is passed
// verbatim to the backend's constructor -- e.g. "cuda:devices=2,arch=sm_80".
package gocl

import (
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

const (
	// BackendEnv is the environment variable New consults for the backend
	// selection string.
	BackendEnv = "GOCL_BACKEND"

	// DefaultBackend is selected when BackendEnv is unset or empty.
	DefaultBackend = "cuda"
)

// Constructor builds a backend from the configuration part of a selection
// string (empty when none was given).
type Constructor func(config string) (Backend, error)

var (
	registryMu sync.Mutex
	registry   = make(map[string]Constructor)
)

// Register makes a backend constructor selectable by name. It is expected
// to be called from the backend package's init. Registering the same name
// twice panics.
func Register(name string, ctor Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, found := registry[name]; found {
		exceptions.Panicf("gocl: backend %q registered twice", name)
	}
	registry[name] = ctor
}

// List returns the sorted names of the registered backends.
func List() []string {
	registryMu.Lock()
	defer registryMu.Unlock()
	names := keys(registry)
	slices.Sort(names)
	return names
}

// New creates the backend selected by the GOCL_BACKEND environment
// variable, defaulting to DefaultBackend.
func New() (Backend, error) {
	spec := os.Getenv(BackendEnv)
	if spec == "" {
		spec = DefaultBackend
	}
	return NewWithConfig(spec)
}

// NewWithConfig creates a backend from a selection string of the form
// "name" or "name:config".
func NewWithConfig(spec string) (Backend, error) {
	name, config, _ := strings.Cut(spec, ":")
	registryMu.Lock()
	ctor, found := registry[name]
	registryMu.Unlock()
	if !found {
		return nil, errors.Errorf("gocl: no backend named %q is linked in (registered: %s) -- missing import?",
			name, strings.Join(List(), ", "))
	}
	backend, err := ctor(config)
	if err != nil {
		return nil, errors.WithMessagef(err, "creating backend %q", name)
	}
	klog.V(1).Infof("gocl: created backend %q (config %q)", name, config)
	return backend, nil
}
