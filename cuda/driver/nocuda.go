//go:build !cuda

package driver

import "github.com/pkg/errors"

// Load reports that the binary was built without driver support. Builds
// that should talk to real hardware need the "cuda" tag and a CUDA
// toolkit with libcuda available at link time.
func Load() (API, error) {
	return nil, errors.Errorf("cuda driver support not compiled in, rebuild with -tags cuda")
}
