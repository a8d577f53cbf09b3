// Package cache defines where kernel build artifacts live on disk.
//
// The layout is a contract shared between the outer runtime, which writes
// each kernel's intermediate representation before handing the kernel to a
// backend, and the backends, which read the IR and leave translated machine
// code next to it. Artifacts are addressed purely by path -- program
// identity, device index and kernel name -- with no freshness or
// content-hash checking: whatever sits at the path is trusted.
package cache

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
)

// RootEnv overrides the cache root directory when set.
const RootEnv = "GOCL_CACHE_DIR"

// Root returns the kernel cache root: RootEnv when set, otherwise a "gocl"
// directory under the OS user cache directory.
func Root() (string, error) {
	if dir := os.Getenv(RootEnv); dir != "" {
		return dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", errors.Wrap(err, "resolving kernel cache root")
	}
	return filepath.Join(base, "gocl"), nil
}

// KernelIRPath returns the canonical location of a kernel's intermediate
// representation: <root>/<program-id>/<device-index>/<kernel-name>.
// Backends derive their translated artifacts from this path.
func KernelIRPath(root, programID string, deviceIndex int, kernelName string) string {
	return filepath.Join(root, programID, strconv.Itoa(deviceIndex), kernelName)
}
