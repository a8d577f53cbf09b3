package driver

import "fmt"

// Result is the status code every driver verb returns, numerically equal
// to the driver's error codes. Success is zero. Result implements error so
// failures can be wrapped or matched directly; Name and Description mirror
// what the driver's error-name and error-string queries report.
type Result int

const (
	Success                        Result = 0
	ErrInvalidValue                Result = 1
	ErrOutOfMemory                 Result = 2
	ErrNotInitialized              Result = 3
	ErrDeinitialized               Result = 4
	ErrNoDevice                    Result = 100
	ErrInvalidDevice               Result = 101
	ErrInvalidImage                Result = 200
	ErrInvalidContext              Result = 201
	ErrMapFailed                   Result = 205
	ErrUnmapFailed                 Result = 206
	ErrNoBinaryForGPU              Result = 209
	ErrInvalidSource               Result = 300
	ErrFileNotFound                Result = 301
	ErrSharedObjectInitFailed      Result = 303
	ErrOperatingSystem             Result = 304
	ErrInvalidHandle               Result = 400
	ErrNotFound                    Result = 500
	ErrNotReady                    Result = 600
	ErrIllegalAddress              Result = 700
	ErrLaunchOutOfResources        Result = 701
	ErrLaunchTimeout               Result = 702
	ErrHostMemoryAlreadyRegistered Result = 712
	ErrHostMemoryNotRegistered     Result = 713
	ErrLaunchFailed                Result = 719
	ErrNotSupported                Result = 801
	ErrUnknown                     Result = 999
)

var resultNames = map[Result]string{
	Success:                        "CUDA_SUCCESS",
	ErrInvalidValue:                "CUDA_ERROR_INVALID_VALUE",
	ErrOutOfMemory:                 "CUDA_ERROR_OUT_OF_MEMORY",
	ErrNotInitialized:              "CUDA_ERROR_NOT_INITIALIZED",
	ErrDeinitialized:               "CUDA_ERROR_DEINITIALIZED",
	ErrNoDevice:                    "CUDA_ERROR_NO_DEVICE",
	ErrInvalidDevice:               "CUDA_ERROR_INVALID_DEVICE",
	ErrInvalidImage:                "CUDA_ERROR_INVALID_IMAGE",
	ErrInvalidContext:              "CUDA_ERROR_INVALID_CONTEXT",
	ErrMapFailed:                   "CUDA_ERROR_MAP_FAILED",
	ErrUnmapFailed:                 "CUDA_ERROR_UNMAP_FAILED",
	ErrNoBinaryForGPU:              "CUDA_ERROR_NO_BINARY_FOR_GPU",
	ErrInvalidSource:               "CUDA_ERROR_INVALID_SOURCE",
	ErrFileNotFound:                "CUDA_ERROR_FILE_NOT_FOUND",
	ErrSharedObjectInitFailed:      "CUDA_ERROR_SHARED_OBJECT_INIT_FAILED",
	ErrOperatingSystem:             "CUDA_ERROR_OPERATING_SYSTEM",
	ErrInvalidHandle:               "CUDA_ERROR_INVALID_HANDLE",
	ErrNotFound:                    "CUDA_ERROR_NOT_FOUND",
	ErrNotReady:                    "CUDA_ERROR_NOT_READY",
	ErrIllegalAddress:              "CUDA_ERROR_ILLEGAL_ADDRESS",
	ErrLaunchOutOfResources:        "CUDA_ERROR_LAUNCH_OUT_OF_RESOURCES",
	ErrLaunchTimeout:               "CUDA_ERROR_LAUNCH_TIMEOUT",
	ErrHostMemoryAlreadyRegistered: "CUDA_ERROR_HOST_MEMORY_ALREADY_REGISTERED",
	ErrHostMemoryNotRegistered:     "CUDA_ERROR_HOST_MEMORY_NOT_REGISTERED",
	ErrLaunchFailed:                "CUDA_ERROR_LAUNCH_FAILED",
	ErrNotSupported:                "CUDA_ERROR_NOT_SUPPORTED",
	ErrUnknown:                     "CUDA_ERROR_UNKNOWN",
}

var resultDescriptions = map[Result]string{
	Success:                        "no error",
	ErrInvalidValue:                "invalid argument",
	ErrOutOfMemory:                 "out of memory",
	ErrNotInitialized:              "initialization error",
	ErrDeinitialized:               "driver shutting down",
	ErrNoDevice:                    "no CUDA-capable device is detected",
	ErrInvalidDevice:               "invalid device ordinal",
	ErrInvalidImage:                "device kernel image is invalid",
	ErrInvalidContext:              "invalid device context",
	ErrMapFailed:                   "mapping of buffer object failed",
	ErrUnmapFailed:                 "unmapping of buffer object failed",
	ErrNoBinaryForGPU:              "no kernel image is available for execution on the device",
	ErrInvalidSource:               "device kernel image is invalid",
	ErrFileNotFound:                "file not found",
	ErrSharedObjectInitFailed:      "shared object initialization failed",
	ErrOperatingSystem:             "OS call failed or operation not supported on this OS",
	ErrInvalidHandle:               "invalid resource handle",
	ErrNotFound:                    "named symbol not found",
	ErrNotReady:                    "device not ready",
	ErrIllegalAddress:              "an illegal memory access was encountered",
	ErrLaunchOutOfResources:        "too many resources requested for launch",
	ErrLaunchTimeout:               "the launch timed out and was terminated",
	ErrHostMemoryAlreadyRegistered: "part or all of the requested memory range is already mapped",
	ErrHostMemoryNotRegistered:     "pointer does not correspond to a registered memory region",
	ErrLaunchFailed:                "unspecified launch failure",
	ErrNotSupported:                "operation not supported",
	ErrUnknown:                     "unknown error",
}

// Name returns the driver's symbolic name for the code, e.g.
// "CUDA_ERROR_OUT_OF_MEMORY".
func (r Result) Name() string {
	if s, ok := resultNames[r]; ok {
		return s
	}
	return fmt.Sprintf("CUDA_ERROR(%d)", int(r))
}

// Description returns the driver's one-line explanation of the code.
func (r Result) Description() string {
	if s, ok := resultDescriptions[r]; ok {
		return s
	}
	return "unrecognized error code"
}

// Error implements error.
func (r Result) Error() string {
	return r.Name() + ": " + r.Description()
}
