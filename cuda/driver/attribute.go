package driver

// DeviceAttribute selects a device property for DeviceGetAttribute. Values
// equal the driver's attribute enum, so the cgo implementation passes them
// through unchanged.
type DeviceAttribute int

const (
	AttrMaxThreadsPerBlock               DeviceAttribute = 1
	AttrMaxBlockDimX                     DeviceAttribute = 2
	AttrMaxBlockDimY                     DeviceAttribute = 3
	AttrMaxBlockDimZ                     DeviceAttribute = 4
	AttrMaxSharedMemoryPerBlock          DeviceAttribute = 8
	AttrTotalConstantMemory              DeviceAttribute = 9
	AttrWarpSize                         DeviceAttribute = 10
	AttrClockRate                        DeviceAttribute = 13
	AttrMultiprocessorCount              DeviceAttribute = 16
	AttrIntegrated                       DeviceAttribute = 18
	AttrCanMapHostMemory                 DeviceAttribute = 19
	AttrEccEnabled                       DeviceAttribute = 32
	AttrComputeCapabilityMajor           DeviceAttribute = 75
	AttrComputeCapabilityMinor           DeviceAttribute = 76
	AttrMaxSharedMemoryPerMultiprocessor DeviceAttribute = 81
)
