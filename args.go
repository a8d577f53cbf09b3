package gocl

import (
	"unsafe"

	"github.com/gomlx/exceptions"
)

// Argument is one bound value in a command's argument snapshot. Exactly
// one form is populated, matching the declared ArgInfo:
//   - by-value arguments carry Raw;
//   - global pointer arguments carry Mem (nil binds the null device pointer);
//   - local arguments, and the automatic-local tail of the snapshot, carry
//     only Size.
type Argument struct {
	Mem  *MemObject
	Raw  []byte
	Size uint64
}

// Scalar constrains the fixed-size scalar types kernels take by value.
// Platform-sized types (int, uint, uintptr) are deliberately excluded: the
// device ABI needs explicit widths. Defined types enter through the
// underlying-type terms -- float16.Float16, for instance, through ~uint16.
type Scalar interface {
	~bool | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// ScalarArg builds a by-value Argument from a scalar, laid out exactly as
// it sits in host memory.
func ScalarArg[T Scalar](value T) Argument {
	raw := make([]byte, unsafe.Sizeof(value))
	copy(raw, unsafe.Slice((*byte)(unsafe.Pointer(&value)), len(raw)))
	return Argument{Raw: raw, Size: uint64(len(raw))}
}

// BufferArg binds a memory object to a global pointer argument.
func BufferArg(m *MemObject) Argument {
	return Argument{Mem: m}
}

// NullArg binds the null device pointer to a global pointer argument.
func NullArg() Argument {
	return Argument{}
}

// LocalArg reserves size bytes of local memory, for a local pointer
// argument or for one entry of the automatic-local tail.
func LocalArg(size uint64) Argument {
	return Argument{Size: size}
}

// RawFromSlice views a scalar slice as its raw bytes, without copying. The
// result aliases data.
func RawFromSlice[T Scalar](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*int(unsafe.Sizeof(data[0])))
}

// SliceFromRaw views raw bytes as a slice of T, without copying. len(raw)
// must be a multiple of T's size.
func SliceFromRaw[T Scalar](raw []byte) []T {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if len(raw)%size != 0 {
		exceptions.Panicf("gocl: SliceFromRaw of %d bytes into elements of %d bytes", len(raw), size)
	}
	if len(raw) == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&raw[0])), len(raw)/size)
}
