package gocl

import (
	"sync"
	"time"

	"github.com/gomlx/exceptions"
)

// CommandType tags what a command node does.
type CommandType int

//go:generate go tool enumer -type=CommandType -trimprefix=Command command.go

const (
	// CommandRunKernel is the execution command: the submission engine
	// handles it natively. Everything else is delegated to the backend's
	// Executor.
	CommandRunKernel CommandType = iota
	CommandReadBuffer
	CommandWriteBuffer
	CommandCopyBuffer
	CommandMapBuffer
	CommandUnmapBuffer
	CommandBarrier
)

// RunCommand is the payload of a CommandRunKernel node.
type RunCommand struct {
	Kernel *Kernel

	// Args snapshots the bound argument values: one entry per declared
	// argument, then one size-only entry per automatic local allocation,
	// in declaration order.
	Args []Argument

	// Groups and Local are the execution geometry: per-dimension
	// work-group counts, and work-items per group in each dimension.
	Groups [3]uint32
	Local  [3]uint32
}

// XferCommand is the payload of the buffer transfer and mapping commands,
// interpreted by the generic executor rather than the submission engine.
type XferCommand struct {
	Mem    *MemObject
	SrcMem *MemObject // source object of CommandCopyBuffer

	// Host is the host side of reads and writes, and the caller-visible
	// pointer of map/unmap (nil requests a staging buffer, see
	// Backend.Map).
	Host []byte

	Offset    uint64
	SrcOffset uint64
	Size      uint64

	// Mapped receives the result of CommandMapBuffer.
	Mapped []byte
}

// CommandNode is one queued unit of work with its completion event.
// Created once by the outer runtime and submitted once; the payload
// matching Type must be set.
type CommandNode struct {
	Type   CommandType
	Device *Device
	Event  *Event

	Run  *RunCommand
	Xfer *XferCommand
}

// EventStatus is the position of a command in its lifecycle.
type EventStatus int

//go:generate go tool enumer -type=EventStatus -trimprefix=Event command.go

const (
	EventQueued EventStatus = iota
	EventSubmitted
	EventRunning
	EventComplete
)

// Timeline holds the wall-clock instants of an event's transitions; a zero
// time means the transition has not happened.
type Timeline struct {
	Queued    time.Time
	Submitted time.Time
	Running   time.Time
	Complete  time.Time
}

// Event tracks one command node through the submission state machine.
// Status only moves forward -- Queued, Submitted, Running, Complete, with
// Complete terminal -- and each transition is timestamped. Backends drive
// the transitions; anyone may poll Status.
type Event struct {
	mu       sync.Mutex
	status   EventStatus
	timeline Timeline
}

// NewEvent returns an Event in the Queued state.
func NewEvent() *Event {
	return &Event{timeline: Timeline{Queued: time.Now()}}
}

// Status returns the event's current position.
func (e *Event) Status() EventStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// Timeline returns a copy of the transition timestamps recorded so far.
func (e *Event) Timeline() Timeline {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.timeline
}

// MarkSubmitted moves the event to Submitted.
func (e *Event) MarkSubmitted() { e.advance(EventSubmitted) }

// MarkRunning moves the event to Running.
func (e *Event) MarkRunning() { e.advance(EventRunning) }

// MarkComplete moves the event to its terminal state.
func (e *Event) MarkComplete() { e.advance(EventComplete) }

func (e *Event) advance(to EventStatus) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if to <= e.status {
		exceptions.Panicf("gocl: event cannot move from %s back to %s", e.status, to)
	}
	now := time.Now()
	switch to {
	case EventSubmitted:
		e.timeline.Submitted = now
	case EventRunning:
		e.timeline.Running = now
	case EventComplete:
		e.timeline.Complete = now
	}
	e.status = to
}
