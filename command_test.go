package gocl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEventLifecycle(t *testing.T) {
	e := NewEvent()
	require.Equal(t, EventQueued, e.Status())

	e.MarkSubmitted()
	require.Equal(t, EventSubmitted, e.Status())
	e.MarkRunning()
	e.MarkComplete()
	require.Equal(t, EventComplete, e.Status())

	tl := e.Timeline()
	require.False(t, tl.Queued.IsZero())
	require.False(t, tl.Complete.IsZero())
	require.False(t, tl.Submitted.Before(tl.Queued))
	require.False(t, tl.Running.Before(tl.Submitted))
	require.False(t, tl.Complete.Before(tl.Running))
}

func TestEventNeverMovesBackwards(t *testing.T) {
	e := NewEvent()
	e.MarkSubmitted()
	e.MarkRunning()
	require.Panics(t, func() { e.MarkSubmitted() })
	require.Panics(t, func() { e.MarkRunning() })

	e.MarkComplete()
	require.Panics(t, func() { e.MarkComplete() })
	require.Equal(t, EventComplete, e.Status())
}

func TestEnumNames(t *testing.T) {
	require.Equal(t, "RunKernel", CommandRunKernel.String())
	require.Equal(t, "Barrier", CommandBarrier.String())
	require.Equal(t, "Running", EventRunning.String())
	require.Equal(t, "ArgSampler", ArgSampler.String())

	v, err := CommandTypeString("CopyBuffer")
	require.NoError(t, err)
	require.Equal(t, CommandCopyBuffer, v)
}
