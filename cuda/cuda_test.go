package cuda

import (
	"testing"

	"github.com/gocl-dev/gocl/cache"
	"github.com/gocl-dev/gocl/cuda/internal/drivertest"
	"github.com/stretchr/testify/require"
)

func TestConfigStringErrors(t *testing.T) {
	f := drivertest.NewFake()

	_, err := New(f, "bogus=1")
	require.ErrorContains(t, err, "unknown config key")

	_, err = New(f, "devices")
	require.ErrorContains(t, err, "want key=value")

	_, err = New(f, "devices=many")
	require.ErrorContains(t, err, "devices")
}

func TestTranslatorResolution(t *testing.T) {
	t.Setenv(TranslatorEnv, "")

	b := testBackend(t, drivertest.NewFake(), "")
	require.Equal(t, DefaultTranslatorCommand, b.translator.(CommandTranslator).Command)

	t.Setenv(TranslatorEnv, "/opt/llvm/bin/llc")
	b, err := New(drivertest.NewFake(), "cache="+t.TempDir())
	require.NoError(t, err)
	require.Equal(t, "/opt/llvm/bin/llc", b.translator.(CommandTranslator).Command)

	b, err = New(drivertest.NewFake(), "translator=my-llc,cache="+t.TempDir())
	require.NoError(t, err)
	require.Equal(t, "my-llc", b.translator.(CommandTranslator).Command)
}

func TestCacheRootResolution(t *testing.T) {
	dir := t.TempDir()

	t.Setenv(cache.RootEnv, dir)
	b, err := New(drivertest.NewFake(), "")
	require.NoError(t, err)
	require.Equal(t, dir, b.opts.cacheRoot)

	// The config key wins over the environment.
	other := t.TempDir()
	b, err = New(drivertest.NewFake(), "cache="+other)
	require.NoError(t, err)
	require.Equal(t, other, b.opts.cacheRoot)
}
