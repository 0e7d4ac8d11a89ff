package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLDefaultsToNop(t *testing.T) {
	require.NotNil(t, L())
	L().Infow("ignored", "rows", 3)
}

func TestUseRoutesEntries(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Use(zap.New(core))
	t.Cleanup(func() { Use(zap.NewNop()) })

	L().Infow("segments filtered", "kept", 4, "dropped", 3)

	entries := logs.FilterMessage("segments filtered").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(4), entries[0].ContextMap()["kept"])
}

func TestInit(t *testing.T) {
	t.Cleanup(func() { Use(zap.NewNop()) })
	require.NoError(t, Init(true))
	assert.True(t, L().Desugar().Core().Enabled(zapcore.DebugLevel))
	require.NoError(t, Init(false))
	assert.False(t, L().Desugar().Core().Enabled(zapcore.InfoLevel))
}
