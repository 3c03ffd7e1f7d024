package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNamedNilFallsBackToNop(t *testing.T) {
	l := Named(nil, "effect")
	require.NotNil(t, l)
	l.Info("ignored")
}

func TestNamedTagsComponent(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	Named(zap.New(core), "behavior").Info("switched")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "behavior", entries[0].ContextMap()["component"])
}

func TestNew(t *testing.T) {
	for _, debug := range []bool{true, false} {
		l, err := New(debug)
		require.NoError(t, err)
		assert.Equal(t, debug, l.Core().Enabled(zap.DebugLevel))
	}
}
