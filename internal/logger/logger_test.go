package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_WritesDailyJSON(t *testing.T) {
	root := t.TempDir()
	t.Cleanup(func() { zap.ReplaceGlobals(zap.NewNop()) })

	log, err := New(root, false, "info")
	require.NoError(t, err)
	log.Infow("form submission rejected", "form", "registrationForm")
	log.Debugw("below level")
	require.NoError(t, log.Sync())

	raw, err := os.ReadFile(filepath.Join(root, "logs", time.Now().Format("2006-01-02")+".log"))
	require.NoError(t, err)
	out := string(raw)
	assert.Contains(t, out, `"msg":"form submission rejected"`)
	assert.Contains(t, out, `"form":"registrationForm"`)
	assert.False(t, strings.Contains(out, "below level"))
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New(t.TempDir(), false, "chatty")
	assert.Error(t, err)
}

func TestConsole_FallsBackToInfo(t *testing.T) {
	log := Console("nonsense")
	assert.False(t, log.Desugar().Core().Enabled(zap.DebugLevel))
	assert.True(t, log.Desugar().Core().Enabled(zap.InfoLevel))
}
