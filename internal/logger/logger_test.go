package logger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWritesJSONToFile(t *testing.T) {
	prevLevel := zerolog.GlobalLevel()
	prevLogger := log.Logger
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(prevLevel)
		zerolog.TimeFieldFormat = time.RFC3339
		log.Logger = prevLogger
	})

	path := filepath.Join(t.TempDir(), "penalty.log")
	require.NoError(t, Setup(LogConfig{Level: "debug", Format: "json", Output: path}))

	sessionLog := WithSession("worksheet", "abc")
	sessionLog.Debug().Str("row_id", "r1").Msg("Row added")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"worksheet"`)
	assert.Contains(t, string(data), `"session_id":"abc"`)
	assert.Contains(t, string(data), `"message":"Row added"`)
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	require.Error(t, Setup(LogConfig{Level: "loud"}))
}
