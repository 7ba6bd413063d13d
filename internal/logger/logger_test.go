package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricelist/internal/logger"
)

func TestNewWithWriter_ProductionIsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, true, "info")

	log.Debug().Msg("hidden")
	log.Info().Str("driver", "postgres").Msg("database connection established")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "postgres", entry["driver"])
	assert.Equal(t, "database connection established", entry["message"])
}

func TestNewWithWriter_DevelopmentIsConsole(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, false, "bogus")

	log.Info().Msg("starting server")

	assert.Contains(t, buf.String(), "starting server")
	assert.False(t, json.Valid(buf.Bytes()))
}
