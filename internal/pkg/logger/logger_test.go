package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogrusLogger_WritesJSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := newLogrus("debug", &buf)

	log.With(map[string]interface{}{"store_id": 7}).Info("catálogo carregado", map[string]interface{}{"shelves": 3})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "catálogo carregado", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.EqualValues(t, 7, entry["store_id"])
	assert.EqualValues(t, 3, entry["shelves"])
	assert.Contains(t, entry, "timestamp")
}

func TestLogrusLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := newLogrus("error", &buf)

	log.Debug("ignorado", nil)
	log.Info("ignorado", nil)
	assert.Zero(t, buf.Len())

	log.Error("falhou", errors.New("boom"))
	assert.Contains(t, buf.String(), `"error":"boom"`)
}

func TestNewLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	log := newLogrus("verbose", &bytes.Buffer{})
	assert.Equal(t, "info", log.entry.Logger.GetLevel().String())
}
