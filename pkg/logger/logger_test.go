package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_NivelYComponente(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "warn").Named("ledger")

	l.Info().Msg("no debe salir")
	assert.Zero(t, buf.Len(), "info se filtra con nivel warn")

	l.Warn().Int64("material_id", 7).Msg("stock bajo")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ledger", entry["component"])
	assert.Equal(t, "stock bajo", entry["message"])
	assert.EqualValues(t, 7, entry["material_id"])
}

func TestNop_NoEscribe(t *testing.T) {
	l := Nop()
	l.Error().Msg("descartado")
	assert.NotNil(t, l.Named("x"))
}
