package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_ParsesLevel(t *testing.T) {
	Init("debug")
	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())

	Init("nonsense")
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())
}

func TestWithRun_AddsRunID(t *testing.T) {
	Init("info")
	var buf bytes.Buffer
	SetOutput(&buf)

	runID := NewRunID()
	_, err := uuid.Parse(runID)
	require.NoError(t, err)

	WithRun(runID).Info("batch done")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, runID, entry["run_id"])
	assert.Equal(t, "batch done", entry["msg"])
}
