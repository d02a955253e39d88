package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/crest-go/crest/logging/colors"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAddAndRemoveWriter will test the Logger.AddWriter and Logger.RemoveWriter functions to ensure that they work as
// expected.
func TestAddAndRemoveWriter(t *testing.T) {
	logger := NewLogger(zerolog.InfoLevel, false)

	var structured, unstructured bytes.Buffer
	logger.AddWriter(&structured, STRUCTURED)
	logger.AddWriter(&unstructured, UNSTRUCTURED)
	assert.Len(t, logger.writers, 2)

	// Duplicates are ignored
	logger.AddWriter(&structured, STRUCTURED)
	logger.AddWriter(&unstructured, UNSTRUCTURED)
	assert.Len(t, logger.writers, 2)

	logger.Info("hello")
	assert.Contains(t, structured.String(), `"message":"hello"`)
	assert.Contains(t, unstructured.String(), "hello")

	logger.RemoveWriter(&structured)
	logger.RemoveWriter(&unstructured)
	assert.Len(t, logger.writers, 0)

	// Removing an unknown writer is a no-op
	logger.RemoveWriter(&structured)
	assert.Len(t, logger.writers, 0)
}

// TestSubLoggerContext ensures that sub-loggers attach their context to every structured event, including events
// sent to writers that are added after the sub-logger is created.
func TestSubLoggerContext(t *testing.T) {
	logger := NewLogger(zerolog.DebugLevel, false)
	subLogger := logger.NewSubLogger("module", SOLVER_MODULE)

	var buf bytes.Buffer
	subLogger.AddWriter(&buf, STRUCTURED)
	subLogger.Debug("solving ", 3, " constraints", StructuredLogInfo{"vars": 2})

	var event map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &event))
	assert.Equal(t, SOLVER_MODULE, event["module"])
	assert.Equal(t, "solving 3 constraints", event["message"])
	assert.Equal(t, "debug", event["level"])
	assert.Equal(t, map[string]any{"vars": float64(2)}, event["info"])
}

// TestLevelFiltering ensures that events below the logger's level are dropped.
func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(zerolog.WarnLevel, false, &buf)

	logger.Info("dropped")
	assert.Empty(t, buf.String())

	logger.SetLevel(zerolog.InfoLevel)
	assert.Equal(t, zerolog.InfoLevel, logger.Level())
	logger.Info("kept")
	assert.Contains(t, buf.String(), "kept")
}

// TestErrorIsChained ensures that an error argument is attached to the event rather than the message.
func TestErrorIsChained(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(zerolog.InfoLevel, false, &buf)

	logger.Error("session failed", errors.New("boom"))

	var event map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &event))
	assert.Equal(t, "session failed", event["message"])
	assert.Equal(t, "boom", event["error"])
}

// TestPanic ensures that Panic aborts even on a disabled logger.
func TestPanic(t *testing.T) {
	logger := NewLogger(zerolog.Disabled, false)
	assert.PanicsWithValue(t, "bad state: boom", func() {
		logger.Panic("bad state", errors.New("boom"))
	})
	assert.PanicsWithValue(t, "bad state", func() {
		logger.Panic("bad state")
	})
}

// TestBuildMsgs ensures that color functions only affect the console message.
func TestBuildMsgs(t *testing.T) {
	colors.DisableColor()
	consoleMsg, plainMsg, err, info := buildMsgs("x", colors.Red, 1, colors.Reset, "y")
	assert.Equal(t, "x1y", consoleMsg)
	assert.Equal(t, "x1y", plainMsg)
	assert.NoError(t, err)
	assert.Nil(t, info)

	// Ensure a prefix rendered through a color function carries no escape codes once disabled
	prefix := fmt.Sprintf("%s %s", colors.LEFT_ARROW, "foo")
	assert.False(t, strings.Contains(colors.GreenBold(prefix), "\x1b["))
}
