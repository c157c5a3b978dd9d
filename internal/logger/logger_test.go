package logger_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/flashpulse/internal/logger"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithLevel(logger.WARN), logger.WithColors(false))

	log.Info("hidden")
	log.Warn("shown %d", 1)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "shown 1")
}

func TestLogger_FieldsSortedAndPrefixed(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithColors(false)).
		WithPrefix("store").
		WithFields(map[string]any{"b": 2, "a": 1})

	log.Info("wrote document")

	line := buf.String()
	assert.Contains(t, line, "[store]")
	assert.True(t, strings.Index(line, "a=1") < strings.Index(line, "b=2"))
}

func TestLookupLevel(t *testing.T) {
	lvl, ok := logger.LookupLevel("debug")
	assert.True(t, ok)
	assert.Equal(t, logger.DEBUG, lvl)

	lvl, ok = logger.LookupLevel("verbose")
	assert.False(t, ok)
	assert.Equal(t, logger.INFO, lvl)
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	assert.Same(t, logger.Default(), logger.FromContext(context.Background()))

	l := logger.New()
	ctx := logger.NewContext(context.Background(), l)
	assert.Same(t, l, logger.FromContext(ctx))
}

func TestLogger_DerivedLoggersShareOutput(t *testing.T) {
	var buf bytes.Buffer
	base := logger.New(logger.WithOutput(&buf), logger.WithColors(false), logger.WithLevel(logger.DEBUG))

	base.WithField("deck_id", "d1").Debug("saved")
	base.WithPrefix("cache").Error("push failed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "deck_id=d1")
	assert.Contains(t, lines[0], "logger_test.go")
	assert.Contains(t, lines[1], "[cache]")
	assert.NotContains(t, lines[1], "deck_id")
}

func TestLogger_WithFieldsOverwrites(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithColors(false)).
		WithField("count", 1).
		WithField("count", 2)

	log.Info("x")

	assert.Contains(t, buf.String(), "count=2")
	assert.NotContains(t, buf.String(), "count=1")
}
