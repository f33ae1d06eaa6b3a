package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"", InfoLevel},
		{"warning", WarnLevel},
		{" Warn ", WarnLevel},
		{"error", ErrorLevel},
		{"fatal", FatalLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestLevelText(t *testing.T) {
	text, err := WarnLevel.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "warn", string(text))

	var level Level
	require.NoError(t, level.UnmarshalText([]byte("debug")))
	assert.Equal(t, DebugLevel, level)
	assert.Error(t, level.UnmarshalText([]byte("verbose")))
}

func TestWriterLoggerRoutesByLevel(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := NewWriterLogger(&out, &errOut, InfoLevel)

	logger.Debug("hidden")
	logger.Info("frames analysed", Fields{"rows": 97})
	logger.Error(errors.New("boom"), "synthesis failed")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "[INFO] frames analysed map[rows:97]")
	assert.Contains(t, errOut.String(), "[ERROR] synthesis failed: boom")

	logger.SetLevel(DebugLevel)
	logger.Debug("now visible")
	assert.Contains(t, out.String(), "[DEBUG] now visible")
}

func TestWithFieldsAndContext(t *testing.T) {
	var out bytes.Buffer
	logger := NewWriterLogger(&out, nil, DebugLevel)

	ctx := ContextWithFields(context.Background(), Fields{"request": "r1"})
	logger.WithFields(Fields{"component": "stft"}).WithContext(ctx).Info("done")

	assert.Contains(t, out.String(), "component:stft")
	assert.Contains(t, out.String(), "request:r1")

	out.Reset()
	logger.WithContext(context.Background()).Info("plain")
	assert.NotContains(t, out.String(), "request")
}

func TestSetGlobalLoggerNil(t *testing.T) {
	previous := GetGlobalLogger()
	defer SetGlobalLogger(previous)

	SetGlobalLogger(nil)
	assert.IsType(t, &NoOpLogger{}, GetGlobalLogger())
	Info("discarded")
}
