package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/cardsrs/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.LogConfig
		debug     bool
		wantLevel logrus.Level
		wantErr   bool
	}{
		{
			name:      "info text",
			cfg:       config.LogConfig{Level: "info", Format: "text"},
			wantLevel: logrus.InfoLevel,
		},
		{
			name:      "debug flag overrides level",
			cfg:       config.LogConfig{Level: "warn", Format: "text"},
			debug:     true,
			wantLevel: logrus.DebugLevel,
		},
		{
			name:    "invalid level",
			cfg:     config.LogConfig{Level: "loud", Format: "text"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.cfg, &bytes.Buffer{}, tt.debug)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLevel, got.GetLevel())
		})
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LogConfig{Level: "info", Format: "json"}, &buf, false)
	require.NoError(t, err)

	logger.WithField("card_id", 7).Info("graded")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "graded", entry["msg"])
	assert.Equal(t, float64(7), entry["card_id"])
}
