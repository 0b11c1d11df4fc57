package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("json output", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New("debug", "json", &buf)
		require.NoError(t, err)

		logger.WithField("stock_id", 7).Info("stock removed")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "stock removed", entry["msg"])
		assert.Equal(t, "info", entry["level"])
		assert.EqualValues(t, 7, entry["stock_id"])
	})

	t.Run("level filters", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New("warn", "text", &buf)
		require.NoError(t, err)

		logger.Info("hidden")
		assert.Empty(t, buf.String())
	})

	t.Run("bad level", func(t *testing.T) {
		_, err := New("loud", "json", nil)
		assert.Error(t, err)
	})

	t.Run("bad format", func(t *testing.T) {
		_, err := New("info", "xml", nil)
		assert.Error(t, err)
	})
}

func TestFromContext(t *testing.T) {
	assert.Equal(t, logrus.StandardLogger(), FromContext(context.Background()))

	entry := Discard().WithField("request_id", "abc")
	ctx := WithLogger(context.Background(), entry)
	assert.Equal(t, entry, FromContext(ctx))
}
