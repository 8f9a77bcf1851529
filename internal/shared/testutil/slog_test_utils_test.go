package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures log records", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("test message", slog.String("key", "value"))
		logger.Error("error message", slog.Int("code", 500))

		assert.Equal(t, 2, handler.Count())
		assert.True(t, handler.ContainsMessage("test message"))
		assert.True(t, handler.ContainsAttr("key", "value"))
		assert.Len(t, handler.GetRecordsByLevel(slog.LevelError), 1)
	})

	t.Run("derived loggers share records", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.With(slog.String("component", "test")).Info("child message")
		logger.WithGroup("req").Info("grouped", slog.String("id", "1"))

		rec, ok := handler.FindMessage("child message")
		require.True(t, ok)
		assert.Equal(t, "test", rec.Attrs["component"])
		assert.True(t, handler.ContainsAttr("req.id", "1"))
	})

	t.Run("clear", func(t *testing.T) {
		logger, handler := NewTestLogger(t)
		logger.Info("one")
		handler.Clear()
		assert.Equal(t, 0, handler.Count())
		AssertNoErrors(t, handler)
	})
}

func TestFixtures(t *testing.T) {
	data := CSVBytes(t, PerAccountRows("A1", "Pago", "5"))
	assert.Contains(t, string(data), "Cuenta: A1")

	xlsx := XLSXBytes(t, LedgerRows())
	assert.Equal(t, []byte("PK"), xlsx[:2])
}
