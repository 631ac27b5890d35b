package config_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/factbase/pkg/cli/config"
	"github.com/secmon-lab/factbase/pkg/utils/logging"
)

func TestLogger_NewHandler(t *testing.T) {
	t.Run("json output respects level", func(t *testing.T) {
		var buf bytes.Buffer
		h, err := config.NewLoggerForTest("warn", "json", "stdout").NewHandler(&buf)
		gt.NoError(t, err).Required()

		logger := slog.New(h)
		logger.Info("hidden")
		logger.Warn("shown", "fact_id", 7)

		var entry map[string]any
		gt.NoError(t, json.Unmarshal(buf.Bytes(), &entry)).Required()
		gt.Equal(t, entry["msg"], any("shown"))
		gt.Equal(t, entry["fact_id"], any(float64(7)))
	})

	t.Run("secret fields are redacted", func(t *testing.T) {
		type credential struct {
			User  string
			Token string `masq:"secret"`
		}

		var buf bytes.Buffer
		h, err := config.NewLoggerForTest("info", "json", "stdout").NewHandler(&buf)
		gt.NoError(t, err).Required()

		slog.New(h).Info("login", "cred", credential{User: "chuck", Token: "roundhouse-kick"})
		gt.Bool(t, bytes.Contains(buf.Bytes(), []byte("chuck"))).True()
		gt.Bool(t, bytes.Contains(buf.Bytes(), []byte("roundhouse-kick"))).False()
	})

	t.Run("console output", func(t *testing.T) {
		var buf bytes.Buffer
		h, err := config.NewLoggerForTest("debug", "console", "stdout").NewHandler(&buf)
		gt.NoError(t, err).Required()

		slog.New(h).Debug("hello console")
		gt.String(t, buf.String()).Contains("hello console")
	})

	t.Run("unknown level", func(t *testing.T) {
		_, err := config.NewLoggerForTest("loud", "json", "stdout").NewHandler(&bytes.Buffer{})
		gt.Error(t, err).Is(config.ErrInvalidLogLevel)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := config.NewLoggerForTest("info", "xml", "stdout").NewHandler(&bytes.Buffer{})
		gt.Error(t, err).Is(config.ErrInvalidLogFormat)
	})
}

func TestLogger_ConfigureFileOutput(t *testing.T) {
	prev := logging.Default()
	defer logging.SetDefault(prev)

	path := filepath.Join(t.TempDir(), "factbase.log")

	closer, err := config.NewLoggerForTest("info", "json", path).Configure()
	gt.NoError(t, err).Required()
	closer()

	_, err = os.Stat(path)
	gt.NoError(t, err)
}
