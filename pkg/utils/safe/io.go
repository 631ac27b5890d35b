package safe

import (
	"context"
	"io"
	"log/slog"

	"github.com/secmon-lab/factbase/pkg/utils/logging"
)

// Close closes closer and logs a failure instead of returning it. target
// names the resource in the log entry. A nil closer is ignored.
func Close(ctx context.Context, closer io.Closer, target string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Error("failed to close", slog.String("target", target), slog.Any("error", err))
	}
}

// Write writes data to w and logs a failed write along with the number of
// bytes written. A nil writer is ignored.
func Write(ctx context.Context, w io.Writer, data []byte) {
	if w == nil {
		return
	}
	n, err := w.Write(data)
	if err != nil {
		logging.From(ctx).Error("failed to write", slog.Int("written", n), slog.Int("size", len(data)), slog.Any("error", err))
	}
}
