package logger

import (
	"context"
	"log/slog"

	"github.com/studtool/c-errs/pkg/errs"
)

// Report logs an error value.
// Internal values are developer diagnostics: they are logged at ERROR with the
// text rendering as the message. Other kinds are logged at INFO with the JSON
// body that is sent to clients.
func Report(ctx context.Context, log *slog.Logger, v *errs.Value, attrs ...slog.Attr) {
	if log == nil || v == nil || v.Released() {
		return
	}

	base := []slog.Attr{
		slog.String("kind", v.Kind().String()),
		slog.Int("code", int(v.Code())),
	}
	attrs = append(base, attrs...)

	if v.Kind() == errs.KindInternal {
		log.LogAttrs(ctx, slog.LevelError, v.Text(), attrs...)
		return
	}
	attrs = append(attrs, slog.String("body", v.JSON()))
	log.LogAttrs(ctx, slog.LevelInfo, "error response", attrs...)
}
