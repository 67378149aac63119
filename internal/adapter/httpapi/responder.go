package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studtool/c-errs/internal/journal"
	"github.com/studtool/c-errs/internal/platform/logger"
	"github.com/studtool/c-errs/pkg/errs"
)

// IncidentHeader carries the journal incident ID of an Internal error.
const IncidentHeader = "X-Incident-ID"

const contentTypeJSON = "application/json; charset=utf-8"

// Recorder stores Internal error values.
type Recorder interface {
	Record(ctx context.Context, v *errs.Value) (journal.Entry, error)
}

// Responder turns error values into HTTP responses.
type Responder struct {
	log *slog.Logger
	rec Recorder
}

// NewResponder creates a responder. rec may be nil, in which case Internal
// values are only logged.
func NewResponder(log *slog.Logger, rec Recorder) *Responder {
	if log == nil {
		log = slog.Default()
	}
	return &Responder{log: log, rec: rec}
}

// Respond writes v to the client and releases it.
//
// Non-Internal values are sent with their JSON rendering as the body, byte for byte.
// Internal values never reach the client: they are logged and journaled, and the
// client gets an empty 500 with the incident ID header.
func (r *Responder) Respond(c *gin.Context, v *errs.Value) {
	defer v.Release()

	if v.Released() {
		r.log.ErrorContext(c.Request.Context(), "responding with released error value", "path", c.Request.URL.Path)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	ctx := c.Request.Context()
	attrs := []slog.Attr{
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
	}

	if v.Kind() != errs.KindInternal {
		logger.Report(ctx, r.log, v, attrs...)
		c.Data(StatusOf(v.Kind()), contentTypeJSON, []byte(v.JSON()))
		c.Abort()
		return
	}

	if r.rec != nil {
		entry, err := r.rec.Record(ctx, v)
		if err != nil {
			r.log.ErrorContext(ctx, "failed to journal error", "error", err)
		} else {
			c.Header(IncidentHeader, entry.Incident)
			attrs = append(attrs, slog.String("incident", entry.Incident))
		}
	}
	logger.Report(ctx, r.log, v, attrs...)
	c.AbortWithStatus(http.StatusInternalServerError)
}

// Middleware answers the last error attached with c.Error when the handler
// chain finished without writing a response. An *errs.Value is sent as is;
// any other error is turned into an Internal value with code -1. That value is
// built without render options, so a render limit that rejected the original
// value cannot reject the incident too.
func (r *Responder) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		last := c.Errors.Last().Err
		var v *errs.Value
		if !errors.As(last, &v) {
			var err error
			v, err = errs.Internal(-1, last.Error())
			if err != nil {
				r.log.ErrorContext(c.Request.Context(), "failed to build internal error", "error", err, "cause", last)
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
		}
		r.Respond(c, v)
	}
}
