package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/studtool/c-errs/internal/journal"
	"github.com/studtool/c-errs/pkg/errs"
)

// Journal is the part of the journal the router uses.
type Journal interface {
	Recorder
	Recent(ctx context.Context, limit int) ([]journal.Entry, error)
}

// Deps holds router dependencies. Journal may be nil.
type Deps struct {
	Log     *slog.Logger
	Journal Journal
	Render  []errs.Option
}

// NewRouter builds the HTTP handler.
func NewRouter(d Deps) *gin.Engine {
	log := d.Log
	if log == nil {
		log = slog.Default()
	}

	var rec Recorder
	if d.Journal != nil {
		rec = d.Journal
	}
	resp := NewResponder(log, rec)
	h := &handlers{resp: resp, journal: d.Journal, opts: d.Render}

	r := gin.New()
	r.Use(gin.Recovery(), accessLog(log), resp.Middleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")
	v1.GET("/errors/:kind", h.renderError)
	v1.GET("/journal", h.listJournal)

	return r
}

type handlers struct {
	resp    *Responder
	journal Journal
	opts    []errs.Option
}

// renderError builds a value from the path and query and answers with it.
func (h *handlers) renderError(c *gin.Context) {
	kind, err := errs.ParseKind(c.Param("kind"))
	if err != nil {
		h.fail(c, errs.KindBadFormat, 1, "unknown error kind")
		return
	}

	code, err := strconv.ParseInt(c.DefaultQuery("code", "0"), 10, 8)
	if err != nil {
		h.fail(c, errs.KindInvalidFormat, 2, "code must be an integer in -128..127")
		return
	}

	v, err := errs.New(kind, int8(code), c.Query("message"), h.opts...)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.resp.Respond(c, v)
}

func (h *handlers) listJournal(c *gin.Context) {
	if h.journal == nil {
		h.fail(c, errs.KindNotImplemented, 0, "journal is disabled")
		return
	}

	limit := 0
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			h.fail(c, errs.KindInvalidFormat, 3, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	entries, err := h.journal.Recent(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	out := make([]incident, 0, len(entries))
	for _, e := range entries {
		out = append(out, incident{
			Incident:  e.Incident,
			Kind:      e.Kind.String(),
			Code:      e.Code,
			CreatedAt: e.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"entries": out})
}

// incident is the client view of a journal entry. Message and rendering stay
// in the journal.
type incident struct {
	Incident  string    `json:"incident"`
	Kind      string    `json:"kind"`
	Code      int8      `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

// fail answers with a freshly built value, or hands the construction error to the middleware.
func (h *handlers) fail(c *gin.Context, kind errs.Kind, code int8, message string) {
	v, err := errs.New(kind, code, message, h.opts...)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.resp.Respond(c, v)
}

func accessLog(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.LogAttrs(c.Request.Context(), slog.LevelDebug, "http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
		)
	}
}
