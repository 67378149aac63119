package errs

// Option configures construction of a Value.
type Option func(*options)

type options struct {
	strictJSON  bool
	renderLimit int
}

// WithStrictJSON escapes the message inside the JSON rendering so the result is valid JSON.
// Without it the message is substituted verbatim and embedded quotes, backslashes
// or control bytes pass through unchanged.
//
// Strict escaping is not byte-faithful: <, > and & are written as \u003c, \u003e
// and \u0026, and invalid UTF-8 bytes are replaced with U+FFFD. The text rendering
// is never escaped.
func WithStrictJSON() Option { return func(o *options) { o.strictJSON = true } }

// WithRenderLimit caps the byte size of the rendering buffer.
// Construction fails with ErrAllocation when the rendering would not fit.
// A limit of zero or less means no limit.
func WithRenderLimit(n int) Option { return func(o *options) { o.renderLimit = n } }

func collect(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
