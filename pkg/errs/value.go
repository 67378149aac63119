package errs

import (
	"errors"
	"fmt"
	"log/slog"
)

// Value is an immutable error result carrying a kind, a sub-code and a message,
// together with its rendering computed at construction.
//
// Exactly one rendering is populated: Text when the kind is KindInternal,
// JSON for every other kind.
//
// A Value has a single owner. The owner calls Release once it is done with it;
// Release is idempotent and reads after it return empty strings.
// Every method accepts a nil *Value and treats it as released.
type Value struct {
	kind     Kind
	code     int8
	message  string
	json     string
	text     string
	released bool
}

// New constructs a Value. Construction is atomic: on failure the returned
// Value is nil and nothing needs to be released.
//
// Example:
//
//	v, err := errs.New(errs.KindNotFound, 4, "user 123")
//	if err != nil {
//	    return err
//	}
//	defer v.Release()
func New(kind Kind, code int8, message string, opts ...Option) (*Value, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidKind, int(kind))
	}
	o := collect(opts)

	v := &Value{
		kind:    kind,
		code:    code,
		message: message,
	}

	var err error
	if kind == KindInternal {
		v.text, err = renderText(kind, code, message, o)
	} else {
		v.json, err = renderJSON(code, message, o)
	}
	if err != nil {
		v.Release()
		return nil, fmt.Errorf("failed to render %s error: %w", kind, err)
	}

	return v, nil
}

// NewBytes is like New but takes the message as a caller-owned buffer.
// The buffer is copied; mutating it afterwards does not affect the Value.
func NewBytes(kind Kind, code int8, message []byte, opts ...Option) (*Value, error) {
	return New(kind, code, string(message), opts...)
}

// Scoped constructs a Value, passes it to fn and releases it when fn returns or panics.
// A construction failure is returned without calling fn.
func Scoped(kind Kind, code int8, message string, fn func(*Value) error, opts ...Option) error {
	v, err := New(kind, code, message, opts...)
	if err != nil {
		return err
	}
	defer v.Release()

	return fn(v)
}

// Release drops the owned message and renderings. It is safe to call more than once
// and on a nil Value.
func (v *Value) Release() {
	if v == nil || v.released {
		return
	}
	v.message = ""
	v.json = ""
	v.text = ""
	v.released = true
}

// Released reports whether Release has been called.
func (v *Value) Released() bool { return v == nil || v.released }

// Kind returns the classification. A nil Value reports KindInternal.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindInternal
	}
	return v.kind
}

// Code returns the application-defined sub-code.
func (v *Value) Code() int8 {
	if v == nil {
		return 0
	}
	return v.code
}

// Message returns the owned copy of the message.
func (v *Value) Message() string {
	if v == nil {
		return ""
	}
	return v.message
}

// JSON returns the machine-readable rendering, empty for KindInternal.
func (v *Value) JSON() string {
	if v == nil {
		return ""
	}
	return v.json
}

// Text returns the developer-facing rendering, empty for every kind but KindInternal.
func (v *Value) Text() string {
	if v == nil {
		return ""
	}
	return v.text
}

// Rendered returns whichever rendering is populated.
func (v *Value) Rendered() string {
	if v == nil {
		return ""
	}
	if v.kind == KindInternal {
		return v.text
	}
	return v.json
}

// Error implements the error interface.
func (v *Value) Error() string {
	if v == nil || v.released {
		return "errs: released value"
	}
	return v.Rendered()
}

// LogValue implements slog.LogValuer.
func (v *Value) LogValue() slog.Value {
	if v == nil {
		return slog.StringValue("<nil>")
	}
	return slog.GroupValue(
		slog.String("kind", v.kind.String()),
		slog.Int("code", int(v.code)),
		slog.String("message", v.message),
	)
}

// KindOf returns the kind of the first Value found in err's chain.
// The second result is false when err holds no Value.
func KindOf(err error) (Kind, bool) {
	var v *Value
	if errors.As(err, &v) && v != nil {
		return v.kind, true
	}
	return KindInternal, false
}
