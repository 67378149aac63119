package errs

// Internal creates a KindInternal value, rendered as text for developer logs.
//
// Example:
//
//	v, err := errs.Internal(-1, "null pointer")
func Internal(code int8, message string, opts ...Option) (*Value, error) {
	return New(KindInternal, code, message, opts...)
}

// BadFormat creates a KindBadFormat value.
//
// Example:
//
//	v, err := errs.BadFormat(42, "missing field")
func BadFormat(code int8, message string, opts ...Option) (*Value, error) {
	return New(KindBadFormat, code, message, opts...)
}

// InvalidFormat creates a KindInvalidFormat value.
func InvalidFormat(code int8, message string, opts ...Option) (*Value, error) {
	return New(KindInvalidFormat, code, message, opts...)
}

// Conflict creates a KindConflict value.
func Conflict(code int8, message string, opts ...Option) (*Value, error) {
	return New(KindConflict, code, message, opts...)
}

// NotFound creates a KindNotFound value.
//
// Example:
//
//	v, err := errs.NotFound(4, "user 123")
func NotFound(code int8, message string, opts ...Option) (*Value, error) {
	return New(KindNotFound, code, message, opts...)
}

// NotAuthorized creates a KindNotAuthorized value.
func NotAuthorized(code int8, message string, opts ...Option) (*Value, error) {
	return New(KindNotAuthorized, code, message, opts...)
}

// PermissionDenied creates a KindPermissionDenied value.
func PermissionDenied(code int8, message string, opts ...Option) (*Value, error) {
	return New(KindPermissionDenied, code, message, opts...)
}

// NotImplemented creates a KindNotImplemented value.
func NotImplemented(code int8, message string, opts ...Option) (*Value, error) {
	return New(KindNotImplemented, code, message, opts...)
}
