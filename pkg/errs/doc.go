// Package errs provides a structured error value with precomputed renderings.
//
// # Kinds
//
// Every Value carries one of eight kinds, each a fixed integer tag:
//
//	Tag | Kind
//	----|---------------------
//	0   | KindInternal
//	1   | KindBadFormat
//	2   | KindInvalidFormat
//	3   | KindConflict
//	4   | KindNotFound
//	5   | KindNotAuthorized
//	6   | KindPermissionDenied
//	7   | KindNotImplemented
//
// # Renderings
//
// Renderings are computed once, at construction. Internal errors are meant for
// developer logs and get a text rendering:
//
//	error: [type = 0; code = -1; message = 'null pointer']
//
// Every other kind is meant to be returned to clients and gets a JSON rendering:
//
//	{"code":42,"message":"missing field"}
//
// The message is substituted verbatim in both. A message containing quotes,
// backslashes or control bytes therefore yields JSON-shaped text rather than
// valid JSON. Use WithStrictJSON when consumers need strict JSON.
//
// # Ownership
//
// A Value has one owner who releases it when done:
//
//	v, err := errs.BadFormat(42, "missing field")
//	if err != nil {
//	    return err
//	}
//	defer v.Release()
//
// Or let Scoped do it:
//
//	err := errs.Scoped(errs.KindNotFound, 4, "user 123", func(v *errs.Value) error {
//	    _, err := w.Write([]byte(v.JSON()))
//	    return err
//	})
//
// The package performs no I/O; callers decide where renderings go.
package errs
