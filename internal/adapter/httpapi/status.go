// Package httpapi exposes error values over HTTP with gin.
package httpapi

import (
	"net/http"

	"github.com/studtool/c-errs/pkg/errs"
)

// StatusOf maps an error kind to the HTTP status it is answered with.
// Unknown kinds map to 500.
func StatusOf(k errs.Kind) int {
	switch k {
	case errs.KindBadFormat:
		return http.StatusBadRequest
	case errs.KindInvalidFormat:
		return http.StatusUnprocessableEntity
	case errs.KindConflict:
		return http.StatusConflict
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindNotAuthorized:
		return http.StatusUnauthorized
	case errs.KindPermissionDenied:
		return http.StatusForbidden
	case errs.KindNotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
