package errs

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind represents the classification of an error value.
// The set is closed: tags are fixed small integers and new kinds are never added at runtime.
type Kind int8

const (
	// KindInternal represents implementation bugs not meant for API consumers
	KindInternal Kind = iota
	// KindBadFormat represents input that could not be parsed
	KindBadFormat
	// KindInvalidFormat represents input that parsed but failed validation
	KindInvalidFormat
	// KindConflict represents a conflict with current state
	KindConflict
	// KindNotFound represents a missing resource
	KindNotFound
	// KindNotAuthorized represents missing or invalid authentication
	KindNotAuthorized
	// KindPermissionDenied represents an authenticated caller lacking permission
	KindPermissionDenied
	// KindNotImplemented represents functionality that does not exist yet
	KindNotImplemented
)

var kindNames = [...]string{
	KindInternal:         "Internal",
	KindBadFormat:        "BadFormat",
	KindInvalidFormat:    "InvalidFormat",
	KindConflict:         "Conflict",
	KindNotFound:         "NotFound",
	KindNotAuthorized:    "NotAuthorized",
	KindPermissionDenied: "PermissionDenied",
	KindNotImplemented:   "NotImplemented",
}

// String returns the name of the Kind.
func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Valid reports whether k belongs to the closed set of kinds.
func (k Kind) Valid() bool {
	return k >= KindInternal && k <= KindNotImplemented
}

// Kinds returns every kind in tag order.
func Kinds() []Kind {
	out := make([]Kind, len(kindNames))
	for i := range kindNames {
		out[i] = Kind(i)
	}
	return out
}

// ParseKind resolves a kind from its name or its decimal tag.
// Names are matched case-insensitively with '_' and '-' ignored,
// so "not_found", "not-found" and "NotFound" are equivalent.
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if k := Kind(n); n >= 0 && k.Valid() && int(k) == n {
			return k, nil
		}
		return 0, fmt.Errorf("%w: tag %d", ErrInvalidKind, n)
	}

	folded := foldKindName(s)
	for i, name := range kindNames {
		if foldKindName(name) == folded {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

func foldKindName(s string) string {
	s = strings.NewReplacer("_", "", "-", "").Replace(s)
	return strings.ToLower(s)
}
