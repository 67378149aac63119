package errs

import (
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

// JSON rendering: {"code":<code>,"message":"<message>"}
const (
	jsonCodePrefix    = `{"code":`
	jsonMessagePrefix = `,"message":`
	jsonSuffix        = `}`
)

// Text rendering: error: [type = <kind>; code = <code>; message = '<message>']
const (
	textTypePrefix    = `error: [type = `
	textCodePrefix    = `; code = `
	textMessagePrefix = `; message = '`
	textSuffix        = `']`
)

// renderJSON renders the machine-readable form. The message is substituted
// verbatim unless strict is set, in which case it is JSON-escaped.
func renderJSON(code int8, message string, o options) (string, error) {
	codeStr := strconv.Itoa(int(code))

	quoted, err := quoteMessage(message, o.strictJSON)
	if err != nil {
		return "", err
	}

	size := len(jsonCodePrefix) + len(codeStr) + len(jsonMessagePrefix) + len(quoted) + len(jsonSuffix)
	buf, err := allocate(size, o.renderLimit)
	if err != nil {
		return "", err
	}

	buf = append(buf, jsonCodePrefix...)
	buf = append(buf, codeStr...)
	buf = append(buf, jsonMessagePrefix...)
	buf = append(buf, quoted...)
	buf = append(buf, jsonSuffix...)
	return string(buf), nil
}

// renderText renders the developer-facing form. The message is always verbatim.
func renderText(kind Kind, code int8, message string, o options) (string, error) {
	kindStr := strconv.Itoa(int(kind))
	codeStr := strconv.Itoa(int(code))

	size := len(textTypePrefix) + len(kindStr) + len(textCodePrefix) + len(codeStr) +
		len(textMessagePrefix) + len(message) + len(textSuffix)
	buf, err := allocate(size, o.renderLimit)
	if err != nil {
		return "", err
	}

	buf = append(buf, textTypePrefix...)
	buf = append(buf, kindStr...)
	buf = append(buf, textCodePrefix...)
	buf = append(buf, codeStr...)
	buf = append(buf, textMessagePrefix...)
	buf = append(buf, message...)
	buf = append(buf, textSuffix...)
	return string(buf), nil
}

func quoteMessage(message string, strict bool) (string, error) {
	if !strict {
		return `"` + message + `"`, nil
	}
	b, err := json.MarshalNoEscape(message)
	if err != nil {
		return "", fmt.Errorf("failed to escape message: %w", err)
	}
	return string(b), nil
}

// allocate returns an empty buffer with capacity for exactly size bytes.
// A positive limit bounds the size; exceeding it is reported as ErrAllocation.
func allocate(size, limit int) ([]byte, error) {
	if limit > 0 && size > limit {
		return nil, fmt.Errorf("%w: need %d bytes, limit is %d", ErrAllocation, size, limit)
	}
	return make([]byte, 0, size), nil
}
