// internal/types/ids.go
package types

import (
	"encoding/json"
	"strconv"

	"github.com/google/uuid"
)

// ID is an optional identifier taken from a webhook payload. The empty
// value means the identifier was absent.
type ID string

// RequestID tags every inbound webhook request in logs.
type RequestID string

func NewRequestID() RequestID {
	return RequestID(uuid.New().String())
}

// Present reports whether the identifier was supplied.
func (id ID) Present() bool {
	return id != ""
}

// Usable reports whether the identifier can address a Chatwoot resource.
// Chatwoot ids start at 1, so a zero id is treated like a missing one.
func (id ID) Usable() bool {
	return id.Present() && id != "0"
}

func (id ID) String() string {
	return string(id)
}

// MarshalJSON encodes identifiers in canonical integer form as JSON numbers,
// absent ones as null and anything else, "07" included, as a string.
func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// IDFromValue converts a decoded JSON value into an ID. Numbers must have
// been decoded as json.Number to keep their exact textual form.
func IDFromValue(v any) ID {
	switch val := v.(type) {
	case json.Number:
		return ID(val.String())
	case string:
		return ID(val)
	case float64:
		return ID(strconv.FormatFloat(val, 'f', -1, 64))
	case int:
		return ID(strconv.Itoa(val))
	case int64:
		return ID(strconv.FormatInt(val, 10))
	default:
		return ""
	}
}
