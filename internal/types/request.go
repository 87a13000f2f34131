package types

import (
	"bytes"
	"encoding/json"
)

// RecommendRequest is the body accepted by the recommendation endpoint.
// Messages are kept as raw JSON so the caller's history is forwarded byte-for-byte.
type RecommendRequest struct {
	Messages   []json.RawMessage `json:"messages"`
	Lang       Code              `json:"lang"`
	PriceRange Code              `json:"priceRange"`
}

// ChatCompletionRequest is the body sent to the upstream chat-completion API.
type ChatCompletionRequest struct {
	Model    string            `json:"model"`
	Messages []json.RawMessage `json:"messages"`
}

// Code is a lookup code sent by the client (language or budget tier).
//
// Strings are kept verbatim. Falsy JSON values (null, false, 0, "") decode to the
// empty code so that the field counts as absent; any other non-string value is
// kept as its raw JSON text, which never matches a table entry and therefore
// resolves to the table default.
type Code string

// UnmarshalJSON implements json.Unmarshaler for Code.
func (c *Code) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = Code(s)
		return nil
	}

	var v any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}

	switch x := v.(type) {
	case nil:
		*c = ""
	case bool:
		if !x {
			*c = ""
			return nil
		}
		*c = Code(data)
	case json.Number:
		if f, err := x.Float64(); err == nil && f == 0 {
			*c = ""
			return nil
		}
		*c = Code(data)
	default:
		*c = Code(data)
	}
	return nil
}

// IsSet reports whether the client supplied a truthy code.
func (c Code) IsSet() bool {
	return c != ""
}

// String returns the code as a plain string.
func (c Code) String() string {
	return string(c)
}
