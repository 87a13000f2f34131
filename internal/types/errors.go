package types

import (
	"encoding/json"
	"net/http"
)

// Client-facing error messages. Causes are logged, never returned.
const (
	MsgMethodNotAllowed = "Method not allowed"
	MsgInternalError    = "Internal proxy error"
)

// ProxyError is the flat error body returned by the proxy itself.
type ProxyError struct {
	Error string `json:"error"`
}

// NewProxyError creates a new proxy error body.
func NewProxyError(message string) *ProxyError {
	return &ProxyError{Error: message}
}

// WriteError writes a proxy error to the response writer.
func WriteError(w http.ResponseWriter, statusCode int, err *ProxyError) {
	body, _ := json.Marshal(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write(body)
}

// ErrMethodNotAllowed creates the 405 body.
func ErrMethodNotAllowed() *ProxyError {
	return NewProxyError(MsgMethodNotAllowed)
}

// ErrInternal creates the opaque 500 body.
func ErrInternal() *ProxyError {
	return NewProxyError(MsgInternalError)
}
