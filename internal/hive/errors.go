package hive

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors returned by the transport.
var (
	ErrInvalidKey       = errors.New("hive: invalid private key")
	ErrUnsupportedOp    = errors.New("hive: unsupported operation")
	ErrEmptyResult      = errors.New("hive: empty result")
	ErrNonCanonicalSign = errors.New("hive: could not produce canonical signature")
)

// RPCError is a JSON-RPC error object returned by a node.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// StatusError is returned when a node answers with a non-2xx HTTP status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected http status %d", e.StatusCode)
}
