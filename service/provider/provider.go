package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/errors"
)

// Provider is the injected wallet capability. It mirrors the request/response
// protocol browser wallets expose: a method name plus positional params, a
// JSON result or a coded error back. Every call is a suspension point: the
// provider may prompt the user and take arbitrarily long to answer.
type Provider interface {
	Request(ctx context.Context, method string, params any) (json.RawMessage, error)
}

// Well-known provider error codes (EIP-1193 / EIP-3085).
const (
	// CodeUserRejected is returned when the user declines a prompt.
	CodeUserRejected = 4001

	// CodeUnrecognizedChain is returned by wallet_switchEthereumChain when
	// the provider does not know the requested chain.
	CodeUnrecognizedChain = 4902
)

// RPCError is a coded error surfaced by the provider or RPC endpoint.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// ErrorCode extracts the provider error code from an error chain.
func ErrorCode(err error) (int, bool) {
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr.Code, true
	}
	return 0, false
}
