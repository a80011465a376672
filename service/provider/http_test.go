package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPProvider_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req map[string]any
		err := json.NewDecoder(r.Body).Decode(&req)
		require.NoError(t, err)

		assert.Equal(t, "2.0", req["jsonrpc"])
		assert.Equal(t, "eth_chainId", req["method"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      req["id"],
			"result":  "0xaa36a7",
		})
	}))
	defer server.Close()

	p := NewHTTPProvider(server.URL, nil, nil)
	raw, err := p.Request(context.Background(), "eth_chainId", nil)
	require.NoError(t, err)

	var result string
	require.NoError(t, json.Unmarshal(raw, &result))
	assert.Equal(t, "0xaa36a7", result)
}

func TestHTTPProvider_CodedError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      1,
			"error": map[string]any{
				"code":    4902,
				"message": "Unrecognized chain ID",
			},
		})
	}))
	defer server.Close()

	p := NewHTTPProvider(server.URL, nil, nil)
	_, err := p.Request(context.Background(), "wallet_switchEthereumChain", []any{map[string]string{"chainId": "0xaa36a7"}})
	require.Error(t, err)

	code, ok := ErrorCode(err)
	require.True(t, ok)
	assert.Equal(t, CodeUnrecognizedChain, code)
	assert.Contains(t, err.Error(), "Unrecognized chain ID")
}

func TestHTTPProvider_UserRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      1,
			"error": map[string]any{
				"code":    4001,
				"message": "User rejected the request",
			},
		})
	}))
	defer server.Close()

	p := NewHTTPProvider(server.URL, nil, nil)
	_, err := p.Request(context.Background(), "eth_sendTransaction", []any{})
	require.Error(t, err)

	code, ok := ErrorCode(err)
	require.True(t, ok)
	assert.Equal(t, CodeUserRejected, code)
}

func TestHTTPProvider_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	p := NewHTTPProvider(server.URL, nil, nil)
	_, err := p.Request(context.Background(), "eth_chainId", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")

	_, coded := ErrorCode(err)
	assert.False(t, coded)
}

func TestErrorCode_PlainError(t *testing.T) {
	_, ok := ErrorCode(assert.AnError)
	assert.False(t, ok)
}
