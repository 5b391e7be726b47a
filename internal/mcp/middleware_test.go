package mcp

import (
	"context"
	"net/http"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware(t *testing.T) {
	var calls int
	next := func(context.Context, string, sdkmcp.Request) (sdkmcp.Result, error) {
		calls++
		return &sdkmcp.CallToolResult{}, nil
	}
	handler := authMiddleware("s3cret")(next)

	withHeader := func(auth string) *sdkmcp.CallToolRequest {
		h := http.Header{}
		if auth != "" {
			h.Set("Authorization", auth)
		}
		return &sdkmcp.CallToolRequest{Extra: &sdkmcp.RequestExtra{Header: h}}
	}

	_, err := handler(context.Background(), "tools/call", withHeader("Bearer s3cret"))
	require.NoError(t, err)

	_, err = handler(context.Background(), "tools/call", withHeader("Bearer wrong"))
	require.ErrorContains(t, err, "invalid bearer token")

	_, err = handler(context.Background(), "tools/call", withHeader(""))
	require.ErrorContains(t, err, "missing bearer token")

	_, err = handler(context.Background(), "tools/call", &sdkmcp.CallToolRequest{})
	require.ErrorContains(t, err, "missing headers")

	_, err = handler(context.Background(), "initialize", &sdkmcp.InitializeRequest{})
	require.NoError(t, err)

	require.Equal(t, 2, calls)
}
