package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jaakkos/backoffice/internal/app"
	"github.com/jaakkos/backoffice/internal/policy"
	"github.com/jaakkos/backoffice/internal/repository/seed"
)

// newTestService returns a service over the embedded sample catalog.
func newTestService(t *testing.T) *app.CatalogService {
	t.Helper()
	svc, err := app.NewCatalogService(seed.New(""), policy.New(policy.DefaultConfig()), nil)
	if err != nil {
		t.Fatalf("NewCatalogService: %v", err)
	}
	return svc
}

// testServer creates a MCPServer with all tools registered for testing.
func testServer(svc *app.CatalogService) *server.MCPServer {
	return testServerWithGate(svc, nil)
}

func testServerWithGate(svc *app.CatalogService, gate ToolGate) *server.MCPServer {
	s := server.NewMCPServer("test", "1.0.0", server.WithResourceCapabilities(false, false))
	Register(s, svc, gate, nil)
	return s
}

// callTool calls a registered tool via the MCPServer's HandleMessage.
// Returns the parsed CallToolResult or an error.
func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) (*mcp.CallToolResult, error) {
	t.Helper()
	resp := handle(t, s, "tools/call", map[string]any{"name": name, "arguments": args})
	if resp.Error != nil {
		return nil, fmt.Errorf("RPC error %d: %s", resp.Error.Code, resp.Error.Message)
	}
	var result mcp.CallToolResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	return &result, nil
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func handle(t *testing.T, s *server.MCPServer, method string, params map[string]any) rpcResponse {
	t.Helper()
	reqJSON, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	respBytes, err := json.Marshal(s.HandleMessage(context.Background(), reqJSON))
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	var resp rpcResponse
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	return resp
}

// resultText extracts the first text content from a CallToolResult.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("result is nil")
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatal("no text content in result")
	return ""
}

// mustCall fails the test when the tool returns an error.
func mustCall(t *testing.T, s *server.MCPServer, name string, args map[string]any) string {
	t.Helper()
	res, err := callTool(t, s, name, args)
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	if res.IsError {
		t.Fatalf("%s returned an error result: %s", name, resultText(t, res))
	}
	return resultText(t, res)
}

// mustFail asserts the tool call fails and returns the failure message.
func mustFail(t *testing.T, s *server.MCPServer, name string, args map[string]any) string {
	t.Helper()
	res, err := callTool(t, s, name, args)
	if err != nil {
		return err.Error()
	}
	if !res.IsError {
		t.Fatalf("%s: expected failure, got %q", name, resultText(t, res))
	}
	return resultText(t, res)
}
