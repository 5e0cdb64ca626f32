// Package catalog exposes the products and users pages as MCP tools.
package catalog

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/jaakkos/backoffice/internal/app"
)

// ToolGate decides whether a tool is exposed.
type ToolGate interface {
	IsToolEnabled(name string) bool
}

type registrar struct {
	s      *server.MCPServer
	svc    *app.CatalogService
	gate   ToolGate
	logger *zap.Logger
}

// add registers tool unless the gate disables it.
func (r *registrar) add(tool mcp.Tool, handler server.ToolHandlerFunc) {
	if r.gate != nil && !r.gate.IsToolEnabled(tool.Name) {
		r.logger.Debug("tool disabled by config", zap.String("tool", tool.Name))
		return
	}
	r.s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := handler(ctx, req)
		if err != nil {
			r.logger.Debug("tool failed", zap.String("tool", tool.Name), zap.Error(err))
		}
		return res, err
	})
}

// Register registers the catalog tools and resources with the mcp-go server.
// gate may be nil, in which case every tool is enabled.
func Register(s *server.MCPServer, svc *app.CatalogService, gate ToolGate, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &registrar{s: s, svc: svc, gate: gate, logger: logger.Named("tools")}

	// Product tools (6)
	r.registerListProducts()
	r.registerGetProduct()
	r.registerCreateProduct()
	r.registerUpdateProduct()
	r.registerDeleteProduct()
	r.registerToggleProduct()

	// User tools (5)
	r.registerListUsers()
	r.registerGetUser()
	r.registerCreateUser()
	r.registerUpdateUser()
	r.registerDeleteUser()

	// Summary and reload (2)
	r.registerCatalogStats()
	r.registerReloadCatalog()

	registerResources(s, svc, logger)
}
