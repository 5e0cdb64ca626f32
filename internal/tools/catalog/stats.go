package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/jaakkos/backoffice/internal/app"
)

func (r *registrar) registerCatalogStats() {
	r.add(
		mcp.NewTool("catalog_stats",
			mcp.WithDescription("Summary cards of both pages: product totals, active, published and out of stock; user totals, active, pending and admins."),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			st := r.svc.Stats()
			text := fmt.Sprintf("Products: %d total, %d active, %d published, %d out of stock\nUsers: %d total, %d active, %d pending, %d admins",
				st.Products.Total, st.Products.Active, st.Products.Published, st.Products.OutOfStock,
				st.Users.Total, st.Users.Active, st.Users.Pending, st.Users.Admins)
			return mcp.NewToolResultText(text), nil
		},
	)
}

func (r *registrar) registerReloadCatalog() {
	r.add(
		mcp.NewTool("reload_catalog",
			mcp.WithDescription("Discard in-memory changes and reset both pages from the seed catalog."),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			if err := r.svc.Reload(); err != nil {
				return nil, fmt.Errorf("reload: %w", err)
			}
			st := r.svc.Stats()
			r.logger.Info("catalog reloaded via tool")
			return mcp.NewToolResultText(fmt.Sprintf("Reloaded: %d products, %d users.", st.Products.Total, st.Users.Total)), nil
		},
	)
}

// registerResources exposes both collections as JSON resources.
func registerResources(s *server.MCPServer, svc *app.CatalogService, logger *zap.Logger) {
	for _, name := range []string{"products", "users"} {
		uri := "backoffice://catalog/" + name
		s.AddResource(
			mcp.NewResource(uri, "All "+name,
				mcp.WithResourceDescription(fmt.Sprintf("Every %s record as a JSON array, in insertion order.", name)),
				mcp.WithMIMEType("application/json"),
			),
			func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
				logger.Debug("resource read", zap.String("uri", uri))
				cat := svc.Catalog()
				var v any = cat.Products
				if name == "users" {
					v = cat.Users
				}
				data, err := json.MarshalIndent(v, "", "  ")
				if err != nil {
					return nil, err
				}
				return []mcp.ResourceContents{
					mcp.TextResourceContents{URI: req.Params.URI, MIMEType: "application/json", Text: string(data)},
				}, nil
			},
		)
	}
}
