package catalog

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/jaakkos/backoffice/internal/app"
	"github.com/jaakkos/backoffice/internal/domain"
)

func (r *registrar) registerListProducts() {
	r.add(
		mcp.NewTool("list_products",
			mcp.WithDescription("List products in insertion order. Pass q to filter by a case-insensitive substring of name, SKU or any tag."),
			mcp.WithString("q", mcp.Description("Search text; empty lists everything")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			q, _ := req.GetArguments()["q"].(string)
			var products []domain.Product
			_ = r.svc.Query(func(p *app.Pages) error {
				products = p.Products.Filter(q)
				return nil
			})
			if len(products) == 0 {
				if q != "" {
					return mcp.NewToolResultText(fmt.Sprintf("No products match %q.", q)), nil
				}
				return mcp.NewToolResultText("No products."), nil
			}
			var b strings.Builder
			fmt.Fprintf(&b, "%d product(s):\n", len(products))
			for _, p := range products {
				b.WriteString(productLine(p))
				b.WriteByte('\n')
			}
			return mcp.NewToolResultText(b.String()), nil
		},
	)
}

func (r *registrar) registerGetProduct() {
	r.add(
		mcp.NewTool("get_product",
			mcp.WithDescription("Show every field of one product."),
			mcp.WithString("id", mcp.Required(), mcp.Description("Product id")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			id, err := requireString(req.GetArguments(), "id")
			if err != nil {
				return nil, err
			}
			var (
				p  domain.Product
				ok bool
			)
			_ = r.svc.Query(func(pages *app.Pages) error {
				p, ok = pages.Products.Get(id)
				return nil
			})
			if !ok {
				return nil, fmt.Errorf("product %s not found", id)
			}
			return mcp.NewToolResultText(productDetail(p)), nil
		},
	)
}

func productArgs() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("sku", mcp.Description("Stock keeping unit, at least 2 characters")),
		mcp.WithNumber("quantity", mcp.Description("Units in stock; a non-negative whole number")),
		mcp.WithArray("tags", mcp.Description("Tags; duplicates are dropped"), mcp.WithStringItems()),
		mcp.WithArray("images", mcp.Description("Image URLs; duplicates are dropped"), mcp.WithStringItems()),
		mcp.WithString("description", mcp.Description("Full description")),
		mcp.WithString("short_description", mcp.Description("Summary, at most 200 characters")),
		mcp.WithBoolean("is_active", mcp.Description("Whether the product is active")),
		mcp.WithBoolean("is_published", mcp.Description("Whether the product is published")),
	}
}

func (r *registrar) registerCreateProduct() {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Create a product through the add-product dialog. Omitted fields keep the dialog defaults (quantity 0, active, unpublished). The new product gets the next id and a $0.00 price."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Product name, at least 2 characters")),
	}, productArgs()...)
	r.add(
		mcp.NewTool("create_product", opts...),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			changes, err := productChanges(req.GetArguments())
			if err != nil {
				return nil, err
			}
			var created domain.Product
			err = r.svc.Run(func(p *app.Pages) error {
				var err error
				created, err = p.Products.Create(ctx, changes.Apply)
				return err
			})
			if err != nil {
				return nil, mutationError("create_product", err)
			}
			r.logger.Info("product created", zap.String("id", created.ID), zap.String("name", created.Name))
			return mcp.NewToolResultText(fmt.Sprintf("Created product %s.\n%s", created.ID, productLine(created))), nil
		},
	)
}

func (r *registrar) registerUpdateProduct() {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Edit a product through the edit dialog. Only the fields you pass change; id and price are kept."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Product id")),
		mcp.WithString("name", mcp.Description("Product name, at least 2 characters")),
	}, productArgs()...)
	r.add(
		mcp.NewTool("update_product", opts...),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := req.GetArguments()
			id, err := requireString(args, "id")
			if err != nil {
				return nil, err
			}
			changes, err := productChanges(args)
			if err != nil {
				return nil, err
			}
			var (
				updated domain.Product
				ok      bool
			)
			err = r.svc.Run(func(p *app.Pages) error {
				var err error
				updated, ok, err = p.Products.Edit(ctx, id, changes.Apply)
				return err
			})
			if err != nil {
				return nil, mutationError("update_product", err)
			}
			if !ok {
				return nil, fmt.Errorf("product %s not found", id)
			}
			r.logger.Info("product updated", zap.String("id", id))
			return mcp.NewToolResultText(fmt.Sprintf("Updated product %s.\n%s", id, productLine(updated))), nil
		},
	)
}

func (r *registrar) registerDeleteProduct() {
	r.add(
		mcp.NewTool("delete_product",
			mcp.WithDescription("Delete a product through the confirmation dialog."),
			mcp.WithString("id", mcp.Required(), mcp.Description("Product id")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			id, err := requireString(req.GetArguments(), "id")
			if err != nil {
				return nil, err
			}
			var (
				removed domain.Product
				ok      bool
			)
			err = r.svc.Run(func(p *app.Pages) error {
				var err error
				removed, ok, err = p.Products.Delete(ctx, id)
				return err
			})
			if err != nil {
				return nil, mutationError("delete_product", err)
			}
			if !ok {
				return nil, fmt.Errorf("product %s not found", id)
			}
			r.logger.Info("product deleted", zap.String("id", id))
			return mcp.NewToolResultText(fmt.Sprintf("Deleted product %s (%s).", id, removed.Name)), nil
		},
	)
}

func (r *registrar) registerToggleProduct() {
	r.add(
		mcp.NewTool("toggle_product",
			mcp.WithDescription("Flip a product's active or published switch. No other field changes."),
			mcp.WithString("id", mcp.Required(), mcp.Description("Product id")),
			mcp.WithString("field", mcp.Required(), mcp.Enum(string(domain.FlagActive), string(domain.FlagPublished)), mcp.Description("Field to flip")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := req.GetArguments()
			id, err := requireString(args, "id")
			if err != nil {
				return nil, err
			}
			field, err := requireString(args, "field")
			if err != nil {
				return nil, err
			}
			if !slices.Contains(domain.ProductFlags, domain.Flag(field)) {
				return nil, fmt.Errorf("field must be %s or %s, got %q", domain.FlagActive, domain.FlagPublished, field)
			}
			var (
				p  domain.Product
				ok bool
			)
			_ = r.svc.Run(func(pages *app.Pages) error {
				p, ok = pages.Products.Toggle(id, domain.Flag(field))
				return nil
			})
			if !ok {
				return nil, fmt.Errorf("product %s not found", id)
			}
			return mcp.NewToolResultText(fmt.Sprintf("Toggled %s on product %s.\n%s", field, id, productLine(p))), nil
		},
	)
}

func productLine(p domain.Product) string {
	return fmt.Sprintf("[%s] %s (%s) qty=%d %s %s tags=%s",
		p.ID, app.Truncate(p.Name, 60), p.SKU, p.Quantity,
		onOff(p.IsActive, "active", "inactive"), onOff(p.IsPublished, "published", "draft"),
		strings.Join(p.Tags, ","))
}

func productDetail(p domain.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Product %s\n", p.ID)
	fmt.Fprintf(&b, "  name: %s\n", p.Name)
	fmt.Fprintf(&b, "  sku: %s\n", p.SKU)
	fmt.Fprintf(&b, "  price: %s\n", p.Price)
	fmt.Fprintf(&b, "  quantity: %d\n", p.Quantity)
	fmt.Fprintf(&b, "  active: %t\n", p.IsActive)
	fmt.Fprintf(&b, "  published: %t\n", p.IsPublished)
	fmt.Fprintf(&b, "  tags: %s\n", strings.Join(p.Tags, ", "))
	fmt.Fprintf(&b, "  images: %s\n", strings.Join(p.Images, ", "))
	fmt.Fprintf(&b, "  thumbnail: %s\n", p.Thumbnail())
	fmt.Fprintf(&b, "  short description: %s\n", p.ShortDescription)
	fmt.Fprintf(&b, "  description: %s\n", p.Description)
	return b.String()
}

func onOff(v bool, on, off string) string {
	if v {
		return on
	}
	return off
}
