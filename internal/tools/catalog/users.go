package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/jaakkos/backoffice/internal/app"
	"github.com/jaakkos/backoffice/internal/domain"
)

var (
	roleEnum   = mcp.Enum(string(domain.RoleAdmin), string(domain.RoleEditor), string(domain.RoleViewer))
	statusEnum = mcp.Enum(string(domain.StatusActive), string(domain.StatusInactive), string(domain.StatusPending))
)

func (r *registrar) registerListUsers() {
	r.add(
		mcp.NewTool("list_users",
			mcp.WithDescription("List users in insertion order. Pass q to filter by a case-insensitive substring of name, email or role."),
			mcp.WithString("q", mcp.Description("Search text; empty lists everything")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			q, _ := req.GetArguments()["q"].(string)
			var users []domain.User
			_ = r.svc.Query(func(p *app.Pages) error {
				users = p.Users.Filter(q)
				return nil
			})
			if len(users) == 0 {
				if q != "" {
					return mcp.NewToolResultText(fmt.Sprintf("No users match %q.", q)), nil
				}
				return mcp.NewToolResultText("No users."), nil
			}
			var b strings.Builder
			fmt.Fprintf(&b, "%d user(s):\n", len(users))
			for _, u := range users {
				b.WriteString(userLine(u))
				b.WriteByte('\n')
			}
			return mcp.NewToolResultText(b.String()), nil
		},
	)
}

func (r *registrar) registerGetUser() {
	r.add(
		mcp.NewTool("get_user",
			mcp.WithDescription("Show one user."),
			mcp.WithString("id", mcp.Required(), mcp.Description("User id")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			id, err := requireString(req.GetArguments(), "id")
			if err != nil {
				return nil, err
			}
			var (
				u  domain.User
				ok bool
			)
			_ = r.svc.Query(func(p *app.Pages) error {
				u, ok = p.Users.Get(id)
				return nil
			})
			if !ok {
				return nil, fmt.Errorf("user %s not found", id)
			}
			return mcp.NewToolResultText(fmt.Sprintf("%s\n  last active: %s\n  avatar: %s", userLine(u), u.LastActive, u.AvatarURL)), nil
		},
	)
}

func (r *registrar) registerCreateUser() {
	r.add(
		mcp.NewTool("create_user",
			mcp.WithDescription("Create a user through the add-user dialog. Role defaults to Viewer and status to Active."),
			mcp.WithString("name", mcp.Required(), mcp.Description("Full name, at least 2 characters")),
			mcp.WithString("email", mcp.Required(), mcp.Description("Email address")),
			mcp.WithString("role", roleEnum, mcp.Description("Role")),
			mcp.WithString("status", statusEnum, mcp.Description("Account status")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			changes, err := userChanges(req.GetArguments())
			if err != nil {
				return nil, err
			}
			var created domain.User
			err = r.svc.Run(func(p *app.Pages) error {
				var err error
				created, err = p.Users.Create(ctx, changes.Apply)
				return err
			})
			if err != nil {
				return nil, mutationError("create_user", err)
			}
			r.logger.Info("user created", zap.String("id", created.ID), zap.String("email", created.Email))
			return mcp.NewToolResultText(fmt.Sprintf("Created user %s.\n%s", created.ID, userLine(created))), nil
		},
	)
}

func (r *registrar) registerUpdateUser() {
	r.add(
		mcp.NewTool("update_user",
			mcp.WithDescription("Edit a user through the edit dialog. Only the fields you pass change."),
			mcp.WithString("id", mcp.Required(), mcp.Description("User id")),
			mcp.WithString("name", mcp.Description("Full name, at least 2 characters")),
			mcp.WithString("email", mcp.Description("Email address")),
			mcp.WithString("role", roleEnum, mcp.Description("Role")),
			mcp.WithString("status", statusEnum, mcp.Description("Account status")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := req.GetArguments()
			id, err := requireString(args, "id")
			if err != nil {
				return nil, err
			}
			changes, err := userChanges(args)
			if err != nil {
				return nil, err
			}
			var (
				updated domain.User
				ok      bool
			)
			err = r.svc.Run(func(p *app.Pages) error {
				var err error
				updated, ok, err = p.Users.Edit(ctx, id, changes.Apply)
				return err
			})
			if err != nil {
				return nil, mutationError("update_user", err)
			}
			if !ok {
				return nil, fmt.Errorf("user %s not found", id)
			}
			r.logger.Info("user updated", zap.String("id", id))
			return mcp.NewToolResultText(fmt.Sprintf("Updated user %s.\n%s", id, userLine(updated))), nil
		},
	)
}

func (r *registrar) registerDeleteUser() {
	r.add(
		mcp.NewTool("delete_user",
			mcp.WithDescription("Delete a user through the confirmation dialog."),
			mcp.WithString("id", mcp.Required(), mcp.Description("User id")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			id, err := requireString(req.GetArguments(), "id")
			if err != nil {
				return nil, err
			}
			var (
				removed domain.User
				ok      bool
			)
			err = r.svc.Run(func(p *app.Pages) error {
				var err error
				removed, ok, err = p.Users.Delete(ctx, id)
				return err
			})
			if err != nil {
				return nil, mutationError("delete_user", err)
			}
			if !ok {
				return nil, fmt.Errorf("user %s not found", id)
			}
			r.logger.Info("user deleted", zap.String("id", id))
			return mcp.NewToolResultText(fmt.Sprintf("Deleted user %s (%s).", id, removed.Name)), nil
		},
	)
}

func userLine(u domain.User) string {
	return fmt.Sprintf("[%s] %s <%s> %s, %s", u.ID, app.Truncate(u.Name, 60), u.Email, u.Role, u.Status)
}
