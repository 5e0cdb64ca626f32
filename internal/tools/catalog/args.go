package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jaakkos/backoffice/internal/app"
	"github.com/jaakkos/backoffice/internal/dialog"
)

// requireString extracts a non-empty string from args by key.
func requireString(args map[string]any, key string) (string, error) {
	v, _ := args[key].(string)
	if v == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return v, nil
}

// optionalString returns a pointer to the string under key, or nil when it is absent.
func optionalString(args map[string]any, key string) (*string, error) {
	v, exists := args[key]
	if !exists || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%s must be a string, got %T", key, v)
	}
	return &s, nil
}

func optionalBool(args map[string]any, key string) (*bool, error) {
	v, exists := args[key]
	if !exists || v == nil {
		return nil, nil
	}
	b, ok := v.(bool)
	if !ok {
		return nil, fmt.Errorf("%s must be a boolean, got %T", key, v)
	}
	return &b, nil
}

// optionalStrings reads a JSON array of strings. Non-string items are rejected.
func optionalStrings(args map[string]any, key string) (*[]string, error) {
	v, exists := args[key]
	if !exists || v == nil {
		return nil, nil
	}
	items, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%s must be an array, got %T", key, v)
	}
	out := make([]string, 0, len(items))
	for _, x := range items {
		s, ok := x.(string)
		if !ok {
			return nil, fmt.Errorf("%s must contain only strings, got %T", key, x)
		}
		out = append(out, s)
	}
	return &out, nil
}

// productChanges builds a partial product form from tool arguments.
func productChanges(args map[string]any) (app.ProductChanges, error) {
	var (
		c   app.ProductChanges
		err error
	)
	if c.Name, err = optionalString(args, "name"); err != nil {
		return c, err
	}
	if c.SKU, err = optionalString(args, "sku"); err != nil {
		return c, err
	}
	if q, exists := args["quantity"]; exists && q != nil {
		c.Quantity = q
	}
	if c.Tags, err = optionalStrings(args, "tags"); err != nil {
		return c, err
	}
	if c.Images, err = optionalStrings(args, "images"); err != nil {
		return c, err
	}
	if c.Description, err = optionalString(args, "description"); err != nil {
		return c, err
	}
	if c.ShortDescription, err = optionalString(args, "short_description"); err != nil {
		return c, err
	}
	if c.IsActive, err = optionalBool(args, "is_active"); err != nil {
		return c, err
	}
	if c.IsPublished, err = optionalBool(args, "is_published"); err != nil {
		return c, err
	}
	return c, nil
}

// userChanges builds a partial user form from tool arguments.
func userChanges(args map[string]any) (app.UserChanges, error) {
	var (
		c   app.UserChanges
		err error
	)
	for key, dst := range map[string]**string{
		"name":   &c.Name,
		"email":  &c.Email,
		"role":   &c.Role,
		"status": &c.Status,
	} {
		if *dst, err = optionalString(args, key); err != nil {
			return c, err
		}
	}
	return c, nil
}

// mutationError turns a failed dialog submission into a tool error.
func mutationError(action string, err error) error {
	var fields dialog.FieldErrors
	if errors.As(err, &fields) {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b strings.Builder
		for _, k := range keys {
			fmt.Fprintf(&b, "\n- %s: %s", k, fields[k])
		}
		return fmt.Errorf("%s rejected:%s", action, b.String())
	}
	return fmt.Errorf("%s: %w", action, err)
}
