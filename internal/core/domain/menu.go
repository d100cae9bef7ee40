package domain

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// MenuPosition is where a menu tree is rendered.
type MenuPosition string

const (
	MenuHeader  MenuPosition = "header"
	MenuSidebar MenuPosition = "sidebar"
	MenuFooter  MenuPosition = "footer"
)

// MenuPositions lists every valid position in display order.
var MenuPositions = []MenuPosition{MenuHeader, MenuSidebar, MenuFooter}

// ParseMenuPosition validates s as a menu position.
func ParseMenuPosition(s string) (MenuPosition, error) {
	p := MenuPosition(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(MenuPositions, p) {
		return p, nil
	}
	return "", fmt.Errorf("%w: %q must be one of header, sidebar, footer", ErrInvalidPosition, s)
}

// RoleList is the set of roles allowed to see a menu item. It decodes from a
// JSON array or from a string holding a JSON-encoded array.
type RoleList []string

func (r *RoleList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*r = list
		return nil
	}
	var encoded string
	if err := json.Unmarshal(data, &encoded); err != nil {
		return fmt.Errorf("roles: expected array or string: %w", err)
	}
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		*r = nil
		return nil
	}
	if err := json.Unmarshal([]byte(encoded), &list); err != nil {
		return fmt.Errorf("roles: malformed encoded list: %w", err)
	}
	*r = list
	return nil
}

// Allows reports whether role is in the list, ignoring case.
func (r RoleList) Allows(role string) bool {
	for _, candidate := range r {
		if strings.EqualFold(strings.TrimSpace(candidate), role) {
			return true
		}
	}
	return false
}

// MenuItem is one node of a navigation tree.
type MenuItem struct {
	ID          string       `json:"id"                    bson:"id"                    yaml:"id"`
	Label       string       `json:"label"                 bson:"label"                 yaml:"label"`
	Slug        string       `json:"slug"                  bson:"slug"                  yaml:"slug"`
	To          string       `json:"to,omitempty"          bson:"to,omitempty"          yaml:"to"`
	Href        string       `json:"href,omitempty"        bson:"href,omitempty"        yaml:"href"`
	Icon        string       `json:"icon,omitempty"        bson:"icon,omitempty"        yaml:"icon"`
	ParentID    string       `json:"parentId,omitempty"    bson:"parent_id,omitempty"   yaml:"parentId"`
	Position    MenuPosition `json:"position"              bson:"position"              yaml:"position"`
	Order       int          `json:"order"                 bson:"order"                 yaml:"order"`
	IsActive    bool         `json:"isActive"              bson:"is_active"             yaml:"isActive"`
	IsFixed     bool         `json:"isFixed,omitempty"     bson:"is_fixed,omitempty"    yaml:"isFixed"`
	IsDynamic   bool         `json:"isDynamic,omitempty"   bson:"is_dynamic,omitempty"  yaml:"isDynamic"`
	Roles       RoleList     `json:"roles"                 bson:"roles"                 yaml:"roles"`
	Target      string       `json:"target,omitempty"      bson:"target,omitempty"      yaml:"target"`
	Description string       `json:"description,omitempty" bson:"description,omitempty" yaml:"description"`
	Children    []MenuItem   `json:"children,omitempty"    bson:"children,omitempty"    yaml:"children"`
}

// UnmarshalJSON also accepts the snake_case is_active flag some backends emit.
func (m *MenuItem) UnmarshalJSON(data []byte) error {
	type plain MenuItem
	aux := struct {
		*plain
		IsActiveSnake *bool `json:"is_active"`
	}{plain: (*plain)(m)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.IsActiveSnake != nil {
		m.IsActive = *aux.IsActiveSnake
	}
	return nil
}

// HasDestination reports whether the item links somewhere by itself.
func (m MenuItem) HasDestination() bool {
	return m.To != "" || m.Href != ""
}

// FilterMenu returns the subtree of items visible to role. An item survives
// when it is active, lists role, and either links somewhere or keeps at least
// one visible child. An empty role is treated as public. The input is not
// modified.
func FilterMenu(items []MenuItem, role string) []MenuItem {
	role = strings.TrimSpace(role)
	if role == "" {
		role = string(RolePublic)
	}
	return filterMenu(items, role)
}

func filterMenu(items []MenuItem, role string) []MenuItem {
	var out []MenuItem
	for _, item := range items {
		if !item.IsActive || !item.Roles.Allows(role) {
			continue
		}
		node := item
		node.Children = nil
		if len(item.Children) > 0 {
			node.Children = filterMenu(item.Children, role)
		}
		if len(node.Children) == 0 && !node.HasDestination() {
			continue
		}
		out = append(out, node)
	}
	return out
}

// SortMenu returns a copy of items ordered by Order at every level.
func SortMenu(items []MenuItem) []MenuItem {
	if items == nil {
		return nil
	}
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b MenuItem) int { return a.Order - b.Order })
	for i := range out {
		out[i].Children = SortMenu(out[i].Children)
	}
	return out
}

// FindMenuItem searches the tree depth-first for id.
func FindMenuItem(items []MenuItem, id string) *MenuItem {
	for i := range items {
		if items[i].ID == id {
			return &items[i]
		}
		if found := FindMenuItem(items[i].Children, id); found != nil {
			return found
		}
	}
	return nil
}

// ProtectFixed checks that every fixed item of current survives in next,
// anywhere in the tree, and pins its route, slug and fixed flag to the
// current values. It mutates next in place.
func ProtectFixed(next, current []MenuItem) error {
	for _, old := range current {
		if old.IsFixed {
			item := FindMenuItem(next, old.ID)
			if item == nil {
				return fmt.Errorf("%w: %q", ErrFixedMenuRemoved, old.Label)
			}
			item.IsFixed = true
			item.To = old.To
			item.Slug = old.Slug
		}
		if err := ProtectFixed(next, old.Children); err != nil {
			return err
		}
	}
	return nil
}
