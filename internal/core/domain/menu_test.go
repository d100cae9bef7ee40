package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func everyone() RoleList {
	return RoleList{"public", "member", "admin_cabang", "admin_wilayah", "admin_pusat"}
}

func sampleMenu() []MenuItem {
	return []MenuItem{
		{ID: "home", Label: "Beranda", To: "/", IsActive: true, IsFixed: true, Slug: "beranda", Roles: everyone(), Order: 1},
		{ID: "dashboard", Label: "Dashboard", To: "/dashboard", IsActive: true, Roles: RoleList{"member"}, Order: 3},
		{
			ID: "profile", Label: "Profil", IsActive: true, Roles: everyone(), Order: 2,
			Children: []MenuItem{
				{ID: "visi", Label: "Visi", To: "/profil/visi-misi", IsActive: true, Roles: everyone(), Order: 2},
				{ID: "hidden", Label: "Hidden", To: "/profil/x", IsActive: false, Roles: everyone(), Order: 1},
			},
		},
		{
			ID: "members-only", Label: "Anggota", IsActive: true, Roles: everyone(), Order: 4,
			Children: []MenuItem{
				{ID: "docs", Label: "Dokumen", To: "/dokumen", IsActive: true, Roles: RoleList{"MEMBER"}},
			},
		},
		{ID: "external", Label: "Jurnal", Href: "https://journal.example.org", IsActive: true, Roles: everyone(), Order: 5},
	}
}

func ids(items []MenuItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestFilterMenu_Public(t *testing.T) {
	got := FilterMenu(sampleMenu(), "public")

	want := []string{"home", "profile", "external"}
	if g := ids(got); len(g) != len(want) {
		t.Fatalf("expected %v, got %v", want, g)
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
	if len(got[1].Children) != 1 || got[1].Children[0].ID != "visi" {
		t.Fatalf("inactive child should be removed: %+v", got[1].Children)
	}
}

func TestFilterMenu_MemberCaseInsensitive(t *testing.T) {
	got := FilterMenu(sampleMenu(), "Member")

	found := map[string]bool{}
	for _, id := range ids(got) {
		found[id] = true
	}
	if !found["dashboard"] || !found["members-only"] {
		t.Fatalf("member should see dashboard and members-only, got %v", ids(got))
	}
}

func TestFilterMenu_EmptyRoleIsPublic(t *testing.T) {
	if a, b := ids(FilterMenu(sampleMenu(), "")), ids(FilterMenu(sampleMenu(), "public")); len(a) != len(b) {
		t.Fatalf("empty role %v differs from public %v", a, b)
	}
}

func TestFilterMenu_DoesNotMutateInput(t *testing.T) {
	in := sampleMenu()
	_ = FilterMenu(in, "public")
	if len(in[2].Children) != 2 {
		t.Fatalf("input children modified: %+v", in[2].Children)
	}
}

func TestFilterMenu_PrunedChildrenBecomeAbsent(t *testing.T) {
	items := []MenuItem{{
		ID: "parent", To: "/parent", IsActive: true, Roles: everyone(),
		Children: []MenuItem{{ID: "c", To: "/c", IsActive: true, Roles: RoleList{"admin_pusat"}}},
	}}
	got := FilterMenu(items, "public")
	if len(got) != 1 {
		t.Fatalf("parent with own route should survive")
	}
	if got[0].Children != nil {
		t.Fatalf("expected nil children, got %+v", got[0].Children)
	}
	raw, _ := json.Marshal(got[0])
	var m map[string]any
	_ = json.Unmarshal(raw, &m)
	if _, ok := m["children"]; ok {
		t.Fatalf("children key should be omitted: %s", raw)
	}
}

func TestRoleList_DecodesEncodedString(t *testing.T) {
	var item MenuItem
	raw := `{"id":"x","label":"X","to":"/x","is_active":true,"roles":"[\"public\",\"member\"]"}`
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !item.IsActive {
		t.Fatalf("is_active not honoured")
	}
	if !item.Roles.Allows("member") || !item.Roles.Allows("PUBLIC") {
		t.Fatalf("roles not decoded: %v", item.Roles)
	}
}

func TestRoleList_RejectsGarbage(t *testing.T) {
	var r RoleList
	if err := json.Unmarshal([]byte(`"not json"`), &r); err == nil {
		t.Fatalf("expected error for malformed encoded list")
	}
	if err := json.Unmarshal([]byte(`42`), &r); err == nil {
		t.Fatalf("expected error for number")
	}
}

func TestSortMenu(t *testing.T) {
	got := SortMenu(sampleMenu())
	if got[0].ID != "home" || got[1].ID != "profile" || got[2].ID != "dashboard" {
		t.Fatalf("unexpected order: %v", ids(got))
	}
	if got[1].Children[0].ID != "hidden" {
		t.Fatalf("children not sorted: %v", ids(got[1].Children))
	}
}

func TestProtectFixed(t *testing.T) {
	current := sampleMenu()

	next := []MenuItem{{ID: "home", Label: "Home", To: "/changed", Slug: "changed", IsActive: true}}
	if err := ProtectFixed(next, current); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next[0].To != "/" || next[0].Slug != "beranda" || !next[0].IsFixed {
		t.Fatalf("fixed fields not restored: %+v", next[0])
	}
	if next[0].Label != "Home" {
		t.Fatalf("label should remain editable")
	}

	moved := []MenuItem{{ID: "wrapper", Children: []MenuItem{{ID: "home"}}}}
	if err := ProtectFixed(moved, current); err != nil {
		t.Fatalf("fixed item nested elsewhere should be accepted: %v", err)
	}

	if err := ProtectFixed([]MenuItem{{ID: "other"}}, current); !errors.Is(err, ErrFixedMenuRemoved) {
		t.Fatalf("expected ErrFixedMenuRemoved, got %v", err)
	}
}

func TestParseMenuPosition(t *testing.T) {
	if p, err := ParseMenuPosition("Header"); err != nil || p != MenuHeader {
		t.Fatalf("expected header, got %q %v", p, err)
	}
	if _, err := ParseMenuPosition("sidebar-left"); !errors.Is(err, ErrInvalidPosition) {
		t.Fatalf("expected ErrInvalidPosition, got %v", err)
	}
}
