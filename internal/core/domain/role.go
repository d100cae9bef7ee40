package domain

import "strings"

// Role identifies the access tier of a portal user.
type Role string

const (
	RolePublic       Role = "public"
	RoleMember       Role = "member"
	RoleAdminCabang  Role = "admin_cabang"
	RoleAdminWilayah Role = "admin_wilayah"
	RoleAdminPusat   Role = "admin_pusat"
)

// Permission is a single capability string such as "manage:content".
type Permission string

const (
	PermViewPublicContent     Permission = "view:public_content"
	PermViewMemberProfile     Permission = "view:member_profile"
	PermEditMemberProfile     Permission = "edit:member_profile"
	PermViewDocuments         Permission = "view:documents"
	PermUploadDocuments       Permission = "upload:documents"
	PermViewSKP               Permission = "view:skp"
	PermManageBranchMembers   Permission = "manage:branch_members"
	PermManageRegionMembers   Permission = "manage:region_members"
	PermManageAllMembers      Permission = "manage:all_members"
	PermValidateRegistrations Permission = "validate:registrations"
	PermManageContent         Permission = "manage:content"
	PermManageMenus           Permission = "manage:menus"
	PermManageSettings        Permission = "manage:settings"
	PermViewBranchReports     Permission = "view:branch_reports"
	PermViewRegionReports     Permission = "view:region_reports"
	PermViewAllReports        Permission = "view:all_reports"
	PermExportData            Permission = "export:data"
)

var memberPermissions = []Permission{
	PermViewPublicContent,
	PermViewMemberProfile,
	PermEditMemberProfile,
	PermViewDocuments,
	PermUploadDocuments,
	PermViewSKP,
}

var rolePermissions = map[Role]map[Permission]struct{}{
	RolePublic: permissionSet(PermViewPublicContent),
	RoleMember: permissionSet(memberPermissions...),
	RoleAdminCabang: permissionSet(append(append([]Permission{}, memberPermissions...),
		PermManageBranchMembers,
		PermValidateRegistrations,
		PermManageContent,
		PermViewBranchReports,
	)...),
	RoleAdminWilayah: permissionSet(append(append([]Permission{}, memberPermissions...),
		PermManageBranchMembers,
		PermManageRegionMembers,
		PermValidateRegistrations,
		PermManageContent,
		PermViewBranchReports,
		PermViewRegionReports,
	)...),
	RoleAdminPusat: permissionSet(append(append([]Permission{}, memberPermissions...),
		PermManageBranchMembers,
		PermManageRegionMembers,
		PermManageAllMembers,
		PermValidateRegistrations,
		PermManageContent,
		PermManageMenus,
		PermManageSettings,
		PermViewBranchReports,
		PermViewRegionReports,
		PermViewAllReports,
		PermExportData,
	)...),
}

var roleLevels = map[Role]int{
	RolePublic:       0,
	RoleMember:       1,
	RoleAdminCabang:  2,
	RoleAdminWilayah: 3,
	RoleAdminPusat:   4,
}

func permissionSet(perms ...Permission) map[Permission]struct{} {
	set := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// ParseRole normalises s and reports whether it names a known role.
// An empty string is treated as public.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if r == "" {
		return RolePublic, true
	}
	_, ok := roleLevels[r]
	return r, ok
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleLevels[r]
	return ok
}

// Level returns the hierarchy level of r, or -1 for unknown roles.
func (r Role) Level() int {
	lvl, ok := roleLevels[r]
	if !ok {
		return -1
	}
	return lvl
}

// IsAdmin reports whether r is one of the three administrator tiers.
func (r Role) IsAdmin() bool {
	return r == RoleAdminCabang || r == RoleAdminWilayah || r == RoleAdminPusat
}

// HasPermission reports whether r grants p.
func (r Role) HasPermission(p Permission) bool {
	_, ok := rolePermissions[r][p]
	return ok
}

// HasAnyPermission reports whether r grants at least one of perms.
func (r Role) HasAnyPermission(perms ...Permission) bool {
	for _, p := range perms {
		if r.HasPermission(p) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether r grants every permission in perms.
// An empty list is trivially satisfied.
func (r Role) HasAllPermissions(perms ...Permission) bool {
	for _, p := range perms {
		if !r.HasPermission(p) {
			return false
		}
	}
	return true
}

// HasMinimumRole reports whether r sits at or above minimum in the hierarchy.
// Unknown roles on either side never satisfy the check.
func (r Role) HasMinimumRole(minimum Role) bool {
	have, want := r.Level(), minimum.Level()
	if have < 0 || want < 0 {
		return false
	}
	return have >= want
}

// Permissions returns the permissions granted to r in a stable order.
func (r Role) Permissions() []Permission {
	set := rolePermissions[r]
	out := make([]Permission, 0, len(set))
	for _, p := range allPermissions {
		if _, ok := set[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

var allPermissions = []Permission{
	PermViewPublicContent,
	PermViewMemberProfile,
	PermEditMemberProfile,
	PermViewDocuments,
	PermUploadDocuments,
	PermViewSKP,
	PermManageBranchMembers,
	PermManageRegionMembers,
	PermManageAllMembers,
	PermValidateRegistrations,
	PermManageContent,
	PermManageMenus,
	PermManageSettings,
	PermViewBranchReports,
	PermViewRegionReports,
	PermViewAllReports,
	PermExportData,
}
