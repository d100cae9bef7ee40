package domain

import "strings"

// MemberProfile is the public face of an account in the member directory.
// It never carries contact details or credentials.
type MemberProfile struct {
	ID                string            `json:"id"`
	MemberID          string            `json:"memberId"`
	Name              string            `json:"name"`
	Avatar            string            `json:"avatar,omitempty"`
	Category          string            `json:"category,omitempty"`
	OrganizationLevel OrganizationLevel `json:"organizationLevel,omitempty"`
	Branch            string            `json:"branch,omitempty"`
	Province          string            `json:"province,omitempty"`
	City              string            `json:"city,omitempty"`
}

func NewMemberProfile(u *User) MemberProfile {
	return MemberProfile{
		ID:                u.ID,
		MemberID:          u.MemberID,
		Name:              u.Name,
		Avatar:            u.Avatar,
		Category:          u.Category,
		OrganizationLevel: u.OrganizationLevel,
		Branch:            u.BranchID,
		Province:          u.Province,
		City:              u.City,
	}
}

// Listed reports whether u appears in the public directory: only accounts
// holding a verified member ID do.
func (u *User) Listed() bool {
	id := strings.TrimSpace(u.MemberID)
	return id != "" && id != PendingMemberID
}

// MemberFilters lists the distinct branches and provinces of listed members,
// sorted, for building directory filter controls.
type MemberFilters struct {
	Branches  []string `json:"branches"`
	Provinces []string `json:"provinces"`
}
