package domain

import "time"

// OrganizationLevel is the tier of the association a user or board member belongs to.
type OrganizationLevel string

const (
	LevelPusat   OrganizationLevel = "pusat"
	LevelWilayah OrganizationLevel = "wilayah"
	LevelCabang  OrganizationLevel = "cabang"
)

// PendingMemberID is assigned to self-registered accounts until an admin verifies them.
const PendingMemberID = "PENDING-VERIFICATION"

// User models an authenticated portal account.
type User struct {
	ID                string            `json:"id"                          bson:"_id"`
	Email             string            `json:"email"                       bson:"email"`
	Name              string            `json:"name"                        bson:"name"`
	PasswordHash      string            `json:"-"                           bson:"password_hash"`
	Role              Role              `json:"role"                        bson:"role"`
	Avatar            string            `json:"avatar,omitempty"            bson:"avatar,omitempty"`
	MemberID          string            `json:"memberId,omitempty"          bson:"member_id,omitempty"`
	OrganizationLevel OrganizationLevel `json:"organizationLevel,omitempty" bson:"organization_level,omitempty"`
	BranchID          string            `json:"branchId,omitempty"          bson:"branch_id,omitempty"`
	RegionID          string            `json:"regionId,omitempty"          bson:"region_id,omitempty"`
	Province          string            `json:"province,omitempty"          bson:"province,omitempty"`
	City              string            `json:"city,omitempty"              bson:"city,omitempty"`
	Phone             string            `json:"phone,omitempty"             bson:"phone,omitempty"`
	Bio               string            `json:"bio,omitempty"               bson:"bio,omitempty"`
	Address           string            `json:"address,omitempty"           bson:"address,omitempty"`
	Category          string            `json:"category,omitempty"          bson:"category,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"                   bson:"created_at"`
	UpdatedAt         time.Time         `json:"updatedAt"                   bson:"updated_at"`
}

// ProfileUpdate lists the self-editable profile fields. Nil means unchanged.
type ProfileUpdate struct {
	Name    *string
	Avatar  *string
	Phone   *string
	Bio     *string
	Address *string
}

// Apply copies the non-nil fields of p onto u.
func (p ProfileUpdate) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.Address != nil {
		u.Address = *p.Address
	}
}
