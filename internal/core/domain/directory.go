package domain

import "strings"

// FacilityType classifies a directory entry.
type FacilityType string

const (
	FacilityRumahSakit   FacilityType = "rumah_sakit"
	FacilityKlinik       FacilityType = "klinik"
	FacilityInstansi     FacilityType = "instansi"
	FacilityLaboratorium FacilityType = "laboratorium"
)

// DirectoryEntry is a healthcare facility listed in the public directory.
type DirectoryEntry struct {
	ID               string       `json:"id"                   bson:"_id"`
	Slug             string       `json:"slug"                 bson:"slug"`
	Name             string       `json:"name"                 bson:"name"`
	Type             FacilityType `json:"type"                 bson:"type"`
	Address          string       `json:"address"              bson:"address"`
	Phone            string       `json:"phone"                bson:"phone"`
	Email            string       `json:"email,omitempty"      bson:"email,omitempty"`
	Website          string       `json:"website,omitempty"    bson:"website,omitempty"`
	City             string       `json:"city"                 bson:"city"`
	Province         string       `json:"province"             bson:"province"`
	HasRespirologist bool         `json:"hasRespirologist"     bson:"has_respirologist"`
	Facilities       []string     `json:"facilities,omitempty" bson:"facilities,omitempty"`

	Lifecycle `bson:",inline"`
}

func (d *DirectoryEntry) RecordID() string   { return d.ID }
func (d *DirectoryEntry) RecordSlug() string { return d.Slug }
func (d *DirectoryEntry) State() *Lifecycle  { return &d.Lifecycle }

// Validate checks the fields required for a directory entry to exist.
func (d *DirectoryEntry) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return Invalid("name is required")
	}
	if strings.TrimSpace(d.City) == "" {
		return Invalid("city is required")
	}
	return nil
}
