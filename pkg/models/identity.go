package models

// SkillsCategoryID is the only formation category served by the dashboard (skills/competency programs).
const SkillsCategoryID = "6"

// IdentityBundle is the set of provider identifiers resolved from a user's email.
// It is built once per resolution and treated as read-only afterwards; it is the value cached
// under the identity endpoint key.
type IdentityBundle struct {
	Email         string `json:"email"`
	ParticipantID string `json:"id_participant"`
	// EntityIDs keeps first-seen order; entries are unique.
	EntityIDs []string `json:"adf_ids"`
	// SubEntityIDs maps an entity (ADF) id to its enrolment (LAP) ids.
	SubEntityIDs map[string][]string `json:"lap_ids_by_adf"`
	Titles       map[string]string   `json:"adf_titles"`
	// ResponsibleStaff maps an entity id to the responsible administrator id.
	ResponsibleStaff map[string]string `json:"adf_responsible_staff"`
	AccessCode       *string           `json:"access_code"`
	// StaffMissing lists entities whose responsible staff could not be resolved, even after backfill.
	StaffMissing []string `json:"staff_missing,omitempty"`

	// Incomplete is set when the enrolment lookup failed. Such bundles are never cached,
	// so a bundle read back from the cache is always complete.
	Incomplete bool `json:"-"`
}

// AllSubEntityIDs flattens SubEntityIDs following EntityIDs order.
func (b *IdentityBundle) AllSubEntityIDs() []string {
	var out []string
	seen := make(map[string]bool)
	for _, entityID := range b.EntityIDs {
		for _, lapID := range b.SubEntityIDs[entityID] {
			if !seen[lapID] {
				seen[lapID] = true
				out = append(out, lapID)
			}
		}
	}
	return out
}
