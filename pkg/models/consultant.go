package models

// Consultant is a trainer assigned to an entity.
type Consultant struct {
	ID           string  `json:"id_formateur"`
	LastName     *string `json:"nom"`
	FirstName    *string `json:"prenom"`
	EmailPro     *string `json:"email_pro"`
	TelephonePro *string `json:"telephone_pro"`
	PhotoURL     *string `json:"photo_url"`
}

// Merge fills empty fields of c from other. Existing values are never overwritten.
func (c *Consultant) Merge(other Consultant) {
	fill := func(dst **string, src *string) {
		if (*dst == nil || **dst == "") && src != nil && *src != "" {
			*dst = src
		}
	}
	fill(&c.LastName, other.LastName)
	fill(&c.FirstName, other.FirstName)
	fill(&c.EmailPro, other.EmailPro)
	fill(&c.TelephonePro, other.TelephonePro)
	fill(&c.PhotoURL, other.PhotoURL)
}

// ConsultantsResponse is the payload of the consultants endpoint.
type ConsultantsResponse struct {
	EntityIDs   []string                `json:"adf_ids"`
	PerEntity   map[string][]Consultant `json:"per_adf"`
	Consultants []Consultant            `json:"consultants"`
}
