package incident

// Draft accumulates the structured incident record built by the guided
// intake flow. A field is written only after its step validated the raw
// input; submission requires all five fields.
type Draft struct {
	Title        string   `json:"title"`
	Category     Category `json:"category,omitempty"`
	LocationText string   `json:"location_text,omitempty"`
	ContactEmail string   `json:"contact_email,omitempty"`
	Description  string   `json:"description"`
}

// Complete reports whether every field required for submission is set.
func (d Draft) Complete() bool {
	return d.Title != "" &&
		d.Category != "" &&
		d.LocationText != "" &&
		d.ContactEmail != "" &&
		d.Description != ""
}
