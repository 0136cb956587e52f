package draft

import "time"

// LocalDraft is the client-local crash-recovery snapshot taken before a
// server draft exists. It is the lower tier of the two-tier draft cache:
// the server draft is authoritative, and a local draft only seeds a blank
// form. Once a server draft loads, the local draft is discarded.
type LocalDraft struct {
	Name          string    `json:"name"`
	Tagline       string    `json:"tagline"`
	Description   string    `json:"description"`
	WebsiteURL    string    `json:"website_url"`
	CategoryValue string    `json:"category_value"`
	Links         []string  `json:"links"`
	SavedAt       time.Time `json:"saved_at"`
}
