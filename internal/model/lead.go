package model

import "time"

// SearchParams are the user-supplied criteria for a prospecting search.
// They are transient controller state; a new submission replaces them.
type SearchParams struct {
	Niche       string `json:"niche"`
	Location    string `json:"location"`
	CompanySize string `json:"company_size,omitempty"`
	Intent      string `json:"intent,omitempty"`
}

// Lead is a prospective business returned by the AI service, enriched with
// a locally generated identifier. Leads are immutable once constructed.
type Lead struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Industry           string     `json:"industry"`
	Website            string     `json:"website"`
	Description        string     `json:"description"`
	PotentialScore     float64    `json:"potential_score"`
	ContactSuggestions []string   `json:"contact_suggestions"`
	Location           string     `json:"location"`
	Email              string     `json:"email,omitempty"`
	Phone              string     `json:"phone,omitempty"`
	Latitude           *float64   `json:"latitude,omitempty"`
	Longitude          *float64   `json:"longitude,omitempty"`
	RecentNews         []NewsItem `json:"recent_news,omitempty"`
}

// NewsItem is a recent news reference attached to a lead.
type NewsItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// HasCoordinates reports whether the lead carries a usable coordinate pair.
// The pair is atomic: a lead with only one of latitude/longitude is treated
// as having no coordinates at all.
func (l Lead) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// GroundingSource is a citation the AI service attached to a search result
// batch. Sources belong to the batch, not to individual leads.
type GroundingSource struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// LeadBatch is one persisted search result: the parameters that produced it
// plus the leads and grounding sources returned together. Only one batch is
// live in the controller at a time; the store keeps the history.
type LeadBatch struct {
	ID        string            `json:"id"`
	Params    SearchParams      `json:"params"`
	Leads     []Lead            `json:"leads"`
	Sources   []GroundingSource `json:"sources"`
	CreatedAt time.Time         `json:"created_at"`
}

// Theme values persisted as the UI appearance preference.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)
