package storage

// Provider represents a resource provider record
type Provider struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Country        string   `json:"country"`
	ProviderType   string   `json:"provider_type"` // government, independent, international, community
	Description    *string  `json:"description"`
	TargetAudience []string `json:"target_audience"`
	WebsiteURL     *string  `json:"website_url"`
	LogoURL        *string  `json:"logo_url"`
	IsVerified     bool     `json:"is_verified"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

// Resource represents a learning resource record
type Resource struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	LearningOutcomes []string `json:"learning_outcomes"`
	DurationMinutes  *int     `json:"duration_minutes"`
	Levels           []string `json:"levels"`
	Segments         []string `json:"segments"`
	Topics           []string `json:"topics"`
	ResourceType     string   `json:"resource_type"`
	CurriculumTags   []string `json:"curriculum_tags"`
	ExternalURL      *string  `json:"external_url"`
	ProviderID       *string  `json:"provider_id"`
	SubmittedBy      *string  `json:"submitted_by"`
	ReviewStatus     string   `json:"review_status"` // pending, approved, needs_changes, rejected
	ReviewNotes      *string  `json:"review_notes"`
	ReviewedBy       *string  `json:"reviewed_by"`
	ReviewedAt       *string  `json:"reviewed_at"`
	IsFeatured       bool     `json:"is_featured"`
	ViewCount        int      `json:"view_count"`
	DownloadCount    int      `json:"download_count"`
	CreatedAt        string   `json:"created_at"`
	UpdatedAt        string   `json:"updated_at"`

	// Provider is joined data, populated by list/get queries
	Provider *Provider `json:"provider,omitempty"`
}

// Rating represents a user rating on a resource
type Rating struct {
	ID         string  `json:"id"`
	ResourceID string  `json:"resource_id"`
	UserID     string  `json:"user_id"`
	Stars      int     `json:"stars"`
	Comment    *string `json:"comment"`
	IsApproved bool    `json:"is_approved"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

// ProviderRef is the slim provider projection used by the import reference loader
type ProviderRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ResourceRef is the slim resource projection used for duplicate detection
type ResourceRef struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	ProviderID *string `json:"provider_id"`
}

// ResourceFilter narrows public resource listings.
// Slice fields use overlap semantics (any value in common matches).
type ResourceFilter struct {
	Levels     []string
	Topics     []string
	Segments   []string
	Types      []string
	ProviderID string
	Search     string // case-insensitive substring over title and description
}
