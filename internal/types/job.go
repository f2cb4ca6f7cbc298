package types

// JobListing is a generated job vacancy for a role. IDs are not guaranteed unique.
type JobListing struct {
	ID                    string `json:"id"`
	Title                 string `json:"title"`
	Website               string `json:"website"`
	URL                   string `json:"url"`
	Description           string `json:"description"`
	CreatedAt             string `json:"created_at"`
	PublishedAt           string `json:"published_at"`
	EducationRequirements string `json:"education_requirements,omitempty"`
}
