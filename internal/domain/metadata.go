package domain

// LinkMetadata holds the Open Graph data scraped from an Instagram page.
// All fields are optional; an instance is only worth showing (or caching)
// if it carries at least a title or a description.
type LinkMetadata struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	URL         string `json:"url,omitempty"`
	SiteName    string `json:"site_name,omitempty"`
	Type        string `json:"type,omitempty"`
}

// Usable reports whether the metadata carries enough content to build an
// embed. Image-only results are treated as extraction failures.
func (m *LinkMetadata) Usable() bool {
	return m.Title != "" || m.Description != ""
}
