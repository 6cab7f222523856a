package models

// ProjectStatus is the lifecycle label shown on a project card.
type ProjectStatus string

const (
	StatusCompleted ProjectStatus = "Completed"
	StatusInactive  ProjectStatus = "Inactive"
	StatusOngoing   ProjectStatus = "Ongoing"
)

// Valid reports whether s is one of the known statuses.
func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusCompleted, StatusInactive, StatusOngoing:
		return true
	}
	return false
}

// OrInactive maps a missing or unknown status to Inactive.
func (s ProjectStatus) OrInactive() ProjectStatus {
	if s.Valid() {
		return s
	}
	return StatusInactive
}

// Project is stored at projects/{id}. PDFs and carousel images are keyed by
// their sequential local ID, videos by their client generated ID.
type Project struct {
	ID          string                   `json:"id,omitempty"`
	Name        string                   `json:"name,omitempty"`
	Description string                   `json:"description,omitempty"`
	TechStack   []string                 `json:"techStack,omitempty"`
	URL         string                   `json:"url,omitempty"`
	Status      ProjectStatus            `json:"status,omitempty"`
	CoverImage  *CoverImage              `json:"cover_image,omitempty"`
	PDFs        map[string]PDF           `json:"pdfs,omitempty"`
	Images      map[string]CarouselImage `json:"images,omitempty"`
	Videos      map[string]Video         `json:"videos,omitempty"`
}

// ProjectFields are the caller editable attributes of a project.
type ProjectFields struct {
	Name        string        `json:"name,omitempty"`
	Description string        `json:"description,omitempty"`
	TechStack   []string      `json:"techStack,omitempty"`
	URL         string        `json:"url,omitempty"`
	Status      ProjectStatus `json:"status,omitempty"`
}

// ProjectPatch is a merge patch: nil fields are left untouched.
type ProjectPatch struct {
	Name        *string        `json:"name,omitempty"`
	Description *string        `json:"description,omitempty"`
	TechStack   *[]string      `json:"techStack,omitempty"`
	URL         *string        `json:"url,omitempty"`
	Status      *ProjectStatus `json:"status,omitempty"`
}

// Fields returns the patch as document store update fields.
func (p ProjectPatch) Fields() map[string]any {
	fields := make(map[string]any)
	if p.Name != nil {
		fields["name"] = *p.Name
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	if p.TechStack != nil {
		fields["techStack"] = *p.TechStack
	}
	if p.URL != nil {
		fields["url"] = *p.URL
	}
	if p.Status != nil {
		fields["status"] = string(*p.Status)
	}
	return fields
}

// CoverImage is the single cover of a project. Re-uploading replaces it.
type CoverImage struct {
	Title     string `json:"title,omitempty"`
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

// PDF is a document attached to a project under pdfs/{id}.
type PDF struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

// CarouselImage is a gallery image attached under images/{id}.
type CarouselImage struct {
	ID        int    `json:"id"`
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

// Asset is what the media orchestrators hand to the repository after an
// upload: where the object lives and how to delete it later.
type Asset struct {
	Title     string
	SecureURL string
	PublicID  string
}
