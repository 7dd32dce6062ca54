package models

// Project statuses form an open set; these are the ones the portal UI
// knows how to badge.
const (
	StatusDraft  = "draft"
	StatusReview = "review"
	StatusFinal  = "final"
)

// Project is the container for one marine spatial plan. A project
// exclusively owns its shape collection; shapes are never shared across
// projects.
type Project struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Researcher  string         `json:"researcher,omitempty"`
	Date        string         `json:"date,omitempty"`
	Type        string         `json:"type,omitempty"`
	Status      string         `json:"status,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Shapes      []Shape        `json:"shapes"`
}

// HasTag reports whether the project carries the given tag.
func (p *Project) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
