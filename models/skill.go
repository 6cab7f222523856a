package models

// Skill is stored at skills/{id}.
type Skill struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name,omitempty"`
	Proficiency FlexInt `json:"proficiency"`
	Type        string  `json:"type,omitempty"`
	Icon        string  `json:"icon,omitempty"`
	Color       string  `json:"color,omitempty"`
}

type SkillPatch struct {
	Name        *string  `json:"name,omitempty"`
	Proficiency *FlexInt `json:"proficiency,omitempty"`
	Type        *string  `json:"type,omitempty"`
	Icon        *string  `json:"icon,omitempty"`
	Color       *string  `json:"color,omitempty"`
}

func (p SkillPatch) Fields() map[string]any {
	fields := make(map[string]any)
	setString(fields, "name", p.Name)
	setString(fields, "type", p.Type)
	setString(fields, "icon", p.Icon)
	setString(fields, "color", p.Color)
	if p.Proficiency != nil {
		fields["proficiency"] = int(*p.Proficiency)
	}
	return fields
}
