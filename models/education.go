package models

// Education is stored at educations/{id}. Order is caller supplied and only
// used for sorting on read.
type Education struct {
	ID             string          `json:"id,omitempty"`
	Institution    string          `json:"institution,omitempty"`
	Degree         string          `json:"degree,omitempty"`
	Description    string          `json:"description,omitempty"`
	Graduation     string          `json:"graduation,omitempty"`
	Order          FlexInt         `json:"order"`
	Icon           string          `json:"icon,omitempty"`
	DegreeColor    string          `json:"degreeColor,omitempty"`
	InstituteColor string          `json:"instituteColor,omitempty"`
	Image          *EducationImage `json:"image,omitempty"`
}

type EducationImage struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

// EducationPatch is a merge patch over the editable education attributes.
type EducationPatch struct {
	Institution    *string  `json:"institution,omitempty"`
	Degree         *string  `json:"degree,omitempty"`
	Description    *string  `json:"description,omitempty"`
	Graduation     *string  `json:"graduation,omitempty"`
	Order          *FlexInt `json:"order,omitempty"`
	Icon           *string  `json:"icon,omitempty"`
	DegreeColor    *string  `json:"degreeColor,omitempty"`
	InstituteColor *string  `json:"instituteColor,omitempty"`
}

func (p EducationPatch) Fields() map[string]any {
	fields := make(map[string]any)
	setString(fields, "institution", p.Institution)
	setString(fields, "degree", p.Degree)
	setString(fields, "description", p.Description)
	setString(fields, "graduation", p.Graduation)
	setString(fields, "icon", p.Icon)
	setString(fields, "degreeColor", p.DegreeColor)
	setString(fields, "instituteColor", p.InstituteColor)
	if p.Order != nil {
		fields["order"] = int(*p.Order)
	}
	return fields
}

func setString(fields map[string]any, key string, value *string) {
	if value != nil {
		fields[key] = *value
	}
}
