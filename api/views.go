package api

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/rpupo63/portfolio-backend/models"
)

// Read views add the display fallbacks and derived URLs the site renders.

const (
	unknownInstitution  = "Unknown Institution"
	unknownDegree       = "Unknown Degree"
	missingDescription  = "No description available."
	missingGraduation   = "Graduation status not provided."
	missingProjectTitle = "Untitled Project"
)

type videoView struct {
	models.Video
	EmbedURL     string `json:"embedUrl,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

type projectView struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	TechStack   []string               `json:"techStack"`
	URL         string                 `json:"url,omitempty"`
	Status      models.ProjectStatus   `json:"status"`
	CoverImage  *models.CoverImage     `json:"cover_image,omitempty"`
	PDFs        []models.PDF           `json:"pdfs"`
	Images      []models.CarouselImage `json:"images"`
	Videos      []videoView            `json:"videos"`
}

type skillView struct {
	models.Skill
	ResolvedIcon  string `json:"resolvedIcon"`
	ResolvedColor string `json:"resolvedColor"`
}

type educationView struct {
	models.Education
	ResolvedIcon           string `json:"resolvedIcon"`
	ResolvedDegreeColor    string `json:"resolvedDegreeColor"`
	ResolvedInstituteColor string `json:"resolvedInstituteColor"`
}

func newVideoView(v models.Video) videoView {
	return videoView{
		Video:        v,
		EmbedURL:     models.YouTubeEmbedURL(v.URL),
		ThumbnailURL: models.YouTubeThumbnailURL(v.URL),
	}
}

func newVideoViews(videos []models.Video) []videoView {
	views := make([]videoView, 0, len(videos))
	for _, v := range videos {
		views = append(views, newVideoView(v))
	}
	return views
}

func newProjectView(p *models.Project) projectView {
	view := projectView{
		ID:          p.ID,
		Name:        fallback(p.Name, missingProjectTitle),
		Description: fallback(p.Description, missingDescription),
		TechStack:   p.TechStack,
		URL:         p.URL,
		Status:      p.Status.OrInactive(),
		CoverImage:  p.CoverImage,
		PDFs:        sortedByID(p.PDFs, func(pdf models.PDF) int { return pdf.ID }),
		Images:      sortedByID(p.Images, func(img models.CarouselImage) int { return img.ID }),
		Videos:      make([]videoView, 0, len(p.Videos)),
	}
	if view.TechStack == nil {
		view.TechStack = []string{}
	}

	keys := make([]string, 0, len(p.Videos))
	for key := range p.Videos {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, compareNumericKeys)
	for _, key := range keys {
		video := p.Videos[key]
		if video.ID == "" {
			video.ID = key
		}
		view.Videos = append(view.Videos, newVideoView(video))
	}
	return view
}

func newProjectViews(projects []*models.Project) []projectView {
	views := make([]projectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, newProjectView(p))
	}
	return views
}

func newSkillView(s *models.Skill) skillView {
	return skillView{Skill: *s, ResolvedIcon: s.ResolvedIcon(), ResolvedColor: s.ResolvedColor()}
}

func newSkillViews(skills []*models.Skill) []skillView {
	views := make([]skillView, 0, len(skills))
	for _, s := range skills {
		views = append(views, newSkillView(s))
	}
	return views
}

func newEducationView(e *models.Education) educationView {
	view := educationView{
		Education:              *e,
		ResolvedIcon:           e.ResolvedIcon(),
		ResolvedDegreeColor:    e.ResolvedDegreeColor(),
		ResolvedInstituteColor: e.ResolvedInstituteColor(),
	}
	view.Institution = fallback(e.Institution, unknownInstitution)
	view.Degree = fallback(e.Degree, unknownDegree)
	view.Description = fallback(e.Description, missingDescription)
	view.Graduation = fallback(e.Graduation, missingGraduation)
	return view
}

func newEducationViews(entries []*models.Education) []educationView {
	views := make([]educationView, 0, len(entries))
	for _, e := range entries {
		views = append(views, newEducationView(e))
	}
	return views
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}

func sortedByID[T any](members map[string]T, id func(T) int) []T {
	out := make([]T, 0, len(members))
	for _, m := range members {
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b T) int { return cmp.Compare(id(a), id(b)) })
	return out
}

// compareNumericKeys orders millisecond video IDs numerically and anything
// else after them lexically.
func compareNumericKeys(a, b string) int {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		return cmp.Compare(na, nb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(a, b)
}
