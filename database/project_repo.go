package database

import (
	"context"
	"fmt"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rpupo63/portfolio-backend/docstore"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

const projectsPath = "projects"

type ProjectRepo struct {
	store docstore.Store
}

func NewProjectRepo(store docstore.Store) *ProjectRepo {
	return &ProjectRepo{store}
}

func projectPath(id string, rest ...string) string {
	return docstore.JoinPath(append([]string{projectsPath, id}, rest...)...)
}

// FindAll returns every project. An empty collection is not an error.
func (r *ProjectRepo) FindAll(ctx context.Context) ([]*models.Project, error) {
	snap, err := r.store.Get(ctx, projectsPath)
	if err != nil {
		return nil, err
	}

	projects := make([]*models.Project, 0, len(snap.Keys()))
	for _, key := range snap.Keys() {
		var project models.Project
		if err := snap.Child(key).Decode(&project); err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrStoreIO, err)
		}
		project.ID = key
		projects = append(projects, &project)
	}
	return projects, nil
}

// FindByID returns a project by its ID
func (r *ProjectRepo) FindByID(ctx context.Context, id string) (*models.Project, error) {
	if err := requireIDs(arg("projectId", id)); err != nil {
		return nil, err
	}

	snap, err := r.store.Get(ctx, projectPath(id))
	if err != nil {
		return nil, err
	}
	if !snap.Exists() {
		return nil, fmt.Errorf("project %s: %w", id, errs.ErrNotFound)
	}

	var project models.Project
	if err := snap.Decode(&project); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrStoreIO, err)
	}
	project.ID = id
	return &project, nil
}

// Add stores a new project under a generated key and returns it with that ID.
func (r *ProjectRepo) Add(ctx context.Context, fields models.ProjectFields) (*models.Project, error) {
	err := validation.ValidateStruct(&fields,
		validation.Field(&fields.Name, validation.Required),
	)
	if err != nil {
		return nil, invalid(err)
	}

	key, err := r.store.Push(ctx, projectsPath, fields)
	if err != nil {
		return nil, err
	}

	return &models.Project{
		ID:          key,
		Name:        fields.Name,
		Description: fields.Description,
		TechStack:   fields.TechStack,
		URL:         fields.URL,
		Status:      fields.Status,
	}, nil
}

// Update merges patch into the project. Fields absent from the patch are
// left untouched and the project is not checked for existence first.
func (r *ProjectRepo) Update(ctx context.Context, id string, patch models.ProjectPatch) error {
	if err := requireIDs(arg("projectId", id)); err != nil {
		return err
	}

	fields := patch.Fields()
	if len(fields) == 0 {
		return fmt.Errorf("%w: nothing to update", errs.ErrValidation)
	}
	return r.store.Update(ctx, projectPath(id), fields)
}

// Delete removes the project subtree. Assets it references stay in object
// storage.
func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	if err := requireIDs(arg("projectId", id)); err != nil {
		return err
	}
	return r.store.Delete(ctx, projectPath(id))
}

// AttachVideo writes video under videos/{video.ID}.
func (r *ProjectRepo) AttachVideo(ctx context.Context, projectID string, video models.Video) error {
	err := requireIDs(arg("projectId", projectID), arg("videoId", video.ID), arg("url", video.URL))
	if err != nil {
		return err
	}
	return r.store.Set(ctx, projectPath(projectID, "videos", video.ID), video)
}

// UpdateVideoURL rewrites the whole videos map with one entry's URL
// changed. Two concurrent edits race and the last write wins.
func (r *ProjectRepo) UpdateVideoURL(ctx context.Context, projectID, videoID, url string) error {
	err := requireIDs(arg("projectId", projectID), arg("videoId", videoID), arg("url", url))
	if err != nil {
		return err
	}

	snap, err := r.store.Get(ctx, projectPath(projectID, "videos"))
	if err != nil {
		return err
	}

	videos := make(map[string]models.Video)
	if snap.Exists() {
		if err := snap.Decode(&videos); err != nil {
			return fmt.Errorf("%w: %w", errs.ErrStoreIO, err)
		}
	}

	video, ok := videos[videoID]
	if !ok {
		return fmt.Errorf("video %s: %w", videoID, errs.ErrNotFound)
	}
	video.URL = url
	videos[videoID] = video

	return r.store.Set(ctx, projectPath(projectID, "videos"), videos)
}

func (r *ProjectRepo) DetachVideo(ctx context.Context, projectID, videoID string) error {
	if err := requireIDs(arg("projectId", projectID), arg("videoId", videoID)); err != nil {
		return err
	}
	return r.store.Delete(ctx, projectPath(projectID, "videos", videoID))
}

// FindVideos returns the project's videos ordered by ID.
func (r *ProjectRepo) FindVideos(ctx context.Context, projectID string) ([]models.Video, error) {
	videos := make(map[string]models.Video)
	if err := r.decodeChildren(ctx, projectID, "videos", &videos); err != nil {
		return nil, err
	}

	out := make([]models.Video, 0, len(videos))
	for _, key := range sortedIntKeys(videos) {
		out = append(out, videos[key])
	}
	return out, nil
}

// AttachPDF records an uploaded PDF under the next sequential ID.
func (r *ProjectRepo) AttachPDF(ctx context.Context, projectID string, asset models.Asset) (models.PDF, error) {
	err := requireIDs(
		arg("projectId", projectID),
		arg("title", asset.Title),
		arg("secure_url", asset.SecureURL),
		arg("public_id", asset.PublicID),
	)
	if err != nil {
		return models.PDF{}, err
	}

	var pdf models.PDF
	err = r.attachSequential(ctx, projectID, "pdfs", func(next int) any {
		pdf = models.PDF{ID: next, Title: asset.Title, SecureURL: asset.SecureURL, PublicID: asset.PublicID}
		return pdf
	})
	return pdf, err
}

func (r *ProjectRepo) FindPDFs(ctx context.Context, projectID string) ([]models.PDF, error) {
	pdfs := make(map[string]models.PDF)
	if err := r.decodeChildren(ctx, projectID, "pdfs", &pdfs); err != nil {
		return nil, err
	}

	out := make([]models.PDF, 0, len(pdfs))
	for _, key := range sortedIntKeys(pdfs) {
		out = append(out, pdfs[key])
	}
	return out, nil
}

func (r *ProjectRepo) FindPDF(ctx context.Context, projectID string, pdfID int) (models.PDF, error) {
	var pdf models.PDF
	err := r.findSequential(ctx, projectID, "pdfs", pdfID, &pdf)
	return pdf, err
}

// DetachPDF removes the PDF entry. The remote asset is not touched.
func (r *ProjectRepo) DetachPDF(ctx context.Context, projectID string, pdfID int) error {
	return r.detachSequential(ctx, projectID, "pdfs", pdfID)
}

// AttachCarouselImage records an uploaded carousel image under the next
// sequential ID.
func (r *ProjectRepo) AttachCarouselImage(ctx context.Context, projectID string, asset models.Asset) (models.CarouselImage, error) {
	err := requireIDs(
		arg("projectId", projectID),
		arg("secure_url", asset.SecureURL),
		arg("public_id", asset.PublicID),
	)
	if err != nil {
		return models.CarouselImage{}, err
	}

	var image models.CarouselImage
	err = r.attachSequential(ctx, projectID, "images", func(next int) any {
		image = models.CarouselImage{ID: next, SecureURL: asset.SecureURL, PublicID: asset.PublicID}
		return image
	})
	return image, err
}

func (r *ProjectRepo) FindCarouselImages(ctx context.Context, projectID string) ([]models.CarouselImage, error) {
	images := make(map[string]models.CarouselImage)
	if err := r.decodeChildren(ctx, projectID, "images", &images); err != nil {
		return nil, err
	}

	out := make([]models.CarouselImage, 0, len(images))
	for _, key := range sortedIntKeys(images) {
		out = append(out, images[key])
	}
	return out, nil
}

func (r *ProjectRepo) FindCarouselImage(ctx context.Context, projectID string, imageID int) (models.CarouselImage, error) {
	var image models.CarouselImage
	err := r.findSequential(ctx, projectID, "images", imageID, &image)
	return image, err
}

func (r *ProjectRepo) DetachCarouselImage(ctx context.Context, projectID string, imageID int) error {
	return r.detachSequential(ctx, projectID, "images", imageID)
}

// FindCarouselImageByAsset looks up a carousel image by its remote asset ID.
func (r *ProjectRepo) FindCarouselImageByAsset(ctx context.Context, projectID, assetID string) (models.CarouselImage, error) {
	images, err := r.FindCarouselImages(ctx, projectID)
	if err != nil {
		return models.CarouselImage{}, err
	}
	for _, image := range images {
		if image.PublicID == assetID {
			return image, nil
		}
	}
	return models.CarouselImage{}, fmt.Errorf("carousel image %s: %w", assetID, errs.ErrNotFound)
}

// SetCoverImage overwrites the single cover image without reading it first.
func (r *ProjectRepo) SetCoverImage(ctx context.Context, projectID string, cover models.CoverImage) error {
	err := requireIDs(
		arg("projectId", projectID),
		arg("secure_url", cover.SecureURL),
		arg("public_id", cover.PublicID),
	)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, projectPath(projectID, "cover_image"), cover)
}

func (r *ProjectRepo) FindCoverImage(ctx context.Context, projectID string) (*models.CoverImage, error) {
	if err := requireIDs(arg("projectId", projectID)); err != nil {
		return nil, err
	}

	snap, err := r.store.Get(ctx, projectPath(projectID, "cover_image"))
	if err != nil {
		return nil, err
	}
	if !snap.Exists() {
		return nil, fmt.Errorf("cover image of project %s: %w", projectID, errs.ErrNotFound)
	}

	var cover models.CoverImage
	if err := snap.Decode(&cover); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrStoreIO, err)
	}
	return &cover, nil
}

func (r *ProjectRepo) decodeChildren(ctx context.Context, projectID, collection string, out any) error {
	if err := requireIDs(arg("projectId", projectID)); err != nil {
		return err
	}

	snap, err := r.store.Get(ctx, projectPath(projectID, collection))
	if err != nil {
		return err
	}
	if !snap.Exists() {
		return nil
	}

	value := snap.Value
	if _, isArray := value.([]any); isArray {
		value = asObject(value)
	}
	if err := (docstore.Snapshot{Path: snap.Path, Value: value}).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrStoreIO, err)
	}
	return nil
}

// attachSequential assigns max+1 and writes the entry in one store
// transaction, so concurrent attaches to the same project cannot collide.
func (r *ProjectRepo) attachSequential(ctx context.Context, projectID, collection string, build func(next int) any) error {
	return r.store.Transaction(ctx, projectPath(projectID, collection), func(current any) (any, error) {
		next := nextSequentialID(current)
		members := asObject(current)
		members[strconv.Itoa(next)] = build(next)
		return members, nil
	})
}

func (r *ProjectRepo) findSequential(ctx context.Context, projectID, collection string, memberID int, out any) error {
	if err := requireIDs(arg("projectId", projectID)); err != nil {
		return err
	}

	snap, err := r.store.Get(ctx, projectPath(projectID, collection, strconv.Itoa(memberID)))
	if err != nil {
		return err
	}
	if !snap.Exists() {
		return fmt.Errorf("%s %d of project %s: %w", collection, memberID, projectID, errs.ErrNotFound)
	}
	if err := snap.Decode(out); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrStoreIO, err)
	}
	return nil
}

func (r *ProjectRepo) detachSequential(ctx context.Context, projectID, collection string, memberID int) error {
	if err := requireIDs(arg("projectId", projectID)); err != nil {
		return err
	}

	key := strconv.Itoa(memberID)
	return r.store.Transaction(ctx, projectPath(projectID, collection), func(current any) (any, error) {
		members := asObject(current)
		if _, ok := members[key]; !ok {
			return nil, fmt.Errorf("%s %d of project %s: %w", collection, memberID, projectID, errs.ErrNotFound)
		}
		delete(members, key)
		return members, nil
	})
}
