package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/imaging"
	"github.com/rpupo63/portfolio-backend/metrics"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// CoverUpload is the result of a cover image upload.
type CoverUpload struct {
	ProjectID string `json:"projectId"`
	Title     string `json:"title"`
	ImageURL  string `json:"imageUrl"`
}

// PDFUpload is the result of a PDF upload. FilePath is the public URL.
type PDFUpload struct {
	ProjectID string     `json:"projectId"`
	Title     string     `json:"title"`
	FilePath  string     `json:"filePath"`
	PDF       models.PDF `json:"pdf"`
}

type CarouselUpload struct {
	AssetID   string               `json:"assetId"`
	SecureURL string               `json:"secureUrl"`
	Image     models.CarouselImage `json:"image"`
}

type EducationImageUpload struct {
	EducationID string `json:"educationId"`
	AssetID     string `json:"assetId"`
	SecureURL   string `json:"secureUrl"`
}

// MediaService sequences normalize, upload and attach for every media slot,
// and find, delete and detach for removals. No stage is retried and nothing
// is compensated; an asset uploaded but never attached is left to the
// Sweeper through its upload intent.
type MediaService struct {
	logger   zerolog.Logger
	projects *database.ProjectRepo
	educ     *database.EducationRepo
	intents  *database.UploadIntentRepo
	storage  storage.Client
	now      func() time.Time
}

func NewMediaService(db database.Database, client storage.Client) *MediaService {
	return &MediaService{
		logger:   log.With().Str("service", "media").Logger(),
		projects: db.ProjectRepo(),
		educ:     db.EducationRepo(),
		intents:  db.UploadIntentRepo(),
		storage:  client,
		now:      time.Now,
	}
}

// Target identifiers in object storage.

func coverTarget(projectID string) string {
	return fmt.Sprintf("project_%s/cover_image", projectID)
}

func pdfTarget(projectID, title string) string {
	return fmt.Sprintf("project_%s/%s", projectID, title)
}

func carouselTarget(projectID string, at time.Time) string {
	return fmt.Sprintf("project_%s/carousel_image_%d", projectID, at.UnixMilli())
}

func educationTarget(educationID string) string {
	return fmt.Sprintf("education_%s/image", educationID)
}

// DefaultCoverTitle is stored when a cover image is uploaded without a title.
const DefaultCoverTitle = "Cover Image"

// UploadCoverImage normalizes file to a thumbnail and replaces the
// project's single cover image.
func (s *MediaService) UploadCoverImage(ctx context.Context, projectID, title string, file []byte) (result CoverUpload, err error) {
	defer s.observe("upload_cover_image", time.Now(), &err)

	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultCoverTitle
	}

	err = validation.Errors{
		"projectId": validation.Validate(projectID, validation.Required),
		"file":      validation.Validate(file, validation.Required),
	}.Filter()
	if err != nil {
		return CoverUpload{}, invalid(err)
	}

	data, err := imaging.Normalize(file, imaging.Thumbnail)
	if err != nil {
		return CoverUpload{}, err
	}

	target := coverTarget(projectID)
	asset, err := s.upload(ctx, models.UploadCover, projectID, data, target, storage.UploadOptions{
		Overwrite: true,
		Kind:      storage.KindImage,
	}, func(asset storage.Asset) error {
		return s.projects.SetCoverImage(ctx, projectID, models.CoverImage{
			Title:     title,
			SecureURL: asset.URL,
			PublicID:  asset.AssetID,
		})
	})
	if err != nil {
		return CoverUpload{}, err
	}

	return CoverUpload{ProjectID: projectID, Title: title, ImageURL: asset.URL}, nil
}

// UploadPDF stores file unmodified as a raw asset and attaches it under the
// next PDF ID. The body is not required to be a PDF. A file with the same
// title on the same project is not replaced.
func (s *MediaService) UploadPDF(ctx context.Context, projectID, title string, file []byte) (result PDFUpload, err error) {
	defer s.observe("upload_pdf", time.Now(), &err)

	title = strings.TrimSpace(title)
	err = validation.Errors{
		"projectId": validation.Validate(projectID, validation.Required),
		"title":     validation.Validate(title, validation.Required),
		"file":      validation.Validate(file, validation.Required),
	}.Filter()
	if err != nil {
		return PDFUpload{}, invalid(err)
	}

	var pdf models.PDF
	asset, err := s.upload(ctx, models.UploadPDF, projectID, file, pdfTarget(projectID, title), storage.UploadOptions{
		Kind:        storage.KindRaw,
		ContentType: http.DetectContentType(file),
	}, func(asset storage.Asset) (err error) {
		pdf, err = s.projects.AttachPDF(ctx, projectID, models.Asset{
			Title:     title,
			SecureURL: asset.URL,
			PublicID:  asset.AssetID,
		})
		return err
	})
	if err != nil {
		return PDFUpload{}, err
	}

	return PDFUpload{ProjectID: projectID, Title: title, FilePath: asset.URL, PDF: pdf}, nil
}

// UploadCarouselImage accepts exactly one file, normalizes it to the
// carousel width and attaches it under the next image ID.
func (s *MediaService) UploadCarouselImage(ctx context.Context, projectID string, files [][]byte) (result CarouselUpload, err error) {
	defer s.observe("upload_carousel_image", time.Now(), &err)

	file, err := singleFile(projectID, "projectId", files)
	if err != nil {
		return CarouselUpload{}, err
	}

	data, err := imaging.Normalize(file, imaging.Carousel)
	if err != nil {
		return CarouselUpload{}, err
	}

	var image models.CarouselImage
	asset, err := s.upload(ctx, models.UploadCarousel, projectID, data, carouselTarget(projectID, s.now()), storage.UploadOptions{
		Overwrite: true,
		Kind:      storage.KindImage,
	}, func(asset storage.Asset) (err error) {
		image, err = s.projects.AttachCarouselImage(ctx, projectID, models.Asset{
			SecureURL: asset.URL,
			PublicID:  asset.AssetID,
		})
		return err
	})
	if err != nil {
		return CarouselUpload{}, err
	}

	return CarouselUpload{AssetID: asset.AssetID, SecureURL: asset.URL, Image: image}, nil
}

// UploadEducationImage accepts exactly one file and replaces the entry's
// image.
func (s *MediaService) UploadEducationImage(ctx context.Context, educationID string, files [][]byte) (result EducationImageUpload, err error) {
	defer s.observe("upload_education_image", time.Now(), &err)

	file, err := singleFile(educationID, "educationId", files)
	if err != nil {
		return EducationImageUpload{}, err
	}
	// SetImage would otherwise create a blank entry for an unknown ID.
	if _, err := s.educ.FindByID(ctx, educationID); err != nil {
		return EducationImageUpload{}, err
	}

	data, err := imaging.Normalize(file, imaging.Carousel)
	if err != nil {
		return EducationImageUpload{}, err
	}

	asset, err := s.upload(ctx, models.UploadEducationImage, educationID, data, educationTarget(educationID), storage.UploadOptions{
		Overwrite: true,
		Kind:      storage.KindImage,
	}, func(asset storage.Asset) error {
		return s.educ.SetImage(ctx, educationID, models.EducationImage{
			SecureURL: asset.URL,
			PublicID:  asset.AssetID,
		})
	})
	if err != nil {
		return EducationImageUpload{}, err
	}

	return EducationImageUpload{EducationID: educationID, AssetID: asset.AssetID, SecureURL: asset.URL}, nil
}

// RemovePDF deletes the PDF's asset and then its entry. A missing PDF fails
// before storage is touched; a failed remote delete keeps the entry.
func (s *MediaService) RemovePDF(ctx context.Context, projectID string, pdfID int) (err error) {
	defer s.observe("remove_pdf", time.Now(), &err)

	if err := requirePositive(projectID, pdfID, "pdfId"); err != nil {
		return err
	}

	pdf, err := s.projects.FindPDF(ctx, projectID, pdfID)
	if err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, pdf.PublicID, storage.KindRaw); err != nil {
		return err
	}
	return s.projects.DetachPDF(ctx, projectID, pdfID)
}

// RemoveCarouselImage mirrors RemovePDF for carousel images.
func (s *MediaService) RemoveCarouselImage(ctx context.Context, projectID string, imageID int) (err error) {
	defer s.observe("remove_carousel_image", time.Now(), &err)

	if err := requirePositive(projectID, imageID, "imageId"); err != nil {
		return err
	}

	image, err := s.projects.FindCarouselImage(ctx, projectID, imageID)
	if err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, image.PublicID, storage.KindImage); err != nil {
		return err
	}
	return s.projects.DetachCarouselImage(ctx, projectID, imageID)
}

// RemoveEducationImage deletes the entry's image asset and then clears the
// reference.
func (s *MediaService) RemoveEducationImage(ctx context.Context, educationID string) (err error) {
	defer s.observe("remove_education_image", time.Now(), &err)

	entry, err := s.educ.FindByID(ctx, educationID)
	if err != nil {
		return err
	}
	if entry.Image == nil {
		return fmt.Errorf("image of education %s: %w", educationID, errs.ErrNotFound)
	}
	if err := s.storage.Delete(ctx, entry.Image.PublicID, storage.KindImage); err != nil {
		return err
	}

	_, err = s.educ.RemoveImage(ctx, educationID)
	return err
}

// DeleteAsset deletes a remote image without touching any record.
func (s *MediaService) DeleteAsset(ctx context.Context, assetID string) (err error) {
	defer s.observe("delete_asset", time.Now(), &err)

	if err := validation.Validate(assetID, validation.Required); err != nil {
		return invalid(validation.Errors{"assetId": err})
	}
	return s.storage.Delete(ctx, assetID, storage.KindImage)
}

// upload records an intent, uploads data and runs attach. The intent is
// dropped when the upload fails outright or once attach succeeds; when
// attach fails it stays behind for the sweeper.
func (s *MediaService) upload(ctx context.Context, kind models.UploadKind, entityID string, data []byte, target string, opts storage.UploadOptions, attach func(storage.Asset) error) (storage.Asset, error) {
	intent, err := s.intents.Begin(ctx, kind, entityID, target, string(opts.Kind))
	if err != nil {
		return storage.Asset{}, err
	}

	asset, err := s.storage.Upload(ctx, data, target, opts)
	if err != nil {
		s.release(ctx, intent)
		return storage.Asset{}, err
	}

	if err := attach(asset); err != nil {
		s.logger.Error().
			Err(err).
			Str("assetId", asset.AssetID).
			Str("entityId", entityID).
			Msg("asset uploaded but not attached")
		return storage.Asset{}, err
	}

	s.release(ctx, intent)
	return asset, nil
}

func (s *MediaService) release(ctx context.Context, intent *models.UploadIntent) {
	if err := s.intents.Commit(ctx, intent.ID); err != nil {
		s.logger.Warn().Err(err).Str("intentId", intent.ID).Msg("failed to drop upload intent")
	}
}

func (s *MediaService) observe(operation string, started time.Time, err *error) {
	outcome := Outcome(*err)
	metrics.RecordMedia(operation, outcome, time.Since(started))

	if *err != nil {
		s.logger.Debug().Err(*err).Str("operation", operation).Str("outcome", outcome).Msg("media operation failed")
	}
}

// Outcome labels an orchestration result for metrics and logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errs.IsValidation(err):
		return "validation_error"
	case errs.IsNotFound(err):
		return "not_found"
	case errs.IsPayloadTooLarge(err):
		return "payload_too_large"
	case errs.IsUnsupportedFormat(err):
		return "unsupported_format"
	case errs.IsDecode(err):
		return "decode_error"
	case errs.IsUploadFailed(err):
		return "upload_failed"
	case errs.IsDeleteFailed(err):
		return "delete_failed"
	case errs.IsStoreUnavailable(err):
		return "store_unavailable"
	case errs.IsPermissionDenied(err):
		return "permission_denied"
	case errs.IsStoreIO(err):
		return "store_error"
	default:
		return "internal_error"
	}
}

func singleFile(entityID, field string, files [][]byte) ([]byte, error) {
	if entityID == "" || len(files) == 0 {
		return nil, fmt.Errorf("%w: missing file(s) or %s", errs.ErrValidation, field)
	}
	if len(files) > 1 {
		return nil, fmt.Errorf("%w: only one image can be uploaded at a time", errs.ErrValidation)
	}
	if len(files[0]) == 0 {
		return nil, fmt.Errorf("%w: file is empty", errs.ErrValidation)
	}
	return files[0], nil
}

func requirePositive(projectID string, memberID int, field string) error {
	return invalid(validation.Errors{
		"projectId": validation.Validate(projectID, validation.Required),
		field:       validation.Validate(memberID, validation.Required, validation.Min(1)),
	}.Filter())
}

func invalid(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", errs.ErrValidation, err)
}
