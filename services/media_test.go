package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/docstore"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/storage"
	"github.com/rpupo63/portfolio-backend/storage/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF")

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: uint8(x), B: uint8(y), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type fixture struct {
	db      database.Database
	storage *storage.Memory
	media   *MediaService
	project *models.Project
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := database.New(docstore.NewMemory())
	client := storage.NewMemory("https://cdn.test")

	project, err := db.ProjectRepo().Add(context.Background(), models.ProjectFields{Name: "Site"})
	require.NoError(t, err)

	return fixture{db: db, storage: client, media: NewMediaService(db, client), project: project}
}

func newMockFixture(t *testing.T) (fixture, *mocks.Client) {
	t.Helper()
	f := newFixture(t)
	client := &mocks.Client{}
	f.media = NewMediaService(f.db, client)
	return f, client
}

func pendingIntents(t *testing.T, db database.Database) []*models.UploadIntent {
	t.Helper()
	intents, err := db.UploadIntentRepo().FindAll(context.Background())
	require.NoError(t, err)
	return intents
}

func TestUploadCoverImageTwiceKeepsOneCover(t *testing.T) {
	ctx := context.Background()
	f, client := newMockFixture(t)
	target := "project_" + f.project.ID + "/cover_image"
	opts := storage.UploadOptions{Overwrite: true, Kind: storage.KindImage}

	client.On("Upload", mock.Anything, mock.Anything, target, opts).
		Return(storage.Asset{URL: "https://cdn.test/v1/cover.jpg", AssetID: target}, nil).Once()
	client.On("Upload", mock.Anything, mock.Anything, target, opts).
		Return(storage.Asset{URL: "https://cdn.test/v2/cover.jpg", AssetID: target}, nil).Once()

	_, err := f.media.UploadCoverImage(ctx, f.project.ID, "First", testPNG(t, 600, 400))
	require.NoError(t, err)
	second, err := f.media.UploadCoverImage(ctx, f.project.ID, "", testPNG(t, 600, 400))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/v2/cover.jpg", second.ImageURL)

	cover, err := f.db.ProjectRepo().FindCoverImage(ctx, f.project.ID)
	require.NoError(t, err)
	assert.Equal(t, &models.CoverImage{Title: DefaultCoverTitle, SecureURL: "https://cdn.test/v2/cover.jpg", PublicID: target}, cover)

	client.AssertExpectations(t)
	assert.Empty(t, pendingIntents(t, f.db))
}

func TestUploadCoverImageDefaultsTitle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, title := range []string{"", "   "} {
		result, err := f.media.UploadCoverImage(ctx, f.project.ID, title, testPNG(t, 40, 40))
		require.NoError(t, err)
		assert.Equal(t, "Cover Image", result.Title)

		cover, err := f.db.ProjectRepo().FindCoverImage(ctx, f.project.ID)
		require.NoError(t, err)
		assert.Equal(t, "Cover Image", cover.Title)
	}

	result, err := f.media.UploadCoverImage(ctx, f.project.ID, "  Hero  ", testPNG(t, 40, 40))
	require.NoError(t, err)
	assert.Equal(t, "Hero", result.Title)
}

func TestUploadCoverImageIsThumbnail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	result, err := f.media.UploadCoverImage(ctx, f.project.ID, "Cover", testPNG(t, 900, 450))
	require.NoError(t, err)
	assert.Equal(t, f.project.ID, result.ProjectID)
	assert.Equal(t, "Cover", result.Title)

	data, contentType, ok := f.storage.Object("project_"+f.project.ID+"/cover_image", storage.KindImage)
	require.True(t, ok)
	assert.Equal(t, "image/jpeg", contentType)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 300, cfg.Width)
	assert.Equal(t, 150, cfg.Height)
}

func TestUploadNonImageMakesNoCalls(t *testing.T) {
	ctx := context.Background()
	f, client := newMockFixture(t)

	_, err := f.media.UploadCarouselImage(ctx, f.project.ID, [][]byte{[]byte("hello, not an image")})
	assert.ErrorIs(t, err, errs.ErrDecode)

	_, err = f.media.UploadCoverImage(ctx, f.project.ID, "", []byte("plain text"))
	assert.ErrorIs(t, err, errs.ErrDecode)

	client.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, pendingIntents(t, f.db))

	images, err := f.db.ProjectRepo().FindCarouselImages(ctx, f.project.ID)
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestUploadCarouselImageFileCount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.media.UploadCarouselImage(ctx, f.project.ID, nil)
	assert.ErrorIs(t, err, errs.ErrValidation)

	img := testPNG(t, 10, 10)
	_, err = f.media.UploadCarouselImage(ctx, f.project.ID, [][]byte{img, img})
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = f.media.UploadCarouselImage(ctx, "", [][]byte{img})
	assert.ErrorIs(t, err, errs.ErrValidation)
	assert.Equal(t, 0, f.storage.Len())
}

func TestUploadCarouselImages(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	clock := time.UnixMilli(1_700_000_000_000)
	f.media.now = func() time.Time {
		clock = clock.Add(time.Millisecond)
		return clock
	}

	first, err := f.media.UploadCarouselImage(ctx, f.project.ID, [][]byte{testPNG(t, 1200, 600)})
	require.NoError(t, err)
	second, err := f.media.UploadCarouselImage(ctx, f.project.ID, [][]byte{testPNG(t, 300, 300)})
	require.NoError(t, err)

	assert.Equal(t, "project_"+f.project.ID+"/carousel_image_1700000000001", first.AssetID)
	assert.Equal(t, 1, first.Image.ID)
	assert.Equal(t, 2, second.Image.ID)

	data, _, ok := f.storage.Object(first.AssetID, storage.KindImage)
	require.True(t, ok)
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Width)

	require.NoError(t, f.media.RemoveCarouselImage(ctx, f.project.ID, first.Image.ID))
	_, _, ok = f.storage.Object(first.AssetID, storage.KindImage)
	assert.False(t, ok)

	images, err := f.db.ProjectRepo().FindCarouselImages(ctx, f.project.ID)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, 2, images[0].ID)
}

func TestUploadPDFScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.media.UploadPDF(ctx, f.project.ID, "Resume", pdfBytes)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/raw/project_"+f.project.ID+"/Resume", first.FilePath)
	assert.Equal(t, 1, first.PDF.ID)

	second, err := f.media.UploadPDF(ctx, f.project.ID, "Thesis", pdfBytes)
	require.NoError(t, err)
	assert.Equal(t, 2, second.PDF.ID)

	_, err = f.media.UploadPDF(ctx, f.project.ID, "Resume", pdfBytes)
	assert.ErrorIs(t, err, errs.ErrUploadFailed, "same title is not overwritten")

	require.NoError(t, f.media.RemovePDF(ctx, f.project.ID, 1))
	pdfs, err := f.db.ProjectRepo().FindPDFs(ctx, f.project.ID)
	require.NoError(t, err)
	require.Len(t, pdfs, 1)
	assert.Equal(t, 2, pdfs[0].ID)
	assert.Empty(t, pendingIntents(t, f.db))
}

func TestUploadPDFValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.media.UploadPDF(ctx, f.project.ID, "", pdfBytes)
	assert.ErrorIs(t, err, errs.ErrValidation)
	_, err = f.media.UploadPDF(ctx, f.project.ID, "Resume", nil)
	assert.ErrorIs(t, err, errs.ErrValidation)
	assert.Equal(t, 0, f.storage.Len())
}

func TestUploadPDFAcceptsAnyRawFile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	result, err := f.media.UploadPDF(ctx, f.project.ID, "Notes", []byte("plain text notes"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.PDF.ID)

	data, contentType, ok := f.storage.Object("project_"+f.project.ID+"/Notes", storage.KindRaw)
	require.True(t, ok)
	assert.Equal(t, []byte("plain text notes"), data)
	assert.Equal(t, "text/plain; charset=utf-8", contentType)

	_, err = f.media.UploadPDF(ctx, f.project.ID, "Resume", pdfBytes)
	require.NoError(t, err)
	_, contentType, ok = f.storage.Object("project_"+f.project.ID+"/Resume", storage.KindRaw)
	require.True(t, ok)
	assert.Equal(t, "application/pdf", contentType)
}

func TestRemovePDFMissingMakesNoStorageCalls(t *testing.T) {
	f, client := newMockFixture(t)

	err := f.media.RemovePDF(context.Background(), f.project.ID, 9)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	client.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)

	err = f.media.RemovePDF(context.Background(), f.project.ID, 0)
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestRemovePDFKeepsEntryWhenDeleteFails(t *testing.T) {
	ctx := context.Background()
	f, client := newMockFixture(t)
	_, err := f.db.ProjectRepo().AttachPDF(ctx, f.project.ID, models.Asset{Title: "Resume", SecureURL: "https://x/a.pdf", PublicID: "a1"})
	require.NoError(t, err)

	client.On("Delete", mock.Anything, "a1", storage.KindRaw).
		Return(fmt.Errorf("%w: a1: timeout", errs.ErrDeleteFailed)).Once()

	err = f.media.RemovePDF(ctx, f.project.ID, 1)
	assert.ErrorIs(t, err, errs.ErrDeleteFailed)

	pdf, err := f.db.ProjectRepo().FindPDF(ctx, f.project.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "a1", pdf.PublicID)
	client.AssertExpectations(t)
}

func TestUploadFailureNeverTouchesRepository(t *testing.T) {
	ctx := context.Background()
	f, client := newMockFixture(t)
	client.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(storage.Asset{}, fmt.Errorf("%w: boom", errs.ErrUploadFailed))

	_, err := f.media.UploadCoverImage(ctx, f.project.ID, "", testPNG(t, 20, 20))
	assert.ErrorIs(t, err, errs.ErrUploadFailed)

	_, err = f.db.ProjectRepo().FindCoverImage(ctx, f.project.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.Empty(t, pendingIntents(t, f.db))
}

// failingAttachStore fails sub-collection transactions after the upload.
type failingAttachStore struct {
	docstore.Store
}

func (s failingAttachStore) Transaction(ctx context.Context, path string, fn docstore.TransactionFunc) error {
	return fmt.Errorf("%w: connection reset", errs.ErrStoreUnavailable)
}

func TestAttachFailureLeavesIntentForSweeper(t *testing.T) {
	ctx := context.Background()
	db := database.New(failingAttachStore{docstore.NewMemory()})
	client := storage.NewMemory("https://cdn.test")
	media := NewMediaService(db, client)

	_, err := media.UploadPDF(ctx, "p1", "Resume", pdfBytes)
	assert.ErrorIs(t, err, errs.ErrStoreUnavailable)
	assert.Equal(t, 1, client.Len(), "orphaned asset stays in storage")

	intents := pendingIntents(t, db)
	require.Len(t, intents, 1)
	assert.Equal(t, "project_p1/Resume", intents[0].AssetID)

	sweeper := NewSweeper(db, client, 10*time.Minute)
	report, err := sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepReport{}, report, "young intents are left alone")

	sweeper.now = func() time.Time { return time.Now().Add(time.Hour) }
	report, err = sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepReport{Scanned: 1, Deleted: 1}, report)
	assert.Equal(t, 0, client.Len())
	assert.Empty(t, pendingIntents(t, db))
}

func TestSweeperReleasesReferencedAssets(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.media.UploadCoverImage(ctx, f.project.ID, "", testPNG(t, 40, 40))
	require.NoError(t, err)

	target := "project_" + f.project.ID + "/cover_image"
	_, err = f.db.UploadIntentRepo().Begin(ctx, models.UploadCover, f.project.ID, target, "image")
	require.NoError(t, err)
	_, err = f.db.UploadIntentRepo().Begin(ctx, models.UploadCarousel, f.project.ID, "project_x/carousel_image_1", "image")
	require.NoError(t, err)

	sweeper := NewSweeper(f.db, f.storage, time.Minute)
	sweeper.now = func() time.Time { return time.Now().Add(time.Hour) }

	report, err := sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepReport{Scanned: 2, Released: 1, Deleted: 1}, report)

	_, _, ok := f.storage.Object(target, storage.KindImage)
	assert.True(t, ok, "referenced cover survives")
	assert.Empty(t, pendingIntents(t, f.db))
}

func TestSweeperRetriesFailedDeletes(t *testing.T) {
	ctx := context.Background()
	f, client := newMockFixture(t)
	_, err := f.db.UploadIntentRepo().Begin(ctx, models.UploadPDF, f.project.ID, "project_p/Old", "raw")
	require.NoError(t, err)

	client.On("Delete", mock.Anything, "project_p/Old", storage.KindRaw).Return(errors.New("throttled"))

	sweeper := NewSweeper(f.db, client, time.Minute)
	sweeper.now = func() time.Time { return time.Now().Add(time.Hour) }
	report, err := sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepReport{Scanned: 1, Failed: 1}, report)
	assert.Len(t, pendingIntents(t, f.db), 1)
}

func TestEducationImage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	entry, err := f.db.EducationRepo().Add(ctx, models.Education{Institution: "MIT", Degree: "BSc", Order: 1})
	require.NoError(t, err)

	result, err := f.media.UploadEducationImage(ctx, entry.ID, [][]byte{testPNG(t, 50, 50)})
	require.NoError(t, err)
	assert.Equal(t, "education_"+entry.ID+"/image", result.AssetID)

	got, err := f.db.EducationRepo().FindByID(ctx, entry.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Image)
	assert.Equal(t, result.SecureURL, got.Image.SecureURL)

	require.NoError(t, f.media.RemoveEducationImage(ctx, entry.ID))
	assert.Equal(t, 0, f.storage.Len())
	assert.ErrorIs(t, f.media.RemoveEducationImage(ctx, entry.ID), errs.ErrNotFound)
}

func TestEducationImageUnknownEntry(t *testing.T) {
	ctx := context.Background()
	f, client := newMockFixture(t)

	_, err := f.media.UploadEducationImage(ctx, "no-such-edu", [][]byte{testPNG(t, 20, 20)})
	assert.ErrorIs(t, err, errs.ErrNotFound)
	client.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	entries, err := f.db.EducationRepo().SortedList(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Empty(t, pendingIntents(t, f.db))
}

func TestDeleteAsset(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	result, err := f.media.UploadCarouselImage(ctx, f.project.ID, [][]byte{testPNG(t, 30, 30)})
	require.NoError(t, err)

	require.NoError(t, f.media.DeleteAsset(ctx, result.AssetID))
	assert.ErrorIs(t, f.media.DeleteAsset(ctx, result.AssetID), errs.ErrDeleteFailed)
	assert.ErrorIs(t, f.media.DeleteAsset(ctx, ""), errs.ErrValidation)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "success", Outcome(nil))
	assert.Equal(t, "not_found", Outcome(fmt.Errorf("x: %w", errs.ErrNotFound)))
	assert.Equal(t, "decode_error", Outcome(errs.ErrDecode))
	assert.Equal(t, "store_error", Outcome(errs.ErrStoreIO))
	assert.Equal(t, "store_unavailable", Outcome(fmt.Errorf("%w: dial", errs.ErrStoreUnavailable)))
	assert.Equal(t, "permission_denied", Outcome(errs.ErrPermissionDenied))
	assert.Equal(t, "payload_too_large", Outcome(errs.ErrPayloadTooLarge))
	assert.Equal(t, "internal_error", Outcome(errors.New("boom")))
}
