package api

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type mediaHandler struct {
	responder      Responder
	logger         zerolog.Logger
	media          *services.MediaService
	maxUploadBytes int64
}

func newMediaHandler(media *services.MediaService, maxUploadBytes int64) mediaHandler {
	logger := log.With().Str("handlerName", "mediaHandler").Logger()

	return mediaHandler{
		responder:      NewResponder(logger),
		logger:         logger,
		media:          media,
		maxUploadBytes: maxUploadBytes,
	}
}

type removePDFRequest struct {
	ProjectID string         `json:"projectId"`
	PDFID     models.FlexInt `json:"pdfId"`
}

type removeCarouselImageRequest struct {
	ProjectID string         `json:"projectId"`
	ImageID   models.FlexInt `json:"imageId"`
}

type deleteAssetRequest struct {
	AssetID string `json:"assetId"`
}

type educationImageRequest struct {
	EducationID string `json:"educationId"`
}

// firstFile returns the single uploaded file for endpoints that take one.
func (f uploadForm) firstFile() []byte {
	if len(f.files) == 0 {
		return nil
	}
	return f.files[0]
}

// uploadCoverImage replaces a project's cover image.
// @Summary Upload cover image
// @Tags Media
// @Accept multipart/form-data
// @Param file formData file true "Image"
// @Param projectId formData string true "Project ID"
// @Param title formData string false "Title"
// @Success 200 {object} services.CoverUpload
// @Router /upload/cover-image [post]
func (h mediaHandler) uploadCoverImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := readUploadForm(w, r, h.maxUploadBytes)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		projectID := form.value("projectId")
		result, err := h.media.UploadCoverImage(r.Context(), projectID, form.value("title"), form.firstFile())
		if err != nil {
			h.responder.WriteError(w, wrapMediaError("cover image of project "+projectID, err))
			return
		}
		h.responder.WriteJSON(w, result)
	}
}

// uploadPDF attaches a PDF to a project.
// @Summary Upload PDF
// @Tags Media
// @Accept multipart/form-data
// @Success 200 {object} services.PDFUpload
// @Router /upload/pdf [post]
func (h mediaHandler) uploadPDF() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := readUploadForm(w, r, h.maxUploadBytes)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		projectID := form.value("projectId")
		result, err := h.media.UploadPDF(r.Context(), projectID, form.value("title"), form.firstFile())
		if err != nil {
			h.responder.WriteError(w, wrapMediaError("PDF of project "+projectID, err))
			return
		}
		h.responder.WriteJSON(w, result)
	}
}

// uploadCarouselImage adds one image to a project's carousel.
// @Summary Upload carousel image
// @Tags Media
// @Accept multipart/form-data
// @Success 200 {object} services.CarouselUpload
// @Router /upload/carousel-image [post]
func (h mediaHandler) uploadCarouselImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := readUploadForm(w, r, h.maxUploadBytes)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		projectID := form.value("projectId")
		result, err := h.media.UploadCarouselImage(r.Context(), projectID, form.files)
		if err != nil {
			h.responder.WriteError(w, wrapMediaError("carousel image of project "+projectID, err))
			return
		}
		h.responder.WriteJSON(w, result)
	}
}

// deleteCarouselImage deletes a remote image by asset ID. No record is
// changed.
// @Summary Delete carousel image asset
// @Tags Media
// @Router /upload/carousel-image [delete]
func (h mediaHandler) deleteCarouselImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req deleteAssetRequest
		if err := decodeJSON(w, r, "delete asset", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.media.DeleteAsset(r.Context(), req.AssetID); err != nil {
			h.responder.WriteError(w, wrapMediaError(req.AssetID, err))
			return
		}
		h.responder.WriteJSON(w, okResponse{OK: true})
	}
}

// uploadEducationImage replaces an education entry's image.
// @Summary Upload education image
// @Tags Media
// @Accept multipart/form-data
// @Success 200 {object} services.EducationImageUpload
// @Router /upload/education-image [post]
func (h mediaHandler) uploadEducationImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := readUploadForm(w, r, h.maxUploadBytes)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		educationID := form.value("educationId")
		result, err := h.media.UploadEducationImage(r.Context(), educationID, form.files)
		if err != nil {
			h.responder.WriteError(w, wrapMediaError("image of education "+educationID, err))
			return
		}
		h.responder.WriteJSON(w, result)
	}
}

// @Summary Remove education image
// @Tags Media
// @Router /upload/education-image [delete]
func (h mediaHandler) deleteEducationImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req educationImageRequest
		if err := decodeJSON(w, r, "education image", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := validation.Validate(req.EducationID, validation.Required); err != nil {
			h.responder.WriteError(w, badRequest(validation.Errors{"educationId": err}))
			return
		}

		if err := h.media.RemoveEducationImage(r.Context(), req.EducationID); err != nil {
			h.responder.WriteError(w, wrapMediaError("image of education "+req.EducationID, err))
			return
		}
		h.responder.WriteJSON(w, okResponse{OK: true})
	}
}

// removePDF deletes a PDF's asset and then its record.
// @Summary Remove PDF
// @Tags Media
// @Router /media/remove-pdf [post]
func (h mediaHandler) removePDF() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req removePDFRequest
		if err := decodeJSON(w, r, "remove pdf", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.media.RemovePDF(r.Context(), req.ProjectID, int(req.PDFID)); err != nil {
			h.responder.WriteError(w, wrapMediaError("PDF of project "+req.ProjectID, err))
			return
		}
		h.responder.WriteJSON(w, okResponse{OK: true})
	}
}

// @Summary Remove carousel image
// @Tags Media
// @Router /media/remove-carousel-image [post]
func (h mediaHandler) removeCarouselImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req removeCarouselImageRequest
		if err := decodeJSON(w, r, "remove carousel image", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.media.RemoveCarouselImage(r.Context(), req.ProjectID, int(req.ImageID)); err != nil {
			h.responder.WriteError(w, wrapMediaError("carousel image of project "+req.ProjectID, err))
			return
		}
		h.responder.WriteJSON(w, okResponse{OK: true})
	}
}
