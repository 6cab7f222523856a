package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/rpupo63/portfolio-backend/errs"
)

const (
	maxJSONBodyBytes = 1 << 20
	// multipart parts beyond this are spooled to disk by net/http
	multipartMemoryBytes = 8 << 20
	uploadFileField      = "file"
)

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, payloadType string, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errs.NewMaxBodySizeExceededError(maxErr.Limit)
		}
		return errs.NewMalformedPayloadError(payloadType, err)
	}
	return nil
}

// uploadForm is a parsed multipart upload: its text fields and the bytes of
// every part named "file".
type uploadForm struct {
	form  *multipart.Form
	files [][]byte
}

func (f uploadForm) value(key string) string {
	if values := f.form.Value[key]; len(values) > 0 {
		return strings.TrimSpace(values[0])
	}
	return ""
}

// readUploadForm parses a multipart body no larger than maxBytes.
func readUploadForm(w http.ResponseWriter, r *http.Request, maxBytes int64) (uploadForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(multipartMemoryBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return uploadForm{}, errs.NewMaxBodySizeExceededError(maxErr.Limit)
		}
		return uploadForm{}, errs.NewMalformedPayloadError("multipart form", err)
	}

	form := uploadForm{form: r.MultipartForm}
	for _, header := range r.MultipartForm.File[uploadFileField] {
		data, err := readPart(header)
		if err != nil {
			return uploadForm{}, errs.NewMalformedPayloadError("multipart file", err)
		}
		form.files = append(form.files, data)
	}
	return form, nil
}

func readPart(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
