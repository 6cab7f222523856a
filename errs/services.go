package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Object storage and image normalization errors
var (
	ErrUploadFailed      = errors.New("upload failed")
	ErrDeleteFailed      = errors.New("delete failed")
	ErrPayloadTooLarge   = errors.New("payload too large")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrDecode            = errors.New("image decode error")
)

// Outbound email errors
var (
	ErrEmailDelivery = errors.New("email delivery failed")
	ErrConfigMissing = errors.New("configuration missing")
)

func NewUploadFailedError(target string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrUploadFailed,
		Details:    fmt.Sprintf("Failed to upload %s", target),
		Cause:      cause,
	}
}

func NewDeleteFailedError(assetID string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDeleteFailed,
		Details:    fmt.Sprintf("Failed to delete asset %s", assetID),
		Cause:      cause,
	}
}

func NewConfigError(configName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigMissing,
		Details:    fmt.Sprintf("Missing configuration value %s", configName),
		Field:      "config",
	}
}

func IsUploadFailed(err error) bool {
	return errors.Is(err, ErrUploadFailed)
}

func IsDeleteFailed(err error) bool {
	return errors.Is(err, ErrDeleteFailed)
}

func IsPayloadTooLarge(err error) bool {
	return errors.Is(err, ErrPayloadTooLarge)
}

func IsDecode(err error) bool {
	return errors.Is(err, ErrDecode)
}

func IsUnsupportedFormat(err error) bool {
	return errors.Is(err, ErrUnsupportedFormat)
}
