package models

import "time"

// UploadKind names the media slot an upload is destined for.
type UploadKind string

const (
	UploadCover          UploadKind = "cover_image"
	UploadPDF            UploadKind = "pdf"
	UploadCarousel       UploadKind = "carousel_image"
	UploadEducationImage UploadKind = "education_image"
)

// UploadIntent is written to upload_intents/{id} before an asset is sent to
// object storage and removed once the asset is referenced by its entity.
// Intents that outlive their request point at possibly orphaned assets.
type UploadIntent struct {
	ID           string     `json:"id"`
	Kind         UploadKind `json:"kind"`
	EntityID     string     `json:"entityId"`
	AssetID      string     `json:"assetId"`
	ResourceKind string     `json:"resourceKind"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
}

const IntentPending = "pending"
