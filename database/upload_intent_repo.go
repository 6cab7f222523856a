package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/docstore"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

const uploadIntentsPath = "upload_intents"

// UploadIntentRepo is the durable log of uploads whose asset may not yet be
// referenced by an entity.
type UploadIntentRepo struct {
	store docstore.Store
	now   func() time.Time
}

func NewUploadIntentRepo(store docstore.Store) *UploadIntentRepo {
	return &UploadIntentRepo{store: store, now: time.Now}
}

// Begin records a pending upload and returns the stored intent.
func (r *UploadIntentRepo) Begin(ctx context.Context, kind models.UploadKind, entityID, assetID, resourceKind string) (*models.UploadIntent, error) {
	err := requireIDs(arg("kind", string(kind)), arg("entityId", entityID), arg("assetId", assetID))
	if err != nil {
		return nil, err
	}

	intent := &models.UploadIntent{
		ID:           uuid.NewString(),
		Kind:         kind,
		EntityID:     entityID,
		AssetID:      assetID,
		ResourceKind: resourceKind,
		Status:       models.IntentPending,
		CreatedAt:    r.now().UTC(),
	}
	if err := r.store.Set(ctx, docstore.JoinPath(uploadIntentsPath, intent.ID), intent); err != nil {
		return nil, err
	}
	return intent, nil
}

// Commit drops the intent once its asset is referenced.
func (r *UploadIntentRepo) Commit(ctx context.Context, intentID string) error {
	if err := requireIDs(arg("intentId", intentID)); err != nil {
		return err
	}
	return r.store.Delete(ctx, docstore.JoinPath(uploadIntentsPath, intentID))
}

// FindAll returns pending intents, oldest first.
func (r *UploadIntentRepo) FindAll(ctx context.Context) ([]*models.UploadIntent, error) {
	snap, err := r.store.Get(ctx, uploadIntentsPath)
	if err != nil {
		return nil, err
	}

	intents := make([]*models.UploadIntent, 0, len(snap.Keys()))
	for _, key := range snap.Keys() {
		var intent models.UploadIntent
		if err := snap.Child(key).Decode(&intent); err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrStoreIO, err)
		}
		intent.ID = key
		intents = append(intents, &intent)
	}

	sortIntents(intents)
	return intents, nil
}

// FindOlderThan returns pending intents created before cutoff.
func (r *UploadIntentRepo) FindOlderThan(ctx context.Context, cutoff time.Time) ([]*models.UploadIntent, error) {
	intents, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	stale := intents[:0]
	for _, intent := range intents {
		if intent.CreatedAt.Before(cutoff) {
			stale = append(stale, intent)
		}
	}
	return stale, nil
}
