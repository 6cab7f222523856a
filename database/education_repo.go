package database

import (
	"context"
	"fmt"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rpupo63/portfolio-backend/docstore"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

const educationsPath = "educations"

type EducationRepo struct {
	store docstore.Store
}

func NewEducationRepo(store docstore.Store) *EducationRepo {
	return &EducationRepo{store}
}

func educationPath(id string, rest ...string) string {
	return docstore.JoinPath(append([]string{educationsPath, id}, rest...)...)
}

// FindAll returns entries in store key order.
func (r *EducationRepo) FindAll(ctx context.Context) ([]*models.Education, error) {
	snap, err := r.store.Get(ctx, educationsPath)
	if err != nil {
		return nil, err
	}

	entries := make([]*models.Education, 0, len(snap.Keys()))
	for _, key := range snap.Keys() {
		var entry models.Education
		if err := snap.Child(key).Decode(&entry); err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrStoreIO, err)
		}
		entry.ID = key
		entries = append(entries, &entry)
	}
	return entries, nil
}

// SortedList returns entries ascending by order. Ties keep key order.
func (r *EducationRepo) SortedList(ctx context.Context) ([]*models.Education, error) {
	entries, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Order < entries[j].Order
	})
	return entries, nil
}

func (r *EducationRepo) FindByID(ctx context.Context, id string) (*models.Education, error) {
	if err := requireIDs(arg("educationId", id)); err != nil {
		return nil, err
	}

	snap, err := r.store.Get(ctx, educationPath(id))
	if err != nil {
		return nil, err
	}
	if !snap.Exists() {
		return nil, fmt.Errorf("education %s: %w", id, errs.ErrNotFound)
	}

	var entry models.Education
	if err := snap.Decode(&entry); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrStoreIO, err)
	}
	entry.ID = id
	return &entry, nil
}

// Add stores entry under a generated key. The key is also written into the
// record's id field.
func (r *EducationRepo) Add(ctx context.Context, entry models.Education) (*models.Education, error) {
	err := validation.ValidateStruct(&entry,
		validation.Field(&entry.Institution, validation.Required),
		validation.Field(&entry.Degree, validation.Required),
	)
	if err != nil {
		return nil, invalid(err)
	}

	entry.ID = docstore.NewKey()
	entry.Image = nil
	if err := r.store.Set(ctx, educationPath(entry.ID), entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Update merges patch into the entry and rewrites its id field.
func (r *EducationRepo) Update(ctx context.Context, id string, patch models.EducationPatch) error {
	if err := requireIDs(arg("educationId", id)); err != nil {
		return err
	}

	fields := patch.Fields()
	if len(fields) == 0 {
		return fmt.Errorf("%w: nothing to update", errs.ErrValidation)
	}
	fields["id"] = id
	return r.store.Update(ctx, educationPath(id), fields)
}

// UpdateOrder applies new display orders to several entries in one
// multi-path write.
func (r *EducationRepo) UpdateOrder(ctx context.Context, orders map[string]int) error {
	if len(orders) == 0 {
		return fmt.Errorf("%w: no entries to reorder", errs.ErrValidation)
	}

	fields := make(map[string]any, len(orders))
	for id, order := range orders {
		if err := requireIDs(arg("educationId", id)); err != nil {
			return err
		}
		fields[docstore.JoinPath(id, "order")] = order
	}
	return r.store.Update(ctx, educationsPath, fields)
}

// Delete removes the entry, failing with ErrNotFound when it is absent.
func (r *EducationRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	return r.store.Delete(ctx, educationPath(id))
}

// SetImage replaces the entry's image.
func (r *EducationRepo) SetImage(ctx context.Context, id string, image models.EducationImage) error {
	err := requireIDs(arg("educationId", id), arg("secure_url", image.SecureURL), arg("public_id", image.PublicID))
	if err != nil {
		return err
	}
	return r.store.Set(ctx, educationPath(id, "image"), image)
}

// RemoveImage clears the entry's image and returns what was removed.
func (r *EducationRepo) RemoveImage(ctx context.Context, id string) (*models.EducationImage, error) {
	entry, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.Image == nil {
		return nil, fmt.Errorf("image of education %s: %w", id, errs.ErrNotFound)
	}

	if err := r.store.Delete(ctx, educationPath(id, "image")); err != nil {
		return nil, err
	}
	return entry.Image, nil
}
