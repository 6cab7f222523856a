package database

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rpupo63/portfolio-backend/docstore"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

const skillsPath = "skills"

type SkillRepo struct {
	store docstore.Store
}

func NewSkillRepo(store docstore.Store) *SkillRepo {
	return &SkillRepo{store}
}

func (r *SkillRepo) FindAll(ctx context.Context) ([]*models.Skill, error) {
	snap, err := r.store.Get(ctx, skillsPath)
	if err != nil {
		return nil, err
	}

	skills := make([]*models.Skill, 0, len(snap.Keys()))
	for _, key := range snap.Keys() {
		var skill models.Skill
		if err := snap.Child(key).Decode(&skill); err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrStoreIO, err)
		}
		skill.ID = key
		skills = append(skills, &skill)
	}
	return skills, nil
}

func (r *SkillRepo) FindByID(ctx context.Context, id string) (*models.Skill, error) {
	if err := requireIDs(arg("skillId", id)); err != nil {
		return nil, err
	}

	snap, err := r.store.Get(ctx, docstore.JoinPath(skillsPath, id))
	if err != nil {
		return nil, err
	}
	if !snap.Exists() {
		return nil, fmt.Errorf("skill %s: %w", id, errs.ErrNotFound)
	}

	var skill models.Skill
	if err := snap.Decode(&skill); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrStoreIO, err)
	}
	skill.ID = id
	return &skill, nil
}

func (r *SkillRepo) Add(ctx context.Context, skill models.Skill) (*models.Skill, error) {
	err := validation.ValidateStruct(&skill,
		validation.Field(&skill.Name, validation.Required),
	)
	if err != nil {
		return nil, invalid(err)
	}

	skill.ID = ""
	key, err := r.store.Push(ctx, skillsPath, skill)
	if err != nil {
		return nil, err
	}
	skill.ID = key
	return &skill, nil
}

func (r *SkillRepo) Update(ctx context.Context, id string, patch models.SkillPatch) error {
	if err := requireIDs(arg("skillId", id)); err != nil {
		return err
	}

	fields := patch.Fields()
	if len(fields) == 0 {
		return fmt.Errorf("%w: nothing to update", errs.ErrValidation)
	}
	return r.store.Update(ctx, docstore.JoinPath(skillsPath, id), fields)
}

func (r *SkillRepo) Delete(ctx context.Context, id string) error {
	if err := requireIDs(arg("skillId", id)); err != nil {
		return err
	}
	return r.store.Delete(ctx, docstore.JoinPath(skillsPath, id))
}
