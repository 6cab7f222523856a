package database

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rpupo63/portfolio-backend/docstore"
	"github.com/rpupo63/portfolio-backend/errs"
)

// Database groups the repositories that read and write the document store.
// It is the only writer of document state.
type Database struct {
	projectRepo      *ProjectRepo
	educationRepo    *EducationRepo
	skillRepo        *SkillRepo
	uploadIntentRepo *UploadIntentRepo
}

// New initializes a new Database struct with each repository sharing one store handle
func New(store docstore.Store) Database {
	return Database{
		projectRepo:      NewProjectRepo(store),
		educationRepo:    NewEducationRepo(store),
		skillRepo:        NewSkillRepo(store),
		uploadIntentRepo: NewUploadIntentRepo(store),
	}
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) EducationRepo() *EducationRepo {
	return d.educationRepo
}

func (d Database) SkillRepo() *SkillRepo {
	return d.skillRepo
}

func (d Database) UploadIntentRepo() *UploadIntentRepo {
	return d.uploadIntentRepo
}

// invalid tags an ozzo validation failure as a validation error.
func invalid(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", errs.ErrValidation, err)
}

// requireIDs checks that every named identifier is present.
func requireIDs(ids ...idArg) error {
	for _, id := range ids {
		if err := validation.Validate(id.value, validation.Required); err != nil {
			return invalid(validation.Errors{id.name: err})
		}
	}
	return nil
}

type idArg struct {
	name  string
	value string
}

func arg(name, value string) idArg {
	return idArg{name: name, value: value}
}
