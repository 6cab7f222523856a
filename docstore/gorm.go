package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rpupo63/portfolio-backend/errs"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// document is one row per top-level entity: the first path segment is the
// collection, the second the key, and everything below lives in Data.
type document struct {
	Collection string         `gorm:"primaryKey;size:128"`
	Key        string         `gorm:"column:doc_key;primaryKey;size:256"`
	Data       datatypes.JSON `gorm:"type:jsonb;not null"`
	UpdatedAt  time.Time
}

func (document) TableName() string {
	return "documents"
}

// Gorm is a Store backed by a single Postgres table. Writes run inside a
// database transaction that holds a row lock on the touched documents.
type Gorm struct {
	db *gorm.DB
}

// NewGorm migrates the documents table and returns the store.
func NewGorm(db *gorm.DB) (*Gorm, error) {
	if err := db.AutoMigrate(&document{}); err != nil {
		return nil, classify(fmt.Errorf("migrate documents: %w", err))
	}
	return &Gorm{db: db}, nil
}

func (g *Gorm) Get(ctx context.Context, path string) (Snapshot, error) {
	segments, err := SplitPath(path)
	if err != nil {
		return Snapshot{}, err
	}
	if len(segments) == 0 {
		return Snapshot{}, fmt.Errorf("%w: cannot read the root", errs.ErrInvalidPath)
	}

	value, err := g.read(g.db.WithContext(ctx), segments, false)
	if err != nil {
		return Snapshot{}, classify(err)
	}
	return Snapshot{Path: path, Value: value}, nil
}

func (g *Gorm) Set(ctx context.Context, path string, value any) error {
	segments, err := SplitPath(path)
	if err != nil {
		return err
	}
	normalized, err := normalize(value)
	if err != nil {
		return err
	}

	return g.transact(ctx, func(tx *gorm.DB) error {
		return g.write(tx, segments, normalized)
	})
}

func (g *Gorm) Update(ctx context.Context, path string, fields map[string]any) error {
	base, err := SplitPath(path)
	if err != nil {
		return err
	}
	paths, values, err := expandUpdate(base, fields)
	if err != nil {
		return err
	}

	return g.transact(ctx, func(tx *gorm.DB) error {
		for key, full := range paths {
			if err := g.write(tx, full, values[key]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (g *Gorm) Delete(ctx context.Context, path string) error {
	return g.Set(ctx, path, nil)
}

func (g *Gorm) Push(ctx context.Context, path string, value any) (string, error) {
	key := NewKey()
	if err := g.Set(ctx, JoinPath(path, key), value); err != nil {
		return "", err
	}
	return key, nil
}

// Transaction locks the document that owns path for the duration of fn, so
// concurrent transactions on the same entity are serialized by Postgres.
func (g *Gorm) Transaction(ctx context.Context, path string, fn TransactionFunc) error {
	segments, err := SplitPath(path)
	if err != nil {
		return err
	}
	if len(segments) < 2 {
		return fmt.Errorf("%w: transactions need a document path, got %q", errs.ErrInvalidPath, path)
	}

	var fnErr error
	err = g.transact(ctx, func(tx *gorm.DB) error {
		current, err := g.read(tx, segments, true)
		if err != nil {
			return err
		}

		next, err := fn(current)
		if err != nil {
			fnErr = err
			return err
		}

		normalized, err := normalize(next)
		if err != nil {
			fnErr = err
			return err
		}
		return g.write(tx, segments, normalized)
	})
	if fnErr != nil {
		return fnErr
	}
	return err
}

func (g *Gorm) transact(ctx context.Context, fn func(tx *gorm.DB) error) error {
	err := g.db.WithContext(ctx).Transaction(fn)
	if err != nil {
		return classify(err)
	}
	return nil
}

// read returns the value at segments, optionally taking a row lock on the
// owning document.
func (g *Gorm) read(tx *gorm.DB, segments []string, lock bool) (any, error) {
	if len(segments) == 1 {
		return g.readCollection(tx, segments[0], lock)
	}

	row, found, err := g.findDocument(tx, segments[0], segments[1], lock)
	if err != nil || !found {
		return nil, err
	}

	tree, err := decodeData(row.Data)
	if err != nil {
		return nil, err
	}
	value, _ := lookup(tree, segments[2:])
	return value, nil
}

func (g *Gorm) readCollection(tx *gorm.DB, collection string, lock bool) (any, error) {
	query := tx.Where("collection = ?", collection).Order("doc_key")
	if lock {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var rows []document
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	out := make(map[string]any, len(rows))
	for _, row := range rows {
		tree, err := decodeData(row.Data)
		if err != nil {
			return nil, err
		}
		if tree != nil {
			out[row.Key] = tree
		}
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func (g *Gorm) findDocument(tx *gorm.DB, collection, key string, lock bool) (document, bool, error) {
	query := tx.Where("collection = ? AND doc_key = ?", collection, key)
	if lock {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var row document
	err := query.Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return document{}, false, nil
	}
	if err != nil {
		return document{}, false, fmt.Errorf("read %s/%s: %w", collection, key, err)
	}
	return row, true, nil
}

// write places value at segments inside tx. A one segment path replaces the
// whole collection.
func (g *Gorm) write(tx *gorm.DB, segments []string, value any) error {
	if len(segments) == 0 {
		return fmt.Errorf("%w: cannot write the root", errs.ErrInvalidPath)
	}

	if len(segments) == 1 {
		return g.replaceCollection(tx, segments[0], value)
	}

	collection, key := segments[0], segments[1]
	row, _, err := g.findDocument(tx, collection, key, true)
	if err != nil {
		return err
	}

	var tree any
	if len(row.Data) > 0 {
		if tree, err = decodeData(row.Data); err != nil {
			return err
		}
	}
	return g.saveDocument(tx, collection, key, assign(tree, segments[2:], value))
}

func (g *Gorm) replaceCollection(tx *gorm.DB, collection string, value any) error {
	children, ok := value.(map[string]any)
	if value != nil && !ok {
		return fmt.Errorf("%w: collection %s must hold an object", errs.ErrInvalidPath, collection)
	}

	if err := tx.Where("collection = ?", collection).Delete(&document{}).Error; err != nil {
		return fmt.Errorf("clear %s: %w", collection, err)
	}
	for key, child := range children {
		if err := g.saveDocument(tx, collection, key, child); err != nil {
			return err
		}
	}
	return nil
}

func (g *Gorm) saveDocument(tx *gorm.DB, collection, key string, tree any) error {
	if tree == nil {
		err := tx.Where("collection = ? AND doc_key = ?", collection, key).Delete(&document{}).Error
		if err != nil {
			return fmt.Errorf("delete %s/%s: %w", collection, key, err)
		}
		return nil
	}

	raw, err := json.Marshal(tree)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, key, err)
	}

	row := document{Collection: collection, Key: key, Data: datatypes.JSON(raw), UpdatedAt: time.Now().UTC()}
	err = tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "doc_key"}},
		UpdateAll: true,
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("save %s/%s: %w", collection, key, err)
	}
	return nil
}

func decodeData(data datatypes.JSON) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("%w: corrupt document: %w", errs.ErrStoreIO, err)
	}
	return prune(tree), nil
}

// classify tags a driver error with the store error kind it represents.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, errs.ErrStoreUnavailable) ||
		errors.Is(err, errs.ErrPermissionDenied) ||
		errors.Is(err, errs.ErrStoreIO) ||
		errors.Is(err, errs.ErrInvalidPath) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", errs.ErrStoreUnavailable, err)
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return fmt.Errorf("%w: %w", errs.ErrStoreUnavailable, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "42501":
			return fmt.Errorf("%w: %w", errs.ErrPermissionDenied, err)
		case strings.HasPrefix(pgErr.Code, "08"), strings.HasPrefix(pgErr.Code, "57P"):
			return fmt.Errorf("%w: %w", errs.ErrStoreUnavailable, err)
		}
	}

	return fmt.Errorf("%w: %w", errs.ErrStoreIO, err)
}
