// Package docstore is a hierarchical, path-addressed document store in the
// style of a realtime database: every value lives under a slash separated
// path such as "projects/{id}/pdfs/{n}", writes to a path replace the value
// there, and removing the last child of an object removes the object.
package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Store is the document store boundary used by the repositories.
type Store interface {
	// Get reads the value at path. A missing path yields a snapshot whose
	// Exists reports false, not an error.
	Get(ctx context.Context, path string) (Snapshot, error)

	// Set replaces the value at path. A nil value removes it.
	Set(ctx context.Context, path string, value any) error

	// Update writes each field relative to path, leaving siblings that are
	// not named untouched. Field keys may span several segments
	// ("videos/123"), which makes Update a multi-path write.
	Update(ctx context.Context, path string, fields map[string]any) error

	// Delete removes the subtree at path.
	Delete(ctx context.Context, path string) error

	// Push stores value under a newly generated child key of path and
	// returns that key.
	Push(ctx context.Context, path string, value any) (string, error)

	// Transaction runs fn with the current value at path and writes the
	// value it returns, with no other write to that path in between.
	Transaction(ctx context.Context, path string, fn TransactionFunc) error
}

// TransactionFunc receives a private copy of the current value (nil when
// absent) and returns the value to store. Returning an error aborts the
// transaction without writing.
type TransactionFunc func(current any) (any, error)

// NewKey returns a fresh child key for Push style inserts.
func NewKey() string {
	return uuid.NewString()
}

// Snapshot is the value read from a path.
type Snapshot struct {
	Path  string
	Value any
}

// Exists reports whether there was a value at the path.
func (s Snapshot) Exists() bool {
	return s.Value != nil
}

// Decode converts the snapshot value into out using its JSON tags.
func (s Snapshot) Decode(out any) error {
	raw, err := json.Marshal(s.Value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.Path, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", s.Path, err)
	}
	return nil
}

// Keys returns the child keys of an object value in sorted order.
func (s Snapshot) Keys() []string {
	m, ok := s.Value.(map[string]any)
	if !ok {
		return nil
	}

	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Child returns the snapshot of a direct child.
func (s Snapshot) Child(key string) Snapshot {
	child := Snapshot{Path: JoinPath(s.Path, key)}
	if m, ok := s.Value.(map[string]any); ok {
		child.Value = m[key]
	}
	return child
}
