package docstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/rpupo63/portfolio-backend/errs"
)

// Memory is an in-process Store. All operations are serialized by one lock,
// so transactions are trivially atomic.
type Memory struct {
	mu   sync.RWMutex
	root any
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Get(ctx context.Context, path string) (Snapshot, error) {
	segments, err := SplitPath(path)
	if err != nil {
		return Snapshot{}, err
	}
	if err := ctx.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", errs.ErrStoreUnavailable, err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	value, _ := lookup(m.root, segments)
	return Snapshot{Path: path, Value: clone(value)}, nil
}

func (m *Memory) Set(ctx context.Context, path string, value any) error {
	segments, err := SplitPath(path)
	if err != nil {
		return err
	}
	normalized, err := normalize(value)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrStoreUnavailable, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.root = assign(m.root, segments, normalized)
	return nil
}

func (m *Memory) Update(ctx context.Context, path string, fields map[string]any) error {
	base, err := SplitPath(path)
	if err != nil {
		return err
	}
	paths, values, err := expandUpdate(base, fields)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrStoreUnavailable, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for key, full := range paths {
		m.root = assign(m.root, full, values[key])
	}
	return nil
}

func (m *Memory) Delete(ctx context.Context, path string) error {
	return m.Set(ctx, path, nil)
}

func (m *Memory) Push(ctx context.Context, path string, value any) (string, error) {
	key := NewKey()
	if err := m.Set(ctx, JoinPath(path, key), value); err != nil {
		return "", err
	}
	return key, nil
}

func (m *Memory) Transaction(ctx context.Context, path string, fn TransactionFunc) error {
	segments, err := SplitPath(path)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrStoreUnavailable, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current, _ := lookup(m.root, segments)
	next, err := fn(clone(current))
	if err != nil {
		return err
	}

	normalized, err := normalize(next)
	if err != nil {
		return err
	}
	m.root = assign(m.root, segments, normalized)
	return nil
}
