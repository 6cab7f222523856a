package storage

import (
	"context"
	"fmt"
	"sync"
)

type memoryObject struct {
	data        []byte
	contentType string
}

// Memory keeps assets in process. It backs local development and tests.
type Memory struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string]memoryObject
}

func NewMemory(baseURL string) *Memory {
	return &Memory{baseURL: baseURL, objects: make(map[string]memoryObject)}
}

func (m *Memory) Upload(ctx context.Context, data []byte, targetID string, opts UploadOptions) (Asset, error) {
	if err := validateUpload(data, targetID, opts); err != nil {
		return Asset{}, err
	}
	if err := ctx.Err(); err != nil {
		return Asset{}, uploadFailed(targetID, err)
	}

	key := objectKey(opts.Kind, targetID)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.objects[key]; exists && !opts.Overwrite {
		return Asset{}, uploadFailed(targetID, fmt.Errorf("%s already exists", key))
	}
	m.objects[key] = memoryObject{data: append([]byte(nil), data...), contentType: contentType(opts)}

	return Asset{URL: publicURL(m.baseURL, key), AssetID: targetID}, nil
}

func (m *Memory) Delete(ctx context.Context, assetID string, kind Kind) error {
	if err := ctx.Err(); err != nil {
		return deleteFailed(assetID, err)
	}

	key := objectKey(kind, assetID)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.objects[key]; !exists {
		return deleteFailed(assetID, ErrAssetNotFound)
	}
	delete(m.objects, key)
	return nil
}

// Object returns a stored asset's bytes and content type.
func (m *Memory) Object(assetID string, kind Kind) ([]byte, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[objectKey(kind, assetID)]
	return obj.data, obj.contentType, ok
}

// Len reports how many assets are stored.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
