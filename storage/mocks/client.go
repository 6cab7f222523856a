package mocks

import (
	"context"

	"github.com/rpupo63/portfolio-backend/storage"
	"github.com/stretchr/testify/mock"
)

// Client is a mock for storage.Client.
type Client struct {
	mock.Mock
}

func (m *Client) Upload(ctx context.Context, data []byte, targetID string, opts storage.UploadOptions) (storage.Asset, error) {
	args := m.Called(ctx, data, targetID, opts)
	if asset, ok := args.Get(0).(storage.Asset); ok {
		return asset, args.Error(1)
	}
	return storage.Asset{}, args.Error(1)
}

func (m *Client) Delete(ctx context.Context, assetID string, kind storage.Kind) error {
	args := m.Called(ctx, assetID, kind)
	return args.Error(0)
}
