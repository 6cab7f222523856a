package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 is an in-memory s3API.
type fakeS3 struct {
	mu        sync.Mutex
	objects   map[string][]byte
	ctypes    map[string]string
	puts      int
	putErr    error
	headErr   error
	deleteErr error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, ctypes: map[string]string{}}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return nil, f.putErr
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.puts++
	f.objects[aws.ToString(in.Key)] = body
	f.ctypes[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.headErr != nil {
		return nil, f.headErr
	}
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

// runClientSuite checks the contract shared by every backend.
func runClientSuite(t *testing.T, newClient func() Client) {
	ctx := context.Background()
	jpeg := []byte("\xff\xd8\xff fake jpeg")

	t.Run("upload returns url and asset id", func(t *testing.T) {
		client := newClient()
		asset, err := client.Upload(ctx, jpeg, "project_p1/cover_image", UploadOptions{Overwrite: true, Kind: KindImage})
		require.NoError(t, err)
		assert.Equal(t, "project_p1/cover_image", asset.AssetID)
		assert.Equal(t, "https://cdn.test/image/project_p1/cover_image", asset.URL)
	})

	t.Run("overwrite replaces in place", func(t *testing.T) {
		client := newClient()
		opts := UploadOptions{Overwrite: true, Kind: KindImage}
		first, err := client.Upload(ctx, jpeg, "project_p1/cover_image", opts)
		require.NoError(t, err)
		second, err := client.Upload(ctx, []byte("second"), "project_p1/cover_image", opts)
		require.NoError(t, err)
		assert.Equal(t, first.AssetID, second.AssetID)
	})

	t.Run("occupied target without overwrite fails", func(t *testing.T) {
		client := newClient()
		opts := UploadOptions{Kind: KindRaw, ContentType: "application/pdf"}
		_, err := client.Upload(ctx, []byte("%PDF"), "project_p1/Resume", opts)
		require.NoError(t, err)
		_, err = client.Upload(ctx, []byte("%PDF"), "project_p1/Resume", opts)
		assert.ErrorIs(t, err, errs.ErrUploadFailed)
	})

	t.Run("images over the ceiling are rejected", func(t *testing.T) {
		client := newClient()
		_, err := client.Upload(ctx, make([]byte, MaxImageBytes+1), "big", UploadOptions{Kind: KindImage})
		assert.ErrorIs(t, err, errs.ErrPayloadTooLarge)

		_, err = client.Upload(ctx, make([]byte, MaxImageBytes+1), "big.pdf", UploadOptions{Kind: KindRaw})
		assert.NoError(t, err)
	})

	t.Run("argument checks", func(t *testing.T) {
		client := newClient()
		_, err := client.Upload(ctx, jpeg, "", UploadOptions{Kind: KindImage})
		assert.ErrorIs(t, err, errs.ErrValidation)
		_, err = client.Upload(ctx, jpeg, "x", UploadOptions{Kind: "video"})
		assert.ErrorIs(t, err, errs.ErrValidation)
		_, err = client.Upload(ctx, nil, "x", UploadOptions{Kind: KindImage})
		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("delete", func(t *testing.T) {
		client := newClient()
		_, err := client.Upload(ctx, jpeg, "project_p1/carousel_image_1", UploadOptions{Kind: KindImage})
		require.NoError(t, err)

		require.NoError(t, client.Delete(ctx, "project_p1/carousel_image_1", KindImage))

		err = client.Delete(ctx, "project_p1/carousel_image_1", KindImage)
		assert.ErrorIs(t, err, errs.ErrDeleteFailed)
		assert.ErrorIs(t, err, ErrAssetNotFound)
	})

	t.Run("kinds are separate namespaces", func(t *testing.T) {
		client := newClient()
		_, err := client.Upload(ctx, jpeg, "shared", UploadOptions{Kind: KindImage})
		require.NoError(t, err)
		assert.ErrorIs(t, client.Delete(ctx, "shared", KindRaw), ErrAssetNotFound)
	})
}

func TestMemoryClient(t *testing.T) {
	runClientSuite(t, func() Client { return NewMemory("https://cdn.test") })
}

func TestS3Client(t *testing.T) {
	runClientSuite(t, func() Client { return newS3WithClient(newFakeS3(), "bucket", "https://cdn.test") })
}

func TestS3ContentTypes(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	client := newS3WithClient(fake, "bucket", "https://cdn.test")

	_, err := client.Upload(ctx, []byte("img"), "a", UploadOptions{Kind: KindImage})
	require.NoError(t, err)
	_, err = client.Upload(ctx, []byte("%PDF"), "b", UploadOptions{Kind: KindRaw, ContentType: "application/pdf"})
	require.NoError(t, err)

	assert.Equal(t, "image/jpeg", fake.ctypes["image/a"])
	assert.Equal(t, "application/pdf", fake.ctypes["raw/b"])
	assert.True(t, bytes.Equal([]byte("%PDF"), fake.objects["raw/b"]))
}

func TestS3ServiceErrors(t *testing.T) {
	ctx := context.Background()

	fake := newFakeS3()
	fake.putErr = errors.New("service unavailable")
	client := newS3WithClient(fake, "bucket", "https://cdn.test")
	_, err := client.Upload(ctx, []byte("img"), "a", UploadOptions{Kind: KindImage, Overwrite: true})
	assert.ErrorIs(t, err, errs.ErrUploadFailed)

	fake = newFakeS3()
	fake.headErr = errors.New("access denied")
	client = newS3WithClient(fake, "bucket", "https://cdn.test")
	_, err = client.Upload(ctx, []byte("img"), "a", UploadOptions{Kind: KindImage})
	assert.ErrorIs(t, err, errs.ErrUploadFailed)
	assert.Equal(t, 0, fake.puts)

	err = client.Delete(ctx, "a", KindImage)
	assert.ErrorIs(t, err, errs.ErrDeleteFailed)
	assert.NotErrorIs(t, err, ErrAssetNotFound)
}

func TestS3OversizeMakesNoCalls(t *testing.T) {
	fake := newFakeS3()
	client := newS3WithClient(fake, "bucket", "https://cdn.test")
	_, err := client.Upload(context.Background(), make([]byte, MaxImageBytes+1), "a", UploadOptions{Kind: KindImage, Overwrite: true})
	assert.ErrorIs(t, err, errs.ErrPayloadTooLarge)
	assert.Equal(t, 0, fake.puts)
}

func TestPublicBase(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com", publicBase(S3Config{Bucket: "b", PublicBaseURL: "https://cdn.example.com"}))
	assert.Equal(t, "http://minio:9000/b", publicBase(S3Config{Bucket: "b", Endpoint: "http://minio:9000", UsePathStyle: true}))
	assert.Equal(t, "https://b.s3.eu-west-1.amazonaws.com", publicBase(S3Config{Bucket: "b", Region: "eu-west-1"}))
}

func TestPublicURLEscapesSegments(t *testing.T) {
	assert.Equal(t, "https://cdn.test/raw/project_p1/My%20Resume", publicURL("https://cdn.test/", "raw/project_p1/My Resume"))
}
