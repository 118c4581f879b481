package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ogurasousui/hr-records/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_Save(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "public", "uploads")
	store, err := NewLocalStore(dir, "uploads/")
	require.NoError(t, err)

	path, err := store.Save(context.Background(), "1739088000000_jane.jpg", "image/jpeg", []byte{0xff, 0xd8})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/1739088000000_jane.jpg", path)

	written, err := os.ReadFile(filepath.Join(dir, "1739088000000_jane.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8}, written)
}

func TestLocalStore_RejectsPathKeys(t *testing.T) {
	t.Parallel()

	store, err := NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	for _, key := range []string{"", "..", "../etc/passwd", `a\b`} {
		_, err := store.Save(context.Background(), key, "", []byte("x"))
		assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
	}
}

func TestLocalStore_CanceledContext(t *testing.T) {
	t.Parallel()

	store, err := NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = store.Save(ctx, "a.pdf", "application/pdf", []byte("%PDF"))
	assert.ErrorIs(t, err, context.Canceled)
}

type fakePutObject struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutObject) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store_Save(t *testing.T) {
	t.Parallel()

	client := &fakePutObject{}
	store := newS3Store(client, config.S3Config{Bucket: "hr-files", Region: "eu-west-3", Prefix: "/employees/"})

	url, err := store.Save(context.Background(), "1739088000000_my id.pdf", "application/pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)

	assert.Equal(t, "https://hr-files.s3.eu-west-3.amazonaws.com/employees/1739088000000_my%20id.pdf", url)
	assert.Equal(t, "hr-files", aws.ToString(client.input.Bucket))
	assert.Equal(t, "employees/1739088000000_my id.pdf", aws.ToString(client.input.Key))
	assert.Equal(t, "application/pdf", aws.ToString(client.input.ContentType))
	assert.Equal(t, []byte("%PDF-1.4"), client.body)
}

func TestS3Store_CustomEndpoint(t *testing.T) {
	t.Parallel()

	client := &fakePutObject{}
	store := newS3Store(client, config.S3Config{Bucket: "hr", Region: "us-east-1", Endpoint: "http://localhost:9000/"})

	url, err := store.Save(context.Background(), "a.png", "", []byte{1})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/hr/a.png", url)
	assert.Nil(t, client.input.ContentType)
}

func TestS3Store_PutFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	store := newS3Store(&fakePutObject{err: boom}, config.S3Config{Bucket: "hr", Region: "us-east-1"})

	_, err := store.Save(context.Background(), "a.png", "image/png", []byte{1})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestNew_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), config.StorageConfig{Driver: "ftp"})
	assert.Error(t, err)

	store, err := New(context.Background(), config.StorageConfig{Driver: config.StorageDriverLocal, LocalDir: t.TempDir(), PublicPrefix: "/uploads"})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, store)
}
