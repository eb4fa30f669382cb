package storage_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Romer4ig/image-moderation/internal/config"
	"github.com/Romer4ig/image-moderation/internal/infrastructure/storage"
	"github.com/Romer4ig/image-moderation/internal/utils/platformerrors"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func newStore(t *testing.T) *storage.FileStore {
	t.Helper()
	store, err := storage.NewFileStore(&config.Config{GeneratedFilesFolder: t.TempDir()}, zerolog.Nop())
	require.NoError(t, err)
	return store
}

func TestFileStoreSaveAndResolve(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	stored, err := store.Save(ctx, "gen-1", "out.png", bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored.Path, "gen-1/"))
	assert.True(t, strings.HasSuffix(stored.Path, ".png"))
	assert.Equal(t, int64(len(pngHeader)), stored.Size)
	assert.Equal(t, "image/png", stored.MimeType)

	abs, err := store.Resolve(stored.Path)
	require.NoError(t, err)
	assert.Equal(t, stored.AbsPath, abs)

	require.NoError(t, store.Remove(ctx, stored.Path))
	_, err = store.Resolve(stored.Path)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestFileStoreRejectsEscapingPaths(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	tests := []string{"../outside.png", "gen/../../outside.png", ""}
	for _, path := range tests {
		t.Run(path, func(t *testing.T) {
			_, err := store.Resolve(path)
			assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
		})
	}

	_, err := store.Save(ctx, "../escape", "x.png", bytes.NewReader(pngHeader))
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestFileStoreLeavesForeignAbsolutePaths(t *testing.T) {
	store := newStore(t)
	outside := filepath.Join(t.TempDir(), "source.png")
	require.NoError(t, os.WriteFile(outside, pngHeader, 0o644))

	require.NoError(t, store.Remove(context.Background(), outside))
	_, err := os.Stat(outside)
	assert.NoError(t, err)

	abs, err := store.Resolve(outside)
	require.NoError(t, err)
	assert.Equal(t, outside, abs)
}

func TestFileStoreRemoveGeneration(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	_, err := store.Save(ctx, "gen-2", "a.png", bytes.NewReader(pngHeader))
	require.NoError(t, err)

	require.NoError(t, store.RemoveGeneration(ctx, "gen-2"))
	_, err = os.Stat(filepath.Join(store.Root(), "gen-2"))
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, store.Health(ctx))
}

func TestSourceScanner(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.JPG", "readme.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), pngHeader, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.png"), 0o755))

	images, err := storage.NewSourceScanner(zerolog.Nop()).Scan(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "a.JPG", images[0].Name)
	assert.Equal(t, "b.png", images[1].Name)

	_, err = storage.NewSourceScanner(zerolog.Nop()).Scan(context.Background(), filepath.Join(dir, "missing"))
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestSelectionMirrorLocalReplacesOtherExtensions(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	stored, err := store.Save(ctx, "gen-3", "cover.png", bytes.NewReader(pngHeader))
	require.NoError(t, err)

	dest := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dest, "42.jpg"), []byte("old"), 0o644))

	mirror := storage.NewSelectionMirror(store, nil, zerolog.Nop())
	require.NoError(t, mirror.Copy(ctx, dest, "42", stored.Path))

	data, err := os.ReadFile(filepath.Join(dest, "42.png"))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)
	_, err = os.Stat(filepath.Join(dest, "42.jpg"))
	assert.True(t, os.IsNotExist(err))
}

type fakeS3 struct {
	puts    []string
	deletes []string
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.puts = append(f.puts, *params.Bucket+"/"+*params.Key)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, *params.Bucket+"/"+*params.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestSelectionMirrorS3(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	stored, err := store.Save(ctx, "gen-4", "cover.png", bytes.NewReader(pngHeader))
	require.NoError(t, err)

	client := &fakeS3{}
	mirror := storage.NewSelectionMirror(store, storage.NewS3MirrorWithClient(client, zerolog.Nop()), zerolog.Nop())
	require.NoError(t, mirror.Copy(ctx, "s3://covers/anime/", "42", stored.Path))

	assert.Equal(t, []string{"covers/anime/42.png"}, client.puts)
	assert.Contains(t, client.deletes, "covers/anime/42.jpg")
	assert.NotContains(t, client.deletes, "covers/anime/42.png")
}

func TestS3MirrorDisabledWithoutCredentials(t *testing.T) {
	mirror, err := storage.NewS3Mirror(context.Background(), &config.Config{}, zerolog.Nop())
	require.NoError(t, err)
	assert.Error(t, mirror.Put(context.Background(), "s3://bucket", "1", ".png", "/nonexistent"))
}

func TestParseS3Destination(t *testing.T) {
	tests := []struct {
		in     string
		bucket string
		prefix string
		ok     bool
	}{
		{"s3://covers", "covers", "", true},
		{"s3://covers/anime/final/", "covers", "anime/final", true},
		{"s3:///nobucket", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			bucket, prefix, err := storage.ParseS3Destination(tt.in)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.prefix, prefix)
		})
	}
}
