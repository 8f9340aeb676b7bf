package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"benfit/meustreinos/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExerciseImageKey(t *testing.T) {
	key := ExerciseImageKey("supino_reto", "image/png")
	assert.True(t, strings.HasPrefix(key, "exercises/supino_reto/"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)

	other := ExerciseImageKey("supino_reto", "application/x-unknown-thing")
	assert.NotEqual(t, key, other)
	assert.NotContains(t, other[len("exercises/supino_reto/"):], ".")
}

func TestIsObjectKey(t *testing.T) {
	assert.True(t, IsObjectKey("exercises/prancha/1.png"))
	assert.False(t, IsObjectKey("https://images.unsplash.com/photo.jpg"))
	assert.False(t, IsObjectKey("http://minio:9000/x.png"))
	assert.False(t, IsObjectKey(""))
}

func TestS3Storage_Presign(t *testing.T) {
	s, err := NewS3Storage(context.Background(), config.S3Config{
		Endpoint:        "http://localhost:9000",
		Region:          "us-east-1",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio-secret",
		BucketName:      "images",
	})
	require.NoError(t, err)

	get, err := s.GeneratePresignedDownloadURL(context.Background(), "exercises/prancha/a.png", 0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(get, "http://localhost:9000/images/exercises/prancha/a.png?"), get)
	assert.Contains(t, get, "X-Amz-Signature=")
	assert.Contains(t, get, "X-Amz-Expires=900")

	put, err := s.GeneratePresignedUploadURL(context.Background(), "exercises/prancha/b.png", "image/png", 5*time.Minute)
	require.NoError(t, err)
	assert.Contains(t, put, "X-Amz-Expires=300")
}
