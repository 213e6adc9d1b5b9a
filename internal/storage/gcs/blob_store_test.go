package gcs

import (
	"context"
	"testing"

	"cloud.google.com/go/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestNewValidation(t *testing.T) {
	t.Parallel()

	_, err := New(nil, Config{Bucket: "bucket"})
	require.Error(t, err)

	client, err := storage.NewClient(context.Background(), option.WithoutAuthentication())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	_, err = New(client, Config{Bucket: "  "})
	require.Error(t, err)

	store, err := New(client, Config{Bucket: "bucket", Prefix: "/aoc/"})
	require.NoError(t, err)
	assert.Equal(t, "aoc/1_2023.input", store.objectName("1_2023.input"))

	bare, err := New(client, Config{Bucket: "bucket"})
	require.NoError(t, err)
	assert.Equal(t, "1_2023.input", bare.objectName("1_2023.input"))
}

func TestVerifyDigest(t *testing.T) {
	t.Parallel()

	client, err := storage.NewClient(context.Background(), option.WithoutAuthentication())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	store, err := New(client, Config{Bucket: "bucket"})
	require.NoError(t, err)

	data := []byte("10\n20\n30")
	good := map[string]string{digestKey: store.hasher.Hash(data)}

	require.NoError(t, store.verify("1_2023.input", data, good))
	require.NoError(t, store.verify("1_2023.input", data, nil))
	require.ErrorIs(t, store.verify("1_2023.input", []byte("tampered"), good), ErrChecksumMismatch)
}
