//go:build integration

package storage

import (
	"context"
	"testing"

	"github.com/cloo-solutions/yuholens/internal/domain"
	"github.com/cloo-solutions/yuholens/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestS3Client_RoundTrip(t *testing.T) {
	ctx := context.Background()
	rc := testutil.NewRustFSContainer(ctx, t)
	defer rc.Terminate(ctx)

	client, err := NewS3Client(ctx, S3ClientConfig{
		Endpoint:        rc.Endpoint(),
		Region:          "us-east-1",
		AccessKeyID:     testutil.RustFSAccessKey,
		SecretAccessKey: testutil.RustFSSecretKey,
		Bucket:          "yuholens-test",
		Prefix:          "archive",
		UsePathStyle:    true,
	})
	require.NoError(t, err)
	require.NoError(t, client.EnsureBucket(ctx))

	key := "interim/2018/docs/S100DJ2G_business_risks.txt"
	exists, err := client.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = client.Get(ctx, key)
	assert.ErrorIs(t, err, domain.ErrObjectNotFound)

	require.NoError(t, client.Put(ctx, key, []byte("為替変動リスク。"), "text/plain; charset=utf-8"))

	data, err := client.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "為替変動リスク。", string(data))

	meta, err := client.HeadObject(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(len("為替変動リスク。")), meta.ContentLength)
}
