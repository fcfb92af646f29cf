package s3_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/modlearn/modlearn/pkg/objectstorage/s3"
	"github.com/modlearn/modlearn/pkg/testutils"
)

func newClient(t *testing.T) *s3.Client {
	testutils.LoadEnvOrPanic()
	if os.Getenv("TEST_MODLEARN_S3_ENDPOINT") == "" {
		t.Skip("TEST_MODLEARN_S3_ENDPOINT not set")
	}
	return s3.NewS3Client(
		os.Getenv("TEST_MODLEARN_S3_ENDPOINT"),
		os.Getenv("TEST_MODLEARN_S3_REGION"),
		os.Getenv("TEST_MODLEARN_S3_BUCKET"),
		os.Getenv("TEST_MODLEARN_S3_ACCESS_KEY"),
		os.Getenv("TEST_MODLEARN_S3_SECRET_KEY"),
		s3.WithPathStyle(os.Getenv("TEST_MODLEARN_S3_PATH_STYLE") == "true"), // MinIO需要路径样式URL
	)
}

func Test_EnsureBucketAndPresign(t *testing.T) {
	cli := newClient(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	_, err := cli.EnsureBucketExists(ctx, cli.Bucket)
	require.NoError(t, err)

	up, err := cli.CreateUploadURL(ctx, s3.UploadURLArgs{
		Key:           "files/test-upload.txt",
		ContentType:   "text/plain",
		ContentLength: 16,
	})
	require.NoError(t, err)
	t.Log(up.URL)

	down, err := cli.CreateDownloadURL(ctx, s3.DownloadURLArgs{Key: "files/test-upload.txt"})
	require.NoError(t, err)
	t.Log(down.URL)

	require.NoError(t, cli.DeleteObject(ctx, "files/test-upload.txt"))
}
