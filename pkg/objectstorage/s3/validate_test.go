package s3_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/modlearn/modlearn/pkg/objectstorage/s3"
)

func Test_ValidateObjectKey(t *testing.T) {
	valid := []string{
		"files/123.mp4",
		"a",
		"files/sub.dir/video_(1)'*!.webm",
		strings.Repeat("a", 1024),
	}
	for _, key := range valid {
		assert.NoError(t, s3.ValidateObjectKey(key), key)
	}

	invalid := []string{
		"",
		"/leading.mp4",
		"trailing/",
		"files/含中文.mp4",
		"files/with space.mp4",
		"files/semi;colon",
		strings.Repeat("a", 1025),
	}
	for _, key := range invalid {
		err := s3.ValidateObjectKey(key)
		assert.Error(t, err, key)
		assert.Equal(t, s3.ErrCodeInvalidParameters, s3.ErrCode(err), key)
	}
}

func Test_ValidateBucketName(t *testing.T) {
	assert.NoError(t, s3.ValidateBucketName("modlearn-media"))
	assert.NoError(t, s3.ValidateBucketName("abc"))
	assert.NoError(t, s3.ValidateBucketName("0a0"))

	for _, bucket := range []string{"ab", "Abc", "-abc", "abc-", "a_bc", strings.Repeat("a", 64)} {
		err := s3.ValidateBucketName(bucket)
		assert.Error(t, err, bucket)
		assert.Equal(t, s3.ErrCodeInvalidParameters, s3.ErrCode(err), bucket)
	}
}

func Test_ValidateContentType(t *testing.T) {
	for _, ct := range []string{"image/jpeg", "image/png", "image/webp", "image/gif", "video/mp4", "video/webm", "video/quicktime", "application/pdf", "text/plain"} {
		assert.NoError(t, s3.ValidateContentType(ct), ct)
	}

	for _, ct := range []string{"", "application/octet-stream", "video/x-matroska", "text/html", "image/svg+xml"} {
		err := s3.ValidateContentType(ct)
		assert.Error(t, err, ct)
		assert.Equal(t, s3.ErrCodeInvalidParameters, s3.ErrCode(err), ct)
	}
}

func Test_ValidateContentLength(t *testing.T) {
	assert.NoError(t, s3.ValidateContentLength(1))
	assert.NoError(t, s3.ValidateContentLength(s3.MaxContentLength))

	for _, length := range []int64{0, -1, s3.MaxContentLength + 1} {
		err := s3.ValidateContentLength(length)
		assert.Error(t, err)
		assert.Equal(t, s3.ErrCodeInvalidParameters, s3.ErrCode(err))
	}
}

func Test_ValidateChecksum(t *testing.T) {
	assert.NoError(t, s3.ValidateChecksum(""))
	assert.NoError(t, s3.ValidateChecksum(strings.Repeat("ab", 32)))

	for _, sum := range []string{"abc", strings.Repeat("AB", 32), strings.Repeat("zz", 32), strings.Repeat("ab", 33)} {
		err := s3.ValidateChecksum(sum)
		assert.Error(t, err, sum)
		assert.Equal(t, s3.ErrCodeInvalidParameters, s3.ErrCode(err), sum)
	}
}
