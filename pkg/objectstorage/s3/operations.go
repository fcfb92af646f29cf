package s3

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type UploadURLArgs struct {
	Key           string
	ContentType   string
	ContentLength int64
	Checksum      string // sha256 hex，可为空
	Expire        time.Duration
}

type PresignResult struct {
	URL       string
	Method    string
	ExpiresAt int64 // 过期时间 时间戳
}

// CreateUploadURL 生成上传预签名URL，content-type、大小、校验和都参与签名，
// 客户端用不一致的内容上传会被存储端拒绝
func (c *Client) CreateUploadURL(ctx context.Context, args UploadURLArgs) (*PresignResult, error) {
	if err := ValidateObjectKey(args.Key); err != nil {
		return nil, err
	}
	if err := ValidateContentType(args.ContentType); err != nil {
		return nil, err
	}
	if err := ValidateContentLength(args.ContentLength); err != nil {
		return nil, err
	}
	if err := ValidateChecksum(args.Checksum); err != nil {
		return nil, err
	}

	expire, err := normalizeExpire(args.Expire, UploadExpireDefault, UploadExpireMax)
	if err != nil {
		return nil, err
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(c.Bucket),
		Key:           aws.String(args.Key),
		ContentType:   aws.String(args.ContentType),
		ContentLength: args.ContentLength,
	}

	if args.Checksum != "" {
		raw, _ := hex.DecodeString(args.Checksum)
		input.ChecksumSHA256 = aws.String(base64.StdEncoding.EncodeToString(raw))
	}

	req, err := c.presign.PresignPutObject(ctx, input, s3.WithPresignExpires(expire))
	if err != nil {
		return nil, translate("CreateUploadURL", err)
	}

	return &PresignResult{
		URL:       req.URL,
		Method:    req.Method,
		ExpiresAt: time.Now().Add(expire).Unix(),
	}, nil
}

type DownloadURLArgs struct {
	Key      string
	Filename string // 非空时强制下载文件名
	Inline   bool   // true时浏览器内联展示
	Expire   time.Duration
}

func (c *Client) CreateDownloadURL(ctx context.Context, args DownloadURLArgs) (*PresignResult, error) {
	if err := ValidateObjectKey(args.Key); err != nil {
		return nil, err
	}

	expire, err := normalizeExpire(args.Expire, DownloadExpireDefault, DownloadExpireMax)
	if err != nil {
		return nil, err
	}

	input := &s3.GetObjectInput{
		Bucket: aws.String(c.Bucket),
		Key:    aws.String(args.Key),
	}

	if disposition := contentDisposition(args.Inline, args.Filename); disposition != "" {
		input.ResponseContentDisposition = aws.String(disposition)
	}

	req, err := c.presign.PresignGetObject(ctx, input, s3.WithPresignExpires(expire))
	if err != nil {
		return nil, translate("CreateDownloadURL", err)
	}

	return &PresignResult{
		URL:       req.URL,
		Method:    req.Method,
		ExpiresAt: time.Now().Add(expire).Unix(),
	}, nil
}

// contentDisposition 没有文件名时不下发header，交给存储端默认行为
func contentDisposition(inline bool, filename string) string {
	if filename == "" {
		return ""
	}
	kind := "attachment"
	if inline {
		kind = "inline"
	}
	return fmt.Sprintf("%s; filename=%q", kind, strings.ReplaceAll(filename, `"`, ""))
}

// DeleteObject 幂等删除，对象不存在同样视为成功
func (c *Client) DeleteObject(ctx context.Context, key string) error {
	if err := ValidateObjectKey(key); err != nil {
		return err
	}

	_, err := c.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return translate("DeleteObject", err)
	}
	return nil
}

type ObjectMeta struct {
	Exists       bool
	Size         int64
	ContentType  string
	ETag         string
	LastModified int64
}

// ObjectExists 查询对象是否存在及其元信息，不存在不算错误
func (c *Client) ObjectExists(ctx context.Context, key string) (*ObjectMeta, error) {
	if err := ValidateObjectKey(key); err != nil {
		return nil, err
	}

	resp, err := c.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return &ObjectMeta{Exists: false}, nil
		}
		return nil, translate("ObjectExists", err)
	}

	meta := &ObjectMeta{
		Exists:      true,
		Size:        resp.ContentLength,
		ContentType: aws.ToString(resp.ContentType),
		ETag:        strings.Trim(aws.ToString(resp.ETag), `"`),
	}
	if resp.LastModified != nil {
		meta.LastModified = resp.LastModified.Unix()
	}
	return meta, nil
}
