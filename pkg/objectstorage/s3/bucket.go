package s3

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

func (c *Client) BucketExists(ctx context.Context, bucket string) (bool, error) {
	if err := ValidateBucketName(bucket); err != nil {
		return false, err
	}

	_, err := c.api.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, translate("BucketExists", err)
	}
	return true, nil
}

// CreateBucket 返回是否新建，bucket已存在视为成功
func (c *Client) CreateBucket(ctx context.Context, bucket string) (bool, error) {
	if err := ValidateBucketName(bucket); err != nil {
		return false, err
	}

	input := &s3.CreateBucketInput{
		Bucket: aws.String(bucket),
	}
	// us-east-1 不接受 LocationConstraint
	if c.Region != "" && c.Region != "us-east-1" {
		input.CreateBucketConfiguration = &s3types.CreateBucketConfiguration{
			LocationConstraint: s3types.BucketLocationConstraint(c.Region),
		}
	}

	_, err := c.api.CreateBucket(ctx, input)
	if err != nil {
		if isBucketOwned(err) {
			return false, nil
		}
		return false, translate("CreateBucket", err)
	}
	return true, nil
}

// EnsureBucketExists 进程启动时调用，先查后建，并发建桶导致的已存在错误按成功处理
func (c *Client) EnsureBucketExists(ctx context.Context, bucket string) (bool, error) {
	exists, err := c.BucketExists(ctx, bucket)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	return c.CreateBucket(ctx, bucket)
}
