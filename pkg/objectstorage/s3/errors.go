package s3

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"

	"github.com/aws/smithy-go"
)

// 对外暴露的错误码是封闭集合，调用方只依赖这四种
const (
	ErrCodeInvalidParameters = "InvalidParameters"
	ErrCodeAccessDenied      = "AccessDenied"
	ErrCodeNetworkError      = "NetworkError"
	ErrCodeUnknown           = "UnknownError"
)

type StorageError struct {
	Code    string
	Message string
	Cause   error
}

func (e *StorageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Message, e.Cause.Error())
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// ErrCode 取出封闭错误码，非 StorageError 一律按 UnknownError 处理
func ErrCode(err error) string {
	var se *StorageError
	if errors.As(err, &se) {
		return se.Code
	}
	return ErrCodeUnknown
}

func invalidParams(format string, args ...any) *StorageError {
	return &StorageError{
		Code:    ErrCodeInvalidParameters,
		Message: fmt.Sprintf(format, args...),
	}
}

// isNotFound 判断对象或bucket不存在，这类结果不算错误
func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey", "NoSuchBucket", "404":
			return true
		}
	}
	return false
}

func isBucketOwned(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "BucketAlreadyExists", "BucketAlreadyOwnedByYou":
			return true
		}
	}
	return false
}

// translate 将sdk错误归一到封闭错误码
func translate(op string, err error) *StorageError {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken":
			return &StorageError{Code: ErrCodeAccessDenied, Message: op + " access denied", Cause: err}
		case "RequestTimeout", "SlowDown", "ServiceUnavailable":
			return &StorageError{Code: ErrCodeNetworkError, Message: op + " transient failure", Cause: err}
		}
		return &StorageError{Code: ErrCodeUnknown, Message: op + " failed", Cause: err}
	}

	var netErr net.Error
	var urlErr *url.Error
	if errors.As(err, &netErr) || errors.As(err, &urlErr) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &StorageError{Code: ErrCodeNetworkError, Message: op + " network failure", Cause: err}
	}

	return &StorageError{Code: ErrCodeUnknown, Message: op + " failed", Cause: err}
}
