// Package objectstore はS3互換オブジェクトストレージへのアクセスを提供します。
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"finditnow_backend/internal/shared/blob"
)

// DefaultPageSize はListObjectsV2の1ページあたりの最大キー数です。
const DefaultPageSize = 1000

// S3API はS3Storeが利用するS3クライアントの操作です。
type S3API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// Config はS3Storeの設定です。
type Config struct {
	Bucket   string
	PageSize int32
	// Endpoint が空でない場合、MinIOやR2などのS3互換エンドポイントを使用します。
	Endpoint     string
	UsePathStyle bool
}

// S3Store は単一バケットをフラットなキー空間として扱うストアです。
type S3Store struct {
	client   S3API
	bucket   string
	pageSize int32
}

// NewS3Store は任意のS3APIを使用するS3Storeを生成します。
func NewS3Store(client S3API, cfg Config) *S3Store {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &S3Store{client: client, bucket: cfg.Bucket, pageSize: pageSize}
}

// NewFromConfig はAWS設定からS3クライアントを構築してS3Storeを生成します。
// HTTPクライアントは awsCfg のものを共有します。
func NewFromConfig(awsCfg aws.Config, cfg Config) *S3Store {
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	return NewS3Store(client, cfg)
}

// Bucket は対象のバケット名を返します。
func (s *S3Store) Bucket() string {
	return s.bucket
}

// ListObjects はキーの1ページを列挙します。continuationToken が空の場合は先頭ページです。
func (s *S3Store) ListObjects(ctx context.Context, continuationToken string) (*blob.Page, error) {
	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		MaxKeys: aws.Int32(s.pageSize),
	}
	if continuationToken != "" {
		input.ContinuationToken = aws.String(continuationToken)
	}

	out, err := s.client.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to list objects in %s: %w", s.bucket, err)
	}

	page := &blob.Page{Objects: make([]blob.Object, 0, len(out.Contents))}
	for _, obj := range out.Contents {
		key := aws.ToString(obj.Key)
		if key == "" {
			continue
		}
		page.Objects = append(page.Objects, blob.Object{Key: key, Size: aws.ToInt64(obj.Size)})
	}
	if aws.ToBool(out.IsTruncated) {
		page.NextToken = aws.ToString(out.NextContinuationToken)
	}
	return page, nil
}

// GetObject はオブジェクトの内容を取得します。空のオブジェクトはエラーではありません。
func (s *S3Store) GetObject(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("get %s: %w", key, blob.ErrObjectNotFound)
		}
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}
	return data, nil
}

// PutObject はオブジェクトを書き込みます。既存のキーは上書きされます。
func (s *S3Store) PutObject(ctx context.Context, key string, data []byte, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to put object %s: %w", key, err)
	}
	return nil
}

// DeleteObject はオブジェクトを削除します。
func (s *S3Store) DeleteObject(ctx context.Context, key string) error {
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

// Exists はオブジェクトが存在するかを返します。
func (s *S3Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to head object %s: %w", key, err)
}

// isNotFound はGetObjectのNoSuchKeyとHeadObjectのNotFoundを判定します。
func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
