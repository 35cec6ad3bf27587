package source

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/jinford/doc-qa/internal/core/corpus"
)

// S3API は使用するS3操作のサブセット
type S3API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Provider はバケット内のオブジェクトを列挙・取得する
type S3Provider struct {
	client   S3API
	bucket   string
	registry *corpus.Registry
}

// NewS3Provider はデフォルトのAWS設定からS3クライアントを構築して Provider を作成する
func NewS3Provider(ctx context.Context, bucket string, registry *corpus.Registry) (*S3Provider, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &S3Provider{
		client:   s3.NewFromConfig(cfg),
		bucket:   bucket,
		registry: registry,
	}, nil
}

// NewS3ProviderWithClient はクライアントを注入して Provider を作成する
func NewS3ProviderWithClient(client S3API, bucket string, registry *corpus.Registry) *S3Provider {
	return &S3Provider{
		client:   client,
		bucket:   bucket,
		registry: registry,
	}
}

// Documents はバケットの全ページを列挙し、登録済み拡張子のオブジェクト本体を取得する
func (p *S3Provider) Documents(ctx context.Context) ([]corpus.Document, error) {
	var docs []corpus.Document
	var continuation *string
	for {
		page, err := p.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(p.bucket),
			ContinuationToken: continuation,
		})
		if err != nil {
			return nil, fmt.Errorf("source unavailable: failed to list bucket %s: %w", p.bucket, err)
		}

		for _, item := range page.Contents {
			key := aws.ToString(item.Key)
			ext := path.Ext(key)
			if !p.registry.Supports(ext) {
				continue
			}

			content, err := p.fetch(ctx, key)
			if err != nil {
				return nil, err
			}
			docs = append(docs, corpus.Document{
				Source:  key,
				Ext:     ext,
				Content: content,
			})
		}

		if !aws.ToBool(page.IsTruncated) {
			break
		}
		continuation = page.NextContinuationToken
	}
	return docs, nil
}

// fetch はオブジェクト本体を読み切って返す
func (p *S3Provider) fetch(ctx context.Context, key string) ([]byte, error) {
	obj, err := p.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("source unavailable: failed to get object %s: %w", key, err)
	}
	defer obj.Body.Close()

	content, err := io.ReadAll(obj.Body)
	if err != nil {
		return nil, fmt.Errorf("source unavailable: failed to read object %s: %w", key, err)
	}
	return content, nil
}

var _ corpus.SourceProvider = (*S3Provider)(nil)
