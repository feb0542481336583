// Package di はアプリケーションコンポーネントを組み立てるファクトリを提供します。
package di

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"finditnow_backend/internal/app/config"
	infrahttp "finditnow_backend/internal/platform/http"
)

// NewAWSConfig はリージョンとタイムアウト付きHTTPクライアントを設定したAWS設定を読み込みます。
// 認証情報はSDKの標準の解決順（環境変数、共有設定、IAMロール）に従います。
func NewAWSConfig(ctx context.Context, cfg config.Config) (aws.Config, error) {
	httpClient := infrahttp.NewHTTPClient(infrahttp.ClientConfig{
		Timeout: cfg.AWS.HTTPTimeout,
	})
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWS.Region),
		awsconfig.WithHTTPClient(httpClient),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return awsCfg, nil
}
