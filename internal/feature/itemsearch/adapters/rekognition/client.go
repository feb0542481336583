// Package rekognition はAmazon Rekognitionを使用したラベル検出クライアントを提供します。
package rekognition

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsrekognition "github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"finditnow_backend/internal/feature/itemsearch/domain"
	"finditnow_backend/internal/feature/itemsearch/domain/entity"
	"finditnow_backend/internal/feature/itemsearch/usecase"
)

// DetectLabelsAPI はRekognitionクライアントのうち本パッケージが利用する部分です。
type DetectLabelsAPI interface {
	DetectLabels(ctx context.Context, params *awsrekognition.DetectLabelsInput, optFns ...func(*awsrekognition.Options)) (*awsrekognition.DetectLabelsOutput, error)
}

// RekognitionLabelProvider はAmazon Rekognitionを使用してラベルを検出します。
type RekognitionLabelProvider struct {
	client DetectLabelsAPI
}

// RekognitionLabelProviderがLabelProviderを実装していることをコンパイル時に検証します。
var _ usecase.LabelProvider = (*RekognitionLabelProvider)(nil)

// NewRekognitionLabelProvider はRekognitionLabelProviderの新しいインスタンスを生成します。
func NewRekognitionLabelProvider(client DetectLabelsAPI) *RekognitionLabelProvider {
	return &RekognitionLabelProvider{client: client}
}

// NewFromConfig はAWS SDKの設定からRekognitionLabelProviderを生成します。
func NewFromConfig(cfg aws.Config) *RekognitionLabelProvider {
	return NewRekognitionLabelProvider(awsrekognition.NewFromConfig(cfg))
}

// DetectLabels は画像バイト列からラベルを検出します。
// スロットリング系のエラーは domain.ErrThrottled でラップして返します。
func (r *RekognitionLabelProvider) DetectLabels(ctx context.Context, image []byte, opts entity.DetectOptions) ([]entity.Label, error) {
	in := &awsrekognition.DetectLabelsInput{
		Image: &types.Image{Bytes: image},
	}
	if opts.MaxLabels > 0 {
		in.MaxLabels = aws.Int32(int32(opts.MaxLabels))
	}
	if opts.MinConfidence > 0 {
		in.MinConfidence = aws.Float32(opts.MinConfidence)
	}

	out, err := r.client.DetectLabels(ctx, in)
	if err != nil {
		if isThrottling(err) {
			return nil, fmt.Errorf("rekognition DetectLabels: %w: %w", domain.ErrThrottled, err)
		}
		return nil, fmt.Errorf("rekognition DetectLabels: %w", err)
	}

	labels := make([]entity.Label, 0, len(out.Labels))
	for _, l := range out.Labels {
		if l.Name == nil {
			continue
		}
		labels = append(labels, entity.Label{
			Name:       aws.ToString(l.Name),
			Confidence: aws.ToFloat32(l.Confidence),
		})
	}
	return labels, nil
}

func isThrottling(err error) bool {
	var te *types.ThrottlingException
	var pe *types.ProvisionedThroughputExceededException
	var le *types.LimitExceededException
	return errors.As(err, &te) || errors.As(err, &pe) || errors.As(err, &le)
}
