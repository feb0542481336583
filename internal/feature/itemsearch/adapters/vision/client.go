// Package vision はGoogle Cloud Vision APIを使用したラベル検出クライアントを提供します。
package vision

import (
	"context"
	"fmt"

	gvision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"finditnow_backend/internal/feature/itemsearch/domain"
	"finditnow_backend/internal/feature/itemsearch/domain/entity"
	"finditnow_backend/internal/feature/itemsearch/usecase"
)

// ImageAnnotator はVision APIクライアントのうち本パッケージが利用する部分です。
type ImageAnnotator interface {
	BatchAnnotateImages(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest, opts ...gax.CallOption) (*visionpb.BatchAnnotateImagesResponse, error)
}

// VisionLabelProvider はGoogle Cloud Vision APIを使用してラベルを検出します。
type VisionLabelProvider struct {
	client ImageAnnotator
	closer func() error
}

// VisionLabelProviderがLabelProviderを実装していることをコンパイル時に検証します。
var _ usecase.LabelProvider = (*VisionLabelProvider)(nil)

// NewVisionLabelProvider はADCを使用してVisionLabelProviderの新しいインスタンスを生成します。
func NewVisionLabelProvider(ctx context.Context) (*VisionLabelProvider, error) {
	client, err := gvision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	return &VisionLabelProvider{client: client, closer: client.Close}, nil
}

// NewVisionLabelProviderWithClient は任意のImageAnnotatorを使用するVisionLabelProviderを生成します。
func NewVisionLabelProviderWithClient(client ImageAnnotator) *VisionLabelProvider {
	return &VisionLabelProvider{client: client}
}

// Close はVision APIクライアントを解放します。
func (v *VisionLabelProvider) Close() error {
	if v.closer == nil {
		return nil
	}
	return v.closer()
}

// DetectLabels は画像バイト列からラベルを検出します。
// Vision APIのスコア（0.0 ~ 1.0）は0 ~ 100に換算し、MinConfidence 未満のラベルは除外します。
func (v *VisionLabelProvider) DetectLabels(ctx context.Context, image []byte, opts entity.DetectOptions) ([]entity.Label, error) {
	feature := &visionpb.Feature{Type: visionpb.Feature_LABEL_DETECTION}
	if opts.MaxLabels > 0 {
		feature.MaxResults = int32(opts.MaxLabels)
	}
	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image:    &visionpb.Image{Content: image},
				Features: []*visionpb.Feature{feature},
			},
		},
	}

	resp, err := v.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		if status.Code(err) == codes.ResourceExhausted {
			return nil, fmt.Errorf("vision API request failed: %w: %w", domain.ErrThrottled, err)
		}
		return nil, fmt.Errorf("vision API request failed: %w", err)
	}

	if len(resp.Responses) == 0 {
		return []entity.Label{}, nil
	}

	r := resp.Responses[0]
	if r.Error != nil {
		if codes.Code(r.Error.Code) == codes.ResourceExhausted {
			return nil, fmt.Errorf("vision API error: %s: %w", r.Error.Message, domain.ErrThrottled)
		}
		return nil, fmt.Errorf("vision API error: %s", r.Error.Message)
	}

	labels := make([]entity.Label, 0, len(r.LabelAnnotations))
	for _, a := range r.LabelAnnotations {
		confidence := a.Score * 100
		if confidence < opts.MinConfidence {
			continue
		}
		labels = append(labels, entity.Label{Name: a.Description, Confidence: confidence})
		if opts.MaxLabels > 0 && len(labels) == opts.MaxLabels {
			break
		}
	}
	return labels, nil
}
