// Package gemini はGoogle Gemini APIを使用したラベル検出クライアントを提供します。
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"finditnow_backend/internal/feature/itemsearch/domain"
	"finditnow_backend/internal/feature/itemsearch/domain/entity"
	"finditnow_backend/internal/feature/itemsearch/usecase"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"
	// imageMIMEType は正規化後の画像フォーマットです。
	imageMIMEType = "image/jpeg"
	// labelPromptTemplate はラベル検出のプロンプトテンプレートです。
	labelPromptTemplate = `List up to %d short English nouns describing the objects and materials visible in this image, ` +
		`most prominent first. Respond only with a JSON array of objects of the form ` +
		`{"name": "<Title Case noun>", "confidence": <number from 0 to 100>}.`
)

// ContentGenerator はgenaiクライアントのうち本パッケージが利用する部分です。
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiLabelProvider はGoogle Gemini APIを使用してラベルを検出します。
type GeminiLabelProvider struct {
	models ContentGenerator
	model  string
}

// GeminiLabelProviderがLabelProviderを実装していることをコンパイル時に検証します。
var _ usecase.LabelProvider = (*GeminiLabelProvider)(nil)

// NewGeminiLabelProvider はADCを使用してGeminiLabelProviderの新しいインスタンスを生成します。
// 環境変数 GOOGLE_GENAI_USE_VERTEXAI, GOOGLE_CLOUD_PROJECT, GOOGLE_CLOUD_LOCATION（またはGOOGLE_API_KEY）が必要です。
func NewGeminiLabelProvider(ctx context.Context, model string) (*GeminiLabelProvider, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return NewGeminiLabelProviderWithGenerator(client.Models, model), nil
}

// NewGeminiLabelProviderWithGenerator は任意のContentGeneratorを使用するGeminiLabelProviderを生成します。
// model が空の場合は DefaultModel を使用します。
func NewGeminiLabelProviderWithGenerator(models ContentGenerator, model string) *GeminiLabelProvider {
	if model == "" {
		model = DefaultModel
	}
	return &GeminiLabelProvider{models: models, model: model}
}

type labelJSON struct {
	Name       string  `json:"name"`
	Confidence float32 `json:"confidence"`
}

// DetectLabels は画像バイト列からラベルを検出します。
func (g *GeminiLabelProvider) DetectLabels(ctx context.Context, image []byte, opts entity.DetectOptions) ([]entity.Label, error) {
	limit := opts.MaxLabels
	if limit <= 0 {
		limit = usecase.DefaultMaxLabels
	}
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image, imageMIMEType),
			genai.NewPartFromText(fmt.Sprintf(labelPromptTemplate, limit)),
		}, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}

	resp, err := g.models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		if isRateLimited(err) {
			return nil, fmt.Errorf("gemini API request failed: %w: %w", domain.ErrThrottled, err)
		}
		return nil, fmt.Errorf("gemini API request failed: %w", err)
	}

	return parseLabels(resp.Text(), limit, opts.MinConfidence)
}

// parseLabels はモデルの応答からラベルを取り出します。
// 名前の重複と空の名前は除外し、信頼度が minConfidence 未満のものも除外します。
func parseLabels(text string, limit int, minConfidence float32) ([]entity.Label, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var raw []labelJSON
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse gemini labels: %w", err)
	}

	seen := make(map[string]struct{}, len(raw))
	labels := make([]entity.Label, 0, len(raw))
	for _, l := range raw {
		name := strings.TrimSpace(l.Name)
		if name == "" || l.Confidence < minConfidence {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		labels = append(labels, entity.Label{Name: name, Confidence: l.Confidence})
		if len(labels) == limit {
			break
		}
	}
	return labels, nil
}

func isRateLimited(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return apiErrPtr.Code == http.StatusTooManyRequests
	}
	return false
}
