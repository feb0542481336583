// Package imaging はラベル検出前の画像正規化を提供します。
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"finditnow_backend/internal/feature/itemsearch/domain"
	"finditnow_backend/internal/feature/itemsearch/usecase"
)

const (
	// DefaultQuality はJPEGエンコードのデフォルト品質です。
	DefaultQuality = 75
	// DefaultMaxPixels はデコードを許可する画素数（幅×高さ）の既定の上限です。
	DefaultMaxPixels = 50_000_000
)

// JPEGNormalizer は画像をデコードし、不透明なRGBのJPEGへ再エンコードします。
type JPEGNormalizer struct {
	quality    int
	maxPixels  int64
	background color.Color
}

// JPEGNormalizerがImageNormalizerを実装していることをコンパイル時に検証します。
var _ usecase.ImageNormalizer = (*JPEGNormalizer)(nil)

// NewJPEGNormalizer はJPEGNormalizerの新しいインスタンスを生成します。
// quality が1~100の範囲外の場合は DefaultQuality を、maxPixels が0以下の場合は DefaultMaxPixels を使用します。
func NewJPEGNormalizer(quality, maxPixels int) *JPEGNormalizer {
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	return &JPEGNormalizer{quality: quality, maxPixels: int64(maxPixels), background: color.White}
}

// Normalize は画像をデコードし、透過チャンネルがあれば白背景に合成してJPEGで返します。
// デコードできない画像は domain.ErrUnsupportedImage を返します。
// ヘッダーの画素数が上限を超える画像はデコード前に domain.ErrImageTooLarge で拒否します。
func (n *JPEGNormalizer) Normalize(data []byte) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnsupportedImage, err)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > n.maxPixels {
		return nil, fmt.Errorf("%w: %dx%d pixels (max %d)", domain.ErrImageTooLarge, cfg.Width, cfg.Height, n.maxPixels)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnsupportedImage, err)
	}

	if hasAlpha(img) {
		img = n.flatten(img)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: n.quality}); err != nil {
		return nil, fmt.Errorf("failed to encode %s image as JPEG: %w", format, err)
	}
	return buf.Bytes(), nil
}

// flatten は画像を不透明な背景色の上に合成します。
func (n *JPEGNormalizer) flatten(img image.Image) image.Image {
	b := img.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, image.NewUniform(n.background), image.Point{}, draw.Src)
	draw.Draw(dst, b, img, b.Min, draw.Over)
	return dst
}

// hasAlpha は画像のカラーモデルが透過情報を持つかどうかを返します。
func hasAlpha(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	switch img.ColorModel() {
	case color.GrayModel, color.Gray16Model, color.YCbCrModel, color.CMYKModel:
		return false
	}
	return true
}
