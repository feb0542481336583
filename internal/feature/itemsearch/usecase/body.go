package usecase

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"unicode"

	"finditnow_backend/internal/feature/itemsearch/domain"
)

// DecodeBody はbase64でエンコードされたリクエストボディを画像バイト列にデコードします。
// 空白と改行は無視し、パディングの有無はどちらも受け付けます。
func DecodeBody(body []byte) ([]byte, error) {
	trimmed := bytes.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, body)
	if len(trimmed) == 0 {
		return nil, domain.ErrEmptyImage
	}

	enc := base64.StdEncoding
	if len(trimmed)%4 != 0 {
		enc = base64.RawStdEncoding
	}
	out := make([]byte, enc.DecodedLen(len(trimmed)))
	n, err := enc.Decode(out, trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidEncoding, err)
	}
	if n == 0 {
		return nil, domain.ErrEmptyImage
	}
	return out[:n], nil
}
