// Package logging はslogロガーの構築とリクエストIDミドルウェアを提供します。
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel は "debug", "info", "warn", "error" をslog.Levelに変換します。不明な値はinfoです。
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger は指定されたレベルと形式（"json" または "text"）のロガーを作成します。
// w が nil の場合は標準エラー出力に書き込みます。
func NewLogger(level, format string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var h slog.Handler
	if strings.EqualFold(format, "text") {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(h)
}

// Setup はロガーを作成してデフォルトに設定します。
func Setup(level, format string) *slog.Logger {
	logger := NewLogger(level, format, nil)
	slog.SetDefault(logger)
	return logger
}
