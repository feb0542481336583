// Package env は環境変数の読み込みヘルパーを提供します。
// 値が未設定または解析できない場合はフォールバック値を返し、解析失敗は警告ログに残します。
package env

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Load は .env ファイルを読み込みます。既に設定済みの環境変数は上書きしません。
// ファイルが存在しない場合はシステムの環境変数のみを使用します。
func Load(filenames ...string) {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	if err := godotenv.Load(filenames...); err != nil {
		slog.Info(".env not found; using system environment variables")
	}
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func invalid(key, value string, err error) {
	slog.Warn("invalid environment variable; using default", "key", key, "value", value, "error", err)
}

// String は文字列の環境変数を返します。
func String(key, fallback string) string {
	if v, ok := lookup(key); ok {
		return v
	}
	return fallback
}

// Int は整数の環境変数を返します。
func Int(key string, fallback int) int {
	v, ok := lookup(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		invalid(key, v, err)
		return fallback
	}
	return n
}

// Int64 は64ビット整数の環境変数を返します。
func Int64(key string, fallback int64) int64 {
	v, ok := lookup(key)
	if !ok {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		invalid(key, v, err)
		return fallback
	}
	return n
}

// Float は浮動小数点数の環境変数を返します。
func Float(key string, fallback float64) float64 {
	v, ok := lookup(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		invalid(key, v, err)
		return fallback
	}
	return f
}

// Bool は真偽値の環境変数を返します。strconv.ParseBool が受け付ける表記に対応します。
func Bool(key string, fallback bool) bool {
	v, ok := lookup(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		invalid(key, v, err)
		return fallback
	}
	return b
}

// Duration は "15s" や "200ms" 形式の環境変数を返します。
func Duration(key string, fallback time.Duration) time.Duration {
	v, ok := lookup(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		invalid(key, v, err)
		return fallback
	}
	return d
}
