// Package http は外部サービス呼び出し用のHTTPクライアントを提供します。
package http

import (
	"net"
	"net/http"
	"time"
)

// ClientConfig は外部サービス用HTTPクライアントの設定です。
type ClientConfig struct {
	// Timeout はリクエスト全体のタイムアウトです。0 の場合は DefaultTimeout を使用します。
	Timeout time.Duration
	// MaxConnsPerHost は同一ホストへの同時接続数の上限です。0 は無制限です。
	MaxConnsPerHost int
}

// DefaultTimeout はClientConfig.Timeoutの既定値です。
const DefaultTimeout = 30 * time.Second

// NewHTTPClient はS3やRekognitionの呼び出しに使うHTTPクライアントを作成します。
//
// 設定:
//   - Proxy: 環境変数（HTTP_PROXYなど）が設定されている場合に使用
//   - Dialer.Timeout: TCP接続タイムアウト
//   - MaxIdleConnsPerHost: コーパス走査のワーカーが接続を再利用できるように同一ホストのアイドル接続を保持
//   - TLSHandshakeTimeout: HTTPSハンドシェイクの最大時間
//
// 注意:
//   - http.DefaultClientにはタイムアウトがないため、常にこのクライアントを渡すこと
func NewHTTPClient(cfg ClientConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 32,
		MaxConnsPerHost:     cfg.MaxConnsPerHost,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
